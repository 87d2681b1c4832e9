package database

import (
	"context"
	"fmt"
	"time"

	"github.com/hszdev/i3-energy-tracker/hours"
	"github.com/hszdev/i3-energy-tracker/types"
)

type EnergyPriceRow struct {
	When  hours.DateHour
	Price int // øre per kWh including VAT
}

type DailyStatsRow struct {
	Date  string
	Hours int
	Min   int
	Max   int
	Avg   float64
}

func (d *Database) SaveEnergyPrices(ctx context.Context, rows []EnergyPriceRow) error {
	tx, err := d.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin saving energy prices: %w", err)
	}
	defer tx.Rollback()

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	for _, row := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO energy_price (date, hour, price, fetched_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(date, hour) DO UPDATE SET price = excluded.price, fetched_at = excluded.fetched_at`,
			row.When.Date,
			row.When.Hour,
			row.Price,
			fetchedAt)
		if err != nil {
			return fmt.Errorf("saving energy price for %s: %w", row.When, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit energy prices: %w", err)
	}
	return nil
}

// ArchivePrices stores a fetched day so it can be queried later.
func (d *Database) ArchivePrices(ctx context.Context, set types.DailyPriceSet) error {
	rows := make([]EnergyPriceRow, len(set.Prices))
	for i, p := range set.Prices {
		rows[i] = EnergyPriceRow{
			When:  hours.DateHour{Date: set.Date, Hour: uint8(p.Hour)},
			Price: p.PriceInclVat,
		}
	}
	return d.SaveEnergyPrices(ctx, rows)
}

func (d *Database) GetEnergyPrices(ctx context.Context, date string) ([]EnergyPriceRow, error) {
	rows, err := d.read.QueryContext(ctx, `SELECT
		date, hour, price
		FROM energy_price
		WHERE date = ?
		ORDER BY hour ASC`,
		date)
	if err != nil {
		return nil, fmt.Errorf("error when fetching energy prices: %w", err)
	}
	defer rows.Close()

	var prices []EnergyPriceRow
	for rows.Next() {
		var ep EnergyPriceRow
		if err := rows.Scan(&ep.When.Date, &ep.When.Hour, &ep.Price); err != nil {
			return nil, fmt.Errorf("error when scanning energy price row: %w", err)
		}
		prices = append(prices, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading energy price rows: %w", err)
	}

	return prices, nil
}

// GetDailyStats summarizes every archived date from the given date onwards.
func (d *Database) GetDailyStats(ctx context.Context, from string) ([]DailyStatsRow, error) {
	rows, err := d.read.QueryContext(ctx, `SELECT
		date, COUNT(*), MIN(price), MAX(price), AVG(price)
		FROM energy_price
		WHERE date >= ?
		GROUP BY date
		ORDER BY date ASC`,
		from)
	if err != nil {
		return nil, fmt.Errorf("error when fetching daily stats: %w", err)
	}
	defer rows.Close()

	var stats []DailyStatsRow
	for rows.Next() {
		var s DailyStatsRow
		if err := rows.Scan(&s.Date, &s.Hours, &s.Min, &s.Max, &s.Avg); err != nil {
			return nil, fmt.Errorf("error when scanning daily stats row: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading daily stats rows: %w", err)
	}

	return stats, nil
}

func (d *Database) PurgeEnergyPrice(ctx context.Context, before string) error {
	return d.purgeTable(ctx, "energy_price", before)
}
