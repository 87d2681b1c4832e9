package types

import (
	"context"
	"encoding/json"
	"fmt"
)

type HourlyPrice struct {
	Hour         int `json:"-"`
	PriceInclVat int `json:"priceInclVat"` // Price in øre per kWh including VAT
}

// DailyPriceSet is the price listing for one calendar date, one entry per
// hour of the day in ascending order. Raw holds the response body exactly as
// it was received and is what gets persisted.
type DailyPriceSet struct {
	Date   string
	Prices []HourlyPrice
	Raw    []byte
}

type priceDocument struct {
	Prices []HourlyPrice `json:"prices"`
}

func ParseDailyPriceSet(date string, raw []byte) (DailyPriceSet, error) {
	var doc priceDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return DailyPriceSet{}, fmt.Errorf("decode prices for %s: %w", date, err)
	}
	if doc.Prices == nil {
		return DailyPriceSet{}, fmt.Errorf("decode prices for %s: missing prices field", date)
	}

	for i := range doc.Prices {
		doc.Prices[i].Hour = i
	}

	return DailyPriceSet{Date: date, Prices: doc.Prices, Raw: raw}, nil
}

func (d DailyPriceSet) PriceAt(hour int) (HourlyPrice, error) {
	if hour < 0 || hour >= len(d.Prices) {
		return HourlyPrice{}, fmt.Errorf("hour %d on %s (%d entries): %w", hour, d.Date, len(d.Prices), ErrHourOutOfRange)
	}
	return d.Prices[hour], nil
}

type EnergyPriceFetcher interface {
	Fetch(ctx context.Context, date string) (DailyPriceSet, error)
}
