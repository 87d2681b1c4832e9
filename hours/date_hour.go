package hours

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	hourLayout = "2006-01-02 15"
)

// Day-ahead prices are published in the market's local time.
var marketLocation *time.Location

func init() {
	var err error
	marketLocation, err = time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		panic(fmt.Sprintf("failed to load Copenhagen location: %v", err))
	}
}

func SetMarketTimezone(timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %v", timezone, err)
	}
	marketLocation = loc
	return nil
}

func MarketLocation() *time.Location {
	return marketLocation
}

type DateHour struct {
	Date string
	Hour uint8
}

func (dh DateHour) String() string {
	return fmt.Sprintf("%s %02d", dh.Date, dh.Hour)
}

func (dh DateHour) Add(hours int) DateHour {
	t, err := time.ParseInLocation(hourLayout, dh.String(), time.UTC)
	if err != nil {
		return dh
	}

	t = t.Add(time.Duration(hours) * time.Hour)
	return DateHour{
		Date: t.Format(dateLayout),
		Hour: uint8(t.Hour()),
	}
}

func (dh DateHour) Sub(hours int) DateHour {
	return dh.Add(-hours)
}

func (dh DateHour) IsZero() bool {
	return dh.Date == "" && dh.Hour == 0
}

// FromTime converts t to the market's wall clock date and hour.
func FromTime(t time.Time) DateHour {
	if t.IsZero() {
		return DateHour{}
	}
	t = t.In(marketLocation)
	return DateHour{
		Date: t.Format(dateLayout),
		Hour: uint8(t.Hour()),
	}
}

func FromClock(c Clock) DateHour {
	return FromTime(c.Now())
}

// AddDays shifts an ISO date by whole calendar days.
func AddDays(date string, days int) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.AddDate(0, 0, days).Format(dateLayout), nil
}

func ValidDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}
