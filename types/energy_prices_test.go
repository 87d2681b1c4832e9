package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseDailyPriceSet(t *testing.T) {
	raw := []byte(`{"prices":[{"priceInclVat":250,"hour":"00"},{"priceInclVat":123},{"priceInclVat":-12}]}`)
	set, err := ParseDailyPriceSet("2024-01-15", raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Date != "2024-01-15" {
		t.Errorf("got date %q, wanted %q", set.Date, "2024-01-15")
	}
	if len(set.Prices) != 3 {
		t.Fatalf("got %d prices, wanted 3", len(set.Prices))
	}
	want := []HourlyPrice{{Hour: 0, PriceInclVat: 250}, {Hour: 1, PriceInclVat: 123}, {Hour: 2, PriceInclVat: -12}}
	for i, w := range want {
		if set.Prices[i] != w {
			t.Errorf("got %+v at %d, wanted %+v", set.Prices[i], i, w)
		}
	}
	if string(set.Raw) != string(raw) {
		t.Errorf("raw body was not kept")
	}
}

func TestParseDailyPriceSetInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "<html>oops</html>"},
		{name: "truncated", raw: `{"prices":[{"priceInclVat":2`},
		{name: "missing prices", raw: `{"foo":1}`},
		{name: "wrong type", raw: `{"prices":[{"priceInclVat":"cheap"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDailyPriceSet("2024-01-15", []byte(tt.raw)); err == nil {
				t.Errorf("expected an error for %q", tt.raw)
			}
		})
	}
}

func TestPriceAt(t *testing.T) {
	set := DailyPriceSet{Date: "2024-01-15", Prices: []HourlyPrice{{Hour: 0, PriceInclVat: 10}, {Hour: 1, PriceInclVat: 20}}}

	p, err := set.PriceAt(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PriceInclVat != 20 {
		t.Errorf("got %d, wanted 20", p.PriceInclVat)
	}

	for _, hour := range []int{-1, 2, 24} {
		if _, err := set.PriceAt(hour); !errors.Is(err, ErrHourOutOfRange) {
			t.Errorf("PriceAt(%d) got %v, wanted ErrHourOutOfRange", hour, err)
		}
	}
}

func TestNoDataError(t *testing.T) {
	err := fmt.Errorf("fetching: %w", &NoDataError{Date: "2024-01-15", Status: 503})
	if !errors.Is(err, ErrNoDataAvailable) {
		t.Errorf("expected error to match ErrNoDataAvailable")
	}

	var noData *NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("expected error to be a *NoDataError")
	}
	if noData.Status != 503 {
		t.Errorf("got status %d, wanted 503", noData.Status)
	}
	if got, want := noData.Error(), "no price data for 2024-01-15: status 503 Service Unavailable"; got != want {
		t.Errorf("got %q, wanted %q", got, want)
	}
}
