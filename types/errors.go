package types

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNoDataAvailable = errors.New("no price data available")
	ErrCorruptCache    = errors.New("corrupt price cache")
	ErrHourOutOfRange  = errors.New("hour out of range")
)

// NoDataError is returned by a fetcher when the price API could not deliver a
// usable document. Status is the HTTP status code, or 0 on transport errors.
type NoDataError struct {
	Date   string
	Status int
	Err    error
}

func (e *NoDataError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("no price data for %s: %v", e.Date, e.Err)
	}
	if e.Err == nil {
		return fmt.Sprintf("no price data for %s: status %d %s", e.Date, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("no price data for %s: status %d: %v", e.Date, e.Status, e.Err)
}

func (e *NoDataError) Unwrap() error {
	return e.Err
}

func (e *NoDataError) Is(target error) bool {
	return target == ErrNoDataAvailable
}
