package nrgi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hszdev/i3-energy-tracker/types"
)

const body = `{"prices":[{"priceInclVat":250},{"priceInclVat":450}]}`

func TestFetch(t *testing.T) {
	var gotRegion, gotDate string
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		gotRegion = r.URL.Query().Get("region")
		gotDate = r.URL.Query().Get("date")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	n := New(srv.URL+"/api/common/pricehistory", "DK1", 5*time.Second)
	set, err := n.Fetch(context.Background(), "2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Errorf("got %d requests, wanted exactly 1", calls)
	}
	if gotRegion != "DK1" || gotDate != "2024-01-15" {
		t.Errorf("got region=%q date=%q, wanted DK1 and 2024-01-15", gotRegion, gotDate)
	}
	if len(set.Prices) != 2 || set.Prices[1].PriceInclVat != 450 {
		t.Errorf("unexpected prices %+v", set.Prices)
	}
	if string(set.Raw) != body {
		t.Errorf("got raw %q, wanted %q", set.Raw, body)
	}
}

func TestFetchNonOK(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusNoContent} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, err := New(srv.URL, "DK1", time.Second).Fetch(context.Background(), "2024-01-15")
		srv.Close()

		if !errors.Is(err, types.ErrNoDataAvailable) {
			t.Errorf("status %d: got %v, wanted ErrNoDataAvailable", status, err)
			continue
		}
		var noData *types.NoDataError
		if errors.As(err, &noData) && noData.Status != status {
			t.Errorf("got status %d, wanted %d", noData.Status, status)
		}
	}
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL, "DK1", time.Second).Fetch(context.Background(), "2024-01-15")
	if !errors.Is(err, types.ErrNoDataAvailable) {
		t.Fatalf("got %v, wanted ErrNoDataAvailable", err)
	}
	var noData *types.NoDataError
	if !errors.As(err, &noData) || noData.Status != 0 {
		t.Errorf("expected status 0 for a transport error, got %+v", noData)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(srv.URL, "DK1", 50*time.Millisecond).Fetch(context.Background(), "2024-01-15")
	if !errors.Is(err, types.ErrNoDataAvailable) {
		t.Errorf("got %v, wanted ErrNoDataAvailable", err)
	}
}

func TestFetchInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "DK1", time.Second).Fetch(context.Background(), "2024-01-15")
	if !errors.Is(err, types.ErrNoDataAvailable) {
		t.Errorf("got %v, wanted ErrNoDataAvailable", err)
	}
}

func TestFetchEmptyPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prices":[]}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "DK1", time.Second).Fetch(context.Background(), "2024-01-16")
	if !errors.Is(err, types.ErrNoDataAvailable) {
		t.Errorf("got %v, wanted ErrNoDataAvailable for an empty day", err)
	}
}
