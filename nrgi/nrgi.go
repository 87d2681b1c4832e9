package nrgi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hszdev/i3-energy-tracker/types"
)

const (
	DefaultBaseURL = "https://nrgi.dk/api/common/pricehistory"
	DefaultRegion  = "DK1"
)

var errEmptyPrices = errors.New("empty price list")

// Nrgi fetches day-ahead prices for a single price region.
type Nrgi struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
	region  string
}

func New(baseURL, region string, timeout time.Duration) *Nrgi {
	return &Nrgi{
		logger:  slog.Default().With("module", "nrgi"),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		region:  region,
	}
}

func (n *Nrgi) SetLogger(logger *slog.Logger) {
	n.logger = logger
}

func (n *Nrgi) SetHTTPClient(client *http.Client) {
	n.client = client
}

func (n *Nrgi) Fetch(ctx context.Context, date string) (types.DailyPriceSet, error) {
	u, err := n.url(date)
	if err != nil {
		return types.DailyPriceSet{}, err
	}

	n.logger.Debug("fetching energy prices", slog.String("url", u))

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return types.DailyPriceSet{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return types.DailyPriceSet{}, &types.NoDataError{Date: date, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.DailyPriceSet{}, &types.NoDataError{Date: date, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.DailyPriceSet{}, &types.NoDataError{Date: date, Status: resp.StatusCode, Err: err}
	}

	set, err := types.ParseDailyPriceSet(date, body)
	if err != nil {
		return types.DailyPriceSet{}, &types.NoDataError{Date: date, Status: resp.StatusCode, Err: err}
	}

	// Prices for tomorrow are answered with an empty list until they are
	// published. Caching that would pin the empty day forever.
	if len(set.Prices) == 0 {
		return types.DailyPriceSet{}, &types.NoDataError{Date: date, Status: resp.StatusCode, Err: errEmptyPrices}
	}

	n.logger.Debug("energy prices fetched", slog.String("date", date), slog.Int("hours", len(set.Prices)))

	return set, nil
}

func (n *Nrgi) url(date string) (string, error) {
	u, err := url.Parse(n.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", n.baseURL, err)
	}
	q := u.Query()
	q.Set("region", n.region)
	q.Set("date", date)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
