// Package prices loads daily adjusted-close bars into the price store.
// The core only ever reads what this package writes.
package prices

import (
	"time"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// Fetcher defines the interface for downloading daily bars.
type Fetcher interface {
	FetchDailyBars(symbol string, start, end time.Time) ([]model.PricePoint, error)
	Name() string
}

// MockFetcher returns fixed bars for development and testing.
type MockFetcher struct {
	Bars map[string][]model.PricePoint
	Err  error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol string, _, _ time.Time) ([]model.PricePoint, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars[symbol], nil
}
