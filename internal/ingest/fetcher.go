// Package ingest pulls news items from a feed, scores their sentiment, and
// records them against trading sessions exactly once per item.
package ingest

import "time"

// NewsItem is one raw feed entry before scoring and session assignment.
type NewsItem struct {
	ID          string // feed-supplied identifier, stable across re-fetches
	Title       string
	Link        string
	Description string
	PublishedAt time.Time
}

// Fetcher defines the interface for fetching news items per symbol.
type Fetcher interface {
	FetchNews(symbol string) ([]NewsItem, error)
	Name() string
}

// MockFetcher returns fixed items for development and testing.
type MockFetcher struct {
	Items map[string][]NewsItem
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchNews(symbol string) ([]NewsItem, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Items[symbol], nil
}
