package model

import "time"

// Category classifies a news item.
type Category string

const (
	// CategoryStory is a regular market-moving news article.
	CategoryStory Category = "story"
	// CategoryFinancialStatement marks scheduled disclosures (quarterly or
	// annual reports). These are excluded from sentiment aggregation.
	CategoryFinancialStatement Category = "fs"
)

// Sentiment is the scoring result attached to an event before it is stored.
type Sentiment struct {
	Score    int // negative=-1, neutral=0, positive=1
	Category Category
	Comment  string
}

// Event is a single news item attributed to a trading session.
// ID is the feed-supplied identifier, stable across re-fetches; it is the
// sole deduplication key.
type Event struct {
	ID          string
	Symbol      string
	PublishedAt time.Time // timezone-aware feed timestamp
	Session     time.Time // trading session the event is attributed to
	Title       string
	Link        string
	Body        string
	Sentiment   Sentiment
}
