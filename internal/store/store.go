// Package store persists news events and daily price bars.
package store

import (
	"time"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// RecordResult reports what RecordEvent did with an event.
type RecordResult int

const (
	// ResultInserted means the event was written.
	ResultInserted RecordResult = iota
	// ResultSkipped means an event with the same ID already exists and
	// nothing was written.
	ResultSkipped
)

func (r RecordResult) String() string {
	if r == ResultSkipped {
		return "skipped"
	}
	return "inserted"
}

// Store is the persistence boundary for events and prices.
//
// RecordEvent is idempotent per event ID: re-recording an already stored ID
// returns ResultSkipped and performs no write. An error from the existence
// check means the event's state is unknown; the caller must treat the event
// as failed rather than risk a duplicate insert. An insert error leaves no
// partial row behind, so the event can be retried on a later run.
//
// Price bars are upserted by (symbol, session date); events are never
// updated after insertion.
type Store interface {
	RecordEvent(ev *model.Event) (RecordResult, error)
	HasEvent(id string) (bool, error)

	UpsertPrices(points []model.PricePoint) error

	// PreviousSession returns the latest stored session strictly before
	// `before` for the symbol, or the zero time when no history exists.
	PreviousSession(symbol string, before time.Time) (time.Time, error)

	// PricesFrom returns up to limit bars for the symbol at or after
	// `from`, ordered by session date ascending.
	PricesFrom(symbol string, from time.Time, limit int) ([]model.PricePoint, error)

	// SessionAggregates groups stored events for the symbol by session and
	// returns sentiment extremes per session, ordered by session date
	// ascending. Financial statements are excluded from the grouping.
	SessionAggregates(symbol string) ([]model.SessionAggregate, error)

	Close() error
}
