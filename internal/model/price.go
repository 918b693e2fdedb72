package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one daily bar for a symbol, keyed by (symbol, session date).
// AdjClose is the split/dividend adjusted close used for return computation.
type PricePoint struct {
	Symbol   string
	Session  time.Time
	Open     decimal.Decimal
	High     decimal.Decimal
	Low      decimal.Decimal
	Close    decimal.Decimal
	AdjClose decimal.Decimal
	Volume   int64
}

// SessionAggregate holds the sentiment extremes for one (symbol, session)
// group: the most negative score (or 0) and the most positive score (or 0),
// financial statements excluded.
type SessionAggregate struct {
	Symbol   string
	Session  time.Time
	MinScore int
	MaxScore int
}

// FeatureRow is one regression-ready observation: sentiment extremes joined
// with the forward percentage-change windows of the target symbol and the
// benchmark index, anchored one session before Session.
// Field order matters to downstream consumers and must not be reordered.
type FeatureRow struct {
	Symbol           string
	Session          time.Time
	MinScore         int
	MaxScore         int
	Price            decimal.Decimal // adjusted close on Session itself
	Changes          []decimal.Decimal
	BenchmarkChanges []decimal.Decimal
}
