// Package window builds forward-looking percentage price-change windows
// anchored one session before a news-attributed trading session.
package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// DefaultLength is the number of forward sessions in a window.
const DefaultLength = 5

var (
	// ErrInsufficientHistory signals that the price store does not hold
	// enough sessions to build the window. Callers skip the affected
	// session; this is a filter condition, not a failure.
	ErrInsufficientHistory = errors.New("insufficient price history")

	// ErrInvalidPriceData signals corrupted upstream data, such as a zero
	// baseline price. It must never be masked by producing Inf or NaN.
	ErrInvalidPriceData = errors.New("invalid price data")
)

// PriceReader is the read side of the price store the builder depends on.
type PriceReader interface {
	// PreviousSession returns the latest stored session strictly before
	// `before`, or the zero time when none exists.
	PreviousSession(symbol string, before time.Time) (time.Time, error)

	// PricesFrom returns up to limit bars at or after `from`, ascending.
	PricesFrom(symbol string, from time.Time, limit int) ([]model.PricePoint, error)
}

// Builder computes price-change windows from stored daily bars.
type Builder struct {
	prices PriceReader
	length int
}

// NewBuilder creates a Builder. length <= 0 selects DefaultLength.
func NewBuilder(prices PriceReader, length int) *Builder {
	if length <= 0 {
		length = DefaultLength
	}
	return &Builder{prices: prices, length: length}
}

// Length returns the configured window length.
func (b *Builder) Length() int { return b.length }

// PreviousSession returns the latest stored session strictly before the
// given date for the symbol, or ErrInsufficientHistory when the symbol has
// no earlier bars.
func (b *Builder) PreviousSession(symbol string, date time.Time) (time.Time, error) {
	prev, err := b.prices.PreviousSession(symbol, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("previous session for %s: %w", symbol, err)
	}
	if prev.IsZero() {
		return time.Time{}, fmt.Errorf("%w: no session before %s for %s",
			ErrInsufficientHistory, date.Format(model.DateLayout), symbol)
	}
	return prev, nil
}

// PriceChangeWindow returns length+1 adjusted closes starting at the session
// before `date`, and the length percentage changes of each subsequent close
// against the first one, rounded to 4 decimal places with ties at the
// fifth decimal rounded away from zero.
//
// Fewer than length+1 stored sessions yield ErrInsufficientHistory. A zero
// baseline yields ErrInvalidPriceData.
func (b *Builder) PriceChangeWindow(symbol string, date time.Time) (prices, changes []decimal.Decimal, err error) {
	prev, err := b.PreviousSession(symbol, date)
	if err != nil {
		return nil, nil, err
	}

	points, err := b.prices.PricesFrom(symbol, prev, b.length+1)
	if err != nil {
		return nil, nil, fmt.Errorf("read price window for %s: %w", symbol, err)
	}
	if len(points) < b.length+1 {
		return nil, nil, fmt.Errorf("%w: %d of %d sessions for %s from %s",
			ErrInsufficientHistory, len(points), b.length+1, symbol, prev.Format(model.DateLayout))
	}

	baseline := points[0].AdjClose
	if baseline.IsZero() {
		return nil, nil, fmt.Errorf("%w: zero baseline for %s on %s",
			ErrInvalidPriceData, symbol, prev.Format(model.DateLayout))
	}

	hundred := decimal.NewFromInt(100)
	prices = make([]decimal.Decimal, 0, len(points))
	changes = make([]decimal.Decimal, 0, b.length)
	for i, p := range points {
		prices = append(prices, p.AdjClose)
		if i == 0 {
			continue
		}
		pct := p.AdjClose.Sub(baseline).Mul(hundred).Div(baseline).Round(4)
		changes = append(changes, pct)
	}
	return prices, changes, nil
}
