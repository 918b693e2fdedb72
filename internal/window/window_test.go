package window

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/store"
)

func seedPrices(t *testing.T, symbol string, start time.Time, adjCloses ...string) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	points := make([]model.PricePoint, 0, len(adjCloses))
	for i, c := range adjCloses {
		points = append(points, model.PricePoint{
			Symbol:   symbol,
			Session:  start.AddDate(0, 0, i),
			AdjClose: decimal.RequireFromString(c),
		})
	}
	require.NoError(t, s.UpsertPrices(points))
	return s
}

func TestPriceChangeWindow(t *testing.T) {
	// Six consecutive sessions, baseline 100 on the session before the
	// target date.
	s := seedPrices(t, "X", model.Date(2023, 1, 2),
		"100.00", "101.00", "99.00", "102.00", "103.00", "98.00")
	b := NewBuilder(s, 5)

	prices, changes, err := b.PriceChangeWindow("X", model.Date(2023, 1, 3))
	require.NoError(t, err)

	require.Len(t, prices, 6)
	require.Len(t, changes, 5)

	want := []string{"1", "-1", "2", "3", "-2"}
	for i, w := range want {
		assert.True(t, changes[i].Equal(decimal.RequireFromString(w)),
			"change %d: want %s, got %s", i, w, changes[i])
	}
	assert.True(t, prices[0].Equal(decimal.RequireFromString("100.00")))
}

func TestPriceChangeWindow_Rounding(t *testing.T) {
	// 100 -> 100.123456 is +0.123456%, rounded to 0.1235.
	s := seedPrices(t, "X", model.Date(2023, 1, 2),
		"100", "100.123456", "100", "100", "100", "100")
	b := NewBuilder(s, 5)

	_, changes, err := b.PriceChangeWindow("X", model.Date(2023, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, "0.1235", changes[0].StringFixed(4))
}

func TestPriceChangeWindow_TieRoundsAwayFromZero(t *testing.T) {
	// Exact ties at the fifth decimal: +0.00005% -> 0.0001, -0.00005% -> -0.0001.
	s := seedPrices(t, "X", model.Date(2023, 1, 2),
		"100", "100.00005", "99.99995", "100", "100", "100")
	b := NewBuilder(s, 5)

	_, changes, err := b.PriceChangeWindow("X", model.Date(2023, 1, 3))
	require.NoError(t, err)
	assert.Equal(t, "0.0001", changes[0].StringFixed(4))
	assert.Equal(t, "-0.0001", changes[1].StringFixed(4))
}

func TestPriceChangeWindow_InsufficientHistory(t *testing.T) {
	// Only five sessions stored: one short of window+1.
	s := seedPrices(t, "X", model.Date(2023, 1, 2),
		"100", "101", "99", "102", "103")
	b := NewBuilder(s, 5)

	_, _, err := b.PriceChangeWindow("X", model.Date(2023, 1, 3))
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestPriceChangeWindow_NoPriorSession(t *testing.T) {
	s := seedPrices(t, "X", model.Date(2023, 1, 2),
		"100", "101", "99", "102", "103", "98")
	b := NewBuilder(s, 5)

	// Target date is the earliest stored session: nothing strictly before.
	_, _, err := b.PriceChangeWindow("X", model.Date(2023, 1, 2))
	assert.ErrorIs(t, err, ErrInsufficientHistory)

	_, err = b.PreviousSession("UNKNOWN", model.Date(2023, 1, 3))
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestPriceChangeWindow_ZeroBaseline(t *testing.T) {
	s := seedPrices(t, "X", model.Date(2023, 1, 2),
		"0", "101", "99", "102", "103", "98")
	b := NewBuilder(s, 5)

	_, _, err := b.PriceChangeWindow("X", model.Date(2023, 1, 3))
	assert.ErrorIs(t, err, ErrInvalidPriceData)
	assert.False(t, errors.Is(err, ErrInsufficientHistory))
}

func TestNewBuilder_DefaultLength(t *testing.T) {
	b := NewBuilder(store.NewMemoryStore(), 0)
	assert.Equal(t, DefaultLength, b.Length())
}
