package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/calendar"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestAssign_CutoffBoundary(t *testing.T) {
	loc := newYork(t)
	a := NewAssigner(calendar.New(nil), loc, DefaultCutoffHour)

	tests := []struct {
		name string
		ts   time.Time
		want time.Time
	}{
		{
			// 2023-01-04 is a Wednesday.
			name: "morning stays on same day",
			ts:   time.Date(2023, 1, 4, 9, 30, 0, 0, loc),
			want: model.Date(2023, 1, 4),
		},
		{
			name: "one second before close stays",
			ts:   time.Date(2023, 1, 4, 15, 59, 59, 0, loc),
			want: model.Date(2023, 1, 4),
		},
		{
			name: "exactly at close rolls forward",
			ts:   time.Date(2023, 1, 4, 16, 0, 0, 0, loc),
			want: model.Date(2023, 1, 5),
		},
		{
			name: "after close rolls forward",
			ts:   time.Date(2023, 1, 4, 18, 45, 0, 0, loc),
			want: model.Date(2023, 1, 5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Assign(tt.ts))
		})
	}
}

func TestAssign_ConvertsToMarketTimezone(t *testing.T) {
	loc := newYork(t)
	a := NewAssigner(calendar.New(nil), loc, DefaultCutoffHour)

	// 21:30 UTC on a Wednesday is 16:30 in New York: past the close.
	ts := time.Date(2023, 1, 4, 21, 30, 0, 0, time.UTC)
	assert.Equal(t, model.Date(2023, 1, 5), a.Assign(ts))

	// 14:00 UTC is 09:00 in New York: same session.
	ts = time.Date(2023, 1, 4, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, model.Date(2023, 1, 4), a.Assign(ts))
}

func TestAssign_WeekendSkip(t *testing.T) {
	loc := newYork(t)
	a := NewAssigner(calendar.New(nil), loc, DefaultCutoffHour)

	// Friday 2023-01-06 after close lands on Monday 2023-01-09.
	ts := time.Date(2023, 1, 6, 17, 0, 0, 0, loc)
	assert.Equal(t, model.Date(2023, 1, 9), a.Assign(ts))

	// Saturday morning also lands on Monday.
	ts = time.Date(2023, 1, 7, 10, 0, 0, 0, loc)
	assert.Equal(t, model.Date(2023, 1, 9), a.Assign(ts))
}

func TestAssign_HolidaySkip(t *testing.T) {
	loc := newYork(t)
	// 2023-01-02 is a Monday trading day here; 2023-01-03 is a declared
	// holiday; 2023-01-04 is a Wednesday trading day.
	cal := calendar.New([]time.Time{model.Date(2023, 1, 3)})
	a := NewAssigner(cal, loc, DefaultCutoffHour)

	ts := time.Date(2023, 1, 2, 16, 5, 0, 0, loc)
	assert.Equal(t, model.Date(2023, 1, 4), a.Assign(ts))
}

func TestAssign_ValidCandidateReturnedUnchanged(t *testing.T) {
	loc := newYork(t)
	// Adjacent holidays around a valid Wednesday must not move it.
	cal := calendar.New([]time.Time{model.Date(2023, 1, 3), model.Date(2023, 1, 5)})
	a := NewAssigner(cal, loc, DefaultCutoffHour)

	ts := time.Date(2023, 1, 4, 11, 0, 0, 0, loc)
	assert.Equal(t, model.Date(2023, 1, 4), a.Assign(ts))
}

func TestNextTradingDay(t *testing.T) {
	loc := newYork(t)
	cal := calendar.New([]time.Time{model.Date(2023, 1, 9)})
	a := NewAssigner(cal, loc, DefaultCutoffHour)

	// Friday -> weekend -> Monday holiday -> Tuesday.
	assert.Equal(t, model.Date(2023, 1, 10), a.NextTradingDay(model.Date(2023, 1, 6)))
}
