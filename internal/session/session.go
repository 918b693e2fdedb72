// Package session maps timestamped news events to the trading session they
// should be attributed to.
package session

import (
	"time"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/calendar"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// DefaultCutoffHour is the market close used to split a local day: events at
// or after this hour belong to the next session.
const DefaultCutoffHour = 16

// Assigner computes the trading session for a timestamp. It is pure and
// safe for concurrent use.
type Assigner struct {
	cal        *calendar.Calendar
	loc        *time.Location
	cutoffHour int
}

// NewAssigner creates an Assigner for one market. cutoffHour <= 0 selects
// DefaultCutoffHour.
func NewAssigner(cal *calendar.Calendar, loc *time.Location, cutoffHour int) *Assigner {
	if cutoffHour <= 0 {
		cutoffHour = DefaultCutoffHour
	}
	return &Assigner{cal: cal, loc: loc, cutoffHour: cutoffHour}
}

// Assign returns the session date for ts.
//
// The timestamp is viewed in the market's local timezone. Strictly before
// the cutoff it belongs to its own calendar date; at or exactly on the
// cutoff it rolls to the next calendar date. The candidate then skips
// forward over weekends and holidays until it lands on a trading day. A
// candidate that is already a trading day is returned unchanged; there is
// no look-back.
func (a *Assigner) Assign(ts time.Time) time.Time {
	local := ts.In(a.loc)
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), a.cutoffHour, 0, 0, 0, a.loc)

	day := model.DateOf(local)
	if !local.Before(cutoff) {
		day = day.AddDate(0, 0, 1)
	}
	for !a.cal.IsTradingDay(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// NextTradingDay returns the first trading day strictly after d.
func (a *Assigner) NextTradingDay(d time.Time) time.Time {
	next := model.DateOf(d).AddDate(0, 0, 1)
	for !a.cal.IsTradingDay(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
