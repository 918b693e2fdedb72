package calendar

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// Calendar is an immutable set of exchange holidays for one market.
// It is loaded once at startup and safe for unsynchronized concurrent reads.
type Calendar struct {
	holidays map[time.Time]struct{}
}

// New builds a Calendar from explicit holiday dates. Time-of-day components
// are discarded.
func New(dates []time.Time) *Calendar {
	holidays := make(map[time.Time]struct{}, len(dates))
	for _, d := range dates {
		holidays[model.DateOf(d)] = struct{}{}
	}
	return &Calendar{holidays: holidays}
}

// Load reads holiday dates from a CSV file with a holiday_date column.
// A malformed file is an error: the caller must not fall back to an empty
// calendar, because that would silently turn every holiday into a trading
// day.
func Load(path string) (*Calendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open calendar file: %w", err)
	}
	defer f.Close()

	cal, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse calendar file %s: %w", path, err)
	}
	return cal, nil
}

func parse(r io.Reader) (*Calendar, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := -1
	for i, name := range header {
		if name == "holiday_date" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("missing holiday_date column in header %v", header)
	}

	var dates []time.Time
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		d, err := time.Parse(model.DateLayout, record[col])
		if err != nil {
			return nil, fmt.Errorf("parse holiday date %q: %w", record[col], err)
		}
		dates = append(dates, d)
	}
	return New(dates), nil
}

// IsHoliday reports whether the calendar date of d is a listed holiday.
// Dates not in the loaded set are never holidays.
func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays[model.DateOf(d)]
	return ok
}

// IsTradingDay reports whether d is a weekday and not a holiday.
// Saturday and Sunday are non-trading regardless of the loaded set.
func (c *Calendar) IsTradingDay(d time.Time) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(d)
}

// Len returns the number of loaded holidays.
func (c *Calendar) Len() int { return len(c.holidays) }
