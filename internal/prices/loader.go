package prices

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// Writer is the write side of the price store the loader needs.
type Writer interface {
	UpsertPrices(points []model.PricePoint) error
}

// Stats counts what a refresh run did.
type Stats struct {
	Symbols int
	Bars    int
	Failed  int
}

// Loader downloads daily bars and upserts them into the price store.
// Upserting makes a refresh safe to repeat over overlapping date ranges.
type Loader struct {
	Fetcher Fetcher
	Store   Writer
	Log     *logrus.Logger
}

// NewLoader creates a Loader.
func NewLoader(fetcher Fetcher, st Writer, log *logrus.Logger) *Loader {
	return &Loader{Fetcher: fetcher, Store: st, Log: log}
}

// Refresh loads the last lookbackDays of bars for every symbol. Per-symbol
// failures are logged and do not stop the rest of the batch.
func (l *Loader) Refresh(symbols []string, lookbackDays int) Stats {
	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)

	var stats Stats
	for _, symbol := range symbols {
		bars, err := l.Fetcher.FetchDailyBars(symbol, start, end)
		if err != nil {
			l.Log.WithField("symbol", symbol).WithError(err).Error("fetch daily bars failed")
			stats.Failed++
			continue
		}
		if err := l.Store.UpsertPrices(bars); err != nil {
			l.Log.WithField("symbol", symbol).WithError(err).Error("upsert prices failed")
			stats.Failed++
			continue
		}
		l.Log.WithFields(logrus.Fields{"symbol": symbol, "bars": len(bars)}).Info("prices refreshed")
		stats.Symbols++
		stats.Bars += len(bars)
	}
	return stats
}
