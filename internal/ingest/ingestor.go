package ingest

import (
	"github.com/sirupsen/logrus"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/session"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/store"
)

// Stats counts what the ingestion run did per category. A batch never fails
// wholesale: per-item problems increment Failed, an unreachable feed
// increments FetchErrors, and the run continues either way.
type Stats struct {
	Fetched     int
	Inserted    int
	Skipped     int
	Failed      int
	FetchErrors int
}

func (s Stats) add(other Stats) Stats {
	return Stats{
		Fetched:     s.Fetched + other.Fetched,
		Inserted:    s.Inserted + other.Inserted,
		Skipped:     s.Skipped + other.Skipped,
		Failed:      s.Failed + other.Failed,
		FetchErrors: s.FetchErrors + other.FetchErrors,
	}
}

// Ingestor wires the fetch, score, session-assign and record steps for a
// batch of symbols. A single active instance per deployment is assumed;
// dedup across concurrent same-identifier writers is not guaranteed.
type Ingestor struct {
	Fetcher  Fetcher
	Scorer   Scorer
	Assigner *session.Assigner
	Store    store.Store
	Log      *logrus.Logger
}

// NewIngestor creates an Ingestor.
func NewIngestor(fetcher Fetcher, scorer Scorer, assigner *session.Assigner, st store.Store, log *logrus.Logger) *Ingestor {
	return &Ingestor{
		Fetcher:  fetcher,
		Scorer:   scorer,
		Assigner: assigner,
		Store:    st,
		Log:      log,
	}
}

// Run ingests news for every symbol. Fetch failures for one symbol are
// logged and do not stop the others; the same run can be repeated safely
// because recording is idempotent per item identifier.
func (in *Ingestor) Run(symbols []string) Stats {
	var total Stats
	for _, symbol := range symbols {
		stats := in.runSymbol(symbol)
		in.Log.WithFields(logrus.Fields{
			"symbol":       symbol,
			"fetched":      stats.Fetched,
			"inserted":     stats.Inserted,
			"skipped":      stats.Skipped,
			"failed":       stats.Failed,
			"fetch_errors": stats.FetchErrors,
		}).Info("symbol ingested")
		total = total.add(stats)
	}
	return total
}

func (in *Ingestor) runSymbol(symbol string) Stats {
	items, err := in.Fetcher.FetchNews(symbol)
	if err != nil {
		in.Log.WithField("symbol", symbol).WithError(err).Error("fetch news failed")
		return Stats{FetchErrors: 1}
	}

	stats := Stats{Fetched: len(items)}
	for _, item := range items {
		switch in.processItem(symbol, item) {
		case store.ResultInserted:
			stats.Inserted++
		case store.ResultSkipped:
			stats.Skipped++
		default:
			stats.Failed++
		}
	}
	return stats
}

// resultFailed marks items that could not be processed at all.
const resultFailed store.RecordResult = -1

func (in *Ingestor) processItem(symbol string, item NewsItem) store.RecordResult {
	itemLog := in.Log.WithFields(logrus.Fields{"symbol": symbol, "id": item.ID})

	// Pre-check before paying for a scoring call. An error here means the
	// item's state is unknown: assuming "not present" could insert a
	// duplicate, so the item is treated as failed and retried next run.
	exists, err := in.Store.HasEvent(item.ID)
	if err != nil {
		itemLog.WithError(err).Error("existence check failed")
		return resultFailed
	}
	if exists {
		return store.ResultSkipped
	}

	sentiment, err := in.Scorer.Score(symbol, item.Title, item.Description)
	if err != nil {
		itemLog.WithError(err).Error("sentiment scoring failed")
		return resultFailed
	}

	ev := &model.Event{
		ID:          item.ID,
		Symbol:      symbol,
		PublishedAt: item.PublishedAt,
		Session:     in.Assigner.Assign(item.PublishedAt),
		Title:       item.Title,
		Link:        item.Link,
		Body:        item.Description,
		Sentiment:   sentiment,
	}

	result, err := in.Store.RecordEvent(ev)
	if err != nil {
		itemLog.WithError(err).Error("record event failed")
		return resultFailed
	}
	return result
}
