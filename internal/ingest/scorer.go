package ingest

import "github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"

// Scorer defines the interface for sentiment scoring of one news item.
type Scorer interface {
	Score(symbol, title, body string) (model.Sentiment, error)
	Name() string
}

// StaticScorer returns a fixed sentiment for every item. Used in tests and
// as the neutral fallback when no scoring backend is configured.
type StaticScorer struct {
	Sentiment model.Sentiment
	Err       error
}

func (s *StaticScorer) Name() string { return "static" }

func (s *StaticScorer) Score(_, _, _ string) (model.Sentiment, error) {
	if s.Err != nil {
		return model.Sentiment{}, s.Err
	}
	sent := s.Sentiment
	if sent.Category == "" {
		sent.Category = model.CategoryStory
	}
	return sent, nil
}
