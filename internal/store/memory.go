package store

import (
	"sort"
	"sync"
	"time"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// MemoryStore is an in-memory Store used for tests and dry runs when no
// SQLite path is configured. Nothing survives process exit.
type MemoryStore struct {
	mu     sync.Mutex
	events map[string]model.Event
	prices map[string]map[string]model.PricePoint // symbol -> session date -> bar
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string]model.Event),
		prices: make(map[string]map[string]model.PricePoint),
	}
}

func (m *MemoryStore) HasEvent(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[id]
	return ok, nil
}

func (m *MemoryStore) RecordEvent(ev *model.Event) (RecordResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[ev.ID]; ok {
		return ResultSkipped, nil
	}
	m.events[ev.ID] = *ev
	return ResultInserted, nil
}

func (m *MemoryStore) UpsertPrices(points []model.PricePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		bySession, ok := m.prices[p.Symbol]
		if !ok {
			bySession = make(map[string]model.PricePoint)
			m.prices[p.Symbol] = bySession
		}
		bySession[p.Session.Format(model.DateLayout)] = p
	}
	return nil
}

func (m *MemoryStore) PreviousSession(symbol string, before time.Time) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cut := before.Format(model.DateLayout)
	var latest string
	for day := range m.prices[symbol] {
		if day < cut && day > latest {
			latest = day
		}
	}
	if latest == "" {
		return time.Time{}, nil
	}
	return time.Parse(model.DateLayout, latest)
}

func (m *MemoryStore) PricesFrom(symbol string, from time.Time, limit int) ([]model.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := from.Format(model.DateLayout)
	var days []string
	for day := range m.prices[symbol] {
		if day >= start {
			days = append(days, day)
		}
	}
	sort.Strings(days)
	if len(days) > limit {
		days = days[:limit]
	}

	points := make([]model.PricePoint, 0, len(days))
	for _, day := range days {
		points = append(points, m.prices[symbol][day])
	}
	return points, nil
}

func (m *MemoryStore) SessionAggregates(symbol string) ([]model.SessionAggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bySession := make(map[string]*model.SessionAggregate)
	for _, ev := range m.events {
		if ev.Symbol != symbol || ev.Sentiment.Category == model.CategoryFinancialStatement {
			continue
		}
		key := ev.Session.Format(model.DateLayout)
		agg, ok := bySession[key]
		if !ok {
			agg = &model.SessionAggregate{Symbol: symbol, Session: ev.Session}
			bySession[key] = agg
		}
		if ev.Sentiment.Score < agg.MinScore {
			agg.MinScore = ev.Sentiment.Score
		}
		if ev.Sentiment.Score > agg.MaxScore {
			agg.MaxScore = ev.Sentiment.Score
		}
	}

	keys := make([]string, 0, len(bySession))
	for k := range bySession {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	aggs := make([]model.SessionAggregate, 0, len(keys))
	for _, k := range keys {
		aggs = append(aggs, *bySession[k])
	}
	return aggs, nil
}

func (m *MemoryStore) Close() error { return nil }
