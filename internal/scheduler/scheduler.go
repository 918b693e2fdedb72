// Package scheduler runs the recurring ingestion and price-refresh jobs.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/ingest"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/prices"
)

// Scheduler manages the cron tasks of the pipeline.
type Scheduler struct {
	Cron         *cron.Cron
	Ingestor     *ingest.Ingestor
	Loader       *prices.Loader
	Symbols      []string
	PriceSymbols []string // resolved price-store symbols incl. the benchmark
	LookbackDays int
	Log          *logrus.Logger
}

// NewScheduler creates a Scheduler using second-granularity cron specs.
func NewScheduler(in *ingest.Ingestor, loader *prices.Loader, symbols, priceSymbols []string, lookbackDays int, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Ingestor:     in,
		Loader:       loader,
		Symbols:      symbols,
		PriceSymbols: priceSymbols,
		LookbackDays: lookbackDays,
		Log:          log,
	}
}

// RegisterAll registers the news ingestion and price refresh tasks.
func (s *Scheduler) RegisterAll(newsCron, pricesCron string) error {
	if _, err := s.Cron.AddFunc(newsCron, s.RunIngestNow); err != nil {
		return fmt.Errorf("register news task: %w", err)
	}
	if _, err := s.Cron.AddFunc(pricesCron, s.RunPricesNow); err != nil {
		return fmt.Errorf("register prices task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.Log.Info("scheduler stopped")
}

// RunIngestNow executes the news ingestion task immediately.
func (s *Scheduler) RunIngestNow() {
	s.Log.Info("running news ingestion")
	stats := s.Ingestor.Run(s.Symbols)
	s.Log.WithFields(logrus.Fields{
		"fetched":      stats.Fetched,
		"inserted":     stats.Inserted,
		"skipped":      stats.Skipped,
		"failed":       stats.Failed,
		"fetch_errors": stats.FetchErrors,
	}).Info("news ingestion finished")
}

// RunPricesNow executes the price refresh task immediately.
func (s *Scheduler) RunPricesNow() {
	s.Log.Info("running price refresh")
	stats := s.Loader.Refresh(s.PriceSymbols, s.LookbackDays)
	s.Log.WithFields(logrus.Fields{
		"symbols": stats.Symbols,
		"bars":    stats.Bars,
		"failed":  stats.Failed,
	}).Info("price refresh finished")
}
