package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/calendar"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/config"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/features"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/ingest"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/prices"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/scheduler"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/session"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/store"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/window"
)

func main() {
	daemon := flag.Bool("daemon", false, "run the cron scheduler instead of a one-shot pipeline")
	flag.Parse()

	log := logrus.New()
	log.Info("stock news sentiment analyzer starting")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("config validation")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// The calendar is startup-fatal: without it every session assignment
	// would silently treat holidays as trading days.
	cal, err := calendar.Load(cfg.Calendar.CSVPath)
	if err != nil {
		log.WithError(err).Fatal("load holiday calendar")
	}
	log.WithField("holidays", cal.Len()).Info("holiday calendar loaded")

	loc, err := time.LoadLocation(cfg.Market.Timezone)
	if err != nil {
		log.WithError(err).WithField("timezone", cfg.Market.Timezone).Fatal("load market timezone")
	}
	assigner := session.NewAssigner(cal, loc, cfg.Market.CutoffHour)

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		sq, err := store.NewSQLiteStore(cfg.Database.SQLitePath, log)
		if err != nil {
			log.WithError(err).Fatal("open sqlite store")
		}
		defer sq.Close()
		st = sq
	} else {
		log.Warn("no sqlite path configured, using in-memory store")
		st = store.NewMemoryStore()
	}

	// Init scorer
	var scorer ingest.Scorer
	if cfg.Sentiment.APIKey != "" {
		scorer = ingest.NewOpenAIScorer(cfg.Sentiment.BaseURL, cfg.Sentiment.APIKey, cfg.Sentiment.Model, cfg.Proxy)
	} else {
		log.Warn("no sentiment API key configured, scoring everything neutral")
		scorer = &ingest.StaticScorer{Sentiment: model.Sentiment{Category: model.CategoryStory}}
	}

	fetcher := ingest.NewYahooRSSFetcher(cfg.Feed.BaseURL, cfg.Proxy)
	log.WithFields(logrus.Fields{"feed": fetcher.Name(), "scorer": scorer.Name()}).Info("ingestion sources ready")

	ingestor := ingest.NewIngestor(fetcher, scorer, assigner, st, log)
	loader := prices.NewLoader(prices.NewYahooFetcher(loc, cfg.Proxy), st, log)

	builder := window.NewBuilder(st, cfg.Window.Length)
	assembler := features.NewAssembler(st, builder, cfg.Market.SymbolAliases, cfg.Market.PriceSuffix)

	priceSymbols := make([]string, 0, len(cfg.Market.Symbols)+1)
	for _, s := range cfg.Market.Symbols {
		priceSymbols = append(priceSymbols, assembler.PriceSymbol(s))
	}
	priceSymbols = append(priceSymbols, assembler.PriceSymbol(cfg.Market.Benchmark))

	if *daemon {
		runDaemon(cfg, ingestor, loader, priceSymbols, log)
		return
	}
	runOnce(cfg, ingestor, loader, assembler, priceSymbols, log)
}

// runOnce refreshes prices, ingests news, and writes the feature CSV.
func runOnce(cfg *config.Config, ingestor *ingest.Ingestor, loader *prices.Loader,
	assembler *features.Assembler, priceSymbols []string, log *logrus.Logger) {

	priceStats := loader.Refresh(priceSymbols, cfg.Schedule.LookbackDays)
	log.WithFields(logrus.Fields{"symbols": priceStats.Symbols, "bars": priceStats.Bars, "failed": priceStats.Failed}).
		Info("price refresh finished")

	newsStats := ingestor.Run(cfg.Market.Symbols)
	log.WithFields(logrus.Fields{
		"fetched":      newsStats.Fetched,
		"inserted":     newsStats.Inserted,
		"skipped":      newsStats.Skipped,
		"failed":       newsStats.Failed,
		"fetch_errors": newsStats.FetchErrors,
	}).Info("news ingestion finished")

	var rows []model.FeatureRow
	for _, symbol := range cfg.Market.Symbols {
		symbolRows, err := assembler.BuildRows(symbol, cfg.Market.Benchmark)
		if err != nil {
			log.WithField("symbol", symbol).WithError(err).Error("build feature rows")
			continue
		}
		rows = append(rows, symbolRows...)
	}
	log.WithField("rows", len(rows)).Info("feature rows assembled")

	out := os.Stdout
	if cfg.Output.CSVPath != "" && cfg.Output.CSVPath != "-" {
		f, err := os.Create(cfg.Output.CSVPath)
		if err != nil {
			log.WithError(err).Fatal("create output file")
		}
		defer f.Close()
		out = f
	}
	if err := features.WriteCSV(out, rows, cfg.Window.Length); err != nil {
		log.WithError(err).Fatal("write feature rows")
	}
}

// runDaemon schedules recurring ingestion and waits for a shutdown signal.
func runDaemon(cfg *config.Config, ingestor *ingest.Ingestor, loader *prices.Loader,
	priceSymbols []string, log *logrus.Logger) {

	sched := scheduler.NewScheduler(ingestor, loader, cfg.Market.Symbols, priceSymbols, cfg.Schedule.LookbackDays, log)
	if err := sched.RegisterAll(cfg.Schedule.NewsCron, cfg.Schedule.PricesCron); err != nil {
		log.WithError(err).Fatal("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing tasks now")
		go func() {
			sched.RunPricesNow()
			sched.RunIngestNow()
		}()
	}

	log.Info("analyzer is running, press Ctrl+C to stop")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutdown signal received, stopping")
}
