package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// SQLiteStore persists events and prices to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log *logrus.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so feature builds can read while ingestion writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS news_events (
			uuid            TEXT PRIMARY KEY,
			symbol          TEXT NOT NULL,
			news_ts         TEXT NOT NULL,
			session_dt      TEXT NOT NULL,
			title           TEXT,
			link            TEXT,
			description     TEXT,
			category        TEXT,
			sentiment_score INTEGER,
			comment         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_symbol_session ON news_events(symbol, session_dt)`,

		`CREATE TABLE IF NOT EXISTS stock_prices (
			symbol          TEXT NOT NULL,
			close_dt        TEXT NOT NULL,
			open_price      TEXT,
			high            TEXT,
			low             TEXT,
			close_price     TEXT,
			adj_close_price TEXT NOT NULL,
			volume          INTEGER,
			PRIMARY KEY (symbol, close_dt)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// HasEvent reports whether an event with the given ID is already stored.
func (s *SQLiteStore) HasEvent(id string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM news_events WHERE uuid = ? LIMIT 1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("existence check for %s: %w", id, err)
	}
	return true, nil
}

// RecordEvent inserts the event unless its ID already exists. The insert
// runs in a transaction so a failed write leaves nothing behind and the
// event can be retried on the next run.
func (s *SQLiteStore) RecordEvent(ev *model.Event) (RecordResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.HasEvent(ev.ID)
	if err != nil {
		return ResultSkipped, err
	}
	if exists {
		return ResultSkipped, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return ResultSkipped, fmt.Errorf("begin insert: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO news_events
		(uuid, symbol, news_ts, session_dt, title, link, description, category, sentiment_score, comment)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		ev.ID, ev.Symbol,
		ev.PublishedAt.Format(time.RFC3339),
		ev.Session.Format(model.DateLayout),
		ev.Title, ev.Link, ev.Body,
		string(ev.Sentiment.Category), ev.Sentiment.Score, ev.Sentiment.Comment,
	)
	if err != nil {
		tx.Rollback()
		return ResultSkipped, fmt.Errorf("insert event %s: %w", ev.ID, err)
	}
	if err := tx.Commit(); err != nil {
		return ResultSkipped, fmt.Errorf("commit event %s: %w", ev.ID, err)
	}
	return ResultInserted, nil
}

// UpsertPrices writes daily bars, replacing any existing row for the same
// (symbol, session date).
func (s *SQLiteStore) UpsertPrices(points []model.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin price upsert: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO stock_prices
		(symbol, close_dt, open_price, high, low, close_price, adj_close_price, volume)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(symbol, close_dt) DO UPDATE SET
			open_price = excluded.open_price,
			high = excluded.high,
			low = excluded.low,
			close_price = excluded.close_price,
			adj_close_price = excluded.adj_close_price,
			volume = excluded.volume`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare price upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.Exec(
			p.Symbol, p.Session.Format(model.DateLayout),
			p.Open.String(), p.High.String(), p.Low.String(),
			p.Close.String(), p.AdjClose.String(), p.Volume,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("upsert price %s %s: %w", p.Symbol, p.Session.Format(model.DateLayout), err)
		}
	}
	return tx.Commit()
}

// PreviousSession returns the latest stored session strictly before the
// given date, or the zero time when the symbol has no earlier history.
func (s *SQLiteStore) PreviousSession(symbol string, before time.Time) (time.Time, error) {
	var prev sql.NullString
	err := s.db.QueryRow(
		`SELECT MAX(close_dt) FROM stock_prices WHERE symbol = ? AND close_dt < ?`,
		symbol, before.Format(model.DateLayout),
	).Scan(&prev)
	if err != nil {
		return time.Time{}, fmt.Errorf("previous session for %s: %w", symbol, err)
	}
	if !prev.Valid {
		return time.Time{}, nil
	}
	d, err := time.Parse(model.DateLayout, prev.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored session date %q: %w", prev.String, err)
	}
	return d, nil
}

// PricesFrom returns up to limit bars at or after `from`, ascending.
func (s *SQLiteStore) PricesFrom(symbol string, from time.Time, limit int) ([]model.PricePoint, error) {
	rows, err := s.db.Query(
		`SELECT close_dt, open_price, high, low, close_price, adj_close_price, volume
		 FROM stock_prices
		 WHERE symbol = ? AND close_dt >= ?
		 ORDER BY close_dt ASC
		 LIMIT ?`,
		symbol, from.Format(model.DateLayout), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	var points []model.PricePoint
	for rows.Next() {
		var (
			closeDt                           string
			open, high, low, closeP, adjClose string
			volume                            int64
		)
		if err := rows.Scan(&closeDt, &open, &high, &low, &closeP, &adjClose, &volume); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		p := model.PricePoint{Symbol: symbol, Volume: volume}
		if p.Session, err = time.Parse(model.DateLayout, closeDt); err != nil {
			return nil, fmt.Errorf("parse close_dt %q: %w", closeDt, err)
		}
		for _, field := range []struct {
			dst *decimal.Decimal
			src string
		}{
			{&p.Open, open}, {&p.High, high}, {&p.Low, low},
			{&p.Close, closeP}, {&p.AdjClose, adjClose},
		} {
			if *field.dst, err = decimal.NewFromString(field.src); err != nil {
				return nil, fmt.Errorf("parse price %q for %s %s: %w", field.src, symbol, closeDt, err)
			}
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// SessionAggregates returns sentiment extremes per session for the symbol,
// excluding financial statements, ordered by session date ascending.
func (s *SQLiteStore) SessionAggregates(symbol string) ([]model.SessionAggregate, error) {
	rows, err := s.db.Query(
		`SELECT session_dt,
		        COALESCE(MIN(CASE WHEN sentiment_score < 0 THEN sentiment_score END), 0),
		        COALESCE(MAX(CASE WHEN sentiment_score > 0 THEN sentiment_score END), 0)
		 FROM news_events
		 WHERE symbol = ? AND category <> ?
		 GROUP BY session_dt
		 ORDER BY session_dt ASC`,
		symbol, string(model.CategoryFinancialStatement),
	)
	if err != nil {
		return nil, fmt.Errorf("query aggregates for %s: %w", symbol, err)
	}
	defer rows.Close()

	var aggs []model.SessionAggregate
	for rows.Next() {
		var (
			sessionDt string
			agg       = model.SessionAggregate{Symbol: symbol}
		)
		if err := rows.Scan(&sessionDt, &agg.MinScore, &agg.MaxScore); err != nil {
			return nil, fmt.Errorf("scan aggregate row: %w", err)
		}
		if agg.Session, err = time.Parse(model.DateLayout, sessionDt); err != nil {
			return nil, fmt.Errorf("parse session_dt %q: %w", sessionDt, err)
		}
		aggs = append(aggs, agg)
	}
	return aggs, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.log.Info("closing sqlite store")
	return s.db.Close()
}
