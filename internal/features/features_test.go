package features

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/store"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/window"
)

const benchmark = "^GSPTSE"

func seedSessions(t *testing.T, s *store.MemoryStore, symbol string, start time.Time, adjCloses ...string) {
	t.Helper()
	points := make([]model.PricePoint, 0, len(adjCloses))
	for i, c := range adjCloses {
		points = append(points, model.PricePoint{
			Symbol:   symbol,
			Session:  start.AddDate(0, 0, i),
			AdjClose: decimal.RequireFromString(c),
		})
	}
	require.NoError(t, s.UpsertPrices(points))
}

func recordStory(t *testing.T, s *store.MemoryStore, id, symbol string, session time.Time, score int) {
	t.Helper()
	_, err := s.RecordEvent(&model.Event{
		ID:        id,
		Symbol:    symbol,
		Session:   session,
		Sentiment: model.Sentiment{Score: score, Category: model.CategoryStory},
	})
	require.NoError(t, err)
}

func TestBuildRows(t *testing.T) {
	s := store.NewMemoryStore()
	start := model.Date(2023, 1, 2)
	seedSessions(t, s, "BMO.TO", start, "100.00", "101.00", "99.00", "102.00", "103.00", "98.00")
	seedSessions(t, s, benchmark, start, "200.00", "202.00", "198.00", "204.00", "206.00", "196.00")

	recordStory(t, s, "n-1", "BMO", model.Date(2023, 1, 3), 1)
	recordStory(t, s, "n-2", "BMO", model.Date(2023, 1, 3), -1)

	asm := NewAssembler(s, window.NewBuilder(s, 5), nil, ".TO")
	rows, err := asm.BuildRows("BMO", benchmark)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "BMO", row.Symbol)
	assert.Equal(t, model.Date(2023, 1, 3), row.Session)
	assert.Equal(t, -1, row.MinScore)
	assert.Equal(t, 1, row.MaxScore)
	assert.Equal(t, "101.00", row.Price.StringFixed(2))

	wantChanges := []string{"1", "-1", "2", "3", "-2"}
	require.Len(t, row.Changes, 5)
	for i, w := range wantChanges {
		assert.True(t, row.Changes[i].Equal(decimal.RequireFromString(w)),
			"change %d: want %s, got %s", i, w, row.Changes[i])
	}

	// Benchmark doubled everything, so the percentages match the target's.
	require.Len(t, row.BenchmarkChanges, 5)
	for i, w := range wantChanges {
		assert.True(t, row.BenchmarkChanges[i].Equal(decimal.RequireFromString(w)),
			"benchmark change %d: want %s, got %s", i, w, row.BenchmarkChanges[i])
	}
}

func TestBuildRows_SkipsSessionsWithoutHistory(t *testing.T) {
	s := store.NewMemoryStore()
	start := model.Date(2023, 1, 2)
	seedSessions(t, s, "TD.TO", start, "100", "101", "99", "102", "103", "98")
	seedSessions(t, s, benchmark, start, "200", "202", "198", "204", "206", "196")

	// Jan 3 has full coverage; Jan 6 runs off the end of stored history.
	recordStory(t, s, "n-1", "TD", model.Date(2023, 1, 3), 1)
	recordStory(t, s, "n-2", "TD", model.Date(2023, 1, 6), -1)

	asm := NewAssembler(s, window.NewBuilder(s, 5), nil, ".TO")
	rows, err := asm.BuildRows("TD", benchmark)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.Date(2023, 1, 3), rows[0].Session)
}

func TestBuildRows_SkipsWhenBenchmarkMissing(t *testing.T) {
	s := store.NewMemoryStore()
	start := model.Date(2023, 1, 2)
	seedSessions(t, s, "RY.TO", start, "100", "101", "99", "102", "103", "98")
	// No benchmark prices at all.

	recordStory(t, s, "n-1", "RY", model.Date(2023, 1, 3), 1)

	asm := NewAssembler(s, window.NewBuilder(s, 5), nil, ".TO")
	rows, err := asm.BuildRows("RY", benchmark)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBuildRows_PropagatesInvalidPriceData(t *testing.T) {
	s := store.NewMemoryStore()
	start := model.Date(2023, 1, 2)
	seedSessions(t, s, "SU.TO", start, "0", "101", "99", "102", "103", "98")

	recordStory(t, s, "n-1", "SU", model.Date(2023, 1, 3), 1)

	asm := NewAssembler(s, window.NewBuilder(s, 5), nil, ".TO")
	_, err := asm.BuildRows("SU", benchmark)
	assert.ErrorIs(t, err, window.ErrInvalidPriceData)
}

func TestBuildRows_OrderedBySession(t *testing.T) {
	s := store.NewMemoryStore()
	start := model.Date(2023, 1, 2)
	// Ten sessions so two separate windows fit.
	seedSessions(t, s, "ENB.TO", start, "100", "101", "99", "102", "103", "98", "100", "101", "102", "103")
	seedSessions(t, s, benchmark, start, "200", "202", "198", "204", "206", "196", "200", "202", "204", "206")

	recordStory(t, s, "n-2", "ENB", model.Date(2023, 1, 5), -1)
	recordStory(t, s, "n-1", "ENB", model.Date(2023, 1, 3), 1)

	asm := NewAssembler(s, window.NewBuilder(s, 5), nil, ".TO")
	rows, err := asm.BuildRows("ENB", benchmark)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Session.Before(rows[1].Session))
}

func TestPriceSymbol(t *testing.T) {
	asm := NewAssembler(nil, nil, map[string]string{"FTS": "FTS"}, ".TO")

	tests := []struct {
		in   string
		want string
	}{
		{"BMO", "BMO.TO"},
		{"L.TO", "L.TO"},
		{"^GSPTSE", "^GSPTSE"},
		{"FTS", "FTS"}, // explicit alias wins over the suffix rule
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, asm.PriceSymbol(tt.in), tt.in)
	}
}

func TestWriteCSV(t *testing.T) {
	rows := []model.FeatureRow{
		{
			Symbol:   "BMO",
			Session:  model.Date(2023, 1, 3),
			MinScore: -1,
			MaxScore: 1,
			Price:    decimal.RequireFromString("101.00"),
			Changes: []decimal.Decimal{
				decimal.RequireFromString("1"),
				decimal.RequireFromString("-1"),
			},
			BenchmarkChanges: []decimal.Decimal{
				decimal.RequireFromString("0.5"),
				decimal.RequireFromString("-0.25"),
			},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteCSV(&sb, rows, 2))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t,
		"symbol,trading_dt,min_score,max_score,price,price_change,t1_price_change,index_price_change,index_t1_price_change",
		lines[0])
	assert.Equal(t,
		"BMO,2023-01-03,-1,1,101.00,1.0000,-1.0000,0.5000,-0.2500",
		lines[1])
}
