// Package features joins per-session sentiment extremes with price-change
// windows into regression-ready rows.
package features

import (
	"errors"
	"fmt"
	"strings"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/window"
)

// AggregateReader is the read side of the event store the assembler needs.
type AggregateReader interface {
	SessionAggregates(symbol string) ([]model.SessionAggregate, error)
}

// Assembler builds FeatureRows for one target symbol against a benchmark.
type Assembler struct {
	aggregates AggregateReader
	windows    *window.Builder

	// aliases maps a news symbol to its price-store symbol when the two
	// differ. suffix is appended to unlisted symbols that carry no
	// exchange qualifier (TSX news feeds quote "BMO" while the ticker
	// trades as "BMO.TO").
	aliases map[string]string
	suffix  string
}

// NewAssembler creates an Assembler. aliases may be nil; suffix may be
// empty to disable suffix mapping.
func NewAssembler(aggregates AggregateReader, windows *window.Builder, aliases map[string]string, suffix string) *Assembler {
	return &Assembler{
		aggregates: aggregates,
		windows:    windows,
		aliases:    aliases,
		suffix:     suffix,
	}
}

// PriceSymbol resolves the price-store symbol for a news symbol.
// Explicit aliases win; index symbols (^GSPTSE) and symbols already
// carrying the suffix pass through unchanged.
func (a *Assembler) PriceSymbol(symbol string) string {
	if mapped, ok := a.aliases[symbol]; ok {
		return mapped
	}
	if a.suffix == "" || strings.HasPrefix(symbol, "^") || strings.HasSuffix(symbol, a.suffix) {
		return symbol
	}
	return symbol + a.suffix
}

// BuildRows emits one FeatureRow per session that has sentiment aggregates
// and full price windows for both the symbol and the benchmark, ordered by
// session date ascending.
//
// Sessions missing history on either side are filtered out silently:
// sparse price coverage is expected, not an error. Invalid price data is
// not filtered; it aborts the build for this symbol.
func (a *Assembler) BuildRows(symbol, benchmark string) ([]model.FeatureRow, error) {
	aggs, err := a.aggregates.SessionAggregates(symbol)
	if err != nil {
		return nil, fmt.Errorf("session aggregates for %s: %w", symbol, err)
	}

	priceSymbol := a.PriceSymbol(symbol)
	benchSymbol := a.PriceSymbol(benchmark)

	var rows []model.FeatureRow
	for _, agg := range aggs {
		prices, changes, err := a.windows.PriceChangeWindow(priceSymbol, agg.Session)
		if errors.Is(err, window.ErrInsufficientHistory) {
			continue
		}
		if err != nil {
			return nil, err
		}

		_, benchChanges, err := a.windows.PriceChangeWindow(benchSymbol, agg.Session)
		if errors.Is(err, window.ErrInsufficientHistory) {
			continue
		}
		if err != nil {
			return nil, err
		}

		rows = append(rows, model.FeatureRow{
			Symbol:   symbol,
			Session:  agg.Session,
			MinScore: agg.MinScore,
			MaxScore: agg.MaxScore,
			// prices[0] is the baseline one session earlier; prices[1]
			// is the close on the attributed session itself.
			Price:            prices[1],
			Changes:          changes,
			BenchmarkChanges: benchChanges,
		})
	}
	return rows, nil
}
