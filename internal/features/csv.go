package features

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/margaret-oberc/StockNewsSentimentAnalyzer/internal/model"
)

// WriteCSV writes rows in the fixed downstream column order: symbol,
// session date, sentiment extremes, session price, then the target
// percentage changes, then the benchmark percentage changes.
func WriteCSV(w io.Writer, rows []model.FeatureRow, windowLength int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader(windowLength)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Symbol,
			row.Session.Format(model.DateLayout),
			fmt.Sprintf("%d", row.MinScore),
			fmt.Sprintf("%d", row.MaxScore),
			row.Price.StringFixed(2),
		}
		for _, c := range row.Changes {
			record = append(record, c.StringFixed(4))
		}
		for _, c := range row.BenchmarkChanges {
			record = append(record, c.StringFixed(4))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s %s: %w", row.Symbol, row.Session.Format(model.DateLayout), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvHeader(windowLength int) []string {
	header := []string{"symbol", "trading_dt", "min_score", "max_score", "price"}
	header = append(header, changeColumns("", windowLength)...)
	header = append(header, changeColumns("index_", windowLength)...)
	return header
}

// changeColumns names the same-day change bare and later offsets t1..tN.
func changeColumns(prefix string, n int) []string {
	cols := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			cols = append(cols, prefix+"price_change")
			continue
		}
		cols = append(cols, fmt.Sprintf("%st%d_price_change", prefix, i))
	}
	return cols
}
