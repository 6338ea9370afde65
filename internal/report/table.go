package report

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/argo-forecast/internal/stats"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/shopspring/decimal"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		}).
		Headers(headers...)
}

func fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// RenderResults formats a batch status map, one row per instrument.
func RenderResults(results map[string]types.InstrumentResult) string {
	t := newTable("Symbol", "Status", "R2", "RMSE", "Train", "Test", "Samples")

	for _, r := range Sorted(results) {
		row := []string{r.Symbol, string(r.Status), "-", "-", "-", "-", strconv.Itoa(r.SampleCount)}

		if r.Metrics.IsSome() {
			m := r.Metrics.Unwrap()
			row[2] = fixed(m.R2, 4)
			row[3] = fixed(m.RMSE, 4)
			row[4] = strconv.Itoa(m.NTrain)
			row[5] = strconv.Itoa(m.NTest)
		}

		t.Row(row...)
	}

	return t.String()
}

// RenderSummaries formats per-instrument return statistics.
func RenderSummaries(summaries []stats.Summary) string {
	t := newTable("Symbol", "Days", "Mean %", "Std %", "Sharpe", "Best %", "Worst %", "Cumulative %")

	for _, s := range summaries {
		t.Row(
			s.Symbol,
			strconv.Itoa(s.Observations),
			fixed(s.Mean, 4),
			fixed(s.Std, 4),
			fixed(s.SharpeRatio, 2),
			fixed(s.BestDay, 2),
			fixed(s.WorstDay, 2),
			fixed(s.CumulativeReturn, 2),
		)
	}

	return t.String()
}

// RenderCorrelation formats the matrix with "-" for undefined pairs.
func RenderCorrelation(m *stats.CorrelationMatrix) string {
	t := newTable(append([]string{""}, m.Symbols...)...)

	for i, symbol := range m.Symbols {
		row := []string{symbol}

		for j := range m.Symbols {
			if v := m.Values[i][j]; v.IsSome() {
				row = append(row, fixed(v.Unwrap(), 3))
			} else {
				row = append(row, "-")
			}
		}

		t.Row(row...)
	}

	return t.String()
}
