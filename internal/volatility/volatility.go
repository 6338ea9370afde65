// Package volatility computes realized volatility and range features from
// percent returns and bar extremes.
package volatility

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/indicator"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// ratioSentinel is used when the long window has zero deviation. That
// implies the short window inside it is flat too, so the ratio is taken as 1.
const ratioSentinel = 1.0

// Ratio divides the volatility of Short by the volatility of Long.
type Ratio struct {
	Short int
	Long  int
}

func (r Ratio) Name() types.FeatureName {
	return types.FeatureName(fmt.Sprintf("vol_ratio_%d_%d", r.Short, r.Long))
}

// Engine computes vol_<w> for every window, the ratios between them and the
// high-low range normalized by close.
type Engine struct {
	windows []int
	ratios  []Ratio
}

// NewEngine returns an engine with windows 5, 10, 20, 30 and ratios 5/20, 10/30.
func NewEngine() *Engine {
	return &Engine{
		windows: []int{5, 10, 20, 30},
		ratios:  []Ratio{{Short: 5, Long: 20}, {Short: 10, Long: 30}},
	}
}

// NewEngineWithWindows returns an engine with custom windows. Every ratio must
// refer to configured windows.
func NewEngineWithWindows(windows []int, ratios []Ratio) (*Engine, error) {
	known := make(map[int]bool, len(windows))

	for _, w := range windows {
		if w < 2 {
			return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "volatility window must be at least 2, got %d", w)
		}

		known[w] = true
	}

	for _, r := range ratios {
		if !known[r.Short] || !known[r.Long] {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "ratio %d/%d refers to an unknown window", r.Short, r.Long)
		}
	}

	return &Engine{windows: windows, ratios: ratios}, nil
}

// Windows returns the configured rolling windows.
func (e *Engine) Windows() []int {
	return e.windows
}

func (e *Engine) Columns() []types.FeatureName {
	names := make([]types.FeatureName, 0, len(e.windows)+len(e.ratios)+1)
	for _, w := range e.windows {
		names = append(names, volName(w))
	}

	for _, r := range e.ratios {
		names = append(names, r.Name())
	}

	return append(names, types.FeatureHLVolatility)
}

// Compute returns the columns on the price index. Row t of vol_<w> uses the
// returns of bars t-w+1..t, so it is defined from row w on. Warnings report
// ratios resolved with the zero-denominator sentinel.
func (e *Engine) Compute(returns types.ReturnSeries, series *types.PriceSeries) (*types.ColumnSet, []error, error) {
	if !returns.MatchesPrices(series.Times()) {
		return nil, nil, errors.Newf(errors.ErrCodeAlignment,
			"%s: %d returns do not line up with %d bars", series.Symbol, returns.Len(), series.Len())
	}

	n := series.Len()
	columns := types.NewColumnSet(n)
	vols := make(map[int][]optional.Option[float64], len(e.windows))

	for _, w := range e.windows {
		std, err := indicator.NewRollingStd(w)
		if err != nil {
			return nil, nil, err
		}

		values := make([]optional.Option[float64], n)
		values[0] = optional.None[float64]()

		for i, r := range returns.Values {
			values[i+1] = std.Push(r)
		}

		vols[w] = values
		if err := columns.Add(volName(w), values); err != nil {
			return nil, nil, err
		}
	}

	var warnings []error

	for _, r := range e.ratios {
		values, degenerate := ratio(vols[r.Short], vols[r.Long])
		if degenerate > 0 {
			warnings = append(warnings, errors.Newf(errors.ErrCodeNumericDegeneracy,
				"%s: %s had a zero denominator on %d rows", series.Symbol, r.Name(), degenerate))
		}

		if err := columns.Add(r.Name(), values); err != nil {
			return nil, nil, err
		}
	}

	hl := make([]optional.Option[float64], n)
	for i, bar := range series.Bars {
		hl[i] = optional.Some((bar.High - bar.Low) / bar.Close)
	}

	if err := columns.Add(types.FeatureHLVolatility, hl); err != nil {
		return nil, nil, err
	}

	return columns, warnings, nil
}

func ratio(short, long []optional.Option[float64]) ([]optional.Option[float64], int) {
	out := make([]optional.Option[float64], len(short))
	degenerate := 0

	for i := range short {
		if short[i].IsNone() || long[i].IsNone() {
			out[i] = optional.None[float64]()

			continue
		}

		if long[i].Unwrap() == 0 {
			degenerate++
			out[i] = optional.Some(ratioSentinel)

			continue
		}

		out[i] = optional.Some(short[i].Unwrap() / long[i].Unwrap())
	}

	return out, degenerate
}

func volName(w int) types.FeatureName {
	return types.FeatureName(fmt.Sprintf("vol_%d", w))
}
