package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// Engine runs every indicator of a registry over a price series.
type Engine struct {
	registry IndicatorRegistry
}

func NewEngine(registry IndicatorRegistry) *Engine {
	return &Engine{registry: registry}
}

// Columns returns the output columns of every registered indicator in order.
func (e *Engine) Columns() ([]types.FeatureName, error) {
	indicators, err := e.indicators()
	if err != nil {
		return nil, err
	}

	var names []types.FeatureName
	for _, indicator := range indicators {
		names = append(names, indicator.Columns()...)
	}

	return names, nil
}

// Compute resets every indicator and feeds it each bar exactly once.
// The returned warnings hold one NumericDegeneracy error per indicator that
// resolved a zero division with its sentinel.
func (e *Engine) Compute(series *types.PriceSeries) (*types.ColumnSet, []error, error) {
	indicators, err := e.indicators()
	if err != nil {
		return nil, nil, err
	}

	n := series.Len()
	buffers := make([][][]optional.Option[float64], len(indicators))

	for i, indicator := range indicators {
		indicator.Reset()

		buffers[i] = make([][]optional.Option[float64], len(indicator.Columns()))
		for c := range buffers[i] {
			buffers[i][c] = make([]optional.Option[float64], n)
		}
	}

	for t, bar := range series.Bars {
		for i, indicator := range indicators {
			values := indicator.Next(bar)
			if len(values) != len(buffers[i]) {
				return nil, nil, errors.Newf(errors.ErrCodeIndicatorCalculation,
					"%s returned %d values, expected %d", indicator.Name(), len(values), len(buffers[i]))
			}

			for c, v := range values {
				buffers[i][c][t] = v
			}
		}
	}

	columns := types.NewColumnSet(n)

	var warnings []error

	for i, indicator := range indicators {
		for c, name := range indicator.Columns() {
			if err := columns.Add(name, buffers[i][c]); err != nil {
				return nil, nil, err
			}
		}

		if counter, ok := indicator.(DegeneracyCounter); ok && counter.Degeneracies() > 0 {
			warnings = append(warnings, errors.Newf(errors.ErrCodeNumericDegeneracy,
				"%s: %s used its zero-division sentinel on %d rows", series.Symbol, indicator.Name(), counter.Degeneracies()))
		}
	}

	return columns, warnings, nil
}

func (e *Engine) indicators() ([]Indicator, error) {
	names := e.registry.ListIndicators()
	indicators := make([]Indicator, 0, len(names))

	for _, name := range names {
		indicator, err := e.registry.GetIndicator(name)
		if err != nil {
			return nil, err
		}

		indicators = append(indicators, indicator)
	}

	return indicators, nil
}
