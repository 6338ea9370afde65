package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// EMA indicator implements Exponential Moving Average calculation over one
// or more spans. Values match pandas ewm(span).mean() with adjust=True.
type EMA struct {
	spans []int
	means []*ExponentialMean
}

// NewEMA creates a new EMA indicator with the default spans 12 and 26.
func NewEMA() Indicator {
	ema := &EMA{}
	_ = ema.Config(12, 26)

	return ema
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: one or more spans (int).
func (e *EMA) Config(params ...any) error {
	if len(params) == 0 {
		return errParamCount("EMA", "at least 1 span", 0)
	}

	spans, err := intParams(params)
	if err != nil {
		return err
	}

	means := make([]*ExponentialMean, len(spans))
	for i, s := range spans {
		means[i], err = NewExponentialMean(s)
		if err != nil {
			return err
		}
	}

	e.spans = spans
	e.means = means

	return nil
}

// Columns returns ema_<span> for every span.
func (e *EMA) Columns() []types.FeatureName {
	names := make([]types.FeatureName, len(e.spans))
	for i, s := range e.spans {
		names[i] = types.FeatureName(fmt.Sprintf("ema_%d", s))
	}

	return names
}

func (e *EMA) Next(bar types.MarketData) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(e.means))
	for i, mean := range e.means {
		out[i] = mean.Push(bar.Close)
	}

	return out
}

func (e *EMA) Reset() {
	for _, mean := range e.means {
		mean.Reset()
	}
}
