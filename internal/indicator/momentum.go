package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// Momentum is the fractional change of close over a number of bars,
// close[t]/close[t-lag] - 1.
type Momentum struct {
	lags   []int
	lagged []*Lag
}

// NewMomentum creates a new Momentum indicator with the default lags 5 and 10.
func NewMomentum() Indicator {
	m := &Momentum{}
	_ = m.Config(5, 10)

	return m
}

// Name returns the name of the indicator.
func (m *Momentum) Name() types.IndicatorType {
	return types.IndicatorTypeMomentum
}

// Config configures the Momentum indicator. Expected parameters: one or more lags (int).
func (m *Momentum) Config(params ...any) error {
	if len(params) == 0 {
		return errParamCount("Momentum", "at least 1 lag", 0)
	}

	lags, err := intParams(params)
	if err != nil {
		return err
	}

	lagged := make([]*Lag, len(lags))
	for i, k := range lags {
		lagged[i], err = NewLag(k)
		if err != nil {
			return err
		}
	}

	m.lags = lags
	m.lagged = lagged

	return nil
}

// Columns returns momentum_<lag> for every lag.
func (m *Momentum) Columns() []types.FeatureName {
	names := make([]types.FeatureName, len(m.lags))
	for i, k := range m.lags {
		names[i] = types.FeatureName(fmt.Sprintf("momentum_%d", k))
	}

	return names
}

func (m *Momentum) Next(bar types.MarketData) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(m.lagged))

	for i, lag := range m.lagged {
		prev := lag.Push(bar.Close)
		if prev.IsNone() {
			out[i] = none()

			continue
		}

		out[i] = optional.Some(bar.Close/prev.Unwrap() - 1)
	}

	return out
}

func (m *Momentum) Reset() {
	for _, lag := range m.lagged {
		lag.Reset()
	}
}
