package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// MA computes simple moving averages of close over one or more windows.
type MA struct {
	windows []int
	means   []*RollingMean
}

// NewMA creates a new MA indicator with the default windows 5, 10, 20 and 50.
func NewMA() Indicator {
	ma := &MA{}
	_ = ma.Config(5, 10, 20, 50)

	return ma
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeMA
}

// Config configures the MA indicator. Expected parameters: one or more windows (int).
func (m *MA) Config(params ...any) error {
	if len(params) == 0 {
		return errParamCount("MA", "at least 1 window", 0)
	}

	windows, err := intParams(params)
	if err != nil {
		return err
	}

	means := make([]*RollingMean, len(windows))
	for i, w := range windows {
		means[i], err = NewRollingMean(w)
		if err != nil {
			return err
		}
	}

	m.windows = windows
	m.means = means

	return nil
}

// Columns returns ma_<window> for every window.
func (m *MA) Columns() []types.FeatureName {
	names := make([]types.FeatureName, len(m.windows))
	for i, w := range m.windows {
		names[i] = types.FeatureName(fmt.Sprintf("ma_%d", w))
	}

	return names
}

func (m *MA) Next(bar types.MarketData) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(m.means))
	for i, mean := range m.means {
		out[i] = mean.Push(bar.Close)
	}

	return out
}

func (m *MA) Reset() {
	for _, mean := range m.means {
		mean.Reset()
	}
}
