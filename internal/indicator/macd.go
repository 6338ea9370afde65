package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// MACD is the difference of a fast and a slow EMA of close, with an EMA of
// that difference as the signal line.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int

	fast   *ExponentialMean
	slow   *ExponentialMean
	signal *ExponentialMean
}

// NewMACD creates a new MACD indicator with the default periods 12, 26 and 9.
func NewMACD() Indicator {
	m := &MACD{}
	_ = m.Config(12, 26, 9)

	return m
}

// Name returns the name of the indicator.
func (m *MACD) Name() types.IndicatorType {
	return types.IndicatorTypeMACD
}

// Config configures the MACD indicator.
// Expected parameters: fastPeriod (int), slowPeriod (int), signalPeriod (int).
func (m *MACD) Config(params ...any) error {
	if len(params) != 3 {
		return errParamCount("MACD", "3 parameters: fastPeriod, slowPeriod, signalPeriod", len(params))
	}

	periods, err := intParams(params)
	if err != nil {
		return err
	}

	fast, err := NewExponentialMean(periods[0])
	if err != nil {
		return err
	}

	slow, err := NewExponentialMean(periods[1])
	if err != nil {
		return err
	}

	signal, err := NewExponentialMean(periods[2])
	if err != nil {
		return err
	}

	m.fastPeriod, m.slowPeriod, m.signalPeriod = periods[0], periods[1], periods[2]
	m.fast, m.slow, m.signal = fast, slow, signal

	return nil
}

func (m *MACD) Columns() []types.FeatureName {
	return []types.FeatureName{types.FeatureMACD, types.FeatureMACDSignal, types.FeatureMACDHistogram}
}

func (m *MACD) Next(bar types.MarketData) []optional.Option[float64] {
	macd := m.fast.Push(bar.Close).Unwrap() - m.slow.Push(bar.Close).Unwrap()
	signal := m.signal.Push(macd).Unwrap()

	return []optional.Option[float64]{
		optional.Some(macd),
		optional.Some(signal),
		optional.Some(macd - signal),
	}
}

func (m *MACD) Reset() {
	m.fast.Reset()
	m.slow.Reset()
	m.signal.Reset()
}
