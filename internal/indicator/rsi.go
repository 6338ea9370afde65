package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// rsiSentinel is emitted when the average loss of the window is zero,
// including a completely flat window.
const rsiSentinel = 100.0

// RSI represents the Relative Strength Index indicator. Average gain and
// loss are simple rolling means of the close deltas. The first bar has no
// previous close and contributes a zero delta.
type RSI struct {
	period int

	gains  *RollingMean
	losses *RollingMean

	prevClose    optional.Option[float64]
	degeneracies int
}

// NewRSI creates a new RSI indicator with default configuration.
func NewRSI() Indicator {
	r := &RSI{}
	_ = r.Config(14)

	return r
}

// Name returns the name of the indicator.
func (r *RSI) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSI) Config(params ...any) error {
	if len(params) != 1 {
		return errParamCount("RSI", "1 parameter: period", len(params))
	}

	periods, err := intParams(params)
	if err != nil {
		return err
	}

	gains, err := NewRollingMean(periods[0])
	if err != nil {
		return err
	}

	losses, err := NewRollingMean(periods[0])
	if err != nil {
		return err
	}

	r.period = periods[0]
	r.gains = gains
	r.losses = losses
	r.prevClose = optional.None[float64]()
	r.degeneracies = 0

	return nil
}

func (r *RSI) Columns() []types.FeatureName {
	return []types.FeatureName{types.FeatureRSI}
}

func (r *RSI) Next(bar types.MarketData) []optional.Option[float64] {
	delta := 0.0
	if r.prevClose.IsSome() {
		delta = bar.Close - r.prevClose.Unwrap()
	}

	r.prevClose = optional.Some(bar.Close)

	gain, loss := 0.0, 0.0
	if delta > 0 {
		gain = delta
	} else {
		loss = -delta
	}

	avgGain := r.gains.Push(gain)
	avgLoss := r.losses.Push(loss)

	if avgGain.IsNone() || avgLoss.IsNone() {
		return []optional.Option[float64]{none()}
	}

	if avgLoss.Unwrap() == 0 {
		r.degeneracies++

		return []optional.Option[float64]{optional.Some(rsiSentinel)}
	}

	rs := avgGain.Unwrap() / avgLoss.Unwrap()

	return []optional.Option[float64]{optional.Some(100 - 100/(1+rs))}
}

func (r *RSI) Reset() {
	r.gains.Reset()
	r.losses.Reset()
	r.prevClose = optional.None[float64]()
	r.degeneracies = 0
}

// Degeneracies returns the rows resolved with the zero-loss sentinel.
func (r *RSI) Degeneracies() int {
	return r.degeneracies
}
