package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// bbPositionSentinel is the position emitted when the bands collapse.
// A zero width means a constant window, so close sits on the middle band.
const bbPositionSentinel = 0.5

// BollingerBands represents the Bollinger Bands technical indicator.
type BollingerBands struct {
	period     int
	multiplier float64

	mean *RollingMean
	std  *RollingStd

	degeneracies int
}

// NewBollingerBands creates a new Bollinger Bands indicator with a 20 bar
// window and a multiplier of 2.
func NewBollingerBands() Indicator {
	bb := &BollingerBands{}
	_ = bb.Config(20, 2.0)

	return bb
}

// Name returns the name of the indicator.
func (bb *BollingerBands) Name() types.IndicatorType {
	return types.IndicatorTypeBollingerBands
}

// Config configures the Bollinger Bands indicator.
// Expected parameters: period (int), multiplier (float64).
func (bb *BollingerBands) Config(params ...any) error {
	if len(params) != 2 {
		return errParamCount("BollingerBands", "2 parameters: period, multiplier", len(params))
	}

	periods, err := intParams(params[:1])
	if err != nil {
		return err
	}

	var multiplier float64

	switch m := params[1].(type) {
	case float64:
		multiplier = m
	case int:
		multiplier = float64(m)
	default:
		return errInvalidParam(1, params[1])
	}

	if multiplier <= 0 || math.IsNaN(multiplier) {
		return errNonPositiveFloat(1, multiplier)
	}

	mean, err := NewRollingMean(periods[0])
	if err != nil {
		return err
	}

	std, err := NewRollingStd(periods[0])
	if err != nil {
		return err
	}

	bb.period = periods[0]
	bb.multiplier = multiplier
	bb.mean = mean
	bb.std = std
	bb.degeneracies = 0

	return nil
}

func (bb *BollingerBands) Columns() []types.FeatureName {
	return []types.FeatureName{
		types.FeatureBBUpper,
		types.FeatureBBMiddle,
		types.FeatureBBLower,
		types.FeatureBBWidth,
		types.FeatureBBPosition,
	}
}

func (bb *BollingerBands) Next(bar types.MarketData) []optional.Option[float64] {
	mean := bb.mean.Push(bar.Close)
	std := bb.std.Push(bar.Close)

	if mean.IsNone() || std.IsNone() {
		return []optional.Option[float64]{none(), none(), none(), none(), none()}
	}

	middle := mean.Unwrap()
	band := bb.multiplier * std.Unwrap()
	upper := middle + band
	lower := middle - band
	width := upper - lower

	position := bbPositionSentinel
	if width == 0 {
		bb.degeneracies++
	} else {
		position = (bar.Close - lower) / width
	}

	return []optional.Option[float64]{
		optional.Some(upper),
		optional.Some(middle),
		optional.Some(lower),
		optional.Some(width),
		optional.Some(position),
	}
}

func (bb *BollingerBands) Reset() {
	bb.mean.Reset()
	bb.std.Reset()
	bb.degeneracies = 0
}

// Degeneracies returns the rows resolved with the collapsed-band sentinel.
func (bb *BollingerBands) Degeneracies() int {
	return bb.degeneracies
}
