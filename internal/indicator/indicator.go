package indicator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// Indicator is a streaming technical indicator. Next is fed every bar of a
// series in order and returns one value per column.
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Columns returns the feature columns produced by Next, in order
	Columns() []types.FeatureName
	// Next consumes a bar and returns the current values
	Next(bar types.MarketData) []optional.Option[float64]
	// Reset clears all state so a new series can be consumed
	Reset()
	// Config configures the indicator. It resets any state.
	Config(params ...any) error
}

// DegeneracyCounter is implemented by indicators that substitute a sentinel
// for a zero division. Degeneracies returns how many rows used the sentinel
// since the last Reset.
type DegeneracyCounter interface {
	Degeneracies() int
}

func none() optional.Option[float64] {
	return optional.None[float64]()
}

// intParams converts Config parameters into positive integers.
// float64 values are accepted the way the yaml and json decoders produce them.
func intParams(params []any) ([]int, error) {
	out := make([]int, 0, len(params))

	for i, p := range params {
		var v int

		switch value := p.(type) {
		case int:
			v = value
		case float64:
			if value != math.Trunc(value) || math.IsInf(value, 0) {
				return nil, errNotInteger(i, value)
			}

			v = int(value)
		default:
			return nil, errInvalidParam(i, p)
		}

		if v <= 0 {
			return nil, errNonPositive(i, v)
		}

		out = append(out, v)
	}

	return out, nil
}
