package model

import (
	"math"

	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// R2 is the coefficient of determination. When the truth is constant it is
// 1 for a perfect prediction and 0 otherwise.
func R2(truth, predicted []float64) (float64, error) {
	if err := checkPair(truth, predicted); err != nil {
		return 0, err
	}

	if stat.Variance(truth, nil) == 0 || len(truth) == 1 {
		if floats.Equal(truth, predicted) {
			return 1, nil
		}

		return 0, nil
	}

	return stat.RSquaredFrom(predicted, truth, nil), nil
}

// RMSE is the root mean squared error.
func RMSE(truth, predicted []float64) (float64, error) {
	if err := checkPair(truth, predicted); err != nil {
		return 0, err
	}

	return floats.Distance(truth, predicted, 2) / math.Sqrt(float64(len(truth))), nil
}

func checkPair(truth, predicted []float64) error {
	if len(truth) == 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "metrics need at least one observation")
	}

	if len(truth) != len(predicted) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "%d observations but %d predictions", len(truth), len(predicted))
	}

	return nil
}
