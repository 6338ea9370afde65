// Package model holds the regression model used by the training harness:
// a standard scaler, CART regression trees and a bagged forest of them.
package model

import (
	"math"

	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers every column on its mean and divides by its
// population standard deviation. Constant columns keep a scale of 1.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitStandardScaler learns the column means and deviations of x.
func FitStandardScaler(x [][]float64) (*StandardScaler, error) {
	if len(x) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "cannot fit a scaler on zero rows")
	}

	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "row %d has %d columns, expected %d", i, len(row), width)
		}
	}

	mean := make([]float64, width)
	scale := make([]float64, width)
	column := make([]float64, len(x))

	for c := range width {
		for i, row := range x {
			column[i] = row[c]
		}

		mean[c], scale[c] = stat.PopMeanStdDev(column, nil)
		if scale[c] == 0 || math.IsNaN(scale[c]) {
			scale[c] = 1
		}
	}

	return &StandardScaler{Mean: mean, Scale: scale}, nil
}

// Width is the number of columns the scaler was fit on.
func (s *StandardScaler) Width() int {
	return len(s.Mean)
}

// Transform scales every row into a new matrix.
func (s *StandardScaler) Transform(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))

	for i, row := range x {
		if len(row) != s.Width() {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "row %d has %d columns, scaler expects %d", i, len(row), s.Width())
		}

		out[i] = s.transformRow(row)
	}

	return out, nil
}

func (s *StandardScaler) transformRow(row []float64) []float64 {
	scaled := make([]float64, len(row))
	for c, v := range row {
		scaled[c] = (v - s.Mean[c]) / s.Scale[c]
	}

	return scaled
}
