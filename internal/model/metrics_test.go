package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type MetricsTestSuite struct {
	suite.Suite
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) TestR2() {
	r2, err := R2([]float64{1, 2, 3}, []float64{1, 2, 3})
	suite.NoError(err)
	suite.Equal(1.0, r2)

	// predicting the mean gives zero
	r2, err = R2([]float64{1, 2, 3}, []float64{2, 2, 2})
	suite.NoError(err)
	suite.InDelta(0.0, r2, 1e-12)

	// worse than the mean is negative
	r2, err = R2([]float64{1, 2, 3}, []float64{3, 2, 1})
	suite.NoError(err)
	suite.InDelta(-3.0, r2, 1e-12)
}

func (suite *MetricsTestSuite) TestR2ConstantTruth() {
	r2, err := R2([]float64{5, 5}, []float64{5, 5})
	suite.NoError(err)
	suite.Equal(1.0, r2)

	r2, err = R2([]float64{5, 5}, []float64{4, 5})
	suite.NoError(err)
	suite.Equal(0.0, r2)
}

func (suite *MetricsTestSuite) TestRMSE() {
	rmse, err := RMSE([]float64{0, 0, 0, 0}, []float64{1, -1, 1, -1})
	suite.NoError(err)
	suite.Equal(1.0, rmse)

	rmse, err = RMSE([]float64{1, 2}, []float64{1, 4})
	suite.NoError(err)
	suite.InDelta(math.Sqrt(2), rmse, 1e-12)
}

func (suite *MetricsTestSuite) TestErrors() {
	_, err := R2(nil, nil)
	suite.Error(err)

	_, err = RMSE([]float64{1}, []float64{1, 2})
	suite.Error(err)
}
