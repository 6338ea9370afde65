package indicator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/stat"
)

type AccumulatorTestSuite struct {
	suite.Suite
}

func TestAccumulatorSuite(t *testing.T) {
	suite.Run(t, new(AccumulatorTestSuite))
}

func pushAll(acc Accumulator, values ...float64) []optional.Option[float64] {
	out := make([]optional.Option[float64], len(values))
	for i, v := range values {
		out[i] = acc.Push(v)
	}

	return out
}

func (suite *AccumulatorTestSuite) TestRollingMean() {
	mean, err := NewRollingMean(3)
	suite.Require().NoError(err)

	out := pushAll(mean, 1, 2, 3, 4, 10)
	suite.True(out[0].IsNone())
	suite.True(out[1].IsNone())
	suite.InDelta(2.0, out[2].Unwrap(), 1e-12)
	suite.InDelta(3.0, out[3].Unwrap(), 1e-12)
	suite.InDelta(17.0/3, out[4].Unwrap(), 1e-12)
}

func (suite *AccumulatorTestSuite) TestRollingMeanReset() {
	mean, err := NewRollingMean(2)
	suite.Require().NoError(err)

	pushAll(mean, 5, 6)
	mean.Reset()

	suite.True(mean.Push(1).IsNone())
	suite.InDelta(1.5, mean.Push(2).Unwrap(), 1e-12)
}

func (suite *AccumulatorTestSuite) TestRollingStdSample() {
	std, err := NewRollingStd(3)
	suite.Require().NoError(err)

	out := pushAll(std, 1, 2, 3, 5)
	suite.True(out[0].IsNone())
	suite.True(out[1].IsNone())
	// sample std of {1,2,3} is 1
	suite.InDelta(1.0, out[2].Unwrap(), 1e-12)
	// sample std of {2,3,5}: mean 10/3, squares 16/9+1/9+25/9 = 42/9, /2
	suite.InDelta(math.Sqrt(42.0/18), out[3].Unwrap(), 1e-12)
}

func (suite *AccumulatorTestSuite) TestRollingStdConstant() {
	std, err := NewRollingStd(4)
	suite.Require().NoError(err)

	out := pushAll(std, 7, 7, 7, 7)
	suite.Equal(0.0, out[3].Unwrap())
}

func (suite *AccumulatorTestSuite) TestMovingWindowsMatchFullRecompute() {
	rng := rand.New(rand.NewSource(3))
	values := make([]float64, 2000)

	price := 50000.0
	for i := range values {
		price *= 1 + rng.NormFloat64()*0.01
		values[i] = price
	}

	for _, n := range []int{2, 5, 20, 50} {
		mean, err := NewRollingMean(n)
		suite.Require().NoError(err)

		std, err := NewRollingStd(n)
		suite.Require().NoError(err)

		means := pushAll(mean, values...)
		stds := pushAll(std, values...)

		for t := n - 1; t < len(values); t++ {
			w := values[t-n+1 : t+1]
			suite.InDelta(stat.Mean(w, nil), means[t].Unwrap(), 1e-9*price, "mean n=%d t=%d", n, t)
			suite.InEpsilon(stat.StdDev(w, nil), stds[t].Unwrap(), 1e-7, "std n=%d t=%d", n, t)
		}
	}
}

func (suite *AccumulatorTestSuite) TestConstantWindowAfterMovement() {
	mean, err := NewRollingMean(3)
	suite.Require().NoError(err)

	std, err := NewRollingStd(3)
	suite.Require().NoError(err)

	values := []float64{0.3, 1e6, 0.1, 0.1, 0.1}

	means := pushAll(mean, values...)
	stds := pushAll(std, values...)

	suite.Equal(0.1, means[4].Unwrap())
	suite.Equal(0.0, stds[4].Unwrap())

	std.Reset()
	out := pushAll(std, 1, 2, 3)
	suite.InDelta(1.0, out[2].Unwrap(), 1e-12)
}

func (suite *AccumulatorTestSuite) TestExponentialMeanAdjusted() {
	ema, err := NewExponentialMean(3)
	suite.Require().NoError(err)

	values := []float64{10, 11, 13, 12, 15}
	out := pushAll(ema, values...)

	// closed form: sum((1-a)^i * x[t-i]) / sum((1-a)^i)
	alpha := 2.0 / 4.0
	for t := range values {
		num, den := 0.0, 0.0
		for i := 0; i <= t; i++ {
			weight := math.Pow(1-alpha, float64(i))
			num += weight * values[t-i]
			den += weight
		}

		suite.True(out[t].IsSome())
		suite.InDelta(num/den, out[t].Unwrap(), 1e-12)
	}

	suite.Equal(10.0, out[0].Unwrap())
}

func (suite *AccumulatorTestSuite) TestLag() {
	lag, err := NewLag(2)
	suite.Require().NoError(err)

	out := pushAll(lag, 1, 2, 3, 4)
	suite.True(out[0].IsNone())
	suite.True(out[1].IsNone())
	suite.Equal(1.0, out[2].Unwrap())
	suite.Equal(2.0, out[3].Unwrap())

	lag.Reset()
	suite.True(lag.Push(9).IsNone())
}

func (suite *AccumulatorTestSuite) TestInvalidWindows() {
	_, err := NewRollingMean(0)
	suite.Error(err)

	_, err = NewRollingStd(1)
	suite.Error(err)

	_, err = NewExponentialMean(-1)
	suite.Error(err)

	_, err = NewLag(0)
	suite.Error(err)
}
