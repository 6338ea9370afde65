package indicator_test

import (
	"testing"

	"github.com/rxtech-lab/argo-forecast/internal/indicator"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestName() {
	rsi := indicator.NewRSI()
	suite.Equal(types.IndicatorTypeRSI, rsi.Name())
	suite.Equal([]types.FeatureName{types.FeatureRSI}, rsi.Columns())
}

func (suite *RSITestSuite) TestDefinedFromWindowEnd() {
	rsi := indicator.NewRSI()
	column := run(rsi, generatedSeries(1, 60))[0]

	for t, v := range column {
		if t < 13 {
			suite.Truef(v.IsNone(), "row %d should be missing", t)
		} else {
			suite.Truef(v.IsSome(), "row %d should be defined", t)
		}
	}
}

func (suite *RSITestSuite) TestRange() {
	for _, seed := range []int64{1, 2, 3, 4} {
		rsi := indicator.NewRSI()
		column := run(rsi, generatedSeries(seed, 400))[0]

		for _, v := range column {
			if v.IsNone() {
				continue
			}

			suite.GreaterOrEqual(v.Unwrap(), 0.0)
			suite.LessOrEqual(v.Unwrap(), 100.0)
		}
	}
}

func (suite *RSITestSuite) TestKnownValue() {
	rsi := indicator.NewRSI()
	suite.Require().NoError(rsi.Config(3))

	// deltas: 0 (first bar), +2, -1, +3 -> last window gains {2,0,3}, losses {0,1,0}
	column := run(rsi, seriesFromCloses(10, 12, 11, 14))[0]
	suite.True(column[1].IsNone())

	// first window {0,+2,-1}: avg gain 2/3, avg loss 1/3, rs 2
	suite.InDelta(100-100/3.0, column[2].Unwrap(), 1e-9)
	// second window {+2,-1,+3}: avg gain 5/3, avg loss 1/3, rs 5
	suite.InDelta(100-100/6.0, column[3].Unwrap(), 1e-9)
}

func (suite *RSITestSuite) TestZeroLossSentinel() {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi := indicator.NewRSI()
	column := run(rsi, seriesFromCloses(closes...))[0]

	for t := 13; t < len(column); t++ {
		suite.Equal(100.0, column[t].Unwrap())
	}

	counter, ok := rsi.(indicator.DegeneracyCounter)
	suite.Require().True(ok)
	suite.Equal(len(closes)-13, counter.Degeneracies())
}

func (suite *RSITestSuite) TestFlatSeriesSentinel() {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 42
	}

	rsi := indicator.NewRSI()
	column := run(rsi, seriesFromCloses(closes...))[0]
	suite.Equal(100.0, column[19].Unwrap())
}

func (suite *RSITestSuite) TestResetClearsDegeneracies() {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}

	rsi := indicator.NewRSI()
	run(rsi, seriesFromCloses(closes...))
	rsi.Reset()

	suite.Equal(0, rsi.(indicator.DegeneracyCounter).Degeneracies())
}

func (suite *RSITestSuite) TestConfigInvalid() {
	rsi := indicator.NewRSI()
	suite.Error(rsi.Config())
	suite.Error(rsi.Config(14, 30.0))
	suite.Error(rsi.Config(0))
}
