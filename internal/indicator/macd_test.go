package indicator_test

import (
	"testing"

	"github.com/rxtech-lab/argo-forecast/internal/indicator"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/stretchr/testify/suite"
)

type MACDTestSuite struct {
	suite.Suite
}

func TestMACDSuite(t *testing.T) {
	suite.Run(t, new(MACDTestSuite))
}

func (suite *MACDTestSuite) TestColumns() {
	macd := indicator.NewMACD()
	suite.Equal(types.IndicatorTypeMACD, macd.Name())
	suite.Equal([]types.FeatureName{types.FeatureMACD, types.FeatureMACDSignal, types.FeatureMACDHistogram}, macd.Columns())
}

func (suite *MACDTestSuite) TestHistogramIdentity() {
	macd := indicator.NewMACD()
	columns := run(macd, generatedSeries(5, 300))

	for t := range columns[0] {
		line, signal, histogram := columns[0][t], columns[1][t], columns[2][t]
		if line.IsNone() || signal.IsNone() {
			continue
		}

		// exact identity, no tolerance
		suite.Equal(line.Unwrap()-signal.Unwrap(), histogram.Unwrap())
	}
}

func (suite *MACDTestSuite) TestLineIsEMADifference() {
	series := generatedSeries(8, 100)

	ema := indicator.NewEMA()
	macd := indicator.NewMACD()
	emas := run(ema, series)
	lines := run(macd, series)

	for t := range lines[0] {
		suite.InDelta(emas[0][t].Unwrap()-emas[1][t].Unwrap(), lines[0][t].Unwrap(), 1e-9)
	}
}

func (suite *MACDTestSuite) TestFlatSeriesIsZero() {
	macd := indicator.NewMACD()
	columns := run(macd, seriesFromCloses(50, 50, 50, 50, 50))

	for _, column := range columns {
		for _, v := range column {
			suite.InDelta(0.0, v.Unwrap(), 1e-12)
		}
	}
}

func (suite *MACDTestSuite) TestConfigInvalid() {
	macd := indicator.NewMACD()
	suite.Error(macd.Config(12, 26))
	suite.Error(macd.Config(12, 0, 9))
	suite.NoError(macd.Config(5, 10, 3))
}
