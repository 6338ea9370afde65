package types

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func bars(closes ...float64) []MarketData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]MarketData, len(closes))

	for i, c := range closes {
		out[i] = MarketData{
			Symbol: "TEST",
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}

	return out
}

func (suite *MarketTestSuite) TestNewPriceSeries() {
	series, err := NewPriceSeries("TEST", bars(100, 110, 99, 120))
	suite.Require().NoError(err)
	suite.Equal(4, series.Len())
	suite.Equal([]float64{100, 110, 99, 120}, series.Closes())
	suite.Equal([]float64{101, 111, 100, 121}, series.Highs())
	suite.Equal([]float64{99, 109, 98, 119}, series.Lows())
	suite.Len(series.Times(), 4)
}

func (suite *MarketTestSuite) TestNewPriceSeriesInvalid() {
	tests := []struct {
		name   string
		bars   []MarketData
		code   errors.ErrorCode
		mutate func([]MarketData)
	}{
		{name: "empty", bars: []MarketData{}, code: errors.ErrCodeMissingData},
		{name: "non positive close", bars: bars(100, 0, 99), code: errors.ErrCodeInvalidSeries},
		{name: "nan", bars: bars(100, 101), code: errors.ErrCodeInvalidSeries, mutate: func(b []MarketData) { b[1].High = math.NaN() }},
		{name: "inf volume", bars: bars(100, 101), code: errors.ErrCodeInvalidSeries, mutate: func(b []MarketData) { b[0].Volume = math.Inf(1) }},
		{name: "duplicate timestamp", bars: bars(100, 101), code: errors.ErrCodeInvalidSeries, mutate: func(b []MarketData) { b[1].Time = b[0].Time }},
		{name: "out of order", bars: bars(100, 101, 102), code: errors.ErrCodeInvalidSeries, mutate: func(b []MarketData) { b[1], b[2] = b[2], b[1] }},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			if tc.mutate != nil {
				tc.mutate(tc.bars)
			}

			_, err := NewPriceSeries("TEST", tc.bars)
			suite.Error(err)
			suite.True(errors.HasCode(err, tc.code))
		})
	}
}

func (suite *MarketTestSuite) TestSortBars() {
	b := bars(100, 101, 102)
	b[0], b[2] = b[2], b[0]

	SortBars(b)

	suite.Equal([]float64{100, 101, 102}, []float64{b[0].Close, b[1].Close, b[2].Close})
	_, err := NewPriceSeries("TEST", b)
	suite.NoError(err)
}

func (suite *MarketTestSuite) TestReturns() {
	series, err := NewPriceSeries("TEST", bars(100, 110, 99, 120))
	suite.Require().NoError(err)

	returns := series.Returns()
	suite.Equal(3, returns.Len())
	suite.InDelta(10.0, returns.Values[0], 1e-9)
	suite.InDelta(-10.0, returns.Values[1], 1e-9)
	suite.InDelta(21.2121212121, returns.Values[2], 1e-9)
	// first return belongs to the second bar
	suite.Equal(series.Bars[1].Time, returns.Times[0])
	suite.True(returns.MatchesPrices(series.Times()))
}

func (suite *MarketTestSuite) TestReturnsAligned() {
	series, err := NewPriceSeries("TEST", bars(100, 110, 99))
	suite.Require().NoError(err)

	aligned := series.Returns().Aligned()
	suite.Len(aligned, 3)
	suite.True(aligned[0].IsNone())
	suite.InDelta(10.0, aligned[1].Unwrap(), 1e-9)
	suite.InDelta(-10.0, aligned[2].Unwrap(), 1e-9)
}

func (suite *MarketTestSuite) TestReturnsSingleBar() {
	series, err := NewPriceSeries("TEST", bars(100))
	suite.Require().NoError(err)

	returns := series.Returns()
	suite.Equal(0, returns.Len())
	suite.True(returns.MatchesPrices(series.Times()))
	suite.Len(returns.Aligned(), 1)
}

func (suite *MarketTestSuite) TestMatchesPricesMismatch() {
	series, err := NewPriceSeries("TEST", bars(100, 110, 99))
	suite.Require().NoError(err)

	returns := series.Returns()
	suite.False(returns.MatchesPrices(series.Times()[:2]))

	returns.Times[1] = returns.Times[1].Add(time.Hour)
	suite.False(returns.MatchesPrices(series.Times()))
}
