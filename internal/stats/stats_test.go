package stats

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatsTestSuite struct {
	suite.Suite
}

func TestStatsSuite(t *testing.T) {
	suite.Run(t, new(StatsTestSuite))
}

func daily(symbol string, start time.Time, values ...float64) types.ReturnSeries {
	times := make([]time.Time, len(values))
	for i := range values {
		times[i] = start.AddDate(0, 0, i)
	}

	return types.ReturnSeries{Symbol: symbol, Times: times, Values: values}
}

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func (suite *StatsTestSuite) TestSummarize() {
	summary, err := Summarize(daily("A", jan1, 1, -1, 2, 0))
	suite.Require().NoError(err)

	// mean 0.5, sample variance (0.25+2.25+2.25+0.25)/3
	std := math.Sqrt(5.0 / 3.0)

	suite.Equal(4, summary.Observations)
	suite.InDelta(0.5, summary.Mean, 1e-12)
	suite.InDelta(std, summary.Std, 1e-12)
	suite.InDelta(0.5/std*math.Sqrt(252), summary.SharpeRatio, 1e-9)
	suite.InDelta(std*math.Sqrt(252), summary.AnnualizedVolatility, 1e-9)
	suite.InDelta(0.5*252, summary.AnnualizedReturn, 1e-9)
	suite.InDelta((1.01*0.99*1.02-1)*100, summary.CumulativeReturn, 1e-9)
	suite.Equal(2.0, summary.BestDay)
	suite.Equal(-1.0, summary.WorstDay)
	suite.Equal(2, summary.PositiveDays)
	suite.Equal(1, summary.NegativeDays)
	suite.Equal(1, summary.ZeroDays)
	suite.Equal(jan1, summary.Start)
	suite.Equal(jan1.AddDate(0, 0, 3), summary.End)
}

func (suite *StatsTestSuite) TestSummarizeFlatSeries() {
	summary, err := Summarize(daily("FLAT", jan1, 0, 0, 0))
	suite.Require().NoError(err)
	suite.Equal(0.0, summary.Std)
	suite.Equal(0.0, summary.SharpeRatio)
	suite.Equal(3, summary.ZeroDays)

	single, err := Summarize(daily("ONE", jan1, 1.5))
	suite.Require().NoError(err)
	suite.Equal(0.0, single.Std)
	suite.Equal(0.0, single.SharpeRatio)
}

func (suite *StatsTestSuite) TestSummarizeEmpty() {
	_, err := Summarize(types.ReturnSeries{Symbol: "NONE"})
	suite.True(errors.IsMissingData(err))
}

func (suite *StatsTestSuite) TestCorrelation() {
	a := daily("A", jan1, 1, 2, 3, 4)
	// B is A reversed on the same days plus one extra day A does not have
	b := daily("B", jan1, 4, 3, 2, 1, 9)
	c := daily("C", jan1, 2, 4, 6, 8)
	flat := daily("FLAT", jan1, 1, 1, 1, 1)
	far := daily("FAR", jan1.AddDate(1, 0, 0), 1, 2, 3)

	m := Correlation(map[string]types.ReturnSeries{"C": c, "A": a, "B": b, "FLAT": flat, "FAR": far})

	suite.Equal([]string{"A", "B", "C", "FAR", "FLAT"}, m.Symbols)
	suite.InDelta(1.0, m.Get("A", "A").Unwrap(), 1e-12)
	suite.InDelta(-1.0, m.Get("A", "B").Unwrap(), 1e-12)
	suite.InDelta(-1.0, m.Get("B", "A").Unwrap(), 1e-12)
	suite.InDelta(1.0, m.Get("A", "C").Unwrap(), 1e-12)
	suite.True(m.Get("A", "FLAT").IsNone())
	suite.True(m.Get("A", "FAR").IsNone())
	suite.True(m.Get("A", "MISSING").IsNone())
}

func (suite *StatsTestSuite) TestCorrelationYAML() {
	m := Correlation(map[string]types.ReturnSeries{
		"A":    daily("A", jan1, 1, 2, 3),
		"FLAT": daily("FLAT", jan1, 0, 0, 0),
	})

	out, err := yaml.Marshal(m)
	suite.Require().NoError(err)

	var decoded map[string]map[string]*float64
	suite.Require().NoError(yaml.Unmarshal(out, &decoded))
	suite.Require().NotNil(decoded["A"]["A"])
	suite.Equal(1.0, *decoded["A"]["A"])
	suite.Nil(decoded["A"]["FLAT"])
}

func (suite *StatsTestSuite) TestMonthlyReturns() {
	times := []time.Time{
		time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	returns := types.ReturnSeries{Symbol: "A", Times: times, Values: []float64{10, 10, -5, 2}}

	summary, err := PeriodReturns(returns, PeriodMonth)
	suite.Require().NoError(err)
	suite.Require().Len(summary.Returns, 3)

	suite.Equal("2024-01", summary.Returns[0].Label)
	suite.InDelta(21.0, summary.Returns[0].Return, 1e-9)
	suite.Equal(2, summary.Returns[0].Days)
	suite.Equal("2024-02", summary.Returns[1].Label)
	suite.InDelta(-5.0, summary.Returns[1].Return, 1e-9)
	suite.Equal("2024-04", summary.Returns[2].Label)
	suite.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), summary.Returns[2].Start)

	suite.InDelta(21.0, summary.Best, 1e-9)
	suite.InDelta(-5.0, summary.Worst, 1e-9)
	suite.InDelta(6.0, summary.Average, 1e-9)
	suite.Equal(2, summary.PositivePeriods)
}

func (suite *StatsTestSuite) TestQuarterlyReturns() {
	times := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	returns := types.ReturnSeries{Symbol: "A", Times: times, Values: []float64{50, -50, 1}}

	summary, err := PeriodReturns(returns, PeriodQuarter)
	suite.Require().NoError(err)
	suite.Require().Len(summary.Returns, 2)
	suite.Equal("2024-Q1", summary.Returns[0].Label)
	suite.InDelta(-25.0, summary.Returns[0].Return, 1e-9)
	suite.Equal("2024-Q2", summary.Returns[1].Label)
	suite.InDelta(1.0, summary.Returns[1].Return, 1e-9)
}

func (suite *StatsTestSuite) TestPeriodReturnsErrors() {
	_, err := PeriodReturns(daily("A", jan1, 1), Period("week"))
	suite.Equal(errors.ErrCodeInvalidPeriod, errors.GetCode(err))

	_, err = PeriodReturns(types.ReturnSeries{Symbol: "A"}, PeriodMonth)
	suite.True(errors.IsMissingData(err))
}
