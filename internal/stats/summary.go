// Package stats computes descriptive statistics of daily percent returns:
// per-instrument summaries, cross-instrument correlations and compounded
// monthly or quarterly returns.
package stats

import (
	"math"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252

// Summary describes the daily percent returns of one instrument.
type Summary struct {
	Symbol       string    `yaml:"symbol" json:"symbol"`
	Observations int       `yaml:"observations" json:"observations"`
	Start        time.Time `yaml:"start" json:"start"`
	End          time.Time `yaml:"end" json:"end"`
	Mean         float64   `yaml:"mean" json:"mean"`
	// Std is the sample standard deviation, 0 with fewer than two observations.
	Std                  float64 `yaml:"std" json:"std"`
	BestDay              float64 `yaml:"best_day" json:"best_day"`
	WorstDay             float64 `yaml:"worst_day" json:"worst_day"`
	SharpeRatio          float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	AnnualizedReturn     float64 `yaml:"annualized_return" json:"annualized_return"`
	AnnualizedVolatility float64 `yaml:"annualized_volatility" json:"annualized_volatility"`
	// CumulativeReturn is the compounded return over the whole series, in percent.
	CumulativeReturn float64 `yaml:"cumulative_return" json:"cumulative_return"`
	PositiveDays     int     `yaml:"positive_days" json:"positive_days"`
	NegativeDays     int     `yaml:"negative_days" json:"negative_days"`
	ZeroDays         int     `yaml:"zero_days" json:"zero_days"`
}

// Summarize computes the summary of a return series. The Sharpe ratio is
// mean/std*sqrt(252) with no risk-free rate, and 0 when std is 0.
func Summarize(returns types.ReturnSeries) (Summary, error) {
	n := returns.Len()
	if n == 0 {
		return Summary{}, errors.Newf(errors.ErrCodeMissingData, "no returns for %s", returns.Symbol)
	}

	summary := Summary{
		Symbol:       returns.Symbol,
		Observations: n,
		Start:        returns.Times[0],
		End:          returns.Times[n-1],
		BestDay:      floats.Max(returns.Values),
		WorstDay:     floats.Min(returns.Values),
	}

	growth := 1.0
	for _, r := range returns.Values {
		growth *= 1 + r/100

		switch {
		case r > 0:
			summary.PositiveDays++
		case r < 0:
			summary.NegativeDays++
		default:
			summary.ZeroDays++
		}
	}

	if n < 2 {
		summary.Mean = stat.Mean(returns.Values, nil)
	} else {
		summary.Mean, summary.Std = stat.MeanStdDev(returns.Values, nil)
	}

	summary.AnnualizedReturn = summary.Mean * TradingDaysPerYear
	summary.AnnualizedVolatility = summary.Std * math.Sqrt(TradingDaysPerYear)
	summary.CumulativeReturn = (growth - 1) * 100

	if summary.Std != 0 {
		summary.SharpeRatio = summary.Mean / summary.Std * math.Sqrt(TradingDaysPerYear)
	}

	return summary, nil
}
