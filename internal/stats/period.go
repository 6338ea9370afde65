package stats

import (
	"fmt"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// Period is a calendar bucket for compounding returns.
type Period string

const (
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
)

// PeriodReturn is the compounded percent return of one calendar bucket.
type PeriodReturn struct {
	Label  string    `yaml:"label" json:"label"`
	Start  time.Time `yaml:"start" json:"start"`
	Return float64   `yaml:"return" json:"return"`
	Days   int       `yaml:"days" json:"days"`
}

// PeriodSummary lists every bucket of one instrument in time order.
type PeriodSummary struct {
	Symbol          string         `yaml:"symbol" json:"symbol"`
	Period          Period         `yaml:"period" json:"period"`
	Returns         []PeriodReturn `yaml:"returns" json:"returns"`
	Best            float64        `yaml:"best" json:"best"`
	Worst           float64        `yaml:"worst" json:"worst"`
	Average         float64        `yaml:"average" json:"average"`
	PositivePeriods int            `yaml:"positive_periods" json:"positive_periods"`
}

// PeriodReturns compounds daily percent returns into calendar buckets:
// (prod(1 + r/100) - 1) * 100. Buckets without observations are omitted.
func PeriodReturns(returns types.ReturnSeries, period Period) (PeriodSummary, error) {
	if period != PeriodMonth && period != PeriodQuarter {
		return PeriodSummary{}, errors.Newf(errors.ErrCodeInvalidPeriod, "unknown period %q", period)
	}

	if returns.Len() == 0 {
		return PeriodSummary{}, errors.Newf(errors.ErrCodeMissingData, "no returns for %s", returns.Symbol)
	}

	summary := PeriodSummary{
		Symbol:  returns.Symbol,
		Period:  period,
		Returns: []PeriodReturn{},
	}

	growth := 1.0
	current := PeriodReturn{}

	flush := func() {
		current.Return = (growth - 1) * 100
		summary.Returns = append(summary.Returns, current)
	}

	for k, t := range returns.Times {
		start, label := bucket(t, period)

		if current.Days > 0 && !start.Equal(current.Start) {
			flush()

			growth = 1.0
			current = PeriodReturn{}
		}

		if current.Days == 0 {
			current.Start = start
			current.Label = label
		}

		growth *= 1 + returns.Values[k]/100
		current.Days++
	}

	flush()

	summary.Best = summary.Returns[0].Return
	summary.Worst = summary.Returns[0].Return

	for _, r := range summary.Returns {
		summary.Best = max(summary.Best, r.Return)
		summary.Worst = min(summary.Worst, r.Return)
		summary.Average += r.Return

		if r.Return > 0 {
			summary.PositivePeriods++
		}
	}

	summary.Average /= float64(len(summary.Returns))

	return summary, nil
}

func bucket(t time.Time, period Period) (time.Time, string) {
	if period == PeriodQuarter {
		q := (int(t.Month())-1)/3 + 1

		return time.Date(t.Year(), time.Month((q-1)*3+1), 1, 0, 0, 0, 0, t.Location()), fmt.Sprintf("%d-Q%d", t.Year(), q)
	}

	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()), fmt.Sprintf("%d-%02d", t.Year(), int(t.Month()))
}
