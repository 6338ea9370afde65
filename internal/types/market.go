package types

import (
	"math"
	"sort"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// MarketData is a single daily OHLCV bar.
type MarketData struct {
	Id     string    `yaml:"id" json:"id" csv:"id"`
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// PriceSeries is one instrument's bars ordered by time.
// Timestamps are unique and strictly increasing. Gaps are kept as they are.
type PriceSeries struct {
	Symbol string
	Bars   []MarketData
}

// NewPriceSeries validates bars and wraps them in a PriceSeries.
// Bars must already be sorted, see SortBars.
func NewPriceSeries(symbol string, bars []MarketData) (*PriceSeries, error) {
	if len(bars) == 0 {
		return nil, errors.Newf(errors.ErrCodeMissingData, "no bars for %s", symbol)
	}

	for i, bar := range bars {
		if !isFinite(bar.Open) || !isFinite(bar.High) || !isFinite(bar.Low) || !isFinite(bar.Close) || !isFinite(bar.Volume) {
			return nil, errors.Newf(errors.ErrCodeInvalidSeries, "%s: non-finite value at %s", symbol, bar.Time.Format(time.DateOnly))
		}

		if bar.Close <= 0 {
			return nil, errors.Newf(errors.ErrCodeInvalidSeries, "%s: close must be positive at %s, got %f", symbol, bar.Time.Format(time.DateOnly), bar.Close)
		}

		if i > 0 && !bar.Time.After(bars[i-1].Time) {
			return nil, errors.Newf(errors.ErrCodeInvalidSeries, "%s: timestamps not strictly increasing at %s", symbol, bar.Time.Format(time.DateOnly))
		}
	}

	return &PriceSeries{
		Symbol: symbol,
		Bars:   bars,
	}, nil
}

// SortBars orders bars by time in place.
func SortBars(bars []MarketData) {
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
}

// Len returns the number of bars.
func (p *PriceSeries) Len() int {
	return len(p.Bars)
}

func (p *PriceSeries) Closes() []float64 {
	return p.column(func(bar MarketData) float64 { return bar.Close })
}

func (p *PriceSeries) Highs() []float64 {
	return p.column(func(bar MarketData) float64 { return bar.High })
}

func (p *PriceSeries) Lows() []float64 {
	return p.column(func(bar MarketData) float64 { return bar.Low })
}

func (p *PriceSeries) Times() []time.Time {
	times := make([]time.Time, len(p.Bars))
	for i, bar := range p.Bars {
		times[i] = bar.Time
	}

	return times
}

func (p *PriceSeries) column(get func(MarketData) float64) []float64 {
	values := make([]float64, len(p.Bars))
	for i, bar := range p.Bars {
		values[i] = get(bar)
	}

	return values
}

// Returns computes the percent change of close between consecutive bars.
func (p *PriceSeries) Returns() ReturnSeries {
	if len(p.Bars) < 2 {
		return ReturnSeries{Symbol: p.Symbol, Times: []time.Time{}, Values: []float64{}}
	}

	times := make([]time.Time, 0, len(p.Bars)-1)
	values := make([]float64, 0, len(p.Bars)-1)

	for i := 1; i < len(p.Bars); i++ {
		times = append(times, p.Bars[i].Time)
		values = append(values, (p.Bars[i].Close/p.Bars[i-1].Close-1)*100)
	}

	return ReturnSeries{
		Symbol: p.Symbol,
		Times:  times,
		Values: values,
	}
}

// ReturnSeries holds percent returns. Element i belongs to bar i+1 of the
// PriceSeries it was derived from.
type ReturnSeries struct {
	Symbol string
	Times  []time.Time
	Values []float64
}

func (r ReturnSeries) Len() int {
	return len(r.Values)
}

// Aligned projects the returns onto the price index. The first slot has no
// previous close and is None.
func (r ReturnSeries) Aligned() []optional.Option[float64] {
	aligned := make([]optional.Option[float64], len(r.Values)+1)
	aligned[0] = optional.None[float64]()

	for i, v := range r.Values {
		aligned[i+1] = optional.Some(v)
	}

	return aligned
}

// MatchesPrices reports whether r was derived from a series with the given timestamps.
func (r ReturnSeries) MatchesPrices(times []time.Time) bool {
	if len(times) == 0 || len(r.Values) != len(times)-1 || len(r.Times) != len(r.Values) {
		return false
	}

	for i, t := range r.Times {
		if !t.Equal(times[i+1]) {
			return false
		}
	}

	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
