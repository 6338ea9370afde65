// Package datasource reads daily bars from local files.
package datasource

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// DataSource returns the bars of one symbol between start and end, both
// inclusive. A zero end means no upper bound.
type DataSource interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error)
	Close() error
}

// inRange reports whether t lies in [start, end]. A zero end is open.
func inRange(t, start, end time.Time) bool {
	if t.Before(start) {
		return false
	}

	return end.IsZero() || !t.After(end)
}

// toSeries sorts bars and validates them. No bars gives an empty series.
func toSeries(symbol string, bars []types.MarketData) (*types.PriceSeries, error) {
	if len(bars) == 0 {
		return &types.PriceSeries{Symbol: symbol, Bars: nil}, nil
	}

	types.SortBars(bars)

	return types.NewPriceSeries(symbol, bars)
}
