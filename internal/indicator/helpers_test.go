package indicator_test

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/indicator"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/mocks"
)

func seriesFromCloses(closes ...float64) *types.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]types.MarketData, len(closes))

	for i, c := range closes {
		bars[i] = types.MarketData{
			Symbol: "TEST",
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}

	return &types.PriceSeries{Symbol: "TEST", Bars: bars}
}

func generatedSeries(seed int64, count int) *types.PriceSeries {
	config := mocks.DefaultConfig()
	config.Count = count
	config.WeekdaysOnly = true
	bars := mocks.NewDataGenerator(seed).Generate(config)

	return &types.PriceSeries{Symbol: config.Symbol, Bars: bars}
}

// run feeds every bar through ind and returns one slice per column.
func run(ind indicator.Indicator, series *types.PriceSeries) [][]optional.Option[float64] {
	ind.Reset()

	columns := make([][]optional.Option[float64], len(ind.Columns()))
	for _, bar := range series.Bars {
		for c, v := range ind.Next(bar) {
			columns[c] = append(columns[c], v)
		}
	}

	return columns
}
