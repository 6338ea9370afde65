package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// DataGenerator generates realistic daily market data for testing.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how market data is generated.
type GeneratorConfig struct {
	// Symbol is the instrument symbol (e.g., "BTC", "Gold")
	Symbol string
	// StartTime is the beginning of the data series
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of data points to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is a fixed fractional return added to every bar (0.001 = +0.1% per bar)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// WeekdaysOnly skips Saturdays and Sundays like an exchange calendar
	WeekdaysOnly bool
	// WeekdayDrift adds a fixed fractional return to bars falling on the given weekday
	WeekdayDrift map[time.Weekday]float64
	// BoundedNoise, when positive, replaces the gaussian shock by a uniform
	// shock in [-BoundedNoise, BoundedNoise]
	BoundedNoise float64
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          500,
		InitialPrice:   100.0,
		Volatility:     0.01, // 1% per bar
		Trend:          0.0,  // neutral
		VolumeBase:     10000,
		VolumeVariance: 0.3,
		WeekdaysOnly:   false,
		WeekdayDrift:   nil,
		BoundedNoise:   0,
	}
}

// Generate creates a slice of MarketData based on the configuration.
// Closes follow a multiplicative random walk; the shock is gaussian unless
// BoundedNoise is set.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketData {
	data := make([]types.MarketData, config.Count)
	currentPrice := config.InitialPrice
	currentTime := g.nextTradingTime(config, config.StartTime)

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		var shock float64
		if config.BoundedNoise > 0 {
			shock = (g.rng.Float64()*2 - 1) * config.BoundedNoise
		} else {
			// Box-Muller transform for normal distribution
			u1 := g.rng.Float64()
			u2 := g.rng.Float64()
			z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
			shock = config.Volatility * z
		}

		change := shock + config.Trend + config.WeekdayDrift[currentTime.Weekday()]

		close := open * (1 + change)
		if close <= 0 {
			close = open * 0.99 // Prevent negative prices
		}

		// High and low are within the open-close range plus some extension
		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		// Volume with variance
		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		data[i] = types.MarketData{
			Id:     "",
			Symbol: config.Symbol,
			Time:   currentTime,
			Open:   roundToDecimals(open, 6),
			High:   roundToDecimals(high, 6),
			Low:    roundToDecimals(low, 6),
			Close:  roundToDecimals(close, 6),
			Volume: roundToDecimals(volume, 2),
		}

		// Update for next iteration
		currentPrice = data[i].Close
		currentTime = g.nextTradingTime(config, currentTime.Add(config.Interval))
	}

	return data
}

// GenerateSeries generates bars and wraps them in a validated PriceSeries.
func (g *DataGenerator) GenerateSeries(config GeneratorConfig) (*types.PriceSeries, error) {
	return types.NewPriceSeries(config.Symbol, g.Generate(config))
}

// GenerateMultiSymbol generates data for multiple symbols.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) map[string][]types.MarketData {
	allData := make(map[string][]types.MarketData, len(symbols))

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		allData[symbol] = g.Generate(config)
	}

	return allData
}

// GenerateDaily generates count daily weekday bars with default settings.
func GenerateDaily(symbol string, count int) []types.MarketData {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = count
	config.WeekdaysOnly = true

	return gen.Generate(config)
}

// WeekdayPatternConfig returns a weekday-only config whose returns are a
// fixed function of the weekday plus small bounded noise. The next bar's
// return is therefore predictable from the current bar's calendar features.
func WeekdayPatternConfig(symbol string, count int) GeneratorConfig {
	config := DefaultConfig()
	config.Symbol = symbol
	config.Count = count
	config.WeekdaysOnly = true
	config.Trend = 0.0005
	config.BoundedNoise = 0.001
	config.WeekdayDrift = map[time.Weekday]float64{
		time.Monday:    0.012,
		time.Tuesday:   -0.009,
		time.Wednesday: 0.006,
		time.Thursday:  -0.004,
		time.Friday:    0.002,
	}

	return config
}

func (g *DataGenerator) nextTradingTime(config GeneratorConfig, t time.Time) time.Time {
	if !config.WeekdaysOnly {
		return t
	}

	for t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		t = t.Add(24 * time.Hour)
	}

	return t
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
