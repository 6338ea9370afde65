package provider

import (
	"context"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/writer"
	"github.com/schollz/progressbar/v3"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

type OnDownloadProgress = func(current float64, total float64, message string)

// Provider downloads daily bars from a remote market data API.
type Provider interface {
	// ConfigWriter configures the writer used by Download.
	ConfigWriter(writer writer.MarketDataWriter)
	// Download writes the daily bars of ticker between startDate and endDate
	// to the configured writer and returns the written path.
	// example:
	// Download(ctx, "SPY", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), onProgress)
	Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (path string, err error)
	// Fetch returns the daily bars of ticker as a validated series. A ticker
	// without data gives an empty series.
	Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time) (*types.PriceSeries, error)
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config any) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		apiKey, ok := config.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidConfiguration, "polygon provider requires API key string config")
		}

		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// barSeq yields the bars of one ticker in provider order.
type barSeq = iter.Seq2[types.MarketData, error]

// download drains bars into w. The writer is always closed.
func download(w writer.MarketDataWriter, ticker string, startDate, endDate time.Time, bars barSeq, onProgress OnDownloadProgress) (path string, err error) {
	if w == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured, call ConfigWriter first")
	}

	if err := w.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "error closing writer", cerr)
		}
	}()

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	message := fmt.Sprintf("Downloading %s", ticker)
	bar := progressbar.NewOptions(totalDays,
		progressbar.OptionSetDescription(message),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWriter(os.Stderr),
	)

	for data, err := range bars {
		if err != nil {
			return "", err
		}

		if err := w.Write(data); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write data", err)
		}

		elapsed := int(data.Time.Sub(startDate).Hours() / 24)
		_ = bar.Set(min(max(elapsed, 0), totalDays))

		if onProgress != nil {
			onProgress(float64(elapsed), float64(totalDays), message)
		}
	}

	_ = bar.Finish()

	outputPath, err := w.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

// fetch collects bars into a sorted, validated series.
func fetch(ticker string, bars barSeq) (*types.PriceSeries, error) {
	collected := []types.MarketData{}

	for data, err := range bars {
		if err != nil {
			return nil, err
		}

		collected = append(collected, data)
	}

	if len(collected) == 0 {
		return &types.PriceSeries{Symbol: ticker, Bars: nil}, nil
	}

	types.SortBars(collected)

	return types.NewPriceSeries(ticker, collected)
}
