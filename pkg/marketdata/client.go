// Package marketdata downloads daily bars from remote providers and opens the
// bar sources the training pipeline reads from.
package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/writer"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=polygon binance"`
	DataPath      string                `validate:"required"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
}

// DownloadParams holds the parameters for a market data download request.
type DownloadParams struct {
	Ticker    string    `validate:"required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtfield=StartDate"`
}

// FileName is TICKER_START_END_1d.parquet.
func (p DownloadParams) FileName() string {
	return fmt.Sprintf("%s_%s_%s_1d.parquet",
		p.Ticker,
		p.StartDate.Format(time.DateOnly),
		p.EndDate.Format(time.DateOnly))
}

// Client downloads daily bars from a provider into parquet files.
type Client struct {
	provider   provider.Provider
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	var apiConfig any
	if config.ProviderType == provider.ProviderPolygon {
		apiConfig = config.PolygonApiKey
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, apiConfig)
	if err != nil {
		return nil, err
	}

	return newClientWithProvider(marketProvider, config, onProgress), nil
}

func newClientWithProvider(p provider.Provider, config ClientConfig, onProgress provider.OnDownloadProgress) *Client {
	return &Client{
		provider:   p,
		config:     config,
		validate:   validator.New(),
		onProgress: onProgress,
	}
}

// Download writes the requested bars under DataPath and returns the file path.
func (c *Client) Download(ctx context.Context, params DownloadParams) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if err := os.MkdirAll(c.config.DataPath, 0755); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create %s", c.config.DataPath)
	}

	c.provider.ConfigWriter(writer.NewDuckDBWriter(filepath.Join(c.config.DataPath, params.FileName())))

	path, err := c.provider.Download(ctx, params.Ticker, params.StartDate, params.EndDate, c.onProgress)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}

	return path, nil
}
