package marketdata

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/provider"
)

// DownloadConfig is the user-facing form of a download request.
type DownloadConfig struct {
	Provider  string `json:"provider" jsonschema:"title=Provider,description=Remote market data provider,required,enum=polygon,enum=binance" validate:"required,oneof=polygon binance"`
	Ticker    string `json:"ticker" jsonschema:"title=Ticker,description=The symbol to download data for (e.g. SPY or BTCUSDT),required" validate:"required"`
	StartDate string `json:"startDate" jsonschema:"title=Start Date,description=First day to download,format=date,required" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" jsonschema:"title=End Date,description=Last day to download,format=date,required" validate:"required,datetime=2006-01-02"`
	// ApiKey is only read by polygon
	ApiKey string `json:"apiKey,omitempty" jsonschema:"title=API Key,description=Polygon.io API key" validate:"required_if=Provider polygon"`
}

func (c *DownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	params, err := c.ToDownloadParams()
	if err != nil {
		return err
	}

	if !params.EndDate.After(params.StartDate) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "endDate %s must be after startDate %s", c.EndDate, c.StartDate)
	}

	return nil
}

func (c *DownloadConfig) ToDownloadParams() (DownloadParams, error) {
	startDate, err := time.Parse(time.DateOnly, c.StartDate)
	if err != nil {
		return DownloadParams{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse startDate", err)
	}

	endDate, err := time.Parse(time.DateOnly, c.EndDate)
	if err != nil {
		return DownloadParams{}, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse endDate", err)
	}

	return DownloadParams{
		Ticker:    c.Ticker,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

func (c *DownloadConfig) ToClientConfig(dataPath string) ClientConfig {
	return ClientConfig{
		ProviderType:  provider.ProviderType(c.Provider),
		DataPath:      dataPath,
		PolygonApiKey: c.ApiKey,
	}
}

// ParseDownloadConfig parses and validates a JSON download request.
func ParseDownloadConfig(jsonConfig string) (*DownloadConfig, error) {
	var config DownloadConfig
	if err := json.Unmarshal([]byte(jsonConfig), &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse JSON config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
