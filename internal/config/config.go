// Package config loads the argo-forecast run configuration from a YAML file
// with ARGO_ environment overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/rxtech-lab/argo-forecast/internal/harness"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/utils"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. ARGO_SOURCE_API_KEY
// or ARGO_HARNESS_FOREST_TREES.
const EnvPrefix = "ARGO"

const dateLayout = time.DateOnly

// Config is the complete run configuration.
type Config struct {
	Instruments []pipeline.Instrument `yaml:"instruments" json:"instruments" ignored:"true" validate:"required,min=1,dive" jsonschema:"title=Instruments,description=Instruments to process"`
	Start       string                `yaml:"start" json:"start" validate:"required,datetime=2006-01-02" jsonschema:"title=Start,description=First day of history,format=date,default=2020-01-01"`
	// End is the last day of history, empty for today
	End      string         `yaml:"end" json:"end" validate:"omitempty,datetime=2006-01-02" jsonschema:"title=End,description=Last day of history (empty for today),format=date"`
	Workers  int            `yaml:"workers" json:"workers" validate:"gte=1,lte=64" jsonschema:"title=Workers,description=Instruments processed concurrently,default=1"`
	Source   SourceConfig   `yaml:"source" json:"source" jsonschema:"title=Source"`
	Features FeatureConfig  `yaml:"features" json:"features" jsonschema:"title=Features"`
	Harness  harness.Config `yaml:"harness" json:"harness" jsonschema:"title=Harness"`
	Output   OutputConfig   `yaml:"output" json:"output" jsonschema:"title=Output"`
	Log      LogConfig      `yaml:"log" json:"log" jsonschema:"title=Log"`
}

// SourceConfig selects where daily bars come from.
type SourceConfig struct {
	Provider string `yaml:"provider" json:"provider" validate:"required,oneof=polygon binance parquet csv" jsonschema:"title=Provider,enum=polygon,enum=binance,enum=parquet,enum=csv,default=parquet"`
	// APIKey is required by polygon
	APIKey string `split_words:"true" yaml:"api_key" json:"api_key" validate:"required_if=Provider polygon" jsonschema:"title=API Key,description=Polygon.io API key"`
	// Path is a parquet file or glob for parquet, and a directory of <symbol>.csv files for csv
	Path string `yaml:"path" json:"path" validate:"required_if=Provider parquet,required_if=Provider csv" jsonschema:"title=Path,description=Parquet file or glob or CSV directory"`
}

// FeatureConfig tunes the lag columns and the shortest accepted series.
type FeatureConfig struct {
	CloseLags  []int `split_words:"true" yaml:"close_lags" json:"close_lags" validate:"dive,gte=1" jsonschema:"title=Close Lags"`
	ReturnLags []int `split_words:"true" yaml:"return_lags" json:"return_lags" validate:"dive,gte=1" jsonschema:"title=Return Lags"`
	MinBars    int   `split_words:"true" yaml:"min_bars" json:"min_bars" validate:"gte=0" jsonschema:"title=Min Bars,description=Shortest series accepted (0 for the longest indicator window),default=0"`
}

// OutputConfig selects the artifacts written by a run.
type OutputConfig struct {
	Dir             string `yaml:"dir" json:"dir" validate:"required" jsonschema:"title=Directory,default=results"`
	SaveFeatures    bool   `split_words:"true" yaml:"save_features" json:"save_features" jsonschema:"title=Save Features,default=true"`
	SaveModels      bool   `split_words:"true" yaml:"save_models" json:"save_models" jsonschema:"title=Save Models,default=true"`
	XLSX            bool   `yaml:"xlsx" json:"xlsx" jsonschema:"title=XLSX Report,default=false"`
	PrometheusFile  string `split_words:"true" yaml:"prometheus_file" json:"prometheus_file" jsonschema:"title=Prometheus Textfile,description=node-exporter textfile path (empty to disable)"`
	PrometheusGroup string `split_words:"true" yaml:"prometheus_group" json:"prometheus_group" jsonschema:"title=Prometheus Run Label,default=argo-forecast"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error" jsonschema:"title=Level,enum=debug,enum=info,enum=warn,enum=error,default=info"`
}

// DefaultInstruments are the eight instruments of the reference universe.
func DefaultInstruments() []pipeline.Instrument {
	return []pipeline.Instrument{
		{Name: "SP500", Symbol: "^GSPC"},
		{Name: "Gold", Symbol: "GC=F"},
		{Name: "BTC", Symbol: "BTC-USD"},
		{Name: "ETH", Symbol: "ETH-USD"},
		{Name: "XRP", Symbol: "XRP-USD"},
		{Name: "USDJPY", Symbol: "JPY=X"},
		{Name: "EURUSD", Symbol: "EURUSD=X"},
		{Name: "DXY", Symbol: "DX-Y.NYB"},
	}
}

// Default returns the configuration used when a field is not set.
func Default() Config {
	return Config{
		Instruments: DefaultInstruments(),
		Start:       "2020-01-01",
		End:         "",
		Workers:     1,
		Source: SourceConfig{
			Provider: "parquet",
			APIKey:   "",
			Path:     "data/*.parquet",
		},
		Features: FeatureConfig{
			CloseLags:  []int{1, 2, 3, 5},
			ReturnLags: []int{1, 2, 3, 5},
			MinBars:    0,
		},
		Harness: harness.DefaultConfig(),
		Output: OutputConfig{
			Dir:             "results",
			SaveFeatures:    true,
			SaveModels:      true,
			XLSX:            false,
			PrometheusFile:  "",
			PrometheusGroup: "argo-forecast",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults, applies ARGO_ environment overrides and
// validates the result. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	var data []byte

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		data = content
	}

	return Parse(data)
}

// Parse is Load for YAML content already in memory.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if len(data) > 0 {
		// yaml.v3 keeps fields absent from the document at their default
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
		}
	}

	// Environment overrides the file
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the Config.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "config validation failed", fmt.Errorf("invalid config: %w", err))
	}

	start, end, err := c.Range(time.Now())
	if err != nil {
		return err
	}

	if !end.After(start) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "end %s must be after start %s", end.Format(dateLayout), start.Format(dateLayout))
	}

	seen := make(map[string]bool, len(c.Instruments))
	for _, inst := range c.Instruments {
		if seen[inst.Key()] {
			return errors.Newf(errors.ErrCodeInvalidConfiguration, "instrument %s is listed twice", inst.Key())
		}

		seen[inst.Key()] = true
	}

	return nil
}

// Range returns the UTC history window. An empty End is the day of now.
func (c *Config) Range(now time.Time) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, c.Start)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid start date %q", c.Start)
	}

	if c.End == "" {
		y, m, d := now.UTC().Date()

		return start, time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	end, err := time.Parse(dateLayout, c.End)
	if err != nil {
		return time.Time{}, time.Time{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid end date %q", c.End)
	}

	return start, end, nil
}

// JSONSchema returns the JSON schema of Config.
func JSONSchema() (string, error) {
	return utils.GetSchemaFromConfig(&Config{})
}
