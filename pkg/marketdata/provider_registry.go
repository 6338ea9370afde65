package marketdata

import (
	"slices"

	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/utils"
)

// SourceKind tells whether a source downloads over the network or reads files.
type SourceKind string

const (
	SourceKindRemote SourceKind = "remote"
	SourceKindFile   SourceKind = "file"
)

// SourceInfo contains metadata about a bar source.
type SourceInfo struct {
	Name         string     `json:"name"`
	DisplayName  string     `json:"displayName"`
	Description  string     `json:"description"`
	Kind         SourceKind `json:"kind"`
	RequiresAuth bool       `json:"requiresAuth"`
}

var sourceRegistry = map[string]SourceInfo{
	"polygon": {
		Name:         "polygon",
		DisplayName:  "Polygon.io",
		Description:  "US stock market data provider with split-adjusted daily aggregates",
		Kind:         SourceKindRemote,
		RequiresAuth: true,
	},
	"binance": {
		Name:         "binance",
		DisplayName:  "Binance",
		Description:  "Cryptocurrency exchange with daily klines for crypto trading pairs",
		Kind:         SourceKindRemote,
		RequiresAuth: false,
	},
	"parquet": {
		Name:         "parquet",
		DisplayName:  "Parquet files",
		Description:  "Local parquet files in the market_data layout written by the download command",
		Kind:         SourceKindFile,
		RequiresAuth: false,
	},
	"csv": {
		Name:         "csv",
		DisplayName:  "CSV files",
		Description:  "A directory of <symbol>.csv files with date, open, high, low, close and volume columns",
		Kind:         SourceKindFile,
		RequiresAuth: false,
	},
}

// GetSupportedSources returns the names of all sources in sorted order.
func GetSupportedSources() []string {
	names := make([]string, 0, len(sourceRegistry))
	for name := range sourceRegistry {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func GetSourceInfo(name string) (SourceInfo, error) {
	info, exists := sourceRegistry[name]
	if !exists {
		return SourceInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported source: %s", name)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema of DownloadConfig.
func GetDownloadConfigSchema() (string, error) {
	//nolint:exhaustruct // empty struct for schema generation
	data, err := utils.GetInlineSchemaFromConfig(&DownloadConfig{})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to marshal schema", err)
	}

	return data, nil
}
