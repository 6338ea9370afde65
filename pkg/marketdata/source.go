package marketdata

import (
	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/datasource"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/provider"
)

// Source is a pipeline source that may hold open resources.
type Source interface {
	pipeline.Source
	Close() error
}

type remoteSource struct {
	provider.Provider
}

func (remoteSource) Close() error {
	return nil
}

// NewSource opens the bar source described by cfg.
func NewSource(cfg config.SourceConfig, log *logger.Logger) (Source, error) {
	switch cfg.Provider {
	case string(provider.ProviderPolygon), string(provider.ProviderBinance):
		p, err := provider.NewMarketDataProvider(provider.ProviderType(cfg.Provider), cfg.APIKey)
		if err != nil {
			return nil, err
		}

		return remoteSource{Provider: p}, nil
	case "parquet":
		return datasource.NewParquetSource(cfg.Path, log)
	case "csv":
		return datasource.NewCSVSource(cfg.Path)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported source: %s", cfg.Provider)
	}
}
