package main

import (
	"context"

	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"go.uber.org/zap"
)

type fetched struct {
	key    string
	series *types.PriceSeries
}

// fetchAll fetches every configured instrument in order. Instruments that
// fail or have no bars are logged and left out.
func fetchAll(ctx context.Context, source pipeline.Source, cfg *config.Config, log *logger.Logger) ([]fetched, error) {
	start, end, err := cfg.Range(timeNow())
	if err != nil {
		return nil, err
	}

	var out []fetched

	for _, inst := range cfg.Instruments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		series, err := source.Fetch(ctx, inst.Symbol, start, end)
		if err != nil {
			log.Warn("Skipping instrument", zap.String("instrument", inst.Key()), zap.Error(err))

			continue
		}

		if series.Len() == 0 {
			log.Warn("Skipping instrument without data", zap.String("instrument", inst.Key()))

			continue
		}

		series.Symbol = inst.Key()
		out = append(out, fetched{key: inst.Key(), series: series})
	}

	return out, nil
}
