package pipeline

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/internal/harness"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// Source supplies the daily bars of one ticker between start and end.
// An instrument with no data returns an empty series or a MissingData error.
type Source interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error)
}

// Store persists the artifacts of a trained instrument.
type Store interface {
	SaveFeatures(ctx context.Context, table *feature.Table) error
	SaveModel(ctx context.Context, model *harness.TrainedModel) error
}

// Sink receives the outcome of every instrument, trained or not.
type Sink interface {
	Report(ctx context.Context, result types.InstrumentResult) error
}
