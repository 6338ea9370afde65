// Package pipeline runs the fetch, assemble, train, persist and report
// stages for a batch of instruments. One instrument never aborts another.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/internal/harness"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Instrument names a series to train on. Name keys the results and Symbol
// is the ticker passed to the Source, e.g. {"SP500", "^GSPC"}.
type Instrument struct {
	Name   string `yaml:"name" json:"name" validate:"required" jsonschema:"title=Name,description=Display name used in reports and output files"`
	Symbol string `yaml:"symbol" json:"symbol" validate:"required" jsonschema:"title=Symbol,description=Ticker passed to the market data source"`
}

// Key is the result key of the instrument.
func (i Instrument) Key() string {
	if i.Name != "" {
		return i.Name
	}

	return i.Symbol
}

// Options configures a Runner. Store and Sink are optional.
type Options struct {
	Store     Store
	Sink      Sink
	Assembler feature.Options
	// Workers is the number of instruments processed at once; 0 or 1 runs sequentially
	Workers int
	Start   time.Time
	End     time.Time
	Logger  *logger.Logger
}

type Runner struct {
	source    Source
	store     optional.Option[Store]
	sink      optional.Option[Sink]
	harness   *harness.Harness
	assembler feature.Options
	workers   int
	start     time.Time
	end       time.Time
	logger    *logger.Logger
}

func NewRunner(source Source, h *harness.Harness, opts Options) (*Runner, error) {
	if source == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "pipeline needs a source")
	}

	if h == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "pipeline needs a harness")
	}

	// Indicators are stateful, a shared registry cannot serve concurrent instruments.
	if opts.Assembler.Registry != nil && opts.Workers > 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "a shared indicator registry requires a single worker")
	}

	// Fail on a bad feature configuration before any instrument is fetched.
	if _, err := feature.NewAssembler(opts.Assembler); err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = logger.NewNopLogger()
	}

	runner := &Runner{
		source:    source,
		store:     optional.None[Store](),
		sink:      optional.None[Sink](),
		harness:   h,
		assembler: opts.Assembler,
		workers:   max(opts.Workers, 1),
		start:     opts.Start,
		end:       opts.End,
		logger:    opts.Logger,
	}

	if opts.Store != nil {
		runner.store = optional.Some(opts.Store)
	}

	if opts.Sink != nil {
		runner.sink = optional.Some(opts.Sink)
	}

	return runner, nil
}

// Run processes every instrument and returns one result per instrument key.
// Cancelling ctx stops new instruments from starting; they are reported as
// failed with the context error.
func (r *Runner) Run(ctx context.Context, instruments []Instrument, callbacks Callbacks) map[string]types.InstrumentResult {
	results := make(map[string]types.InstrumentResult, len(instruments))

	var mu sync.Mutex

	record := func(index int, result types.InstrumentResult) {
		result = r.report(ctx, result)

		mu.Lock()
		results[result.Symbol] = result
		mu.Unlock()

		if callbacks.OnInstrumentEnd != nil {
			(*callbacks.OnInstrumentEnd)(index, result)
		}
	}

	defer func() {
		if callbacks.OnRunEnd != nil {
			(*callbacks.OnRunEnd)(results)
		}
	}()

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(len(instruments)); err != nil {
			for i, inst := range instruments {
				record(i, failed(inst.Key(), err))
			}

			return results
		}
	}

	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	seen := make(map[string]bool, len(instruments))

	for i, inst := range instruments {
		key := inst.Key()

		if seen[key] {
			r.logger.Warn("duplicate instrument ignored", zap.String("instrument", key))

			continue
		}

		seen[key] = true

		if err := ctx.Err(); err != nil {
			record(i, failed(key, err))

			continue
		}

		g.Go(func() error {
			if callbacks.OnInstrumentStart != nil {
				(*callbacks.OnInstrumentStart)(i, key, len(instruments))
			}

			record(i, r.runInstrument(ctx, inst))

			return nil
		})
	}

	_ = g.Wait()

	return results
}

// runInstrument never panics; a panic in any stage fails only this instrument.
func (r *Runner) runInstrument(ctx context.Context, inst Instrument) (result types.InstrumentResult) {
	key := inst.Key()
	log := r.logger.ForInstrument(key, inst.Symbol)

	defer func() {
		if p := recover(); p != nil {
			log.Error("instrument panicked", zap.Any("panic", p))
			result = failed(key, errors.Newf(errors.ErrCodeUnknown, "panic while processing %s: %v", key, p))
		}
	}()

	return r.process(ctx, inst, log)
}

// report hands every recorded result to the sink, including results of
// instruments that panicked or never started. A cancelled run is still
// reported.
func (r *Runner) report(ctx context.Context, result types.InstrumentResult) types.InstrumentResult {
	if r.sink.IsNone() {
		return result
	}

	if err := r.sink.Unwrap().Report(context.WithoutCancel(ctx), result); err != nil {
		r.logger.Error("failed to report result", zap.String("instrument", result.Symbol), zap.Error(err))

		result.Status = types.InstrumentStatusFailed
		result.Err = errors.Wrap(errors.ErrCodeReportFailed, "failed to report result", err)
	}

	return result
}

func (r *Runner) process(ctx context.Context, inst Instrument, log *logger.Logger) types.InstrumentResult {
	key := inst.Key()

	if err := ctx.Err(); err != nil {
		return failed(key, err)
	}

	log.Debug("fetching series")

	series, err := r.source.Fetch(ctx, inst.Symbol, r.start, r.end)
	if err != nil {
		if errors.IsMissingData(err) {
			log.Warn("no data for instrument", zap.Error(err))

			return skipped(key, types.InstrumentStatusSkippedNoData, err)
		}

		log.Error("failed to fetch series", zap.Error(err))

		return failed(key, err)
	}

	if series == nil || series.Len() == 0 {
		log.Warn("no data for instrument")

		return skipped(key, types.InstrumentStatusSkippedNoData,
			errors.Newf(errors.ErrCodeMissingData, "no bars for %s", inst.Symbol))
	}

	series.Symbol = key

	assembler, err := feature.NewAssembler(r.assembler)
	if err != nil {
		return failed(key, err)
	}

	table, err := assembler.Assemble(series)
	if err != nil {
		if errors.IsMissingData(err) {
			log.Warn("series too short for features", zap.Int("bars", series.Len()), zap.Error(err))

			return skipped(key, types.InstrumentStatusSkippedNoData, err)
		}

		log.Error("failed to assemble features", zap.Error(err))

		return failed(key, err)
	}

	for _, warning := range table.Warnings {
		log.Warn("numeric degeneracy", zap.Error(warning))
	}

	log.Debug("assembled features", zap.Int("rows", table.Len()), zap.Int("features", len(table.Names)))

	if r.store.IsSome() {
		if err := r.store.Unwrap().SaveFeatures(ctx, table); err != nil {
			log.Error("failed to save features", zap.Error(err))

			return withWarnings(failed(key, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to save features", err)), table)
		}
	}

	model, metrics, err := r.harness.Train(table)
	if err != nil {
		if errors.IsInsufficientSamples(err) {
			log.Warn("skipping instrument", zap.Error(err))

			result := withWarnings(skipped(key, types.InstrumentStatusSkippedInsufficientSamples, err), table)

			var insufficient *errors.InsufficientDataError
			if errors.As(err, &insufficient) {
				result.SampleCount = insufficient.Actual
			}

			return result
		}

		log.Error("failed to train model", zap.Error(err))

		return withWarnings(failed(key, err), table)
	}

	if r.store.IsSome() {
		if err := r.store.Unwrap().SaveModel(ctx, model); err != nil {
			log.Error("failed to save model", zap.Error(err))

			return withWarnings(failed(key, errors.Wrap(errors.ErrCodePersistenceFailed, "failed to save model", err)), table)
		}
	}

	return types.InstrumentResult{
		Symbol:      key,
		Status:      types.InstrumentStatusTrained,
		Err:         nil,
		Metrics:     optional.Some(metrics),
		Warnings:    table.Warnings,
		SampleCount: metrics.NTrain + metrics.NTest,
	}
}

func failed(key string, err error) types.InstrumentResult {
	return types.InstrumentResult{
		Symbol:  key,
		Status:  types.InstrumentStatusFailed,
		Err:     fmt.Errorf("%s: %w", key, err),
		Metrics: optional.None[types.TrainingMetrics](),
	}
}

func skipped(key string, status types.InstrumentStatus, err error) types.InstrumentResult {
	return types.InstrumentResult{
		Symbol:  key,
		Status:  status,
		Err:     err,
		Metrics: optional.None[types.TrainingMetrics](),
	}
}

func withWarnings(result types.InstrumentResult, table *feature.Table) types.InstrumentResult {
	result.Warnings = table.Warnings

	return result
}
