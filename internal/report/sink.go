// Package report turns instrument results into training reports, spreadsheets,
// prometheus textfiles and terminal tables.
package report

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// Sink receives every instrument result and writes its output on Close.
type Sink interface {
	Report(ctx context.Context, result types.InstrumentResult) error
	Close() error
}

// collector keeps the latest result per symbol.
type collector struct {
	mu      sync.Mutex
	results map[string]types.InstrumentResult
}

func newCollector() collector {
	return collector{
		mu:      sync.Mutex{},
		results: make(map[string]types.InstrumentResult),
	}
}

func (c *collector) add(ctx context.Context, result types.InstrumentResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.results[result.Symbol] = result

	return nil
}

// sorted returns the collected results ordered by symbol.
func (c *collector) sorted() []types.InstrumentResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Sorted(c.results)
}

// Sorted returns results ordered by symbol.
func Sorted(results map[string]types.InstrumentResult) []types.InstrumentResult {
	out := make([]types.InstrumentResult, 0, len(results))
	for _, key := range slices.Sorted(maps.Keys(results)) {
		out = append(out, results[key])
	}

	return out
}

// MultiSink fans every result out to several sinks.
type MultiSink []Sink

func (m MultiSink) Report(ctx context.Context, result types.InstrumentResult) error {
	var errs []error

	for _, sink := range m {
		if err := sink.Report(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Wrapf(errors.ErrCodeReportFailed, errors.Join(errs...), "failed to report %s", result.Symbol)
	}

	return nil
}

// Close closes every sink, even after a failure.
func (m MultiSink) Close() error {
	var errs []error

	for _, sink := range m {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
