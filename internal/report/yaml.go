package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// YAMLSink writes a types.TrainingReport.
type YAMLSink struct {
	collector
	path  string
	runID string
	now   func() time.Time
}

func NewYAMLSink(path string) *YAMLSink {
	return &YAMLSink{
		collector: newCollector(),
		path:      path,
		runID:     uuid.New().String(),
		now:       time.Now,
	}
}

func (s *YAMLSink) Report(ctx context.Context, result types.InstrumentResult) error {
	return s.add(ctx, result)
}

// Build returns the report of the results collected so far.
func (s *YAMLSink) Build() types.TrainingReport {
	results := s.sorted()
	records := make([]types.InstrumentRecord, len(results))

	for i, r := range results {
		records[i] = r.Record()
	}

	return types.TrainingReport{
		ID:          s.runID,
		Timestamp:   s.now().UTC(),
		Instruments: records,
	}
}

func (s *YAMLSink) Close() error {
	if err := types.WriteTrainingReport(s.path, s.Build()); err != nil {
		return errors.Wrap(errors.ErrCodeReportFailed, "failed to write training report", err)
	}

	return nil
}
