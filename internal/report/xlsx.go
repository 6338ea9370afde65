package report

import (
	"context"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	MetricsSheet = "Metrics"
	SummarySheet = "Summary"
)

var metricsHeader = []any{
	"Symbol", "Status", "R2", "RMSE", "Train Rows", "Test Rows",
	"Train Start", "Train End", "Test Start", "Test End", "Samples", "Warnings", "Error",
}

// XLSXSink writes a workbook with one metrics row per instrument and a
// status summary.
type XLSXSink struct {
	collector
	path string
}

func NewXLSXSink(path string) *XLSXSink {
	return &XLSXSink{
		collector: newCollector(),
		path:      path,
	}
}

func (s *XLSXSink) Report(ctx context.Context, result types.InstrumentResult) error {
	return s.add(ctx, result)
}

func (s *XLSXSink) Close() error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MetricsSheet); err != nil {
		return errors.Wrap(errors.ErrCodeReportFailed, "failed to create metrics sheet", err)
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return errors.Wrap(errors.ErrCodeReportFailed, "failed to create summary sheet", err)
	}

	results := s.sorted()
	if err := writeRow(f, MetricsSheet, 1, metricsHeader); err != nil {
		return err
	}

	counts := map[types.InstrumentStatus]int{}

	for i, r := range results {
		counts[r.Status]++

		if err := writeRow(f, MetricsSheet, i+2, metricsRow(r)); err != nil {
			return err
		}
	}

	if err := writeRow(f, SummarySheet, 1, []any{"Status", "Instruments"}); err != nil {
		return err
	}

	for i, status := range statuses {
		if err := writeRow(f, SummarySheet, i+2, []any{string(status), counts[status]}); err != nil {
			return err
		}
	}

	if err := f.SaveAs(s.path); err != nil {
		return errors.Wrapf(errors.ErrCodeReportFailed, err, "failed to save %s", s.path)
	}

	return nil
}

var statuses = []types.InstrumentStatus{
	types.InstrumentStatusTrained,
	types.InstrumentStatusSkippedNoData,
	types.InstrumentStatusSkippedInsufficientSamples,
	types.InstrumentStatusFailed,
}

func metricsRow(r types.InstrumentResult) []any {
	row := []any{r.Symbol, string(r.Status), nil, nil, nil, nil, nil, nil, nil, nil, r.SampleCount, len(r.Warnings), ""}

	if r.Metrics.IsSome() {
		m := r.Metrics.Unwrap()
		row[2] = round(m.R2, 6)
		row[3] = round(m.RMSE, 6)
		row[4] = m.NTrain
		row[5] = m.NTest
		row[6] = m.TrainStart.Format(time.DateOnly)
		row[7] = m.TrainEnd.Format(time.DateOnly)
		row[8] = m.TestStart.Format(time.DateOnly)
		row[9] = m.TestEnd.Format(time.DateOnly)
	}

	if r.Err != nil {
		row[12] = r.Err.Error()
	}

	return row
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportFailed, "invalid cell", err)
	}

	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(errors.ErrCodeReportFailed, err, "failed to write row %d of %s", row, sheet)
	}

	return nil
}

// round rounds half away from zero at places decimals.
func round(v float64, places int32) float64 {
	rounded, _ := decimal.NewFromFloat(v).Round(places).Float64()

	return rounded
}
