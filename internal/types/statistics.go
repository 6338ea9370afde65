package types

import (
	"fmt"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"
)

// TrainingMetrics is the holdout evaluation of one instrument's model.
type TrainingMetrics struct {
	// Symbol of the instrument.
	Symbol string `yaml:"symbol" json:"symbol"`
	// ModelID is the id of the TrainedModel that produced these metrics.
	ModelID string `yaml:"model_id" json:"model_id"`
	// R2 is the coefficient of determination on the holdout segment.
	R2 float64 `yaml:"r2" json:"r2"`
	// RMSE is the root mean squared error on the holdout segment, in percent.
	RMSE float64 `yaml:"rmse" json:"rmse"`
	// NTrain is the number of training rows.
	NTrain int `yaml:"n_train" json:"n_train"`
	// NTest is the number of holdout rows.
	NTest int `yaml:"n_test" json:"n_test"`
	// TrainStart and TrainEnd bound the training segment.
	TrainStart time.Time `yaml:"train_start" json:"train_start"`
	TrainEnd   time.Time `yaml:"train_end" json:"train_end"`
	// TestStart and TestEnd bound the holdout segment.
	TestStart time.Time `yaml:"test_start" json:"test_start"`
	TestEnd   time.Time `yaml:"test_end" json:"test_end"`
}

// InstrumentStatus is the outcome of one instrument in a batch run.
type InstrumentStatus string

const (
	InstrumentStatusTrained                    InstrumentStatus = "trained"
	InstrumentStatusSkippedNoData              InstrumentStatus = "skipped_no_data"
	InstrumentStatusSkippedInsufficientSamples InstrumentStatus = "skipped_insufficient_samples"
	InstrumentStatusFailed                     InstrumentStatus = "failed"
)

// InstrumentResult is the per-instrument entry of a batch status map.
type InstrumentResult struct {
	Symbol string
	Status InstrumentStatus
	// Err is set for skipped and failed instruments.
	Err error
	// Metrics is present only when Status is trained.
	Metrics optional.Option[TrainingMetrics]
	// Warnings are non-fatal numeric degeneracies met while building features.
	Warnings []error
	// SampleCount is the number of complete rows available for training.
	SampleCount int
}

// Trained reports whether the instrument produced a model.
func (r InstrumentResult) Trained() bool {
	return r.Status == InstrumentStatusTrained
}

// InstrumentRecord is the serializable form of an InstrumentResult.
type InstrumentRecord struct {
	Symbol      string           `yaml:"symbol" json:"symbol"`
	Status      InstrumentStatus `yaml:"status" json:"status"`
	Error       string           `yaml:"error,omitempty" json:"error,omitempty"`
	Warnings    []string         `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	SampleCount int              `yaml:"sample_count" json:"sample_count"`
	Metrics     *TrainingMetrics `yaml:"metrics,omitempty" json:"metrics,omitempty"`
}

// Record converts the result into its serializable form.
func (r InstrumentResult) Record() InstrumentRecord {
	record := InstrumentRecord{
		Symbol:      r.Symbol,
		Status:      r.Status,
		Error:       "",
		Warnings:    nil,
		SampleCount: r.SampleCount,
		Metrics:     nil,
	}

	if r.Err != nil {
		record.Error = r.Err.Error()
	}

	for _, w := range r.Warnings {
		record.Warnings = append(record.Warnings, w.Error())
	}

	if r.Metrics.IsSome() {
		metrics := r.Metrics.Unwrap()
		record.Metrics = &metrics
	}

	return record
}

// TrainingReport is the document written at the end of a training run.
type TrainingReport struct {
	// ID is the unique identifier of the run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when the run finished.
	Timestamp   time.Time          `yaml:"timestamp" json:"timestamp"`
	Instruments []InstrumentRecord `yaml:"instruments" json:"instruments"`
}

func WriteTrainingReport(path string, report TrainingReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal training report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write training report to file: %w", err)
	}

	return nil
}
