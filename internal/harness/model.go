package harness

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/model"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/internal/version"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// TrainedModel is an immutable fitted scaler and forest bound to the feature
// order it was fit on.
type TrainedModel struct {
	id            string
	symbol        string
	featureNames  []types.FeatureName
	scaler        *model.StandardScaler
	forest        *model.Forest
	createdAt     time.Time
	formatVersion string
}

// modelFile is the serialized layout of a TrainedModel.
type modelFile struct {
	FormatVersion string                `json:"format_version"`
	ID            string                `json:"id"`
	Symbol        string                `json:"symbol"`
	FeatureNames  []types.FeatureName   `json:"feature_names"`
	CreatedAt     time.Time             `json:"created_at"`
	Scaler        *model.StandardScaler `json:"scaler"`
	Forest        *model.Forest         `json:"forest"`
}

func (m *TrainedModel) ID() string {
	return m.id
}

func (m *TrainedModel) Symbol() string {
	return m.symbol
}

// FeatureNames returns a copy of the fit-time column order.
func (m *TrainedModel) FeatureNames() []types.FeatureName {
	return slices.Clone(m.featureNames)
}

func (m *TrainedModel) CreatedAt() time.Time {
	return m.createdAt
}

func (m *TrainedModel) FormatVersion() string {
	return m.formatVersion
}

// Predict returns the predicted next-day return, in percent, for every row.
// names must equal the fit-time feature order exactly.
func (m *TrainedModel) Predict(names []types.FeatureName, rows [][]float64) ([]float64, error) {
	if !slices.Equal(names, m.featureNames) {
		return nil, errors.Newf(errors.ErrCodeFeatureSchemaMismatch,
			"model %s expects %d features in fit order, got %d names that differ", m.id, len(m.featureNames), len(names))
	}

	for i, row := range rows {
		if len(row) != len(m.featureNames) {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter,
				"row %d has %d values, model expects %d", i, len(row), len(m.featureNames))
		}
	}

	scaled, err := m.scaler.Transform(rows)
	if err != nil {
		return nil, err
	}

	return m.forest.Predict(scaled)
}

// MarshalJSON encodes the model with its format version.
func (m *TrainedModel) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelFile{
		FormatVersion: m.formatVersion,
		ID:            m.id,
		Symbol:        m.symbol,
		FeatureNames:  m.featureNames,
		CreatedAt:     m.createdAt,
		Scaler:        m.scaler,
		Forest:        m.forest,
	})
}

// LoadModel decodes a blob written by MarshalJSON. Blobs written with an
// incompatible format version are rejected.
func LoadModel(data []byte) (*TrainedModel, error) {
	var file modelFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelFormat, "failed to decode model", err)
	}

	if err := version.CheckFormatCompatibility(version.ModelFormatVersion, file.FormatVersion); err != nil {
		return nil, errors.Wrap(errors.ErrCodeModelFormat, "incompatible model format", err)
	}

	if file.Scaler == nil || file.Forest == nil {
		return nil, errors.New(errors.ErrCodeModelFormat, "model is missing its scaler or forest")
	}

	width := len(file.FeatureNames)
	if file.Scaler.Width() != width || len(file.Scaler.Scale) != width || file.Forest.Width != width {
		return nil, errors.Newf(errors.ErrCodeModelFormat,
			"model has %d features but scaler width %d and forest width %d", width, file.Scaler.Width(), file.Forest.Width)
	}

	if err := file.Forest.Validate(); err != nil {
		return nil, err
	}

	return &TrainedModel{
		id:            file.ID,
		symbol:        file.Symbol,
		featureNames:  file.FeatureNames,
		scaler:        file.Scaler,
		forest:        file.Forest,
		createdAt:     file.CreatedAt,
		formatVersion: file.FormatVersion,
	}, nil
}
