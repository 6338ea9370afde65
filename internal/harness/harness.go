// Package harness trains and evaluates one next-day-return model per
// instrument on a chronological train/test split.
package harness

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/model"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/internal/version"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"go.uber.org/zap"
)

// Harness fits models on feature tables. It holds no per-instrument state
// and is safe for concurrent use.
type Harness struct {
	config Config
	logger *logger.Logger
}

func NewHarness(config Config, log *logger.Logger) (*Harness, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Harness{
		config: config,
		logger: log,
	}, nil
}

func (h *Harness) Config() Config {
	return h.config
}

// Train fits the scaler and the forest on the training segment of the table
// and evaluates them on the holdout segment.
func (h *Harness) Train(table *feature.Table) (*TrainedModel, types.TrainingMetrics, error) {
	dataset, err := table.CompleteCases()
	if err != nil {
		return nil, types.TrainingMetrics{}, err
	}

	h.logger.Debug("complete cases",
		zap.String("symbol", table.Symbol),
		zap.Int("rows", dataset.Len()),
		zap.Int("dropped", dataset.Dropped),
	)

	if dataset.Len() < h.config.MinSamples {
		return nil, types.TrainingMetrics{}, errors.NewInsufficientSamplesError(h.config.MinSamples, dataset.Len(), table.Symbol)
	}

	train, test, err := ChronologicalSplit(dataset, h.config.HoldoutFraction)
	if err != nil {
		return nil, types.TrainingMetrics{}, err
	}

	scaler, err := model.FitStandardScaler(train.X)
	if err != nil {
		return nil, types.TrainingMetrics{}, errors.Wrap(errors.ErrCodeTrainingFailed, "failed to fit scaler", err)
	}

	trainX, err := scaler.Transform(train.X)
	if err != nil {
		return nil, types.TrainingMetrics{}, errors.Wrap(errors.ErrCodeTrainingFailed, "failed to scale training rows", err)
	}

	forest, err := model.FitForest(trainX, train.Y, h.config.Forest)
	if err != nil {
		return nil, types.TrainingMetrics{}, errors.Wrap(errors.ErrCodeTrainingFailed, "failed to fit forest", err)
	}

	trained := &TrainedModel{
		id:            uuid.New().String(),
		symbol:        table.Symbol,
		featureNames:  append([]types.FeatureName(nil), dataset.Names...),
		scaler:        scaler,
		forest:        forest,
		createdAt:     time.Now().UTC(),
		formatVersion: version.ModelFormatVersion,
	}

	predicted, err := trained.Predict(test.Names, test.X)
	if err != nil {
		return nil, types.TrainingMetrics{}, errors.Wrap(errors.ErrCodeTrainingFailed, "failed to predict holdout", err)
	}

	r2, err := model.R2(test.Y, predicted)
	if err != nil {
		return nil, types.TrainingMetrics{}, err
	}

	rmse, err := model.RMSE(test.Y, predicted)
	if err != nil {
		return nil, types.TrainingMetrics{}, err
	}

	metrics := types.TrainingMetrics{
		Symbol:     table.Symbol,
		ModelID:    trained.id,
		R2:         r2,
		RMSE:       rmse,
		NTrain:     train.Len(),
		NTest:      test.Len(),
		TrainStart: train.Index[0],
		TrainEnd:   train.Index[train.Len()-1],
		TestStart:  test.Index[0],
		TestEnd:    test.Index[test.Len()-1],
	}

	h.logger.Info("trained model",
		zap.String("symbol", table.Symbol),
		zap.String("model_id", trained.id),
		zap.Float64("r2", r2),
		zap.Float64("rmse", rmse),
		zap.Int("n_train", metrics.NTrain),
		zap.Int("n_test", metrics.NTest),
	)

	return trained, metrics, nil
}
