// Package store writes per-instrument artifacts to a results directory.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/internal/harness"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/writer"
	"go.uber.org/zap"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileName maps a symbol to a name safe for every filesystem.
func FileName(symbol string) string {
	return unsafeChars.ReplaceAllString(symbol, "_")
}

// Options selects which artifacts are written.
type Options struct {
	SaveFeatures bool
	SaveModels   bool
}

// FileStore writes <symbol>_features.parquet and <symbol>_model.json.
type FileStore struct {
	dir     string
	options Options
	logger  *logger.Logger
}

func NewFileStore(dir string, options Options, log *logger.Logger) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "output directory is required")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to create %s", dir)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &FileStore{
		dir:     dir,
		options: options,
		logger:  log,
	}, nil
}

func (s *FileStore) FeaturesPath(symbol string) string {
	return filepath.Join(s.dir, FileName(symbol)+"_features.parquet")
}

func (s *FileStore) ModelPath(symbol string) string {
	return filepath.Join(s.dir, FileName(symbol)+"_model.json")
}

func (s *FileStore) SaveFeatures(ctx context.Context, table *feature.Table) error {
	if !s.options.SaveFeatures {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := writer.NewFeatureParquetWriter(s.FeaturesPath(table.Symbol)).Write(table)
	if err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to save features of %s", table.Symbol)
	}

	s.logger.Debug("Saved features", zap.String("symbol", table.Symbol), zap.String("path", path))

	return nil
}

func (s *FileStore) SaveModel(ctx context.Context, model *harness.TrainedModel) error {
	if !s.options.SaveModels {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(model)
	if err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to encode model of %s", model.Symbol())
	}

	path := s.ModelPath(model.Symbol())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodePersistenceFailed, err, "failed to write %s", path)
	}

	s.logger.Debug("Saved model", zap.String("symbol", model.Symbol()), zap.String("path", path))

	return nil
}

// LoadModel reads a model written by SaveModel.
func (s *FileStore) LoadModel(symbol string) (*harness.TrainedModel, error) {
	path := s.ModelPath(symbol)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataNotFound, err, "failed to read %s", path)
	}

	return harness.LoadModel(data)
}
