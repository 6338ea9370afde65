package harness

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-forecast/internal/model"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// Config controls how each instrument is split, fit and evaluated.
type Config struct {
	HoldoutFraction float64            `split_words:"true" yaml:"holdout_fraction" json:"holdout_fraction" validate:"gt=0,lt=1" jsonschema:"title=Holdout Fraction,description=Fraction of the most recent complete rows used as the test segment,default=0.2"`
	MinSamples      int                `split_words:"true" yaml:"min_samples" json:"min_samples" validate:"gte=2" jsonschema:"title=Min Samples,description=Minimum complete rows required to train,default=100"`
	Forest          model.ForestConfig `yaml:"forest" json:"forest" jsonschema:"title=Forest,description=Random forest parameters"`
}

// DefaultConfig returns an 80/20 split, 100 rows minimum and the default forest.
func DefaultConfig() Config {
	return Config{
		HoldoutFraction: 0.2,
		MinSamples:      100,
		Forest:          model.DefaultForestConfig(),
	}
}

// Validate validates the Config.
func (c Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid harness config", fmt.Errorf("invalid config: %w", err))
	}

	return nil
}
