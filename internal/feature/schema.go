// Package feature assembles indicator, calendar, volatility and lag columns
// into one table aligned to the price index, with a one-step-ahead target.
package feature

import (
	"fmt"
	"slices"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/calendar"
	"github.com/rxtech-lab/argo-forecast/internal/indicator"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/internal/volatility"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// Group tells which source a column is read from.
type Group string

const (
	GroupIndicator  Group = "indicator"
	GroupCalendar   Group = "calendar"
	GroupVolatility Group = "volatility"
	GroupLag        Group = "lag"
)

// Sources are the computed inputs every schema column reads from.
type Sources struct {
	Series     *types.PriceSeries
	Returns    types.ReturnSeries
	Indicators *types.ColumnSet
	Calendar   *types.ColumnSet
	Volatility *types.ColumnSet
}

// Column is one named feature and the function that produces it.
// Compute must return exactly one value per bar.
type Column struct {
	Name    types.FeatureName
	Group   Group
	Compute func(src *Sources) []optional.Option[float64]
}

// Schema is the ordered list of feature columns. Its order is the column
// order of every Table and of every TrainedModel input.
type Schema []Column

// Names returns the column names in order.
func (s Schema) Names() []types.FeatureName {
	names := make([]types.FeatureName, len(s))
	for i, c := range s {
		names[i] = c.Name
	}

	return names
}

// Validate rejects empty schemas, duplicate names and columns without a
// compute function.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return errors.New(errors.ErrCodeInvalidParameter, "feature schema is empty")
	}

	seen := make(map[types.FeatureName]bool, len(s))
	for _, c := range s {
		if seen[c.Name] {
			return errors.Newf(errors.ErrCodeInvalidParameter, "feature %s is defined twice", c.Name)
		}

		if c.Compute == nil {
			return errors.Newf(errors.ErrCodeInvalidParameter, "feature %s has no compute function", c.Name)
		}

		seen[c.Name] = true
	}

	return nil
}

// FromSet reads a column computed by one of the engines.
func FromSet(group Group, name types.FeatureName) Column {
	return Column{
		Name:  name,
		Group: group,
		Compute: func(src *Sources) []optional.Option[float64] {
			var set *types.ColumnSet

			switch group {
			case GroupIndicator:
				set = src.Indicators
			case GroupCalendar:
				set = src.Calendar
			case GroupVolatility:
				set = src.Volatility
			case GroupLag:
			}

			if set == nil {
				return nil
			}

			values, _ := set.Get(name)

			return values
		},
	}
}

// CloseLag is close[t-k].
func CloseLag(k int) Column {
	return Column{
		Name:  types.FeatureName(fmt.Sprintf("close_lag_%d", k)),
		Group: GroupLag,
		Compute: func(src *Sources) []optional.Option[float64] {
			closes := src.Series.Closes()
			out := make([]optional.Option[float64], len(closes))

			for t := range closes {
				if t < k {
					out[t] = optional.None[float64]()
				} else {
					out[t] = optional.Some(closes[t-k])
				}
			}

			return out
		},
	}
}

// ReturnLag is the percent return of bar t-k.
func ReturnLag(k int) Column {
	return Column{
		Name:  types.FeatureName(fmt.Sprintf("return_lag_%d", k)),
		Group: GroupLag,
		Compute: func(src *Sources) []optional.Option[float64] {
			aligned := src.Returns.Aligned()
			out := make([]optional.Option[float64], len(aligned))

			for t := range aligned {
				if t < k {
					out[t] = optional.None[float64]()
				} else {
					out[t] = aligned[t-k]
				}
			}

			return out
		},
	}
}

// BuildSchema lists the engine columns in engine order followed by the close
// lags and the return lags.
func BuildSchema(engine *indicator.Engine, vol *volatility.Engine, closeLags, returnLags []int) (Schema, error) {
	indicatorColumns, err := engine.Columns()
	if err != nil {
		return nil, err
	}

	for _, k := range append(slices.Clone(closeLags), returnLags...) {
		if k < 1 {
			return nil, errors.Newf(errors.ErrCodeInvalidParameter, "lags must be at least 1, got %d", k)
		}
	}

	var schema Schema

	for _, name := range indicatorColumns {
		schema = append(schema, FromSet(GroupIndicator, name))
	}

	for _, name := range calendar.Columns {
		schema = append(schema, FromSet(GroupCalendar, name))
	}

	for _, name := range vol.Columns() {
		schema = append(schema, FromSet(GroupVolatility, name))
	}

	for _, k := range closeLags {
		schema = append(schema, CloseLag(k))
	}

	for _, k := range returnLags {
		schema = append(schema, ReturnLag(k))
	}

	if err := schema.Validate(); err != nil {
		return nil, err
	}

	return schema, nil
}

// DefaultLags are used for both close and return lags.
var DefaultLags = []int{1, 2, 3, 5}

// DefaultSchema is the schema of the default indicator registry and
// volatility engine with lags 1, 2, 3 and 5.
func DefaultSchema() Schema {
	schema, err := BuildSchema(indicator.NewEngine(indicator.DefaultRegistry()), volatility.NewEngine(), DefaultLags, DefaultLags)
	if err != nil {
		// built from fixed defaults
		panic(err)
	}

	return schema
}
