package feature

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// Table is the feature matrix of one instrument on the price index.
type Table struct {
	Symbol string
	Index  []time.Time
	Names  []types.FeatureName
	// Rows[t][c] is feature Names[c] at Index[t]
	Rows [][]optional.Option[float64]
	// Target[t] is the return realized on the bar after Index[t], in percent
	Target []optional.Option[float64]
	// Warnings are the numeric degeneracies met while computing the features
	Warnings []error
}

func (t *Table) Len() int {
	return len(t.Index)
}

// Column returns a copy of one feature column.
func (t *Table) Column(name types.FeatureName) ([]optional.Option[float64], bool) {
	c := -1

	for i, n := range t.Names {
		if n == name {
			c = i

			break
		}
	}

	if c < 0 {
		return nil, false
	}

	values := make([]optional.Option[float64], len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[c]
	}

	return values, true
}

// Dataset is the complete-case projection of a Table: only rows where every
// feature and the target are defined.
type Dataset struct {
	Symbol string
	Index  []time.Time
	Names  []types.FeatureName
	X      [][]float64
	Y      []float64
	// Dropped counts the rows removed for a missing feature or target
	Dropped int
}

func (d *Dataset) Len() int {
	return len(d.Y)
}

// Slice returns rows [from, to). The row slices are shared with d.
func (d *Dataset) Slice(from, to int) *Dataset {
	return &Dataset{
		Symbol:  d.Symbol,
		Index:   d.Index[from:to],
		Names:   d.Names,
		X:       d.X[from:to],
		Y:       d.Y[from:to],
		Dropped: 0,
	}
}

// CompleteCases drops every row with a missing feature or target.
// The warm-up of the longest window is therefore always dropped.
func (t *Table) CompleteCases() (*Dataset, error) {
	if len(t.Rows) != len(t.Index) || len(t.Target) != len(t.Index) {
		return nil, errors.Newf(errors.ErrCodeAlignment,
			"%s: %d rows, %d targets and %d timestamps", t.Symbol, len(t.Rows), len(t.Target), len(t.Index))
	}

	dataset := &Dataset{
		Symbol:  t.Symbol,
		Index:   []time.Time{},
		Names:   t.Names,
		X:       [][]float64{},
		Y:       []float64{},
		Dropped: 0,
	}

	for i, row := range t.Rows {
		if len(row) != len(t.Names) {
			return nil, errors.Newf(errors.ErrCodeAlignment,
				"%s: row %d has %d values for %d features", t.Symbol, i, len(row), len(t.Names))
		}

		x, ok := complete(row)
		if !ok || t.Target[i].IsNone() {
			dataset.Dropped++

			continue
		}

		dataset.Index = append(dataset.Index, t.Index[i])
		dataset.X = append(dataset.X, x)
		dataset.Y = append(dataset.Y, t.Target[i].Unwrap())
	}

	return dataset, nil
}

func complete(row []optional.Option[float64]) ([]float64, bool) {
	x := make([]float64, len(row))

	for c, v := range row {
		if v.IsNone() {
			return nil, false
		}

		x[c] = v.Unwrap()
	}

	return x, true
}
