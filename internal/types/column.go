package types

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// Column is a named feature column. None marks a missing value.
type Column struct {
	Name   FeatureName
	Values []optional.Option[float64]
}

// ColumnSet is an ordered collection of equal-length columns.
type ColumnSet struct {
	length  int
	columns []Column
	index   map[FeatureName]int
}

// NewColumnSet creates an empty set whose columns must all have the given length.
func NewColumnSet(length int) *ColumnSet {
	return &ColumnSet{
		length:  length,
		columns: []Column{},
		index:   make(map[FeatureName]int),
	}
}

// Add appends a column. It rejects duplicates and columns of the wrong length.
func (c *ColumnSet) Add(name FeatureName, values []optional.Option[float64]) error {
	if _, exists := c.index[name]; exists {
		return errors.Newf(errors.ErrCodeInvalidParameter, "column %s already exists", name)
	}

	if len(values) != c.length {
		return errors.Newf(errors.ErrCodeAlignment, "column %s has %d rows, expected %d", name, len(values), c.length)
	}

	c.index[name] = len(c.columns)
	c.columns = append(c.columns, Column{Name: name, Values: values})

	return nil
}

// Get returns the values of a column.
func (c *ColumnSet) Get(name FeatureName) ([]optional.Option[float64], bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}

	return c.columns[i].Values, true
}

// Len returns the row count shared by every column.
func (c *ColumnSet) Len() int {
	return c.length
}

// Columns returns the columns in insertion order.
func (c *ColumnSet) Columns() []Column {
	return c.columns
}

// Names returns the column names in insertion order.
func (c *ColumnSet) Names() []FeatureName {
	names := make([]FeatureName, len(c.columns))
	for i, col := range c.columns {
		names[i] = col.Name
	}

	return names
}
