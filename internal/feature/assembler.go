package feature

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/calendar"
	"github.com/rxtech-lab/argo-forecast/internal/indicator"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/internal/volatility"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// DefaultMinBars is the longest indicator window of the default schema.
const DefaultMinBars = 50

// Options configures an Assembler. Zero values select the defaults.
type Options struct {
	Registry   indicator.IndicatorRegistry
	Volatility *volatility.Engine
	CloseLags  []int
	ReturnLags []int
	// MinBars is the shortest series accepted
	MinBars int
}

// Assembler builds feature tables. It owns stateful indicators and must not
// be shared between goroutines.
type Assembler struct {
	engine     *indicator.Engine
	volatility *volatility.Engine
	schema     Schema
	minBars    int
}

func NewAssembler(opts Options) (*Assembler, error) {
	if opts.Registry == nil {
		opts.Registry = indicator.DefaultRegistry()
	}

	if opts.Volatility == nil {
		opts.Volatility = volatility.NewEngine()
	}

	if opts.CloseLags == nil {
		opts.CloseLags = DefaultLags
	}

	if opts.ReturnLags == nil {
		opts.ReturnLags = DefaultLags
	}

	if opts.MinBars <= 0 {
		opts.MinBars = DefaultMinBars
	}

	engine := indicator.NewEngine(opts.Registry)

	schema, err := BuildSchema(engine, opts.Volatility, opts.CloseLags, opts.ReturnLags)
	if err != nil {
		return nil, err
	}

	return &Assembler{
		engine:     engine,
		volatility: opts.Volatility,
		schema:     schema,
		minBars:    opts.MinBars,
	}, nil
}

// NewAssemblerWithSchema builds an assembler around a custom schema. The
// schema may read any column produced by registry or the default volatility engine.
func NewAssemblerWithSchema(registry indicator.IndicatorRegistry, schema Schema, minBars int) (*Assembler, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}

	if minBars <= 0 {
		minBars = DefaultMinBars
	}

	return &Assembler{
		engine:     indicator.NewEngine(registry),
		volatility: volatility.NewEngine(),
		schema:     schema,
		minBars:    minBars,
	}, nil
}

// Schema returns the column contract of every table this assembler builds.
func (a *Assembler) Schema() Schema {
	return a.schema
}

// Assemble computes every schema column for the series and attaches the
// target. Target[t] is the return from bar t to bar t+1; the last row has none.
func (a *Assembler) Assemble(series *types.PriceSeries) (*Table, error) {
	if series == nil || series.Len() < a.minBars {
		n := 0
		if series != nil {
			n = series.Len()
		}

		return nil, errors.Wrap(errors.ErrCodeMissingData, "series too short for feature assembly",
			errors.NewInsufficientDataErrorf(a.minBars, n, symbolOf(series), "%s has %d bars, need at least %d", symbolOf(series), n, a.minBars))
	}

	returns := series.Returns()

	indicators, warnings, err := a.engine.Compute(series)
	if err != nil {
		return nil, err
	}

	vol, volWarnings, err := a.volatility.Compute(returns, series)
	if err != nil {
		return nil, err
	}

	src := &Sources{
		Series:     series,
		Returns:    returns,
		Indicators: indicators,
		Calendar:   calendar.Encode(series.Times()),
		Volatility: vol,
	}

	n := series.Len()
	columns := make([][]optional.Option[float64], len(a.schema))

	for c, column := range a.schema {
		values := column.Compute(src)
		if len(values) != n {
			return nil, errors.Newf(errors.ErrCodeAlignment,
				"%s: feature %s has %d rows, series has %d", series.Symbol, column.Name, len(values), n)
		}

		columns[c] = values
	}

	rows := make([][]optional.Option[float64], n)
	for t := range rows {
		row := make([]optional.Option[float64], len(columns))
		for c := range columns {
			row[c] = columns[c][t]
		}

		rows[t] = row
	}

	target, err := nextReturns(returns, n)
	if err != nil {
		return nil, err
	}

	return &Table{
		Symbol:   series.Symbol,
		Index:    series.Times(),
		Names:    a.schema.Names(),
		Rows:     rows,
		Target:   target,
		Warnings: append(warnings, volWarnings...),
	}, nil
}

// nextReturns shifts the returns onto the row of the bar they start from.
func nextReturns(returns types.ReturnSeries, n int) ([]optional.Option[float64], error) {
	if returns.Len() != n-1 {
		return nil, errors.Newf(errors.ErrCodeAlignment, "%d returns for %d bars", returns.Len(), n)
	}

	target := make([]optional.Option[float64], n)
	for t := 0; t < n-1; t++ {
		target[t] = optional.Some(returns.Values[t])
	}

	target[n-1] = optional.None[float64]()

	return target, nil
}

func symbolOf(series *types.PriceSeries) string {
	if series == nil {
		return ""
	}

	return series.Symbol
}
