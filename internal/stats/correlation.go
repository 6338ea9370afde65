package stats

import (
	"maps"
	"slices"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix holds pairwise Pearson correlations. Values[i][j] is the
// correlation of Symbols[i] and Symbols[j].
type CorrelationMatrix struct {
	Symbols []string
	Values  [][]optional.Option[float64]
}

// Correlation correlates every pair of series on the timestamps both share.
// A pair with fewer than two shared points or a constant side has no value.
func Correlation(series map[string]types.ReturnSeries) *CorrelationMatrix {
	symbols := slices.Sorted(maps.Keys(series))

	byTime := make([]map[int64]float64, len(symbols))
	for i, symbol := range symbols {
		s := series[symbol]

		byTime[i] = make(map[int64]float64, s.Len())
		for k, t := range s.Times {
			byTime[i][t.UnixNano()] = s.Values[k]
		}
	}

	values := make([][]optional.Option[float64], len(symbols))
	for i := range symbols {
		values[i] = make([]optional.Option[float64], len(symbols))
	}

	for i := range symbols {
		values[i][i] = optional.Some(1.0)

		for j := i + 1; j < len(symbols); j++ {
			c := pearson(series[symbols[i]], byTime[j])
			values[i][j] = c
			values[j][i] = c
		}
	}

	return &CorrelationMatrix{
		Symbols: symbols,
		Values:  values,
	}
}

// Get returns the correlation of two symbols.
func (m *CorrelationMatrix) Get(a, b string) optional.Option[float64] {
	i := slices.Index(m.Symbols, a)
	j := slices.Index(m.Symbols, b)

	if i < 0 || j < 0 {
		return optional.None[float64]()
	}

	return m.Values[i][j]
}

// MarshalYAML renders the matrix as nested symbol maps with null for
// undefined pairs.
func (m *CorrelationMatrix) MarshalYAML() (any, error) {
	out := make(map[string]map[string]*float64, len(m.Symbols))

	for i, a := range m.Symbols {
		row := make(map[string]*float64, len(m.Symbols))

		for j, b := range m.Symbols {
			if m.Values[i][j].IsSome() {
				v := m.Values[i][j].Unwrap()
				row[b] = &v
			} else {
				row[b] = nil
			}
		}

		out[a] = row
	}

	return out, nil
}

func pearson(a types.ReturnSeries, b map[int64]float64) optional.Option[float64] {
	var xs, ys []float64

	for k, t := range a.Times {
		if y, ok := b[t.UnixNano()]; ok {
			xs = append(xs, a.Values[k])
			ys = append(ys, y)
		}
	}

	if len(xs) < 2 {
		return optional.None[float64]()
	}

	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return optional.None[float64]()
	}

	return optional.Some(stat.Correlation(xs, ys, nil))
}
