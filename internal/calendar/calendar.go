// Package calendar derives date fields and their cyclical encodings from bar
// timestamps.
package calendar

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/types"
)

// Columns lists the encoded columns in output order.
var Columns = []types.FeatureName{
	types.FeatureDayOfWeek,
	types.FeatureMonth,
	types.FeatureQuarter,
	types.FeatureYear,
	types.FeatureDaySin,
	types.FeatureDayCos,
	types.FeatureMonthSin,
	types.FeatureMonthCos,
}

// DayOfWeek numbers weekdays from Monday = 0 to Sunday = 6.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Quarter returns 1 to 4.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

// Encode returns one row per timestamp. No value is ever missing.
func Encode(times []time.Time) *types.ColumnSet {
	n := len(times)
	values := make([][]optional.Option[float64], len(Columns))

	for c := range values {
		values[c] = make([]optional.Option[float64], n)
	}

	for i, t := range times {
		dow := float64(DayOfWeek(t))
		month := float64(t.Month())
		dayAngle := 2 * math.Pi * dow / 7
		monthAngle := 2 * math.Pi * month / 12

		row := [...]float64{
			dow,
			month,
			float64(Quarter(t)),
			float64(t.Year()),
			math.Sin(dayAngle),
			math.Cos(dayAngle),
			math.Sin(monthAngle),
			math.Cos(monthAngle),
		}

		for c, v := range row {
			values[c][i] = optional.Some(v)
		}
	}

	set := types.NewColumnSet(n)
	for c, name := range Columns {
		// names are fixed and lengths equal n
		_ = set.Add(name, values[c])
	}

	return set
}
