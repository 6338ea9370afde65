package calendar

import (
	"math"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/stretchr/testify/suite"
)

type CalendarTestSuite struct {
	suite.Suite
}

func TestCalendarSuite(t *testing.T) {
	suite.Run(t, new(CalendarTestSuite))
}

func (suite *CalendarTestSuite) TestDayOfWeekMondayIsZero() {
	// 2024-01-01 is a Monday
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	suite.Equal(0, DayOfWeek(monday))
	suite.Equal(4, DayOfWeek(monday.AddDate(0, 0, 4)))
	suite.Equal(6, DayOfWeek(monday.AddDate(0, 0, 6)))
}

func (suite *CalendarTestSuite) TestQuarter() {
	tests := []struct {
		month   time.Month
		quarter int
	}{
		{time.January, 1},
		{time.March, 1},
		{time.April, 2},
		{time.September, 3},
		{time.October, 4},
		{time.December, 4},
	}

	for _, tc := range tests {
		suite.Equal(tc.quarter, Quarter(time.Date(2023, tc.month, 15, 0, 0, 0, 0, time.UTC)))
	}
}

func (suite *CalendarTestSuite) TestEncode() {
	// Wednesday 2023-11-15
	ts := time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)
	set := Encode([]time.Time{ts})

	suite.Equal(Columns, set.Names())
	suite.Equal(1, set.Len())

	get := func(name types.FeatureName) float64 {
		values, ok := set.Get(name)
		suite.Require().True(ok)

		return values[0].Unwrap()
	}

	suite.Equal(2.0, get(types.FeatureDayOfWeek))
	suite.Equal(11.0, get(types.FeatureMonth))
	suite.Equal(4.0, get(types.FeatureQuarter))
	suite.Equal(2023.0, get(types.FeatureYear))
	suite.InDelta(math.Sin(2*math.Pi*2/7), get(types.FeatureDaySin), 1e-12)
	suite.InDelta(math.Cos(2*math.Pi*2/7), get(types.FeatureDayCos), 1e-12)
	suite.InDelta(math.Sin(2*math.Pi*11/12), get(types.FeatureMonthSin), 1e-12)
	suite.InDelta(math.Cos(2*math.Pi*11/12), get(types.FeatureMonthCos), 1e-12)
}

func (suite *CalendarTestSuite) TestEncodeNeverMissing() {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, 400)

	for i := range times {
		times[i] = start.AddDate(0, 0, i)
	}

	set := Encode(times)
	for _, column := range set.Columns() {
		suite.Len(column.Values, 400)
		for _, v := range column.Values {
			suite.True(v.IsSome())
		}
	}
}

func (suite *CalendarTestSuite) TestEncodeEmpty() {
	set := Encode(nil)
	suite.Equal(0, set.Len())
	suite.Len(set.Names(), len(Columns))
}
