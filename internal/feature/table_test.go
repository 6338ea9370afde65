package feature_test

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/mocks"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TableTestSuite struct {
	suite.Suite
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableTestSuite))
}

func some(v float64) optional.Option[float64] {
	return optional.Some(v)
}

func none() optional.Option[float64] {
	return optional.None[float64]()
}

func (suite *TableTestSuite) table() *feature.Table {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	return &feature.Table{
		Symbol: "T",
		Index:  []time.Time{start, start.AddDate(0, 0, 1), start.AddDate(0, 0, 2), start.AddDate(0, 0, 3)},
		Names:  []types.FeatureName{"a", "b"},
		Rows: [][]optional.Option[float64]{
			{none(), some(1)},
			{some(2), some(3)},
			{some(4), some(5)},
			{some(6), some(7)},
		},
		Target: []optional.Option[float64]{some(0.1), some(0.2), some(0.3), none()},
	}
}

func (suite *TableTestSuite) TestCompleteCases() {
	dataset, err := suite.table().CompleteCases()
	suite.Require().NoError(err)

	suite.Equal(2, dataset.Len())
	suite.Equal(2, dataset.Dropped)
	suite.Equal([][]float64{{2, 3}, {4, 5}}, dataset.X)
	suite.Equal([]float64{0.2, 0.3}, dataset.Y)
	suite.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), dataset.Index[0])
	suite.Equal([]types.FeatureName{"a", "b"}, dataset.Names)
}

func (suite *TableTestSuite) TestCompleteCasesMisaligned() {
	table := suite.table()
	table.Target = table.Target[:3]

	_, err := table.CompleteCases()
	suite.Error(err)
	suite.True(errors.IsAlignment(err))

	table = suite.table()
	table.Rows[2] = table.Rows[2][:1]

	_, err = table.CompleteCases()
	suite.True(errors.IsAlignment(err))
}

func (suite *TableTestSuite) TestColumn() {
	column, ok := suite.table().Column("b")
	suite.True(ok)
	suite.Equal([]optional.Option[float64]{some(1), some(3), some(5), some(7)}, column)

	_, ok = suite.table().Column("c")
	suite.False(ok)
}

func (suite *TableTestSuite) TestSlice() {
	dataset, err := suite.table().CompleteCases()
	suite.Require().NoError(err)

	tail := dataset.Slice(1, 2)
	suite.Equal(1, tail.Len())
	suite.Equal([]float64{0.3}, tail.Y)
}

func (suite *TableTestSuite) TestCompleteCasesDropsWarmUp() {
	series, err := mocks.NewDataGenerator(42).GenerateSeries(mocks.WeekdayPatternConfig("SYN", 200))
	suite.Require().NoError(err)

	assembler, err := feature.NewAssembler(feature.Options{})
	suite.Require().NoError(err)

	table, err := assembler.Assemble(series)
	suite.Require().NoError(err)

	dataset, err := table.CompleteCases()
	suite.Require().NoError(err)

	// ma_50 is the longest window: rows 0..48 drop, plus the last row without target
	suite.Equal(200-49-1, dataset.Len())
	suite.Equal(50, dataset.Dropped)
	suite.Equal(series.Bars[49].Time, dataset.Index[0])
}
