package types

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type ColumnSetTestSuite struct {
	suite.Suite
}

func TestColumnSetSuite(t *testing.T) {
	suite.Run(t, new(ColumnSetTestSuite))
}

func (suite *ColumnSetTestSuite) TestAddAndGet() {
	set := NewColumnSet(2)

	suite.NoError(set.Add("a", []optional.Option[float64]{optional.None[float64](), optional.Some(1.0)}))
	suite.NoError(set.Add("b", []optional.Option[float64]{optional.Some(2.0), optional.Some(3.0)}))

	suite.Equal(2, set.Len())
	suite.Equal([]FeatureName{"a", "b"}, set.Names())
	suite.Len(set.Columns(), 2)

	values, ok := set.Get("b")
	suite.True(ok)
	suite.Equal(3.0, values[1].Unwrap())

	_, ok = set.Get("missing")
	suite.False(ok)
}

func (suite *ColumnSetTestSuite) TestAddRejectsDuplicate() {
	set := NewColumnSet(1)
	suite.NoError(set.Add("a", []optional.Option[float64]{optional.Some(1.0)}))

	err := set.Add("a", []optional.Option[float64]{optional.Some(1.0)})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *ColumnSetTestSuite) TestAddRejectsWrongLength() {
	set := NewColumnSet(3)

	err := set.Add("a", []optional.Option[float64]{optional.Some(1.0)})
	suite.Error(err)
	suite.True(errors.IsAlignment(err))
}
