package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
)

type DataSourceTestSuite struct {
	suite.Suite
	dir string
}

func TestDataSourceSuite(t *testing.T) {
	suite.Run(t, new(DataSourceTestSuite))
}

func (suite *DataSourceTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// writeParquet writes closes 100, 101, ... for days 1..n of each symbol.
func (suite *DataSourceTestSuite) writeParquet(name string, n int, symbols ...string) string {
	path := filepath.Join(suite.dir, name)
	w := writer.NewDuckDBWriter(path)
	suite.Require().NoError(w.Initialize())

	defer w.Close()

	for _, symbol := range symbols {
		for d := 1; d <= n; d++ {
			c := float64(99 + d)
			suite.Require().NoError(w.Write(types.MarketData{
				Id:     "",
				Symbol: symbol,
				Time:   day(d),
				Open:   c,
				High:   c + 1,
				Low:    c - 1,
				Close:  c,
				Volume: 10,
			}))
		}
	}

	_, err := w.Finalize()
	suite.Require().NoError(err)

	return path
}

func (suite *DataSourceTestSuite) TestParquetSource() {
	suite.writeParquet("a.parquet", 10, "SPY")
	suite.writeParquet("b.parquet", 5, "BTC")

	source, err := NewParquetSource(filepath.Join(suite.dir, "*.parquet"), nil)
	suite.Require().NoError(err)

	defer source.Close()

	suite.Run("filters by symbol and range", func() {
		series, err := source.Fetch(context.Background(), "SPY", day(3), day(6))
		suite.Require().NoError(err)
		suite.Equal("SPY", series.Symbol)
		suite.Equal([]float64{102, 103, 104, 105}, series.Closes())
	})

	suite.Run("open ended", func() {
		series, err := source.Fetch(context.Background(), "BTC", day(1), time.Time{})
		suite.Require().NoError(err)
		suite.Equal(5, series.Len())
	})

	suite.Run("unknown symbol is empty", func() {
		series, err := source.Fetch(context.Background(), "ETH", day(1), time.Time{})
		suite.Require().NoError(err)
		suite.Equal(0, series.Len())
	})
}

func (suite *DataSourceTestSuite) TestParquetSourceErrors() {
	_, err := NewParquetSource("", nil)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingParameter))

	_, err = NewParquetSource(filepath.Join(suite.dir, "missing.parquet"), nil)
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}

func (suite *DataSourceTestSuite) TestCSVSource() {
	content := "date,open,high,low,close,volume\n" +
		"2024-01-03,2,3,1,102,10\n" +
		"2024-01-02,1,2,0.5,101,10\n" +
		"2024-01-04T00:00:00Z,3,4,2,103,10\n"
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.dir, "GC=F.csv"), []byte(content), 0o644))

	source, err := NewCSVSource(suite.dir)
	suite.Require().NoError(err)

	suite.Run("sorted and filtered", func() {
		series, err := source.Fetch(context.Background(), "GC=F", day(2), day(3))
		suite.Require().NoError(err)
		suite.Equal([]float64{101, 102}, series.Closes())
		suite.Equal(day(2), series.Bars[0].Time)
	})

	suite.Run("missing file is missing data", func() {
		_, err := source.Fetch(context.Background(), "XRP-USD", day(1), time.Time{})
		suite.True(errors.IsMissingData(err))
	})

	suite.Run("cancelled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := source.Fetch(ctx, "GC=F", day(1), time.Time{})
		suite.ErrorIs(err, context.Canceled)
	})
}

func (suite *DataSourceTestSuite) TestCSVSourceBadDate() {
	content := "date,open,high,low,close,volume\nJan 2,1,2,0.5,101,10\n"
	suite.Require().NoError(os.WriteFile(filepath.Join(suite.dir, "BAD.csv"), []byte(content), 0o644))

	source, err := NewCSVSource(suite.dir)
	suite.Require().NoError(err)

	_, err = source.Fetch(context.Background(), "BAD", day(1), time.Time{})
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataParseFailed))
}

func (suite *DataSourceTestSuite) TestNewCSVSourceRequiresDirectory() {
	_, err := NewCSVSource(filepath.Join(suite.dir, "nope"))
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))

	file := filepath.Join(suite.dir, "file.csv")
	suite.Require().NoError(os.WriteFile(file, nil, 0o644))

	_, err = NewCSVSource(file)
	suite.True(errors.HasCode(err, errors.ErrCodeDataSourceUnavailable))
}
