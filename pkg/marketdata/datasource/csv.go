package datasource

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// csvBar is one row of a <symbol>.csv file. Date is either a calendar date
// or an RFC3339 timestamp.
type csvBar struct {
	Date   string  `csv:"date"`
	Open   float64 `csv:"open"`
	High   float64 `csv:"high"`
	Low    float64 `csv:"low"`
	Close  float64 `csv:"close"`
	Volume float64 `csv:"volume"`
}

// CSVSource reads <dir>/<symbol>.csv files.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) (*CSVSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "csv directory %s", dir)
	}

	if !info.IsDir() {
		return nil, errors.Newf(errors.ErrCodeDataSourceUnavailable, "%s is not a directory", dir)
	}

	return &CSVSource{dir: dir}, nil
}

// Fetch reports a symbol without a file as missing data.
func (c *CSVSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(c.dir, symbol+".csv")

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Newf(errors.ErrCodeMissingData, "no csv file for %s", symbol)
	}

	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open %s", path)
	}
	defer file.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "failed to parse %s", path)
	}

	bars := make([]types.MarketData, 0, len(rows))

	for i, row := range rows {
		ts, err := parseDate(row.Date)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "%s line %d", path, i+2)
		}

		if !inRange(ts, start, end) {
			continue
		}

		bars = append(bars, types.MarketData{
			Id:     "",
			Symbol: symbol,
			Time:   ts,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}

	return toSeries(symbol, bars)
}

func (c *CSVSource) Close() error {
	return nil
}

func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.DateOnly, s); err == nil {
		return ts, nil
	}

	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}

	return ts.UTC(), nil
}
