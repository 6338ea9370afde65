package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"go.uber.org/zap"
)

// ParquetSource serves bars from parquet files holding a market_data table
// as written by the download command. The path may be a glob.
type ParquetSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

func NewParquetSource(path string, log *logger.Logger) (*ParquetSource, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "parquet path is required")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB connection", err)
	}

	query := fmt.Sprintf(`
		CREATE VIEW market_data AS
		SELECT * FROM read_parquet('%s', union_by_name = true);
	`, strings.ReplaceAll(path, "'", "''"))

	if _, err := db.Exec(query); err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open parquet files at %s", path)
	}

	log.Debug("Initialized parquet data source", zap.String("path", path))

	return &ParquetSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func (p *ParquetSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error) {
	where := squirrel.And{
		squirrel.Eq{"symbol": symbol},
		squirrel.GtOrEq{"time": start},
	}

	if !end.IsZero() {
		where = append(where, squirrel.LtOrEq{"time": end})
	}

	query, args, err := p.sq.
		Select("time", "symbol", "open", "high", "low", "close", "volume").
		From("market_data").
		Where(where).
		OrderBy("time ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build query", err)
	}

	p.logger.Debug("Fetching bars", zap.String("symbol", symbol), zap.String("query", query))

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to query bars for %s", symbol)
	}
	defer rows.Close()

	bars := []types.MarketData{}

	for rows.Next() {
		var bar types.MarketData
		if err := rows.Scan(&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to scan bar for %s", symbol)
		}

		bar.Time = bar.Time.UTC()
		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to read bars for %s", symbol)
	}

	return toSeries(symbol, bars)
}

func (p *ParquetSource) Close() error {
	return p.db.Close()
}
