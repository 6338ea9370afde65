package writer

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// FeatureParquetWriter exports a feature table with one DOUBLE column per
// feature and a target column. Undefined values are written as NULL.
type FeatureParquetWriter struct {
	outputPath string
}

func NewFeatureParquetWriter(outputPath string) *FeatureParquetWriter {
	return &FeatureParquetWriter{outputPath: outputPath}
}

func (w *FeatureParquetWriter) GetOutputPath() string {
	return w.outputPath
}

// Write exports table and returns the written path.
func (w *FeatureParquetWriter) Write(table *feature.Table) (string, error) {
	if table == nil {
		return "", errors.New(errors.ErrCodeMissingParameter, "feature table is nil")
	}

	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open DuckDB connection", err)
	}
	defer db.Close()

	columns := []string{"time TIMESTAMP", "symbol TEXT"}
	placeholders := []string{"?", "?"}

	for _, name := range table.Names {
		columns = append(columns, quoteIdent(string(name))+" DOUBLE")
		placeholders = append(placeholders, "?")
	}

	columns = append(columns, "target DOUBLE")
	placeholders = append(placeholders, "?")

	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE features (%s)", strings.Join(columns, ", "))); err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to create features table", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	stmt, err := tx.Prepare(fmt.Sprintf("INSERT INTO features VALUES (%s)", strings.Join(placeholders, ", ")))
	if err != nil {
		tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to prepare statement", err)
	}
	defer stmt.Close()

	for t, ts := range table.Index {
		args := make([]any, 0, len(table.Names)+3)
		args = append(args, ts, table.Symbol)

		for _, v := range table.Rows[t] {
			args = append(args, nullable(v))
		}

		args = append(args, nullable(table.Target[t]))

		if _, err := stmt.Exec(args...); err != nil {
			tx.Rollback()

			return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to insert feature row %d", t)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to commit transaction", err)
	}

	query := fmt.Sprintf("COPY (SELECT * FROM features ORDER BY time) TO %s (FORMAT PARQUET)", quoteLiteral(w.outputPath))
	if _, err := db.Exec(query); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to export features to parquet", err)
	}

	return w.outputPath, nil
}

func nullable(v optional.Option[float64]) any {
	if v.IsNone() {
		return nil
	}

	return v.Unwrap()
}
