package rowio

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/UltimateTournament/backoff/v4"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/rowflow/rowflow/row"
	"github.com/rowflow/rowflow/utils"
)

// ConnectPostgres opens a pooled connection using the PG_DSN env var.
func ConnectPostgres(ctx context.Context) (*pgxpool.Pool, error) {
	logger.Debug().Msg("connecting to postgres...")
	config, err := pgxpool.ParseConfig(utils.PG_DSN)
	if err != nil {
		return nil, fmt.Errorf("error in pgxpool.ParseConfig: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.HealthCheckPeriod = time.Second * 5
	config.MaxConnLifetime = time.Minute * 30
	config.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.ConnectConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("error in pgxpool.ConnectConfig: %w", err)
	}
	logger.Debug().Msg("connected to postgres")
	return pool, nil
}

// PostgresSource is a re-runnable named source streaming the result of a
// query, one row per record with columns named after the result fields. The
// query runs again on every pipeline run, with retries around the initial
// execution.
func PostgresSource(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) func() iter.Seq2[row.Row, error] {
	return func() iter.Seq2[row.Row, error] {
		return func(yield func(row.Row, error) bool) {
			var rows pgx.Rows
			err := backoff.Retry(func() error {
				var qErr error
				rows, qErr = pool.Query(ctx, query, args...)
				return qErr
			}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
			if err != nil {
				yield(nil, fmt.Errorf("error in pool.Query: %w", err))
				return
			}
			defer rows.Close()

			fields := rows.FieldDescriptions()
			cols := make([]string, len(fields))
			for i, fd := range fields {
				cols[i] = string(fd.Name)
			}

			for rows.Next() {
				vals, err := rows.Values()
				if err != nil {
					yield(nil, fmt.Errorf("error in rows.Values: %w", err))
					return
				}
				r := make(row.Row, len(cols))
				for i, col := range cols {
					r[col] = normalizePGValue(vals[i])
				}
				if !yield(r, nil) {
					return
				}
			}
			if err := rows.Err(); err != nil {
				yield(nil, fmt.Errorf("error reading query rows: %w", err))
			}
		}
	}
}

// normalizePGValue folds driver integer widths into int64 and float32 into
// float64 so key comparisons behave the same as for other sources.
func normalizePGValue(v any) any {
	switch n := v.(type) {
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case float32:
		return float64(n)
	case time.Time:
		return n.Format(time.RFC3339Nano)
	}
	return v
}
