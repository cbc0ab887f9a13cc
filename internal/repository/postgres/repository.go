package postgres

import (
	"context"
	_ "embed"

	"github.com/BloggingApp/post-service/internal/config"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	MAX_LIMIT     = 50
	DEFAULT_LIMIT = 10
)

func maxLimit(limit *int) {
	if *limit <= 0 {
		*limit = DEFAULT_LIMIT
	}
	if *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

//go:embed schema.sql
var schema string

// Querier is the subset of pgxpool.Pool the repositories use.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	return pgxpool.New(ctx, cfg.DSN())
}

func Migrate(ctx context.Context, db Querier) error {
	_, err := db.Exec(ctx, schema)
	return err
}
