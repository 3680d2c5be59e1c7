package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/postpilot/backend/internal/db/migrations"
	"github.com/pressly/goose/v3"
)

// ErrStoreUnavailable means the credential schema is not provisioned. It is
// distinct from "record not found" and surfaces as a generic failure.
var ErrStoreUnavailable = errors.New("credential store unavailable")

type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Postgres{Pool: pool}, nil
}

func (db *Postgres) Close() {
	db.Pool.Close()
}

// RunMigrations applies the embedded goose migrations. Goose runs over
// database/sql, so a short-lived stdlib connection is opened just for this.
func RunMigrations(ctx context.Context, dsn string) error {
	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer conn.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// EnsureProvisioned probes the tables the service depends on once at startup,
// so a missing schema fails the boot instead of every request.
func (db *Postgres) EnsureProvisioned(ctx context.Context) error {
	for _, table := range []string{"users", "x_credentials"} {
		if _, err := db.Pool.Exec(ctx, fmt.Sprintf("SELECT 1 FROM %s LIMIT 1", table)); err != nil {
			if isUndefinedTable(err) {
				return fmt.Errorf("%w: table %s missing", ErrStoreUnavailable, table)
			}
			return err
		}
	}
	return nil
}

func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isUndefinedTable matches postgres error 42P01 (relation does not exist).
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}

// mapStoreErr converts an undefined-table failure into ErrStoreUnavailable and
// leaves every other error untouched.
func mapStoreErr(err error) error {
	if isUndefinedTable(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
