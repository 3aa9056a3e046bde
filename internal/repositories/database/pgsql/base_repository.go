package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

var _ portsrepo.TxRunner = (*BaseRepository)(nil)

func (r *BaseRepository) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// No-op once committed.
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// pgErrorCode returns the SQLSTATE of err and the violated constraint, if err came from Postgres.
func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// missingOrStale explains why a version guarded write touched no rows.
// table and idColumn are always package constants.
func (r *BaseRepository) missingOrStale(ctx context.Context, table, idColumn, id string) error {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, table, idColumn)
	if err := r.Pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return apperrors.NewAppError(500, "failed to check "+table+" row "+id, err)
	}
	if !exists {
		return apperrors.NewNotFoundError(table + " row " + id + " not found")
	}
	return apperrors.NewStaleWriteError(table + " row " + id + " was modified concurrently")
}
