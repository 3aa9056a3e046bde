package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxRunner runs multi-statement writes atomically.
type TxRunner interface {
	// WithinTx calls fn inside a database transaction. It commits when fn returns nil
	// and rolls back otherwise, returning fn's error unchanged.
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
