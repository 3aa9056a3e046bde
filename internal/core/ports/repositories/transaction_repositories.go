package repositories

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByUser retrieves a page of a user's transactions, newest first, using token-based pagination.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactionsByUser(ctx context.Context, userID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumTransactionsByCategory totals a user's transactions per category and type within [from, to].
	SumTransactionsByCategory(ctx context.Context, userID string, from, to time.Time) ([]domain.CategoryTotal, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, transaction domain.Transaction) error

	// UpdateTransaction updates a transaction. The write only applies if the stored version
	// matches transaction.Version, otherwise apperrors.ErrConflict is returned.
	UpdateTransaction(ctx context.Context, transaction domain.Transaction) error

	// DeleteTransaction removes a transaction.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
