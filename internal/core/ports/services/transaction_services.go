package services

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/dto"
)

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves one of the user's transactions.
	GetTransactionByID(ctx context.Context, transactionID, userID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of the user's transactions and the token for the next page.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// GetSummary totals the user's income and expenses between from and to inclusive.
	GetSummary(ctx context.Context, userID string, from, to time.Time) (*domain.TransactionSummary, error)
}

// TransactionWriterSvc defines write operations for transactions
type TransactionWriterSvc interface {
	// CreateTransaction records a transaction for the user.
	CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// UpdateTransaction edits one of the user's transactions.
	UpdateTransaction(ctx context.Context, transactionID, userID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// DeleteTransaction removes one of the user's transactions.
	DeleteTransaction(ctx context.Context, transactionID, userID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
