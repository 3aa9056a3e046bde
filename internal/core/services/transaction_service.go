package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/fireflow/fireflow_backend/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultTransactionPageSize = 20
	maxTransactionPageSize     = 100
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{
		transactionRepo: transactionRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// GetTransactionByID retrieves one of the user's transactions.
// Transactions owned by someone else are reported as not found.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID, userID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction",
				slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	if txn.UserID != userID {
		s.LogDebug(ctx, "Transaction requested by non-owner",
			slog.String("transaction_id", transactionID),
			slog.String("user_id", userID))
		return nil, apperrors.NewNotFoundError("transaction not found")
	}
	return txn, nil
}

// ListTransactions retrieves a page of the user's transactions, newest first.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return nil, nil, apperrors.NewValidationFailedError("from must not be after to")
	}
	limit = pagination.ClampLimit(limit, defaultTransactionPageSize, maxTransactionPageSize)

	txns, next, err := s.transactionRepo.ListTransactionsByUser(ctx, userID, filter, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions",
			slog.String("user_id", userID))
		return nil, nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}

	s.LogDebug(ctx, "Transactions listed successfully",
		slog.String("user_id", userID),
		slog.Int("count", len(txns)))
	return txns, next, nil
}

// GetSummary totals the user's transactions between from and to, both inclusive.
func (s *transactionService) GetSummary(ctx context.Context, userID string, from, to time.Time) (*domain.TransactionSummary, error) {
	if from.After(to) {
		return nil, apperrors.NewValidationFailedError("from must not be after to")
	}
	// to is a calendar date; include the whole day.
	until := to.AddDate(0, 0, 1).Add(-time.Nanosecond)

	totals, err := s.transactionRepo.SumTransactionsByCategory(ctx, userID, from, until)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize transactions",
			slog.String("user_id", userID))
		return nil, err
	}

	summary := domain.NewTransactionSummary(from, to, totals)
	return &summary, nil
}

// CreateTransaction records a transaction for the user.
func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	now := time.Now()
	txnDate := now
	if req.Date != nil {
		txnDate = *req.Date
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        userID,
		Amount:        req.Amount,
		Type:          req.Type,
		Category:      req.Category,
		Description:   req.Description,
		Date:          txnDate,
		AuditFields:   domain.NewAuditFields(userID, now),
	}
	if err := txn.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction",
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("user_id", userID),
		slog.String("type", string(txn.Type)))
	return &txn, nil
}

// UpdateTransaction edits one of the user's transactions.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID, userID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.GetTransactionByID(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}
	if txn.Version != req.Version {
		return nil, apperrors.NewStaleWriteError("transaction was modified by another request")
	}

	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Type != nil {
		txn.Type = *req.Type
	}
	if req.Category != nil {
		txn.Category = *req.Category
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}
	if err := txn.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	txn.Touch(userID, time.Now())
	if err := s.transactionRepo.UpdateTransaction(ctx, *txn); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update transaction",
				slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	txn.Version++

	s.LogInfo(ctx, "Transaction updated successfully",
		slog.String("transaction_id", transactionID),
		slog.Int64("version", txn.Version))
	return txn, nil
}

// DeleteTransaction removes one of the user's transactions.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID, userID string) error {
	if _, err := s.GetTransactionByID(ctx, transactionID, userID); err != nil {
		return err
	}
	if err := s.transactionRepo.DeleteTransaction(ctx, transactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction",
			slog.String("transaction_id", transactionID))
		return err
	}
	s.LogInfo(ctx, "Transaction deleted successfully",
		slog.String("transaction_id", transactionID),
		slog.String("user_id", userID))
	return nil
}
