package repositories

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
)

// RecurringTransactionReader defines read operations for recurring transaction templates
type RecurringTransactionReader interface {
	// FindRecurringTransactionByID retrieves a template by its ID.
	FindRecurringTransactionByID(ctx context.Context, recurringTransactionID string) (*domain.RecurringTransaction, error)

	// ListRecurringTransactionsByUser retrieves all templates owned by a user.
	ListRecurringTransactionsByUser(ctx context.Context, userID string) ([]domain.RecurringTransaction, error)
}

// RecurringTransactionWriter defines write operations for recurring transaction templates
type RecurringTransactionWriter interface {
	// SaveRecurringTransaction persists a new template.
	SaveRecurringTransaction(ctx context.Context, rt domain.RecurringTransaction) error

	// UpdateRecurringTransaction updates a template. The write only applies if the stored version
	// matches rt.Version, otherwise apperrors.ErrConflict is returned.
	UpdateRecurringTransaction(ctx context.Context, rt domain.RecurringTransaction) error

	// DeleteRecurringTransaction removes a template. Transactions it produced are kept.
	DeleteRecurringTransaction(ctx context.Context, recurringTransactionID string) error
}

// RecurringCatchUpStore is the storage the occurrence generator runs against.
type RecurringCatchUpStore interface {
	// ListActiveRecurringTransactions retrieves every template with is_active = true.
	ListActiveRecurringTransactions(ctx context.Context) ([]domain.RecurringTransaction, error)

	// ApplyCatchUp atomically inserts the occurrences and moves the template to the plan's
	// final state. The template update only applies while its stored next run date still
	// equals plan.ExpectedNextRunDate; otherwise nothing is written and apperrors.ErrConflict
	// is returned.
	ApplyCatchUp(ctx context.Context, recurringTransactionID string, plan domain.CatchUpPlan, occurrences []domain.Transaction, appliedAt time.Time) error
}

// RecurringTransactionRepositoryFacade combines all recurring-related repository interfaces
type RecurringTransactionRepositoryFacade interface {
	RecurringTransactionReader
	RecurringTransactionWriter
	RecurringCatchUpStore
}
