package services

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/dto"
)

// RecurringTransactionReaderSvc defines read operations for recurring templates
type RecurringTransactionReaderSvc interface {
	// GetRecurringTransactionByID retrieves one of the user's templates.
	GetRecurringTransactionByID(ctx context.Context, recurringTransactionID, userID string) (*domain.RecurringTransaction, error)

	// ListRecurringTransactions retrieves all of the user's templates.
	ListRecurringTransactions(ctx context.Context, userID string) ([]domain.RecurringTransaction, error)

	// PreviewUpcoming returns the next count due dates of a template.
	PreviewUpcoming(ctx context.Context, recurringTransactionID, userID string, count int) ([]time.Time, error)
}

// RecurringTransactionWriterSvc defines write operations for recurring templates
type RecurringTransactionWriterSvc interface {
	// CreateRecurringTransaction creates a template whose first run is its start date.
	CreateRecurringTransaction(ctx context.Context, userID string, req dto.CreateRecurringTransactionRequest) (*domain.RecurringTransaction, error)

	// UpdateRecurringTransaction edits a template, guarded by the version in the request.
	UpdateRecurringTransaction(ctx context.Context, recurringTransactionID, userID string, req dto.UpdateRecurringTransactionRequest) (*domain.RecurringTransaction, error)

	// DeleteRecurringTransaction removes a template. Generated transactions are kept.
	DeleteRecurringTransaction(ctx context.Context, recurringTransactionID, userID string) error

	// SetRecurringTransactionActive pauses or resumes a template.
	SetRecurringTransactionActive(ctx context.Context, recurringTransactionID, userID string, active bool) (*domain.RecurringTransaction, error)
}

// RecurringTransactionSvcFacade combines all recurring-template service interfaces
type RecurringTransactionSvcFacade interface {
	RecurringTransactionReaderSvc
	RecurringTransactionWriterSvc
}

// RecurringProcessorSvc materializes due occurrences of every active template.
type RecurringProcessorSvc interface {
	// RunCatchUp generates every occurrence due on or before the calendar day of now.
	// It returns an error only when the active templates cannot be read; per-template
	// failures are counted in the summary.
	RunCatchUp(ctx context.Context, now time.Time) (domain.CatchUpSummary, error)
}

// OccurrencePublisher announces transactions the generator created.
type OccurrencePublisher interface {
	PublishOccurrences(ctx context.Context, occurrences []domain.Transaction) error
}
