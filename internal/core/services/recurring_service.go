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
	"github.com/google/uuid"
)

const maxUpcomingPreview = 60

// recurringService implements the RecurringTransactionSvcFacade interface
type recurringService struct {
	BaseService
	recurringRepo portsrepo.RecurringTransactionRepositoryFacade
	now           func() time.Time
	loc           *time.Location
}

// RecurringServiceOption configures the recurring template service
type RecurringServiceOption func(*recurringService)

// WithRecurringClock replaces the service clock.
func WithRecurringClock(now func() time.Time) RecurringServiceOption {
	return func(s *recurringService) {
		s.now = now
	}
}

// WithRecurringLocation sets the timezone that decides the calendar day when a template resumes.
func WithRecurringLocation(loc *time.Location) RecurringServiceOption {
	return func(s *recurringService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewRecurringTransactionService creates a new recurring template service.
func NewRecurringTransactionService(recurringRepo portsrepo.RecurringTransactionRepositoryFacade, options ...RecurringServiceOption) portssvc.RecurringTransactionSvcFacade {
	svc := &recurringService{
		recurringRepo: recurringRepo,
		now:           time.Now,
		loc:           time.UTC,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RecurringTransactionSvcFacade = (*recurringService)(nil)

// GetRecurringTransactionByID retrieves one of the user's templates.
func (s *recurringService) GetRecurringTransactionByID(ctx context.Context, recurringTransactionID, userID string) (*domain.RecurringTransaction, error) {
	rt, err := s.recurringRepo.FindRecurringTransactionByID(ctx, recurringTransactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find recurring transaction",
				slog.String("recurring_transaction_id", recurringTransactionID))
		}
		return nil, err
	}
	if rt.UserID != userID {
		s.LogDebug(ctx, "Recurring transaction requested by non-owner",
			slog.String("recurring_transaction_id", recurringTransactionID),
			slog.String("user_id", userID))
		return nil, apperrors.NewNotFoundError("recurring transaction not found")
	}
	return rt, nil
}

// ListRecurringTransactions retrieves all of the user's templates.
func (s *recurringService) ListRecurringTransactions(ctx context.Context, userID string) ([]domain.RecurringTransaction, error) {
	rts, err := s.recurringRepo.ListRecurringTransactionsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recurring transactions",
			slog.String("user_id", userID))
		return nil, err
	}
	if rts == nil {
		return []domain.RecurringTransaction{}, nil
	}
	return rts, nil
}

// PreviewUpcoming returns the next count due dates. Paused templates have none.
func (s *recurringService) PreviewUpcoming(ctx context.Context, recurringTransactionID, userID string, count int) ([]time.Time, error) {
	rt, err := s.GetRecurringTransactionByID(ctx, recurringTransactionID, userID)
	if err != nil {
		return nil, err
	}
	if !rt.IsActive {
		return []time.Time{}, nil
	}
	if count < 1 || count > maxUpcomingPreview {
		return nil, apperrors.NewValidationFailedError("count must be between 1 and 60")
	}
	dates, err := rt.UpcomingDates(count)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	return dates, nil
}

// CreateRecurringTransaction creates a template whose first run is its start date.
func (s *recurringService) CreateRecurringTransaction(ctx context.Context, userID string, req dto.CreateRecurringTransactionRequest) (*domain.RecurringTransaction, error) {
	startDate, err := dto.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}
	endDate, err := dto.ParseOptionalDate(req.EndDate)
	if err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	now := s.now()
	rt := domain.RecurringTransaction{
		RecurringTransactionID: uuid.NewString(),
		UserID:                 userID,
		Description:            req.Description,
		Category:               req.Category,
		Type:                   req.Type,
		Amount:                 req.Amount,
		Frequency:              req.Frequency,
		StartDate:              startDate,
		NextRunDate:            startDate,
		EndDate:                endDate,
		IsActive:               true,
		AuditFields:            domain.NewAuditFields(userID, now),
	}
	if err := rt.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	if err := s.recurringRepo.SaveRecurringTransaction(ctx, rt); err != nil {
		s.LogError(ctx, err, "Failed to save recurring transaction",
			slog.String("user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Recurring transaction created successfully",
		slog.String("recurring_transaction_id", rt.RecurringTransactionID),
		slog.String("frequency", string(rt.Frequency)),
		slog.String("next_run_date", rt.NextRunDate.Format(time.DateOnly)))
	return &rt, nil
}

// UpdateRecurringTransaction edits a template, guarded by the version in the request.
func (s *recurringService) UpdateRecurringTransaction(ctx context.Context, recurringTransactionID, userID string, req dto.UpdateRecurringTransactionRequest) (*domain.RecurringTransaction, error) {
	rt, err := s.GetRecurringTransactionByID(ctx, recurringTransactionID, userID)
	if err != nil {
		return nil, err
	}
	if rt.Version != req.Version {
		return nil, apperrors.NewStaleWriteError("recurring transaction was modified by another request")
	}

	if req.Description != nil {
		rt.Description = *req.Description
	}
	if req.Category != nil {
		rt.Category = *req.Category
	}
	if req.Type != nil {
		rt.Type = *req.Type
	}
	if req.Amount != nil {
		rt.Amount = *req.Amount
	}
	if req.Frequency != nil {
		rt.Frequency = *req.Frequency
	}
	if req.NextRunDate != nil {
		next, err := dto.ParseDate(*req.NextRunDate)
		if err != nil {
			return nil, apperrors.NewValidationFailedError(err.Error())
		}
		if next.Before(rt.NextRunDate) {
			return nil, apperrors.NewValidationFailedError(
				"next run date cannot move before " + rt.NextRunDate.Format(time.DateOnly))
		}
		rt.NextRunDate = next
	}
	if req.ClearEndDate {
		rt.EndDate = nil
	} else if req.EndDate != nil {
		end, err := dto.ParseDate(*req.EndDate)
		if err != nil {
			return nil, apperrors.NewValidationFailedError(err.Error())
		}
		rt.EndDate = &end
	}
	if err := rt.Validate(); err != nil {
		return nil, apperrors.NewValidationFailedError(err.Error())
	}

	rt.Touch(userID, s.now())
	if err := s.recurringRepo.UpdateRecurringTransaction(ctx, *rt); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to update recurring transaction",
				slog.String("recurring_transaction_id", recurringTransactionID))
		}
		return nil, err
	}
	rt.Version++

	s.LogInfo(ctx, "Recurring transaction updated successfully",
		slog.String("recurring_transaction_id", recurringTransactionID),
		slog.Int64("version", rt.Version))
	return rt, nil
}

// DeleteRecurringTransaction removes a template. Generated transactions are kept.
func (s *recurringService) DeleteRecurringTransaction(ctx context.Context, recurringTransactionID, userID string) error {
	if _, err := s.GetRecurringTransactionByID(ctx, recurringTransactionID, userID); err != nil {
		return err
	}
	if err := s.recurringRepo.DeleteRecurringTransaction(ctx, recurringTransactionID); err != nil {
		s.LogError(ctx, err, "Failed to delete recurring transaction",
			slog.String("recurring_transaction_id", recurringTransactionID))
		return err
	}
	s.LogInfo(ctx, "Recurring transaction deleted successfully",
		slog.String("recurring_transaction_id", recurringTransactionID))
	return nil
}

// SetRecurringTransactionActive pauses or resumes a template. Resuming moves the next run
// date to the first cycle on or after today, so cycles due while paused are not back-filled.
// A template whose next run date then lies beyond its end date cannot be resumed.
func (s *recurringService) SetRecurringTransactionActive(ctx context.Context, recurringTransactionID, userID string, active bool) (*domain.RecurringTransaction, error) {
	rt, err := s.GetRecurringTransactionByID(ctx, recurringTransactionID, userID)
	if err != nil {
		return nil, err
	}
	if rt.IsActive == active {
		return rt, nil
	}
	if active {
		next, err := rt.FirstRunOnOrAfter(domain.CalendarDate(s.now(), s.loc))
		if err != nil {
			return nil, apperrors.NewValidationFailedError(err.Error())
		}
		rt.NextRunDate = next
		if rt.IsExpired() {
			return nil, apperrors.NewValidationFailedError("recurring transaction has passed its end date")
		}
	}

	rt.IsActive = active
	rt.Touch(userID, s.now())
	if err := s.recurringRepo.UpdateRecurringTransaction(ctx, *rt); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) {
			s.LogError(ctx, err, "Failed to change recurring transaction state",
				slog.String("recurring_transaction_id", recurringTransactionID))
		}
		return nil, err
	}
	rt.Version++

	s.LogInfo(ctx, "Recurring transaction state changed",
		slog.String("recurring_transaction_id", recurringTransactionID),
		slog.Bool("is_active", active),
		slog.String("next_run_date", rt.NextRunDate.Format(time.DateOnly)))
	return rt, nil
}
