package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/google/uuid"
)

// recurringProcessor materializes the due cycles of active recurring templates.
type recurringProcessor struct {
	BaseService
	store     portsrepo.RecurringCatchUpStore
	publisher portssvc.OccurrencePublisher
	location  *time.Location
}

// RecurringProcessorOption configures the recurring processor
type RecurringProcessorOption func(*recurringProcessor)

// WithOccurrencePublisher announces every committed occurrence through p.
func WithOccurrencePublisher(p portssvc.OccurrencePublisher) RecurringProcessorOption {
	return func(s *recurringProcessor) {
		s.publisher = p
	}
}

// WithProcessingLocation sets the time zone whose calendar day decides what is due.
func WithProcessingLocation(loc *time.Location) RecurringProcessorOption {
	return func(s *recurringProcessor) {
		if loc != nil {
			s.location = loc
		}
	}
}

// NewRecurringProcessor creates the occurrence generator over store.
func NewRecurringProcessor(store portsrepo.RecurringCatchUpStore, options ...RecurringProcessorOption) portssvc.RecurringProcessorSvc {
	svc := &recurringProcessor{
		store:    store,
		location: time.UTC,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RecurringProcessorSvc = (*recurringProcessor)(nil)

type templateOutcome int

const (
	outcomeIdle templateOutcome = iota
	outcomeProcessed
	outcomeSkipped
	outcomeFailed
)

// RunCatchUp generates every occurrence due on or before the calendar day of now.
// A failure to list templates aborts the run. Each template is then handled in
// isolation: a storage error leaves that template untouched for the next run and
// processing continues with the others. Cancelling ctx stops the run between templates.
func (s *recurringProcessor) RunCatchUp(ctx context.Context, now time.Time) (domain.CatchUpSummary, error) {
	today := domain.CalendarDate(now, s.location)
	summary := domain.CatchUpSummary{RunAt: now, Today: today}

	templates, err := s.store.ListActiveRecurringTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active recurring transactions")
		return summary, fmt.Errorf("failed to list active recurring transactions: %w", err)
	}
	summary.TemplatesChecked = len(templates)

	s.LogInfo(ctx, "Processing recurring transactions",
		slog.Int("total_active", len(templates)),
		slog.String("processing_date", today.Format(time.DateOnly)))

	for _, rt := range templates {
		if err := ctx.Err(); err != nil {
			s.LogWarn(ctx, "Recurring processing interrupted", slog.String("error", err.Error()))
			return summary, err
		}

		outcome, plan, created := s.processTemplate(ctx, rt, today, now)
		switch outcome {
		case outcomeProcessed:
			summary.TemplatesProcessed++
			summary.TransactionsCreated += created
			if plan.Deactivated {
				summary.TemplatesDeactivated++
			}
		case outcomeSkipped:
			summary.TemplatesSkipped++
		case outcomeFailed:
			summary.TemplatesFailed++
		}
	}

	s.LogInfo(ctx, "Recurring processing complete",
		slog.Int("checked", summary.TemplatesChecked),
		slog.Int("processed", summary.TemplatesProcessed),
		slog.Int("created", summary.TransactionsCreated),
		slog.Int("deactivated", summary.TemplatesDeactivated),
		slog.Int("skipped", summary.TemplatesSkipped),
		slog.Int("failed", summary.TemplatesFailed))

	return summary, nil
}

func (s *recurringProcessor) processTemplate(ctx context.Context, rt domain.RecurringTransaction, today, now time.Time) (templateOutcome, domain.CatchUpPlan, int) {
	logAttrs := []any{
		slog.String("recurring_transaction_id", rt.RecurringTransactionID),
		slog.String("user_id", rt.UserID),
		slog.String("frequency", string(rt.Frequency)),
	}

	plan, err := domain.PlanCatchUp(rt, today)
	if err != nil {
		s.LogWarn(ctx, "Skipping malformed recurring transaction",
			append(logAttrs, slog.String("reason", err.Error()))...)
		return outcomeSkipped, plan, 0
	}
	if !plan.HasChanges() {
		return outcomeIdle, plan, 0
	}

	occurrences := buildOccurrences(rt, plan.Occurrences, now)
	if err := s.store.ApplyCatchUp(ctx, rt.RecurringTransactionID, plan, occurrences, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.LogWarn(ctx, "Recurring transaction advanced by another run, skipping", logAttrs...)
			return outcomeSkipped, plan, 0
		}
		s.LogError(ctx, err, "Failed to apply recurring catch-up", logAttrs...)
		return outcomeFailed, plan, 0
	}

	s.LogInfo(ctx, "Created transactions from recurring template",
		append(logAttrs,
			slog.Int("occurrences", len(occurrences)),
			slog.String("next_run_date", plan.NextRunDate.Format(time.DateOnly)),
			slog.Bool("deactivated", plan.Deactivated))...)

	if s.publisher != nil && len(occurrences) > 0 {
		if err := s.publisher.PublishOccurrences(ctx, occurrences); err != nil {
			// The ledger is already committed; consumers can reconcile from the table.
			s.LogError(ctx, err, "Failed to publish recurring occurrences", logAttrs...)
		}
	}
	return outcomeProcessed, plan, len(occurrences)
}

// buildOccurrences creates one transaction per due date, stamped with the run time.
func buildOccurrences(rt domain.RecurringTransaction, dates []time.Time, now time.Time) []domain.Transaction {
	occurrences := make([]domain.Transaction, 0, len(dates))
	for _, d := range dates {
		templateID := rt.RecurringTransactionID
		occurrenceDate := d
		occurrences = append(occurrences, domain.Transaction{
			TransactionID:          uuid.NewString(),
			UserID:                 rt.UserID,
			Amount:                 rt.Amount,
			Type:                   rt.Type,
			Category:               rt.Category,
			Description:            rt.Description,
			Date:                   now,
			RecurringTransactionID: &templateID,
			OccurrenceDate:         &occurrenceDate,
			AuditFields:            domain.NewAuditFields(rt.UserID, now),
		})
	}
	return occurrences
}
