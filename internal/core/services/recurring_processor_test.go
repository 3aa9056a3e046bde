package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portsrepo "github.com/fireflow/fireflow_backend/internal/core/ports/repositories"
	"github.com/fireflow/fireflow_backend/internal/core/services"
	"github.com/fireflow/fireflow_backend/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// failingStore wraps the in-memory store and injects errors.
type failingStore struct {
	*memory.RecurringStore
	listErr  error
	applyErr map[string]error
}

func (f *failingStore) ListActiveRecurringTransactions(ctx context.Context) ([]domain.RecurringTransaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.RecurringStore.ListActiveRecurringTransactions(ctx)
}

func (f *failingStore) ApplyCatchUp(ctx context.Context, id string, plan domain.CatchUpPlan, occ []domain.Transaction, at time.Time) error {
	if err, ok := f.applyErr[id]; ok {
		return err
	}
	return f.RecurringStore.ApplyCatchUp(ctx, id, plan, occ, at)
}

var _ portsrepo.RecurringCatchUpStore = (*failingStore)(nil)

// recordingPublisher captures published occurrences.
type recordingPublisher struct {
	mu        sync.Mutex
	published []domain.Transaction
	err       error
}

func (p *recordingPublisher) PublishOccurrences(_ context.Context, occ []domain.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, occ...)
	return p.err
}

type RecurringProcessorTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.RecurringStore
}

func TestRecurringProcessorSuite(t *testing.T) {
	suite.Run(t, new(RecurringProcessorTestSuite))
}

func (s *RecurringProcessorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewRecurringStore()
}

func newTemplate(id string, f domain.Frequency, next time.Time, end *time.Time) domain.RecurringTransaction {
	return domain.RecurringTransaction{
		RecurringTransactionID: id,
		UserID:                 "user-" + id,
		Description:            "template " + id,
		Category:               "Bills",
		Type:                   domain.Expense,
		Amount:                 decimal.NewFromFloat(12.5),
		Frequency:              f,
		StartDate:              next,
		NextRunDate:            next,
		EndDate:                end,
		IsActive:               true,
		AuditFields:            domain.AuditFields{Version: 1},
	}
}

func (s *RecurringProcessorTestSuite) occurrenceDates(templateID string) []time.Time {
	var dates []time.Time
	for _, t := range s.store.TransactionsFor(templateID) {
		dates = append(dates, *t.OccurrenceDate)
	}
	return dates
}

func (s *RecurringProcessorTestSuite) TestCatchUp_WeeklyWithEndDate() {
	end := day(2024, 1, 10)
	s.store.PutTemplate(newTemplate("rt-1", domain.Weekly, day(2024, 1, 1), &end))
	processor := services.NewRecurringProcessor(s.store)
	now := time.Date(2024, 1, 20, 9, 30, 0, 0, time.UTC)

	summary, err := processor.RunCatchUp(s.ctx, now)
	s.Require().NoError(err)

	s.Equal([]time.Time{day(2024, 1, 1), day(2024, 1, 8)}, s.occurrenceDates("rt-1"))
	rt, _ := s.store.Template("rt-1")
	s.False(rt.IsActive)
	s.Equal(day(2024, 1, 15), rt.NextRunDate)
	s.Equal(1, summary.TemplatesProcessed)
	s.Equal(1, summary.TemplatesDeactivated)
	s.Equal(2, summary.TransactionsCreated)

	for _, txn := range s.store.TransactionsFor("rt-1") {
		s.Equal(now, txn.Date)
		s.Equal("user-rt-1", txn.UserID)
		s.Equal(domain.Expense, txn.Type)
		s.Equal("Bills", txn.Category)
		s.True(decimal.NewFromFloat(12.5).Equal(txn.Amount))
		s.NotEmpty(txn.TransactionID)
	}

	summary, err = processor.RunCatchUp(s.ctx, now.AddDate(0, 1, 0))
	s.Require().NoError(err)
	s.Equal(0, summary.TemplatesChecked)
	s.Len(s.store.TransactionsFor("rt-1"), 2)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_NoSkippedCycles() {
	s.store.PutTemplate(newTemplate("rt-1", domain.Daily, day(2024, 3, 7), nil))
	processor := services.NewRecurringProcessor(s.store)

	summary, err := processor.RunCatchUp(s.ctx, time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	s.Equal([]time.Time{day(2024, 3, 7), day(2024, 3, 8), day(2024, 3, 9)}, s.occurrenceDates("rt-1"))
	rt, _ := s.store.Template("rt-1")
	s.Equal(day(2024, 3, 10), rt.NextRunDate)
	s.True(rt.IsActive)
	s.Equal(3, summary.TransactionsCreated)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_SecondRunIsNoOp() {
	s.store.PutTemplate(newTemplate("rt-1", domain.Daily, day(2024, 3, 7), nil))
	processor := services.NewRecurringProcessor(s.store)
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)

	_, err := processor.RunCatchUp(s.ctx, now)
	s.Require().NoError(err)
	summary, err := processor.RunCatchUp(s.ctx, now)
	s.Require().NoError(err)

	s.Equal(0, summary.TransactionsCreated)
	s.Equal(0, summary.TemplatesProcessed)
	s.Len(s.store.TransactionsFor("rt-1"), 3)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_Monotonicity() {
	s.store.PutTemplate(newTemplate("rt-1", domain.Monthly, day(2023, 1, 31), nil))
	processor := services.NewRecurringProcessor(s.store)

	previous := day(2023, 1, 31)
	for now := day(2023, 1, 31); now.Before(day(2024, 6, 1)); now = now.AddDate(0, 0, 9) {
		_, err := processor.RunCatchUp(s.ctx, now)
		s.Require().NoError(err)
		rt, _ := s.store.Template("rt-1")
		s.False(rt.NextRunDate.Before(previous), "next run date regressed at %s", now)
		previous = rt.NextRunDate
	}

	dates := s.occurrenceDates("rt-1")
	seen := make(map[time.Time]bool)
	for i, d := range dates {
		s.False(seen[d], "duplicate occurrence %s", d)
		seen[d] = true
		if i > 0 {
			s.True(d.After(dates[i-1]))
		}
	}
	// Clamped days carry forward: Jan 31, Feb 28, Mar 28 ... May 28.
	s.Len(dates, 17)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_MonthEndClamping() {
	s.store.PutTemplate(newTemplate("leap", domain.Monthly, day(2024, 1, 31), nil))
	s.store.PutTemplate(newTemplate("common", domain.Monthly, day(2023, 1, 31), nil))
	processor := services.NewRecurringProcessor(s.store)

	_, err := processor.RunCatchUp(s.ctx, day(2024, 1, 31))
	s.Require().NoError(err)
	leap, _ := s.store.Template("leap")
	s.Equal(day(2024, 2, 29), leap.NextRunDate)

	common, _ := s.store.Template("common")
	s.Equal(day(2024, 2, 28), common.NextRunDate)
	s.Equal(day(2023, 2, 28), s.occurrenceDates("common")[1])
}

func (s *RecurringProcessorTestSuite) TestCatchUp_ExpiryStopsFurtherOccurrences() {
	end := day(2024, 1, 15)
	s.store.PutTemplate(newTemplate("rt-1", domain.Weekly, day(2024, 1, 10), &end))
	processor := services.NewRecurringProcessor(s.store)

	_, err := processor.RunCatchUp(s.ctx, day(2024, 1, 10))
	s.Require().NoError(err)
	rt, _ := s.store.Template("rt-1")
	s.False(rt.IsActive)
	s.Equal(day(2024, 1, 17), rt.NextRunDate)

	_, err = processor.RunCatchUp(s.ctx, day(2024, 3, 1))
	s.Require().NoError(err)
	s.Equal([]time.Time{day(2024, 1, 10)}, s.occurrenceDates("rt-1"))
}

func (s *RecurringProcessorTestSuite) TestCatchUp_AlreadyExpiredIsDeactivatedWithoutInsert() {
	end := day(2024, 1, 5)
	s.store.PutTemplate(newTemplate("rt-1", domain.Weekly, day(2024, 1, 8), &end))
	processor := services.NewRecurringProcessor(s.store)

	summary, err := processor.RunCatchUp(s.ctx, day(2024, 1, 9))
	s.Require().NoError(err)
	rt, _ := s.store.Template("rt-1")
	s.False(rt.IsActive)
	s.Equal(day(2024, 1, 8), rt.NextRunDate)
	s.Empty(s.store.TransactionsFor("rt-1"))
	s.Equal(1, summary.TemplatesDeactivated)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_IsolatesTemplateFailures() {
	s.store.PutTemplate(newTemplate("rt-a", domain.Daily, day(2024, 1, 1), nil))
	s.store.PutTemplate(newTemplate("rt-b", domain.Daily, day(2024, 1, 1), nil))
	store := &failingStore{
		RecurringStore: s.store,
		applyErr:       map[string]error{"rt-a": errors.New("connection reset")},
	}
	processor := services.NewRecurringProcessor(store)

	summary, err := processor.RunCatchUp(s.ctx, day(2024, 1, 2))
	s.Require().NoError(err)

	s.Empty(s.store.TransactionsFor("rt-a"))
	failed, _ := s.store.Template("rt-a")
	s.Equal(day(2024, 1, 1), failed.NextRunDate)

	s.Len(s.store.TransactionsFor("rt-b"), 2)
	s.Equal(1, summary.TemplatesFailed)
	s.Equal(1, summary.TemplatesProcessed)

	// The failed template resumes from its persisted next run date.
	delete(store.applyErr, "rt-a")
	_, err = processor.RunCatchUp(s.ctx, day(2024, 1, 2))
	s.Require().NoError(err)
	s.Equal([]time.Time{day(2024, 1, 1), day(2024, 1, 2)}, s.occurrenceDates("rt-a"))
}

func (s *RecurringProcessorTestSuite) TestCatchUp_ConcurrentAdvanceIsSkipped() {
	s.store.PutTemplate(newTemplate("rt-1", domain.Daily, day(2024, 1, 1), nil))
	store := &failingStore{
		RecurringStore: s.store,
		applyErr:       map[string]error{"rt-1": apperrors.NewStaleWriteError("advanced")},
	}
	processor := services.NewRecurringProcessor(store)

	summary, err := processor.RunCatchUp(s.ctx, day(2024, 1, 1))
	s.Require().NoError(err)
	s.Equal(1, summary.TemplatesSkipped)
	s.Equal(0, summary.TemplatesFailed)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_StoreRejectsStalePlan() {
	rt := newTemplate("rt-1", domain.Daily, day(2024, 1, 1), nil)
	s.store.PutTemplate(rt)

	plan, err := domain.PlanCatchUp(rt, day(2024, 1, 1))
	s.Require().NoError(err)
	s.Require().NoError(s.store.ApplyCatchUp(s.ctx, "rt-1", plan, nil, day(2024, 1, 1)))

	err = s.store.ApplyCatchUp(s.ctx, "rt-1", plan, nil, day(2024, 1, 1))
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_ReadFailureAborts() {
	s.store.PutTemplate(newTemplate("rt-1", domain.Daily, day(2024, 1, 1), nil))
	store := &failingStore{RecurringStore: s.store, listErr: errors.New("database unavailable")}
	processor := services.NewRecurringProcessor(store)

	_, err := processor.RunCatchUp(s.ctx, day(2024, 1, 5))
	s.Require().Error(err)
	s.Contains(err.Error(), "database unavailable")
	s.Empty(s.store.Transactions())
}

func (s *RecurringProcessorTestSuite) TestCatchUp_MalformedTemplateIsSkipped() {
	bad := newTemplate("rt-bad", domain.Daily, day(2024, 1, 1), nil)
	bad.Frequency = ""
	s.store.PutTemplate(bad)
	s.store.PutTemplate(newTemplate("rt-good", domain.Weekly, day(2024, 1, 1), nil))
	processor := services.NewRecurringProcessor(s.store)

	summary, err := processor.RunCatchUp(s.ctx, day(2024, 1, 1))
	s.Require().NoError(err)
	s.Equal(1, summary.TemplatesSkipped)
	s.Equal(1, summary.TemplatesProcessed)
	s.Empty(s.store.TransactionsFor("rt-bad"))
	s.Len(s.store.TransactionsFor("rt-good"), 1)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_UsesProcessingLocation() {
	loc, err := time.LoadLocation("America/New_York")
	s.Require().NoError(err)
	s.store.PutTemplate(newTemplate("rt-1", domain.Daily, day(2024, 1, 2), nil))
	processor := services.NewRecurringProcessor(s.store, services.WithProcessingLocation(loc))

	// Still Jan 1 in New York.
	summary, err := processor.RunCatchUp(s.ctx, time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Equal(day(2024, 1, 1), summary.Today)
	s.Empty(s.store.Transactions())
}

func (s *RecurringProcessorTestSuite) TestCatchUp_PublishesCommittedOccurrences() {
	s.store.PutTemplate(newTemplate("rt-1", domain.Daily, day(2024, 1, 1), nil))
	publisher := &recordingPublisher{err: errors.New("broker down")}
	processor := services.NewRecurringProcessor(s.store, services.WithOccurrencePublisher(publisher))

	summary, err := processor.RunCatchUp(s.ctx, day(2024, 1, 3))
	s.Require().NoError(err)
	s.Equal(3, summary.TransactionsCreated)
	s.Len(publisher.published, 3)
	s.Len(s.store.Transactions(), 3)
}

func (s *RecurringProcessorTestSuite) TestCatchUp_CancelledContext() {
	s.store.PutTemplate(newTemplate("rt-1", domain.Daily, day(2024, 1, 1), nil))
	processor := services.NewRecurringProcessor(s.store)
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := processor.RunCatchUp(ctx, day(2024, 1, 3))
	s.ErrorIs(err, context.Canceled)
	s.Empty(s.store.Transactions())
}

func (s *RecurringProcessorTestSuite) TestCatchUp_ContinuesAfterScheduleMovedForward() {
	s.store.PutTemplate(newTemplate("rt-1", domain.Daily, day(2024, 1, 1), nil))
	processor := services.NewRecurringProcessor(s.store)

	_, err := processor.RunCatchUp(s.ctx, time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC))
	s.Require().NoError(err)

	// The owner pushes the schedule forward to Jan 10.
	rt, _ := s.store.Template("rt-1")
	rt.NextRunDate = day(2024, 1, 10)
	s.store.PutTemplate(rt)

	for _, d := range []int{5, 10, 11} {
		summary, err := processor.RunCatchUp(s.ctx, time.Date(2024, 1, d, 8, 0, 0, 0, time.UTC))
		s.Require().NoError(err)
		s.Zero(summary.TemplatesSkipped)
		s.Zero(summary.TemplatesFailed)
	}

	s.Equal([]time.Time{
		day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3),
		day(2024, 1, 10), day(2024, 1, 11),
	}, s.occurrenceDates("rt-1"))
	rt, _ = s.store.Template("rt-1")
	s.Equal(day(2024, 1, 12), rt.NextRunDate)
}
