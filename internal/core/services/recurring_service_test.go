package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/core/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type RecurringServiceTestSuite struct {
	suite.Suite
	mockRepo *MockRecurringRepository
	service  portssvc.RecurringTransactionSvcFacade
	ctx      context.Context
	now      time.Time
}

func TestRecurringServiceSuite(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}

func (s *RecurringServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockRecurringRepository)
	s.now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	s.service = services.NewRecurringTransactionService(s.mockRepo,
		services.WithRecurringClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

func (s *RecurringServiceTestSuite) TearDownTest() {
	s.mockRepo.AssertExpectations(s.T())
}

func (s *RecurringServiceTestSuite) stored() *domain.RecurringTransaction {
	end := day(2024, 12, 31)
	return &domain.RecurringTransaction{
		RecurringTransactionID: "rt-1",
		UserID:                 "user-1",
		Category:               "Rent",
		Type:                   domain.Expense,
		Amount:                 decimal.NewFromInt(900),
		Frequency:              domain.Monthly,
		StartDate:              day(2024, 1, 31),
		NextRunDate:            day(2024, 6, 30),
		EndDate:                &end,
		IsActive:               true,
		AuditFields:            domain.AuditFields{Version: 5},
	}
}

func (s *RecurringServiceTestSuite) TestCreate_FirstRunIsStartDate() {
	end := "2025-01-31"
	req := dto.CreateRecurringTransactionRequest{
		Category:  "Subscriptions",
		Type:      domain.Expense,
		Amount:    decimal.NewFromFloat(9.99),
		Frequency: domain.Monthly,
		StartDate: "2024-01-31",
		EndDate:   &end,
	}
	s.mockRepo.On("SaveRecurringTransaction", s.ctx, mock.MatchedBy(func(rt domain.RecurringTransaction) bool {
		return rt.NextRunDate.Equal(day(2024, 1, 31)) && rt.IsActive && rt.EndDate.Equal(day(2025, 1, 31)) &&
			rt.CreatedAt.Equal(s.now)
	})).Return(nil).Once()

	rt, err := s.service.CreateRecurringTransaction(s.ctx, "user-1", req)
	s.Require().NoError(err)
	s.Equal(day(2024, 1, 31), rt.StartDate)
}

func (s *RecurringServiceTestSuite) TestCreate_EndBeforeStart() {
	end := "2023-12-31"
	req := dto.CreateRecurringTransactionRequest{
		Category:  "Rent",
		Type:      domain.Expense,
		Amount:    decimal.NewFromInt(1),
		Frequency: domain.Weekly,
		StartDate: "2024-01-01",
		EndDate:   &end,
	}

	_, err := s.service.CreateRecurringTransaction(s.ctx, "user-1", req)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RecurringServiceTestSuite) TestGet_NonOwnerSeesNotFound() {
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(s.stored(), nil).Once()

	_, err := s.service.GetRecurringTransactionByID(s.ctx, "rt-1", "intruder")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RecurringServiceTestSuite) TestUpdate_ChangesScheduleAndBumpsVersion() {
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(s.stored(), nil).Once()
	s.mockRepo.On("UpdateRecurringTransaction", s.ctx, mock.MatchedBy(func(rt domain.RecurringTransaction) bool {
		return rt.Frequency == domain.Weekly && rt.EndDate == nil && rt.NextRunDate.Equal(day(2024, 7, 1))
	})).Return(nil).Once()

	weekly := domain.Weekly
	next := "2024-07-01"
	rt, err := s.service.UpdateRecurringTransaction(s.ctx, "rt-1", "user-1", dto.UpdateRecurringTransactionRequest{
		Frequency:    &weekly,
		NextRunDate:  &next,
		ClearEndDate: true,
		Version:      5,
	})
	s.Require().NoError(err)
	s.Equal(int64(6), rt.Version)
}

func (s *RecurringServiceTestSuite) TestUpdate_ConflictFromRepository() {
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(s.stored(), nil).Once()
	s.mockRepo.On("UpdateRecurringTransaction", s.ctx, mock.Anything).
		Return(apperrors.NewStaleWriteError("advanced")).Once()

	_, err := s.service.UpdateRecurringTransaction(s.ctx, "rt-1", "user-1", dto.UpdateRecurringTransactionRequest{Version: 5})
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *RecurringServiceTestSuite) TestUpdate_NextRunDateCannotMoveBackwards() {
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(s.stored(), nil).Once()

	earlier := "2024-01-31"
	_, err := s.service.UpdateRecurringTransaction(s.ctx, "rt-1", "user-1", dto.UpdateRecurringTransactionRequest{
		NextRunDate: &earlier,
		Version:     5,
	})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.ErrorContains(err, "2024-06-30")
	s.mockRepo.AssertNotCalled(s.T(), "UpdateRecurringTransaction", mock.Anything, mock.Anything)
}

func (s *RecurringServiceTestSuite) TestUpdate_SameNextRunDateIsAccepted() {
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(s.stored(), nil).Once()
	s.mockRepo.On("UpdateRecurringTransaction", s.ctx, mock.MatchedBy(func(rt domain.RecurringTransaction) bool {
		return rt.NextRunDate.Equal(day(2024, 6, 30))
	})).Return(nil).Once()

	same := "2024-06-30"
	_, err := s.service.UpdateRecurringTransaction(s.ctx, "rt-1", "user-1", dto.UpdateRecurringTransactionRequest{
		NextRunDate: &same,
		Version:     5,
	})
	s.NoError(err)
}

func (s *RecurringServiceTestSuite) TestSetActive_ResumeSkipsCyclesMissedWhilePaused() {
	rt := s.stored()
	rt.IsActive = false
	rt.NextRunDate = day(2024, 2, 15)
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(rt, nil).Once()
	s.mockRepo.On("UpdateRecurringTransaction", s.ctx, mock.MatchedBy(func(rt domain.RecurringTransaction) bool {
		return rt.IsActive && rt.NextRunDate.Equal(day(2024, 6, 15))
	})).Return(nil).Once()

	resumed, err := s.service.SetRecurringTransactionActive(s.ctx, "rt-1", "user-1", true)
	s.Require().NoError(err)
	s.True(resumed.IsActive)
	s.Equal(day(2024, 6, 15), resumed.NextRunDate)
}

func (s *RecurringServiceTestSuite) TestSetActive_ResumeDueTodayKeepsToday() {
	rt := s.stored()
	rt.IsActive = false
	rt.NextRunDate = day(2024, 3, 1)
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(rt, nil).Once()
	s.mockRepo.On("UpdateRecurringTransaction", s.ctx, mock.MatchedBy(func(rt domain.RecurringTransaction) bool {
		return rt.NextRunDate.Equal(day(2024, 6, 1))
	})).Return(nil).Once()

	_, err := s.service.SetRecurringTransactionActive(s.ctx, "rt-1", "user-1", true)
	s.NoError(err)
}

func (s *RecurringServiceTestSuite) TestSetActive_ResumePastEndDateAfterSkipping() {
	rt := s.stored()
	rt.IsActive = false
	rt.NextRunDate = day(2024, 2, 15)
	end := day(2024, 4, 30)
	rt.EndDate = &end
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(rt, nil).Once()

	_, err := s.service.SetRecurringTransactionActive(s.ctx, "rt-1", "user-1", true)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "UpdateRecurringTransaction", mock.Anything, mock.Anything)
}

func (s *RecurringServiceTestSuite) TestSetActive_CannotResumeExpired() {
	rt := s.stored()
	rt.IsActive = false
	rt.NextRunDate = day(2025, 1, 31)
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(rt, nil).Once()

	_, err := s.service.SetRecurringTransactionActive(s.ctx, "rt-1", "user-1", true)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RecurringServiceTestSuite) TestSetActive_Pause() {
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(s.stored(), nil).Once()
	s.mockRepo.On("UpdateRecurringTransaction", s.ctx, mock.MatchedBy(func(rt domain.RecurringTransaction) bool {
		return !rt.IsActive
	})).Return(nil).Once()

	rt, err := s.service.SetRecurringTransactionActive(s.ctx, "rt-1", "user-1", false)
	s.Require().NoError(err)
	s.False(rt.IsActive)
}

func (s *RecurringServiceTestSuite) TestPreviewUpcoming() {
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(s.stored(), nil).Once()

	dates, err := s.service.PreviewUpcoming(s.ctx, "rt-1", "user-1", 3)
	s.Require().NoError(err)
	s.Equal([]time.Time{day(2024, 6, 30), day(2024, 7, 30), day(2024, 8, 30)}, dates)
}

func (s *RecurringServiceTestSuite) TestPreviewUpcoming_PausedHasNone() {
	rt := s.stored()
	rt.IsActive = false
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(rt, nil).Once()

	dates, err := s.service.PreviewUpcoming(s.ctx, "rt-1", "user-1", 3)
	s.Require().NoError(err)
	s.Empty(dates)
}

func (s *RecurringServiceTestSuite) TestDelete() {
	s.mockRepo.On("FindRecurringTransactionByID", s.ctx, "rt-1").Return(s.stored(), nil).Once()
	s.mockRepo.On("DeleteRecurringTransaction", s.ctx, "rt-1").Return(nil).Once()

	s.NoError(s.service.DeleteRecurringTransaction(s.ctx, "rt-1", "user-1"))
}
