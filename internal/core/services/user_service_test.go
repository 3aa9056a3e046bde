package services_test

import (
	"context"
	"testing"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/core/services"
	"github.com/fireflow/fireflow_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockRepo *MockUserRepository
	service  portssvc.UserSvcFacade
	ctx      context.Context
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockUserRepository)
	s.service = services.NewUserService(s.mockRepo)
	s.ctx = context.Background()
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockRepo.AssertExpectations(s.T())
}

func (s *UserServiceTestSuite) TestEnsureUser_ExistingProfile() {
	existing := &domain.User{UserID: "u-1", Email: "ana@example.com", DisplayName: "Ana"}
	s.mockRepo.On("FindUserByID", s.ctx, "u-1").Return(existing, nil).Once()

	user, err := s.service.EnsureUser(s.ctx, "u-1", "ana@example.com")
	s.Require().NoError(err)
	s.Equal("Ana", user.DisplayName)
	s.mockRepo.AssertNotCalled(s.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (s *UserServiceTestSuite) TestEnsureUser_CreatesOnFirstAccess() {
	s.mockRepo.On("FindUserByID", s.ctx, "u-1").Return(nil, apperrors.NewNotFoundError("user")).Once()
	s.mockRepo.On("SaveUser", s.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.UserID == "u-1" && u.Email == "ana.lopez@example.com" && u.DisplayName == "ana.lopez"
	})).Return(nil).Once()

	user, err := s.service.EnsureUser(s.ctx, "u-1", "  Ana.Lopez@Example.com ")
	s.Require().NoError(err)
	s.Equal(int64(1), user.Version)
}

func (s *UserServiceTestSuite) TestEnsureUser_ConcurrentCreate() {
	created := &domain.User{UserID: "u-1", Email: "ana@example.com"}
	s.mockRepo.On("FindUserByID", s.ctx, "u-1").Return(nil, apperrors.NewNotFoundError("user")).Once()
	s.mockRepo.On("SaveUser", s.ctx, mock.Anything).Return(apperrors.NewConflictError("exists")).Once()
	s.mockRepo.On("FindUserByID", s.ctx, "u-1").Return(created, nil).Once()

	user, err := s.service.EnsureUser(s.ctx, "u-1", "ana@example.com")
	s.Require().NoError(err)
	s.Equal(created, user)
}

func (s *UserServiceTestSuite) TestUpdateUser() {
	s.mockRepo.On("FindUserByID", s.ctx, "u-1").
		Return(&domain.User{UserID: "u-1", Email: "ana@example.com", DisplayName: "ana", AuditFields: domain.AuditFields{Version: 1}}, nil).Once()
	s.mockRepo.On("UpdateUser", s.ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.DisplayName == "Ana L."
	})).Return(nil).Once()

	name := " Ana L. "
	user, err := s.service.UpdateUser(s.ctx, "u-1", dto.UpdateUserRequest{DisplayName: &name})
	s.Require().NoError(err)
	s.Equal(int64(2), user.Version)
}

func (s *UserServiceTestSuite) TestFindUserByEmail_Normalizes() {
	s.mockRepo.On("FindUserByEmail", s.ctx, "bob@example.com").Return(&domain.User{UserID: "u-2"}, nil).Once()

	user, err := s.service.FindUserByEmail(s.ctx, "Bob@Example.com")
	s.Require().NoError(err)
	s.Equal("u-2", user.UserID)
}
