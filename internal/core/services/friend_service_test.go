package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fireflow/fireflow_backend/internal/apperrors"
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	portssvc "github.com/fireflow/fireflow_backend/internal/core/ports/services"
	"github.com/fireflow/fireflow_backend/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type FriendServiceTestSuite struct {
	suite.Suite
	friendRepo *MockFriendshipRepository
	userRepo   *MockUserRepository
	service    portssvc.FriendSvcFacade
	ctx        context.Context
}

func TestFriendServiceSuite(t *testing.T) {
	suite.Run(t, new(FriendServiceTestSuite))
}

func (s *FriendServiceTestSuite) SetupTest() {
	s.friendRepo = new(MockFriendshipRepository)
	s.userRepo = new(MockUserRepository)
	s.service = services.NewFriendService(s.friendRepo, s.userRepo)
	s.ctx = context.Background()
}

func (s *FriendServiceTestSuite) TearDownTest() {
	s.friendRepo.AssertExpectations(s.T())
	s.userRepo.AssertExpectations(s.T())
}

func (s *FriendServiceTestSuite) TestSendRequest_ToSelf() {
	_, err := s.service.SendRequest(s.ctx, "alice", "alice")
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *FriendServiceTestSuite) TestSendRequest_UnknownUser() {
	s.userRepo.On("FindUserByID", s.ctx, "ghost").Return(nil, apperrors.NewNotFoundError("user")).Once()

	_, err := s.service.SendRequest(s.ctx, "alice", "ghost")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *FriendServiceTestSuite) TestSendRequest_Success() {
	s.userRepo.On("FindUserByID", s.ctx, "bob").Return(&domain.User{UserID: "bob"}, nil).Once()
	s.friendRepo.On("FindFriendshipBetween", s.ctx, "alice", "bob").Return(nil, apperrors.NewNotFoundError("friendship")).Once()
	s.friendRepo.On("SaveFriendship", s.ctx, mock.MatchedBy(func(f domain.Friendship) bool {
		return f.RequesterID == "alice" && f.AddresseeID == "bob" && f.Status == domain.FriendshipPending
	})).Return(nil).Once()

	f, err := s.service.SendRequest(s.ctx, "alice", "bob")
	s.Require().NoError(err)
	s.Equal(domain.FriendshipPending, f.Status)
}

func (s *FriendServiceTestSuite) TestSendRequest_ExistingPending() {
	s.userRepo.On("FindUserByID", s.ctx, "bob").Return(&domain.User{UserID: "bob"}, nil).Once()
	s.friendRepo.On("FindFriendshipBetween", s.ctx, "alice", "bob").
		Return(&domain.Friendship{FriendshipID: "f-1", RequesterID: "bob", AddresseeID: "alice", Status: domain.FriendshipPending}, nil).Once()

	_, err := s.service.SendRequest(s.ctx, "alice", "bob")
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *FriendServiceTestSuite) TestSendRequest_AfterDecline() {
	s.userRepo.On("FindUserByID", s.ctx, "bob").Return(&domain.User{UserID: "bob"}, nil).Once()
	s.friendRepo.On("FindFriendshipBetween", s.ctx, "alice", "bob").
		Return(&domain.Friendship{FriendshipID: "f-old", Status: domain.FriendshipDeclined}, nil).Once()
	s.friendRepo.On("DeleteFriendship", s.ctx, "f-old").Return(nil).Once()
	s.friendRepo.On("SaveFriendship", s.ctx, mock.Anything).Return(nil).Once()

	_, err := s.service.SendRequest(s.ctx, "alice", "bob")
	s.NoError(err)
}

func (s *FriendServiceTestSuite) TestRespondToRequest_OnlyAddressee() {
	s.friendRepo.On("FindFriendshipByID", s.ctx, "f-1").
		Return(&domain.Friendship{FriendshipID: "f-1", RequesterID: "alice", AddresseeID: "bob", Status: domain.FriendshipPending}, nil).Once()

	_, err := s.service.RespondToRequest(s.ctx, "f-1", "alice", true)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *FriendServiceTestSuite) TestRespondToRequest_Accept() {
	s.friendRepo.On("FindFriendshipByID", s.ctx, "f-1").
		Return(&domain.Friendship{FriendshipID: "f-1", RequesterID: "alice", AddresseeID: "bob", Status: domain.FriendshipPending}, nil).Once()
	s.friendRepo.On("UpdateFriendshipStatus", s.ctx, "f-1", domain.FriendshipAccepted, "bob", mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	f, err := s.service.RespondToRequest(s.ctx, "f-1", "bob", true)
	s.Require().NoError(err)
	s.Equal(domain.FriendshipAccepted, f.Status)
	s.NotNil(f.RespondedAt)
}

func (s *FriendServiceTestSuite) TestRespondToRequest_AlreadyAnswered() {
	answered := time.Now()
	s.friendRepo.On("FindFriendshipByID", s.ctx, "f-1").
		Return(&domain.Friendship{FriendshipID: "f-1", RequesterID: "alice", AddresseeID: "bob", Status: domain.FriendshipDeclined, RespondedAt: &answered}, nil).Once()

	_, err := s.service.RespondToRequest(s.ctx, "f-1", "bob", true)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *FriendServiceTestSuite) TestAreFriends() {
	s.friendRepo.On("FindFriendshipBetween", s.ctx, "alice", "bob").
		Return(&domain.Friendship{Status: domain.FriendshipAccepted}, nil).Once()
	s.friendRepo.On("FindFriendshipBetween", s.ctx, "alice", "carol").
		Return(nil, apperrors.NewNotFoundError("friendship")).Once()

	ok, err := s.service.AreFriends(s.ctx, "alice", "bob")
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.service.AreFriends(s.ctx, "alice", "carol")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *FriendServiceTestSuite) TestRemoveFriend() {
	s.friendRepo.On("FindFriendshipBetween", s.ctx, "alice", "bob").
		Return(&domain.Friendship{FriendshipID: "f-1", Status: domain.FriendshipAccepted}, nil).Once()
	s.friendRepo.On("DeleteFriendship", s.ctx, "f-1").Return(nil).Once()

	s.NoError(s.service.RemoveFriend(s.ctx, "alice", "bob"))
}
