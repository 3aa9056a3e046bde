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
	"github.com/google/uuid"
)

// friendService implements the FriendSvcFacade interface
type friendService struct {
	BaseService
	friendRepo portsrepo.FriendshipRepositoryFacade
	userRepo   portsrepo.UserReader
}

// NewFriendService creates a new friendship service.
func NewFriendService(friendRepo portsrepo.FriendshipRepositoryFacade, userRepo portsrepo.UserReader) portssvc.FriendSvcFacade {
	return &friendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

var _ portssvc.FriendSvcFacade = (*friendService)(nil)

// ListFriends retrieves the user's accepted friends.
func (s *friendService) ListFriends(ctx context.Context, userID string) ([]domain.Friend, error) {
	friends, err := s.friendRepo.ListFriends(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list friends",
			slog.String("user_id", userID))
		return nil, err
	}
	if friends == nil {
		return []domain.Friend{}, nil
	}
	return friends, nil
}

// ListPendingRequests retrieves requests awaiting the user's answer.
func (s *friendService) ListPendingRequests(ctx context.Context, userID string) ([]domain.Friendship, error) {
	requests, err := s.friendRepo.ListPendingRequests(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list friend requests",
			slog.String("user_id", userID))
		return nil, err
	}
	if requests == nil {
		return []domain.Friendship{}, nil
	}
	return requests, nil
}

// AreFriends reports whether two users have an accepted friendship.
func (s *friendService) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	f, err := s.friendRepo.FindFriendshipBetween(ctx, userA, userB)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		s.LogError(ctx, err, "Failed to look up friendship",
			slog.String("user_a", userA),
			slog.String("user_b", userB))
		return false, err
	}
	return f.Status == domain.FriendshipAccepted, nil
}

// SendRequest creates a pending request. A declined request may be sent again;
// any other existing relationship in either direction is a conflict.
func (s *friendService) SendRequest(ctx context.Context, requesterID, addresseeID string) (*domain.Friendship, error) {
	if requesterID == addresseeID {
		return nil, apperrors.NewValidationFailedError("cannot send a friend request to yourself")
	}
	if _, err := s.userRepo.FindUserByID(ctx, addresseeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("user not found")
		}
		s.LogError(ctx, err, "Failed to look up addressee",
			slog.String("addressee_id", addresseeID))
		return nil, err
	}

	existing, err := s.friendRepo.FindFriendshipBetween(ctx, requesterID, addresseeID)
	switch {
	case err == nil && existing.Status == domain.FriendshipDeclined:
		if err := s.friendRepo.DeleteFriendship(ctx, existing.FriendshipID); err != nil {
			s.LogError(ctx, err, "Failed to clear declined friend request",
				slog.String("friendship_id", existing.FriendshipID))
			return nil, err
		}
	case err == nil:
		return nil, apperrors.NewConflictError("a friendship or pending request already exists")
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to look up existing friendship",
			slog.String("requester_id", requesterID),
			slog.String("addressee_id", addresseeID))
		return nil, err
	}

	now := time.Now()
	friendship := domain.Friendship{
		FriendshipID: uuid.NewString(),
		RequesterID:  requesterID,
		AddresseeID:  addresseeID,
		Status:       domain.FriendshipPending,
		AuditFields:  domain.NewAuditFields(requesterID, now),
	}
	if err := s.friendRepo.SaveFriendship(ctx, friendship); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save friend request",
				slog.String("requester_id", requesterID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Friend request sent",
		slog.String("friendship_id", friendship.FriendshipID),
		slog.String("requester_id", requesterID),
		slog.String("addressee_id", addresseeID))
	return &friendship, nil
}

// RespondToRequest accepts or declines a pending request. Only the addressee may answer.
func (s *friendService) RespondToRequest(ctx context.Context, friendshipID, userID string, accept bool) (*domain.Friendship, error) {
	f, err := s.friendRepo.FindFriendshipByID(ctx, friendshipID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find friend request",
				slog.String("friendship_id", friendshipID))
		}
		return nil, err
	}
	if !f.Involves(userID) {
		return nil, apperrors.NewNotFoundError("friend request not found")
	}
	if f.AddresseeID != userID {
		return nil, apperrors.NewForbiddenError("only the addressee can respond to a friend request")
	}
	if f.Status != domain.FriendshipPending {
		return nil, apperrors.NewConflictError("friend request was already answered")
	}

	status := domain.FriendshipDeclined
	if accept {
		status = domain.FriendshipAccepted
	}
	now := time.Now()
	if err := s.friendRepo.UpdateFriendshipStatus(ctx, friendshipID, status, userID, now); err != nil {
		s.LogError(ctx, err, "Failed to update friend request",
			slog.String("friendship_id", friendshipID))
		return nil, err
	}

	f.Status = status
	f.RespondedAt = &now
	f.Touch(userID, now)
	f.Version++

	s.LogInfo(ctx, "Friend request answered",
		slog.String("friendship_id", friendshipID),
		slog.String("status", string(status)))
	return f, nil
}

// RemoveFriend ends the friendship between the user and friendID. Pending requests
// the user sent are withdrawn the same way.
func (s *friendService) RemoveFriend(ctx context.Context, userID, friendID string) error {
	f, err := s.friendRepo.FindFriendshipBetween(ctx, userID, friendID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up friendship",
				slog.String("user_id", userID),
				slog.String("friend_id", friendID))
		}
		return err
	}
	if f.Status == domain.FriendshipDeclined {
		return apperrors.NewNotFoundError("friendship not found")
	}
	if err := s.friendRepo.DeleteFriendship(ctx, f.FriendshipID); err != nil {
		s.LogError(ctx, err, "Failed to delete friendship",
			slog.String("friendship_id", f.FriendshipID))
		return err
	}
	s.LogInfo(ctx, "Friendship removed",
		slog.String("friendship_id", f.FriendshipID),
		slog.String("user_id", userID))
	return nil
}
