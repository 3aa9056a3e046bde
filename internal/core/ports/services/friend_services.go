package services

import (
	"context"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
)

// FriendReaderSvc defines read operations for friendships
type FriendReaderSvc interface {
	// ListFriends retrieves the user's accepted friends.
	ListFriends(ctx context.Context, userID string) ([]domain.Friend, error)

	// ListPendingRequests retrieves requests awaiting the user's answer.
	ListPendingRequests(ctx context.Context, userID string) ([]domain.Friendship, error)

	// AreFriends reports whether two users have an accepted friendship.
	AreFriends(ctx context.Context, userA, userB string) (bool, error)
}

// FriendWriterSvc defines write operations for friendships
type FriendWriterSvc interface {
	// SendRequest creates a pending request from requesterID to addresseeID.
	SendRequest(ctx context.Context, requesterID, addresseeID string) (*domain.Friendship, error)

	// RespondToRequest accepts or declines a request addressed to the user.
	RespondToRequest(ctx context.Context, friendshipID, userID string, accept bool) (*domain.Friendship, error)

	// RemoveFriend ends the friendship between the user and friendID.
	RemoveFriend(ctx context.Context, userID, friendID string) error
}

// FriendSvcFacade combines all friend-related service interfaces
type FriendSvcFacade interface {
	FriendReaderSvc
	FriendWriterSvc
}
