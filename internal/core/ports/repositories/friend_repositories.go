package repositories

import (
	"context"
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
)

// FriendshipReader defines read operations for friendships
type FriendshipReader interface {
	// FindFriendshipByID retrieves a friendship by its ID.
	FindFriendshipByID(ctx context.Context, friendshipID string) (*domain.Friendship, error)

	// FindFriendshipBetween retrieves the friendship linking two users in either direction.
	FindFriendshipBetween(ctx context.Context, userA, userB string) (*domain.Friendship, error)

	// ListPendingRequests retrieves requests addressed to the user that await an answer.
	ListPendingRequests(ctx context.Context, addresseeID string) ([]domain.Friendship, error)

	// ListFriends retrieves the user's accepted friends with their profiles.
	ListFriends(ctx context.Context, userID string) ([]domain.Friend, error)
}

// FriendshipWriter defines write operations for friendships
type FriendshipWriter interface {
	// SaveFriendship persists a new friend request.
	SaveFriendship(ctx context.Context, friendship domain.Friendship) error

	// UpdateFriendshipStatus records the addressee's answer to a request.
	UpdateFriendshipStatus(ctx context.Context, friendshipID string, status domain.FriendshipStatus, respondedBy string, respondedAt time.Time) error

	// DeleteFriendship removes a friendship.
	DeleteFriendship(ctx context.Context, friendshipID string) error
}

// FriendshipRepositoryFacade combines all friendship-related repository interfaces
type FriendshipRepositoryFacade interface {
	FriendshipReader
	FriendshipWriter
}
