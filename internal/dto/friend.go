package dto

import (
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
)

// SendFriendRequest names the user to befriend.
type SendFriendRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// FriendRequestResponse defines the data returned for a friend request.
type FriendRequestResponse struct {
	FriendshipID string                  `json:"friendshipID"`
	RequesterID  string                  `json:"requesterID"`
	AddresseeID  string                  `json:"addresseeID"`
	Status       domain.FriendshipStatus `json:"status"`
	CreatedAt    time.Time               `json:"createdAt"`
	RespondedAt  *time.Time              `json:"respondedAt,omitempty"`
}

// ListFriendRequestsResponse wraps pending requests.
type ListFriendRequestsResponse struct {
	Requests []FriendRequestResponse `json:"requests"`
}

// FriendResponse defines the data returned for an accepted friend.
type FriendResponse struct {
	FriendshipID string    `json:"friendshipID"`
	UserID       string    `json:"userID"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Since        time.Time `json:"since"`
}

// ListFriendsResponse wraps accepted friends.
type ListFriendsResponse struct {
	Friends []FriendResponse `json:"friends"`
}

// ToFriendRequestResponse converts a domain.Friendship.
func ToFriendRequestResponse(f *domain.Friendship) FriendRequestResponse {
	return FriendRequestResponse{
		FriendshipID: f.FriendshipID,
		RequesterID:  f.RequesterID,
		AddresseeID:  f.AddresseeID,
		Status:       f.Status,
		CreatedAt:    f.CreatedAt,
		RespondedAt:  f.RespondedAt,
	}
}

// ToListFriendRequestsResponse converts a slice of friendships.
func ToListFriendRequestsResponse(requests []domain.Friendship) ListFriendRequestsResponse {
	res := make([]FriendRequestResponse, len(requests))
	for i := range requests {
		res[i] = ToFriendRequestResponse(&requests[i])
	}
	return ListFriendRequestsResponse{Requests: res}
}

// ToListFriendsResponse converts a slice of friends.
func ToListFriendsResponse(friends []domain.Friend) ListFriendsResponse {
	res := make([]FriendResponse, len(friends))
	for i, f := range friends {
		res[i] = FriendResponse{
			FriendshipID: f.FriendshipID,
			UserID:       f.UserID,
			Email:        f.Email,
			DisplayName:  f.DisplayName,
			Since:        f.Since,
		}
	}
	return ListFriendsResponse{Friends: res}
}
