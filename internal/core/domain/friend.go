package domain

import "time"

// FriendshipStatus is the state of a friend request.
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "PENDING"
	FriendshipAccepted FriendshipStatus = "ACCEPTED"
	FriendshipDeclined FriendshipStatus = "DECLINED"
)

// Friendship links a requester and an addressee. Only ACCEPTED friendships let
// users share goals.
type Friendship struct {
	FriendshipID string           `json:"friendshipID"`
	RequesterID  string           `json:"requesterID"`
	AddresseeID  string           `json:"addresseeID"`
	Status       FriendshipStatus `json:"status"`
	RespondedAt  *time.Time       `json:"respondedAt,omitempty"`
	AuditFields
}

// Involves reports whether userID is either side of the friendship.
func (f Friendship) Involves(userID string) bool {
	return f.RequesterID == userID || f.AddresseeID == userID
}

// Other returns the user on the opposite side from userID.
func (f Friendship) Other(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

// Friend is an accepted friendship seen from one user's side.
type Friend struct {
	FriendshipID string    `json:"friendshipID"`
	UserID       string    `json:"userID"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	Since        time.Time `json:"since"`
}
