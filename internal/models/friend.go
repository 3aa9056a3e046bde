package models

import "time"

// Friendship is a row of the friendships table.
type Friendship struct {
	FriendshipID string     `db:"friendship_id"`
	RequesterID  string     `db:"requester_id"`
	AddresseeID  string     `db:"addressee_id"`
	Status       string     `db:"status"`
	RespondedAt  *time.Time `db:"responded_at"` // Nullable
	AuditFields
}

// Friend is an accepted friendship joined with the other user's profile.
type Friend struct {
	FriendshipID string    `db:"friendship_id"`
	UserID       string    `db:"user_id"`
	Email        string    `db:"email"`
	DisplayName  string    `db:"display_name"`
	Since        time.Time `db:"since"`
}
