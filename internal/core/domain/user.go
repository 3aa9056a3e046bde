package domain

import (
	"errors"
	"strings"
)

// User is the application profile of a Supabase auth user.
// UserID is the auth subject, so profiles are never created with a generated ID.
type User struct {
	UserID      string `json:"userID"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	AuditFields
}

// Validate checks the fields required to store a profile.
func (u User) Validate() error {
	if u.UserID == "" {
		return errors.New("user id is required")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("a valid email is required")
	}
	if len(u.DisplayName) > 100 {
		return errors.New("display name too long (max 100 characters)")
	}
	return nil
}

// NormalizeEmail lowercases and trims an address for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
