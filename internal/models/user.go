package models

// User is a row of the profiles table. user_id is the Supabase auth subject.
type User struct {
	UserID      string `db:"user_id"`
	Email       string `db:"email"`
	DisplayName string `db:"display_name"`
	AuditFields
}
