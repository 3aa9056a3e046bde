package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a row of the goals table.
type Goal struct {
	GoalID        string          `db:"goal_id"`
	OwnerID       string          `db:"owner_id"`
	Name          string          `db:"name"`
	Description   string          `db:"description"`
	TargetAmount  decimal.Decimal `db:"target_amount"`
	CurrentAmount decimal.Decimal `db:"current_amount"`
	Deadline      *time.Time      `db:"deadline"` // Nullable
	IsCompleted   bool            `db:"is_completed"`
	AuditFields
}

// GoalParticipant is a row of goal_participants joined with the member's profile.
type GoalParticipant struct {
	GoalID      string    `db:"goal_id"`
	UserID      string    `db:"user_id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	Role        string    `db:"role"`
	JoinedAt    time.Time `db:"joined_at"`
}

// GoalContribution is a row of the goal_contributions table.
type GoalContribution struct {
	ContributionID string          `db:"contribution_id"`
	GoalID         string          `db:"goal_id"`
	UserID         string          `db:"user_id"`
	Amount         decimal.Decimal `db:"amount"`
	Note           string          `db:"note"`
	CreatedAt      time.Time       `db:"created_at"`
}
