package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target that one owner and any number of collaborators fund together.
type Goal struct {
	GoalID        string          `json:"goalID"`
	OwnerID       string          `json:"ownerID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *time.Time      `json:"deadline,omitempty"`
	IsCompleted   bool            `json:"isCompleted"`
	AuditFields
}

// Validate checks the user supplied fields of a goal.
func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("name is required")
	}
	if len(g.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if !g.TargetAmount.IsPositive() {
		return errors.New("target amount must be positive")
	}
	if g.CurrentAmount.IsNegative() {
		return errors.New("current amount must not be negative")
	}
	return nil
}

// ApplyContribution adds amount to the goal and marks it completed once the target is reached.
func (g *Goal) ApplyContribution(amount decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.IsCompleted = true
	}
}

// GoalProgress summarizes how far a goal is from its target.
type GoalProgress struct {
	GoalID        string          `json:"goalID"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	Remaining     decimal.Decimal `json:"remaining"`
	Percent       decimal.Decimal `json:"percent"`
	IsCompleted   bool            `json:"isCompleted"`
}

var hundred = decimal.NewFromInt(100)

// Progress computes the goal's progress. Percent is rounded to two places and capped at 100.
func (g Goal) Progress() GoalProgress {
	p := GoalProgress{
		GoalID:        g.GoalID,
		CurrentAmount: g.CurrentAmount,
		TargetAmount:  g.TargetAmount,
		Remaining:     decimal.Max(g.TargetAmount.Sub(g.CurrentAmount), decimal.Zero),
		Percent:       decimal.Zero,
		IsCompleted:   g.IsCompleted,
	}
	if g.TargetAmount.IsPositive() {
		p.Percent = decimal.Min(g.CurrentAmount.Div(g.TargetAmount).Mul(hundred), hundred).Round(2)
	}
	return p
}

// GoalRole defines what a participant may do with a goal.
type GoalRole string

const (
	GoalRoleOwner        GoalRole = "OWNER"
	GoalRoleCollaborator GoalRole = "COLLABORATOR"
)

// GoalParticipant is the membership of a user in a goal.
type GoalParticipant struct {
	GoalID      string    `json:"goalID"`
	UserID      string    `json:"userID"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        GoalRole  `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

// GoalContribution is an amount a participant allocated to a goal.
type GoalContribution struct {
	ContributionID string          `json:"contributionID"`
	GoalID         string          `json:"goalID"`
	UserID         string          `json:"userID"`
	Amount         decimal.Decimal `json:"amount"`
	Note           string          `json:"note"`
	CreatedAt      time.Time       `json:"createdAt"`
}
