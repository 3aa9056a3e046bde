package dto

import (
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateGoalRequest defines the data needed to create a savings goal.
type CreateGoalRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Description  string          `json:"description" binding:"max=255"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	Deadline     *string         `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
}

// UpdateGoalRequest defines the fields that may change on a goal.
type UpdateGoalRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description   *string          `json:"description" binding:"omitempty,max=255"`
	TargetAmount  *decimal.Decimal `json:"targetAmount"`
	Deadline      *string          `json:"deadline" binding:"omitempty,datetime=2006-01-02"`
	ClearDeadline bool             `json:"clearDeadline"`
	Version       int64            `json:"version" binding:"required,min=1"`
}

// AddContributionRequest defines an allocation of money to a goal.
type AddContributionRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" binding:"max=255"`
}

// AddParticipantRequest names the friend to invite to a goal.
type AddParticipantRequest struct {
	UserID string `json:"userID" binding:"required"`
}

// GoalResponse defines the data returned for a goal.
type GoalResponse struct {
	GoalID        string          `json:"goalID"`
	OwnerID       string          `json:"ownerID"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      *string         `json:"deadline,omitempty"`
	IsCompleted   bool            `json:"isCompleted"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ListGoalsResponse wraps a user's goals.
type ListGoalsResponse struct {
	Goals []GoalResponse `json:"goals"`
}

// ParticipantResponse defines the data returned for a goal member.
type ParticipantResponse struct {
	UserID      string          `json:"userID"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	Role        domain.GoalRole `json:"role"`
	JoinedAt    time.Time       `json:"joinedAt"`
}

// ListParticipantsResponse wraps a goal's members.
type ListParticipantsResponse struct {
	Participants []ParticipantResponse `json:"participants"`
}

// ContributionResponse defines the data returned for a contribution.
type ContributionResponse struct {
	ContributionID string          `json:"contributionID"`
	GoalID         string          `json:"goalID"`
	UserID         string          `json:"userID"`
	Amount         decimal.Decimal `json:"amount"`
	Note           string          `json:"note"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ListContributionsResponse wraps a goal's contributions.
type ListContributionsResponse struct {
	Contributions []ContributionResponse `json:"contributions"`
}

// ToGoalResponse converts a domain.Goal to GoalResponse DTO
func ToGoalResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		GoalID:        g.GoalID,
		OwnerID:       g.OwnerID,
		Name:          g.Name,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		Deadline:      FormatOptionalDate(g.Deadline),
		IsCompleted:   g.IsCompleted,
		Version:       g.Version,
		CreatedAt:     g.CreatedAt,
		LastUpdatedAt: g.LastUpdatedAt,
	}
}

// ToListGoalsResponse converts a slice of goals.
func ToListGoalsResponse(goals []domain.Goal) ListGoalsResponse {
	res := make([]GoalResponse, len(goals))
	for i := range goals {
		res[i] = ToGoalResponse(&goals[i])
	}
	return ListGoalsResponse{Goals: res}
}

// ToListParticipantsResponse converts a slice of goal members.
func ToListParticipantsResponse(participants []domain.GoalParticipant) ListParticipantsResponse {
	res := make([]ParticipantResponse, len(participants))
	for i, p := range participants {
		res[i] = ParticipantResponse{
			UserID:      p.UserID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			Role:        p.Role,
			JoinedAt:    p.JoinedAt,
		}
	}
	return ListParticipantsResponse{Participants: res}
}

// ToContributionResponse converts a domain.GoalContribution.
func ToContributionResponse(c *domain.GoalContribution) ContributionResponse {
	return ContributionResponse{
		ContributionID: c.ContributionID,
		GoalID:         c.GoalID,
		UserID:         c.UserID,
		Amount:         c.Amount,
		Note:           c.Note,
		CreatedAt:      c.CreatedAt,
	}
}

// ToListContributionsResponse converts a slice of contributions.
func ToListContributionsResponse(contributions []domain.GoalContribution) ListContributionsResponse {
	res := make([]ContributionResponse, len(contributions))
	for i := range contributions {
		res[i] = ToContributionResponse(&contributions[i])
	}
	return ListContributionsResponse{Contributions: res}
}
