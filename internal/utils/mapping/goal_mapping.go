package mapping

import (
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/models"
)

// ToModelGoal converts a domain Goal to a model Goal
func ToModelGoal(d domain.Goal) models.Goal {
	return models.Goal{
		GoalID:        d.GoalID,
		OwnerID:       d.OwnerID,
		Name:          d.Name,
		Description:   d.Description,
		TargetAmount:  d.TargetAmount,
		CurrentAmount: d.CurrentAmount,
		Deadline:      d.Deadline,
		IsCompleted:   d.IsCompleted,
		AuditFields:   models.AuditFields(d.AuditFields),
	}
}

// ToDomainGoal converts a model Goal to a domain Goal
func ToDomainGoal(m models.Goal) domain.Goal {
	return domain.Goal{
		GoalID:        m.GoalID,
		OwnerID:       m.OwnerID,
		Name:          m.Name,
		Description:   m.Description,
		TargetAmount:  m.TargetAmount,
		CurrentAmount: m.CurrentAmount,
		Deadline:      m.Deadline,
		IsCompleted:   m.IsCompleted,
		AuditFields:   domain.AuditFields(m.AuditFields),
	}
}

// ToDomainGoalSlice converts a slice of model Goals
func ToDomainGoalSlice(ms []models.Goal) []domain.Goal {
	ds := make([]domain.Goal, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGoal(m)
	}
	return ds
}

// ToDomainGoalParticipant converts a joined participant row
func ToDomainGoalParticipant(m models.GoalParticipant) domain.GoalParticipant {
	return domain.GoalParticipant{
		GoalID:      m.GoalID,
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Role:        domain.GoalRole(m.Role),
		JoinedAt:    m.JoinedAt,
	}
}

// ToDomainGoalParticipantSlice converts a slice of participant rows
func ToDomainGoalParticipantSlice(ms []models.GoalParticipant) []domain.GoalParticipant {
	ds := make([]domain.GoalParticipant, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainGoalParticipant(m)
	}
	return ds
}

// ToModelGoalContribution converts a domain GoalContribution
func ToModelGoalContribution(d domain.GoalContribution) models.GoalContribution {
	return models.GoalContribution{
		ContributionID: d.ContributionID,
		GoalID:         d.GoalID,
		UserID:         d.UserID,
		Amount:         d.Amount,
		Note:           d.Note,
		CreatedAt:      d.CreatedAt,
	}
}

// ToDomainGoalContributionSlice converts a slice of contribution rows
func ToDomainGoalContributionSlice(ms []models.GoalContribution) []domain.GoalContribution {
	ds := make([]domain.GoalContribution, len(ms))
	for i, m := range ms {
		ds[i] = domain.GoalContribution{
			ContributionID: m.ContributionID,
			GoalID:         m.GoalID,
			UserID:         m.UserID,
			Amount:         m.Amount,
			Note:           m.Note,
			CreatedAt:      m.CreatedAt,
		}
	}
	return ds
}
