package mapping

import (
	"github.com/fireflow/fireflow_backend/internal/core/domain"
	"github.com/fireflow/fireflow_backend/internal/models"
)

// ToModelFriendship converts a domain Friendship to a model Friendship
func ToModelFriendship(d domain.Friendship) models.Friendship {
	return models.Friendship{
		FriendshipID: d.FriendshipID,
		RequesterID:  d.RequesterID,
		AddresseeID:  d.AddresseeID,
		Status:       string(d.Status),
		RespondedAt:  d.RespondedAt,
		AuditFields:  models.AuditFields(d.AuditFields),
	}
}

// ToDomainFriendship converts a model Friendship to a domain Friendship
func ToDomainFriendship(m models.Friendship) domain.Friendship {
	return domain.Friendship{
		FriendshipID: m.FriendshipID,
		RequesterID:  m.RequesterID,
		AddresseeID:  m.AddresseeID,
		Status:       domain.FriendshipStatus(m.Status),
		RespondedAt:  m.RespondedAt,
		AuditFields:  domain.AuditFields(m.AuditFields),
	}
}

// ToDomainFriendshipSlice converts a slice of model Friendships
func ToDomainFriendshipSlice(ms []models.Friendship) []domain.Friendship {
	ds := make([]domain.Friendship, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainFriendship(m)
	}
	return ds
}

// ToDomainFriendSlice converts joined friend rows
func ToDomainFriendSlice(ms []models.Friend) []domain.Friend {
	ds := make([]domain.Friend, len(ms))
	for i, m := range ms {
		ds[i] = domain.Friend{
			FriendshipID: m.FriendshipID,
			UserID:       m.UserID,
			Email:        m.Email,
			DisplayName:  m.DisplayName,
			Since:        m.Since,
		}
	}
	return ds
}
