package dto

import (
	"time"

	"github.com/fireflow/fireflow_backend/internal/core/domain"
)

// UpdateUserRequest defines the data allowed for updating a profile.
type UpdateUserRequest struct {
	DisplayName *string `json:"displayName" binding:"omitempty,max=100"`
}

// SearchUsersParams defines query parameters for finding a profile.
type SearchUsersParams struct {
	Email string `form:"email" binding:"required,email"`
}

// UserResponse defines the data returned for a profile.
type UserResponse struct {
	UserID      string    `json:"userID"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:      user.UserID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}
