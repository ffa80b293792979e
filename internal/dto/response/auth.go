package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Email     string          `json:"email"`
	Username  string          `json:"username"`
	Role      entity.UserRole `json:"role"`
}

type UserResponse struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Phone          *string         `json:"phone,omitempty"`
	Role           entity.UserRole `json:"role"`
	RegularStudent bool            `json:"regular_student"`
	CreatedAt      time.Time       `json:"created_at"`
}

func UserToResponse(user *entity.User) *UserResponse {
	return &UserResponse{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		Phone:          user.Phone,
		Role:           user.Role,
		RegularStudent: user.RegularStudent,
		CreatedAt:      user.CreatedAt,
	}
}
