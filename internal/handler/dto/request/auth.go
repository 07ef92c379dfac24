package request

import (
	"storefront/internal/domain/user"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r LoginRequest) ToDomain() (user.Credentials, error) {
	return user.NewCredentials(r.Email, r.Password)
}
