//go:build unit || e2e

package builder

import (
	reqdto "storefront/internal/handler/dto/request"
)

type AuthBuilder struct {
	Email    string
	Password string
	Phone    string
}

func NewAuthBuilder() *AuthBuilder {
	return &AuthBuilder{
		Email:    "test@example.com",
		Password: "password123",
		Phone:    "+15550100",
	}
}

func (a *AuthBuilder) BuildLoginDTO() reqdto.LoginRequest {
	return reqdto.LoginRequest{
		Email:    a.Email,
		Password: a.Password,
	}
}

func (a *AuthBuilder) BuildRegisterDTO() reqdto.RegisterRequest {
	return reqdto.RegisterRequest{
		Email:    a.Email,
		Password: a.Password,
		Phone:    a.Phone,
	}
}
