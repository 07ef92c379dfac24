//go:build unit || e2e

package builder

import (
	"storefront/internal/domain/user"
	"storefront/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserBuilder struct {
	Email        string
	Phone        string
	PasswordHash string
	Role         string
	IsActive     bool
}

func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		Email:        "test@example.com",
		Phone:        "+15550100",
		PasswordHash: "hashed_password",
		Role:         "customer",
		IsActive:     true,
	}
}

func (u *UserBuilder) BuildDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, err
	}

	phone, err := user.NewPhone(u.Phone)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, err
	}

	return user.NewUser(email, phone, u.PasswordHash, role), nil
}

func (u *UserBuilder) BuildReadModel() *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:       uuid.New(),
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

func (u *UserBuilder) WithEmail(email string) *UserBuilder {
	u.Email = email
	return u
}

func (u *UserBuilder) WithRole(role string) *UserBuilder {
	u.Role = role
	return u
}

func (u *UserBuilder) AsAdmin() *UserBuilder {
	u.Role = "admin"
	return u
}

func (u *UserBuilder) AsInactive() *UserBuilder {
	u.IsActive = false
	return u
}
