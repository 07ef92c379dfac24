package response

import (
	"github.com/google/uuid"

	"storefront/internal/usecase/queries"
)

type RegisterResponse struct {
	UserID uuid.UUID `json:"user_id"`
}

type LoginResponse struct {
	User *queries.AuthorizedUserView `json:"user"`
}
