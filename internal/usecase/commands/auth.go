package commands

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"storefront/internal/domain/user"
	"storefront/internal/infra"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/jwt"
	"storefront/internal/pkg/password"
	"storefront/internal/usecase/queries"
	"storefront/internal/usecase/shared"
)

var (
	ErrUserNotFound         = errs.New("user not found")
	ErrEmailAlreadyUsed     = errs.New("email already used")
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
)

type RegisterRequest struct {
	Email    string
	Password string
	Phone    string
}

type RegisterResult struct {
	UserID uuid.UUID
}

type LoginResult struct {
	UserID    uuid.UUID
	TokenPair *TokenPair
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthCommands interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error)
	Login(ctx context.Context, email, rawPassword string) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	email, err := user.NewEmail(req.Email)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	rawPassword, err := user.NewPassword(req.Password)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	phone, err := user.NewPhone(req.Phone)
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	hash, err := password.HashPassword(rawPassword.Value())
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	entity := user.NewUser(email, phone, hash, user.RoleCustomer)

	var createdID uuid.UUID
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, createErr := tx.Users().Create(ctx, tx.DB(), entity)
		if createErr != nil {
			if infra.IsKind(createErr, infra.KindDuplicateKey) {
				return ErrEmailAlreadyUsed
			}
			return createErr
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &RegisterResult{UserID: createdID}, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, email, rawPassword string) (*LoginResult, error) {
	userView, err := a.validateUser(ctx, email, rawPassword)
	if err != nil {
		return nil, err
	}

	role, err := user.NewRole(userView.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	tokenPair, err := a.issueTokens(userView.ID, role)
	if err != nil {
		return nil, err
	}

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if updateErr := tx.Users().UpdateLastLogin(ctx, tx.DB(), userView.ID); updateErr != nil {
			slog.Warn("failed to update last login", "user_id", userView.ID, "error", updateErr.Error())
		}
		return nil
	})
	if err != nil {
		// Login already succeeded; only the last_login bookkeeping failed.
		slog.Warn("transaction failed during login", "user_id", userView.ID, "error", err.Error())
	}

	return &LoginResult{
		UserID:    userView.ID,
		TokenPair: tokenPair,
	}, nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// Validate user still exists and is active
	userView, err := a.readStore.FindByID(ctx, claims.UserID)
	if err != nil || userView == nil {
		return nil, ErrUserNotFound
	}

	if !userView.IsActive {
		return nil, ErrUserInactive
	}

	return a.issueTokens(claims.UserID, role)
}

func (a *authCommandsImpl) issueTokens(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (a *authCommandsImpl) validateUser(ctx context.Context, email, rawPassword string) (*queries.AuthorizedUserView, error) {
	userView, hashedPassword, err := a.readStore.FindByEmail(ctx, email)
	if err != nil {
		// Return same error as password mismatch to prevent user enumeration attacks
		return nil, ErrInvalidCredentials
	}

	if userView == nil {
		return nil, ErrUserNotFound
	}

	if !userView.IsActive {
		return nil, ErrUserInactive
	}

	if err := password.ComparePassword(hashedPassword, rawPassword); err != nil {
		return nil, ErrInvalidCredentials
	}

	return userView, nil
}
