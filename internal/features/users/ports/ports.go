package ports

import (
	"context"

	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/features/users/domain"
)

// UserService defines the primary port for account flows and user administration.
type UserService interface {
	Register(ctx context.Context, in domain.Registration) error
	Verify(ctx context.Context, in domain.Verification) error
	Refresh(ctx context.Context, cookie string) (*domain.Tokens, error)
	Login(ctx context.Context, in domain.Credentials) (*domain.SignIn, error)
	Logout(ctx context.Context, cookie string) error
	UpdateAccount(ctx context.Context, token, userID string, in domain.AccountUpdate) (*domain.User, error)
	List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.User], error)
	ChangeStatus(ctx context.Context, token, actorID, userID string, change domain.StatusChange) (*domain.User, error)
}

// UserGateway defines the secondary port to the backend user endpoints.
type UserGateway interface {
	Register(ctx context.Context, email, password string) error
	Verify(ctx context.Context, in domain.Verification) error
	Refresh(ctx context.Context, cookie string) (*domain.Tokens, error)
	Login(ctx context.Context, in domain.Credentials) (*domain.SignIn, error)
	Logout(ctx context.Context, cookie string) error
	UpdateAccount(ctx context.Context, token string, in domain.AccountUpdate) (*domain.User, error)
	List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.User], error)
	UpdateStatus(ctx context.Context, token, userID string, change domain.StatusChange) (*domain.User, error)
}
