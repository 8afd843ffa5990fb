package service

import (
	"context"
	"errors"
	"strings"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/inflight"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/core/upload"
	"storefront-gateway/internal/core/validation"
	"storefront-gateway/internal/features/users/domain"
	"storefront-gateway/internal/features/users/ports"

	"go.uber.org/zap"
)

// UserService validates account forms and guards admin edits.
type UserService struct {
	gateway   ports.UserGateway
	locker    inflight.Locker
	maxUpload int64
}

// NewUserService creates a new UserService. maxUpload bounds avatar size.
func NewUserService(gateway ports.UserGateway, locker inflight.Locker, maxUpload int64) *UserService {
	return &UserService{gateway: gateway, locker: locker, maxUpload: maxUpload}
}

// Register signs a new customer up. The backend emails a verification link.
func (s *UserService) Register(ctx context.Context, in domain.Registration) error {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return err
	}

	release, err := s.locker.Acquire(ctx, "register:"+strings.ToLower(in.Email))
	if err != nil {
		return err
	}
	defer release()

	if err := s.gateway.Register(ctx, in.Email, in.Password); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("Account registered", zap.String("email", in.Email))
	return nil
}

// Verify activates an account.
func (s *UserService) Verify(ctx context.Context, in domain.Verification) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	return s.gateway.Verify(ctx, in)
}

// Refresh trades the refresh-token cookie for a new access token.
func (s *UserService) Refresh(ctx context.Context, cookie string) (*domain.Tokens, error) {
	if strings.TrimSpace(cookie) == "" {
		return nil, apperror.ErrUnauthorized
	}
	return s.gateway.Refresh(ctx, cookie)
}

// Login signs a customer or admin in. Repeated submits of the same
// email are refused while one is in flight.
func (s *UserService) Login(ctx context.Context, in domain.Credentials) (*domain.SignIn, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "login:"+strings.ToLower(in.Email))
	if err != nil {
		return nil, err
	}
	defer release()

	out, err := s.gateway.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("Signed in", zap.String("user_id", out.ID), zap.String("role", string(out.Role)))
	return out, nil
}

// Logout ends the backend session named by the caller's cookies. The
// caller is signed out either way, so a session the backend no longer
// knows is not an error.
func (s *UserService) Logout(ctx context.Context, cookie string) error {
	if strings.TrimSpace(cookie) == "" {
		return nil
	}

	err := s.gateway.Logout(ctx, cookie)
	if errors.Is(err, apperror.ErrUnauthorized) {
		logger.Ctx(ctx).Info("Sign-out of an expired session", zap.Error(err))
		return nil
	}
	return err
}

// UpdateAccount changes the caller's display name or avatar. The avatar
// follows the same image rules as catalog uploads.
func (s *UserService) UpdateAccount(ctx context.Context, token, userID string, in domain.AccountUpdate) (*domain.User, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if err := upload.ValidateImage(in.Avatar, "avatar", s.maxUpload); err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, "account-update:"+userID)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.gateway.UpdateAccount(ctx, token, in)
	if err != nil {
		return nil, err
	}
	logger.Ctx(ctx).Info("Account updated", zap.String("user_id", userID), zap.Bool("avatar", in.Avatar != nil))
	return user, nil
}

// List returns one page of accounts.
func (s *UserService) List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.User], error) {
	return s.gateway.List(ctx, token, q.Normalize())
}

// ChangeStatus blocks, unblocks or re-roles an account other than the actor's own.
func (s *UserService) ChangeStatus(ctx context.Context, token, actorID, userID string, change domain.StatusChange) (*domain.User, error) {
	if err := change.Validate(actorID, userID); err != nil {
		return nil, err
	}
	if change.Role != "" {
		change.Role, _ = domain.ParseRole(string(change.Role))
	}

	release, err := s.locker.Acquire(ctx, "user-status:"+userID)
	if err != nil {
		return nil, err
	}
	defer release()

	user, err := s.gateway.UpdateStatus(ctx, token, userID, change)
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.String("user_id", userID), zap.String("actor_id", actorID)}
	if change.Role != "" {
		fields = append(fields, zap.String("role", string(change.Role)))
	}
	if change.IsActive != nil {
		fields = append(fields, zap.Bool("is_active", *change.IsActive))
	}
	logger.Ctx(ctx).Info("User status changed", fields...)
	return user, nil
}
