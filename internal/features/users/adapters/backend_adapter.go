package adapter

import (
	"context"
	"fmt"
	"net/http"

	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/features/users/domain"
)

// BackendAdapter implements ports.UserGateway against the commerce REST API.
type BackendAdapter struct {
	backend *httpclient.Backend
}

// NewBackendAdapter creates a new instance of BackendAdapter.
func NewBackendAdapter(backend *httpclient.Backend) *BackendAdapter {
	return &BackendAdapter{backend: backend}
}

// Register sends POST /v1/users/register.
func (a *BackendAdapter) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/v1/users/register",
		Body:   body,
	}, nil); err != nil {
		return fmt.Errorf("failed to register %s: %w", email, err)
	}
	return nil
}

// Verify sends PUT /v1/users/verify.
func (a *BackendAdapter) Verify(ctx context.Context, in domain.Verification) error {
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   "/v1/users/verify",
		Body:   in,
	}, nil); err != nil {
		return fmt.Errorf("failed to verify %s: %w", in.Email, err)
	}
	return nil
}

// Refresh calls GET /v1/users/refresh_token with the caller's cookies.
func (a *BackendAdapter) Refresh(ctx context.Context, cookie string) (*domain.Tokens, error) {
	var tokens domain.Tokens
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/users/refresh_token",
		Cookie: cookie,
	}, &tokens); err != nil {
		return nil, fmt.Errorf("failed to refresh session: %w", err)
	}
	return &tokens, nil
}

// Login sends POST /v1/users/login and keeps the session cookies it sets.
func (a *BackendAdapter) Login(ctx context.Context, in domain.Credentials) (*domain.SignIn, error) {
	var out domain.SignIn
	if err := a.backend.Do(ctx, httpclient.Request{
		Method:     http.MethodPost,
		Path:       "/v1/users/login",
		Body:       in,
		SetCookies: &out.Cookies,
	}, &out); err != nil {
		return nil, fmt.Errorf("failed to sign in %s: %w", in.Email, err)
	}
	return &out, nil
}

// Logout sends DELETE /v1/users/logout with the caller's cookies.
func (a *BackendAdapter) Logout(ctx context.Context, cookie string) error {
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/v1/users/logout",
		Cookie: cookie,
	}, nil); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// UpdateAccount sends PUT /v1/users/update, as JSON for a display name
// and as multipart for an avatar.
func (a *BackendAdapter) UpdateAccount(ctx context.Context, token string, in domain.AccountUpdate) (*domain.User, error) {
	req := httpclient.Request{
		Method: http.MethodPut,
		Path:   "/v1/users/update",
		Token:  token,
	}
	if in.Avatar != nil {
		req.Form = &httpclient.MultipartForm{File: &httpclient.FilePart{
			Field:       "avatar",
			Filename:    in.Avatar.Filename,
			ContentType: in.Avatar.ContentType,
			Data:        in.Avatar.Data,
		}}
	} else {
		req.Body = map[string]string{"displayName": in.DisplayName}
	}

	var user domain.User
	if err := a.backend.Do(ctx, req, &user); err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return &user, nil
}

// List fetches GET /v1/users.
func (a *BackendAdapter) List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.User], error) {
	var page pagination.Page[domain.User]
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/v1/users",
		Query:  q.Values(),
		Token:  token,
	}, &page); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &page, nil
}

// UpdateStatus sends PATCH /v1/users/:id/status.
func (a *BackendAdapter) UpdateStatus(ctx context.Context, token, userID string, change domain.StatusChange) (*domain.User, error) {
	var user domain.User
	if err := a.backend.Do(ctx, httpclient.Request{
		Method: http.MethodPatch,
		Path:   httpclient.Pathf("/v1/users/%s/status", userID),
		Token:  token,
		Body:   change,
	}, &user); err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return &user, nil
}
