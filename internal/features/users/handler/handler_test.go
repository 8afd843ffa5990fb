package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/textproto"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/core/upload"
	"storefront-gateway/internal/features/users/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService is a mock implementation of ports.UserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, in domain.Registration) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockUserService) Verify(ctx context.Context, in domain.Verification) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockUserService) Refresh(ctx context.Context, cookie string) (*domain.Tokens, error) {
	args := m.Called(ctx, cookie)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tokens), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, in domain.Credentials) (*domain.SignIn, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignIn), args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, cookie string) error {
	return m.Called(ctx, cookie).Error(0)
}

func (m *MockUserService) UpdateAccount(ctx context.Context, token, userID string, in domain.AccountUpdate) (*domain.User, error) {
	args := m.Called(ctx, token, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, token string, q pagination.ListQuery) (*pagination.Page[domain.User], error) {
	args := m.Called(ctx, token, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagination.Page[domain.User]), args.Error(1)
}

func (m *MockUserService) ChangeStatus(ctx context.Context, token, actorID, userID string, change domain.StatusChange) (*domain.User, error) {
	args := m.Called(ctx, token, actorID, userID, change)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func token(id, role string) string {
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"_id": id, "role": role, "email": id + "@example.com"}).SignedString([]byte("s"))
	return signed
}

var (
	adminToken  = token("admin", "ADMIN")
	clientToken = token("u1", "CLIENT")
)

func setupApp(service *MockUserService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: respond.FiberErrorHandler})
	h := NewUserHandler(service)
	authn := auth.New("s")

	api := app.Group("/api")
	api.Post("/auth/register", h.Register)
	api.Put("/auth/verify", h.Verify)
	api.Get("/auth/refresh_token", h.Refresh)
	api.Post("/auth/login", h.Login)
	api.Delete("/auth/logout", h.Logout)
	api.Get("/auth/me", authn.Middleware(), h.Me)
	api.Put("/auth/account", authn.Middleware(), h.UpdateAccount)

	admin := api.Group("/admin", authn.Middleware(), auth.RequireAdmin())
	admin.Get("/users", h.List)
	admin.Patch("/users/:id/status", h.ChangeStatus)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, bearer, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestUserHandler_Register(t *testing.T) {
	t.Run("Created", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		in := domain.Registration{Email: "an@example.com", Password: "secret123", PasswordConfirmation: "secret123"}
		svc.On("Register", mock.Anything, in).Return(nil).Once()

		resp := do(t, app, "POST", "/api/auth/register", "", `{"email": "an@example.com", "password": "secret123", "passwordConfirmation": "secret123"}`)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("WeakPassword", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		svc.On("Register", mock.Anything, mock.Anything).Return(apperror.NewValidation("password", "weak")).Once()

		resp := do(t, app, "POST", "/api/auth/register", "", `{"email": "an@example.com", "password": "short"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp respond.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, respond.CodeValidation, errResp.Code)
		assert.Contains(t, errResp.Fields, "password")
	})
}

func TestUserHandler_Refresh(t *testing.T) {
	svc := new(MockUserService)
	app := setupApp(svc)

	svc.On("Refresh", mock.Anything, "refreshToken=r1").Return(&domain.Tokens{AccessToken: "a2"}, nil).Once()

	req := httptest.NewRequest("GET", "/api/auth/refresh_token", nil)
	req.Header.Set("Cookie", "refreshToken=r1")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == auth.AccessTokenCookie {
			found = true
			assert.Equal(t, "a2", c.Value)
			assert.True(t, c.HttpOnly)
		}
	}
	assert.True(t, found)
}

func TestUserHandler_Me(t *testing.T) {
	app := setupApp(new(MockUserService))

	resp := do(t, app, "GET", "/api/auth/me", clientToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var me SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, SessionResponse{UserID: "u1", Email: "u1@example.com", Role: "CLIENT"}, me)

	resp = do(t, app, "GET", "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserHandler_List(t *testing.T) {
	svc := new(MockUserService)
	app := setupApp(svc)

	off := false
	svc.On("List", mock.Anything, adminToken, pagination.ListQuery{Page: 1, Limit: pagination.DefaultLimit, IsActive: &off}).
		Return(&pagination.Page[domain.User]{Items: []domain.User{{ID: "u2", IsActive: &off}}}, nil).Once()

	resp := do(t, app, "GET", "/api/admin/users?isActive=false", adminToken, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	svc.AssertExpectations(t)

	resp = do(t, app, "GET", "/api/admin/users", clientToken, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUserHandler_ChangeStatus(t *testing.T) {
	t.Run("Promote", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		svc.On("ChangeStatus", mock.Anything, adminToken, "admin", "u2", domain.StatusChange{Role: domain.RoleAdmin}).
			Return(&domain.User{ID: "u2", Role: domain.RoleAdmin}, nil).Once()

		resp := do(t, app, "PATCH", "/api/admin/users/u2/status", adminToken, `{"role": "ADMIN"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("Self", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		svc.On("ChangeStatus", mock.Anything, adminToken, "admin", "admin", mock.Anything).Return(nil, domain.ErrSelfModification).Once()

		resp := do(t, app, "PATCH", "/api/admin/users/admin/status", adminToken, `{"isActive": false}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

		var errResp respond.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, "SELF_MODIFICATION", errResp.Code)
	})
}

func cookiesByName(resp *http.Response) map[string]*http.Cookie {
	out := make(map[string]*http.Cookie)
	for _, c := range resp.Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestUserHandler_Login(t *testing.T) {
	t.Run("RelaysSessionCookies", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		svc.On("Login", mock.Anything, domain.Credentials{Email: "an@example.com", Password: "secret123"}).
			Return(&domain.SignIn{
				User:         domain.User{ID: "u1", Email: "an@example.com", Role: domain.RoleClient},
				AccessToken:  "a1",
				RefreshToken: "r1",
				Cookies:      []*http.Cookie{{Name: "accessToken", Value: "a1", MaxAge: 3600}},
			}, nil).Once()

		resp := do(t, app, "POST", "/api/auth/login", "", `{"email": "an@example.com", "password": "secret123"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		cookies := cookiesByName(resp)
		require.Contains(t, cookies, "accessToken")
		require.Contains(t, cookies, "refreshToken")
		assert.Equal(t, "a1", cookies["accessToken"].Value)
		assert.Equal(t, 3600, cookies["accessToken"].MaxAge)
		assert.Equal(t, "r1", cookies["refreshToken"].Value)
		assert.True(t, cookies["accessToken"].HttpOnly)
		assert.True(t, cookies["refreshToken"].HttpOnly)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "u1", body["_id"])
		assert.NotContains(t, body, "accessToken")
		assert.NotContains(t, body, "refreshToken")
		svc.AssertExpectations(t)
	})

	t.Run("Rejected", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		svc.On("Login", mock.Anything, mock.Anything).Return(nil, apperror.NewValidation("password", "Required.")).Once()

		resp := do(t, app, "POST", "/api/auth/login", "", `{"email": "an@example.com"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, resp.Cookies())
	})
}

func TestUserHandler_Logout(t *testing.T) {
	t.Run("ClearsCookies", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		svc.On("Logout", mock.Anything, "accessToken=a1; refreshToken=r1").Return(nil).Once()

		req := httptest.NewRequest("DELETE", "/api/auth/logout", nil)
		req.Header.Set("Cookie", "accessToken=a1; refreshToken=r1")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		cookies := cookiesByName(resp)
		for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
			require.Contains(t, cookies, name)
			assert.Empty(t, cookies[name].Value)
		}
		svc.AssertExpectations(t)
	})

	t.Run("BackendDownStillClears", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		svc.On("Logout", mock.Anything, mock.Anything).Return(httpclient.ErrBackendUnavailable).Once()

		resp := do(t, app, "DELETE", "/api/auth/logout", "", "")
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		assert.Contains(t, cookiesByName(resp), auth.AccessTokenCookie)
	})
}

func TestUserHandler_UpdateAccount(t *testing.T) {
	t.Run("DisplayName", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		svc.On("UpdateAccount", mock.Anything, clientToken, "u1", domain.AccountUpdate{DisplayName: "An"}).
			Return(&domain.User{ID: "u1", DisplayName: "An"}, nil).Once()

		resp := do(t, app, "PUT", "/api/auth/account", clientToken, `{"displayName": "An"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("Avatar", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		png := []byte("\x89PNG\r\n\x1a\n")
		svc.On("UpdateAccount", mock.Anything, clientToken, "u1", domain.AccountUpdate{
			Avatar: &upload.File{Filename: "me.png", ContentType: "image/png", Data: png},
		}).Return(&domain.User{ID: "u1", Avatar: "https://cdn.example.com/me.png"}, nil).Once()

		body := &bytes.Buffer{}
		w := multipart.NewWriter(body)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="avatar"; filename="me.png"`)
		h.Set("Content-Type", "image/png")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(png)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest("PUT", "/api/auth/account", body)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+clientToken)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		svc.AssertExpectations(t)
	})

	t.Run("SignedOut", func(t *testing.T) {
		svc := new(MockUserService)
		app := setupApp(svc)

		resp := do(t, app, "PUT", "/api/auth/account", "", `{"displayName": "An"}`)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		svc.AssertNotCalled(t, "UpdateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
