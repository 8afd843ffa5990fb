// Package auth reads the backend-issued access token from the request and
// exposes the caller's session to handlers.
package auth

import (
	"fmt"
	"strings"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/logger"
	"storefront-gateway/internal/core/respond"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// Roles known to the backend.
const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
)

// Session cookies set by the backend on sign-in.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

const sessionKey = "session"

// Session is the authenticated caller.
type Session struct {
	// Token is the raw access token, forwarded to the backend.
	Token string
	// UserID is the backend user id.
	UserID string
	// Email is the account email.
	Email string
	// Role is ADMIN or CLIENT.
	Role string
	// Verified is set when the token signature was checked against the secret.
	Verified bool
}

// IsAdmin reports whether the session carries the admin role.
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

type claims struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator parses access tokens. With an empty secret tokens are only
// decoded: such sessions may reach routes that forward to the backend, but
// never the admin routes.
type Authenticator struct {
	secret []byte
	parser *jwt.Parser
}

// New creates an Authenticator.
func New(secret string) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Parse decodes token into a Session.
func (a *Authenticator) Parse(token string) (Session, error) {
	var c claims
	var err error

	if len(a.secret) == 0 {
		_, _, err = a.parser.ParseUnverified(token, &c)
		if err == nil {
			err = c.Valid()
		}
	} else {
		_, err = a.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
			return a.secret, nil
		})
	}
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", apperror.ErrUnauthorized, err)
	}

	userID := c.ID
	if userID == "" {
		userID = c.Subject
	}
	if userID == "" {
		return Session{}, fmt.Errorf("%w: token has no subject", apperror.ErrUnauthorized)
	}

	return Session{
		Token:    token,
		UserID:   userID,
		Email:    c.Email,
		Role:     strings.ToUpper(c.Role),
		Verified: len(a.secret) > 0,
	}, nil
}

// Middleware rejects requests without a valid session and stores the
// Session for FromCtx.
func (a *Authenticator) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return respond.Error(c, apperror.ErrUnauthorized)
		}

		session, err := a.Parse(token)
		if err != nil {
			logger.ForRequest(respond.RayID(c)).Debug("Rejected access token", zap.Error(err))
			return respond.Error(c, err)
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// RequireAdmin rejects sessions without the admin role. It must run after
// Middleware. A role claim from an unverified token is not trusted.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := FromCtx(c)
		if err != nil {
			return respond.Error(c, err)
		}
		if !session.Verified {
			logger.ForRequest(respond.RayID(c)).Warn("Admin route reached with an unverified token",
				zap.String("user_id", session.UserID))
			return respond.Error(c, fmt.Errorf("%w: unverified token", apperror.ErrUnauthorized))
		}
		if !session.IsAdmin() {
			return respond.Error(c, apperror.ErrForbidden)
		}
		return c.Next()
	}
}

// FromCtx returns the Session stored by Middleware.
func FromCtx(c *fiber.Ctx) (Session, error) {
	session, ok := c.Locals(sessionKey).(Session)
	if !ok {
		return Session{}, apperror.ErrUnauthorized
	}
	return session, nil
}

func extractToken(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.Trim(strings.TrimSpace(token), `"`)
		}
	}
	return strings.Trim(c.Cookies(AccessTokenCookie), `"`)
}
