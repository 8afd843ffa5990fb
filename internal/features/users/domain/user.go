package domain

import (
	"net/http"
	"strings"
	"time"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/upload"
)

// Role is the account role assigned by the backend.
type Role string

const (
	// RoleAdmin can use the back-office.
	RoleAdmin Role = "ADMIN"
	// RoleClient is a storefront customer.
	RoleClient Role = "CLIENT"
)

// ErrSelfModification is returned when an admin edits their own role or status.
var ErrSelfModification = apperror.NewDomain("SELF_MODIFICATION", "You cannot change your own role or status.")

// ParseRole accepts any letter case and surrounding spaces.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r == RoleAdmin || r == RoleClient
}

// User is an account as listed in the admin user table.
type User struct {
	ID          string    `json:"_id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar,omitempty"`
	Role        Role      `json:"role"`
	IsActive    *bool     `json:"isActive,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Active reports whether the account is enabled. Accounts without the flag are active.
func (u User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}

// Name is the label shown for the user.
func (u User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// Registration is the sign-up form. Only Email and Password reach the backend.
type Registration struct {
	Email                string `json:"email" validate:"required,storefront_email"`
	Password             string `json:"password" validate:"required,storefront_password"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

// Verification confirms an account from the emailed link.
type Verification struct {
	Email string `json:"email" validate:"required,storefront_email"`
	Token string `json:"token" validate:"required"`
}

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `json:"email" validate:"required,storefront_email"`
	Password string `json:"password" validate:"required"`
}

// SignIn is the backend's answer to a sign-in: the account plus the
// session tokens, either in the body or as cookies.
type SignIn struct {
	User
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`

	// Cookies are the Set-Cookie values of the backend answer.
	Cookies []*http.Cookie `json:"-"`
}

// SessionCookies returns the cookies to set on the caller. The backend's
// own cookies win; tokens found only in the body are turned into cookies.
func (s SignIn) SessionCookies() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(s.Cookies)+2)
	seen := make(map[string]bool, len(s.Cookies))
	for _, c := range s.Cookies {
		out = append(out, c)
		seen[c.Name] = true
	}

	fromBody := []struct{ name, value string }{
		{"accessToken", s.AccessToken},
		{"refreshToken", s.RefreshToken},
	}
	for _, t := range fromBody {
		if t.value != "" && !seen[t.name] {
			out = append(out, &http.Cookie{Name: t.name, Value: t.value, Path: "/", HttpOnly: true})
		}
	}
	return out
}

// AccountUpdate is the profile form: a new display name, or a new avatar.
type AccountUpdate struct {
	DisplayName string       `json:"displayName,omitempty"`
	Avatar      *upload.File `json:"-"`
}

// Validate requires exactly one of the fields, the way the profile page
// sends them.
func (u AccountUpdate) Validate() error {
	name := strings.TrimSpace(u.DisplayName)
	switch {
	case name == "" && u.Avatar == nil:
		return apperror.NewValidation("displayName", "Nothing to change.")
	case name != "" && u.Avatar != nil:
		return apperror.NewValidation("avatar", "Change either the display name or the avatar, not both.")
	case u.Avatar == nil && len([]rune(name)) > 50:
		return apperror.NewValidation("displayName", "Must be at most 50 characters.")
	}
	return nil
}

// Tokens is the refresh-token answer.
type Tokens struct {
	AccessToken string `json:"accessToken"`
}

// StatusChange is one admin edit of an account. Exactly one of the fields is set.
type StatusChange struct {
	IsActive *bool `json:"isActive,omitempty"`
	Role     Role  `json:"role,omitempty"`
}

// Validate checks the change before it is sent. actorID is the admin making it.
func (c StatusChange) Validate(actorID, targetID string) error {
	if actorID != "" && actorID == targetID {
		return ErrSelfModification
	}

	switch {
	case c.IsActive != nil && c.Role != "":
		return apperror.NewValidation("role", "Change either the role or the status, not both.")
	case c.IsActive == nil && c.Role == "":
		return apperror.NewValidation("role", "Nothing to change.")
	case c.Role != "":
		if _, ok := ParseRole(string(c.Role)); !ok {
			return apperror.NewValidation("role", "Must be one of: ADMIN CLIENT.")
		}
	}
	return nil
}
