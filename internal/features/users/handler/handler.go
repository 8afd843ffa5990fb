package handler

import (
	"net/http"
	"strings"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/auth"
	"storefront-gateway/internal/core/pagination"
	"storefront-gateway/internal/core/respond"
	"storefront-gateway/internal/core/upload"
	"storefront-gateway/internal/features/users/domain"
	"storefront-gateway/internal/features/users/ports"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves the sign-up flow and the admin user table.
type UserHandler struct {
	service ports.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// SessionResponse describes the signed-in caller.
type SessionResponse struct {
	UserID string `json:"_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
}

// Register creates an account.
// @Summary Register
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body domain.Registration true "Sign-up form"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/auth/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req domain.Registration
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	if err := h.service.Register(c.UserContext(), req); err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusCreated).JSON(MessageResponse{
		Message: "Account created. Please check your email and verify your account before signing in.",
	})
}

// Verify activates an account from the emailed link.
// @Summary Verify account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body domain.Verification true "Email and token"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/auth/verify [put]
func (h *UserHandler) Verify(c *fiber.Ctx) error {
	var req domain.Verification
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	if err := h.service.Verify(c.UserContext(), req); err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(MessageResponse{Message: "Account verified. You can now sign in."})
}

// Refresh renews the access token cookie from the refresh token cookie.
// @Summary Refresh session
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.Tokens
// @Failure 401 {object} respond.ErrorResponse
// @Router /api/auth/refresh_token [get]
func (h *UserHandler) Refresh(c *fiber.Ctx) error {
	tokens, err := h.service.Refresh(c.UserContext(), c.Get(fiber.HeaderCookie))
	if err != nil {
		return respond.Error(c, err)
	}

	if tokens.AccessToken != "" {
		c.Cookie(&fiber.Cookie{
			Name:     auth.AccessTokenCookie,
			Value:    tokens.AccessToken,
			Path:     "/",
			HTTPOnly: true,
			Secure:   c.Protocol() == "https",
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return c.Status(http.StatusOK).JSON(tokens)
}

// Login signs in and sets the session cookies.
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body domain.Credentials true "Email and password"
// @Success 200 {object} domain.User
// @Failure 400 {object} respond.ErrorResponse
// @Failure 406 {object} respond.ErrorResponse
// @Router /api/auth/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req domain.Credentials
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	out, err := h.service.Login(c.UserContext(), req)
	if err != nil {
		return respond.Error(c, err)
	}

	for _, ck := range out.SessionCookies() {
		setSessionCookie(c, ck)
	}
	return c.Status(http.StatusOK).JSON(out.User)
}

// Logout ends the session and clears the session cookies.
// @Summary Sign out
// @Tags Auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/auth/logout [delete]
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	err := h.service.Logout(c.UserContext(), c.Get(fiber.HeaderCookie))
	c.ClearCookie(auth.AccessTokenCookie, auth.RefreshTokenCookie)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(MessageResponse{Message: "Signed out."})
}

// UpdateAccount changes the caller's display name (JSON) or avatar (multipart).
// @Summary Update account
// @Tags Auth
// @Accept json,mpfd
// @Produce json
// @Param displayName formData string false "New display name"
// @Param avatar formData file false "jpg, jpeg or png"
// @Success 200 {object} domain.User
// @Failure 400 {object} respond.ErrorResponse
// @Router /api/auth/account [put]
func (h *UserHandler) UpdateAccount(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	var req domain.AccountUpdate
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		req.DisplayName = c.FormValue("displayName")
		avatar, err := upload.FromForm(c, "avatar")
		if err != nil {
			return respond.Error(c, apperror.NewValidation("avatar", "Could not read the uploaded image."))
		}
		req.Avatar = avatar
	} else if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	user, err := h.service.UpdateAccount(c.UserContext(), session.Token, session.UserID, req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(user)
}

// setSessionCookie relays a backend session cookie under the gateway's own
// host, always HttpOnly.
func setSessionCookie(c *fiber.Ctx, ck *http.Cookie) {
	path := ck.Path
	if path == "" {
		path = "/"
	}
	c.Cookie(&fiber.Cookie{
		Name:     ck.Name,
		Value:    ck.Value,
		Path:     path,
		MaxAge:   ck.MaxAge,
		Expires:  ck.Expires,
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// Me returns the caller's session.
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 401 {object} respond.ErrorResponse
// @Router /api/auth/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(SessionResponse{UserID: session.UserID, Email: session.Email, Role: session.Role})
}

// List returns one page of accounts.
// @Summary List users (admin)
// @Tags Admin
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param role query string false "ADMIN or CLIENT"
// @Param isActive query bool false "Account status"
// @Param keyword query string false "Name or email search"
// @Success 200 {object} pagination.Page[domain.User]
// @Router /api/admin/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	page, err := h.service.List(c.UserContext(), session.Token, pagination.FromRequest(c))
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(page)
}

// ChangeStatus blocks, unblocks or re-roles an account.
// @Summary Change user status (admin)
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param body body domain.StatusChange true "Either isActive or role"
// @Success 200 {object} domain.User
// @Failure 400 {object} respond.ErrorResponse
// @Failure 422 {object} respond.ErrorResponse
// @Router /api/admin/users/{id}/status [patch]
func (h *UserHandler) ChangeStatus(c *fiber.Ctx) error {
	session, err := auth.FromCtx(c)
	if err != nil {
		return respond.Error(c, err)
	}

	var req domain.StatusChange
	if err := c.BodyParser(&req); err != nil {
		return respond.Error(c, apperror.NewValidation("body", "Invalid request body."))
	}

	user, err := h.service.ChangeStatus(c.UserContext(), session.Token, session.UserID, c.Params("id"), req)
	if err != nil {
		return respond.Error(c, err)
	}
	return c.Status(http.StatusOK).JSON(user)
}
