package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/httpclient"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRule = apperror.NewDomain("COUPON_LOCKED", "coupon already used")

func TestError_Mapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{"Validation", apperror.NewValidation("phone", "required"), http.StatusBadRequest, CodeValidation, "validation failed: phone: required"},
		{"Domain", fmt.Errorf("update: %w", errRule), http.StatusUnprocessableEntity, "COUPON_LOCKED", "coupon already used"},
		{"Unauthorized", apperror.ErrUnauthorized, http.StatusUnauthorized, CodeSessionExpired, apperror.ErrUnauthorized.Error()},
		{"BackendSessionGone", &httpclient.APIError{StatusCode: http.StatusGone, Message: "jwt expired"}, http.StatusUnauthorized, CodeSessionExpired, apperror.ErrUnauthorized.Error()},
		{"Forbidden", apperror.ErrForbidden, http.StatusForbidden, CodeForbidden, apperror.ErrForbidden.Error()},
		{"InFlight", fmt.Errorf("%w: order-submit:u1", apperror.ErrRequestInFlight), http.StatusConflict, CodeRequestInFlight, apperror.ErrRequestInFlight.Error()},
		{"NotFound", fmt.Errorf("banner: %w", apperror.ErrNotFound), http.StatusNotFound, CodeNotFound, "banner: not found"},
		{"BackendRejected", &httpclient.APIError{StatusCode: http.StatusConflict, Message: "Coupon code already exists"}, http.StatusConflict, CodeBackendRejected, "Coupon code already exists"},
		{"BackendNotFound", &httpclient.APIError{StatusCode: http.StatusNotFound, Message: "Order not found"}, http.StatusNotFound, CodeNotFound, "Order not found"},
		{"BackendServerError", &httpclient.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"}, http.StatusBadGateway, CodeBackendUnavailable, "boom"},
		{"Transport", fmt.Errorf("%w: dial tcp", httpclient.ErrBackendUnavailable), http.StatusBadGateway, CodeBackendUnavailable, "Service temporarily unavailable"},
		{"Fiber", fiber.NewError(http.StatusBadRequest, "Invalid request body"), http.StatusBadRequest, CodeValidation, "Invalid request body"},
		{"Unknown", errors.New("nil pointer"), http.StatusInternalServerError, CodeInternal, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(func(c *fiber.Ctx) error {
				c.Locals("requestid", "ray-1")
				return c.Next()
			})
			app.Get("/", func(c *fiber.Ctx) error { return Error(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body.Code)
			assert.Equal(t, tt.expectedMsg, body.Message)
			assert.Equal(t, "ray-1", body.RayID)
		})
	}
}

func TestError_SessionExpiredClearsCookies(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Error(c, apperror.ErrUnauthorized) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	cookies := strings.Join(resp.Header.Values("Set-Cookie"), "\n")
	assert.Contains(t, cookies, "accessToken=")
	assert.Contains(t, cookies, "refreshToken=")
}

func TestError_ValidationFields(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return Error(c, &apperror.ValidationError{Fields: map[string]string{"email": "Invalid email address."}})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Invalid email address.", body.Fields["email"])
	assert.Equal(t, "unknown", body.RayID)
}

func TestFiberErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return apperror.ErrForbidden })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
