package respond

import (
	"errors"
	"net/http"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/httpclient"
	"storefront-gateway/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Error codes returned alongside the message.
const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeRequestInFlight    = "REQUEST_IN_FLIGHT"
	CodeBackendRejected    = "BACKEND_REJECTED"
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the user-facing error description.
	Message string `json:"message"`
	// Code distinguishes rule violations from transport failures.
	Code string `json:"code"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
	// Fields lists per-field validation messages.
	Fields map[string]string `json:"fields,omitempty"`
}

// RayID returns the request id set by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		return id
	}
	return "unknown"
}

// Error writes err as an ErrorResponse with the status its kind maps to.
// Session failures also clear the auth cookies, which logs the user out.
func Error(c *fiber.Ctx, err error) error {
	rayID := RayID(c)
	status, body := classify(err)
	body.RayID = rayID

	log := logger.ForRequest(rayID).With(
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Error(err),
	)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed")
	} else {
		log.Info("Request rejected", zap.String("code", body.Code))
	}

	if body.Code == CodeSessionExpired {
		c.ClearCookie("accessToken", "refreshToken")
	}

	return c.Status(status).JSON(body)
}

// FiberErrorHandler is installed as the app's ErrorHandler so errors
// returned by handlers and middleware use the same body.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	return Error(c, err)
}

func classify(err error) (int, ErrorResponse) {
	if ve, ok := apperror.AsValidation(err); ok {
		return http.StatusBadRequest, ErrorResponse{Message: ve.Error(), Code: CodeValidation, Fields: ve.Fields}
	}
	if de, ok := apperror.AsDomain(err); ok {
		return http.StatusUnprocessableEntity, ErrorResponse{Message: de.Message, Code: de.Code}
	}

	switch {
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized, ErrorResponse{Message: apperror.ErrUnauthorized.Error(), Code: CodeSessionExpired}
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden, ErrorResponse{Message: apperror.ErrForbidden.Error(), Code: CodeForbidden}
	case errors.Is(err, apperror.ErrRequestInFlight):
		return http.StatusConflict, ErrorResponse{Message: apperror.ErrRequestInFlight.Error(), Code: CodeRequestInFlight}
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound, ErrorResponse{Message: err.Error(), Code: CodeNotFound}
	}

	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode >= http.StatusInternalServerError {
			return http.StatusBadGateway, ErrorResponse{Message: apiErr.Message, Code: CodeBackendUnavailable}
		}
		code := CodeBackendRejected
		if apiErr.StatusCode == http.StatusNotFound {
			code = CodeNotFound
		}
		return apiErr.StatusCode, ErrorResponse{Message: apiErr.Message, Code: code}
	}

	if errors.Is(err, httpclient.ErrBackendUnavailable) {
		return http.StatusBadGateway, ErrorResponse{Message: "Service temporarily unavailable", Code: CodeBackendUnavailable}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := CodeInternal
		if fe.Code < http.StatusInternalServerError {
			code = CodeValidation
		}
		if fe.Code == http.StatusNotFound {
			code = CodeNotFound
		}
		return fe.Code, ErrorResponse{Message: fe.Message, Code: code}
	}

	return http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error", Code: CodeInternal}
}
