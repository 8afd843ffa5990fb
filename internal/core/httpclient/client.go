package httpclient

import (
	"net/http"
	"time"

	"storefront-gateway/internal/core/logger"

	"go.uber.org/zap"
)

// RayIDHeader carries the request id from the gateway to the backend.
const RayIDHeader = "X-Ray-ID"

// LoggingRoundTripper propagates the ray id and logs every backend call.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	rayID := logger.RayID(req.Context())
	if rayID != "" && req.Header.Get(RayIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(RayIDHeader, rayID)
	}

	log := logger.Ctx(req.Context()).With(
		zap.String("method", req.Method),
		zap.String("host", req.URL.Host),
		zap.String("path", req.URL.Path),
	)
	log.Debug("Backend request started")

	resp, err := lrt.Proxied.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		log.Error("Backend request failed", zap.Duration("duration", duration), zap.Error(err))
		return nil, err
	}

	log.Debug("Backend request completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: http.DefaultTransport,
		},
		Timeout: timeout,
	}
}
