package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"storefront-gateway/internal/core/apperror"
	"storefront-gateway/internal/core/config"
)

// ErrBackendUnavailable is returned when the backend cannot be reached or answers with a 5xx.
var ErrBackendUnavailable = errors.New("backend unavailable")

// APIError is a non-2xx answer from the backend. Message is the backend's
// own "message" field and is shown to the user verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match session failures (401, and 410 for an expired
// access token) against apperror.ErrUnauthorized, and 5xx answers
// against ErrBackendUnavailable.
func (e *APIError) Is(target error) bool {
	switch target {
	case apperror.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusGone
	case ErrBackendUnavailable:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// Request describes one call to the backend.
type Request struct {
	// Method is the HTTP method.
	Method string
	// Path is relative to the API root, e.g. "/v1/orders/me".
	Path string
	// Query is appended to the URL when not empty.
	Query url.Values
	// Token is forwarded as a bearer token when set.
	Token string
	// Cookie is forwarded verbatim when set (refresh-token flow).
	Cookie string
	// Body is encoded as JSON when set.
	Body any
	// Form is sent as multipart/form-data when set. Body is ignored.
	Form *MultipartForm
	// SetCookies receives the cookies of a successful response when set.
	SetCookies *[]*http.Cookie
}

// MultipartForm is a multipart body with plain fields and at most one file.
type MultipartForm struct {
	Fields map[string]string
	File   *FilePart
}

// FilePart is a file attached to a multipart body.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Backend is a JSON client for the commerce REST API.
type Backend struct {
	baseURL string
	client  *http.Client
}

// NewBackend creates a Backend with the logging transport.
func NewBackend(cfg config.BackendConfig) *Backend {
	return &Backend{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		client:  NewClient(cfg.Timeout),
	}
}

// Pathf builds a request path, escaping every argument as a path segment.
func Pathf(format string, segments ...string) string {
	args := make([]any, len(segments))
	for i, s := range segments {
		args[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, args...)
}

// Do executes r and decodes the response into out, unwrapping a top-level
// "data" envelope when the backend uses one. out may be nil.
func (b *Backend) Do(ctx context.Context, r Request, out any) error {
	req, err := b.newRequest(ctx, r)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBackendUnavailable, r.Method, r.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrBackendUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}

	if r.SetCookies != nil {
		*r.SetCookies = resp.Cookies()
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	if err := json.Unmarshal(unwrapData(raw), out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", r.Method, r.Path, err)
	}
	return nil
}

// Ping checks that the backend answers the public category listing.
func (b *Backend) Ping(ctx context.Context) error {
	if err := b.Do(ctx, Request{Method: http.MethodGet, Path: "/v1/categories"}, nil); err != nil {
		return fmt.Errorf("backend health check failed: %w", err)
	}
	return nil
}

func (b *Backend) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	target := b.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)

	switch {
	case r.Form != nil:
		buf, ct, err := encodeMultipart(r.Form)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case r.Body != nil:
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}
	if r.Cookie != "" {
		req.Header.Set("Cookie", r.Cookie)
	}
	return req, nil
}

func encodeMultipart(form *MultipartForm) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if f := form.File; f != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		h.Set("Content-Type", f.ContentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func unwrapData(raw []byte) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return raw
	}
	if data, ok := envelope["data"]; ok && len(data) > 0 && string(data) != "null" {
		return data
	}
	return raw
}

func errorMessage(status int, raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return http.StatusText(status)
}
