// Package upload reads and checks the images attached to multipart forms
// before they are forwarded to the backend.
package upload

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"storefront-gateway/internal/core/apperror"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// File is an uploaded file held in memory.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// FromForm reads the optional file field of a multipart request.
// A request without the field, or without a multipart body, yields nil.
func FromForm(c *fiber.Ctx, field string) (*File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return nil, nil
		}
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	return &File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// ValidateImage accepts jpg, jpeg and png images up to maxBytes (0 means no
// limit). The extension, the declared content type and the sniffed content
// must agree. A nil file is accepted; callers that need one check first.
// Failures are validation errors on field.
func ValidateImage(f *File, field string, maxBytes int64) error {
	if f == nil {
		return nil
	}

	if len(f.Data) == 0 {
		return apperror.NewValidation(field, "The image is empty.")
	}
	if maxBytes > 0 && int64(len(f.Data)) > maxBytes {
		return apperror.NewValidation(field, fmt.Sprintf("The image must be at most %d MB.", maxBytes/(1<<20)))
	}

	expected, ok := allowedImageTypes[strings.ToLower(filepath.Ext(f.Filename))]
	if !ok {
		return apperror.NewValidation(field, "Only jpg, jpeg and png images are accepted.")
	}

	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	if contentType != "" && contentType != expected {
		return apperror.NewValidation(field, "Only jpg, jpeg and png images are accepted.")
	}
	if !mimetype.Detect(f.Data).Is(expected) {
		return apperror.NewValidation(field, "The file is not a valid jpg or png image.")
	}
	return nil
}
