package avatar

import (
	"fmt"
	"strings"

	"avatard/internal/structures"
)

const (
	DefaultMinImageBytes = 100
	DefaultMaxImageBytes = 5 * 1000 * 1000
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg":    {},
	"image/jpg":     {},
	"image/png":     {},
	"image/gif":     {},
	"image/webp":    {},
	"image/bmp":     {},
	"image/svg+xml": {},
}

// Validator checks candidate images against size and content type bounds.
// It never inspects pixel data.
type Validator struct {
	minBytes int
	maxBytes int
}

func NewValidator(conf *structures.Config) *Validator {
	minBytes := conf.Validation.MinBytes
	if minBytes <= 0 {
		minBytes = DefaultMinImageBytes
	}
	maxBytes := conf.Validation.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &Validator{minBytes: minBytes, maxBytes: maxBytes}
}

// Validate returns nil when the payload is acceptable, or a reason error
// wrapping ErrValidationRejected otherwise.
func (v *Validator) Validate(data []byte, contentType string) error {
	if len(data) < v.minBytes {
		return fmt.Errorf("%w: %d bytes below minimum %d", ErrValidationRejected, len(data), v.minBytes)
	}
	if len(data) > v.maxBytes {
		return fmt.Errorf("%w: %d bytes above maximum %d", ErrValidationRejected, len(data), v.maxBytes)
	}
	ct := normalizeContentType(contentType)
	if _, ok := allowedContentTypes[ct]; !ok {
		return fmt.Errorf("%w: unsupported content type %q", ErrValidationRejected, contentType)
	}
	return nil
}

// normalizeContentType strips parameters like "; charset=utf-8" and lowers
// the media type.
func normalizeContentType(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
