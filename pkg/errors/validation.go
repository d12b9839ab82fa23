package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidatePath validates a user-supplied file path (graph input, layout or
// SVG output).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateFormat checks that path has one of the given extensions and returns
// the lower-cased extension without the leading dot.
func ValidateFormat(path string, allowed ...string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", New(ErrCodeInvalidFormat, "cannot determine format of %q: missing file extension", path)
	}
	for _, a := range allowed {
		if ext == a {
			return ext, nil
		}
	}
	return "", New(ErrCodeInvalidFormat, "unsupported format %q (expected one of %s)", ext, strings.Join(allowed, ", "))
}

// ValidateFinite rejects NaN and infinite values. name identifies the value
// in the error message.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	return nil
}
