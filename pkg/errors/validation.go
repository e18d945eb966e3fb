package errors

import (
	"math"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

// identifierRegex matches diagram ids and names accepted by the API.
var identifierRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateIdentifier checks a diagram id or name: 1-128 characters of
// letters, digits, dot, dash and underscore, not starting with punctuation.
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s cannot be empty", kind)
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "%s too long (max 128 characters)", kind)
	}
	if !identifierRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid %s: %q", kind, id)
	}
	return nil
}

// ValidateChoice checks that value is one of allowed. The error lists the
// allowed values in order.
func ValidateChoice(code Code, kind, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(code, "invalid %s: %q (must be one of: %s)", kind, value, strings.Join(allowed, ", "))
}

// ValidateDimensions checks a drawing surface: both sides finite and
// strictly positive, and no larger than 100000 units.
func ValidateDimensions(width, height float64) error {
	const maxSide = 100000
	for _, v := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(v.v) || math.IsInf(v.v, 0) || v.v <= 0 {
			return New(ErrCodeInvalidInput, "%s must be a positive number, got %v", v.name, v.v)
		}
		if v.v > maxSide {
			return New(ErrCodeInvalidInput, "%s too large (max %d)", v.name, maxSide)
		}
	}
	return nil
}

// ValidatePath validates a relative output path, e.g. a file name taken
// from an API request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
