package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates a local data file path.
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
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateIdentifier validates a SQL table or MongoDB collection name.
// Only ASCII letters, digits and underscores are accepted, and the name must
// not start with a digit.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSource, "identifier cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidSource, "identifier too long (max 128 characters)")
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return New(ErrCodeInvalidSource, "invalid identifier: %q", name)
		}
	}
	return nil
}
