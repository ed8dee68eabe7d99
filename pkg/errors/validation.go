package errors

import (
	"strings"
	"unicode"
)

// maxSourceLength bounds roster source strings accepted from the CLI or a form.
const maxSourceLength = 2048

// ValidateSource checks a roster source before it is fetched.
// A source is either an http(s) URL or a local file path.
//
// Validation rules:
//   - Source cannot be empty
//   - Maximum length of 2048 characters
//   - No control characters or null bytes
//   - URLs must use the http or https scheme
func ValidateSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return New(ErrCodeInvalidSource, "roster source cannot be empty")
	}
	if len(source) > maxSourceLength {
		return New(ErrCodeInvalidSource, "roster source too long (max %d characters)", maxSourceLength)
	}
	for _, r := range source {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "roster source contains invalid control characters")
		}
	}
	if i := strings.Index(source, "://"); i >= 0 {
		return ValidateURL(source)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidSource, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether source names an http(s) location rather than a file.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
