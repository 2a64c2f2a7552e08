package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxInputBytes is the largest document accepted by ValidateInput.
const MaxInputBytes = 4 << 20

// ValidateInput checks a document before it is transpiled by a service
// endpoint. Any valid UTF-8 text up to MaxInputBytes is accepted.
func ValidateInput(text string) error {
	if len(text) > MaxInputBytes {
		return New(ErrCodeInputTooLarge, "input too large (%d bytes, max %d)", len(text), MaxInputBytes)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "input is not valid UTF-8")
	}
	return nil
}

// ValidateSessionID checks that id is a canonical UUID as issued by the
// preview session manager.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid session id %q", id)
	}
	return nil
}

// ValidateOutputPath validates a file path given for rendered output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}
