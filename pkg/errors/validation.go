package errors

import (
	"slices"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds qubit and coupler IDs accepted from users.
const MaxNodeIDLength = 128

// ValidateNodeID validates a qubit or coupler ID supplied by a user.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No whitespace or control characters
//   - Maximum length of MaxNodeIDLength characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidPattern, "node ID cannot be empty")
	}
	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidPattern, "node ID too long (max %d characters)", MaxNodeIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidPattern, "node ID %q contains whitespace or control characters", id)
		}
	}
	return nil
}

// ValidateDegrees checks the qubit and coupler degree caps. A coupler must
// be able to hold a pair and a qubit at least one coupler.
func ValidateDegrees(maxQubit, maxCoupler int) error {
	if maxCoupler < 2 {
		return New(ErrCodeInvalidConfig, "max coupler degree must be at least 2, got %d", maxCoupler)
	}
	if maxQubit < 1 {
		return New(ErrCodeInvalidConfig, "max qubit degree must be at least 1, got %d", maxQubit)
	}
	return nil
}

// ValidateFormat checks that format is one of allowed (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
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
		if r == '\x00' || unicode.IsControl(r) {
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
