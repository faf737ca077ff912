package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxFilenameLength is the longest filename base accepted by [ValidateFilename].
const maxFilenameLength = 255

// ValidateFilename validates an output filename base (without extension).
// The name must be a bare file name so the rendered image always lands in
// the output directory of the diagram.
//
// Validation rules:
//   - Name cannot be empty
//   - Maximum length of 255 bytes
//   - No control characters or null bytes
//   - No path separators (/ or \)
//   - No path traversal sequences (..)
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidFilename, "filename too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators: %q", name)
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path traversal sequences (..)")
	}

	return nil
}

// ValidateLabel validates a node label or cluster title.
// Labels may contain newlines (rendered as line breaks) but no other
// control characters.
func ValidateLabel(label string) error {
	for _, r := range label {
		if r == '\n' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "label %q contains invalid control characters", label)
		}
	}
	return nil
}
