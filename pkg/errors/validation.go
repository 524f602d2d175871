package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxPathLength bounds user-supplied file paths.
const maxPathLength = 1024

// ValidateOutputPath validates a report destination path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Must name a file, not a directory (no trailing separator)
//
// Relative paths are allowed and are resolved against the build output
// directory by the caller.
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file: %q", path)
	}
	return nil
}

// ValidateInputPath validates a stats or snapshot file path (or glob pattern).
func ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidInput, "input path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "input path too long (max %d characters)", maxPathLength)
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidInput, "input path contains a null byte")
	}
	return nil
}
