package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateNodeID validates a node identifier from an input dataset.
// It rejects ids that could break downstream keys or markup.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No null bytes
//   - Maximum length of 256 characters
//
// Display names are not restricted; the id is the lookup key.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidData, "node id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidData, "node id too long (max 256 characters)")
	}

	// Check for control characters and null bytes
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidData, "node id contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates an output file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	// Check for path traversal
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}

// hexColorRegex matches #RGB, #RRGGBB and #RRGGBBAA colors.
var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// ValidateHexColor validates a hex color string.
// The empty string is allowed and means "no override".
func ValidateHexColor(color string) error {
	if color == "" {
		return nil
	}

	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidColor, "invalid hex color: %q", color)
	}

	return nil
}

// ValidateDistribution validates a particle distribution name.
func ValidateDistribution(name string) error {
	switch name {
	case "uniform", "random", "gaussian":
		return nil
	}
	return New(ErrCodeInvalidConfig, "invalid particle distribution: %q (want uniform, random or gaussian)", name)
}

// ValidateShapeType validates a decorative shape type name.
func ValidateShapeType(name string) error {
	switch name {
	case "circle", "square", "diamond":
		return nil
	}
	return New(ErrCodeInvalidConfig, "invalid shape type: %q (want circle, square or diamond)", name)
}

// ValidateWidthAnchor validates a variable-width anchor position name.
func ValidateWidthAnchor(name string) error {
	switch name {
	case "start", "middle", "end", "custom":
		return nil
	}
	return New(ErrCodeInvalidConfig, "invalid width position: %q (want start, middle, end or custom)", name)
}

// ValidateUnitInterval validates that a parameter lies in [0, 1].
func ValidateUnitInterval(name string, v float64) error {
	if v < 0 || v > 1 {
		return New(ErrCodeInvalidConfig, "%s must be in [0, 1], got %g", name, v)
	}
	return nil
}
