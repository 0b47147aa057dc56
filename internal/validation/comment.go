// Package validation holds input rules shared by services.
package validation

import (
	"strings"
	"unicode/utf8"

	"promptfeed/internal/models"
)

// MaxCommentLength is the longest comment accepted, in characters.
const MaxCommentLength = 500

// ValidateCommentContent trims content and checks it is non-empty and at most
// MaxCommentLength characters. It returns the trimmed text.
func ValidateCommentContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "", models.NewValidationError("Comment cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxCommentLength {
		return "", models.NewValidationError("Comment must be less than 500 characters")
	}
	return trimmed, nil
}
