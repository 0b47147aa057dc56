package validation

import (
	"strings"
	"testing"

	"promptfeed/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCommentContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		msg     string
	}{
		{"plain", "Nice!", "Nice!", ""},
		{"trimmed", "  spaced out \n", "spaced out", ""},
		{"whitespace only", " \t\n ", "", "Comment cannot be empty"},
		{"exactly max", strings.Repeat("a", MaxCommentLength), strings.Repeat("a", MaxCommentLength), ""},
		{"max after trim", "  " + strings.Repeat("b", MaxCommentLength) + "  ", strings.Repeat("b", MaxCommentLength), ""},
		{"too long", strings.Repeat("a", MaxCommentLength+1), "", "Comment must be less than 500 characters"},
		{"multibyte at max", strings.Repeat("ü", MaxCommentLength), strings.Repeat("ü", MaxCommentLength), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCommentContent(tt.content)
			if tt.msg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, models.CodeValidation, appErr.Code)
			assert.Equal(t, tt.msg, appErr.Message)
		})
	}
}
