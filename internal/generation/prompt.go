package generation

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"promptfeed/internal/models"

	"gopkg.in/yaml.v3"
)

// Prompt length bounds, counted in characters.
const (
	MinPromptLength = 3
	MaxPromptLength = 1000
)

// Prompt validation messages.
const (
	MsgPromptEmpty         = "Prompt cannot be empty"
	MsgPromptTooShort      = "Prompt must be at least 3 characters long"
	MsgPromptTooLong       = "Prompt must be less than 1000 characters"
	MsgPromptInappropriate = "Prompt contains inappropriate content"
)

var defaultDenylist = []string{"violent", "nsfw", "explicit", "gore", "harmful"}

// Validator checks prompts against length bounds and a substring denylist.
type Validator struct {
	terms []string
}

// NewValidator returns a Validator using the built-in denylist plus extra terms.
func NewValidator(extra ...string) *Validator {
	terms := append([]string{}, defaultDenylist...)
	for _, t := range extra {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return &Validator{terms: terms}
}

// Terms returns the active denylist.
func (v *Validator) Terms() []string {
	return append([]string{}, v.terms...)
}

// Validate returns a validation AppError describing the first rule prompt breaks, or nil.
func (v *Validator) Validate(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return models.NewValidationError(MsgPromptEmpty)
	}

	n := utf8.RuneCountInString(prompt)
	if n < MinPromptLength {
		return models.NewValidationError(MsgPromptTooShort)
	}
	if n > MaxPromptLength {
		return models.NewValidationError(MsgPromptTooLong)
	}

	lower := strings.ToLower(prompt)
	for _, term := range v.terms {
		if strings.Contains(lower, term) {
			return models.NewValidationError(MsgPromptInappropriate)
		}
	}
	return nil
}

var defaultValidator = NewValidator()

// ValidatePrompt validates prompt with the built-in denylist.
func ValidatePrompt(prompt string) error {
	return defaultValidator.Validate(prompt)
}

type denylistFile struct {
	Terms []string `yaml:"terms"`
}

// LoadDenylist reads extra denylist terms from a YAML file of the form `terms: [...]`.
func LoadDenylist(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read denylist: %w", err)
	}
	var f denylistFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse denylist %s: %w", path, err)
	}
	return f.Terms, nil
}
