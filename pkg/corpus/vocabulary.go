package corpus

import (
	"fmt"
	"strings"

	"github.com/mmspanish/healer/pkg/errors"
)

// Vocabulary is one vocabulary entry record.
type Vocabulary struct {
	ID           string        `json:"id" yaml:"id"`
	Spanish      string        `json:"spanish" yaml:"spanish"`
	POS          string        `json:"pos" yaml:"pos"`
	Gender       string        `json:"gender,omitempty" yaml:"gender,omitempty"`
	EnglishGloss string        `json:"english_gloss" yaml:"english_gloss"`
	Definition   string        `json:"definition" yaml:"definition"`
	Origin       string        `json:"origin,omitempty" yaml:"origin,omitempty"`
	Story        string        `json:"story,omitempty" yaml:"story,omitempty"`
	Examples     []ExamplePair `json:"examples" yaml:"examples"`
	Level        Level         `json:"level" yaml:"level"`
	Tags         []string      `json:"tags,omitempty" yaml:"tags,omitempty"`
	SourceFiles  []string      `json:"source_files,omitempty" yaml:"source_files,omitempty"`
	Notes        string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate checks the entry's field-presence rules.
func (v *Vocabulary) Validate() error {
	if isBlank(v.ID) {
		return errors.NewValidationError("id", "vocabulary id is required")
	}
	if isBlank(v.Spanish) {
		return errors.NewValidationError("spanish", "spanish is required")
	}
	if isBlank(v.POS) {
		return errors.NewValidationError("pos", "pos is required")
	}
	if isBlank(v.EnglishGloss) {
		return errors.NewValidationError("english_gloss", "english_gloss is required")
	}
	if isBlank(v.Definition) {
		return errors.NewValidationError("definition", "definition is required")
	}
	if len(v.Examples) == 0 {
		return errors.NewValidationError("examples", "examples are required")
	}
	return nil
}

// SortKey orders entries by level then id.
func (v *Vocabulary) SortKey() string {
	return fmt.Sprintf("%d|%s", v.Level.Order(), v.ID)
}

// IdentityKey is the natural key duplicate detection groups by:
// case-insensitive headword, part of speech, and gender ("null" when
// unset, matching the historical key shape).
func (v *Vocabulary) IdentityKey() string {
	return normalizeText(v.Spanish) + "|" + normalizeText(v.POS) + "|" + genderOrNull(v.Gender)
}

// NormalizeGender maps the gender spellings found in source material
// to the canonical masculine/feminine, or empty when unrecognized.
func NormalizeGender(input string) string {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "m", "masculine":
		return "masculine"
	case "f", "feminine":
		return "feminine"
	default:
		return ""
	}
}

func genderOrNull(gender string) string {
	if gender == "" {
		return "null"
	}
	return strings.ToLower(gender)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
