package corpus

import (
	"fmt"
	"strconv"

	"github.com/mmspanish/healer/pkg/errors"
)

// UnassignedOrdinal is the sentinel for unit and lesson numbers that
// the source material never declared.
const UnassignedOrdinal = 9999

// Lesson step phases.
const (
	PhaseEnglishAnchor = "english_anchor"
	PhaseSystemLogic   = "system_logic"
	PhaseMeaningDepth  = "meaning_depth"
	PhaseSpanishEntry  = "spanish_entry"
	PhaseExamples      = "examples"
)

// LessonStep is one phase of a lesson. Only the fields relevant to
// the phase are populated: line for the anchor/logic/entry phases,
// origin/story for meaning_depth, items for examples.
type LessonStep struct {
	Phase  string   `json:"phase" yaml:"phase"`
	Line   string   `json:"line,omitempty" yaml:"line,omitempty"`
	Origin string   `json:"origin,omitempty" yaml:"origin,omitempty"`
	Story  string   `json:"story,omitempty" yaml:"story,omitempty"`
	Items  []string `json:"items,omitempty" yaml:"items,omitempty"`
}

// Validate checks the step's phase-specific requirements.
func (s *LessonStep) Validate() error {
	switch s.Phase {
	case PhaseEnglishAnchor, PhaseSystemLogic, PhaseSpanishEntry:
		if isBlank(s.Line) {
			return errors.NewValidationError("line", "lesson step line must be non-empty")
		}
		return nil
	case PhaseMeaningDepth:
		return nil
	case PhaseExamples:
		if len(s.Items) == 0 {
			return errors.NewValidationError("items", "examples must contain at least one item")
		}
		return nil
	default:
		return errors.NewValidationError("phase", fmt.Sprintf("unknown phase %q", s.Phase))
	}
}

// Lesson is one grammar lesson record.
type Lesson struct {
	ID           string       `json:"id" yaml:"id"`
	Title        string       `json:"title" yaml:"title"`
	Nickname     string       `json:"nickname" yaml:"nickname"`
	Level        Level        `json:"level" yaml:"level"`
	Unit         int          `json:"unit" yaml:"unit"`
	LessonNumber int          `json:"lesson_number" yaml:"lesson_number"`
	Tags         []string     `json:"tags" yaml:"tags"`
	Steps        []LessonStep `json:"steps" yaml:"steps"`
	Notes        string       `json:"notes,omitempty" yaml:"notes,omitempty"`
	SourceFiles  []string     `json:"source_files,omitempty" yaml:"source_files,omitempty"`
}

// Validate checks the lesson's field-presence rules.
func (l *Lesson) Validate() error {
	if isBlank(l.ID) {
		return errors.NewValidationError("id", "lesson id is required")
	}
	if isBlank(l.Title) {
		return errors.NewValidationError("title", "lesson title is required")
	}
	if isBlank(l.Nickname) {
		return errors.NewValidationError("nickname", "lesson nickname is required")
	}
	if len(l.Steps) == 0 {
		return errors.NewValidationError("steps", "lesson must contain steps")
	}
	for i := range l.Steps {
		if err := l.Steps[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SortKey orders lessons by level, unit, lesson number, then id.
func (l *Lesson) SortKey() string {
	return fmt.Sprintf("%d|%05d|%05d|%s", l.Level.Order(), l.Unit, l.LessonNumber, l.ID)
}

// IdentityKey is the natural key duplicate detection groups by:
// title, unit and lesson number when either ordinal is assigned,
// otherwise title and nickname. Case-insensitive.
func (l *Lesson) IdentityKey() string {
	if l.Unit != UnassignedOrdinal || l.LessonNumber != UnassignedOrdinal {
		return normalizeText(l.Title) + "|" + strconv.Itoa(l.Unit) + "|" + strconv.Itoa(l.LessonNumber)
	}
	return normalizeText(l.Title) + "|" + normalizeText(l.Nickname)
}
