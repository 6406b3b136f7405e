// Package corpus defines the canonical record types of the Spanish
// learning corpus: vocabulary entries and grammar lessons, plus their
// validation rules and identity keys.
package corpus

import "strings"

// Level is a CEFR proficiency tier, plus an explicit UNSET tier for
// records whose level could not be determined.
type Level string

// The six ordered tiers and the unset sentinel.
const (
	LevelA1    Level = "A1"
	LevelA2    Level = "A2"
	LevelB1    Level = "B1"
	LevelB2    Level = "B2"
	LevelC1    Level = "C1"
	LevelC2    Level = "C2"
	LevelUnset Level = "UNSET"
)

// Order returns the tier's position for sorting; UNSET sorts last.
func (l Level) Order() int {
	switch l {
	case LevelA1:
		return 1
	case LevelA2:
		return 2
	case LevelB1:
		return 3
	case LevelB2:
		return 4
	case LevelC1:
		return 5
	case LevelC2:
		return 6
	default:
		return 7
	}
}

// ParseLevel parses a level string case-insensitively. It returns
// false for anything outside the closed set.
func ParseLevel(input string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(input)) {
	case "A1":
		return LevelA1, true
	case "A2":
		return LevelA2, true
	case "B1":
		return LevelB1, true
	case "B2":
		return LevelB2, true
	case "C1":
		return LevelC1, true
	case "C2":
		return LevelC2, true
	case "UNSET":
		return LevelUnset, true
	default:
		return LevelUnset, false
	}
}
