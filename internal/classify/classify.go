// Package classify turns conflict-resolved document text into
// candidate corpus records. Parsing is tolerant: the whole document
// first, then line by line; fragments that parse are classified by
// shape into lessons and vocabulary entries, everything else becomes
// a reject or a schema diagnostic.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmspanish/healer/pkg/corpus"
	"github.com/mmspanish/healer/pkg/tree"
)

// Output collects everything classification produced for one document.
type Output struct {
	Lessons    []corpus.Lesson
	Vocabulary []corpus.Vocabulary

	// Rejects are fragments that parsed to nothing classifiable, or
	// failed to parse at all, kept for human review.
	Rejects []string

	// Invalid are schema diagnostics for fragments that looked like a
	// record but could not be built, prefixed with the source path.
	Invalid []string
}

func (o *Output) absorb(other Output) {
	o.Lessons = append(o.Lessons, other.Lessons...)
	o.Vocabulary = append(o.Vocabulary, other.Vocabulary...)
	o.Rejects = append(o.Rejects, other.Rejects...)
	o.Invalid = append(o.Invalid, other.Invalid...)
}

// levelHintRE spots a CEFR tier anywhere in a file path, used when a
// record declares no level of its own.
var levelHintRE = regexp.MustCompile(`(?i)(a1|a2|b1|b2|c1|c2)`)

// Document parses and classifies one document.
func Document(path, content string) Output {
	var out Output
	for _, fragment := range collectFragments(content) {
		if !fragment.parsed {
			out.Rejects = append(out.Rejects, fragment.raw)
			continue
		}
		out.absorb(classifyValue(path, fragment.value))
	}
	return out
}

type fragment struct {
	value  tree.Value
	parsed bool
	raw    string
}

// collectFragments tries the whole document as one fragment first;
// when that fails, each non-blank line stands alone.
func collectFragments(content string) []fragment {
	if value, err := tree.Parse(content); err == nil {
		return []fragment{{value: value, parsed: true}}
	}

	var fragments []fragment
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if value, err := tree.Parse(trimmed); err == nil {
			fragments = append(fragments, fragment{value: value, parsed: true})
		} else {
			fragments = append(fragments, fragment{raw: trimmed})
		}
	}
	return fragments
}

// classifyValue routes a parsed fragment by shape. Arrays classify
// element-wise; objects that look like both record kinds build both.
func classifyValue(path string, value tree.Value) Output {
	var out Output
	switch value.Kind {
	case tree.Array:
		for _, item := range value.Arr {
			out.absorb(classifyValue(path, item))
		}
	case tree.Object:
		obj := canonicalizeKeys(value.Obj)
		isLesson := looksLikeLesson(obj)
		isVocab := looksLikeVocab(obj)
		if isLesson {
			if lesson, err := buildLesson(path, obj); err != nil {
				out.Invalid = append(out.Invalid, fmt.Sprintf("%s: %v", path, err))
			} else {
				out.Lessons = append(out.Lessons, lesson)
			}
		}
		if isVocab {
			if vocab, err := buildVocab(path, obj); err != nil {
				out.Invalid = append(out.Invalid, fmt.Sprintf("%s: %v", path, err))
			} else {
				out.Vocabulary = append(out.Vocabulary, vocab)
			}
		}
		if !isLesson && !isVocab {
			out.Rejects = append(out.Rejects, tree.EncodePretty(tree.ObjectValue(obj)))
		}
	default:
		out.Rejects = append(out.Rejects, tree.EncodePretty(value))
	}
	return out
}

// keyAliases maps the spelling drift observed in source material back
// to canonical field names. Matching is case-insensitive.
var keyAliases = map[string]string{
	"nikname":          "nickname",
	"nick_name":        "nickname",
	"lesson_nickname":  "nickname",
	"lessonnum":        "lesson_number",
	"lesson_no":        "lesson_number",
	"lessonnumber":     "lesson_number",
	"unitnum":          "unit",
	"unit_no":          "unit",
	"unitnumber":       "unit",
	"english":          "english_gloss",
	"englishgloss":     "english_gloss",
	"english_glossary": "english_gloss",
	"def":              "definition",
	"definition_en":    "definition",
	"origin_story":     "story",
	"pos_tag":          "pos",
	"tags_csv":         "tags",
}

// canonicalizeKeys renames aliased keys in place on a copy of the
// object's field map.
func canonicalizeKeys(obj map[string]tree.Value) map[string]tree.Value {
	result := make(map[string]tree.Value, len(obj))
	for key, value := range obj {
		if canonical, ok := keyAliases[strings.ToLower(key)]; ok {
			result[canonical] = value
		} else {
			result[key] = value
		}
	}
	return result
}

func looksLikeLesson(obj map[string]tree.Value) bool {
	_, hasTitle := obj["title"]
	_, hasSteps := obj["steps"]
	_, hasPhases := obj["phases"]
	return hasTitle && (hasSteps || hasPhases)
}

func looksLikeVocab(obj map[string]tree.Value) bool {
	_, hasSpanish := obj["spanish"]
	_, hasGloss := obj["english_gloss"]
	return hasSpanish && hasGloss
}

// stringField returns the trimmed-presence string payload of a field.
func stringField(obj map[string]tree.Value, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	return v.AsString()
}

// normalizeLevel resolves a record's level: declared field first, a
// tier hint in the file path second, UNSET last.
func normalizeLevel(path string, obj map[string]tree.Value) corpus.Level {
	if s, ok := stringField(obj, "level"); ok {
		if level, valid := corpus.ParseLevel(s); valid {
			return level
		}
	}
	if m := levelHintRE.FindStringSubmatch(path); m != nil {
		if level, valid := corpus.ParseLevel(m[1]); valid {
			return level
		}
	}
	return corpus.LevelUnset
}

// normalizeTags accepts an array of strings or a CSV string.
func normalizeTags(obj map[string]tree.Value) []string {
	v, ok := obj["tags"]
	if !ok {
		return nil
	}
	switch v.Kind {
	case tree.Array:
		var tags []string
		for _, item := range v.Arr {
			if s, isStr := item.AsString(); isStr {
				tags = append(tags, s)
			}
		}
		return tags
	case tree.String:
		var tags []string
		for _, part := range strings.Split(v.Str, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
		return tags
	default:
		return nil
	}
}
