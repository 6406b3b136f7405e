package classify

import (
	"fmt"
	"strings"

	"github.com/mmspanish/healer/pkg/corpus"
	"github.com/mmspanish/healer/pkg/errors"
	"github.com/mmspanish/healer/pkg/tree"
)

// buildLesson assembles a Lesson from a canonicalized object.
func buildLesson(path string, obj map[string]tree.Value) (corpus.Lesson, error) {
	title, ok := stringField(obj, "title")
	if !ok {
		return corpus.Lesson{}, errors.NewValidationError("title", "lesson title missing")
	}

	nickname, _ := stringField(obj, "nickname")
	if strings.TrimSpace(nickname) == "" {
		nickname = corpus.Slugify(title)
	}

	unit := intField(obj, "unit", corpus.UnassignedOrdinal)
	lessonNumber := intField(obj, "lesson_number", corpus.UnassignedOrdinal)

	stepsValue, ok := obj["steps"]
	if !ok {
		stepsValue, ok = obj["phases"]
	}
	if !ok {
		return corpus.Lesson{}, errors.NewValidationError("steps", "lesson steps missing")
	}
	steps, err := normalizeSteps(stepsValue)
	if err != nil {
		return corpus.Lesson{}, err
	}

	notes, _ := stringField(obj, "notes")
	if notes == "" {
		notes, _ = stringField(obj, "alt_notes")
	}

	id, _ := stringField(obj, "id")
	if id == "" {
		id = corpus.LessonID(unit, title)
	}

	return corpus.Lesson{
		ID:           id,
		Title:        title,
		Nickname:     nickname,
		Level:        normalizeLevel(path, obj),
		Unit:         unit,
		LessonNumber: lessonNumber,
		Tags:         normalizeTags(obj),
		Steps:        steps,
		Notes:        notes,
		SourceFiles:  []string{sourcePath(path)},
	}, nil
}

// buildVocab assembles a Vocabulary entry from a canonicalized object.
func buildVocab(path string, obj map[string]tree.Value) (corpus.Vocabulary, error) {
	spanish, ok := stringField(obj, "spanish")
	if !ok || strings.TrimSpace(spanish) == "" {
		return corpus.Vocabulary{}, errors.NewValidationError("spanish", "spanish missing")
	}
	spanish = strings.TrimSpace(spanish)

	pos, ok := stringField(obj, "pos")
	if !ok || strings.TrimSpace(pos) == "" {
		return corpus.Vocabulary{}, errors.NewValidationError("pos", "pos missing")
	}
	pos = strings.TrimSpace(pos)

	gender := ""
	if g, present := stringField(obj, "gender"); present {
		gender = corpus.NormalizeGender(g)
	}

	gloss, ok := stringField(obj, "english_gloss")
	if !ok {
		return corpus.Vocabulary{}, errors.NewValidationError("english_gloss", "english_gloss missing")
	}
	definition, ok := stringField(obj, "definition")
	if !ok {
		return corpus.Vocabulary{}, errors.NewValidationError("definition", "definition missing")
	}
	origin, _ := stringField(obj, "origin")
	story, _ := stringField(obj, "story")

	examples, err := normalizeExamples(obj)
	if err != nil {
		return corpus.Vocabulary{}, err
	}

	notes, _ := stringField(obj, "notes")

	id, _ := stringField(obj, "id")
	if id == "" {
		id = corpus.VocabularyID(spanish, pos, gender)
	}

	return corpus.Vocabulary{
		ID:           id,
		Spanish:      spanish,
		POS:          pos,
		Gender:       gender,
		EnglishGloss: gloss,
		Definition:   definition,
		Origin:       origin,
		Story:        story,
		Examples:     examples,
		Level:        normalizeLevel(path, obj),
		Tags:         normalizeTags(obj),
		SourceFiles:  []string{sourcePath(path)},
		Notes:        notes,
	}, nil
}

// intField returns a field's integral payload or a default.
func intField(obj map[string]tree.Value, key string, def int) int {
	if v, ok := obj[key]; ok {
		if n, isInt := v.AsInt(); isInt {
			return int(n)
		}
	}
	return def
}

// normalizeSteps accepts an array of step objects or bare strings.
func normalizeSteps(value tree.Value) ([]corpus.LessonStep, error) {
	if value.Kind != tree.Array {
		return nil, errors.NewValidationError("steps", fmt.Sprintf("unexpected steps format: %s", tree.EncodeCompact(value)))
	}
	steps := make([]corpus.LessonStep, 0, len(value.Arr))
	for _, item := range value.Arr {
		step, err := parseStep(item)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// parseStep builds one lesson step. A bare string is an english
// anchor line; objects dispatch on their phase field, defaulting to
// english_anchor for missing or unknown phases.
func parseStep(value tree.Value) (corpus.LessonStep, error) {
	switch value.Kind {
	case tree.String:
		return corpus.LessonStep{Phase: corpus.PhaseEnglishAnchor, Line: value.Str}, nil
	case tree.Object:
		obj := value.Obj
		phase, _ := stringField(obj, "phase")
		if phase == "" {
			phase = corpus.PhaseEnglishAnchor
		}
		switch phase {
		case corpus.PhaseEnglishAnchor, corpus.PhaseSystemLogic, corpus.PhaseSpanishEntry:
			line, ok := stringField(obj, "line")
			if !ok {
				return corpus.LessonStep{}, errors.NewValidationError("line", phase+" requires line")
			}
			return corpus.LessonStep{Phase: phase, Line: line}, nil
		case corpus.PhaseMeaningDepth:
			origin, _ := stringField(obj, "origin")
			story, _ := stringField(obj, "story")
			return corpus.LessonStep{Phase: phase, Origin: origin, Story: story}, nil
		case corpus.PhaseExamples:
			items, err := stepExampleItems(obj)
			if err != nil {
				return corpus.LessonStep{}, err
			}
			return corpus.LessonStep{Phase: phase, Items: items}, nil
		default:
			line, _ := stringField(obj, "line")
			return corpus.LessonStep{Phase: corpus.PhaseEnglishAnchor, Line: line}, nil
		}
	default:
		return corpus.LessonStep{}, errors.NewValidationError("steps", fmt.Sprintf("unexpected lesson step: %s", tree.EncodeCompact(value)))
	}
}

// stepExampleItems accepts an items array of strings or a single
// string item.
func stepExampleItems(obj map[string]tree.Value) ([]string, error) {
	v, ok := obj["items"]
	if !ok {
		return nil, nil
	}
	switch v.Kind {
	case tree.Array:
		var items []string
		for _, item := range v.Arr {
			if s, isStr := item.AsString(); isStr {
				items = append(items, s)
			}
		}
		return items, nil
	case tree.String:
		return []string{v.Str}, nil
	default:
		return nil, errors.NewValidationError("items", fmt.Sprintf("examples items invalid: %s", tree.EncodeCompact(v)))
	}
}

// normalizeExamples accepts the example shapes seen in source
// material: an array of {es,en} objects, two-element arrays or pipe
// strings; an object mapping es to en; or one pipe string.
func normalizeExamples(obj map[string]tree.Value) ([]corpus.ExamplePair, error) {
	value, ok := obj["examples"]
	if !ok {
		return nil, errors.NewValidationError("examples", "examples missing")
	}

	switch value.Kind {
	case tree.Array:
		seen := make(map[[2]string]struct{})
		var pairs []corpus.ExamplePair
		for _, item := range value.Arr {
			pair, err := extractExample(item)
			if err != nil {
				return nil, err
			}
			if pair == nil {
				continue
			}
			key := pair.NormalizeKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, *pair)
		}
		if len(pairs) == 0 {
			return nil, errors.NewValidationError("examples", "no valid examples")
		}
		return pairs, nil

	case tree.Object:
		seen := make(map[[2]string]struct{})
		var pairs []corpus.ExamplePair
		for _, es := range value.SortedKeys() {
			en, isStr := value.Obj[es].AsString()
			if !isStr {
				continue
			}
			pair := corpus.ExamplePair{ES: es, EN: en}
			key := pair.NormalizeKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			pairs = append(pairs, pair)
		}
		if len(pairs) == 0 {
			return nil, errors.NewValidationError("examples", "examples object empty")
		}
		return pairs, nil

	case tree.String:
		pair, ok := splitPipePair(value.Str)
		if !ok {
			return nil, errors.NewValidationError("examples", "examples string invalid")
		}
		return []corpus.ExamplePair{pair}, nil

	default:
		return nil, errors.NewValidationError("examples", fmt.Sprintf("examples invalid: %s", tree.EncodeCompact(value)))
	}
}

// extractExample pulls one pair from an array element. Unusable
// shapes return nil without error so one bad element doesn't sink the
// rest, but an object missing es/en is a schema failure.
func extractExample(value tree.Value) (*corpus.ExamplePair, error) {
	switch value.Kind {
	case tree.Object:
		es, ok := stringField(value.Obj, "es")
		if !ok {
			return nil, errors.NewValidationError("es", "example es missing")
		}
		en, ok := stringField(value.Obj, "en")
		if !ok {
			return nil, errors.NewValidationError("en", "example en missing")
		}
		return &corpus.ExamplePair{ES: es, EN: en}, nil
	case tree.Array:
		if len(value.Arr) == 2 {
			es, esOK := value.Arr[0].AsString()
			en, enOK := value.Arr[1].AsString()
			if esOK && enOK {
				return &corpus.ExamplePair{ES: es, EN: en}, nil
			}
		}
		return nil, nil
	case tree.String:
		if pair, ok := splitPipePair(value.Str); ok {
			return &pair, nil
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// splitPipePair parses the "es | en" example shorthand.
func splitPipePair(line string) (corpus.ExamplePair, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != 2 {
		return corpus.ExamplePair{}, false
	}
	return corpus.ExamplePair{
		ES: strings.TrimSpace(parts[0]),
		EN: strings.TrimSpace(parts[1]),
	}, true
}

// sourcePath strips a leading ./ so source_files entries are stable
// regardless of how the content root was spelled.
func sourcePath(path string) string {
	return strings.TrimPrefix(path, "./")
}
