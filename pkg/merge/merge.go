// Package merge implements deterministic structural merging of two
// tree values. Discarded alternatives are recorded as path-tagged
// notes; mappings absorb their children's notes into a synthetic
// "notes" field rather than propagating them further up.
package merge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mmspanish/healer/pkg/tree"
)

// Note records a value dropped in favor of another at a key-path.
// Paths are dot-joined; array indices are not tracked because arrays
// merge by set union, not positional diff.
type Note struct {
	Path      string
	Discarded string
}

// String renders the note in the "<path> => <discarded>" form used in
// reject fragments and synthetic notes fields.
func (n Note) String() string {
	return fmt.Sprintf("%s => %s", n.Path, n.Discarded)
}

// Outcome is the result of one structural merge call. Notes contains
// only the notes that escaped absorption: a merged mapping always
// returns an empty list because its children's notes were folded into
// its "notes" field.
type Outcome struct {
	Value tree.Value
	Notes []Note
}

// narrativeFields are long-form text fields whose merge policy is
// concatenation rather than arbitration, so authored prose is never
// silently discarded.
var narrativeFields = map[string]bool{
	"definition": true,
	"origin":     true,
	"story":      true,
}

// VariantSeparator joins the two sides of a concatenated narrative
// field.
const VariantSeparator = "\n\n— MERGED VARIANT —\n\n"

// Merge unifies two values into one. It is total over every pairing
// of kinds, pure, and deterministic: the same inputs always produce
// the same outcome. path names the location of the pair within the
// enclosing document ("" at the root).
func Merge(a, b tree.Value, path string) Outcome {
	switch {
	case a.Kind == tree.Object && b.Kind == tree.Object:
		return mergeObjects(a, b, path)

	case a.Kind == tree.Array && b.Kind == tree.Array:
		return Outcome{Value: mergeArrays(a.Arr, b.Arr)}

	case a.Kind == tree.String && b.Kind == tree.String:
		return mergeStrings(a.Str, b.Str, path)

	case a.Kind == b.Kind:
		// number×number, bool×bool, null×null: the right operand wins.
		return Outcome{Value: b}

	case a.Kind == tree.Null:
		return Outcome{Value: b}

	case b.Kind == tree.Null:
		return Outcome{Value: a}

	default:
		// Mismatched types resolve to the right operand; the left is
		// preserved as a note in its compact rendering.
		return Outcome{
			Value: b,
			Notes: []Note{{Path: path, Discarded: tree.EncodeCompact(a)}},
		}
	}
}

// mergeObjects merges two mappings over the union of their keys,
// sorted ascending for deterministic iteration. Keys present on one
// side copy through without a note. Child notes are absorbed into a
// synthetic "notes" field and never propagate past this mapping.
func mergeObjects(a, b tree.Value, path string) Outcome {
	union := make(map[string]struct{}, len(a.Obj)+len(b.Obj))
	for k := range a.Obj {
		union[k] = struct{}{}
	}
	for k := range b.Obj {
		union[k] = struct{}{}
	}
	keys := make([]string, 0, len(union))
	for k := range union {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := make(map[string]tree.Value, len(keys))
	var notes []Note

	for _, key := range keys {
		childPath := key
		if path != "" {
			childPath = path + "." + key
		}
		va, inA := a.Obj[key]
		vb, inB := b.Obj[key]
		switch {
		case inA && inB:
			child := Merge(va, vb, childPath)
			notes = append(notes, child.Notes...)
			result[key] = child.Value
		case inA:
			result[key] = va
		case inB:
			result[key] = vb
		}
	}

	if len(notes) > 0 {
		var combined strings.Builder
		combined.WriteString(normalizeNotes(result["notes"]))
		combined.WriteString("ALT VARIANTS:\n")
		for _, note := range notes {
			combined.WriteString(note.String())
			combined.WriteByte('\n')
		}
		result["notes"] = tree.StringValue(strings.TrimSpace(combined.String()))
	}

	return Outcome{Value: tree.ObjectValue(result)}
}

// normalizeNotes returns the existing notes value trimmed and suffixed
// with a blank line, or empty when absent, non-string, or blank.
func normalizeNotes(existing tree.Value) string {
	s, ok := existing.AsString()
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return s + "\n\n"
}

// mergeArrays unions two sequences preserving first-occurrence order,
// scanning a then b. The dedup key is the element's string value for
// strings, else its compact serialized form. Sequences never generate
// notes.
func mergeArrays(a, b []tree.Value) tree.Value {
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]tree.Value, 0, len(a)+len(b))

	for _, item := range append(append([]tree.Value{}, a...), b...) {
		key := tree.EncodeCompact(item)
		if item.Kind == tree.String {
			key = item.Str
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, item)
	}
	return tree.ArrayValue(merged...)
}

// mergeStrings arbitrates two strings. Narrative fields concatenate;
// everything else keeps the longer string, with ties going to the
// right operand and the loser recorded as a note.
func mergeStrings(sa, sb, path string) Outcome {
	if sa == sb {
		return Outcome{Value: tree.StringValue(sa)}
	}

	if narrativeFields[finalSegment(path)] {
		return Outcome{Value: tree.StringValue(sa + VariantSeparator + sb)}
	}

	chosen, alt := sb, sa
	if len(sa) > len(sb) {
		chosen, alt = sa, sb
	}
	return Outcome{
		Value: tree.StringValue(chosen),
		Notes: []Note{{Path: path, Discarded: alt}},
	}
}

// finalSegment returns the last dot-separated segment of a path.
func finalSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
