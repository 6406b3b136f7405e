// Package dedupe folds duplicate corpus records into canonical
// representatives. The fold is a sequential left-to-right pass keyed
// by each record's identity key: the first record seen under a key
// becomes the base, and every later record is merged into it with
// field-specific policies.
//
// The fold is order-sensitive by design: tie-breaks and note
// concatenation depend on which operand is base versus incoming, so
// callers must present records in a deterministic total order (the
// scanner sorts by source path) for reproducible output.
package dedupe

import (
	"strings"

	"github.com/mmspanish/healer/pkg/corpus"
)

// VariantSeparator joins concatenated narrative field variants. Same
// separator the structural merger uses, so downstream review tooling
// sees one convention.
const VariantSeparator = "\n\n— MERGED VARIANT —\n\n"

// Clusters maps identity keys to the record ids that collapsed under
// them, base id first. Diagnostic only; merge semantics never read it.
type Clusters map[string][]string

// Countable returns the number of clusters whose membership exceeds
// one id, i.e. keys that actually absorbed duplicates.
func (c Clusters) Countable() int {
	n := 0
	for _, ids := range c {
		if len(ids) > 1 {
			n++
		}
	}
	return n
}

// add records an incoming id under key, seeding the group with the
// base id on first contact.
func (c Clusters) add(key, baseID, incomingID string) {
	group, ok := c[key]
	if !ok {
		group = []string{baseID}
	}
	if !contains(group, incomingID) {
		group = append(group, incomingID)
	}
	c[key] = group
}

// MergeVocabulary folds duplicate vocabulary entries. Surviving
// records come back in first-seen order; final ordering is the
// caller's concern.
func MergeVocabulary(items []corpus.Vocabulary) ([]corpus.Vocabulary, Clusters) {
	byKey := make(map[string]*corpus.Vocabulary, len(items))
	order := make([]string, 0, len(items))
	clusters := make(Clusters)

	for i := range items {
		item := items[i]
		key := "vocab:" + item.IdentityKey()
		base, seen := byKey[key]
		if !seen {
			copied := item
			byKey[key] = &copied
			order = append(order, key)
			continue
		}
		mergeVocab(base, item)
		clusters.add(key, base.ID, item.ID)
	}

	merged := make([]corpus.Vocabulary, 0, len(order))
	for _, key := range order {
		merged = append(merged, *byKey[key])
	}
	return merged, clusters
}

// MergeLessons folds duplicate lessons, keyed by title+ordinals or
// title+nickname when ordinals are unassigned.
func MergeLessons(items []corpus.Lesson) ([]corpus.Lesson, Clusters) {
	byKey := make(map[string]*corpus.Lesson, len(items))
	order := make([]string, 0, len(items))
	clusters := make(Clusters)

	for i := range items {
		item := items[i]
		key := "lesson:" + item.IdentityKey()
		base, seen := byKey[key]
		if !seen {
			copied := item
			byKey[key] = &copied
			order = append(order, key)
			continue
		}
		mergeLesson(base, item)
		clusters.add(key, base.ID, item.ID)
	}

	merged := make([]corpus.Lesson, 0, len(order))
	for _, key := range order {
		merged = append(merged, *byKey[key])
	}
	return merged, clusters
}

// mergeVocab folds incoming into base in place.
func mergeVocab(base *corpus.Vocabulary, incoming corpus.Vocabulary) {
	// Identity scalars: first non-empty wins.
	if strings.TrimSpace(base.Spanish) == "" {
		base.Spanish = incoming.Spanish
	}
	if strings.TrimSpace(base.POS) == "" {
		base.POS = incoming.POS
	}
	if base.Gender == "" {
		base.Gender = incoming.Gender
	}

	mergeShortString(&base.EnglishGloss, incoming.EnglishGloss, "english_gloss", &base.Notes)
	mergeNarrative(&base.Definition, incoming.Definition)
	mergeNarrative(&base.Origin, incoming.Origin)
	mergeNarrative(&base.Story, incoming.Story)
	base.Examples = mergeExamples(base.Examples, incoming.Examples)
	base.Tags = mergeStringSet(base.Tags, incoming.Tags)
	base.SourceFiles = mergeStringSet(base.SourceFiles, incoming.SourceFiles)
	base.Notes = mergeNotes(base.Notes, incoming.Notes)

	if base.Level == corpus.LevelUnset && incoming.Level != corpus.LevelUnset {
		base.Level = incoming.Level
	}
}

// mergeLesson folds incoming into base in place.
func mergeLesson(base *corpus.Lesson, incoming corpus.Lesson) {
	if base.Level == corpus.LevelUnset && incoming.Level != corpus.LevelUnset {
		base.Level = incoming.Level
	}
	if base.Unit == corpus.UnassignedOrdinal && incoming.Unit != corpus.UnassignedOrdinal {
		base.Unit = incoming.Unit
	}
	if base.LessonNumber == corpus.UnassignedOrdinal && incoming.LessonNumber != corpus.UnassignedOrdinal {
		base.LessonNumber = incoming.LessonNumber
	}
	base.Tags = mergeStringSet(base.Tags, incoming.Tags)
	base.SourceFiles = mergeStringSet(base.SourceFiles, incoming.SourceFiles)
	base.Notes = mergeNotes(base.Notes, incoming.Notes)

	// Step sequences are not merged element-wise; the longer sequence
	// wins wholesale.
	if len(incoming.Steps) > len(base.Steps) {
		base.Steps = incoming.Steps
	}
}

// mergeShortString arbitrates a short descriptive field by length:
// the longer value wins, the loser is preserved in the record's notes
// as an ALT entry. Ties keep the base value, which makes the fold
// order-sensitive for equal-length variants.
func mergeShortString(target *string, incoming, field string, notes *string) {
	if strings.TrimSpace(*target) == "" {
		*target = incoming
		return
	}
	if strings.TrimSpace(incoming) == "" || *target == incoming {
		return
	}
	if len(incoming) > len(*target) {
		appendAltNote(notes, field, *target)
		*target = incoming
	} else {
		appendAltNote(notes, field, incoming)
	}
}

// appendAltNote appends an "ALT <field> => <value>" line to notes,
// skipping values already present by substring containment.
func appendAltNote(notes *string, field, alt string) {
	if strings.TrimSpace(alt) == "" {
		return
	}
	entry := "ALT " + field + " => " + alt
	if strings.Contains(*notes, entry) {
		return
	}
	if *notes == "" {
		*notes = entry
		return
	}
	*notes += "\n" + entry
}

// mergeNarrative concatenates long-form prose variants instead of
// arbitrating, so authored content is never silently discarded.
func mergeNarrative(target *string, incoming string) {
	if incoming == "" {
		return
	}
	if strings.TrimSpace(*target) == "" {
		*target = incoming
		return
	}
	if strings.TrimSpace(*target) == strings.TrimSpace(incoming) {
		return
	}
	*target += VariantSeparator + incoming
}

// mergeStringSet unions two slices preserving insertion order with
// case-sensitive exact-match dedup.
func mergeStringSet(target, incoming []string) []string {
	seen := make(map[string]struct{}, len(target)+len(incoming))
	for _, s := range target {
		seen[s] = struct{}{}
	}
	for _, s := range incoming {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		target = append(target, s)
	}
	return target
}

// mergeExamples unions example pairs keyed by the normalized
// (source, target) pair.
func mergeExamples(target, incoming []corpus.ExamplePair) []corpus.ExamplePair {
	seen := make(map[[2]string]struct{}, len(target)+len(incoming))
	for _, pair := range target {
		seen[pair.NormalizeKey()] = struct{}{}
	}
	for _, pair := range incoming {
		key := pair.NormalizeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		target = append(target, pair)
	}
	return target
}

// mergeNotes concatenates free-text notes with a newline unless the
// incoming text is already contained in the existing notes.
func mergeNotes(existing, incoming string) string {
	if incoming == "" {
		return existing
	}
	if existing == "" {
		return incoming
	}
	if strings.Contains(existing, incoming) {
		return existing
	}
	return existing + "\n" + incoming
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
