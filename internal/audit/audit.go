// Package audit accumulates the counters and diagnostics of one
// rebuild run and renders them as a markdown report.
package audit

import (
	"fmt"
	"sort"
	"strings"

	md "github.com/nao1215/markdown"
)

// Audit is the run log: every counter and diagnostic the pipeline
// accumulates while processing the corpus.
type Audit struct {
	TotalFiles        int
	ConflictBlocks    int
	VocabCount        int
	LessonCount       int
	DuplicateClusters int
	Rejects           int

	// LevelUnset lists record ids whose level stayed UNSET.
	LevelUnset []string

	// SchemaFailures lists validation diagnostics, source-tagged.
	SchemaFailures []string

	// ConflictFiles is the set of files that contained conflict
	// regions.
	ConflictFiles map[string]struct{}

	// DuplicateGroups maps cluster keys to member record ids.
	DuplicateGroups map[string][]string
}

// New returns an empty audit log.
func New() *Audit {
	return &Audit{
		ConflictFiles:   make(map[string]struct{}),
		DuplicateGroups: make(map[string][]string),
	}
}

// RecordConflictFile marks a file as having contained conflicts.
func (a *Audit) RecordConflictFile(path string) {
	a.ConflictFiles[path] = struct{}{}
}

// RecordUnset marks a record as having an undetermined level.
func (a *Audit) RecordUnset(id string) {
	a.LevelUnset = append(a.LevelUnset, id)
}

// Render produces the markdown audit report.
func (a *Audit) Render() string {
	var buf strings.Builder
	doc := md.NewMarkdown(&buf).
		H1("Rebuild Audit").
		BulletList(
			fmt.Sprintf("Total files scanned: %d", a.TotalFiles),
			fmt.Sprintf("Conflict blocks repaired: %d", a.ConflictBlocks),
			fmt.Sprintf("Vocabulary items: %d", a.VocabCount),
			fmt.Sprintf("Lessons: %d", a.LessonCount),
			fmt.Sprintf("Duplicate clusters: %d", a.DuplicateClusters),
			fmt.Sprintf("Reject fragments: %d", a.Rejects),
			fmt.Sprintf("Level UNSET count: %d", len(a.LevelUnset)),
		)

	if len(a.LevelUnset) > 0 {
		doc.H2("Level UNSET IDs").BulletList(a.LevelUnset...)
	}
	if len(a.ConflictFiles) > 0 {
		doc.H2("Files with merge conflicts").BulletList(sortedKeys(a.ConflictFiles)...)
	}
	if len(a.SchemaFailures) > 0 {
		doc.H2("Schema Failures").BulletList(a.SchemaFailures...)
	}
	if len(a.DuplicateGroups) > 0 {
		groups := make([]string, 0, len(a.DuplicateGroups))
		keys := make([]string, 0, len(a.DuplicateGroups))
		for key := range a.DuplicateGroups {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			groups = append(groups, fmt.Sprintf("%s: %s", key, strings.Join(a.DuplicateGroups[key], ", ")))
		}
		doc.H2("Duplicate Groups").BulletList(groups...)
	}

	if err := doc.Build(); err != nil {
		// strings.Builder writes cannot fail; keep the partial body.
		return buf.String()
	}
	return buf.String()
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
