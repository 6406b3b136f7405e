package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderCounters(t *testing.T) {
	a := New()
	a.TotalFiles = 12
	a.ConflictBlocks = 3
	a.VocabCount = 40
	a.LessonCount = 7
	a.DuplicateClusters = 2
	a.Rejects = 5

	body := a.Render()
	assert.Contains(t, body, "# Rebuild Audit")
	assert.Contains(t, body, "Total files scanned: 12")
	assert.Contains(t, body, "Conflict blocks repaired: 3")
	assert.Contains(t, body, "Vocabulary items: 40")
	assert.Contains(t, body, "Lessons: 7")
	assert.Contains(t, body, "Duplicate clusters: 2")
	assert.Contains(t, body, "Reject fragments: 5")
	assert.Contains(t, body, "Level UNSET count: 0")
}

func TestRenderOmitsEmptySections(t *testing.T) {
	body := New().Render()
	assert.NotContains(t, body, "Level UNSET IDs")
	assert.NotContains(t, body, "Files with merge conflicts")
	assert.NotContains(t, body, "Schema Failures")
	assert.NotContains(t, body, "Duplicate Groups")
}

func TestRenderDiagnosticSections(t *testing.T) {
	a := New()
	a.RecordUnset("mmspanish__vocab_x")
	a.RecordConflictFile("content/b1/file.txt")
	a.RecordConflictFile("content/a1/file.txt")
	a.SchemaFailures = append(a.SchemaFailures, "content/x.txt: validation failed for field examples: examples are required")
	a.DuplicateGroups["vocab:perro|noun|null"] = []string{"id_a", "id_b"}

	body := a.Render()
	assert.Contains(t, body, "## Level UNSET IDs")
	assert.Contains(t, body, "mmspanish__vocab_x")
	assert.Contains(t, body, "## Files with merge conflicts")
	assert.Contains(t, body, "content/a1/file.txt")
	assert.Contains(t, body, "## Schema Failures")
	assert.Contains(t, body, "## Duplicate Groups")
	assert.Contains(t, body, "vocab:perro|noun|null: id_a, id_b")
}

func TestRecordConflictFileDeduplicates(t *testing.T) {
	a := New()
	a.RecordConflictFile("same.txt")
	a.RecordConflictFile("same.txt")
	assert.Len(t, a.ConflictFiles, 1)
}
