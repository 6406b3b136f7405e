package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmspanish/healer/internal/artifact"
	"github.com/mmspanish/healer/pkg/corpus"
	"github.com/mmspanish/healer/pkg/errors"
)

const conflictedVocab = `<<<<<<< HEAD
{"spanish": "perro", "pos": "noun", "gender": "m", "english_gloss": "dog", "definition": "a loyal companion", "examples": ["El perro ladra. | The dog barks."], "level": "A1"}
=======
{"spanish": "perro", "pos": "noun", "gender": "m", "english_gloss": "dog", "definition": "a loyal companion", "examples": ["El perro ladra. | The dog barks."], "level": "A1", "tags": ["animals"]}
>>>>>>> branch
`

const duplicateVocab = `{"id": "legacy_perro_01", "spanish": "perro", "pos": "noun", "gender": "masculine", "english_gloss": "dog", "definition": "a loyal companion", "examples": ["Mi perro duerme. | My dog sleeps."], "level": "A1"}`

const lessonDoc = `{"title": "Ser vs Estar", "unit": 1, "lesson_number": 2, "level": "A1", "steps": [{"phase": "english_anchor", "line": "Two ways to say to be."}]}`

func writeContent(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestRunEndToEnd(t *testing.T) {
	contentDir := t.TempDir()
	buildDir := filepath.Join(t.TempDir(), "build")
	writeContent(t, contentDir, map[string]string{
		"a1/conflicted.txt": conflictedVocab,
		"a1/duplicate.txt":  duplicateVocab,
		"grammar/u1.txt":    lessonDoc,
		"notes/prose.txt":   "just some prose\n",
	})

	summary, err := Run(context.Background(), Options{
		ContentDir: contentDir,
		BuildDir:   buildDir,
		Format:     artifact.FormatBoth,
	})
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.True(t, summary.Wrote)

	aud := summary.Audit
	assert.Equal(t, 4, aud.TotalFiles)
	assert.Equal(t, 1, aud.ConflictBlocks)
	assert.Equal(t, 1, aud.VocabCount, "conflicted and duplicate entries collapse to one")
	assert.Equal(t, 1, aud.LessonCount)
	assert.Equal(t, 1, aud.DuplicateClusters)
	assert.Empty(t, aud.SchemaFailures)

	layout := artifact.Layout{Root: buildDir}
	raw, err := os.ReadFile(layout.VocabularyPath("json"))
	require.NoError(t, err)
	var vocab []corpus.Vocabulary
	require.NoError(t, json.Unmarshal(raw, &vocab))
	require.Len(t, vocab, 1)
	assert.Equal(t, "perro", vocab[0].Spanish)
	assert.Equal(t, []string{"animals"}, vocab[0].Tags)
	assert.Len(t, vocab[0].Examples, 2, "examples union across duplicates")
	assert.Len(t, vocab[0].SourceFiles, 2)

	_, err = os.Stat(layout.LessonsPath("yaml"))
	assert.NoError(t, err, "both format writes yaml siblings")

	report, err := os.ReadFile(layout.AuditPath())
	require.NoError(t, err)
	assert.Contains(t, string(report), "# Rebuild Audit")

	// The free prose file produced a reject fragment.
	entries, err := os.ReadDir(layout.RejectsDir())
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestRunCheckModeWritesNothing(t *testing.T) {
	contentDir := t.TempDir()
	buildDir := filepath.Join(t.TempDir(), "build")
	writeContent(t, contentDir, map[string]string{"a1/v.txt": duplicateVocab})

	summary, err := Run(context.Background(), Options{
		ContentDir: contentDir,
		BuildDir:   buildDir,
		Check:      true,
	})
	require.NoError(t, err)
	assert.False(t, summary.Wrote)
	assert.Equal(t, 1, summary.Audit.VocabCount)

	_, err = os.Stat(buildDir)
	assert.True(t, os.IsNotExist(err))
}

func TestRunStrictModeFailsAfterFullRun(t *testing.T) {
	contentDir := t.TempDir()
	buildDir := filepath.Join(t.TempDir(), "build")
	writeContent(t, contentDir, map[string]string{
		// Level cannot be determined: no field, no path hint.
		"misc/unleveled.txt": `{"spanish": "cosa", "pos": "noun", "english_gloss": "thing", "definition": "an object", "examples": ["La cosa. | The thing."]}`,
		"a1/v.txt":           duplicateVocab,
	})

	summary, err := Run(context.Background(), Options{
		ContentDir: contentDir,
		BuildDir:   buildDir,
		Strict:     true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrStrictMode)

	// Processing and artifact writing completed before the failure.
	require.NotNil(t, summary)
	assert.True(t, summary.Wrote)
	assert.Equal(t, 2, summary.Audit.VocabCount)
	assert.Len(t, summary.Audit.LevelUnset, 1)
}

func TestRunNonStrictToleratesUnset(t *testing.T) {
	contentDir := t.TempDir()
	writeContent(t, contentDir, map[string]string{
		"misc/unleveled.txt": `{"spanish": "cosa", "pos": "noun", "english_gloss": "thing", "definition": "an object", "examples": ["La cosa. | The thing."]}`,
	})

	summary, err := Run(context.Background(), Options{
		ContentDir: contentDir,
		BuildDir:   filepath.Join(t.TempDir(), "build"),
	})
	require.NoError(t, err)
	assert.Len(t, summary.Audit.LevelUnset, 1)
}

func TestRunOutputOrdering(t *testing.T) {
	contentDir := t.TempDir()
	buildDir := filepath.Join(t.TempDir(), "build")
	writeContent(t, contentDir, map[string]string{
		"c1/z.txt": `{"spanish": "zanahoria", "pos": "noun", "english_gloss": "carrot", "definition": "a root vegetable", "examples": ["La zanahoria. | The carrot."], "level": "C1"}`,
		"a1/a.txt": `{"spanish": "agua", "pos": "noun", "english_gloss": "water", "definition": "a liquid", "examples": ["El agua. | The water."], "level": "A1"}`,
	})

	_, err := Run(context.Background(), Options{ContentDir: contentDir, BuildDir: buildDir})
	require.NoError(t, err)

	raw, err := os.ReadFile(artifact.Layout{Root: buildDir}.VocabularyPath("json"))
	require.NoError(t, err)
	var vocab []corpus.Vocabulary
	require.NoError(t, json.Unmarshal(raw, &vocab))
	require.Len(t, vocab, 2)
	assert.Equal(t, corpus.LevelA1, vocab[0].Level, "records sort by level first")
	assert.Equal(t, corpus.LevelC1, vocab[1].Level)
}

func TestRunRepeatedlyIdempotent(t *testing.T) {
	contentDir := t.TempDir()
	writeContent(t, contentDir, map[string]string{"a1/v.txt": duplicateVocab})

	read := func(buildDir string) string {
		raw, err := os.ReadFile(artifact.Layout{Root: buildDir}.VocabularyPath("json"))
		require.NoError(t, err)
		return string(raw)
	}

	buildA := filepath.Join(t.TempDir(), "build")
	_, err := Run(context.Background(), Options{ContentDir: contentDir, BuildDir: buildA})
	require.NoError(t, err)

	buildB := filepath.Join(t.TempDir(), "build")
	_, err = Run(context.Background(), Options{ContentDir: contentDir, BuildDir: buildB})
	require.NoError(t, err)

	assert.Equal(t, read(buildA), read(buildB))
}

func TestRunMissingContentDir(t *testing.T) {
	_, err := Run(context.Background(), Options{
		ContentDir: filepath.Join(t.TempDir(), "absent"),
		BuildDir:   filepath.Join(t.TempDir(), "build"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRunUnknownFormat(t *testing.T) {
	contentDir := t.TempDir()
	writeContent(t, contentDir, map[string]string{"a1/v.txt": duplicateVocab})

	_, err := Run(context.Background(), Options{
		ContentDir: contentDir,
		BuildDir:   filepath.Join(t.TempDir(), "build"),
		Format:     "xml",
	})
	require.Error(t, err)
	var ce *errors.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "format", ce.Component)
}
