// Package pipeline orchestrates a full corpus rebuild: scan, conflict
// resolution, classification, duplicate merging, finalization, and
// artifact writing. Failures inside the corpus degrade to diagnostics;
// only I/O problems and strict mode abort a run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/mmspanish/healer/internal/artifact"
	"github.com/mmspanish/healer/internal/audit"
	"github.com/mmspanish/healer/internal/classify"
	"github.com/mmspanish/healer/internal/scanner"
	"github.com/mmspanish/healer/pkg/conflict"
	"github.com/mmspanish/healer/pkg/corpus"
	"github.com/mmspanish/healer/pkg/dedupe"
	"github.com/mmspanish/healer/pkg/errors"
	"github.com/mmspanish/healer/pkg/logging"
)

// Options configures one run.
type Options struct {
	// ContentDir is the source tree to heal.
	ContentDir string

	// BuildDir is where artifacts are written.
	BuildDir string

	// Format selects canonical output: json, yaml, or both.
	Format string

	// Check runs the full pipeline without writing anything.
	Check bool

	// Strict promotes accumulated diagnostics (schema failures,
	// UNSET levels) to a hard error once the whole corpus has been
	// processed.
	Strict bool
}

// Summary is what a run produced.
type Summary struct {
	Audit *audit.Audit
	Wrote bool
}

// Run executes the pipeline.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	switch opts.Format {
	case "":
		opts.Format = artifact.FormatJSON
	case artifact.FormatJSON, artifact.FormatYAML, artifact.FormatBoth:
	default:
		return nil, errors.NewConfigError("format", fmt.Sprintf("unknown output format %q", opts.Format), nil)
	}

	if _, err := os.Stat(opts.ContentDir); err != nil {
		return nil, fmt.Errorf("content directory %s: %w", opts.ContentDir, errors.ErrNotFound)
	}

	records, err := scanner.Scan(ctx, opts.ContentDir)
	if err != nil {
		return nil, err
	}

	aud := audit.New()
	aud.TotalFiles = len(records)

	var (
		lessons []corpus.Lesson
		vocab   []corpus.Vocabulary
		rejects []artifact.Reject
	)

	for _, record := range records {
		resolution := conflict.Resolve(record.Content)
		if resolution.HadConflicts {
			aud.RecordConflictFile(record.Path)
			logging.Debug().
				Str("source_file", record.Path).
				Int("conflicts", resolution.Conflicts).
				Msg("Repaired conflict blocks")
		}
		aud.ConflictBlocks += resolution.Conflicts
		if conflict.HasStrayMarkers(resolution.Content) {
			logging.Warn().
				Str("source_file", record.Path).
				Msg("Stray conflict markers survived resolution; region may be malformed or three-way")
		}

		for _, reject := range resolution.Rejects {
			rejects = append(rejects, artifact.Reject{Source: record.Path, Content: reject})
		}

		classified := classify.Document(record.Path, resolution.Content)
		for _, reject := range classified.Rejects {
			rejects = append(rejects, artifact.Reject{Source: record.Path, Content: reject})
		}
		aud.SchemaFailures = append(aud.SchemaFailures, classified.Invalid...)
		lessons = append(lessons, classified.Lessons...)
		vocab = append(vocab, classified.Vocabulary...)
	}

	mergedLessons, lessonClusters := dedupe.MergeLessons(lessons)
	mergedVocab, vocabClusters := dedupe.MergeVocabulary(vocab)
	aud.DuplicateClusters = lessonClusters.Countable() + vocabClusters.Countable()
	for key, ids := range lessonClusters {
		aud.DuplicateGroups[key] = ids
	}
	for key, ids := range vocabClusters {
		aud.DuplicateGroups[key] = ids
	}

	finalLessons := finalizeLessons(aud, mergedLessons)
	finalVocab := finalizeVocabulary(aud, mergedVocab)

	aud.LessonCount = len(finalLessons)
	aud.VocabCount = len(finalVocab)
	aud.Rejects = len(rejects)

	summary := &Summary{Audit: aud}

	if !opts.Check {
		if err := writeArtifacts(opts, aud, finalLessons, finalVocab, rejects); err != nil {
			return summary, err
		}
		summary.Wrote = true
	}

	if opts.Strict && (len(aud.SchemaFailures) > 0 || len(aud.LevelUnset) > 0) {
		return summary, fmt.Errorf("%w: %d schema failures, %d records with UNSET level",
			errors.ErrStrictMode, len(aud.SchemaFailures), len(aud.LevelUnset))
	}

	return summary, nil
}

// finalizeLessons validates, normalizes, and orders the surviving
// lessons.
func finalizeLessons(aud *audit.Audit, lessons []corpus.Lesson) []corpus.Lesson {
	for i := range lessons {
		lesson := &lessons[i]
		if lesson.Level == corpus.LevelUnset {
			aud.RecordUnset(lesson.ID)
		}
		if err := lesson.Validate(); err != nil {
			aud.SchemaFailures = append(aud.SchemaFailures, fmt.Sprintf("%s: %v", lesson.ID, err))
		}
		sort.Strings(lesson.SourceFiles)
		sort.Strings(lesson.Tags)
	}
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].SortKey() < lessons[j].SortKey()
	})
	return lessons
}

// finalizeVocabulary validates, normalizes, and orders the surviving
// vocabulary entries.
func finalizeVocabulary(aud *audit.Audit, vocab []corpus.Vocabulary) []corpus.Vocabulary {
	for i := range vocab {
		entry := &vocab[i]
		if entry.Level == corpus.LevelUnset {
			aud.RecordUnset(entry.ID)
		}
		if err := entry.Validate(); err != nil {
			aud.SchemaFailures = append(aud.SchemaFailures, fmt.Sprintf("%s: %v", entry.ID, err))
		}
		sort.Strings(entry.SourceFiles)
		sort.Strings(entry.Tags)
	}
	sort.Slice(vocab, func(i, j int) bool {
		return vocab[i].SortKey() < vocab[j].SortKey()
	})
	return vocab
}

// writeArtifacts persists canonical files, rejects, and the audit
// report, then verifies the rebuild is idempotent: serializing the
// final records a second time must fingerprint identically to what
// was written.
func writeArtifacts(opts Options, aud *audit.Audit, lessons []corpus.Lesson, vocab []corpus.Vocabulary, rejects []artifact.Reject) error {
	layout := artifact.Layout{Root: opts.BuildDir}
	if err := layout.EnsureDirs(); err != nil {
		return err
	}

	lessonsJSON, err := artifact.WriteJSON(layout.LessonsPath("json"), lessons)
	if err != nil {
		return err
	}
	vocabJSON, err := artifact.WriteJSON(layout.VocabularyPath("json"), vocab)
	if err != nil {
		return err
	}

	if opts.Format == artifact.FormatYAML || opts.Format == artifact.FormatBoth {
		if err := artifact.WriteYAML(layout.LessonsPath("yaml"), lessons); err != nil {
			return err
		}
		if err := artifact.WriteYAML(layout.VocabularyPath("yaml"), vocab); err != nil {
			return err
		}
	}

	if err := artifact.WriteRejects(layout.RejectsDir(), rejects); err != nil {
		return err
	}

	body := aud.Render()
	if err := artifact.WriteReport(layout.AuditPath(), body); err != nil {
		return err
	}

	first := artifact.Fingerprint(
		[2]string{"lessons", lessonsJSON},
		[2]string{"vocabulary", vocabJSON},
		[2]string{"audit", body},
	)
	lessonsAgain, err := artifact.MarshalJSON(lessons)
	if err != nil {
		return err
	}
	vocabAgain, err := artifact.MarshalJSON(vocab)
	if err != nil {
		return err
	}
	second := artifact.Fingerprint(
		[2]string{"lessons", lessonsAgain},
		[2]string{"vocabulary", vocabAgain},
		[2]string{"audit", body},
	)
	if first != second {
		return errors.New("idempotency check failed")
	}

	return nil
}
