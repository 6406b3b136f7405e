// Package artifact owns the on-disk layout of build outputs: the
// canonical record files, reject fragments for human review, and the
// audit report.
package artifact

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"lukechampine.com/blake3"

	"github.com/mmspanish/healer/pkg/errors"
)

// Output formats for canonical record files.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatBoth = "both"
)

// Layout resolves build artifact paths under one root.
type Layout struct {
	Root string
}

// CanonicalDir is where canonical record files land.
func (l Layout) CanonicalDir() string { return filepath.Join(l.Root, "canonical") }

// RejectsDir is where reject fragments land.
func (l Layout) RejectsDir() string { return filepath.Join(l.Root, "rejects") }

// ReportsDir is where the audit report lands.
func (l Layout) ReportsDir() string { return filepath.Join(l.Root, "reports") }

// LessonsPath is the canonical lessons file (json or yaml).
func (l Layout) LessonsPath(ext string) string {
	return filepath.Join(l.CanonicalDir(), "lessons.mmspanish."+ext)
}

// VocabularyPath is the canonical vocabulary file (json or yaml).
func (l Layout) VocabularyPath(ext string) string {
	return filepath.Join(l.CanonicalDir(), "vocabulary.mmspanish."+ext)
}

// AuditPath is the markdown audit report.
func (l Layout) AuditPath() string {
	return filepath.Join(l.ReportsDir(), "audit.md")
}

// EnsureDirs creates the full build directory tree.
func (l Layout) EnsureDirs() error {
	for _, dir := range []string{l.CanonicalDir(), l.ReportsDir(), l.RejectsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	return nil
}

// MarshalJSON serializes a value the way canonical files are written:
// pretty, two-space indent.
func MarshalJSON(value any) (string, error) {
	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// WriteJSON writes a canonical JSON file and returns the serialized
// text for fingerprinting.
func WriteJSON(path string, value any) (string, error) {
	text, err := MarshalJSON(value)
	if err != nil {
		return "", err
	}
	if err := writeFile(path, text); err != nil {
		return "", err
	}
	return text, nil
}

// WriteYAML writes a canonical YAML sibling file.
func WriteYAML(path string, value any) error {
	out, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return writeFile(path, string(out))
}

// Reject is one fragment destined for human review.
type Reject struct {
	Source  string
	Content string
}

// WriteRejects writes each reject to rejects/reject_NNNN.txt with a
// source header. Nothing is written when there are no rejects.
func WriteRejects(dir string, rejects []Reject) error {
	if len(rejects) == 0 {
		return nil
	}
	for i, reject := range rejects {
		path := filepath.Join(dir, fmt.Sprintf("reject_%04d.txt", i))
		body := fmt.Sprintf("# Source: %s\n%s\n", reject.Source, reject.Content)
		if err := writeFile(path, body); err != nil {
			return err
		}
	}
	return nil
}

// WriteReport writes the audit report body.
func WriteReport(path, body string) error {
	return writeFile(path, body)
}

// Fingerprint hashes labeled output texts into one digest, used for
// the rebuild idempotency check.
func Fingerprint(parts ...[2]string) string {
	h := blake3.New(32, nil)
	for _, part := range parts {
		h.Write([]byte(part[0]))
		h.Write([]byte(part[1]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
