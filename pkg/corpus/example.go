package corpus

import (
	"strings"

	"golang.org/x/text/cases"
)

// ExamplePair is one bilingual example sentence.
type ExamplePair struct {
	ES string `json:"es" yaml:"es"`
	EN string `json:"en" yaml:"en"`
}

// NormalizeKey returns the pair's dedup key: both sides
// whitespace-normalized and case-folded.
func (p ExamplePair) NormalizeKey() [2]string {
	return [2]string{normalizeText(p.ES), normalizeText(p.EN)}
}

// normalizeText collapses runs of whitespace to single spaces and
// case-folds the result. A fresh Caser per call: casers are stateful
// and must not be shared across goroutines.
func normalizeText(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}
