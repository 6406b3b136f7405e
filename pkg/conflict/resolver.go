// Package conflict resolves two-sided version-control conflict
// markers embedded in free-form text. Each region's variants are
// parsed tolerantly and structurally merged; text outside regions is
// copied through byte-for-byte.
package conflict

import (
	"regexp"
	"strings"

	"github.com/mmspanish/healer/pkg/merge"
	"github.com/mmspanish/healer/pkg/tree"
)

// regionRE matches one two-sided conflict region: a start marker line,
// the left variant, the ======= separator line, the right variant, and
// an end marker line with an optional trailing newline. In a three-way
// (diff3) region the lazy left group absorbs the ||||||| base section,
// so the left variant fails to parse and the right side wins.
var regionRE = regexp.MustCompile(`(?s)<<<<<<<[^\n]*\n(.*?)\n=======\n(.*?)\n>>>>>>>[^\n]*\n?`)

// strayMarkerRE detects marker lines that survived resolution, used by
// callers to flag malformed regions.
var strayMarkerRE = regexp.MustCompile(`(?m)^(<<<<<<<|=======$|>>>>>>>|\|\|\|\|\|\|\|)`)

// Resolution is the outcome of resolving one document.
type Resolution struct {
	// Content is the document with every region replaced by its
	// resolution. Input with no regions comes back unchanged.
	Content string

	// Rejects holds fragments destined for human review: joined merge
	// notes for merged regions, or both raw sides for regions where
	// neither side parsed.
	Rejects []string

	// Conflicts counts regions encountered, regardless of how each
	// one resolved.
	Conflicts int

	// HadConflicts reports whether any region was found.
	HadConflicts bool
}

// Resolve scans a document for conflict regions and resolves each one
// in document order:
//
//   - both sides parse: structural merge, pretty-printed; merge notes
//     become one newline-joined reject fragment.
//   - one side parses: that side re-serialized, the other dropped.
//   - neither parses: the right side substituted verbatim, both raw
//     sides pushed as reject fragments.
//
// The markers and separator are always removed.
func Resolve(document string) Resolution {
	var (
		out       strings.Builder
		rejects   []string
		conflicts int
		cursor    int
	)

	for _, m := range regionRE.FindAllStringSubmatchIndex(document, -1) {
		out.WriteString(document[cursor:m[0]])
		cursor = m[1]
		left := document[m[2]:m[3]]
		right := document[m[4]:m[5]]
		conflicts++

		replacement, noteRejects := resolveRegion(left, right)
		rejects = append(rejects, noteRejects...)
		out.WriteString(replacement)
	}
	out.WriteString(document[cursor:])

	return Resolution{
		Content:      out.String(),
		Rejects:      rejects,
		Conflicts:    conflicts,
		HadConflicts: conflicts > 0,
	}
}

// resolveRegion resolves one extracted region and returns the text to
// splice in plus any reject fragments.
func resolveRegion(left, right string) (string, []string) {
	leftVal, leftErr := tree.Parse(left)
	rightVal, rightErr := tree.Parse(right)

	switch {
	case leftErr == nil && rightErr == nil:
		outcome := merge.Merge(leftVal, rightVal, "")
		var rejects []string
		if len(outcome.Notes) > 0 {
			lines := make([]string, len(outcome.Notes))
			for i, note := range outcome.Notes {
				lines[i] = note.String()
			}
			rejects = append(rejects, strings.Join(lines, "\n"))
		}
		return tree.EncodePretty(outcome.Value), rejects

	case leftErr == nil:
		// The unparseable right side is dropped without a note; this
		// gap is part of the contract and covered by tests.
		return tree.EncodePretty(leftVal), nil

	case rightErr == nil:
		return tree.EncodePretty(rightVal), nil

	default:
		return right, []string{left, right}
	}
}

// HasStrayMarkers reports whether resolved content still contains
// marker lines, which indicates a malformed (for example three-way)
// region the two-sided grammar refused to touch.
func HasStrayMarkers(content string) bool {
	return strayMarkerRE.MatchString(content)
}
