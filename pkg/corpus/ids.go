package corpus

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
	"lukechampine.com/blake3"
)

// VocabularyID derives the canonical id for a vocabulary entry from
// its identity fields: a URL-safe base64 blake3 digest of the
// lowercased headword|pos|gender composite. Stable across runs.
func VocabularyID(spanish, pos, gender string) string {
	key := fmt.Sprintf("%s|%s|%s",
		strings.ToLower(spanish),
		strings.ToLower(pos),
		genderOrNull(gender),
	)
	sum := blake3.Sum256([]byte(key))
	return "mmspanish__vocab_" + base64.RawURLEncoding.EncodeToString(sum[:])
}

// LessonID derives the canonical id for a lesson from its unit and
// slugified title.
func LessonID(unit int, title string) string {
	return fmt.Sprintf("mmspanish__grammar_%03d_%s", unit, slug.Make(title))
}

// Slugify returns the URL-safe slug used for lesson nicknames.
func Slugify(s string) string {
	return slug.Make(s)
}
