package corpus

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmspanish/healer/pkg/errors"
)

func validVocab() Vocabulary {
	return Vocabulary{
		ID:           VocabularyID("perro", "noun", "masculine"),
		Spanish:      "perro",
		POS:          "noun",
		Gender:       "masculine",
		EnglishGloss: "dog",
		Definition:   "a domesticated canine",
		Examples:     []ExamplePair{{ES: "El perro ladra.", EN: "The dog barks."}},
		Level:        LevelA1,
	}
}

func TestVocabularyValidate(t *testing.T) {
	v := validVocab()
	require.NoError(t, v.Validate())

	tests := []struct {
		name   string
		mutate func(*Vocabulary)
		field  string
	}{
		{"missing id", func(v *Vocabulary) { v.ID = "" }, "id"},
		{"blank spanish", func(v *Vocabulary) { v.Spanish = "   " }, "spanish"},
		{"missing pos", func(v *Vocabulary) { v.POS = "" }, "pos"},
		{"missing gloss", func(v *Vocabulary) { v.EnglishGloss = "" }, "english_gloss"},
		{"missing definition", func(v *Vocabulary) { v.Definition = "" }, "definition"},
		{"no examples", func(v *Vocabulary) { v.Examples = nil }, "examples"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validVocab()
			tt.mutate(&v)
			err := v.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestVocabularyIdentityKey(t *testing.T) {
	a := validVocab()
	b := validVocab()
	b.Spanish = "PERRO"
	b.POS = "Noun"
	assert.Equal(t, a.IdentityKey(), b.IdentityKey(), "identity is case-insensitive")

	c := validVocab()
	c.Gender = ""
	assert.NotEqual(t, a.IdentityKey(), c.IdentityKey(), "gender participates in identity")
	assert.True(t, strings.HasSuffix(c.IdentityKey(), "|null"))

	d := validVocab()
	d.POS = "verb"
	assert.NotEqual(t, a.IdentityKey(), d.IdentityKey())
}

func TestVocabularySortKey(t *testing.T) {
	a := validVocab()
	a.Level = LevelA1
	b := validVocab()
	b.Level = LevelB2
	assert.Less(t, a.SortKey(), b.SortKey())

	u := validVocab()
	u.Level = LevelUnset
	assert.Less(t, b.SortKey(), u.SortKey(), "UNSET sorts last")
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"m", "masculine"},
		{"M", "masculine"},
		{"masculine", "masculine"},
		{"f", "feminine"},
		{" Feminine ", "feminine"},
		{"", ""},
		{"neuter", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeGender(tt.input), "input %q", tt.input)
	}
}

func TestVocabularyIDStable(t *testing.T) {
	first := VocabularyID("perro", "noun", "masculine")
	assert.Equal(t, first, VocabularyID("PERRO", "NOUN", "Masculine"))
	assert.True(t, strings.HasPrefix(first, "mmspanish__vocab_"))
	assert.NotContains(t, first, "=")
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")

	assert.NotEqual(t, first, VocabularyID("perro", "noun", ""))
}

func TestExamplePairNormalizeKey(t *testing.T) {
	a := ExamplePair{ES: "  El  perro ladra. ", EN: "The dog barks."}
	b := ExamplePair{ES: "El perro ladra.", EN: "THE DOG BARKS."}
	assert.Equal(t, a.NormalizeKey(), b.NormalizeKey())

	c := ExamplePair{ES: "El gato maúlla.", EN: "The cat meows."}
	assert.NotEqual(t, a.NormalizeKey(), c.NormalizeKey())
}
