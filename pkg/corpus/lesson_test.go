package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLesson() Lesson {
	return Lesson{
		ID:           LessonID(1, "Ser vs Estar"),
		Title:        "Ser vs Estar",
		Nickname:     "ser-vs-estar",
		Level:        LevelA1,
		Unit:         1,
		LessonNumber: 2,
		Steps: []LessonStep{
			{Phase: PhaseEnglishAnchor, Line: "Two ways to say to be."},
			{Phase: PhaseSystemLogic, Line: "Ser for essence, estar for state."},
			{Phase: PhaseMeaningDepth, Origin: "From Latin sedere and stare."},
			{Phase: PhaseSpanishEntry, Line: "ser / estar"},
			{Phase: PhaseExamples, Items: []string{"Soy alto. | I am tall."}},
		},
	}
}

func TestLessonValidate(t *testing.T) {
	l := validLesson()
	require.NoError(t, l.Validate())

	tests := []struct {
		name   string
		mutate func(*Lesson)
	}{
		{"missing id", func(l *Lesson) { l.ID = "" }},
		{"missing title", func(l *Lesson) { l.Title = " " }},
		{"missing nickname", func(l *Lesson) { l.Nickname = "" }},
		{"no steps", func(l *Lesson) { l.Steps = nil }},
		{"bad step", func(l *Lesson) { l.Steps[0].Line = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validLesson()
			tt.mutate(&l)
			assert.Error(t, l.Validate())
		})
	}
}

func TestLessonStepValidate(t *testing.T) {
	tests := []struct {
		name    string
		step    LessonStep
		wantErr bool
	}{
		{"anchor with line", LessonStep{Phase: PhaseEnglishAnchor, Line: "x"}, false},
		{"anchor without line", LessonStep{Phase: PhaseEnglishAnchor}, true},
		{"logic without line", LessonStep{Phase: PhaseSystemLogic, Line: " "}, true},
		{"entry with line", LessonStep{Phase: PhaseSpanishEntry, Line: "ser"}, false},
		{"meaning depth empty ok", LessonStep{Phase: PhaseMeaningDepth}, false},
		{"examples with items", LessonStep{Phase: PhaseExamples, Items: []string{"a | b"}}, false},
		{"examples without items", LessonStep{Phase: PhaseExamples}, true},
		{"unknown phase", LessonStep{Phase: "quiz", Line: "x"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLessonIdentityKey(t *testing.T) {
	a := validLesson()
	b := validLesson()
	b.Title = "SER VS ESTAR"
	assert.Equal(t, a.IdentityKey(), b.IdentityKey(), "title comparison is case-insensitive")

	// With ordinals assigned the nickname is irrelevant.
	c := validLesson()
	c.Nickname = "different-nickname"
	assert.Equal(t, a.IdentityKey(), c.IdentityKey())

	// Without ordinals the nickname becomes the discriminator.
	d := validLesson()
	d.Unit = UnassignedOrdinal
	d.LessonNumber = UnassignedOrdinal
	e := validLesson()
	e.Unit = UnassignedOrdinal
	e.LessonNumber = UnassignedOrdinal
	e.Nickname = "other"
	assert.NotEqual(t, d.IdentityKey(), e.IdentityKey())
	assert.NotEqual(t, a.IdentityKey(), d.IdentityKey())
}

func TestLessonSortKey(t *testing.T) {
	a := validLesson()
	b := validLesson()
	b.Unit = 2
	assert.Less(t, a.SortKey(), b.SortKey())

	unassigned := validLesson()
	unassigned.Unit = UnassignedOrdinal
	unassigned.LessonNumber = UnassignedOrdinal
	assert.Less(t, b.SortKey(), unassigned.SortKey(), "unassigned ordinals sort after real ones")
}

func TestLessonID(t *testing.T) {
	assert.Equal(t, "mmspanish__grammar_001_ser-vs-estar", LessonID(1, "Ser vs Estar"))
	assert.Equal(t, "mmspanish__grammar_9999_por-y-para", LessonID(UnassignedOrdinal, "¡Por y Para!"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "ser-vs-estar", Slugify("Ser vs Estar"))
	assert.Equal(t, "manana", Slugify("Mañana"))
}
