package input

import (
	"testing"

	"github.com/f3rmion/pyime/internal/syllable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingSyllable_SetSpelling(t *testing.T) {
	p := NewPending("zhong")
	assert.Equal(t, "zhong", p.Spelling())
	require.Len(t, p.Keys, 5)
	assert.Equal(t, syllable.LevelInitial, p.Keys[0].Level)
	assert.Equal(t, syllable.LevelInitial, p.Keys[1].Level)
	assert.Equal(t, syllable.LevelContinuation, p.Keys[2].Level)
	assert.Equal(t, syllable.LevelFinal, p.Keys[4].Level)

	last, ok := p.LastKey()
	require.True(t, ok)
	assert.Equal(t, byte('g'), last.Letter)
}

func TestPendingSyllable_CloneIsIndependent(t *testing.T) {
	p := NewPending("ni")
	p.SetWord(&Word{Value: "你"}, true)

	c := p.Clone()
	c.SetSpelling("li")
	c.ClearWord()

	assert.Equal(t, "ni", p.Spelling())
	assert.True(t, p.Confirmed)
	assert.Equal(t, "你", p.Text())
	assert.Equal(t, "li", c.Text())
}

func TestFilter_Matches(t *testing.T) {
	zhong := &Word{Value: "中", Spell: "zhōng", Radical: "丨"}
	zhong4 := &Word{Value: "重", Spell: "zhòng", Radical: "里"}
	emoji := &Word{Value: "🀄", Emoji: true}

	tests := []struct {
		name   string
		filter Filter
		word   *Word
		want   bool
	}{
		{"empty passes word", Filter{}, zhong, true},
		{"empty passes emoji", Filter{}, emoji, true},
		{"spell match", Filter{Spells: []string{"zhōng"}}, zhong, true},
		{"spell mismatch", Filter{Spells: []string{"zhōng"}}, zhong4, false},
		{"radical match", Filter{Radicals: []string{"里"}}, zhong4, true},
		{"radical mismatch", Filter{Radicals: []string{"里"}}, zhong, false},
		{"emoji excluded", Filter{Radicals: []string{"里"}}, emoji, false},
		{"both", Filter{Spells: []string{"zhòng"}, Radicals: []string{"里"}}, zhong4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.word))
		})
	}
}

func TestFilter_Toggles(t *testing.T) {
	f := Filter{}.ToggleRadical("口").ToggleRadical("木")
	assert.Equal(t, []string{"口", "木"}, f.Radicals)

	f = f.ToggleRadical("口")
	assert.Equal(t, []string{"木"}, f.Radicals)

	f = f.ToggleSpell("mù")
	assert.Equal(t, []string{"mù"}, f.Spells)
	assert.Empty(t, f.Radicals)

	f = f.ToggleSpell("mù")
	assert.True(t, f.IsEmpty())
}

func TestPhrase(t *testing.T) {
	ni := NewPending("ni")
	ni.SetWord(&Word{Value: "你"}, false)
	ph := Phrase{ni, NewPending("hao"), NewLatin("ok")}

	assert.Equal(t, []string{"你", "", ""}, ph.Words())
	assert.Equal(t, "你haook", ph.Text())

	c := ph.Clone()
	c[0].ClearWord()
	assert.Equal(t, "你", ph[0].Text())
}
