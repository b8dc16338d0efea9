package decoder

import (
	"testing"

	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/syllable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggled(t *testing.T) {
	tests := []struct {
		in     string
		toggle Toggle
		want   string
		ok     bool
	}{
		{"zhong", ToggleZCS, "zong", true},
		{"zong", ToggleZCS, "zhong", true},
		{"shi", ToggleZCS, "si", true},
		{"c", ToggleZCS, "ch", true},
		{"bai", ToggleZCS, "", false},
		{"nan", ToggleNL, "lan", true},
		{"lv", ToggleNL, "nv", true},
		{"man", ToggleNL, "", false},
		{"fan", ToggleNG, "fang", true},
		{"fang", ToggleNG, "fan", true},
		{"ling", ToggleNG, "lin", true},
		{"gen", ToggleNG, "geng", true},
		{"hong", ToggleNG, "", false},
		{"", ToggleZCS, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in+"/"+tt.toggle.String(), func(t *testing.T) {
			got, ok := Toggled(tt.in, tt.toggle)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyToggle(t *testing.T) {
	trie, err := syllable.Default()
	require.NoError(t, err)

	tests := []struct {
		in     string
		toggle Toggle
		want   string
		ok     bool
	}{
		{"zhong", ToggleZCS, "zong", true},
		{"zh", ToggleZCS, "z", true},
		{"zhua", ToggleZCS, "zhua", false}, // zua is only a partial
		{"zhuai", ToggleZCS, "zhuai", false},
		{"nv", ToggleNL, "lv", true},
		{"lia", ToggleNL, "lia", false}, // nia is a partial but lia is complete
		{"ren", ToggleNG, "reng", true},
		{"kin", ToggleNG, "kin", false},
	}
	for _, tt := range tests {
		t.Run(tt.in+"/"+tt.toggle.String(), func(t *testing.T) {
			p := input.NewPending(tt.in)
			p.SetWord(&input.Word{Value: "x"}, true)

			ok := ApplyToggle(trie, p, tt.toggle)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, p.Spelling())
			if ok {
				assert.Nil(t, p.Word)
				assert.False(t, p.Confirmed)
				assert.Equal(t, input.NewPending(tt.want).Keys, p.Keys)
			} else {
				assert.NotNil(t, p.Word)
			}
		})
	}
}

func TestApplyToggle_TwiceRestores(t *testing.T) {
	trie, err := syllable.Default()
	require.NoError(t, err)

	for _, toggle := range []Toggle{ToggleZCS, ToggleNL, ToggleNG} {
		for _, s := range trie.Syllables() {
			p := input.NewPending(s)
			if !ApplyToggle(trie, p, toggle) {
				continue
			}
			require.True(t, ApplyToggle(trie, p, toggle), "%s/%s back from %s", s, toggle, p.Spelling())
			assert.Equal(t, s, p.Spelling())
		}
	}
}

func TestApplyToggle_RejectsLatinAndInvalid(t *testing.T) {
	trie, err := syllable.Default()
	require.NoError(t, err)

	assert.False(t, ApplyToggle(trie, input.NewLatin("zhong"), ToggleZCS))
	assert.False(t, ApplyToggle(trie, input.NewPending("zhx"), ToggleZCS))
	assert.False(t, ApplyToggle(trie, &input.PendingSyllable{}, ToggleNL))
}

func TestLayoutFor(t *testing.T) {
	trie, err := syllable.Default()
	require.NoError(t, err)

	assert.True(t, LayoutFor(trie.Root()).IsEmpty())
	assert.True(t, LayoutFor(nil).IsEmpty())

	l := LayoutFor(trie.Find("zh"))
	assert.Equal(t, byte('a'), l.Letter(0, 0))
	assert.Equal(t, byte('e'), l.Letter(0, 1))
	assert.Equal(t, byte('i'), l.Letter(1, 0))
	assert.Equal(t, byte(0), l.Letter(5, 1))
	assert.Equal(t, byte(0), l.Letter(-1, 0))
	assert.Equal(t, byte(0), l.Letter(0, 2))

	for _, s := range trie.Syllables() {
		node := trie.Find(s)
		assert.LessOrEqual(t, node.ChildCount(), PadZones*PadSlots, s)
	}
}
