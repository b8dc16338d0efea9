package pinyin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in       string
		toneless string
		tone     Tone
	}{
		{"zhōng", "zhong", Tone1},
		{"hǎo", "hao", Tone3},
		{"lǜ", "lv", Tone4},
		{"lü", "lv", Tone5},
		{"de", "de", Tone5},
		{"ZHONG1", "zhong", Tone1},
		{"ń", "n", Tone2},
		{" shì ", "shi", Tone4},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Parse(tt.in)
			assert.Equal(t, tt.toneless, got.Toneless)
			assert.Equal(t, tt.tone, got.Tone)
		})
	}
}

func TestSortByTone(t *testing.T) {
	spells := []string{"zhòng", "de", "zhōng", "dí"}
	SortByTone(spells)
	assert.Equal(t, []string{"de", "dí", "zhōng", "zhòng"}, spells)
}

func TestHanziRuns(t *testing.T) {
	got := HanziRuns("我爱你, hello 中国!")
	assert.Equal(t, [][]string{{"我", "爱", "你"}, {"中", "国"}}, got)
	assert.Empty(t, HanziRuns("plain latin"))
}

func TestParser_ParseChar(t *testing.T) {
	p := NewParser()
	readings := p.ParseChar("好")
	assert.NotEmpty(t, readings)
	for _, r := range readings {
		assert.Equal(t, "hao", r.Toneless)
	}
	assert.Nil(t, p.ParseChar("a"))
}

func TestEachReading(t *testing.T) {
	seen := 0
	var last rune
	EachReading(func(char rune, readings []string) {
		assert.Greater(t, char, last)
		last = char
		assert.NotEmpty(t, readings)
		seen++
	})
	assert.Greater(t, seen, 20000)
}
