package predict

import (
	"testing"

	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/f3rmion/pyime/internal/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type table map[string][]*input.Word

func (t table) Candidates(spelling string) []*input.Word { return t[spelling] }

var (
	ni   = &input.Word{Value: "你", Spell: "nǐ"}
	ni2  = &input.Word{Value: "尼", Spell: "ní"}
	hao  = &input.Word{Value: "好", Spell: "hǎo"}
	hao2 = &input.Word{Value: "号", Spell: "hào"}
	men  = &input.Word{Value: "们", Spell: "men"}
)

func words() table {
	return table{
		"ni":  {ni2, ni},
		"hao": {hao2, hao},
		"men": {men},
	}
}

func trained(t *testing.T, phrases map[string]int) *hmm.Model {
	t.Helper()
	m := hmm.New()
	for p, c := range phrases {
		var ws []string
		for _, r := range p {
			ws = append(ws, string(r))
		}
		_, err := m.Ingest(ws, c)
		require.NoError(t, err)
	}
	return m
}

func values(ws []*input.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		if w != nil {
			out[i] = w.Value
		}
	}
	return out
}

func TestPredict_PrefersObservedChain(t *testing.T) {
	m := trained(t, map[string]int{"你好": 3, "尼号": 1})
	p := New(m)

	got := p.Predict([][]*input.Word{{ni2, ni}, {hao2, hao}})
	assert.Equal(t, []string{"你", "好"}, values(got))
}

func TestPredict_Monotonicity(t *testing.T) {
	// 你好 out-counts every alternative at each step.
	m := trained(t, map[string]int{"你好": 2, "尼号": 1, "你号": 1, "尼好": 1})
	p := New(m)

	got := p.Predict([][]*input.Word{{ni2, ni}, {hao2, hao}})
	assert.Equal(t, []string{"你", "好"}, values(got))

	got = p.Predict([][]*input.Word{{ni, ni2}, {hao, hao2}})
	assert.Equal(t, []string{"你", "好"}, values(got), "candidate order must not matter")
}

func TestPredict_UnseenTiesKeepFirst(t *testing.T) {
	p := New(hmm.New())

	got := p.Predict([][]*input.Word{{ni2, ni}, {hao2, hao}})
	assert.Equal(t, []string{"尼", "号"}, values(got))
}

func TestPredict_EmptyPosition(t *testing.T) {
	p := New(hmm.New())
	assert.Nil(t, p.Predict(nil))
	assert.Nil(t, p.Predict([][]*input.Word{{ni}, {}}))
}

func TestCandidates(t *testing.T) {
	m := trained(t, map[string]int{"你": 4})
	p := New(m, WithMaxCandidates(1))

	got := p.Candidates(input.NewPending("ni"), words())
	assert.Equal(t, []string{"你"}, values(got), "heavier word first, capped")

	confirmed := input.NewPending("ni")
	confirmed.SetWord(ni2, true)
	assert.Equal(t, []*input.Word{ni2}, p.Candidates(confirmed, words()))

	assert.Nil(t, p.Candidates(input.NewLatin("ok"), words()))
	assert.Nil(t, p.Candidates(input.NewPending("zhong"), words()))
}

func TestFill_KeepsConfirmedAndSplitsOnGaps(t *testing.T) {
	m := trained(t, map[string]int{"你好": 3, "尼号": 5})
	p := New(m)

	first := input.NewPending("ni")
	first.SetWord(ni, true)
	window := input.Phrase{first, input.NewPending("hao"), input.NewLatin("ok"), input.NewPending("men")}

	got := p.Fill(window, words())

	assert.Equal(t, []string{"你", "好", "", "们"}, values(wordsOf(got)))
	assert.True(t, got[0].Confirmed)
	assert.False(t, got[1].Confirmed)
	assert.Nil(t, window[1].Word, "input window is not mutated")
}

func TestFill_Idempotent(t *testing.T) {
	m := trained(t, map[string]int{"你好": 3, "好们": 1})
	p := New(m)

	window := input.Phrase{input.NewPending("ni"), input.NewPending("hao"), input.NewPending("men")}
	once := p.Fill(window, words())
	twice := p.Fill(once, words())

	assert.Equal(t, values(wordsOf(once)), values(wordsOf(twice)))
	assert.Equal(t, []string{"你", "好", "们"}, values(wordsOf(twice)))
}

func wordsOf(ph input.Phrase) []*input.Word {
	out := make([]*input.Word, len(ph))
	for i, p := range ph {
		out[i] = p.Word
	}
	return out
}
