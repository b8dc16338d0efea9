package tui

import (
	"context"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/pyime/internal/decoder"
	"github.com/f3rmion/pyime/internal/dict"
	"github.com/f3rmion/pyime/internal/engine"
	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/store"
	"github.com/f3rmion/pyime/internal/syllable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) (Model, *engine.Session) {
	t.Helper()
	trie, err := syllable.Default()
	require.NoError(t, err)

	d := dict.New(trie)
	d.Add("你", "nǐ", 10)
	d.Add("尼", "ní", 5)
	d.Add("好", "hǎo", 10)
	d.Add("号", "hào", 8)

	st, err := store.Open(filepath.Join(t.TempDir(), "pyime.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	e, err := engine.New(trie, d, engine.WithStore(st))
	require.NoError(t, err)
	s := e.NewSession(decoder.ModeSlip)
	return New(context.Background(), s), s
}

func send(m Model, msgs ...tea.KeyMsg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func runes(s string) []tea.KeyMsg {
	var msgs []tea.KeyMsg
	for _, r := range s {
		msgs = append(msgs, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return msgs
}

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	left  = tea.KeyMsg{Type: tea.KeyLeft}
	ctrlO = tea.KeyMsg{Type: tea.KeyCtrlO}
)

func TestTypeAndCommit(t *testing.T) {
	m, s := newModel(t)

	m = send(m, runes("nihao")...)
	m = send(m, space)
	assert.Equal(t, []string{"你", "好"}, s.Phrase().Words())
	assert.Contains(t, m.View(), "你")

	m = send(m, enter)
	assert.Equal(t, []string{"你好"}, m.Committed())
	assert.Empty(t, s.Phrase())
}

func TestChooseCandidate(t *testing.T) {
	m, s := newModel(t)

	m = send(m, runes("ni")...)
	m = send(m, runes("2")...)
	require.Len(t, s.Phrase(), 1)
	assert.Equal(t, "尼", s.Phrase()[0].Word.Value)
	assert.True(t, s.Phrase()[0].Confirmed)

	m = send(m, runes("9")...)
	assert.Len(t, s.Phrase(), 1)
}

func TestRechoosePhrasePosition(t *testing.T) {
	m, s := newModel(t)

	m = send(m, runes("nihao")...)
	m = send(m, space, left, left)
	m = send(m, runes("2")...)
	assert.Equal(t, []string{"尼", "好"}, s.Phrase().Words())
	assert.Equal(t, 2, m.cursor)
}

func TestSpellFilterCycles(t *testing.T) {
	m, _ := newModel(t)

	m = send(m, runes("ni")...)
	m = send(m, tab)
	assert.Equal(t, []string{"ní"}, m.filter.Spells)
	assert.Equal(t, "尼", m.candidates().Items[0].Value)

	m = send(m, tab)
	assert.Equal(t, []string{"nǐ"}, m.filter.Spells)
	m = send(m, tab)
	assert.True(t, m.filter.IsEmpty())
}

func TestCommitOptions(t *testing.T) {
	m, s := newModel(t)

	m = send(m, ctrlO)
	assert.Equal(t, decoder.StateCommitOptionChoose, s.Decoder().State())
	assert.Contains(t, m.View(), "variant")

	m = send(m, runes("s")...)
	m = send(m, enter)
	assert.Equal(t, decoder.StateIdle, s.Decoder().State())
	assert.Equal(t, decoder.SpellReplacing, s.Decoder().Options().Spell)

	m = send(m, runes("nihao")...)
	m = send(m, enter)
	assert.Equal(t, []string{"nǐhǎo"}, m.Committed())
}

func TestRejectedStatus(t *testing.T) {
	m, _ := newModel(t)
	m = send(m, runes("ni")...)
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlG})
	assert.NotEmpty(t, m.status)
}

func TestNextSpellFilter(t *testing.T) {
	spells := []string{"ní", "nǐ"}
	assert.True(t, nextSpellFilter(nil, input.Filter{}).IsEmpty())
	assert.Equal(t, []string{"ní"}, nextSpellFilter(spells, input.Filter{}).Spells)
	assert.True(t, nextSpellFilter(spells, input.Filter{Spells: []string{"x"}}).IsEmpty())
}

func TestDigitIndex(t *testing.T) {
	assert.Equal(t, 0, digitIndex("1"))
	assert.Equal(t, 8, digitIndex("9"))
	assert.Equal(t, 9, digitIndex("0"))
	assert.Equal(t, -1, digitIndex("a"))
	assert.Equal(t, -1, digitIndex("12"))
}

func TestPagingSkipsFilteredOutPages(t *testing.T) {
	trie, err := syllable.Default()
	require.NoError(t, err)

	d := dict.New(trie)
	d.Add("你", "nǐ", 10)
	d.Add("尼", "ní", 5)
	d.Add("泥", "ní", 1)
	d.Add("拟", "nǐ", 0)
	d.Add("逆", "nì", 0)

	e, err := engine.New(trie, d, engine.WithPageSize(2), engine.WithBestSize(1))
	require.NoError(t, err)
	m := New(context.Background(), e.NewSession(decoder.ModeSlip))
	nextPage := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'='}}

	m = send(m, runes("ni")...)
	assert.Equal(t, 3, m.candidates().Total)

	m = send(m, tab, tab)
	assert.Equal(t, []string{"nǐ"}, m.filter.Spells)
	assert.Equal(t, 0, m.page)

	m = send(m, nextPage)
	assert.Equal(t, 1, m.page)
	m = send(m, nextPage)
	assert.Equal(t, 0, m.page, "page 2 holds no nǐ word")

	m = send(m, tab)
	assert.Equal(t, []string{"nì"}, m.filter.Spells)
	assert.Equal(t, 2, m.page)
	assert.Equal(t, "逆", m.candidates().Items[0].Value)
}
