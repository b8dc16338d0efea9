// Package input holds the data types shared by the decoder, ranker and
// predictor: keys, pending syllables, candidate words, filters and phrases.
package input

import (
	"slices"
	"strings"

	"github.com/f3rmion/pyime/internal/syllable"
)

// Key is one typed or traced letter tagged with its decoding level.
type Key struct {
	Letter byte
	Level  syllable.Level
}

// Word is a candidate hanzi, word or emoji for one syllable id.
type Word struct {
	Value    string // display form
	Spell    string // canonical tone-marked spelling, e.g. "zhōng"
	Syllable int    // syllable id, -1 for emoji
	Variant  string // traditional/simplified counterpart, may be empty
	Radical  string
	Weight   int
	Emoji    bool
}

// PendingSyllable accumulates the input for one in-progress character.
type PendingSyllable struct {
	Keys      []Key
	Word      *Word
	Confirmed bool // the word was chosen by the user; prediction must keep it
	Latin     bool // the keys are plain Latin text, not pinyin
}

// NewPending creates a pending syllable holding spelling, tagged by level.
func NewPending(spelling string) *PendingSyllable {
	p := &PendingSyllable{}
	p.SetSpelling(spelling)
	return p
}

// NewLatin creates a pending Latin word.
func NewLatin(text string) *PendingSyllable {
	p := NewPending(text)
	p.Latin = true
	return p
}

// Spelling returns the letters of all keys.
func (p *PendingSyllable) Spelling() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(p.Keys))
	for _, k := range p.Keys {
		sb.WriteByte(k.Letter)
	}
	return sb.String()
}

// SetSpelling replaces the keys with spelling, re-deriving each key's level.
func (p *PendingSyllable) SetSpelling(spelling string) {
	p.Keys = p.Keys[:0]
	for i := 0; i < len(spelling); i++ {
		p.Keys = append(p.Keys, Key{Letter: spelling[i], Level: syllable.LevelAt(spelling, i)})
	}
}

// IsEmpty reports whether no key has been accepted.
func (p *PendingSyllable) IsEmpty() bool {
	return p == nil || len(p.Keys) == 0
}

// LastKey returns the last accepted key.
func (p *PendingSyllable) LastKey() (Key, bool) {
	if p.IsEmpty() {
		return Key{}, false
	}
	return p.Keys[len(p.Keys)-1], true
}

// SetWord assigns a word and marks whether the user chose it.
func (p *PendingSyllable) SetWord(w *Word, confirmed bool) {
	p.Word = w
	p.Confirmed = confirmed
}

// ClearWord drops the word and the confirmed flag.
func (p *PendingSyllable) ClearWord() {
	p.Word = nil
	p.Confirmed = false
}

// Clone returns a deep copy. Words are shared; they are never mutated.
func (p *PendingSyllable) Clone() *PendingSyllable {
	if p == nil {
		return nil
	}
	c := *p
	c.Keys = slices.Clone(p.Keys)
	return &c
}

// Text returns the display text: the word if any, else the spelling.
func (p *PendingSyllable) Text() string {
	if p.Word != nil {
		return p.Word.Value
	}
	return p.Spelling()
}

// Filter narrows a candidate list by spell and radical.
type Filter struct {
	Spells   []string
	Radicals []string
}

// IsEmpty reports whether no constraint is set.
func (f Filter) IsEmpty() bool {
	return len(f.Spells) == 0 && len(f.Radicals) == 0
}

// Matches reports whether w passes the filter. Emojis never pass a
// non-empty filter.
func (f Filter) Matches(w *Word) bool {
	if f.IsEmpty() {
		return true
	}
	if w.Emoji {
		return false
	}
	if len(f.Spells) > 0 && !slices.Contains(f.Spells, w.Spell) {
		return false
	}
	if len(f.Radicals) > 0 && !slices.Contains(f.Radicals, w.Radical) {
		return false
	}
	return true
}

// ToggleSpell selects spell, or clears it when already selected. Spell
// selection is single-choice and resets the radicals.
func (f Filter) ToggleSpell(spell string) Filter {
	if slices.Contains(f.Spells, spell) {
		return Filter{}
	}
	return Filter{Spells: []string{spell}}
}

// ToggleRadical adds or removes a radical constraint.
func (f Filter) ToggleRadical(radical string) Filter {
	out := Filter{Spells: slices.Clone(f.Spells)}
	if i := slices.Index(f.Radicals, radical); i >= 0 {
		out.Radicals = slices.Delete(slices.Clone(f.Radicals), i, i+1)
		return out
	}
	out.Radicals = append(slices.Clone(f.Radicals), radical)
	return out
}

// Phrase is an ordered window of syllable positions.
type Phrase []*PendingSyllable

// Clone deep-copies every position.
func (ph Phrase) Clone() Phrase {
	out := make(Phrase, len(ph))
	for i, p := range ph {
		out[i] = p.Clone()
	}
	return out
}

// Words returns the word values, empty for positions without a word.
func (ph Phrase) Words() []string {
	out := make([]string, len(ph))
	for i, p := range ph {
		if p.Word != nil {
			out[i] = p.Word.Value
		}
	}
	return out
}

// Text concatenates the display text of every position.
func (ph Phrase) Text() string {
	var sb strings.Builder
	for _, p := range ph {
		sb.WriteString(p.Text())
	}
	return sb.String()
}
