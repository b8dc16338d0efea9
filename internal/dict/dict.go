// Package dict holds the candidate words of every syllable id, plus the
// emoji keyword table.
package dict

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/pinyin"
	"github.com/f3rmion/pyime/internal/syllable"
	"gopkg.in/yaml.v3"
)

// RadicalSource returns the radical of a character.
type RadicalSource interface {
	Radical(char string) string
}

// Dict is the candidate dictionary. Build it fully, then treat it as
// read-only: lookups do not lock.
type Dict struct {
	trie     *syllable.Trie
	words    map[int][]*input.Word
	byValue  map[string][]*input.Word
	emojis   []*input.Word
	keywords map[string][]*input.Word
}

// New creates an empty dictionary over trie.
func New(trie *syllable.Trie) *Dict {
	return &Dict{
		trie:     trie,
		words:    make(map[int][]*input.Word),
		byValue:  make(map[string][]*input.Word),
		keywords: make(map[string][]*input.Word),
	}
}

// FromPinyin builds a dictionary holding every hanzi go-pinyin knows, one
// word per distinct toneless reading.
func FromPinyin(trie *syllable.Trie) *Dict {
	d := New(trie)
	pinyin.EachReading(func(char rune, readings []string) {
		for _, reading := range readings {
			d.Add(string(char), reading, 0)
		}
	})
	return d
}

// Add registers value under the syllable of spell. It reports false when
// spell is not a known syllable. Adding the same value and spell twice
// keeps the higher weight.
func (d *Dict) Add(value, spell string, weight int) bool {
	id, ok := d.trie.ID(pinyin.Normalize(spell))
	if !ok || value == "" {
		return false
	}

	for _, w := range d.words[id] {
		if w.Value == value && w.Spell == spell {
			w.Weight = max(w.Weight, weight)
			return true
		}
	}

	w := &input.Word{Value: value, Spell: spell, Syllable: id, Weight: weight}
	d.words[id] = append(d.words[id], w)
	d.byValue[value] = append(d.byValue[value], w)
	return true
}

// AddEmoji registers an emoji with the keywords it matches.
func (d *Dict) AddEmoji(value string, keywords []string) {
	w := &input.Word{Value: value, Syllable: -1, Emoji: true}
	d.emojis = append(d.emojis, w)
	for _, k := range keywords {
		d.keywords[k] = append(d.keywords[k], w)
	}
}

// SetVariant records the traditional/simplified counterpart of value.
func (d *Dict) SetVariant(value, variant string) {
	for _, w := range d.byValue[value] {
		w.Variant = variant
	}
}

// ApplyRadicals fills the radical of every word from src.
func (d *Dict) ApplyRadicals(src RadicalSource) {
	for value, words := range d.byValue {
		r := src.Radical(value)
		if r == "" {
			continue
		}
		for _, w := range words {
			w.Radical = r
		}
	}
}

// Words returns the candidates of a syllable id in insertion order.
func (d *Dict) Words(id int) []*input.Word {
	return d.words[id]
}

// Candidates returns the candidates of a spelling. A complete syllable
// yields its own words; a partial spelling yields the words of every
// syllable below it, shorter syllables first.
func (d *Dict) Candidates(spelling string) []*input.Word {
	node := d.trie.Find(spelling)
	if node == nil {
		return nil
	}
	if node.IsSyllable() {
		return d.words[node.ID()]
	}

	var out []*input.Word
	for _, s := range node.AllSyllablesBelow() {
		id, _ := d.trie.ID(s)
		out = append(out, d.words[id]...)
	}
	return out
}

// Lookup returns every word with the given value.
func (d *Dict) Lookup(value string) []*input.Word {
	return d.byValue[value]
}

// Emojis returns the emojis matching any keyword, without duplicates, in
// keyword order.
func (d *Dict) Emojis(keywords []string) []*input.Word {
	var out []*input.Word
	for _, k := range keywords {
		for _, w := range d.keywords[k] {
			if !slices.Contains(out, w) {
				out = append(out, w)
			}
		}
	}
	return out
}

// Spells returns the distinct tone-marked spells among words, tone ordered.
func Spells(words []*input.Word) []string {
	var spells []string
	for _, w := range words {
		if w.Spell != "" && !slices.Contains(spells, w.Spell) {
			spells = append(spells, w.Spell)
		}
	}
	pinyin.SortByTone(spells)
	return spells
}

// Radicals returns the distinct radicals among words in first-seen order.
func Radicals(words []*input.Word) []string {
	var radicals []string
	for _, w := range words {
		if w.Radical != "" && !slices.Contains(radicals, w.Radical) {
			radicals = append(radicals, w.Radical)
		}
	}
	return radicals
}

// Size returns the number of distinct values.
func (d *Dict) Size() int {
	return len(d.byValue)
}

// Extras is the user-maintained supplement to the built-in candidates.
type Extras struct {
	Words []struct {
		Value  string `yaml:"value"`
		Spell  string `yaml:"spell"`
		Weight int    `yaml:"weight,omitempty"`
	} `yaml:"words"`
	Variants map[string]string `yaml:"variants"`
	Emojis   []struct {
		Value    string   `yaml:"value"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"emojis"`
}

// LoadExtras reads an extras YAML file.
func LoadExtras(path string) (*Extras, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading extras file: %w", err)
	}

	var extras Extras
	if err := yaml.Unmarshal(data, &extras); err != nil {
		return nil, fmt.Errorf("parsing extras file: %w", err)
	}

	return &extras, nil
}

// Apply adds the extras to d. Words with an unknown spell are returned.
func (d *Dict) Apply(extras *Extras) []string {
	var skipped []string
	for _, w := range extras.Words {
		if !d.Add(w.Value, w.Spell, w.Weight) {
			skipped = append(skipped, strings.TrimSpace(w.Value+" "+w.Spell))
		}
	}
	for value, variant := range extras.Variants {
		d.SetVariant(value, variant)
	}
	for _, e := range extras.Emojis {
		d.AddEmoji(e.Value, e.Keywords)
	}
	return skipped
}
