// Package decomp reads Make Me a Hanzi data: radicals for the candidate
// filter, plus definitions and decompositions for lookups.
package decomp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"
)

// unknown marks a missing decomposition in the source data.
const unknown = "？"

// Entry is one character of the dictionary.
type Entry struct {
	Character     string   `json:"character"`
	Definition    string   `json:"definition"`
	Pinyin        []string `json:"pinyin"`
	Decomposition string   `json:"decomposition"`
	Radical       string   `json:"radical"`
}

// Components returns the direct components of the character.
func (e *Entry) Components() []string {
	return Components(e.Decomposition)
}

// Structure returns how the components are arranged.
func (e *Entry) Structure() Structure {
	return ParseStructure(e.Decomposition)
}

// Table maps characters to their entries and radicals to the characters
// that share them.
type Table struct {
	entries   map[string]*Entry
	byRadical map[string][]string
	skipped   int
}

// New creates an empty table.
func New() *Table {
	return &Table{
		entries:   make(map[string]*Entry),
		byRadical: make(map[string][]string),
	}
}

// ReadFile loads a Make Me a Hanzi dictionary.txt file.
func (t *Table) ReadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening decomposition file: %w", err)
	}
	defer f.Close()

	return t.Read(f)
}

// Read loads one JSON entry per line. Malformed lines are counted and
// skipped; a later entry for the same character replaces the earlier one.
func (t *Table) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil || e.Character == "" {
			t.skipped++
			continue
		}
		t.put(&e)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading decomposition file: %w", err)
	}
	return nil
}

func (t *Table) put(e *Entry) {
	if old := t.entries[e.Character]; old != nil && old.Radical != "" {
		chars := t.byRadical[old.Radical]
		for i, c := range chars {
			if c == e.Character {
				t.byRadical[old.Radical] = append(chars[:i], chars[i+1:]...)
				break
			}
		}
	}
	t.entries[e.Character] = e
	if e.Radical != "" {
		t.byRadical[e.Radical] = append(t.byRadical[e.Radical], e.Character)
	}
}

// Lookup returns the entry of a character, or nil.
func (t *Table) Lookup(char string) *Entry {
	return t.entries[char]
}

// Size returns the number of characters.
func (t *Table) Size() int {
	return len(t.entries)
}

// Skipped returns how many lines could not be read.
func (t *Table) Skipped() int {
	return t.skipped
}

// Radical returns the radical of a character, or "" when unknown.
func (t *Table) Radical(char string) string {
	if e := t.entries[char]; e != nil {
		return e.Radical
	}
	return ""
}

// Sharing returns the characters with the given radical, sorted.
func (t *Table) Sharing(radical string) []string {
	out := append([]string(nil), t.byRadical[radical]...)
	sort.Strings(out)
	return out
}

// Structure is the arrangement named by an ideographic description
// character.
type Structure int

const (
	StructureUnknown Structure = iota
	StructureSimple
	StructureLeftRight
	StructureTopBottom
	StructureLeftMiddleRight
	StructureTopMiddleBottom
	StructureSurround
	StructureSurroundTop
	StructureSurroundBottom
	StructureSurroundLeft
	StructureSurroundUpperLeft
	StructureSurroundUpperRight
	StructureSurroundLowerLeft
	StructureOverlaid
)

// idc maps U+2FF0..U+2FFB to their structures.
var idc = map[rune]Structure{
	'⿰': StructureLeftRight,
	'⿱': StructureTopBottom,
	'⿲': StructureLeftMiddleRight,
	'⿳': StructureTopMiddleBottom,
	'⿴': StructureSurround,
	'⿵': StructureSurroundTop,
	'⿶': StructureSurroundBottom,
	'⿷': StructureSurroundLeft,
	'⿸': StructureSurroundUpperLeft,
	'⿹': StructureSurroundUpperRight,
	'⿺': StructureSurroundLowerLeft,
	'⿻': StructureOverlaid,
}

var structureNames = [...]string{
	"unknown", "simple", "left-right", "top-bottom", "left-mid-right",
	"top-mid-bottom", "surround", "surround-top", "surround-bottom",
	"surround-left", "surround-upper-left", "surround-upper-right",
	"surround-lower-left", "overlaid",
}

func (s Structure) String() string {
	if s < 0 || int(s) >= len(structureNames) {
		return fmt.Sprintf("Structure(%d)", int(s))
	}
	return structureNames[s]
}

// ParseStructure returns the outermost structure of an ideographic
// description sequence.
func ParseStructure(ids string) Structure {
	if ids == "" || ids == unknown {
		return StructureUnknown
	}
	for _, r := range ids {
		if s, ok := idc[r]; ok {
			return s
		}
	}
	return StructureSimple
}

// Components returns the component characters of an ideographic
// description sequence in order.
func Components(ids string) []string {
	if ids == "" || ids == unknown {
		return nil
	}
	var out []string
	for _, r := range ids {
		if _, ok := idc[r]; ok {
			continue
		}
		if unicode.Is(unicode.Han, r) || isRadical(r) {
			out = append(out, string(r))
		}
	}
	return out
}

// isRadical reports whether r is in the CJK Radicals Supplement or Kangxi
// Radicals blocks.
func isRadical(r rune) bool {
	return (r >= 0x2E80 && r <= 0x2EFF) || (r >= 0x2F00 && r <= 0x2FDF)
}

// Describe formats a decomposition for display, e.g. "left-right: 女 + 子".
func Describe(ids string) string {
	s := ParseStructure(ids)
	if s == StructureUnknown {
		return "no decomposition"
	}
	parts := Components(ids)
	if len(parts) == 0 {
		return s.String()
	}
	return s.String() + ": " + strings.Join(parts, " + ")
}
