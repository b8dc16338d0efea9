// Package pinyin handles hanzi readings, tone extraction and toneless normalisation.
package pinyin

import (
	"sort"
	"strings"
	"unicode"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Tone represents the four tones of Mandarin plus neutral tone.
type Tone int

const (
	ToneUnknown Tone = 0
	Tone1       Tone = 1 // ˉ
	Tone2       Tone = 2 // ˊ
	Tone3       Tone = 3 // ˇ
	Tone4       Tone = 4 // ˋ
	Tone5       Tone = 5 // neutral
)

// Parser handles hanzi to pinyin conversion.
type Parser struct {
	args gopinyin.Args
}

// NewParser creates a new pinyin parser.
func NewParser() *Parser {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone // Returns tone marks: zhōng
	args.Heteronym = true      // Return all possible readings
	return &Parser{args: args}
}

// Reading is one pronunciation of a hanzi.
type Reading struct {
	Full     string // Full pinyin with tone mark (e.g., "lǜ")
	Toneless string // Trie spelling, ü written as v (e.g., "lv")
	Tone     Tone
}

// GetPinyin returns all tone-marked readings for a character.
func (p *Parser) GetPinyin(char string) []string {
	result := gopinyin.Pinyin(char, p.args)
	if len(result) == 0 {
		return nil
	}
	return result[0]
}

// Parse splits a tone-marked reading into its toneless spelling and tone.
func (p *Parser) Parse(pinyin string) Reading {
	return Parse(pinyin)
}

// ParseChar parses all readings of a character.
func (p *Parser) ParseChar(char string) []Reading {
	readings := p.GetPinyin(char)
	if readings == nil {
		return nil
	}

	results := make([]Reading, len(readings))
	for i, reading := range readings {
		results[i] = Parse(reading)
	}
	return results
}

// Parse splits a tone-marked reading into its toneless spelling and tone.
// Tone numbers written as a trailing digit ("zhong1") are accepted too.
func Parse(pinyin string) Reading {
	result := Reading{Full: pinyin}
	result.Tone, result.Toneless = extractTone(strings.ToLower(strings.TrimSpace(pinyin)))
	return result
}

// Normalize returns the trie spelling of a reading: lowercase, toneless,
// ü written as v, anything outside a-z dropped.
func Normalize(pinyin string) string {
	return Parse(pinyin).Toneless
}

var toneMarks = map[rune]struct {
	base rune
	tone Tone
}{
	'ā': {'a', Tone1}, 'á': {'a', Tone2}, 'ǎ': {'a', Tone3}, 'à': {'a', Tone4},
	'ē': {'e', Tone1}, 'é': {'e', Tone2}, 'ě': {'e', Tone3}, 'è': {'e', Tone4},
	'ī': {'i', Tone1}, 'í': {'i', Tone2}, 'ǐ': {'i', Tone3}, 'ì': {'i', Tone4},
	'ō': {'o', Tone1}, 'ó': {'o', Tone2}, 'ǒ': {'o', Tone3}, 'ò': {'o', Tone4},
	'ū': {'u', Tone1}, 'ú': {'u', Tone2}, 'ǔ': {'u', Tone3}, 'ù': {'u', Tone4},
	'ǖ': {'v', Tone1}, 'ǘ': {'v', Tone2}, 'ǚ': {'v', Tone3}, 'ǜ': {'v', Tone4},
	'ḿ': {'m', Tone2}, 'ń': {'n', Tone2}, 'ň': {'n', Tone3}, 'ǹ': {'n', Tone4},
	'ü': {'v', ToneUnknown}, 'ê': {'e', ToneUnknown},
}

// extractTone extracts the tone number and returns the spelling without tone marks.
func extractTone(pinyin string) (Tone, string) {
	tone := ToneUnknown
	var result strings.Builder

	for _, r := range pinyin {
		switch mark, ok := toneMarks[r]; {
		case ok:
			result.WriteRune(mark.base)
			if mark.tone != ToneUnknown {
				tone = mark.tone
			}
		case r >= '1' && r <= '5':
			tone = Tone(r - '0')
		case r >= 'a' && r <= 'z':
			result.WriteRune(r)
		case unicode.Is(unicode.Mn, r):
			// Combining marks (e.g. ê̄) carry no spelling.
		}
	}

	// If no tone mark found, it's neutral tone (5)
	if tone == ToneUnknown {
		tone = Tone5
	}

	return tone, result.String()
}

// SortByTone orders tone-marked spellings by toneless spelling, then tone.
// It is the order in which the filter bar lists the spells of a syllable.
func SortByTone(spells []string) {
	sort.SliceStable(spells, func(i, j int) bool {
		a, b := Parse(spells[i]), Parse(spells[j])
		if a.Toneless != b.Toneless {
			return a.Toneless < b.Toneless
		}
		return a.Tone < b.Tone
	})
}

// CJK Unified Ideographs, the block candidate lists are built from.
const (
	firstHanzi = 0x4E00
	lastHanzi  = 0x9FFF
)

// EachReading calls fn for every hanzi in the CJK Unified Ideographs block
// known to go-pinyin, with its tone-marked readings. Iteration order is by
// code point.
func EachReading(fn func(char rune, readings []string)) {
	codes := make([]int, 0, len(gopinyin.PinyinDict))
	for code := range gopinyin.PinyinDict {
		if code >= firstHanzi && code <= lastHanzi {
			codes = append(codes, code)
		}
	}
	sort.Ints(codes)

	for _, code := range codes {
		fn(rune(code), strings.Split(gopinyin.PinyinDict[code], ","))
	}
}

// IsHanzi reports whether r is a Han ideograph.
func IsHanzi(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

// HanziRuns splits text into maximal runs of Han ideographs.
func HanziRuns(text string) [][]string {
	var runs [][]string
	var current []string
	for _, r := range text {
		if IsHanzi(r) {
			current = append(current, string(r))
			continue
		}
		if len(current) > 0 {
			runs = append(runs, current)
			current = nil
		}
	}
	if len(current) > 0 {
		runs = append(runs, current)
	}
	return runs
}
