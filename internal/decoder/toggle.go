package decoder

import (
	"strings"

	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/syllable"
)

// Toggle is a disambiguation switch on the pending spelling.
type Toggle int

const (
	// ToggleZCS swaps zh/ch/sh and z/c/s initials.
	ToggleZCS Toggle = iota
	// ToggleNL swaps n and l initials.
	ToggleNL
	// ToggleNG swaps en/in/an and eng/ing/ang endings.
	ToggleNG
)

func (t Toggle) String() string {
	switch t {
	case ToggleZCS:
		return "zcs"
	case ToggleNL:
		return "nl"
	case ToggleNG:
		return "ng"
	default:
		return "unknown"
	}
}

// Toggled returns spelling with the toggle applied, or false when the
// toggle does not apply to it. The result is not validated.
func Toggled(spelling string, t Toggle) (string, bool) {
	if spelling == "" {
		return "", false
	}

	switch t {
	case ToggleZCS:
		if len(spelling) >= 2 && spelling[1] == 'h' && strings.IndexByte("zcs", spelling[0]) >= 0 {
			return spelling[:1] + spelling[2:], true
		}
		if strings.IndexByte("zcs", spelling[0]) >= 0 {
			return spelling[:1] + "h" + spelling[1:], true
		}
	case ToggleNL:
		switch spelling[0] {
		case 'n':
			return "l" + spelling[1:], true
		case 'l':
			return "n" + spelling[1:], true
		}
	case ToggleNG:
		for _, end := range []string{"ang", "eng", "ing"} {
			if strings.HasSuffix(spelling, end) {
				return strings.TrimSuffix(spelling, "g"), true
			}
		}
		for _, end := range []string{"an", "en", "in"} {
			if strings.HasSuffix(spelling, end) {
				return spelling + "g", true
			}
		}
	}
	return "", false
}

// ApplyToggle toggles p in place when the result is valid in trie: a
// complete syllable must stay complete, a partial must stay a valid
// partial. On success the keys are re-segmented and the word cleared.
func ApplyToggle(trie *syllable.Trie, p *input.PendingSyllable, t Toggle) bool {
	if p.IsEmpty() || p.Latin {
		return false
	}

	spelling := p.Spelling()
	if !trie.IsValidPartial(spelling) {
		return false
	}
	toggled, ok := Toggled(spelling, t)
	if !ok {
		return false
	}

	if trie.IsSyllable(spelling) {
		if !trie.IsSyllable(toggled) {
			return false
		}
	} else if !trie.IsValidPartial(toggled) {
		return false
	}

	p.SetSpelling(toggled)
	p.ClearWord()
	return true
}
