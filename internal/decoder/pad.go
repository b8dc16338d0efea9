package decoder

import "github.com/f3rmion/pyime/internal/syllable"

// Circle pad geometry: six radial zones, each holding a pair of letters.
const (
	PadZones = 6
	PadSlots = 2
)

// Layout maps each pad zone to the pair of next letters it can encode.
// A zero byte marks an unused slot.
type Layout [PadZones][PadSlots]byte

// LayoutFor spreads the next letters of node over the zones in ascending
// order. The root layout is empty: initials are entered as direct keys.
func LayoutFor(node *syllable.Node) Layout {
	var l Layout
	if node == nil || node.Letter() == 0 {
		return l
	}

	for i, letter := range node.NextLetters() {
		if i >= PadZones*PadSlots {
			break
		}
		l[i/PadSlots][i%PadSlots] = letter
	}
	return l
}

// Letter returns the letter at zone and slot, or 0.
func (l Layout) Letter(zone, slot int) byte {
	if zone < 0 || zone >= PadZones || slot < 0 || slot >= PadSlots {
		return 0
	}
	return l[zone][slot]
}

// IsEmpty reports whether no zone holds a letter.
func (l Layout) IsEmpty() bool {
	return l == Layout{}
}
