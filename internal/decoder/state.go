// Package decoder turns key taps and gesture samples into pending syllables.
//
// The decoder is a single finite-state machine. Every event is looked up in
// an explicit transition table; events the table does not list for the
// current state are rejected without touching any state.
package decoder

import (
	"fmt"
	"strings"
)

// State is the decoder state.
type State int

const (
	StateIdle State = iota
	StateSlip
	StateFlip
	StateCirclePad
	StateCommitOptionChoose
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSlip:
		return "slip"
	case StateFlip:
		return "flip"
	case StateCirclePad:
		return "circle_pad"
	case StateCommitOptionChoose:
		return "commit_option_choose"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode is the keyboard layout driving the decoder. It selects which
// gesture may start from Idle.
type Mode int

const (
	ModeSlip Mode = iota
	ModeCirclePad
)

func (m Mode) String() string {
	switch m {
	case ModeSlip:
		return "slip"
	case ModeCirclePad:
		return "circle_pad"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses a keyboard mode name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "slip":
		return ModeSlip, nil
	case "circle_pad", "circlepad", "pad":
		return ModeCirclePad, nil
	default:
		return ModeSlip, fmt.Errorf("unknown keyboard mode %q", s)
	}
}

// KeyLevel is the decoding level a key carries on a multi-level keyboard.
type KeyLevel int

const (
	// LevelLetter is a plain letter appended to the pending spelling.
	LevelLetter KeyLevel = iota
	// LevelInitial replaces the whole pending spelling.
	LevelInitial
	// LevelContinuation replaces everything after the initial.
	LevelContinuation
	// LevelFinal carries the continuation letter and replaces everything after the initial.
	LevelFinal
	// LevelSyllable is a complete syllable and replaces the whole pending spelling.
	LevelSyllable
)

// EventKind identifies an input event.
type EventKind int

const (
	EventTap EventKind = iota
	EventSlipStart
	EventSlipMove
	EventFlick
	EventSelect
	EventRelease
	EventPadStart
	EventPadZone
	EventPadFinal
	EventToggle
	EventConfirm
	EventBackspace
	EventCommitOptions
	EventOption
	EventAbandon
)

var eventNames = [...]string{
	EventTap:           "tap",
	EventSlipStart:     "slip_start",
	EventSlipMove:      "slip_move",
	EventFlick:         "flick",
	EventSelect:        "select",
	EventRelease:       "release",
	EventPadStart:      "pad_start",
	EventPadZone:       "pad_zone",
	EventPadFinal:      "pad_final",
	EventToggle:        "toggle",
	EventConfirm:       "confirm",
	EventBackspace:     "backspace",
	EventCommitOptions: "commit_options",
	EventOption:        "option",
	EventAbandon:       "abandon",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one key tap or gesture sample.
type Event struct {
	Kind   EventKind
	Text   string   // letters of the key; empty for zone and control events
	Level  KeyLevel // for EventSlipMove
	Zone   int      // for EventPadZone
	Slot   int      // for EventPadZone, 0 or 1
	Index  int      // for EventSelect
	Toggle Toggle   // for EventToggle
	Option Option   // for EventOption
}

// transitions lists, per state, every accepted event and its target state.
// A handler may still reject an accepted event, in which case the state
// does not change.
var transitions = map[State]map[EventKind]State{
	StateIdle: {
		EventTap:           StateIdle,
		EventSlipStart:     StateSlip,
		EventPadStart:      StateCirclePad,
		EventToggle:        StateIdle,
		EventConfirm:       StateIdle,
		EventBackspace:     StateIdle,
		EventCommitOptions: StateCommitOptionChoose,
		EventAbandon:       StateIdle,
	},
	StateSlip: {
		EventSlipMove: StateSlip,
		EventFlick:    StateFlip,
		EventToggle:   StateSlip,
		EventRelease:  StateIdle,
		EventAbandon:  StateIdle,
	},
	StateFlip: {
		EventSelect:  StateIdle,
		EventRelease: StateIdle,
		EventAbandon: StateIdle,
	},
	StateCirclePad: {
		EventPadZone:  StateCirclePad,
		EventPadFinal: StateCirclePad,
		EventToggle:   StateCirclePad,
		EventRelease:  StateIdle,
		EventAbandon:  StateIdle,
	},
	StateCommitOptionChoose: {
		EventOption:  StateCommitOptionChoose,
		EventConfirm: StateIdle,
		EventAbandon: StateIdle,
	},
}

// Next returns the target state of ev in s, and whether s accepts ev at all.
func Next(s State, ev EventKind) (State, bool) {
	to, ok := transitions[s][ev]
	return to, ok
}
