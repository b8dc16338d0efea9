package decoder

import (
	"unicode/utf8"

	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/syllable"
)

// Result is what one event did.
type Result struct {
	Pending      *input.PendingSyllable // snapshot after the event
	State        State
	StateChanged bool
	Rejected     bool // the event was refused; nothing changed
	Dropped      bool // an unresolvable pending syllable was discarded
	Backspace    bool // nothing pending; the host should delete the previous input
	// Completed holds finished syllables (or Latin words) in input order,
	// ready to be appended to the phrase.
	Completed []*input.PendingSyllable
	Syllables []string // Flip listing
	Layout    Layout   // circle pad zones for the next sample
	Options   CommitOptions
}

// Decoder is the per-session input state machine. It is not safe for
// concurrent use; the trie it reads is.
type Decoder struct {
	trie    *syllable.Trie
	mode    Mode
	state   State
	pending *input.PendingSyllable
	lastKey string
	traced  int // slip keys accepted since SlipStart
	flip    []string
	options CommitOptions
	saved   CommitOptions

	completed []*input.PendingSyllable
	dropped   bool
	backspace bool
}

// New creates an idle decoder.
func New(trie *syllable.Trie, mode Mode) *Decoder {
	return &Decoder{trie: trie, mode: mode, pending: &input.PendingSyllable{}}
}

// State returns the current state.
func (d *Decoder) State() State {
	return d.state
}

// Mode returns the keyboard mode.
func (d *Decoder) Mode() Mode {
	return d.mode
}

// SetMode switches the keyboard mode. The decoder is reset to Idle and
// the pending input is dropped.
func (d *Decoder) SetMode(m Mode) {
	d.mode = m
	d.Reset()
}

// Pending returns a copy of the pending syllable.
func (d *Decoder) Pending() *input.PendingSyllable {
	return d.pending.Clone()
}

// Options returns the commit options.
func (d *Decoder) Options() CommitOptions {
	return d.options
}

// Layout returns the circle pad layout for the current pending spelling.
func (d *Decoder) Layout() Layout {
	if d.pending.IsEmpty() {
		return Layout{}
	}
	return LayoutFor(d.trie.Find(d.pending.Spelling()))
}

// Reset drops the pending input and returns to Idle.
func (d *Decoder) Reset() {
	d.state = StateIdle
	d.pending = &input.PendingSyllable{}
	d.lastKey = ""
	d.traced = 0
	d.flip = nil
}

// Decode feeds one event through the state machine.
func (d *Decoder) Decode(ev Event) Result {
	from := d.state
	d.completed, d.dropped, d.backspace = nil, false, false

	to, ok := Next(from, ev.Kind)
	if ok {
		ok = d.handle(ev)
	}
	if ok {
		d.state = to
	}

	res := Result{
		Pending:      d.pending.Clone(),
		State:        d.state,
		StateChanged: d.state != from,
		Rejected:     !ok,
		Dropped:      d.dropped,
		Backspace:    d.backspace,
		Completed:    d.completed,
		Options:      d.options,
	}
	switch d.state {
	case StateFlip:
		res.Syllables = append([]string(nil), d.flip...)
	case StateCirclePad:
		res.Layout = d.Layout()
	}
	return res
}

func (d *Decoder) handle(ev Event) bool {
	switch ev.Kind {
	case EventTap:
		return d.tap(ev.Text)
	case EventSlipStart:
		return d.slipStart(ev.Text)
	case EventSlipMove:
		return d.slipMove(ev.Text, ev.Level)
	case EventFlick:
		return d.flick()
	case EventSelect:
		return d.selectSyllable(ev.Index)
	case EventRelease:
		if d.state == StateFlip {
			d.drop()
		} else {
			d.finish()
		}
		d.lastKey, d.traced, d.flip = "", 0, nil
		return true
	case EventPadStart:
		return d.padStart(ev.Text)
	case EventPadZone:
		return d.padZone(ev)
	case EventPadFinal:
		if !d.trie.IsSyllable(d.pending.Spelling()) {
			return false
		}
		d.finish()
		return true
	case EventToggle:
		if !ApplyToggle(d.trie, d.pending, ev.Toggle) {
			return false
		}
		d.lastKey = ""
		return true
	case EventConfirm:
		if d.state == StateCommitOptionChoose {
			return true
		}
		d.finish()
		return true
	case EventBackspace:
		return d.deleteKey()
	case EventCommitOptions:
		d.saved = d.options
		return true
	case EventOption:
		opts, ok := d.options.apply(ev.Option)
		if ok {
			d.options = opts
		}
		return ok
	case EventAbandon:
		if d.state == StateCommitOptionChoose {
			d.options = d.saved
			return true
		}
		d.drop()
		d.lastKey, d.traced, d.flip = "", 0, nil
		return true
	}
	return false
}

// finish moves the pending input to the completed list when it is a
// complete syllable or Latin text, and drops it otherwise.
func (d *Decoder) finish() {
	p := d.pending
	d.pending = &input.PendingSyllable{}
	if p.IsEmpty() {
		return
	}
	if p.Latin || d.trie.IsSyllable(p.Spelling()) {
		d.completed = append(d.completed, p)
		return
	}
	d.dropped = true
}

func (d *Decoder) drop() {
	if !d.pending.IsEmpty() {
		d.dropped = true
	}
	d.pending = &input.PendingSyllable{}
}

// tap appends typed letters. A complete syllable followed by a letter that
// starts a new syllable is finished first; any other letter that breaks
// trie validity turns the pending input into Latin text.
func (d *Decoder) tap(text string) bool {
	if text == "" {
		return false
	}
	if d.pending.Latin {
		d.pending.SetSpelling(d.pending.Spelling() + text)
		return true
	}

	spelling := d.pending.Spelling()
	next := spelling + text
	switch {
	case d.trie.IsValidPartial(next):
		d.pending.SetSpelling(next)
		d.pending.ClearWord()
	case d.trie.IsSyllable(spelling) && d.trie.IsValidPartial(text):
		d.finish()
		d.pending = input.NewPending(text)
	default:
		d.pending = input.NewLatin(next)
	}
	return true
}

func (d *Decoder) slipStart(text string) bool {
	if d.mode != ModeSlip || !d.trie.IsValidPartial(text) {
		return false
	}
	d.finish()
	d.pending = input.NewPending(text)
	d.lastKey = slipKey(text, LevelLetter)
	d.traced = 1
	return true
}

// slipMove accepts a traced key when it differs from the last accepted
// key and keeps the pending spelling a valid partial. Higher level keys
// replace the letters of the levels they subsume.
func (d *Decoder) slipMove(text string, level KeyLevel) bool {
	key := slipKey(text, level)
	if text == "" || key == d.lastKey {
		return false
	}

	spelling := d.pending.Spelling()
	initial, _, _ := syllable.Segment(spelling)

	var next string
	switch level {
	case LevelLetter:
		next = spelling + text
	case LevelInitial, LevelSyllable:
		next = text
	case LevelContinuation, LevelFinal:
		if initial == "" {
			return false
		}
		next = initial + text
	default:
		return false
	}

	if !d.trie.IsValidPartial(next) {
		return false
	}
	if level == LevelInitial || level == LevelSyllable {
		d.pending = input.NewPending(next)
	} else {
		d.pending.SetSpelling(next)
		d.pending.ClearWord()
	}
	d.lastKey = key
	d.traced++
	return true
}

// flick lists the syllables below the initial when exactly one slip key,
// a single letter or zh/ch/sh, has been accepted.
func (d *Decoder) flick() bool {
	spelling := d.pending.Spelling()
	initial, _, _ := syllable.Segment(spelling)
	if d.traced != 1 || spelling == "" || spelling != initial {
		return false
	}
	d.flip = d.trie.Find(initial).AllSyllablesBelow()
	return len(d.flip) > 0
}

func (d *Decoder) selectSyllable(i int) bool {
	if i < 0 || i >= len(d.flip) {
		return false
	}
	d.pending = input.NewPending(d.flip[i])
	d.finish()
	d.flip = nil
	d.lastKey = ""
	return true
}

func (d *Decoder) padStart(text string) bool {
	if d.mode != ModeCirclePad {
		return false
	}
	if text != "" && !d.trie.IsValidPartial(text) {
		return false
	}
	d.finish()
	d.pending = input.NewPending(text)
	return true
}

// padZone extends the pending spelling by the letter of a zone. Direct
// keys (Text set) start a new syllable. A complete syllable with no
// further letters is finished at once.
func (d *Decoder) padZone(ev Event) bool {
	var next string
	if ev.Text != "" {
		if !d.pending.IsEmpty() {
			return false
		}
		next = ev.Text
	} else {
		letter := d.Layout().Letter(ev.Zone, ev.Slot)
		if letter == 0 {
			return false
		}
		next = d.pending.Spelling() + string(letter)
	}

	node := d.trie.Find(next)
	if node == nil {
		return false
	}
	d.pending.SetSpelling(next)
	d.pending.ClearWord()

	if node.IsSyllable() && node.ChildCount() == 0 {
		d.finish()
	}
	return true
}

func (d *Decoder) deleteKey() bool {
	p := d.pending
	if p.IsEmpty() {
		d.backspace = true
		return true
	}
	s := p.Spelling()
	_, size := utf8.DecodeLastRuneInString(s)
	p.SetSpelling(s[:len(s)-size])
	p.ClearWord()
	if p.IsEmpty() {
		p.Latin = false
	} else if p.Latin && d.trie.IsValidPartial(p.Spelling()) {
		p.Latin = false
	}
	return true
}

func slipKey(text string, level KeyLevel) string {
	return string(rune('0'+level)) + text
}
