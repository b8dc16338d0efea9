package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/pyime/internal/decoder"
	"github.com/f3rmion/pyime/internal/engine"
	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/rank"
	"github.com/mattn/go-runewidth"
)

// historySize is how many committed lines are shown.
const historySize = 5

// Model is the sandbox: typed letters go to the decoder, digits choose
// candidates and enter commits the phrase.
type Model struct {
	ctx     context.Context
	session *engine.Session
	keys    keyMap
	options optionKeys
	help    help.Model

	filter input.Filter
	page   int
	cursor int // phrase index being edited; len(phrase) is the pending syllable

	committed []string
	status    string
	width     int
}

// New creates a sandbox over s. ctx bounds the store writes of commits.
func New(ctx context.Context, s *engine.Session) Model {
	return Model{
		ctx:     ctx,
		session: s,
		keys:    defaultKeyMap(),
		options: defaultOptionKeys(),
		help:    help.New(),
		width:   80,
	}
}

// Committed returns the committed lines, oldest first.
func (m Model) Committed() []string {
	return m.committed
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.session.Decoder().State() == decoder.StateCommitOptionChoose {
			return m.updateOptions(msg), nil
		}
		return m.updateInput(msg), nil
	}
	return m, nil
}

func (m Model) updateOptions(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.options.Spell):
		m.decode(decoder.Event{Kind: decoder.EventOption, Option: decoder.OptionSpell})
	case key.Matches(msg, m.options.Variant):
		m.decode(decoder.Event{Kind: decoder.EventOption, Option: decoder.OptionVariant})
	case key.Matches(msg, m.options.Done):
		m.decode(decoder.Event{Kind: decoder.EventConfirm})
	case key.Matches(msg, m.options.Cancel):
		m.decode(decoder.Event{Kind: decoder.EventAbandon})
	}
	return m
}

func (m Model) updateInput(msg tea.KeyMsg) Model {
	m.status = ""
	phraseLen := len(m.session.Phrase())

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Commit):
		text, err := m.session.Commit(m.ctx)
		if err != nil {
			m.status = err.Error()
		}
		if text != "" {
			m.committed = append(m.committed, text)
		}
		m.reset()

	case key.Matches(msg, m.keys.Confirm):
		m.decode(decoder.Event{Kind: decoder.EventConfirm})

	case key.Matches(msg, m.keys.Backspace):
		m.decode(decoder.Event{Kind: decoder.EventBackspace})

	case key.Matches(msg, m.keys.Abandon):
		m.decode(decoder.Event{Kind: decoder.EventAbandon})

	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
			m.page, m.filter = 0, input.Filter{}
		}

	case key.Matches(msg, m.keys.Right):
		if m.cursor < phraseLen {
			m.cursor++
			m.page, m.filter = 0, input.Filter{}
		}

	case key.Matches(msg, m.keys.PrevPage):
		m.turnPage(-1)

	case key.Matches(msg, m.keys.NextPage):
		m.turnPage(1)

	case key.Matches(msg, m.keys.Spell):
		m.filter = nextSpellFilter(m.session.Spells(m.target()), m.filter)
		m.page = 0
		if len(m.candidates().Items) == 0 {
			m.turnPage(1)
		}

	case key.Matches(msg, m.keys.ToggleZCS):
		m.toggle(decoder.ToggleZCS)

	case key.Matches(msg, m.keys.ToggleNL):
		m.toggle(decoder.ToggleNL)

	case key.Matches(msg, m.keys.ToggleNG):
		m.toggle(decoder.ToggleNG)

	case key.Matches(msg, m.keys.Options):
		m.decode(decoder.Event{Kind: decoder.EventCommitOptions})

	case key.Matches(msg, m.keys.Choose):
		m.choose(digitIndex(msg.String()))

	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] < unicode.MaxASCII && unicode.IsLetter(msg.Runes[0]):
		m.decode(decoder.Event{Kind: decoder.EventTap, Text: strings.ToLower(string(msg.Runes))})
	}
	return m
}

// decode feeds ev to the session and moves the cursor back to the pending
// syllable.
func (m *Model) decode(ev decoder.Event) {
	res := m.session.Decode(ev)
	if res.Rejected {
		m.status = fmt.Sprintf("%s not accepted", ev.Kind)
	}
	if res.Dropped {
		m.status = "unknown syllable dropped"
	}
	m.cursor = len(m.session.Phrase())
	m.page, m.filter = 0, input.Filter{}
}

func (m *Model) toggle(t decoder.Toggle) {
	if !m.session.Toggle(m.cursor, t) {
		m.status = fmt.Sprintf("%s does not apply", t)
	}
	m.page, m.filter = 0, input.Filter{}
}

func (m *Model) choose(i int) {
	items := m.candidates().Items
	if i < 0 || i >= len(items) {
		return
	}
	if m.session.Choose(m.cursor, items[i]) {
		m.cursor = len(m.session.Phrase())
		m.page, m.filter = 0, input.Filter{}
	}
}

func (m *Model) reset() {
	m.cursor, m.page, m.filter = 0, 0, input.Filter{}
}

// target returns the syllable whose candidates are listed.
func (m Model) target() *input.PendingSyllable {
	phrase := m.session.Phrase()
	if m.cursor < len(phrase) {
		return phrase[m.cursor]
	}
	return m.session.Pending()
}

func (m Model) candidates() rank.Page {
	if m.cursor < len(m.session.Phrase()) {
		return m.session.ListPosition(m.cursor, m.filter, m.page)
	}
	return m.session.ListCandidates(m.session.Pending(), m.filter, m.page)
}

// turnPage moves by step, passing over pages a filter left empty.
func (m *Model) turnPage(step int) {
	total := m.candidates().Total
	for range max(total, 1) {
		m.page += step
		if total > 0 {
			m.page = ((m.page % total) + total) % total
		}
		if len(m.candidates().Items) > 0 {
			return
		}
	}
}

// nextSpellFilter cycles through the spells, then back to no filter.
func nextSpellFilter(spells []string, f input.Filter) input.Filter {
	if len(spells) == 0 {
		return input.Filter{}
	}
	if len(f.Spells) == 0 {
		return f.ToggleSpell(spells[0])
	}
	i := slices.Index(spells, f.Spells[0])
	if i < 0 || i+1 >= len(spells) {
		return input.Filter{}
	}
	return f.ToggleSpell(spells[i+1])
}

// digitIndex maps keys 1-9 to 0-8 and 0 to 9.
func digitIndex(s string) int {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return -1
	}
	if s[0] == '0' {
		return 9
	}
	return int(s[0] - '1')
}

// View renders the UI
func (m Model) View() string {
	var sb strings.Builder

	mode := m.session.Decoder().Mode()
	sb.WriteString(TitleStyle.Render(" 拼音 pyime "))
	sb.WriteString(" ")
	sb.WriteString(SubtitleStyle.Render(mode.String()))
	sb.WriteString("\n\n")

	history := m.committed
	if len(history) > historySize {
		history = history[len(history)-historySize:]
	}
	for _, line := range history {
		sb.WriteString(CommittedStyle.Render(line))
		sb.WriteString("\n")
	}

	sb.WriteString(PhraseBoxStyle.Render(m.renderPhrase()))
	sb.WriteString("\n")
	sb.WriteString(m.renderCandidates())
	sb.WriteString("\n")

	if spells := m.session.Spells(m.target()); len(spells) > 1 {
		sb.WriteString(m.renderSpells(spells))
		sb.WriteString("\n")
	}

	if m.session.Decoder().State() == decoder.StateCommitOptionChoose {
		opts := m.session.Decoder().Options()
		sb.WriteString(LabelStyle.Render("pinyin") + opts.Spell.String() + "\n")
		sb.WriteString(LabelStyle.Render("variant") + fmt.Sprint(opts.Variant) + "\n")
		sb.WriteString(m.help.View(m.options))
		return sb.String()
	}

	if m.status != "" {
		sb.WriteString(ErrorStyle.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

func (m Model) renderPhrase() string {
	phrase := m.session.Phrase()
	var parts []string
	for i, p := range phrase {
		style := WordStyle
		switch {
		case i == m.cursor:
			style = WordCursorStyle
		case p.Latin:
			style = LatinStyle
		case p.Confirmed:
			style = WordConfirmedStyle
		}
		parts = append(parts, style.Render(p.Text()))
	}

	pending := m.session.Pending()
	switch {
	case !pending.IsEmpty():
		parts = append(parts, PendingStyle.Render(pending.Spelling()))
	case m.cursor == len(phrase):
		parts = append(parts, PendingStyle.Render(" "))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderCandidates lays out one page, cutting it at the window width.
func (m Model) renderCandidates() string {
	page := m.candidates()
	if len(page.Items) == 0 {
		return PageStyle.Render("no candidates")
	}

	suffix := fmt.Sprintf("(%d/%d)", page.Index+1, page.Total)
	room := m.width - runewidth.StringWidth(suffix) - 2

	var sb strings.Builder
	used := 0
	for i, w := range page.Items {
		label := fmt.Sprintf("%d.%s", (i+1)%10, w.Value)
		width := runewidth.StringWidth(label) + 2 // candidate padding
		if used+width > room {
			break
		}
		used += width
		sb.WriteString(CandidateIndexStyle.Render(label[:strings.IndexByte(label, '.')+1]))
		sb.WriteString(CandidateStyle.Render(runewidth.Truncate(w.Value, room, "…")))
	}
	sb.WriteString(PageStyle.Render(suffix))
	return sb.String()
}

func (m Model) renderSpells(spells []string) string {
	var parts []string
	for _, s := range spells {
		style := SpellStyle
		if slices.Contains(m.filter.Spells, s) {
			style = SpellActiveStyle
		}
		parts = append(parts, style.Render(s))
	}
	return DividerStyle.Render("tone ") + strings.Join(parts, "")
}
