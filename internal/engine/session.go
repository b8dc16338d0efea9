package engine

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
	"github.com/f3rmion/pyime/internal/decoder"
	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/rank"
)

// MinLatinPrefix is the shortest prefix CompleteLatin completes.
const MinLatinPrefix = 3

// Session is the per-field half of the input method: a decoder and the
// phrase typed so far. It is not safe for concurrent use.
type Session struct {
	eng    *Engine
	dec    *decoder.Decoder
	phrase input.Phrase
}

// Decoder returns the session's decoder.
func (s *Session) Decoder() *decoder.Decoder {
	return s.dec
}

// Phrase returns a copy of the phrase typed so far.
func (s *Session) Phrase() input.Phrase {
	return s.phrase.Clone()
}

// Pending returns a copy of the syllable being typed.
func (s *Session) Pending() *input.PendingSyllable {
	return s.dec.Pending()
}

// Decode feeds one event to the decoder. Completed syllables join the
// phrase and the phrase is re-predicted. A backspace with nothing pending
// removes the last phrase position; Result.Backspace stays set only when
// the phrase was already empty.
func (s *Session) Decode(ev decoder.Event) decoder.Result {
	from := s.dec.State()
	res := s.dec.Decode(ev)
	s.eng.metrics.RecordDecode(context.Background(), from.String(), ev.Kind.String(), res.Rejected, res.Dropped)

	switch {
	case res.Rejected:
		s.eng.logger.Debug("event rejected", "state", from, "event", ev.Kind, "text", ev.Text)
		return res
	case res.Dropped:
		s.eng.logger.Debug("unresolvable input dropped", "state", from, "event", ev.Kind)
	}

	changed := len(res.Completed) > 0
	if res.Backspace && len(s.phrase) > 0 {
		s.phrase = s.phrase[:len(s.phrase)-1]
		res.Backspace = false
		changed = true
	}
	s.phrase = append(s.phrase, res.Completed...)
	if changed {
		s.phrase = s.PredictAndFill(s.phrase)
	}
	return res
}

// context returns the ranking context for the position at index: the word
// before it and the words of the whole phrase.
func (s *Session) context(index int) rank.Context {
	var ctx rank.Context
	if index > 0 && index <= len(s.phrase) && s.phrase[index-1].Word != nil {
		ctx.Prev = s.phrase[index-1].Word.Value
	}
	for _, w := range s.phrase.Words() {
		if w != "" {
			ctx.Keywords = append(ctx.Keywords, w)
		}
	}
	return ctx
}

// ListCandidates returns one page of ranked candidates for p, which is
// taken to follow the current phrase.
func (s *Session) ListCandidates(p *input.PendingSyllable, f input.Filter, page int) rank.Page {
	return s.eng.Ranker().List(p, s.context(len(s.phrase)), f, page)
}

// ListPosition returns one page of ranked candidates for an existing
// phrase position.
func (s *Session) ListPosition(index int, f input.Filter, page int) rank.Page {
	if index < 0 || index >= len(s.phrase) {
		return rank.Page{}
	}
	return s.eng.Ranker().List(s.phrase[index], s.context(index), f, page)
}

// Spells returns the spells offered by the filter bar for p.
func (s *Session) Spells(p *input.PendingSyllable) []string {
	return s.eng.Ranker().Spells(p)
}

// Radicals returns the radicals offered by the filter bar for p under f.
func (s *Session) Radicals(p *input.PendingSyllable, f input.Filter) []string {
	return s.eng.Ranker().Radicals(p, f)
}

// PredictAndFill returns a copy of window with every unconfirmed position
// assigned its most likely word.
func (s *Session) PredictAndFill(window input.Phrase) input.Phrase {
	start := time.Now()
	out := s.eng.Predictor().Fill(window, s.eng.dict)
	s.eng.metrics.PredictDuration.Record(context.Background(), time.Since(start).Seconds())
	return out
}

// Choose confirms w for a phrase position. An index equal to the phrase
// length chooses for the pending syllable, which then joins the phrase
// under the spelling of w. It reports false for an index out of range or
// an empty pending syllable.
func (s *Session) Choose(index int, w *input.Word) bool {
	if w == nil {
		return false
	}

	switch {
	case index >= 0 && index < len(s.phrase):
		s.phrase[index].SetWord(w, true)

	case index == len(s.phrase):
		p := s.dec.Pending()
		if p.IsEmpty() {
			return false
		}
		if spelling, ok := s.eng.trie.Spelling(w.Syllable); ok && !w.Emoji {
			p.SetSpelling(spelling)
		}
		p.Latin = false
		p.SetWord(w, true)
		s.dec.Reset()
		s.phrase = append(s.phrase, p)

	default:
		return false
	}

	s.phrase = s.PredictAndFill(s.phrase)
	return true
}

// Toggle applies a spelling toggle to a phrase position, or to the pending
// syllable when index equals the phrase length.
func (s *Session) Toggle(index int, t decoder.Toggle) bool {
	if index == len(s.phrase) {
		return !s.Decode(decoder.Event{Kind: decoder.EventToggle, Toggle: t}).Rejected
	}
	if index < 0 || index >= len(s.phrase) {
		return false
	}
	if !decoder.ApplyToggle(s.eng.trie, s.phrase[index], t) {
		return false
	}
	s.phrase = s.PredictAndFill(s.phrase)
	return true
}

// Text renders the phrase under the decoder's commit options.
func (s *Session) Text() string {
	return Render(s.phrase, s.dec.Options())
}

// Render renders a phrase: the variant replaces the value when requested,
// and the spell replaces or follows it per the spell mode. Positions
// without a word render their letters.
func Render(ph input.Phrase, opts decoder.CommitOptions) string {
	var sb strings.Builder
	for _, p := range ph {
		w := p.Word
		if w == nil {
			sb.WriteString(p.Spelling())
			continue
		}

		value := w.Value
		if opts.Variant && w.Variant != "" {
			value = w.Variant
		}
		if w.Spell != "" {
			switch opts.Spell {
			case decoder.SpellReplacing:
				value = w.Spell
			case decoder.SpellFollowing:
				value = fmt.Sprintf("%s(%s)", value, w.Spell)
			}
		}
		sb.WriteString(value)
	}
	return sb.String()
}

// Commit finishes the pending input, renders the phrase and clears the
// session. Runs of hanzi are recorded and trained with count 1; Latin
// words and emoji are recorded for completion.
func (s *Session) Commit(ctx context.Context) (string, error) {
	switch s.dec.State() {
	case decoder.StateSlip, decoder.StateFlip, decoder.StateCirclePad:
		s.Decode(decoder.Event{Kind: decoder.EventRelease})
	case decoder.StateCommitOptionChoose:
		s.Decode(decoder.Event{Kind: decoder.EventConfirm})
	}
	s.Decode(decoder.Event{Kind: decoder.EventConfirm})
	text := s.Text()
	phrase := s.phrase

	s.phrase = nil
	s.dec.Reset()

	for _, run := range hanziRuns(phrase) {
		if err := s.eng.IngestTrainingPhrase(ctx, run, 1); err != nil {
			return text, fmt.Errorf("training committed phrase: %w", err)
		}
		if st := s.eng.store; st != nil {
			if err := st.RecordPhrase(ctx, run); err != nil {
				return text, err
			}
		}
	}

	if st := s.eng.store; st != nil {
		for _, p := range phrase {
			var err error
			switch {
			case p.Latin:
				err = st.RecordLatin(ctx, p.Spelling())
			case p.Word != nil && p.Word.Emoji:
				err = st.RecordEmoji(ctx, p.Word.Value)
			}
			if err != nil {
				return text, err
			}
		}
	}

	return text, nil
}

// hanziRuns splits a phrase into maximal runs of positions holding a
// non-emoji word.
func hanziRuns(ph input.Phrase) [][]string {
	var runs [][]string
	var run []string
	for _, p := range ph {
		if p.Word == nil || p.Word.Emoji || p.Latin {
			if len(run) > 0 {
				runs = append(runs, run)
			}
			run = nil
			continue
		}
		run = append(run, p.Word.Value)
	}
	if len(run) > 0 {
		runs = append(runs, run)
	}
	return runs
}

// CompleteLatin returns up to n previously committed Latin words starting
// with prefix, most used first, closer spellings first among equals.
// Prefixes shorter than MinLatinPrefix yield nothing.
func (s *Session) CompleteLatin(ctx context.Context, prefix string, n int) ([]string, error) {
	if s.eng.store == nil || len([]rune(prefix)) < MinLatinPrefix || n <= 0 {
		return nil, nil
	}

	usages, err := s.eng.store.LatinWords(ctx, prefix, 0)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(prefix)
	similarity := make(map[string]float64, len(usages))
	for _, u := range usages {
		similarity[u.Value] = matchr.JaroWinkler(lower, strings.ToLower(u.Value), false)
	}
	sort.SliceStable(usages, func(i, j int) bool {
		a, b := usages[i], usages[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return similarity[a.Value] > similarity[b.Value]
	})

	words := make([]string, 0, min(n, len(usages)))
	for _, u := range usages {
		if len(words) == n {
			break
		}
		if u.Value != prefix && !slices.Contains(words, u.Value) {
			words = append(words, u.Value)
		}
	}
	return words, nil
}
