// Package predict assigns the most likely hanzi chain to a window of
// syllables with a Viterbi search over the transition model.
package predict

import (
	"sort"

	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/f3rmion/pyime/internal/input"
)

// DefaultMaxCandidates caps the candidates searched per position.
const DefaultMaxCandidates = 64

// Scorer scores transitions between states.
type Scorer interface {
	Score(prev, curr string) float64
	Weight(word string) int
}

// Lookup returns the candidate words of a spelling.
type Lookup interface {
	Candidates(spelling string) []*input.Word
}

// Predictor runs best-path searches. It holds no per-call state and is
// safe for concurrent use when its Scorer is.
type Predictor struct {
	model Scorer
	max   int
}

// Option configures a Predictor.
type Option func(*Predictor)

// WithMaxCandidates sets how many candidates per position are searched.
func WithMaxCandidates(n int) Option {
	return func(p *Predictor) {
		if n > 0 {
			p.max = n
		}
	}
}

// New creates a predictor over model.
func New(model Scorer, opts ...Option) *Predictor {
	p := &Predictor{model: model, max: DefaultMaxCandidates}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// step is one Viterbi cell: the best score ending in a candidate and the
// index of its predecessor.
type step struct {
	score float64
	from  int
}

// Predict returns the highest scoring chain, one word per position, scored
// as BOS -> w1 -> ... -> wn -> EOS. Every position must have at least one
// candidate; Predict returns nil otherwise. Equal scores keep the earlier
// candidate, so callers control tie-breaking by candidate order.
func (p *Predictor) Predict(positions [][]*input.Word) []*input.Word {
	if len(positions) == 0 {
		return nil
	}
	for _, c := range positions {
		if len(c) == 0 {
			return nil
		}
	}

	cells := make([][]step, len(positions))
	for i, cands := range positions {
		cells[i] = make([]step, len(cands))
		for j, w := range cands {
			if i == 0 {
				cells[i][j] = step{score: p.model.Score(hmm.BOS, w.Value), from: -1}
				continue
			}

			best := step{from: -1}
			for k, prev := range positions[i-1] {
				s := cells[i-1][k].score + p.model.Score(prev.Value, w.Value)
				if best.from < 0 || s > best.score {
					best = step{score: s, from: k}
				}
			}
			cells[i][j] = best
		}
	}

	last := len(positions) - 1
	end, endScore := -1, 0.0
	for j, w := range positions[last] {
		s := cells[last][j].score + p.model.Score(w.Value, hmm.EOS)
		if end < 0 || s > endScore {
			end, endScore = j, s
		}
	}

	chain := make([]*input.Word, len(positions))
	for i, j := last, end; i >= 0; i-- {
		chain[i] = positions[i][j]
		j = cells[i][j].from
	}
	return chain
}

// Candidates returns the searchable candidates of one position: the
// confirmed word alone when the user chose one, otherwise the dictionary
// words ordered by weight, capped at the configured maximum.
func (p *Predictor) Candidates(pending *input.PendingSyllable, lookup Lookup) []*input.Word {
	if pending.Confirmed && pending.Word != nil {
		return []*input.Word{pending.Word}
	}
	if pending.Latin || pending.IsEmpty() {
		return nil
	}

	words := lookup.Candidates(pending.Spelling())
	if len(words) == 0 {
		return nil
	}

	ordered := make([]*input.Word, len(words))
	copy(ordered, words)
	sort.SliceStable(ordered, func(i, j int) bool {
		return p.weight(ordered[i]) > p.weight(ordered[j])
	})
	if len(ordered) > p.max {
		ordered = ordered[:p.max]
	}
	return ordered
}

func (p *Predictor) weight(w *input.Word) int {
	return w.Weight + p.model.Weight(w.Value)
}

// Fill returns a copy of window with every unconfirmed position assigned
// the word of the best chain. Positions without candidates (Latin text,
// dictionary gaps) split the window into independent runs and keep no word.
// Confirmed positions are never changed.
func (p *Predictor) Fill(window input.Phrase, lookup Lookup) input.Phrase {
	out := window.Clone()

	var run []int
	var cands [][]*input.Word
	flush := func() {
		if len(run) > 0 {
			chain := p.Predict(cands)
			for i, idx := range run {
				if !out[idx].Confirmed {
					out[idx].Word = chain[i]
				}
			}
		}
		run, cands = nil, nil
	}

	for i, pending := range out {
		c := p.Candidates(pending, lookup)
		if len(c) == 0 {
			flush()
			if !pending.Confirmed {
				pending.Word = nil
			}
			continue
		}
		run = append(run, i)
		cands = append(cands, c)
	}
	flush()

	return out
}
