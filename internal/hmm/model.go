// Package hmm provides the phrase-level transition model: aggregated counts
// of hanzi-to-hanzi transitions used to score candidate chains.
package hmm

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
)

// Sentinel states.
const (
	BOS   = "<BOS>"   // start of phrase
	EOS   = "<EOS>"   // end of phrase
	TOTAL = "<TOTAL>" // running total of transitions into a state
)

// DefaultFloor is the score of an unseen transition.
const DefaultFloor = -50.0

var (
	// ErrEmptyPhrase is returned when ingesting a phrase without words.
	ErrEmptyPhrase = errors.New("hmm: empty phrase")
	// ErrInvalidCount is returned for non-positive occurrence counts.
	ErrInvalidCount = errors.New("hmm: occurrence count must be positive")
	// ErrReservedState is returned when a phrase contains a sentinel or empty word.
	ErrReservedState = errors.New("hmm: reserved state in phrase")
)

// Entry is one aggregated transition count.
type Entry struct {
	Curr  string
	Prev  string
	Count int
}

// Model is an append-only table of transition counts, keyed by current
// state and then by previous state.
//
// All writes go through Ingest. Readers may run concurrently with each other;
// an Ingest blocks readers for its duration.
type Model struct {
	mu      sync.RWMutex
	trans   map[string]map[string]int
	weights map[string]int
	version uint64
	floor   float64
}

// Option configures a Model.
type Option func(*Model)

// WithFloor sets the score of unseen transitions. It must be finite.
func WithFloor(floor float64) Option {
	return func(m *Model) {
		if !math.IsInf(floor, 0) && !math.IsNaN(floor) {
			m.floor = floor
		}
	}
}

// New creates an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		trans:   make(map[string]map[string]int),
		weights: make(map[string]int),
		floor:   DefaultFloor,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FromEntries builds a model from persisted transition entries and word weights.
func FromEntries(entries []Entry, weights map[string]int, opts ...Option) *Model {
	m := New(opts...)
	for _, e := range entries {
		row, ok := m.trans[e.Curr]
		if !ok {
			row = make(map[string]int)
			m.trans[e.Curr] = row
		}
		row[e.Prev] += e.Count
	}
	for w, c := range weights {
		m.weights[w] += c
	}
	return m
}

// Ingest records a training phrase seen count times. A phrase of n words
// yields n+1 observations: BOS->w1, ..., wn->EOS. Each observation adds count
// to the previous-state cell and to the TOTAL cell of the current state.
// Word weights grow by count per occurrence.
//
// Ingest returns the deltas it applied, so callers can persist them.
func (m *Model) Ingest(phrase []string, count int) ([]Entry, error) {
	if len(phrase) == 0 {
		return nil, ErrEmptyPhrase
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	for _, w := range phrase {
		if w == "" || w == BOS || w == EOS || w == TOTAL {
			return nil, fmt.Errorf("%w: %q", ErrReservedState, w)
		}
	}

	deltas := make(map[[2]string]int, 2*(len(phrase)+1))
	for i := 0; i <= len(phrase); i++ {
		prev, curr := BOS, EOS
		if i > 0 {
			prev = phrase[i-1]
		}
		if i < len(phrase) {
			curr = phrase[i]
		}
		deltas[[2]string{curr, prev}] += count
		deltas[[2]string{curr, TOTAL}] += count
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries := make([]Entry, 0, len(deltas))
	for key, c := range deltas {
		row, ok := m.trans[key[0]]
		if !ok {
			row = make(map[string]int)
			m.trans[key[0]] = row
		}
		row[key[1]] += c
		entries = append(entries, Entry{Curr: key[0], Prev: key[1], Count: c})
	}
	for _, w := range phrase {
		m.weights[w] += count
	}
	m.version++

	sortEntries(entries)
	return entries, nil
}

// Count returns the count of transitions prev->curr. Use TOTAL as prev for
// the total incoming mass of curr.
func (m *Model) Count(curr, prev string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.trans[curr][prev]
}

// Total returns the total incoming transition mass of curr.
func (m *Model) Total(curr string) int {
	return m.Count(curr, TOTAL)
}

// Weight returns how often word occurred in ingested phrases.
func (m *Model) Weight(word string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.weights[word]
}

// Score returns log(count[curr][prev] / count[curr][TOTAL]), or the floor
// when the transition was never observed. Scores never drop below the floor.
func (m *Model) Score(prev, curr string) float64 {
	m.mu.RLock()
	row := m.trans[curr]
	count, total := row[prev], row[TOTAL]
	m.mu.RUnlock()

	if count <= 0 || total <= 0 {
		return m.floor
	}
	return math.Max(math.Log(float64(count)/float64(total)), m.floor)
}

// Floor returns the score of an unseen transition.
func (m *Model) Floor() float64 {
	return m.floor
}

// Version increments on every successful Ingest.
func (m *Model) Version() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Len returns the number of current states with at least one transition.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.trans)
}

// Entries returns every transition count, sorted by current then previous state.
func (m *Model) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []Entry
	for curr, row := range m.trans {
		for prev, c := range row {
			entries = append(entries, Entry{Curr: curr, Prev: prev, Count: c})
		}
	}
	sortEntries(entries)
	return entries
}

// Weights returns a copy of the word weights.
func (m *Model) Weights() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int, len(m.weights))
	for w, c := range m.weights {
		out[w] = c
	}
	return out
}

// Clone returns an independent copy carrying the same version.
func (m *Model) Clone() *Model {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c := &Model{
		trans:   make(map[string]map[string]int, len(m.trans)),
		weights: make(map[string]int, len(m.weights)),
		version: m.version,
		floor:   m.floor,
	}
	for curr, row := range m.trans {
		r := make(map[string]int, len(row))
		for prev, n := range row {
			r[prev] = n
		}
		c.trans[curr] = r
	}
	for w, n := range m.weights {
		c.weights[w] = n
	}
	return c
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Curr != entries[j].Curr {
			return entries[i].Curr < entries[j].Curr
		}
		return entries[i].Prev < entries[j].Prev
	})
}
