// Package engine ties the syllable trie, the candidate dictionary and the
// transition model together and hands out per-field decode sessions.
//
// An Engine is shared and safe for concurrent use. The transition model is
// replaced copy-on-write: readers hold a snapshot for the duration of one
// call while training builds and swaps in a new model.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/f3rmion/pyime/internal/decoder"
	"github.com/f3rmion/pyime/internal/decomp"
	"github.com/f3rmion/pyime/internal/dict"
	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/f3rmion/pyime/internal/observe"
	"github.com/f3rmion/pyime/internal/predict"
	"github.com/f3rmion/pyime/internal/rank"
	"github.com/f3rmion/pyime/internal/store"
	"github.com/f3rmion/pyime/internal/syllable"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// ErrNoTrie is returned when an engine is built without a syllable trie.
var ErrNoTrie = errors.New("engine: syllable trie is required")

// watchDebounce coalesces bursts of database writes into one reload.
const watchDebounce = 100 * time.Millisecond

// Engine is the shared, read-mostly half of the input method.
type Engine struct {
	trie    *syllable.Trie
	dict    *dict.Dict
	model   atomic.Pointer[hmm.Model]
	train   sync.Mutex // serializes model replacement
	store   *store.Store
	logger  *slog.Logger
	metrics *observe.Metrics

	pageSize      int
	bestSize      int
	maxCandidates int
}

// Option configures an Engine.
type Option func(*Engine)

// WithModel sets the initial transition model.
func WithModel(m *hmm.Model) Option {
	return func(e *Engine) {
		if m != nil {
			e.model.Store(m)
		}
	}
}

// WithStore persists training and commits to s.
func WithStore(s *store.Store) Option {
	return func(e *Engine) { e.store = s }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metric instruments. The default records to the
// global meter provider.
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithPageSize sets the candidate page size.
func WithPageSize(n int) Option {
	return func(e *Engine) { e.pageSize = n }
}

// WithBestSize sets how many model-ranked candidates lead the list.
func WithBestSize(n int) Option {
	return func(e *Engine) { e.bestSize = n }
}

// WithMaxCandidates caps the candidates searched per prediction position.
func WithMaxCandidates(n int) Option {
	return func(e *Engine) { e.maxCandidates = n }
}

// New creates an engine over trie and d. A nil d yields an empty
// dictionary.
func New(trie *syllable.Trie, d *dict.Dict, opts ...Option) (*Engine, error) {
	if trie == nil {
		return nil, ErrNoTrie
	}
	if d == nil {
		d = dict.New(trie)
	}

	e := &Engine{
		trie:          trie,
		dict:          d,
		logger:        slog.Default(),
		pageSize:      rank.DefaultPageSize,
		bestSize:      rank.DefaultBestSize,
		maxCandidates: predict.DefaultMaxCandidates,
	}
	e.model.Store(hmm.New())
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = observe.DefaultMetrics()
	}
	return e, nil
}

// Sources names the files an engine is loaded from. Empty paths are
// skipped.
type Sources struct {
	Decomposition string // MMAH dictionary.txt, for radicals
	Extras        string // extras YAML
	Floor         float64
}

// Load builds the default trie and dictionary, then loads the radical
// table, the extras file and the stored model concurrently.
func Load(ctx context.Context, src Sources, opts ...Option) (*Engine, error) {
	trie, err := syllable.Default()
	if err != nil {
		return nil, fmt.Errorf("loading syllables: %w", err)
	}

	e, err := New(trie, dict.FromPinyin(trie), opts...)
	if err != nil {
		return nil, err
	}

	for _, path := range []*string{&src.Decomposition, &src.Extras} {
		if *path != "" && !fileExists(*path) {
			e.logger.Warn("optional source not found, skipping", "path", *path)
			*path = ""
		}
	}

	var (
		radicals *decomp.Table
		extras   *dict.Extras
		model    *hmm.Model
	)

	g, gctx := errgroup.WithContext(ctx)
	if src.Decomposition != "" {
		g.Go(func() error {
			radicals = decomp.New()
			if err := radicals.ReadFile(src.Decomposition); err != nil {
				return fmt.Errorf("loading decomposition dictionary: %w", err)
			}
			if n := radicals.Skipped(); n > 0 {
				e.logger.Debug("skipped malformed decomposition lines", "count", n)
			}
			return nil
		})
	}
	if src.Extras != "" {
		g.Go(func() error {
			var err error
			extras, err = dict.LoadExtras(src.Extras)
			return err
		})
	}
	if e.store != nil {
		g.Go(func() error {
			var err error
			model, err = e.store.LoadModel(gctx, floorOption(src.Floor)...)
			if err != nil {
				return fmt.Errorf("loading model: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if radicals != nil {
		e.dict.ApplyRadicals(radicals)
	}
	if extras != nil {
		for _, w := range e.dict.Apply(extras) {
			e.logger.Warn("skipping extra word with unknown spell", "word", w)
		}
	}
	if model != nil {
		e.model.Store(model)
	} else if src.Floor != 0 {
		e.model.Store(hmm.New(hmm.WithFloor(src.Floor)))
	}

	e.logger.Debug("engine loaded",
		"syllables", trie.Len(),
		"words", e.dict.Size(),
		"transitions", e.Model().Len(),
	)
	return e, nil
}

func floorOption(floor float64) []hmm.Option {
	if floor == 0 {
		return nil
	}
	return []hmm.Option{hmm.WithFloor(floor)}
}

// Trie returns the syllable trie.
func (e *Engine) Trie() *syllable.Trie {
	return e.trie
}

// Dict returns the candidate dictionary.
func (e *Engine) Dict() *dict.Dict {
	return e.dict
}

// Model returns the current transition model snapshot.
func (e *Engine) Model() *hmm.Model {
	return e.model.Load()
}

// Store returns the backing store, nil when none is configured.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Ranker returns a ranker over the current model snapshot.
func (e *Engine) Ranker() *rank.Ranker {
	return rank.New(e.dict, e.Model(), rank.WithPageSize(e.pageSize), rank.WithBestSize(e.bestSize))
}

// Predictor returns a predictor over the current model snapshot.
func (e *Engine) Predictor() *predict.Predictor {
	return predict.New(e.Model(), predict.WithMaxCandidates(e.maxCandidates))
}

// NewSession starts a decode session for one input field.
func (e *Engine) NewSession(mode decoder.Mode) *Session {
	return &Session{eng: e, dec: decoder.New(e.trie, mode)}
}

// IngestTrainingPhrase adds a hanzi phrase count times to the model. The
// new model is persisted first and then swapped in, so readers never see
// a half-applied update.
func (e *Engine) IngestTrainingPhrase(ctx context.Context, hanzi []string, count int) error {
	e.train.Lock()
	defer e.train.Unlock()

	next := e.Model().Clone()
	entries, err := next.Ingest(hanzi, count)
	if err != nil {
		return err
	}

	if e.store != nil {
		weights := make(map[string]int, len(hanzi))
		for _, w := range hanzi {
			weights[w] += count
		}
		if err := e.store.AddTransitions(ctx, entries, weights); err != nil {
			return fmt.Errorf("saving phrase: %w", err)
		}
	}

	e.model.Store(next)
	e.metrics.ModelIngested.Add(ctx, 1)
	return nil
}

// ReloadModel replaces the model with the one in the store.
func (e *Engine) ReloadModel(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	e.train.Lock()
	defer e.train.Unlock()

	m, err := e.store.LoadModel(ctx, hmm.WithFloor(e.Model().Floor()))
	if err != nil {
		return fmt.Errorf("reloading model: %w", err)
	}
	e.model.Store(m)
	return nil
}

// WatchModel reloads the model whenever another process writes to the
// database. It blocks until ctx is done.
func (e *Engine) WatchModel(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	path := e.store.Path()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	base := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// The -journal and -wal files change on commit too.
			if !strings.HasPrefix(filepath.Base(event.Name), base) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				if err := e.ReloadModel(ctx); err != nil {
					e.logger.Error("model reload failed", "error", err)
					return
				}
				e.logger.Debug("model reloaded", "transitions", e.Model().Len())
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("model watcher error", "error", err)
		}
	}
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
