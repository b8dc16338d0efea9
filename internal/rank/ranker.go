// Package rank orders the candidates of a pending syllable and pages them.
package rank

import (
	"slices"
	"sort"

	"github.com/f3rmion/pyime/internal/dict"
	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/f3rmion/pyime/internal/input"
)

// Defaults for page and best-list sizes.
const (
	DefaultPageSize = 12
	DefaultBestSize = 6
)

// Source provides candidates and keyword-matched emojis.
type Source interface {
	Candidates(spelling string) []*input.Word
	Emojis(keywords []string) []*input.Word
}

// Scorer scores transitions and reports word weights.
type Scorer interface {
	Score(prev, curr string) float64
	Weight(word string) int
}

// Context is the text surrounding the ranked position.
type Context struct {
	Prev     string   // word immediately before, "" at phrase start
	Keywords []string // words of the surrounding phrase, for emoji matching
}

// Page is one page of ranked candidates.
type Page struct {
	Items []*input.Word
	Index int
	Total int
}

// Ranker ranks candidates against a transition model.
type Ranker struct {
	src      Source
	model    Scorer
	pageSize int
	bestSize int
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithPageSize sets the number of items per page.
func WithPageSize(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithBestSize sets how many model-ranked words lead the list.
func WithBestSize(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.bestSize = n
		}
	}
}

// New creates a ranker.
func New(src Source, model Scorer, opts ...Option) *Ranker {
	r := &Ranker{src: src, model: model, pageSize: DefaultPageSize, bestSize: DefaultBestSize}
	for _, opt := range opts {
		opt(r)
	}
	if r.bestSize > r.pageSize {
		r.bestSize = r.pageSize
	}
	return r
}

// PageSize returns the number of items per page.
func (r *Ranker) PageSize() int {
	return r.pageSize
}

// Best returns the leading subset: the word confirmed earlier at p, then
// the top scoring words given ctx.Prev, then emojis matching the phrase
// keywords up to one page.
func (r *Ranker) Best(p *input.PendingSyllable, ctx Context) []*input.Word {
	if p.Latin || p.IsEmpty() {
		return nil
	}

	var best []*input.Word
	if p.Word != nil && p.Confirmed {
		best = append(best, p.Word)
	}

	prev := ctx.Prev
	if prev == "" {
		prev = hmm.BOS
	}

	cands := slices.Clone(r.src.Candidates(p.Spelling()))
	scores := make(map[*input.Word]float64, len(cands))
	for _, w := range cands {
		scores[w] = r.model.Score(prev, w.Value)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return r.weight(a) > r.weight(b)
	})
	for _, w := range cands {
		if len(best) >= r.bestSize {
			break
		}
		if !containsValue(best, w) {
			best = append(best, w)
		}
	}

	keywords := slices.Clone(ctx.Keywords)
	if len(best) > 0 {
		keywords = append(keywords, best[0].Value)
	}
	for _, e := range r.src.Emojis(keywords) {
		if len(best) >= r.pageSize {
			break
		}
		if !containsValue(best, e) {
			best = append(best, e)
		}
	}

	return best
}

// Layout splits the candidates into the first page and the remainder.
// The first page holds the best words, then the heaviest remaining words,
// then the best emojis in its tail slots. The remainder is ordered by
// weight and starts on the second page.
func (r *Ranker) Layout(p *input.PendingSyllable, ctx Context) (first, rest []*input.Word) {
	if p.Latin || p.IsEmpty() {
		return nil, nil
	}
	best := r.Best(p, ctx)

	var words, emojis []*input.Word
	for _, w := range best {
		if w.Emoji {
			emojis = append(emojis, w)
		} else {
			words = append(words, w)
		}
	}

	for _, w := range r.src.Candidates(p.Spelling()) {
		if !containsValue(best, w) {
			rest = append(rest, w)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return r.weight(rest[i]) > r.weight(rest[j])
	})

	fill := max(r.pageSize-len(words)-len(emojis), 0)
	fill = min(fill, len(rest))
	first = slices.Concat(words, rest[:fill], emojis)
	return first, rest[fill:]
}

// Rank returns the full ordered list: the first page, then the remainder.
// Entries failing f are removed from both parts.
func (r *Ranker) Rank(p *input.PendingSyllable, ctx Context, f input.Filter) []*input.Word {
	first, rest := r.Layout(p, ctx)
	return slices.Concat(filterWords(first, f), filterWords(rest, f))
}

// List returns one page. The pages are laid out without the filter, then
// f narrows each page in place, so a filtered page only holds items of the
// unfiltered page with the same index and may be empty. Page indexes wrap
// around; a filter matching nothing yields an empty page with Total 0.
func (r *Ranker) List(p *input.PendingSyllable, ctx Context, f input.Filter, page int) Page {
	first, rest := r.Layout(p, ctx)
	all := slices.Concat(first, rest)
	if !f.IsEmpty() && !slices.ContainsFunc(all, f.Matches) {
		return Page{}
	}

	pg := Paginate(all, r.pageSize, page)
	pg.Items = filterWords(pg.Items, f)
	return pg
}

// Spells returns the tone-ordered spells available for the filter bar.
func (r *Ranker) Spells(p *input.PendingSyllable) []string {
	return dict.Spells(r.src.Candidates(p.Spelling()))
}

// Radicals returns the radicals available for the filter bar, narrowed by
// the spells already selected in f.
func (r *Ranker) Radicals(p *input.PendingSyllable, f input.Filter) []string {
	spellOnly := input.Filter{Spells: f.Spells}
	var words []*input.Word
	for _, w := range r.src.Candidates(p.Spelling()) {
		if spellOnly.Matches(w) {
			words = append(words, w)
		}
	}
	return dict.Radicals(words)
}

// Paginate slices items into pages of size. An out-of-range index wraps
// around; an empty list yields an empty page with Total 0.
func Paginate(items []*input.Word, size, page int) Page {
	if len(items) == 0 || size <= 0 {
		return Page{}
	}

	total := (len(items) + size - 1) / size
	page = ((page % total) + total) % total

	start := page * size
	end := min(start+size, len(items))
	return Page{Items: items[start:end], Index: page, Total: total}
}

func filterWords(ws []*input.Word, f input.Filter) []*input.Word {
	if f.IsEmpty() {
		return ws
	}
	var out []*input.Word
	for _, w := range ws {
		if f.Matches(w) {
			out = append(out, w)
		}
	}
	return out
}

func (r *Ranker) weight(w *input.Word) int {
	return w.Weight + r.model.Weight(w.Value)
}

func containsValue(ws []*input.Word, w *input.Word) bool {
	return slices.ContainsFunc(ws, func(x *input.Word) bool {
		return x == w || (x.Value == w.Value && x.Spell == w.Spell)
	})
}
