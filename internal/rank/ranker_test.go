package rank

import (
	"testing"

	"github.com/f3rmion/pyime/internal/dict"
	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/f3rmion/pyime/internal/input"
	"github.com/f3rmion/pyime/internal/syllable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type radicals map[string]string

func (r radicals) Radical(char string) string { return r[char] }

func haoDict(t *testing.T) *dict.Dict {
	t.Helper()
	trie, err := syllable.Default()
	require.NoError(t, err)

	d := dict.New(trie)
	d.Add("号", "hào", 1)
	d.Add("好", "hǎo", 0)
	d.Add("毫", "háo", 2)
	d.Add("郝", "hǎo", 0)
	d.Add("你", "nǐ", 0)
	d.ApplyRadicals(radicals{"号": "口", "好": "女", "毫": "毛", "郝": "阝"})
	d.AddEmoji("👍", []string{"好"})
	return d
}

func values(ws []*input.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Value
	}
	return out
}

func TestBest_ModelThenWeight(t *testing.T) {
	m := hmm.New()
	_, err := m.Ingest([]string{"你", "好"}, 3)
	require.NoError(t, err)

	r := New(haoDict(t), m, WithBestSize(2))
	got := r.Best(input.NewPending("hao"), Context{Prev: "你"})

	assert.Equal(t, []string{"好", "毫", "👍"}, values(got))
}

func TestBest_PinsAssignedWord(t *testing.T) {
	d := haoDict(t)
	r := New(d, hmm.New(), WithBestSize(2))

	p := input.NewPending("hao")
	p.SetWord(d.Lookup("郝")[0], true)

	got := r.Best(p, Context{})
	require.NotEmpty(t, got)
	assert.Equal(t, "郝", got[0].Value)
	assert.Equal(t, 1, countValue(got, "郝"))
}

func TestBest_PredictedWordNotPinned(t *testing.T) {
	d := haoDict(t)
	r := New(d, hmm.New(), WithBestSize(1))

	p := input.NewPending("hao")
	p.SetWord(d.Lookup("郝")[0], false)

	assert.Equal(t, []string{"毫"}, values(r.Best(p, Context{})))
}

func TestRank_RestByWeight(t *testing.T) {
	r := New(haoDict(t), hmm.New(), WithBestSize(1))
	got := r.Rank(input.NewPending("hao"), Context{}, input.Filter{})

	// Best: 毫 (heaviest under equal scores); no emoji keyword matches 毫.
	assert.Equal(t, []string{"毫", "号", "好", "郝"}, values(got))
}

func TestList_RadicalFilterIsStrictSubset(t *testing.T) {
	m := hmm.New()
	_, err := m.Ingest([]string{"你", "好"}, 1)
	require.NoError(t, err)
	r := New(haoDict(t), m)
	p := input.NewPending("hao")
	ctx := Context{Prev: "你"}

	all := r.List(p, ctx, input.Filter{}, 0)
	filtered := r.List(p, ctx, input.Filter{Radicals: []string{"女"}}, 0)

	assert.Equal(t, []string{"好"}, values(filtered.Items))
	assert.Less(t, len(filtered.Items), len(all.Items))
	for _, w := range filtered.Items {
		assert.Contains(t, all.Items, w)
	}
	assert.Contains(t, values(all.Items), "👍")
}

func multiPageDict(t *testing.T) *dict.Dict {
	t.Helper()
	trie, err := syllable.Default()
	require.NoError(t, err)

	d := dict.New(trie)
	d.Add("号", "hào", 3)
	d.Add("毫", "háo", 2)
	d.Add("好", "hǎo", 0)
	d.Add("郝", "hǎo", 0)
	d.Add("浩", "hào", 0)
	d.ApplyRadicals(radicals{"号": "口", "毫": "毛", "好": "女", "郝": "阝", "浩": "氵"})
	return d
}

func TestList_MultiPageLayout(t *testing.T) {
	r := New(multiPageDict(t), hmm.New(), WithPageSize(2), WithBestSize(1))
	p := input.NewPending("hao")

	first, rest := r.Layout(p, Context{})
	assert.Equal(t, []string{"号", "毫"}, values(first))
	assert.Equal(t, []string{"好", "郝", "浩"}, values(rest))

	page := r.List(p, Context{}, input.Filter{}, 0)
	assert.Equal(t, []string{"号", "毫"}, values(page.Items))
	assert.Equal(t, 3, page.Total)
}

func TestList_FilteredPagesAreSubsets(t *testing.T) {
	r := New(multiPageDict(t), hmm.New(), WithPageSize(2), WithBestSize(1))
	p := input.NewPending("hao")

	tests := []struct {
		name   string
		filter input.Filter
		pages  [][]string
	}{
		{"radical on later page", input.Filter{Radicals: []string{"女"}}, [][]string{nil, {"好"}, nil}},
		{"radical on first page", input.Filter{Radicals: []string{"口"}}, [][]string{{"号"}, nil, nil}},
		{"spell across pages", input.Filter{Spells: []string{"hào"}}, [][]string{{"号"}, nil, {"浩"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, want := range tt.pages {
				filtered := r.List(p, Context{}, tt.filter, i)
				all := r.List(p, Context{}, input.Filter{}, i)

				assert.Equal(t, 3, filtered.Total)
				assert.Equal(t, i, filtered.Index)
				if want == nil {
					assert.Empty(t, filtered.Items, "page %d", i)
				} else {
					assert.Equal(t, want, values(filtered.Items), "page %d", i)
				}
				assert.LessOrEqual(t, len(filtered.Items), len(all.Items))
				for _, w := range filtered.Items {
					assert.Contains(t, all.Items, w, "page %d", i)
				}
			}
		})
	}

	none := r.List(p, Context{}, input.Filter{Radicals: []string{"木"}}, 0)
	assert.Equal(t, Page{}, none)
}

func TestList_SpellFilterExcludesEmoji(t *testing.T) {
	m := hmm.New()
	_, err := m.Ingest([]string{"好"}, 1)
	require.NoError(t, err)
	r := New(haoDict(t), m)

	page := r.List(input.NewPending("hao"), Context{}, input.Filter{Spells: []string{"hǎo"}}, 0)
	assert.ElementsMatch(t, []string{"好", "郝"}, values(page.Items))
}

func TestList_EmptyAndLatin(t *testing.T) {
	r := New(haoDict(t), hmm.New())

	assert.Equal(t, Page{}, r.List(input.NewPending("a"), Context{}, input.Filter{}, 0))
	assert.Equal(t, Page{}, r.List(input.NewLatin("hello"), Context{}, input.Filter{}, 0))
}

func TestPaginate(t *testing.T) {
	items := make([]*input.Word, 5)
	for i := range items {
		items[i] = &input.Word{Value: string(rune('a' + i))}
	}

	tests := []struct {
		name  string
		page  int
		want  []string
		index int
	}{
		{"first", 0, []string{"a", "b"}, 0},
		{"last partial", 2, []string{"e"}, 2},
		{"wraps forward", 3, []string{"a", "b"}, 0},
		{"wraps backward", -1, []string{"e"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, 2, tt.page)
			assert.Equal(t, tt.want, values(p.Items))
			assert.Equal(t, tt.index, p.Index)
			assert.Equal(t, 3, p.Total)
		})
	}

	assert.Equal(t, Page{}, Paginate(nil, 2, 0))
}

func TestFilterBar(t *testing.T) {
	r := New(haoDict(t), hmm.New())
	p := input.NewPending("hao")

	assert.Equal(t, []string{"háo", "hǎo", "hào"}, r.Spells(p))
	assert.Equal(t, []string{"女", "阝"}, r.Radicals(p, input.Filter{Spells: []string{"hǎo"}}))
}

func countValue(ws []*input.Word, v string) int {
	n := 0
	for _, w := range ws {
		if w.Value == v {
			n++
		}
	}
	return n
}
