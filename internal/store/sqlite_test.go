package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/f3rmion/pyime/internal/hmm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "pyime.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCloseNilDB(t *testing.T) {
	s := &Store{}
	assert.NoError(t, s.Close())
}

func TestTransitionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	m := hmm.New()
	entries, err := m.Ingest([]string{"你", "好"}, 3)
	require.NoError(t, err)
	require.NoError(t, s.AddTransitions(ctx, entries, map[string]int{"你": 3, "好": 3}))

	loaded, err := s.LoadModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, m.Entries(), loaded.Entries())
	assert.Equal(t, 3, loaded.Weight("好"))
}

func TestAddTransitionsAccumulates(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	delta := []hmm.Entry{{Curr: "好", Prev: "你", Count: 2}, {Curr: "好", Prev: hmm.TOTAL, Count: 2}}
	require.NoError(t, s.AddTransitions(ctx, delta, map[string]int{"好": 2}))
	require.NoError(t, s.AddTransitions(ctx, delta, map[string]int{"好": 2}))

	loaded, err := s.LoadModel(ctx, hmm.WithFloor(-20))
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Count("好", "你"))
	assert.Equal(t, 4, loaded.Total("好"))
	assert.Equal(t, 4, loaded.Weight("好"))
	assert.Equal(t, -20.0, loaded.Floor())
}

func TestLoadModelEmpty(t *testing.T) {
	loaded, err := openStore(t).LoadModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestUserCorpus(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.RecordPhrase(ctx, []string{"你", "好"}))
	require.NoError(t, s.RecordPhrase(ctx, []string{"你", "好"}))
	require.NoError(t, s.RecordPhrase(ctx, []string{"谢"}))
	require.NoError(t, s.RecordPhrase(ctx, nil))

	phrases, counts, err := s.Phrases(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"你", "好"}, {"谢"}}, phrases)
	assert.Equal(t, []int{2, 1}, counts)

	for _, w := range []string{"hello", "help", "help", "world", ""} {
		require.NoError(t, s.RecordLatin(ctx, w))
	}
	latin, err := s.LatinWords(ctx, "HEL", 10)
	require.NoError(t, err)
	assert.Equal(t, []Usage{{"help", 2}, {"hello", 1}}, latin)

	latin, err = s.LatinWords(ctx, "hel", 1)
	require.NoError(t, err)
	assert.Len(t, latin, 1)

	require.NoError(t, s.RecordEmoji(ctx, "👍"))
	emojis, err := s.Emojis(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []Usage{{"👍", 1}}, emojis)
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pyime.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordLatin(ctx, "golang"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	words, err := s.LatinWords(ctx, "go", 0)
	require.NoError(t, err)
	assert.Equal(t, []Usage{{"golang", 1}}, words)
	assert.Equal(t, path, s.Path())
}
