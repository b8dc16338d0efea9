package dict

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/f3rmion/pyime/internal/syllable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type radicals map[string]string

func (r radicals) Radical(char string) string { return r[char] }

func newDict(t *testing.T) *Dict {
	t.Helper()
	trie, err := syllable.Default()
	require.NoError(t, err)
	return New(trie)
}

func TestDict_AddAndCandidates(t *testing.T) {
	d := newDict(t)

	assert.True(t, d.Add("中", "zhōng", 5))
	assert.True(t, d.Add("重", "zhòng", 0))
	assert.True(t, d.Add("周", "zhōu", 0))
	assert.True(t, d.Add("中", "zhōng", 2))
	assert.False(t, d.Add("x", "zhx", 0))
	assert.False(t, d.Add("", "zhong", 0))

	got := d.Candidates("zhong")
	require.Len(t, got, 2)
	assert.Equal(t, "中", got[0].Value)
	assert.Equal(t, 5, got[0].Weight)

	partial := d.Candidates("zho")
	require.Len(t, partial, 3)
	assert.Equal(t, "周", partial[0].Value, "zhou is shorter than zhong")

	assert.Nil(t, d.Candidates("zhx"))
	assert.Empty(t, d.Candidates("a"))
	assert.Equal(t, 3, d.Size())
}

func TestDict_RadicalsAndVariants(t *testing.T) {
	d := newDict(t)
	d.Add("后", "hòu", 0)
	d.Add("好", "hǎo", 0)
	d.Add("号", "hào", 0)

	d.ApplyRadicals(radicals{"好": "女", "号": "口", "后": "口"})
	d.SetVariant("后", "後")

	assert.Equal(t, "後", d.Lookup("后")[0].Variant)
	assert.Equal(t, []string{"女", "口"}, Radicals(d.Candidates("hao")))
	assert.Equal(t, []string{"hǎo", "hào"}, Spells(d.Candidates("hao")))
}

func TestDict_Emojis(t *testing.T) {
	d := newDict(t)
	d.AddEmoji("😀", []string{"笑", "开心"})
	d.AddEmoji("😂", []string{"笑"})

	got := d.Emojis([]string{"开心", "笑"})
	require.Len(t, got, 2)
	assert.Equal(t, "😀", got[0].Value)
	assert.True(t, got[0].Emoji)
	assert.Equal(t, -1, got[0].Syllable)
	assert.Empty(t, d.Emojis([]string{"哭"}))
}

func TestLoadExtras(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extras.yaml")
	content := `words:
  - value: 㐅
    spell: wǔ
  - value: bad
    spell: qx
variants:
  后: 後
emojis:
  - value: 🍵
    keywords: [茶]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	extras, err := LoadExtras(path)
	require.NoError(t, err)

	d := newDict(t)
	d.Add("后", "hòu", 0)
	skipped := d.Apply(extras)

	assert.Equal(t, []string{"bad qx"}, skipped)
	assert.Len(t, d.Lookup("㐅"), 1)
	assert.Equal(t, "後", d.Lookup("后")[0].Variant)
	assert.Len(t, d.Emojis([]string{"茶"}), 1)

	_, err = LoadExtras(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFromPinyin(t *testing.T) {
	trie, err := syllable.Default()
	require.NoError(t, err)

	d := FromPinyin(trie)
	values := make([]string, 0)
	for _, w := range d.Candidates("zhong") {
		values = append(values, w.Value)
	}
	assert.Contains(t, values, "中")
	assert.NotEmpty(t, d.Lookup("好"))
}
