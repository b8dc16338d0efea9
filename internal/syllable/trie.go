// Package syllable provides the prefix tree over every legal pinyin spelling.
//
// The trie is built once from a static spelling list and is read-only
// afterwards, so a single *Trie may be shared by any number of decode
// sessions without locking.
package syllable

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// MaxLength is the length of the longest pinyin spelling.
const MaxLength = 6

var (
	// ErrEmptySpellingList is returned when a spelling list has no entries.
	ErrEmptySpellingList = errors.New("syllable: empty spelling list")
	// ErrInvalidSpelling is returned for spellings outside [a-z]{1,6}.
	ErrInvalidSpelling = errors.New("syllable: invalid spelling")
)

//go:embed syllables.txt
var defaultList string

// Node is one letter position in a pinyin spelling.
type Node struct {
	letter   byte
	spelling string
	id       int
	children map[byte]*Node
	next     []byte
	below    []string
}

// Letter returns the letter matched by this node. The root returns 0.
func (n *Node) Letter() byte {
	return n.letter
}

// Spelling returns the letters on the path from the root to this node.
func (n *Node) Spelling() string {
	return n.spelling
}

// IsSyllable reports whether the path to this node is a complete syllable.
func (n *Node) IsSyllable() bool {
	return n != nil && n.id >= 0
}

// ID returns the syllable id, or -1 when the node is not a complete syllable.
func (n *Node) ID() int {
	return n.id
}

// Child returns the child reached by letter, or nil.
func (n *Node) Child(letter byte) *Node {
	if n == nil {
		return nil
	}
	return n.children[letter]
}

// ChildCount returns the number of distinct next letters.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.children)
}

// NextLetters returns the possible next letters in ascending order.
func (n *Node) NextLetters() []byte {
	if n == nil {
		return nil
	}
	return append([]byte(nil), n.next...)
}

// AllSyllablesBelow returns every complete syllable at or below this node,
// ordered by length and then lexicographically.
func (n *Node) AllSyllablesBelow() []string {
	if n == nil {
		return nil
	}
	return append([]string(nil), n.below...)
}

// Trie is an immutable prefix tree over pinyin spellings.
type Trie struct {
	root      *Node
	spellings []string
}

// New builds a trie from a list of spellings. Duplicates are ignored.
// Syllable ids are assigned in lexicographic order of the spellings.
func New(spellings []string) (*Trie, error) {
	set := make(map[string]struct{}, len(spellings))
	for _, s := range spellings {
		if !validSpelling(s) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSpelling, s)
		}
		set[s] = struct{}{}
	}
	if len(set) == 0 {
		return nil, ErrEmptySpellingList
	}

	sorted := make([]string, 0, len(set))
	for s := range set {
		sorted = append(sorted, s)
	}
	sort.Strings(sorted)

	t := &Trie{root: newNode(0, ""), spellings: sorted}
	for id, s := range sorted {
		node := t.root
		for i := 0; i < len(s); i++ {
			child, ok := node.children[s[i]]
			if !ok {
				child = newNode(s[i], s[:i+1])
				node.children[s[i]] = child
			}
			node = child
		}
		node.id = id
	}
	t.root.seal()

	return t, nil
}

// Load reads a whitespace separated spelling list. Lines starting with '#'
// are comments.
func Load(r io.Reader) (*Trie, error) {
	var spellings []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		spellings = append(spellings, strings.Fields(strings.ToLower(line))...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading spelling list: %w", err)
	}

	return New(spellings)
}

var loadDefault = sync.OnceValues(func() (*Trie, error) {
	return Load(strings.NewReader(defaultList))
})

// Default returns the trie over the built-in spelling list.
func Default() (*Trie, error) {
	return loadDefault()
}

// Root returns the root node. It matches no letter.
func (t *Trie) Root() *Node {
	return t.root
}

// Find walks seq from the root and returns the node it ends on, or nil.
func (t *Trie) Find(seq string) *Node {
	if seq == "" || len(seq) > MaxLength {
		return nil
	}
	node := t.root
	for i := 0; i < len(seq) && node != nil; i++ {
		node = node.children[seq[i]]
	}
	return node
}

// IsValidPartial reports whether seq is a prefix of, or equal to, a syllable.
func (t *Trie) IsValidPartial(seq string) bool {
	return t.Find(seq) != nil
}

// IsSyllable reports whether seq is a complete syllable.
func (t *Trie) IsSyllable(seq string) bool {
	return t.Find(seq).IsSyllable()
}

// ID returns the syllable id of spelling.
func (t *Trie) ID(spelling string) (int, bool) {
	node := t.Find(spelling)
	if !node.IsSyllable() {
		return -1, false
	}
	return node.id, true
}

// Spelling returns the spelling for a syllable id.
func (t *Trie) Spelling(id int) (string, bool) {
	if id < 0 || id >= len(t.spellings) {
		return "", false
	}
	return t.spellings[id], true
}

// Len returns the number of syllables.
func (t *Trie) Len() int {
	return len(t.spellings)
}

// Syllables returns every syllable in id order.
func (t *Trie) Syllables() []string {
	return append([]string(nil), t.spellings...)
}

// StartingWith returns all syllables beginning with letter.
func (t *Trie) StartingWith(letter byte) []string {
	return t.root.Child(letter).AllSyllablesBelow()
}

func newNode(letter byte, spelling string) *Node {
	return &Node{
		letter:   letter,
		spelling: spelling,
		id:       -1,
		children: make(map[byte]*Node),
	}
}

// seal fills the derived next-letter and syllables-below caches bottom up.
func (n *Node) seal() {
	n.next = make([]byte, 0, len(n.children))
	if n.id >= 0 {
		n.below = append(n.below, n.spelling)
	}
	for letter, child := range n.children {
		child.seal()
		n.next = append(n.next, letter)
		n.below = append(n.below, child.below...)
	}
	sort.Slice(n.next, func(i, j int) bool { return n.next[i] < n.next[j] })
	sort.Slice(n.below, func(i, j int) bool {
		a, b := n.below[i], n.below[j]
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
}

func validSpelling(s string) bool {
	if s == "" || len(s) > MaxLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
