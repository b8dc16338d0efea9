package syllable

import "strings"

// Level is the decoding level of a key within one syllable.
type Level int

const (
	// LevelInitial is the leading consonant, or zh/ch/sh, or a leading vowel.
	LevelInitial Level = iota
	// LevelContinuation is the single letter following the initial.
	LevelContinuation
	// LevelFinal is everything after the continuation letter.
	LevelFinal
)

func (l Level) String() string {
	switch l {
	case LevelInitial:
		return "initial"
	case LevelContinuation:
		return "continuation"
	case LevelFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Segment splits a spelling into its initial, first continuation letter and
// final rest. Any part may be empty. The spelling does not need to be a
// complete syllable.
//
//	zhong -> zh, o, ng
//	an    -> a, n, ""
//	lv    -> l, v, ""
func Segment(spelling string) (initial, continuation, final string) {
	if spelling == "" {
		return "", "", ""
	}

	n := 1
	if len(spelling) >= 2 && spelling[1] == 'h' && strings.IndexByte("zcs", spelling[0]) >= 0 {
		n = 2
	}
	initial = spelling[:n]
	rest := spelling[n:]
	if rest == "" {
		return initial, "", ""
	}

	return initial, rest[:1], rest[1:]
}

// InitialLength returns the byte length of the initial of spelling.
func InitialLength(spelling string) int {
	initial, _, _ := Segment(spelling)
	return len(initial)
}

// LevelAt returns the decoding level of the letter at index i of spelling.
func LevelAt(spelling string, i int) Level {
	n := InitialLength(spelling)
	switch {
	case i < n:
		return LevelInitial
	case i == n:
		return LevelContinuation
	default:
		return LevelFinal
	}
}
