// internal/game/types.go
//
// Core type definitions for the word game.
// Defines:
//   - Word: an N-letter uppercase word (secret or guess).
//   - LetterResult: per-letter classification of a guess (exact/present/absent).
//   - Evaluation: the positional result of one guess.

package game

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLength is the word length used when none is configured.
const DefaultLength = 5

var (
	// ErrWordLength is returned by ParseWord when the word has the wrong length.
	ErrWordLength = errors.New("word has wrong length")
	// ErrWordAlphabet is returned by ParseWord when the word contains non-letters.
	ErrWordAlphabet = errors.New("word must contain only letters A-Z")
)

// Word is an uppercase ASCII word. Values built by ParseWord are always valid.
type Word string

// ParseWord trims and upper-cases s and checks it is exactly n letters A-Z.
func ParseWord(s string, n int) (Word, error) {
	w := strings.ToUpper(strings.TrimSpace(s))
	if len(w) != n {
		return "", fmt.Errorf("%q: %w (want %d letters)", s, ErrWordLength, n)
	}
	if !isUpperAlpha(w) {
		return "", fmt.Errorf("%q: %w", s, ErrWordAlphabet)
	}
	return Word(w), nil
}

// LetterResult is the evaluation of a single guessed letter.
//   - "exact":   letter is in the word at the same position.
//   - "present": letter is elsewhere in the word and not already accounted for.
//   - "absent":  letter is not in the word, or all its occurrences are consumed.
type LetterResult string

const (
	Absent  LetterResult = "absent"
	Present LetterResult = "present"
	Exact   LetterResult = "exact"
)

// Code returns the legacy integer code (absent=0, present=1, exact=2).
func (r LetterResult) Code() int {
	switch r {
	case Exact:
		return 2
	case Present:
		return 1
	}
	return 0
}

// Evaluation is the ordered result of one guess, aligned with the guess letters.
type Evaluation []LetterResult

// Solved reports whether every position is Exact.
func (e Evaluation) Solved() bool {
	if len(e) == 0 {
		return false
	}
	for _, r := range e {
		if r != Exact {
			return false
		}
	}
	return true
}

// Codes returns the legacy integer form used by the daily API.
func (e Evaluation) Codes() []int {
	out := make([]int, len(e))
	for i, r := range e {
		out[i] = r.Code()
	}
	return out
}

// String renders a compact pattern: X exact, P present, . absent.
func (e Evaluation) String() string {
	var b strings.Builder
	b.Grow(len(e))
	for _, r := range e {
		switch r {
		case Exact:
			b.WriteByte('X')
		case Present:
			b.WriteByte('P')
		default:
			b.WriteByte('.')
		}
	}
	return b.String()
}

// isUpperAlpha checks that a string consists only of uppercase A-Z.
func isUpperAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
