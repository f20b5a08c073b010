// internal/words/words.go
//
// Word list management and the word capabilities used by the game loop.
//
// Responsibilities:
//   - Define the Source (pick a secret word) and Validator (is this a word?)
//     capabilities consumed by the play session and the HTTP server.
//   - Load answer and allowed guess lists from files or embedded defaults.
//   - Serve both capabilities locally from the loaded lists.
//
// Word Lists:
//   - "answers": canonical solutions.
//   - "allowed": valid guesses (always includes answers).
//
// Loading behavior (Load):
//   1. If AnswersFile and AllowedFile are both set,
//      load answers from the first and allowed guesses from the second.
//   2. If only AllowedFile is set,
//      load that file and use it for both answers and allowed guesses.
//   3. Otherwise fall back to the lists embedded in the assets package.
//
// Constraints:
//   • Words must be Length alphabetic letters; anything else is skipped.
//   • Lists are normalized to uppercase.

package words

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"lukechampine.com/frand"

	"github.com/robalobadob/wordgame/assets"
)

// Source picks a secret word for a new round.
type Source interface {
	RandomWord(ctx context.Context) (string, error)
}

// Validator reports whether a guess is an acceptable word.
type Validator interface {
	Validate(ctx context.Context, word string) (bool, error)
}

// Provider is both a Source and a Validator.
type Provider interface {
	Source
	Validator
}

// ErrNoAnswers is returned when loading leaves the answer list empty.
var ErrNoAnswers = errors.New("words: answers list is empty")

// Options selects where word lists come from.
type Options struct {
	Length      int    // letters per word
	AnswersFile string // optional path, one word per line
	AllowedFile string // optional path, one word per line
}

// List is an immutable, loaded pair of answer and allowed lists.
// It implements both Source and Validator.
type List struct {
	length     int
	answers    []string
	answersSet map[string]struct{}
	allowedSet map[string]struct{} // answers ∪ guesses
}

// Load builds a List according to opts.
func Load(opts Options) (*List, error) {
	if opts.Length <= 0 {
		return nil, fmt.Errorf("words: invalid length %d", opts.Length)
	}

	var ansList, allowList []string
	var err error

	switch {
	// Case 1: both lists provided
	case opts.AnswersFile != "" && opts.AllowedFile != "":
		if ansList, err = readWordFile(opts.AnswersFile, opts.Length); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(opts.AllowedFile, opts.Length); err != nil {
			return nil, err
		}

	// Case 2: only allowed file provided → use for both
	case opts.AllowedFile != "":
		if allowList, err = readWordFile(opts.AllowedFile, opts.Length); err != nil {
			return nil, err
		}
		ansList = allowList

	// Case 3: embedded defaults
	default:
		raw, err := assets.AnswersList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded answers: %w", err)
		}
		ansList = normalize(raw, opts.Length)
		raw, err = assets.AllowedList()
		if err != nil {
			return nil, fmt.Errorf("words: embedded allowed: %w", err)
		}
		allowList = normalize(raw, opts.Length)
	}

	return New(opts.Length, ansList, allowList)
}

// New builds a List directly from word slices. Words are normalized and
// filtered like file input.
func New(length int, answers, allowed []string) (*List, error) {
	ans := normalize(answers, length)
	if len(ans) == 0 {
		return nil, ErrNoAnswers
	}
	l := &List{
		length:     length,
		answers:    ans,
		answersSet: toSet(ans),
		allowedSet: toSet(ans),
	}
	for _, w := range normalize(allowed, length) {
		l.allowedSet[w] = struct{}{}
	}
	return l, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string, length int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()
	out, err := readWords(f, length)
	if err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}
	return out, nil
}

func readWords(r io.Reader, length int) ([]string, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	return normalize(raw, length), sc.Err()
}

// normalize upper-cases, trims and keeps only valid words of the given length.
func normalize(in []string, length int) []string {
	out := make([]string, 0, len(in))
	for _, line := range in {
		w := strings.ToUpper(strings.TrimSpace(line))
		if len(w) == length && isAlpha(w) {
			out = append(out, w)
		}
	}
	return out
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// Length is the word length of the list.
func (l *List) Length() int { return l.length }

// Answers returns a copy of the answer list in load order.
func (l *List) Answers() []string { return append([]string(nil), l.answers...) }

// Answer returns the i-th answer; i is reduced modulo the list size.
func (l *List) Answer(i int) string {
	n := len(l.answers)
	return l.answers[((i%n)+n)%n]
}

// RandomAnswer returns a uniformly random answer.
func (l *List) RandomAnswer() string {
	return l.answers[frand.Intn(len(l.answers))]
}

// RandomWord implements Source.
func (l *List) RandomWord(context.Context) (string, error) {
	return l.RandomAnswer(), nil
}

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (l *List) IsAllowed(w string) bool {
	_, ok := l.allowedSet[strings.ToUpper(strings.TrimSpace(w))]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *List) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToUpper(strings.TrimSpace(w))]
	return ok
}

// Validate implements Validator.
func (l *List) Validate(_ context.Context, w string) (bool, error) {
	return l.IsAllowed(w), nil
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *List) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowedSet)
}
