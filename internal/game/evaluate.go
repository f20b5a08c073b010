// internal/game/evaluate.go
//
// Guess scoring. A guess is compared with the secret word letter by letter
// and each position gets a mark. Repeated letters are credited at most as
// often as the word contains them.

package game

import "fmt"

// Evaluate classifies each letter of guess against word.
//
// Pass 1 marks exact matches and consumes their letters from the word's
// letter counts. Pass 2 marks a remaining letter Present only while unconsumed
// occurrences are left, so a repeated guess letter is never credited more
// times than the word holds it.
//
// Both words must be the same length and contain only A-Z; anything else is a
// caller bug and panics.
func Evaluate(word, guess Word) Evaluation {
	n := len(word)
	if len(guess) != n {
		panic(fmt.Sprintf("game: evaluate %q against %q: length mismatch", guess, word))
	}
	if !isUpperAlpha(string(word)) || !isUpperAlpha(string(guess)) {
		panic(fmt.Sprintf("game: evaluate %q against %q: non-letter input", guess, word))
	}

	var counts [26]int
	for i := 0; i < n; i++ {
		counts[word[i]-'A']++
	}

	res := make(Evaluation, n)
	for i := 0; i < n; i++ {
		if guess[i] == word[i] {
			res[i] = Exact
			counts[guess[i]-'A']--
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == Exact {
			continue
		}
		j := guess[i] - 'A'
		if counts[j] > 0 {
			res[i] = Present
			counts[j]--
		} else {
			res[i] = Absent
		}
	}
	return res
}
