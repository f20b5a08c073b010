// internal/words/fallback.go
//
// Provider chaining: a preferred provider (usually the remote word service)
// in front of the local lists. Errors from the primary switch to the
// secondary. A primary "not a word" verdict is final.
//
// When the secondary knows its word length (a *List does), a random word
// from the primary that does not fit that length is treated as a failure.

package words

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Fallback serves words from Primary and falls back to Secondary when
// Primary fails.
type Fallback struct {
	Primary   Provider
	Secondary Provider
}

// RandomWord implements Source.
func (f Fallback) RandomWord(ctx context.Context) (string, error) {
	w, err := f.Primary.RandomWord(ctx)
	if err == nil {
		if l, ok := f.Secondary.(interface{ Length() int }); ok && !fits(w, l.Length()) {
			err = fmt.Errorf("%w: %q (want %d letters)", ErrRemoteWord, w, l.Length())
		}
	}
	if err == nil {
		return w, nil
	}
	log.Warn().Err(err).Msg("primary word source failed; using fallback")
	return f.Secondary.RandomWord(ctx)
}

// Validate implements Validator.
func (f Fallback) Validate(ctx context.Context, word string) (bool, error) {
	ok, err := f.Primary.Validate(ctx, word)
	if err == nil {
		return ok, nil
	}
	log.Warn().Err(err).Str("word", word).Msg("primary validator failed; using fallback")
	return f.Secondary.Validate(ctx, word)
}
