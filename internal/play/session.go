// internal/play/session.go
//
// The game loop that sits between a front end and the round state machine.
// It owns the asynchronous edge: when a submitted row needs a dictionary
// check, Handle awaits the Validator and feeds its verdict back into Step.

package play

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/words"
)

// Options configures a new session.
type Options struct {
	Length   int    // expected word length
	Attempts int    // guess budget
	Answer   string // fixed answer; empty picks one from the Source
}

// Session is one round driven by discrete input events. It is not safe
// for concurrent use.
type Session struct {
	round     game.Round
	validator words.Validator
}

// NewSession picks the secret word and starts a round.
func NewSession(ctx context.Context, src words.Source, v words.Validator, opts Options) (*Session, error) {
	raw := opts.Answer
	if raw == "" {
		var err error
		if raw, err = src.RandomWord(ctx); err != nil {
			return nil, fmt.Errorf("play: pick word: %w", err)
		}
	}
	answer, err := game.ParseWord(raw, opts.Length)
	if err != nil {
		return nil, fmt.Errorf("play: secret word: %w", err)
	}
	r, err := game.NewRound(answer, opts.Attempts)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("length", opts.Length).Int("attempts", opts.Attempts).Msg("round started")
	return &Session{round: r, validator: v}, nil
}

// Round returns the current round state.
func (s *Session) Round() game.Round { return s.round }

// Handle applies ev and returns the renders it produced, in order. A
// validation request is resolved before returning, so the caller sees the
// validator's outcome in the same call.
func (s *Session) Handle(ctx context.Context, ev game.Event) []game.Render {
	r, rnd := game.Step(s.round, ev)
	s.round = r
	out := []game.Render{rnd}
	if rnd.Kind != game.RenderValidate {
		return out
	}

	ok, err := s.validator.Validate(ctx, string(rnd.Guess))
	next := game.Validated(ok)
	if err != nil {
		log.Warn().Err(err).Str("word", string(rnd.Guess)).Msg("guess validation failed")
		next = game.ValidationFailed(err)
	}
	r, rnd = game.Step(s.round, next)
	s.round = r
	return append(out, rnd)
}

// Type feeds each byte of line as a key press, replacing whatever was typed
// on the current row, then presses Enter. Used by line-oriented front ends.
func (s *Session) Type(ctx context.Context, line string) []game.Render {
	var out []game.Render
	for len(s.round.Current) > 0 {
		out = append(out, s.Handle(ctx, game.Backspace())...)
	}
	for i := 0; i < len(line); i++ {
		out = append(out, s.Handle(ctx, game.Letter(line[i]))...)
	}
	return append(out, s.Handle(ctx, game.Enter())...)
}
