// internal/game/engine.go
//
// Server-side game session built on the round state machine.
// Responsibilities:
//   - Create new games with an ID and a configured attempt budget.
//   - Validate whole-word guesses (shape locally, dictionary via a Validator).
//   - Drive the guess through Step so the HTTP API and the terminal share
//     the exact same transitions.
//   - Report a coarse state string: playing → won/lost.
//   - Track last activity so idle sessions can be pruned.

package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordgame/internal/words"
)

// State strings reported to API clients.
const (
	StatePlaying = "playing"
	StateWon     = "won"
	StateLost    = "lost"
)

var (
	ErrGameFinished  = errors.New("game finished")
	ErrInvalidGuess  = errors.New("invalid guess")
	ErrNotInWordList = errors.New("not in word list")
)

// Game holds the state of a single server-side game session.
type Game struct {
	mu sync.Mutex // serialises guesses on one game

	ID        string    // Unique game identifier (uuid).
	Round     Round     // Round state; replaced on every accepted guess.
	CreatedAt time.Time // When the game was started.
	UpdatedAt time.Time // Last accepted guess, or CreatedAt; used to prune idle sessions.
}

// Outcome is the result of one ApplyGuess call, read under the game lock.
type Outcome struct {
	Marks   Evaluation // nil unless the guess was accepted
	State   string     // StatePlaying, StateWon or StateLost
	Guesses int        // evaluated rows, including this guess when accepted
}

// New constructs a game for answer with the given attempt budget.
func New(answer Word, attempts int) (*Game, error) {
	r, err := NewRound(answer, attempts)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Game{ID: uuid.NewString(), Round: r, CreatedAt: now, UpdatedAt: now}, nil
}

// ApplyGuess validates and evaluates a guess, advancing the round.
// The Outcome is filled on every path, errors included.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be exactly the answer length, letters only.
//   - Guess must be accepted by v.
func (g *Game) ApplyGuess(ctx context.Context, guess string, v words.Validator) (Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Round.Phase.Finished() {
		return g.outcome(nil), ErrGameFinished
	}
	w, err := ParseWord(guess, g.Round.Length())
	if err != nil {
		return g.outcome(nil), fmt.Errorf("%w: %v", ErrInvalidGuess, err)
	}

	r := g.Round
	r.Current = ""
	for i := 0; i < len(w); i++ {
		r, _ = Step(r, Letter(w[i]))
	}
	r, rnd := Step(r, Enter())
	if rnd.Kind != RenderValidate {
		return g.outcome(nil), ErrInvalidGuess
	}

	ok, err := v.Validate(ctx, string(w))
	if err != nil {
		return g.outcome(nil), fmt.Errorf("validate %s: %w", w, err)
	}
	r, rnd = Step(r, Validated(ok))
	if rnd.Kind == RenderInvalid {
		return g.outcome(nil), ErrNotInWordList
	}

	g.Round = r
	g.UpdatedAt = time.Now().UTC()
	return g.outcome(rnd.Marks), nil
}

func (g *Game) outcome(marks Evaluation) Outcome {
	return Outcome{Marks: marks, State: g.state(), Guesses: len(g.Round.Rows)}
}

// LastActive reports when the game last accepted a guess.
func (g *Game) LastActive() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.UpdatedAt
}

// Guesses returns the accepted guesses so far.
func (g *Game) Guesses() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.Round.Rows))
	for i, row := range g.Round.Rows {
		out[i] = string(row.Guess)
	}
	return out
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() string {
	switch g.Round.Phase {
	case Won:
		return StateWon
	case Lost:
		return StateLost
	}
	return StatePlaying
}

// Snapshot returns a copy of the round state. Rows are never modified in
// place, so the copy is safe to read without the lock.
func (g *Game) Snapshot() Round {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Round
}
