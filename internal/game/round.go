// internal/game/round.go
//
// Round state machine for one game.
// Responsibilities:
//   - Hold all per-round state in an explicit value (no package globals).
//   - Turn discrete input events into a new state plus one render instruction.
//   - Hand guess validation back to the caller (Render Validate), then accept
//     the validator's answer as another event.
//
// Phases: awaiting_guess → evaluating → awaiting_guess | won | lost.

package game

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultAttempts is the number of guesses allowed per round.
const DefaultAttempts = 6

// Phase is the coarse state of a round.
type Phase int

const (
	AwaitingGuess Phase = iota
	Evaluating
	Won
	Lost
)

func (p Phase) String() string {
	switch p {
	case AwaitingGuess:
		return "awaiting_guess"
	case Evaluating:
		return "evaluating"
	case Won:
		return "won"
	case Lost:
		return "lost"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Finished reports whether p is terminal.
func (p Phase) Finished() bool { return p == Won || p == Lost }

// Row is one evaluated guess.
type Row struct {
	Guess Word
	Marks Evaluation
}

// Round holds the state of a single round. It is a value: Step never
// modifies the Round it is given.
type Round struct {
	Answer   Word
	Attempts int    // guess budget
	Current  string // letters typed for the row in progress
	Rows     []Row  // evaluated guesses, oldest first
	Phase    Phase
}

// NewRound starts a round for answer with the given guess budget.
func NewRound(answer Word, attempts int) (Round, error) {
	if len(answer) == 0 || !isUpperAlpha(string(answer)) {
		return Round{}, fmt.Errorf("new round: invalid answer %q", answer)
	}
	if attempts <= 0 {
		return Round{}, fmt.Errorf("new round: attempts must be positive, got %d", attempts)
	}
	return Round{Answer: answer, Attempts: attempts, Phase: AwaitingGuess}, nil
}

// Length is the word length of the round.
func (r Round) Length() int { return len(r.Answer) }

// Row is the index of the row currently being typed.
func (r Round) Row() int { return len(r.Rows) }

// Remaining is the number of guesses left.
func (r Round) Remaining() int { return r.Attempts - len(r.Rows) }

// EventKind identifies an input event.
type EventKind int

const (
	EventLetter EventKind = iota
	EventBackspace
	EventEnter
	EventValidated
	EventValidationFailed
)

// Event is a discrete input to Step.
type Event struct {
	Kind   EventKind
	Letter byte  // EventLetter
	Valid  bool  // EventValidated
	Err    error // EventValidationFailed
}

// Letter types one letter; lowercase input is accepted.
func Letter(c byte) Event { return Event{Kind: EventLetter, Letter: c} }

// Backspace removes the last typed letter.
func Backspace() Event { return Event{Kind: EventBackspace} }

// Enter submits the current row.
func Enter() Event { return Event{Kind: EventEnter} }

// Validated reports the word validator's verdict for the submitted row.
func Validated(ok bool) Event { return Event{Kind: EventValidated, Valid: ok} }

// ValidationFailed reports that the validator could not be reached.
func ValidationFailed(err error) Event { return Event{Kind: EventValidationFailed, Err: err} }

// ParseKey maps a key name to an event: "Enter", "Backspace" or a single letter.
func ParseKey(key string) (Event, bool) {
	switch {
	case strings.EqualFold(key, "enter"):
		return Enter(), true
	case strings.EqualFold(key, "backspace"):
		return Backspace(), true
	case len(key) == 1 && isLetter(key[0]):
		return Letter(key[0]), true
	}
	return Event{}, false
}

// RenderKind tells the front end what to draw.
type RenderKind int

const (
	RenderNone     RenderKind = iota
	RenderLetter              // draw Letter at (Row, Col)
	RenderClear               // blank the cell at (Row, Col)
	RenderValidate            // validate Guess, then send Validated / ValidationFailed
	RenderInvalid             // flash Row as not a word
	RenderMarks               // colour Row with Marks
	RenderWon                 // colour Row with Marks; round won
	RenderLost                // colour Row with Marks; round lost, reveal Answer
	RenderError               // validator failure in Err
)

// Render is the instruction produced by one Step.
type Render struct {
	Kind   RenderKind
	Row    int
	Col    int
	Letter byte
	Guess  Word
	Marks  Evaluation
	Answer Word
	Err    error
}

// Step applies ev to r and returns the next state with a render instruction.
func Step(r Round, ev Event) (Round, Render) {
	if r.Phase.Finished() {
		return r, Render{Kind: RenderNone}
	}

	if r.Phase == Evaluating {
		switch ev.Kind {
		case EventValidated:
			if !ev.Valid {
				r.Phase = AwaitingGuess
				return r, Render{Kind: RenderInvalid, Row: r.Row(), Guess: Word(r.Current)}
			}
			return commit(r)
		case EventValidationFailed:
			r.Phase = AwaitingGuess
			return r, Render{Kind: RenderError, Row: r.Row(), Guess: Word(r.Current), Err: ev.Err}
		}
		return r, Render{Kind: RenderNone}
	}

	switch ev.Kind {
	case EventLetter:
		if !isLetter(ev.Letter) {
			return r, Render{Kind: RenderNone}
		}
		c := upper(ev.Letter)
		if len(r.Current) < r.Length() {
			r.Current += string(c)
		} else {
			r.Current = r.Current[:len(r.Current)-1] + string(c)
		}
		return r, Render{Kind: RenderLetter, Row: r.Row(), Col: len(r.Current) - 1, Letter: c}

	case EventBackspace:
		if r.Current == "" {
			return r, Render{Kind: RenderNone}
		}
		r.Current = r.Current[:len(r.Current)-1]
		return r, Render{Kind: RenderClear, Row: r.Row(), Col: len(r.Current)}

	case EventEnter:
		if len(r.Current) != r.Length() {
			return r, Render{Kind: RenderNone}
		}
		r.Phase = Evaluating
		return r, Render{Kind: RenderValidate, Row: r.Row(), Guess: Word(r.Current)}
	}
	return r, Render{Kind: RenderNone}
}

// commit evaluates the current row and decides the outcome.
// The round is lost once the evaluated rows reach the attempt budget.
func commit(r Round) (Round, Render) {
	guess := Word(r.Current)
	marks := Evaluate(r.Answer, guess)
	row := r.Row()

	r.Rows = append(slices.Clip(r.Rows), Row{Guess: guess, Marks: marks})
	r.Current = ""

	switch {
	case marks.Solved():
		r.Phase = Won
		return r, Render{Kind: RenderWon, Row: row, Guess: guess, Marks: marks}
	case len(r.Rows) >= r.Attempts:
		r.Phase = Lost
		return r, Render{Kind: RenderLost, Row: row, Guess: guess, Marks: marks, Answer: r.Answer}
	default:
		r.Phase = AwaitingGuess
		return r, Render{Kind: RenderMarks, Row: row, Guess: guess, Marks: marks}
	}
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
