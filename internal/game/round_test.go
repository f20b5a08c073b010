package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRound(t *testing.T, answer Word, attempts int) Round {
	t.Helper()
	r, err := NewRound(answer, attempts)
	require.NoError(t, err)
	return r
}

// typeWord feeds each letter and returns the state and the last render.
func typeWord(r Round, w string) (Round, Render) {
	var rnd Render
	for i := 0; i < len(w); i++ {
		r, rnd = Step(r, Letter(w[i]))
	}
	return r, rnd
}

// submit types, enters and validates w with the given verdict.
func submit(t *testing.T, r Round, w string, valid bool) (Round, Render) {
	t.Helper()
	r, _ = typeWord(r, w)
	r, rnd := Step(r, Enter())
	require.Equal(t, RenderValidate, rnd.Kind)
	require.Equal(t, Evaluating, r.Phase)
	return Step(r, Validated(valid))
}

func TestNewRoundRejectsBadInput(t *testing.T) {
	_, err := NewRound("", 6)
	assert.Error(t, err)
	_, err = NewRound("crane", 6)
	assert.Error(t, err)
	_, err = NewRound("CRANE", 0)
	assert.Error(t, err)
}

func TestStepTyping(t *testing.T) {
	r := newTestRound(t, "CRANE", 6)

	r, rnd := Step(r, Letter('t'))
	assert.Equal(t, Render{Kind: RenderLetter, Row: 0, Col: 0, Letter: 'T'}, rnd)
	assert.Equal(t, "T", r.Current)

	r, _ = typeWord(r, "RACE")
	assert.Equal(t, "TRACE", r.Current)

	// A full row replaces its last letter.
	r, rnd = Step(r, Letter('s'))
	assert.Equal(t, "TRACS", r.Current)
	assert.Equal(t, 4, rnd.Col)

	r, rnd = Step(r, Backspace())
	assert.Equal(t, Render{Kind: RenderClear, Row: 0, Col: 4}, rnd)
	assert.Equal(t, "TRAC", r.Current)

	// Non-letters are ignored.
	r2, rnd := Step(r, Letter('3'))
	assert.Equal(t, RenderNone, rnd.Kind)
	assert.Equal(t, r, r2)
}

func TestStepBackspaceOnEmptyRow(t *testing.T) {
	r := newTestRound(t, "CRANE", 6)
	r2, rnd := Step(r, Backspace())
	assert.Equal(t, RenderNone, rnd.Kind)
	assert.Equal(t, r, r2)
}

func TestStepEnterRequiresFullRow(t *testing.T) {
	r := newTestRound(t, "CRANE", 6)
	r, _ = typeWord(r, "CRA")
	r2, rnd := Step(r, Enter())
	assert.Equal(t, RenderNone, rnd.Kind)
	assert.Equal(t, AwaitingGuess, r2.Phase)
}

func TestStepInvalidWordKeepsGuess(t *testing.T) {
	r := newTestRound(t, "CRANE", 6)
	r, rnd := submit(t, r, "XXXXX", false)
	assert.Equal(t, RenderInvalid, rnd.Kind)
	assert.Equal(t, AwaitingGuess, r.Phase)
	assert.Equal(t, "XXXXX", r.Current)
	assert.Empty(t, r.Rows)
}

func TestStepValidationFailure(t *testing.T) {
	r := newTestRound(t, "CRANE", 6)
	r, _ = typeWord(r, "TRACE")
	r, _ = Step(r, Enter())
	boom := errors.New("network down")
	r, rnd := Step(r, ValidationFailed(boom))
	assert.Equal(t, RenderError, rnd.Kind)
	assert.ErrorIs(t, rnd.Err, boom)
	assert.Equal(t, AwaitingGuess, r.Phase)
	assert.Equal(t, "TRACE", r.Current)
}

func TestStepIgnoresTypingWhileEvaluating(t *testing.T) {
	r := newTestRound(t, "CRANE", 6)
	r, _ = typeWord(r, "TRACE")
	r, _ = Step(r, Enter())
	for _, ev := range []Event{Letter('a'), Backspace(), Enter()} {
		r2, rnd := Step(r, ev)
		assert.Equal(t, RenderNone, rnd.Kind)
		assert.Equal(t, r, r2)
	}
}

func TestStepMarksAndWin(t *testing.T) {
	r := newTestRound(t, "CRANE", 6)

	r, rnd := submit(t, r, "TRACE", true)
	assert.Equal(t, RenderMarks, rnd.Kind)
	assert.Equal(t, 0, rnd.Row)
	assert.Equal(t, ".XXPX", rnd.Marks.String())
	assert.Equal(t, AwaitingGuess, r.Phase)
	assert.Equal(t, "", r.Current)
	assert.Equal(t, 1, r.Row())

	r, rnd = submit(t, r, "CRANE", true)
	assert.Equal(t, RenderWon, rnd.Kind)
	assert.Equal(t, 1, rnd.Row)
	assert.Equal(t, Won, r.Phase)
	assert.Len(t, r.Rows, 2)

	// Terminal: everything is ignored.
	r2, rnd := Step(r, Letter('a'))
	assert.Equal(t, RenderNone, rnd.Kind)
	assert.Equal(t, r, r2)
}

func TestStepLosesOnLastAttempt(t *testing.T) {
	r := newTestRound(t, "CRANE", 3)
	var rnd Render
	for i := 0; i < 2; i++ {
		r, rnd = submit(t, r, "MOIST", true)
		require.Equal(t, RenderMarks, rnd.Kind)
	}
	assert.Equal(t, 1, r.Remaining())

	r, rnd = submit(t, r, "MOIST", true)
	assert.Equal(t, RenderLost, rnd.Kind)
	assert.Equal(t, Word("CRANE"), rnd.Answer)
	assert.Equal(t, Lost, r.Phase)
	assert.Equal(t, 0, r.Remaining())
}

func TestStepWinOnLastAttemptIsWin(t *testing.T) {
	r := newTestRound(t, "CRANE", 2)
	r, _ = submit(t, r, "MOIST", true)
	r, rnd := submit(t, r, "CRANE", true)
	assert.Equal(t, RenderWon, rnd.Kind)
	assert.Equal(t, Won, r.Phase)
}

func TestStepDoesNotAliasPreviousState(t *testing.T) {
	r := newTestRound(t, "CRANE", 6)
	r1, _ := submit(t, r, "TRACE", true)

	a, _ := submit(t, r1, "MOIST", true)
	b, _ := submit(t, r1, "CRANE", true)

	assert.Len(t, r1.Rows, 1)
	assert.Equal(t, Word("MOIST"), a.Rows[1].Guess)
	assert.Equal(t, Word("CRANE"), b.Rows[1].Guess)
}

func TestParseKey(t *testing.T) {
	ev, ok := ParseKey("Enter")
	assert.True(t, ok)
	assert.Equal(t, EventEnter, ev.Kind)

	ev, ok = ParseKey("backspace")
	assert.True(t, ok)
	assert.Equal(t, EventBackspace, ev.Kind)

	ev, ok = ParseKey("q")
	assert.True(t, ok)
	assert.Equal(t, Letter('q'), ev)

	_, ok = ParseKey("Shift")
	assert.False(t, ok)
	_, ok = ParseKey("1")
	assert.False(t, ok)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "awaiting_guess", AwaitingGuess.String())
	assert.Equal(t, "won", Won.String())
	assert.True(t, Lost.Finished())
	assert.False(t, Evaluating.Finished())
}
