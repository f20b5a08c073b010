package play

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/words"
)

type stubValidator struct {
	calls []string
	err   error
}

func (s *stubValidator) Validate(_ context.Context, w string) (bool, error) {
	s.calls = append(s.calls, w)
	if s.err != nil {
		return false, s.err
	}
	return w != "ZZZZZ", nil
}

type stubSource struct {
	word string
	err  error
}

func (s stubSource) RandomWord(context.Context) (string, error) { return s.word, s.err }

func TestNewSessionFallsBackOnWrongLengthRemoteWord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"word":"crane"}`))
	}))
	t.Cleanup(srv.Close)
	local, err := words.New(6, []string{"planet"}, nil)
	require.NoError(t, err)

	src := words.Fallback{Primary: words.NewRemote(words.RemoteOptions{BaseURL: srv.URL}), Secondary: local}
	s, err := NewSession(context.Background(), src, local, Options{Length: 6, Attempts: 6})
	require.NoError(t, err)
	assert.Equal(t, game.Word("PLANET"), s.Round().Answer)
}

func kinds(rs []game.Render) []game.RenderKind {
	out := make([]game.RenderKind, len(rs))
	for i, r := range rs {
		out[i] = r.Kind
	}
	return out
}

func TestNewSessionPicksWordFromSource(t *testing.T) {
	s, err := NewSession(context.Background(), stubSource{word: "crane"}, &stubValidator{}, Options{Length: 5, Attempts: 6})
	require.NoError(t, err)
	assert.Equal(t, game.Word("CRANE"), s.Round().Answer)
	assert.Equal(t, 6, s.Round().Attempts)
}

func TestNewSessionErrors(t *testing.T) {
	ctx := context.Background()
	_, err := NewSession(ctx, stubSource{err: errors.New("offline")}, &stubValidator{}, Options{Length: 5, Attempts: 6})
	assert.ErrorContains(t, err, "offline")

	_, err = NewSession(ctx, stubSource{word: "cranes"}, &stubValidator{}, Options{Length: 5, Attempts: 6})
	assert.ErrorIs(t, err, game.ErrWordLength)
}

func TestHandleResolvesValidation(t *testing.T) {
	ctx := context.Background()
	v := &stubValidator{}
	s, err := NewSession(ctx, nil, v, Options{Length: 5, Attempts: 6, Answer: "CRANE"})
	require.NoError(t, err)

	for _, c := range []byte("trace") {
		rs := s.Handle(ctx, game.Letter(c))
		require.Equal(t, []game.RenderKind{game.RenderLetter}, kinds(rs))
	}
	rs := s.Handle(ctx, game.Enter())
	require.Equal(t, []game.RenderKind{game.RenderValidate, game.RenderMarks}, kinds(rs))
	assert.Equal(t, ".XXPX", rs[1].Marks.String())
	assert.Equal(t, []string{"TRACE"}, v.calls)
	assert.Equal(t, game.AwaitingGuess, s.Round().Phase)
}

func TestTypeLines(t *testing.T) {
	ctx := context.Background()
	v := &stubValidator{}
	s, err := NewSession(ctx, nil, v, Options{Length: 5, Attempts: 6, Answer: "CRANE"})
	require.NoError(t, err)

	rs := s.Type(ctx, "zzzzz")
	last := rs[len(rs)-1]
	assert.Equal(t, game.RenderInvalid, last.Kind)
	assert.Equal(t, "ZZZZZ", s.Round().Current)

	// Typing a new line replaces the rejected row.
	rs = s.Type(ctx, "crane")
	last = rs[len(rs)-1]
	assert.Equal(t, game.RenderWon, last.Kind)
	assert.Equal(t, game.Won, s.Round().Phase)
	assert.Len(t, s.Round().Rows, 1)
}

func TestHandleValidatorError(t *testing.T) {
	ctx := context.Background()
	v := &stubValidator{err: errors.New("timeout")}
	s, err := NewSession(ctx, nil, v, Options{Length: 5, Attempts: 6, Answer: "CRANE"})
	require.NoError(t, err)

	rs := s.Type(ctx, "trace")
	last := rs[len(rs)-1]
	assert.Equal(t, game.RenderError, last.Kind)
	assert.Contains(t, Message(last), "timeout")
	assert.Equal(t, game.AwaitingGuess, s.Round().Phase)
	assert.Empty(t, s.Round().Rows)
}

func TestSessionWithWordList(t *testing.T) {
	ctx := context.Background()
	list, err := words.New(5, []string{"crane"}, []string{"moist"})
	require.NoError(t, err)
	s, err := NewSession(ctx, list, list, Options{Length: 5, Attempts: 2})
	require.NoError(t, err)

	s.Type(ctx, "moist")
	rs := s.Type(ctx, "moist")
	last := rs[len(rs)-1]
	assert.Equal(t, game.RenderLost, last.Kind)
	assert.Contains(t, Message(last), "CRANE")
}

func TestBoardAndLetters(t *testing.T) {
	ctx := context.Background()
	s, err := NewSession(ctx, nil, &stubValidator{}, Options{Length: 5, Attempts: 3, Answer: "CRANE"})
	require.NoError(t, err)
	s.Type(ctx, "trace")
	s.Handle(ctx, game.Letter('m'))

	board := Board(s.Round())
	lines := strings.Split(board, "\n")
	require.Len(t, lines, 3)
	for _, c := range "TRACE" {
		assert.Contains(t, lines[0], string(c))
	}
	assert.Contains(t, lines[1], "M")

	letters := Letters(s.Round())
	for _, c := range "ACERT" {
		assert.Contains(t, letters, string(c))
	}
	assert.NotContains(t, letters, "M")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(game.Render{Kind: game.RenderMarks}))
	assert.Contains(t, Message(game.Render{Kind: game.RenderWon}), "win")
	assert.Contains(t, Message(game.Render{Kind: game.RenderInvalid, Guess: "ZZZZZ"}), "ZZZZZ")
}
