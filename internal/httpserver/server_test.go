package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordgame/internal/config"
	"github.com/robalobadob/wordgame/internal/daily"
	"github.com/robalobadob/wordgame/internal/db"
	"github.com/robalobadob/wordgame/internal/store"
	"github.com/robalobadob/wordgame/internal/words"
)

type testEnv struct {
	srv *Server
	ts  *httptest.Server
}

func testConfig() *config.Config {
	return &config.Config{
		Env: "test",
		Server: config.ServerConfig{
			Port:           "0",
			ClientOrigin:   "http://localhost:5173",
			RequestTimeout: 5 * time.Second,
			SessionTTL:     time.Hour,
		},
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			JWTExpiresDays: 1,
			CookieName:     "wordle_token",
			AnonCookieName: "wordle_anon",
		},
		Game:  config.GameConfig{WordLength: 5, Attempts: 6},
		Daily: config.DailyConfig{Salt: "test_salt", LeaderboardSize: 20},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn))

	// A single answer keeps the daily word predictable.
	list, err := words.New(5, []string{"crane"}, []string{"trace", "moist", "slate"})
	require.NoError(t, err)

	srv := New(Deps{
		Config:   testConfig(),
		Sessions: store.NewMemoryStore(),
		Users:    store.NewSQL(conn),
		Daily:    daily.NewStore(conn),
		List:     list,
	})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &testEnv{srv: srv, ts: ts}
}

func (e *testEnv) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func do(t *testing.T, c *http.Client, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	} else {
		out = map[string]any{"list": nil}
		var list []any
		require.NoError(t, json.Unmarshal(raw, &list))
		out["list"] = list
	}
	return resp.StatusCode, out
}

func (e *testEnv) newGame(t *testing.T, c *http.Client, answer string) string {
	t.Helper()
	code, res := do(t, c, http.MethodPost, e.ts.URL+"/game/new", map[string]string{"answer": answer})
	require.Equal(t, http.StatusOK, code, res)
	return res["gameId"].(string)
}

func (e *testEnv) guess(t *testing.T, c *http.Client, id, word string) (int, map[string]any) {
	t.Helper()
	return do(t, c, http.MethodPost, e.ts.URL+"/game/guess", map[string]string{"gameId": id, "guess": word})
}

func TestHealthAndNotFound(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	code, res := do(t, c, http.MethodGet, e.ts.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, res["ok"])

	code, res = do(t, c, http.MethodGet, e.ts.URL+"/debug/words", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), res["answers"])
	assert.Equal(t, float64(4), res["allowed"])

	code, res = do(t, c, http.MethodGet, e.ts.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", res["error"])
	assert.Equal(t, "/nope", res["path"])
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)
	req, err := http.NewRequest(http.MethodOptions, e.ts.URL+"/game/new", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}

func TestGameFlow(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	code, res := do(t, c, http.MethodPost, e.ts.URL+"/game/new", map[string]string{"answer": "crane"})
	require.Equal(t, http.StatusOK, code)
	id := res["gameId"].(string)
	assert.Equal(t, float64(5), res["length"])
	assert.Equal(t, float64(6), res["rows"])

	code, res = e.guess(t, c, id, "trace")
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, []any{"absent", "exact", "exact", "present", "exact"}, res["marks"])
	assert.Equal(t, "playing", res["state"])
	assert.NotContains(t, res, "answer")

	code, res = e.guess(t, c, id, "zzzzz")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "not_in_word_list", res["error"])

	code, res = e.guess(t, c, id, "abc")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_guess", res["error"])

	code, res = e.guess(t, c, id, "CRANE")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "won", res["state"])

	code, res = e.guess(t, c, id, "crane")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "game_finished", res["error"])

	code, res = e.guess(t, c, "missing", "crane")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", res["error"])
}

func TestGameLostRevealsAnswer(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	id := e.newGame(t, c, "crane")

	var res map[string]any
	for i := 0; i < 6; i++ {
		var code int
		code, res = e.guess(t, c, id, "moist")
		require.Equal(t, http.StatusOK, code)
	}
	assert.Equal(t, "lost", res["state"])
	assert.Equal(t, "CRANE", res["answer"])
}

func TestNewGameAnswers(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	// No answer: one comes from the word list.
	id := e.newGame(t, c, "")
	code, res := e.guess(t, c, id, "crane")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "won", res["state"])

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/game/new", map[string]string{"answer": "toolong"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_answer", res["error"])
}

func TestNewGameBody(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	post := func(body string) (int, map[string]any) {
		t.Helper()
		resp, err := c.Post(e.ts.URL+"/game/new", "application/json", strings.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp.StatusCode, out
	}

	code, res := post(`{"answer":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "bad_json", res["error"])

	code, res = post(`["crane"]`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "bad_json", res["error"])

	code, res = post("")
	require.Equal(t, http.StatusOK, code, res)
	assert.NotEmpty(t, res["gameId"])
}

func TestAuthFlow(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	code, res := do(t, c, http.MethodGet, e.ts.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Unauthorized", res["error"])

	// A guest game is claimed at signup.
	guestGame := e.newGame(t, c, "crane")
	code, _ = e.guess(t, c, guestGame, "trace")
	require.Equal(t, http.StatusOK, code)

	creds := map[string]string{"username": "alice", "password": "password123"}
	code, res = do(t, c, http.MethodPost, e.ts.URL+"/auth/signup", creds)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, "alice", res["username"])

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/auth/signup", creds)
	assert.Equal(t, http.StatusConflict, code)

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/auth/signup", map[string]string{"username": "bob", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "password must be 8-72 chars", res["error"])

	code, res = do(t, c, http.MethodGet, e.ts.URL+"/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", res["username"])

	// Win one game as alice.
	id := e.newGame(t, c, "crane")
	code, _ = e.guess(t, c, id, "crane")
	require.Equal(t, http.StatusOK, code)

	code, res = do(t, c, http.MethodGet, e.ts.URL+"/stats/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), res["gamesPlayed"])
	assert.Equal(t, float64(1), res["wins"])
	assert.Equal(t, float64(1), res["streak"])

	code, res = do(t, c, http.MethodGet, e.ts.URL+"/games/mine", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, res["list"], 2)

	code, _ = do(t, c, http.MethodPost, e.ts.URL+"/auth/logout", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = do(t, c, http.MethodGet, e.ts.URL+"/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// Log back in with a fresh client.
	c2 := e.client(t)
	code, _ = do(t, c2, http.MethodPost, e.ts.URL+"/auth/login", map[string]string{"username": "alice", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = do(t, c2, http.MethodPost, e.ts.URL+"/auth/login", creds)
	require.Equal(t, http.StatusOK, code)
	code, res = do(t, c2, http.MethodGet, e.ts.URL+"/auth/me", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", res["username"])
}

func TestBearerToken(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	code, _ := do(t, c, http.MethodPost, e.ts.URL+"/auth/signup", map[string]string{"username": "carol", "password": "password123"})
	require.Equal(t, http.StatusOK, code)

	u, err := e.srv.users.FindUserByUsername(context.Background(), "carol")
	require.NoError(t, err)
	tok, _, err := e.srv.signJWT(u.ID, u.Username)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, e.ts.URL+"/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer "+tok+"x")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDaily(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)

	code, res := do(t, c, http.MethodPost, e.ts.URL+"/daily/new", nil)
	require.Equal(t, http.StatusOK, code, res)
	assert.Equal(t, false, res["played"])
	assert.Equal(t, daily.DateKey(time.Now()), res["date"])
	id := res["gameId"].(string)

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/daily/new", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, res["gameId"])

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/daily/guess", map[string]string{"gameId": "other", "word": "crane"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "no_session", res["error"])

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/daily/guess", map[string]string{"gameId": id, "word": "zzzzz"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "word_not_allowed", res["error"])

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/daily/guess", map[string]string{"gameId": id, "word": "trace"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{0.0, 2.0, 2.0, 1.0, 2.0}, res["marks"])
	assert.Equal(t, "in_progress", res["state"])
	assert.Equal(t, float64(1), res["guesses"])

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/daily/guess", map[string]string{"gameId": id, "word": "crane"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "won", res["state"])
	assert.Equal(t, float64(2), res["guesses"])

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/daily/guess", map[string]string{"gameId": id, "word": "crane"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "locked", res["state"])
	assert.Equal(t, float64(2), res["guesses"])

	code, res = do(t, c, http.MethodPost, e.ts.URL+"/daily/new", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, res["played"])

	code, res = do(t, c, http.MethodGet, e.ts.URL+"/daily/leaderboard", nil)
	require.Equal(t, http.StatusOK, code)
	top := res["top"].([]any)
	require.Len(t, top, 1)
	assert.Equal(t, float64(2), top[0].(map[string]any)["guesses"])

	code, _ = do(t, c, http.MethodGet, e.ts.URL+"/daily/leaderboard?date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPrune(t *testing.T) {
	e := newTestEnv(t)
	c := e.client(t)
	e.newGame(t, c, "crane")
	code, _ := do(t, c, http.MethodPost, e.ts.URL+"/daily/new", nil)
	require.Equal(t, http.StatusOK, code)

	n, err := e.srv.Prune(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = e.srv.Prune(context.Background(), time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
