// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start a daily game (creates or reuses session)
//   - POST /daily/guess       → submit a guess for today's daily game
//   - GET  /daily/leaderboard → fastest results for today (or ?date=YYYY-MM-DD)
//
// Each player gets one daily game per UTC date (enforced by DB + in-memory session).
// Sessions are held in memory for active play and persisted to DB on win.
// The answer is picked deterministically from date + salt.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgame/internal/daily"
	"github.com/robalobadob/wordgame/internal/game"
)

// Daily guess states reported to clients.
const (
	dailyInProgress = "in_progress"
	dailyLocked     = "locked"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv      *Server
	store    *daily.Store
	mu       sync.Mutex               // guards sessions
	sessions map[string]*dailySession // keyed by playerID|date
}

// dailySession is an in-progress daily game.
type dailySession struct {
	game      *game.Game
	date      string
	wordIndex int
	start     time.Time
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router, st *daily.Store) *dailyServer {
	dd := &dailyServer{
		srv:      s,
		store:    st,
		sessions: make(map[string]*dailySession),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", dd.handleNew)
		r.Post("/guess", dd.handleGuess)
		r.Get("/leaderboard", dd.handleLeaderboard)
	})
	return dd
}

// today returns the date key, the deterministic word index and the answer.
func (d *dailyServer) today(now time.Time) (date string, idx int, answer string) {
	n, _ := d.srv.list.Stats()
	day := daily.Schedule{Salt: d.srv.cfg.Daily.Salt, Size: n}.On(now)
	return day.Date, day.Index, d.srv.list.Answer(day.Index)
}

// playerID is the signed-in user ID, or the guest cookie.
func (d *dailyServer) playerID(w http.ResponseWriter, r *http.Request) string {
	o := d.srv.owner(w, r)
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonID
}

// prune drops sessions from earlier dates.
func (d *dailyServer) prune(now time.Time) int {
	today := daily.DateKey(now)
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for k, sess := range d.sessions {
		if sess.date != today {
			delete(d.sessions, k)
			n++
		}
	}
	return n
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID string `json:"gameId"`
	Date   string `json:"date"`
	Played bool   `json:"played"`
	Length int    `json:"length"`
	Rows   int    `json:"rows"`
}

// handleNew creates or reuses today's session.
//   - If the player already has a result for today → Played=true.
//   - Otherwise create/reuse an in-memory session and return its GameID.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)
	now := time.Now().UTC()
	date, idx, answer := d.today(now)
	res := dailyNewRes{Date: date, Length: len(answer), Rows: d.srv.cfg.Game.Attempts}

	played, err := d.store.AlreadyPlayed(r.Context(), uid, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if played {
		res.Played = true
		writeJSON(w, http.StatusOK, res)
		return
	}

	key := uid + "|" + date
	d.mu.Lock()
	defer d.mu.Unlock()
	if sess, ok := d.sessions[key]; ok {
		res.GameID = sess.game.ID
		writeJSON(w, http.StatusOK, res)
		return
	}
	g, err := game.New(game.Word(answer), d.srv.cfg.Game.Attempts)
	if err != nil {
		log.Error().Err(err).Msg("daily game")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	d.sessions[key] = &dailySession{game: g, date: date, wordIndex: idx, start: now}
	res.GameID = g.ID
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/guess

type dailyGuessReq struct {
	GameID string `json:"gameId"`
	Word   string `json:"word"`
}

type dailyGuessRes struct {
	Marks   []int  `json:"marks"` // per-letter: 0=miss, 1=present, 2=hit
	State   string `json:"state"` // in_progress | won | lost | locked
	Guesses int    `json:"guesses"`
	Answer  string `json:"answer,omitempty"`
}

// handleGuess validates and applies a guess for today's session. Only the
// local word list is consulted so every player faces the same dictionary.
func (d *dailyServer) handleGuess(w http.ResponseWriter, r *http.Request) {
	uid := d.playerID(w, r)

	var p dailyGuessReq
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if p.GameID == "" {
		writeError(w, http.StatusBadRequest, "invalid")
		return
	}

	now := time.Now().UTC()
	date := daily.DateKey(now)
	d.mu.Lock()
	sess, ok := d.sessions[uid+"|"+date]
	d.mu.Unlock()
	if !ok || sess.game.ID != p.GameID {
		writeError(w, http.StatusConflict, "no_session")
		return
	}

	out, err := sess.game.ApplyGuess(r.Context(), p.Word, d.srv.list)
	guesses := out.Guesses
	switch {
	case errors.Is(err, game.ErrGameFinished):
		writeJSON(w, http.StatusOK, dailyGuessRes{Marks: []int{}, State: dailyLocked, Guesses: guesses})
		return
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, "invalid")
		return
	case errors.Is(err, game.ErrNotInWordList):
		writeError(w, http.StatusBadRequest, "word_not_allowed")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	res := dailyGuessRes{Marks: out.Marks.Codes(), State: dailyInProgress, Guesses: guesses}
	switch out.State {
	case game.StateWon:
		res.State = game.StateWon
		err := d.store.InsertResult(r.Context(), daily.Result{
			UserID:    uid,
			Date:      date,
			WordIndex: sess.wordIndex,
			Guesses:   guesses,
			ElapsedMs: int(now.Sub(sess.start).Milliseconds()),
		})
		if err != nil {
			log.Warn().Err(err).Str("user", uid).Msg("daily insert result")
		}
	case game.StateLost:
		res.State = game.StateLost
		res.Answer = string(sess.game.Snapshot().Answer)
	}
	writeJSON(w, http.StatusOK, res)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(time.Now())
	} else if _, err := daily.ParseDateKey(date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	rows, err := d.store.Leaderboard(r.Context(), date, d.srv.cfg.Daily.LeaderboardSize)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
