// internal/httpserver/server.go
//
// HTTP server wiring for the word game backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints (optional auth): POST /game/new, POST /game/guess.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: see auth.go.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Live games stay in the Sessions store; only ownership, guess counts
//     and outcomes reach the database.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordgame/internal/config"
	"github.com/robalobadob/wordgame/internal/daily"
	"github.com/robalobadob/wordgame/internal/game"
	"github.com/robalobadob/wordgame/internal/store"
	"github.com/robalobadob/wordgame/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   *config.Config
	Sessions store.Sessions // live /game sessions
	Users    *store.SQL     // accounts, history, stats
	Daily    *daily.Store   // daily results
	List     *words.List    // local lists; daily answers and daily validation
	Words    words.Provider // secret words and validation for /game; defaults to List
}

// Server bundles router and dependencies.
type Server struct {
	r        *chi.Mux
	cfg      *config.Config
	sessions store.Sessions
	users    *store.SQL
	list     *words.List
	words    words.Provider
	daily    *dailyServer
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.Words == nil {
		d.Words = d.List
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		sessions: d.Sessions,
		users:    d.Users,
		list:     d.List,
		words:    d.Words,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
	s.r.Use(jsonContentType)
	s.r.Use(cors(s.cfg.Server.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordgame",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "/daily/*", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
		a, g := s.list.Stats()
		writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g, "length": s.list.Length()})
	})

	// Game endpoints: guests can play
	s.r.With(s.withOptionalAuth()).Post("/game/new", s.handleNewGame)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)

	// Daily Challenge: guests can play; results persisted on win
	s.daily = s.mountDaily(s.r.With(s.withOptionalAuth()), d.Daily)

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Router exposes the internal router (used by the serve command and tests).
func (s *Server) Router() chi.Router { return s.r }

// Prune drops live game and daily sessions older than the configured TTL.
func (s *Server) Prune(ctx context.Context, now time.Time) (int, error) {
	n, err := s.sessions.Prune(ctx, now.Add(-s.cfg.Server.SessionTTL))
	if err != nil {
		return n, err
	}
	return n + s.daily.prune(now), nil
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request at debug level.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing)
}
type newGameRes struct {
	GameID string `json:"gameId"`
	Length int    `json:"length"`
	Rows   int    `json:"rows"`
}

// handleNewGame creates a live game and records an owner row (user_id or
// anonymous_id) for history and stats.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	// The body is optional; an empty one starts a random game.
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	raw := req.Answer
	if raw == "" {
		var err error
		if raw, err = s.words.RandomWord(r.Context()); err != nil {
			log.Error().Err(err).Msg("pick secret word")
			writeError(w, http.StatusBadGateway, "word_source_unavailable")
			return
		}
	}
	answer, err := game.ParseWord(raw, s.cfg.Game.WordLength)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_answer")
		return
	}
	g, err := game.New(answer, s.cfg.Game.Attempts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_answer")
		return
	}
	if err := s.sessions.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	if err := s.users.CreateGame(r.Context(), g.ID, s.owner(w, r)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, Length: len(answer), Rows: s.cfg.Game.Attempts})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Marks  game.Evaluation `json:"marks"`
	State  string          `json:"state"` // "playing" | "won" | "lost"
	Answer string          `json:"answer,omitempty"`
}

// handleGuess applies a guess to a live game and records progress.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.sessions.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	out, err := g.ApplyGuess(r.Context(), req.Guess, s.words)
	switch {
	case errors.Is(err, game.ErrGameFinished):
		writeError(w, http.StatusConflict, "game_finished")
		return
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, "invalid_guess")
		return
	case errors.Is(err, game.ErrNotInWordList):
		writeError(w, http.StatusBadRequest, "not_in_word_list")
		return
	case err != nil:
		log.Warn().Err(err).Str("gameId", g.ID).Msg("validate guess")
		writeError(w, http.StatusBadGateway, "validator_unavailable")
		return
	}
	if err := s.sessions.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	// Counters and history are best effort.
	if err := s.users.RecordGuess(r.Context(), g.ID, s.owner(w, r), out.State); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record guess")
	}

	res := guessRes{Marks: out.Marks, State: out.State}
	if out.State == game.StateLost {
		res.Answer = string(g.Snapshot().Answer)
	}
	writeJSON(w, http.StatusOK, res)
}
