// internal/httpserver/server.go
//
// HTTP server wiring for the WordZapp session host.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", pack and mode catalogs.
//   - Session endpoints: create, read, dispatch actions, SSE event stream.
//   - Progress endpoints: stats, achievements, round history, PIN-guarded reset.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the session cookie works).
//   - The request timeout is not applied to the SSE stream, which stays open.
//   - Every error body is JSON: {"error":"<code>"}.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordzapp/internal/config"
	"github.com/robalobadob/wordzapp/internal/game"
	"github.com/robalobadob/wordzapp/internal/progress"
	"github.com/robalobadob/wordzapp/internal/session"
	"github.com/robalobadob/wordzapp/internal/store"
	"github.com/robalobadob/wordzapp/internal/words"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   config.Config
	Sessions store.Store
	Loader   *words.Loader
	Tracker  *progress.Tracker
	// HostOptions configure every new session; Recorder defaults to Tracker.
	HostOptions session.Options
}

// Server bundles the router and its collaborators.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	sessions store.Store
	loader   *words.Loader
	tracker  *progress.Tracker
	tokens   tokens
	hostOpts session.Options
	newID    func() string
	log      zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	if d.HostOptions.Recorder == nil && d.Tracker != nil {
		d.HostOptions.Recorder = d.Tracker
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		sessions: d.Sessions,
		loader:   d.Loader,
		tracker:  d.Tracker,
		tokens: tokens{
			secret:     []byte(d.Config.SessionSecret),
			ttl:        d.Config.SessionTTL,
			production: d.Config.Production,
			now:        time.Now,
		},
		hostOpts: d.HostOptions,
		newID:    func() string { return uuid.New().String() },
		log:      log.With().Str("component", "http").Logger(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses
	s.r.Use(s.cors)          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordzapp","endpoints":["/health","/packs","/modes","POST /session","/session/events","POST /session/actions","/progress"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time

		r.Get("/packs", s.handlePacks)
		r.Get("/packs/{id}", s.handlePack)
		r.Get("/modes", s.handleModes)
		s.mountProgress(r)

		r.Post("/session", s.handleNewSession)
		r.With(s.withSession).Get("/session", s.handleSession)
		r.With(s.withSession).Delete("/session", s.handleEndSession)
		r.With(s.withSession).Post("/session/actions", s.handleAction)
	})

	// Long-lived; no timeout.
	s.r.With(s.withSession).Get("/session/events", s.handleEvents)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Reset-PIN")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ctxHostKey is the context key type for the request's session host.
type ctxHostKey struct{}

// withSession resolves the session token to a live host and stores it in
// the request context. Missing or forged tokens get 401; a valid token whose
// session has been swept gets 404 so the client knows to start over.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerOrCookie(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "no_session")
			return
		}
		sid, err := s.tokens.parse(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_session")
			return
		}
		h, err := s.sessions.Get(r.Context(), sid)
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, http.StatusNotFound, "session_expired")
			return
		}
		if err != nil {
			s.log.Error().Err(err).Str("session", sid).Msg("get session")
			writeError(w, http.StatusInternalServerError, "store_failed")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxHostKey{}, h)))
	})
}

func hostFrom(ctx context.Context) *session.Host {
	h, _ := ctx.Value(ctxHostKey{}).(*session.Host)
	return h
}

// ------------------------------ catalog ------------------------------------

type categoryInfo struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (s *Server) handlePacks(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(words.Packs())
}

func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	p, err := s.loader.Load(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, words.ErrUnknownPack) {
		writeError(w, http.StatusNotFound, "unknown_pack")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("load pack")
		writeError(w, http.StatusInternalServerError, "pack_unavailable")
		return
	}
	cats := make([]categoryInfo, 0, len(p.Categories))
	for _, c := range p.Categories {
		cats = append(cats, categoryInfo{Name: c, Count: len(p.Words[c])})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": p.ID, "categories": cats})
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(game.Policies())
}

// ------------------------------ session ------------------------------------

type newSessionRes struct {
	SessionID string       `json:"sessionId"`
	Token     string       `json:"token"`
	State     game.Session `json:"state"`
}

// handleNewSession starts a fresh session for this device, replacing the
// one named by the request's token (if any), and loads the default pack's
// categories into it.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	if raw := bearerOrCookie(r); raw != "" {
		if old, err := s.tokens.parse(raw); err == nil {
			_ = s.sessions.Delete(r.Context(), old)
		}
	}

	id := s.newID()
	h := session.New(id, s.hostOpts)
	if p, err := s.loader.Load(r.Context(), h.State().WordPack); err == nil {
		h.Dispatch(r.Context(), game.SetCategories{Categories: p.Categories})
	} else {
		// Play can still start once the client picks a pack that loads.
		s.log.Warn().Err(err).Str("session", id).Msg("load default pack")
	}
	if err := s.sessions.Save(r.Context(), h); err != nil {
		h.Close()
		s.log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	tok, exp, err := s.tokens.sign(id)
	if err != nil {
		_ = s.sessions.Delete(r.Context(), id)
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}
	s.tokens.setCookie(w, tok, exp)
	s.log.Info().Str("session", id).Msg("session created")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(newSessionRes{SessionID: id, Token: tok, State: h.State()})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(hostFrom(r.Context()).State())
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), hostFrom(r.Context()).ID()); err != nil {
		writeError(w, http.StatusInternalServerError, "delete_failed")
		return
	}
	s.tokens.clearCookie(w)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// ------------------------------ progress -----------------------------------

// mountProgress registers the stats, achievements and history routes.
func (s *Server) mountProgress(r chi.Router) {
	r.Get("/progress", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(s.tracker.Progress(r.Context()))
	})

	r.Delete("/progress", func(w http.ResponseWriter, r *http.Request) {
		err := s.tracker.ResetWithPIN(r.Context(), s.cfg.ResetPINHash, r.Header.Get("X-Reset-PIN"))
		switch {
		case errors.Is(err, progress.ErrBadPIN):
			writeError(w, http.StatusForbidden, "bad_pin")
		case err != nil:
			s.log.Error().Err(err).Msg("reset progress")
			writeError(w, http.StatusInternalServerError, "reset_failed")
		default:
			_ = json.NewEncoder(w).Encode(progress.Default())
		}
	})

	r.Get("/achievements", func(w http.ResponseWriter, r *http.Request) {
		type row struct {
			progress.Achievement
			Unlocked bool `json:"unlocked"`
		}
		p := s.tracker.Progress(r.Context())
		out := []row{}
		for _, a := range progress.Achievements() {
			out = append(out, row{Achievement: a, Unlocked: p.Unlocked(a.ID)})
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	r.Get("/history", func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "bad_value")
				return
			}
			limit = min(n, progress.MaxHistoryLimit)
		}
		rounds, err := s.tracker.RecentRounds(r.Context(), limit)
		if err != nil {
			s.log.Error().Err(err).Msg("recent rounds")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		_ = json.NewEncoder(w).Encode(rounds)
	})
}

// ------------------------------- small util --------------------------------

// writeError writes a JSON error body with status.
func writeError(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": code})
}
