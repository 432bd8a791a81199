package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/robalobadob/wordzapp/internal/game"
	"github.com/robalobadob/wordzapp/internal/session"
	"github.com/robalobadob/wordzapp/internal/words"
)

var (
	errUnknownAction   = errors.New("unknown_action")
	errReservedAction  = errors.New("reserved_action")
	errUnknownCategory = errors.New("unknown_category")
	errBadValue        = errors.New("bad_value")
)

// actionReq is the body of POST /session/actions. Only the fields the
// action type uses are read.
type actionReq struct {
	Type       string `json:"type"`
	Category   string `json:"category,omitempty"`
	Pack       string `json:"pack,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Team1      string `json:"team1,omitempty"`
	Team2      string `json:"team2,omitempty"`
}

// simpleActions take no payload.
var simpleActions = map[string]game.Action{
	"nextTeamTurn":   game.NextTeamTurn{},
	"startCountdown": game.StartCountdown{},
	"startGame":      game.StartGame{},
	"pauseGame":      game.PauseGame{},
	"resumeGame":     game.ResumeGame{},
	"markCorrect":    game.MarkCorrect{},
	"markSkipped":    game.MarkSkipped{},
	"increaseTime":   game.IncreaseTime{},
	"decreaseTime":   game.DecreaseTime{},
	"endGame":        game.EndGame{},
	"resetGame":      game.ResetGame{},
	"restartGame":    game.RestartGame{},
	"toggleSound":    game.ToggleSound{},
}

// handleAction decodes one action, dispatches it to the request's host and
// returns the resulting state plus any achievements the round unlocked.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req actionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	h := hostFrom(r.Context())

	out, err := s.apply(r.Context(), h, req)
	switch {
	case errors.Is(err, words.ErrUnknownPack), errors.Is(err, errUnknownCategory):
		writeError(w, http.StatusNotFound, unwrapCode(err))
		return
	case errors.Is(err, errUnknownAction), errors.Is(err, errReservedAction), errors.Is(err, errBadValue):
		writeError(w, http.StatusBadRequest, unwrapCode(err))
		return
	case err != nil:
		s.log.Error().Err(err).Str("session", h.ID()).Str("action", req.Type).Msg("apply action")
		writeError(w, http.StatusInternalServerError, "pack_unavailable")
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// apply turns req into engine actions and dispatches them in order.
// Pack and category changes resolve their words through the loader first,
// so the reducer only ever sees complete data.
func (s *Server) apply(ctx context.Context, h *session.Host, req actionReq) (session.Outcome, error) {
	if a, ok := simpleActions[req.Type]; ok {
		return h.Dispatch(ctx, a), nil
	}

	switch req.Type {
	case "toggleTimer":
		return h.ToggleTimer(ctx), nil

	case "tick":
		// The host's own timer is the only clock.
		return session.Outcome{}, errReservedAction

	case "setWordPack":
		p, err := s.loader.Load(ctx, req.Pack)
		if err != nil {
			return session.Outcome{}, err
		}
		first := h.Dispatch(ctx, game.SetWordPack{Pack: p.ID})
		out := h.Dispatch(ctx, game.SetCategories{Categories: p.Categories})
		out.Unlocked = append(first.Unlocked, out.Unlocked...)
		return out, nil

	case "setCategories":
		p, err := s.loader.Load(ctx, h.State().WordPack)
		if err != nil {
			return session.Outcome{}, err
		}
		return h.Dispatch(ctx, game.SetCategories{Categories: p.Categories}), nil

	case "selectCategory":
		p, err := s.loader.Load(ctx, h.State().WordPack)
		if err != nil {
			return session.Outcome{}, err
		}
		list := p.WordsFor(req.Category)
		if len(list) == 0 {
			return session.Outcome{}, fmt.Errorf("%w: %q", errUnknownCategory, req.Category)
		}
		return h.Dispatch(ctx, game.SelectCategory{Category: req.Category, Words: list}), nil

	case "setGameMode":
		m := game.Mode(req.Mode)
		if _, ok := game.PolicyFor(m); !ok {
			return session.Outcome{}, fmt.Errorf("%w: mode %q", errBadValue, req.Mode)
		}
		return h.Dispatch(ctx, game.SetGameMode{Mode: m}), nil

	case "setDifficulty":
		d := game.Difficulty(req.Difficulty)
		if !d.Valid() {
			return session.Outcome{}, fmt.Errorf("%w: difficulty %q", errBadValue, req.Difficulty)
		}
		return h.Dispatch(ctx, game.SetDifficulty{Difficulty: d}), nil

	case "setTeams":
		return h.Dispatch(ctx, game.SetTeams{Team1: req.Team1, Team2: req.Team2}), nil
	}
	return session.Outcome{}, fmt.Errorf("%w: %q", errUnknownAction, req.Type)
}

// unwrapCode maps a wrapped sentinel to its wire code.
func unwrapCode(err error) string {
	for _, e := range []error{errUnknownAction, errReservedAction, errUnknownCategory, errBadValue} {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	if errors.Is(err, words.ErrUnknownPack) {
		return "unknown_pack"
	}
	return "bad_request"
}
