package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/robalobadob/wordzapp/internal/session"
)

// keepAlive is how often an idle stream gets a comment line so proxies keep it open.
const keepAlive = 25 * time.Second

// handleEvents streams the host's events as Server-Sent Events.
// The current state is sent first; after that every transition, sound cue
// and achievement unlock arrives as its own event. The stream ends when the
// client disconnects or the session is closed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported")
		return
	}
	h := hostFrom(r.Context())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable buffering in nginx/proxies

	events, cancel := h.Subscribe()
	defer cancel()

	st := h.State()
	if err := writeEvent(w, session.Event{Kind: "state", State: &st}); err != nil {
		return
	}
	flusher.Flush()
	s.log.Debug().Str("session", h.ID()).Msg("event stream opened")

	ping := time.NewTicker(keepAlive)
	defer ping.Stop()
	reqCtx := r.Context()
	for {
		select {
		case <-reqCtx.Done():
			s.log.Debug().Str("session", h.ID()).Msg("event stream closed by client")
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				return
			}
			flusher.Flush()
		case <-ping.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeEvent frames ev as one SSE message named by its kind.
func writeEvent(w http.ResponseWriter, ev session.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
	return err
}
