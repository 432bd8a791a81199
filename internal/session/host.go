// internal/session/host.go
//
// Host owns one device's game session.
// Responsibilities:
//   - Serialize every dispatch (UI requests, timer ticks, countdown) under one mutex.
//   - Run the reducer and keep the turn timer/countdown in step with the status.
//   - Emit sound cues and push state to subscribers after each transition.
//   - Record each finished round exactly once, outside the lock.

package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordzapp/internal/game"
	"github.com/robalobadob/wordzapp/internal/progress"
	"github.com/robalobadob/wordzapp/internal/sound"
	"github.com/robalobadob/wordzapp/internal/timer"
)

// ErrNotFound is returned by stores for unknown session ids.
var ErrNotFound = errors.New("session: not found")

// subscriberBuffer is the event backlog a slow subscriber may fall behind by.
const subscriberBuffer = 16

// Recorder persists finished rounds.
type Recorder interface {
	RecordGameResult(ctx context.Context, r progress.Result) (progress.Progress, []string)
}

// Options configures a Host. Zero values pick production defaults.
type Options struct {
	TickInterval   time.Duration // default 1s
	CountdownSteps []timer.Step  // default timer.DefaultSteps
	StartAfter     time.Duration // default timer.DefaultStartAfter
	Rand           game.Rand     // default crypto/rand
	Sound          sound.Player  // default sound.Nop
	Recorder       Recorder      // nil disables recording
	Now            func() time.Time
}

// Event is pushed to subscribers.
type Event struct {
	Kind         string                 `json:"kind"` // "state" | "sound" | "achievements"
	State        *game.Session          `json:"state,omitempty"`
	Sound        sound.Effect           `json:"sound,omitempty"`
	Achievements []progress.Achievement `json:"achievements,omitempty"`
}

// Outcome is the result of one dispatch.
type Outcome struct {
	State    game.Session           `json:"state"`
	Unlocked []progress.Achievement `json:"newAchievements"`
}

// Host is safe for concurrent use.
type Host struct {
	id        string
	reducer   *game.Reducer
	timer     *timer.Driver
	countdown *timer.Countdown
	player    sound.Player
	recorder  Recorder
	now       func() time.Time
	log       zerolog.Logger

	mu            sync.Mutex
	state         game.Session
	recordedRound int // RoundID of the last recorded round
	playing       time.Duration
	playingSince  time.Time
	subs          map[chan Event]struct{}
	lastActive    time.Time
	closed        bool
}

// New creates a host for a fresh session.
func New(id string, opts Options) *Host {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.CountdownSteps == nil {
		opts.CountdownSteps = timer.DefaultSteps
	}
	if opts.StartAfter <= 0 {
		opts.StartAfter = timer.DefaultStartAfter
	}
	if opts.Sound == nil {
		opts.Sound = sound.Nop
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := &Host{
		id:            id,
		reducer:       game.NewReducer(opts.Rand),
		player:        opts.Sound,
		recorder:      opts.Recorder,
		now:           opts.Now,
		log:           log.With().Str("session", id).Logger(),
		state:         game.New(),
		recordedRound: -1,
		subs:          make(map[chan Event]struct{}),
	}
	h.lastActive = h.now()
	h.timer = timer.NewDriver(opts.TickInterval, h.driverDispatch)
	h.countdown = timer.NewCountdown(opts.CountdownSteps, opts.StartAfter, h.emit, h.driverDispatch)
	return h
}

// ID returns the session id.
func (h *Host) ID() string { return h.id }

// State returns a snapshot of the current session.
func (h *Host) State() game.Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// LastActive is the time of the last dispatch.
func (h *Host) LastActive() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastActive
}

// Dispatch applies a and returns the resulting state.
func (h *Host) Dispatch(ctx context.Context, a game.Action) Outcome {
	return h.dispatchContext(ctx, a)
}

// ToggleTimer dispatches whichever of start/pause/resume fits the current status.
func (h *Host) ToggleTimer(ctx context.Context) Outcome {
	h.mu.Lock()
	a, ok := game.ToggleTimer(h.state)
	s := h.state
	h.mu.Unlock()
	if !ok {
		return Outcome{State: s, Unlocked: []progress.Achievement{}}
	}
	return h.dispatchContext(ctx, a)
}

// driverDispatch is the timer.DispatchFunc the background drivers feed.
func (h *Host) driverDispatch(ctx context.Context, a game.Action) {
	h.dispatchContext(ctx, a)
}

func (h *Host) dispatchContext(ctx context.Context, a game.Action) Outcome {
	h.mu.Lock()
	if h.closed || ctx.Err() != nil {
		s := h.state
		h.mu.Unlock()
		return Outcome{State: s, Unlocked: []progress.Achievement{}}
	}

	prev := h.state
	next := h.reducer.Reduce(prev, a)
	h.state = next
	if _, isTick := a.(game.Tick); !isTick {
		h.lastActive = h.now()
		h.log.Debug().Str("action", a.Kind()).Str("status", string(next.Status)).Msg("dispatch")
	}
	h.trackPlayTime(prev, next)

	if next.SoundEnabled {
		for _, e := range effectsFor(prev, next, a) {
			h.playLocked(e)
		}
	}
	h.timer.Sync(next.Status, next.Mode)
	h.countdown.Sync(next.Status)

	var pending *progress.Result
	if next.Status == game.StatusEnded && prev.Status != game.StatusEnded &&
		h.recordedRound != next.RoundID && h.recorder != nil {
		h.recordedRound = next.RoundID
		r := h.resultOf(next)
		pending = &r
	}
	h.publishLocked(Event{Kind: "state", State: &next})
	h.mu.Unlock()

	out := Outcome{State: next, Unlocked: []progress.Achievement{}}
	if pending != nil {
		// The timer's context is canceled by the very tick that ends the
		// round; the write must outlive it.
		_, ids := h.recorder.RecordGameResult(context.WithoutCancel(ctx), *pending)
		out.Unlocked = lookupAll(ids)
		if len(out.Unlocked) > 0 {
			h.mu.Lock()
			h.publishLocked(Event{Kind: "achievements", Achievements: out.Unlocked})
			h.mu.Unlock()
		}
	}
	return out
}

// emit plays a countdown cue unless sound is off or the countdown was abandoned.
func (h *Host) emit(ctx context.Context, e sound.Effect) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || ctx.Err() != nil || !h.state.SoundEnabled {
		return
	}
	h.playLocked(e)
}

func (h *Host) playLocked(e sound.Effect) {
	h.player.Play(e)
	h.publishLocked(Event{Kind: "sound", Sound: e})
}

// Subscribe returns a channel of events and a func to stop receiving them.
// Events are dropped for a subscriber whose buffer is full.
func (h *Host) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

func (h *Host) publishLocked(ev Event) {
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.log.Debug().Str("kind", ev.Kind).Msg("subscriber behind; event dropped")
		}
	}
}

// Close stops the background drivers and disconnects subscribers.
// Dispatches after Close are ignored.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.timer.Stop()
	h.countdown.Sync(game.StatusIdle)
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

// trackPlayTime accumulates wall-clock time spent in playing.
func (h *Host) trackPlayTime(prev, next game.Session) {
	if next.RoundID != prev.RoundID {
		h.playing = 0
		h.playingSince = time.Time{}
	}
	wasPlaying := prev.Status == game.StatusPlaying && next.RoundID == prev.RoundID
	isPlaying := next.Status == game.StatusPlaying
	switch {
	case !wasPlaying && isPlaying:
		h.playingSince = h.now()
	case wasPlaying && !isPlaying && !h.playingSince.IsZero():
		h.playing += h.now().Sub(h.playingSince)
		h.playingSince = time.Time{}
	}
}

// resultOf summarizes a finished round. Clocked modes count elapsed clock
// seconds; endless counts the wall-clock time spent playing.
func (h *Host) resultOf(s game.Session) progress.Result {
	played := s.TotalTime - s.RemainingTime
	if !game.HasClock(s.Mode) {
		played = int(h.playing.Round(time.Second) / time.Second)
	}
	return progress.Result{
		Category:     s.SelectedCategory,
		GameMode:     string(s.Mode),
		CorrectCount: len(s.CorrectWords),
		SkippedCount: len(s.SkippedWords),
		MaxStreak:    s.MaxStreak,
		PlayTime:     played,
	}
}

func lookupAll(ids []string) []progress.Achievement {
	out := make([]progress.Achievement, 0, len(ids))
	for _, id := range ids {
		if a, ok := progress.Lookup(id); ok {
			out = append(out, a)
		}
	}
	return out
}
