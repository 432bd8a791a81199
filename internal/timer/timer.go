// internal/timer/timer.go
//
// Background drivers that feed actions into a session.
//   - Driver:    the turn timer; one Tick per interval while a clocked round plays.
//   - Countdown: the 3-2-1-GO pre-roll; StartGame once it finishes.
//
// Both are started and stopped purely from the session status through Sync,
// which is idempotent and cheap enough to call after every transition.
// Neither touches session state directly: they only dispatch actions.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/wordzapp/internal/game"
)

// DispatchFunc delivers an action to the session. ctx is canceled once the
// loop that produced the action has been stopped, so a receiver that was
// blocked can drop a stale action instead of applying it.
type DispatchFunc func(ctx context.Context, a game.Action)

// Driver runs the 1 Hz turn timer.
type Driver struct {
	interval time.Duration
	dispatch DispatchFunc

	mu     sync.Mutex // guards cancel
	cancel context.CancelFunc
}

// NewDriver returns a stopped driver that dispatches game.Tick every interval.
func NewDriver(interval time.Duration, dispatch DispatchFunc) *Driver {
	return &Driver{interval: interval, dispatch: dispatch}
}

// Sync starts the ticker when status is playing in a clocked mode and stops
// it otherwise. A running ticker is left alone, so calling Sync repeatedly
// never restarts the current second.
func (d *Driver) Sync(status game.Status, mode game.Mode) {
	run := status == game.StatusPlaying && game.HasClock(mode)

	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case run && d.cancel == nil:
		ctx, cancel := context.WithCancel(context.Background())
		d.cancel = cancel
		go d.loop(ctx)
	case !run && d.cancel != nil:
		d.cancel()
		d.cancel = nil
	}
}

// Running reports whether the ticker is active.
func (d *Driver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancel != nil
}

// Stop cancels the ticker if it is running.
func (d *Driver) Stop() { d.Sync(game.StatusIdle, "") }

func (d *Driver) loop(ctx context.Context) {
	t := time.NewTicker(d.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			d.dispatch(ctx, game.Tick{})
		}
	}
}
