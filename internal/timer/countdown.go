package timer

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/wordzapp/internal/game"
	"github.com/robalobadob/wordzapp/internal/sound"
)

// Step is one beat of the pre-roll: Effect plays At after the countdown starts.
type Step struct {
	At     time.Duration
	Effect sound.Effect
}

// DefaultSteps is 3, 2, 1 one second apart, then GO.
var DefaultSteps = []Step{
	{At: 0, Effect: sound.Countdown},
	{At: time.Second, Effect: sound.Countdown},
	{At: 2 * time.Second, Effect: sound.Countdown},
	{At: 3 * time.Second, Effect: sound.Go},
}

// DefaultStartAfter leaves the GO card on screen briefly before play starts.
const DefaultStartAfter = 3700 * time.Millisecond

// Countdown drives the pre-roll while the session sits in countdown.
type Countdown struct {
	steps      []Step
	startAfter time.Duration
	emit       func(ctx context.Context, e sound.Effect)
	dispatch   DispatchFunc

	mu     sync.Mutex // guards cancel
	cancel context.CancelFunc
}

// NewCountdown returns a stopped countdown. emit plays each step's effect;
// dispatch receives StartGame once startAfter has elapsed.
func NewCountdown(steps []Step, startAfter time.Duration, emit func(ctx context.Context, e sound.Effect), dispatch DispatchFunc) *Countdown {
	return &Countdown{steps: steps, startAfter: startAfter, emit: emit, dispatch: dispatch}
}

// Sync starts the pre-roll on entering countdown and abandons it on leaving.
func (c *Countdown) Sync(status game.Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case status == game.StatusCountdown && c.cancel == nil:
		ctx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		go c.run(ctx)
	case status != game.StatusCountdown && c.cancel != nil:
		c.cancel()
		c.cancel = nil
	}
}

// Running reports whether a pre-roll is in progress.
func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

func (c *Countdown) run(ctx context.Context) {
	start := time.Now()
	for _, s := range c.steps {
		if !sleepUntil(ctx, start.Add(s.At)) {
			return
		}
		c.emit(ctx, s.Effect)
	}
	if !sleepUntil(ctx, start.Add(c.startAfter)) {
		return
	}
	c.dispatch(ctx, game.StartGame{})
}

// sleepUntil blocks until deadline or cancellation; false means canceled.
func sleepUntil(ctx context.Context, deadline time.Time) bool {
	d := time.Until(deadline)
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
