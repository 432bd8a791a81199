// Package sound names the game's sound effects and the sink that plays them.
// Playback itself happens in the browser; the server only decides when.
package sound

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Effect is a named sound cue.
type Effect string

const (
	Correct     Effect = "correct"
	Skip        Effect = "skip"
	Tick        Effect = "tick"    // last 10 seconds
	Warning     Effect = "warning" // last 5 seconds
	Countdown   Effect = "countdown"
	Go          Effect = "go"
	GameOver    Effect = "gameOver"
	Streak      Effect = "streak" // every 5th consecutive correct
	ButtonClick Effect = "buttonClick"
	CardFlip    Effect = "cardFlip"
)

// Player plays effects. Play must not block and must never panic; a player
// that cannot make sound silently drops the effect.
type Player interface {
	Play(e Effect)
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(e Effect)

func (f PlayerFunc) Play(e Effect) { f(e) }

// Nop discards every effect.
var Nop Player = PlayerFunc(func(Effect) {})

// logPlayer writes effects to the debug log.
type logPlayer struct{ log zerolog.Logger }

// NewLogPlayer returns a Player that logs each effect at debug level.
func NewLogPlayer() Player {
	return logPlayer{log: log.With().Str("component", "sound").Logger()}
}

func (p logPlayer) Play(e Effect) {
	p.log.Debug().Str("effect", string(e)).Msg("play")
}

// Multi fans an effect out to several players.
func Multi(players ...Player) Player {
	return PlayerFunc(func(e Effect) {
		for _, p := range players {
			p.Play(e)
		}
	})
}
