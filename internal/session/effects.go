package session

import (
	"github.com/robalobadob/wordzapp/internal/game"
	"github.com/robalobadob/wordzapp/internal/sound"
)

// streakEvery is how many consecutive correct guesses earn the streak cue.
const streakEvery = 5

// effectsFor derives the sound cues of one transition.
func effectsFor(prev, next game.Session, a game.Action) []sound.Effect {
	var out []sound.Effect
	switch a.(type) {
	case game.MarkCorrect:
		if len(next.CorrectWords) > len(prev.CorrectWords) {
			out = append(out, sound.Correct)
			if next.CurrentStreak > 0 && next.CurrentStreak%streakEvery == 0 {
				out = append(out, sound.Streak)
			}
		}
	case game.MarkSkipped:
		if len(next.SkippedWords) > len(prev.SkippedWords) {
			out = append(out, sound.Skip)
		}
	case game.Tick:
		if next.Status == game.StatusPlaying && next.RemainingTime < prev.RemainingTime {
			switch {
			case next.RemainingTime <= 5:
				out = append(out, sound.Warning)
			case next.RemainingTime <= 10:
				out = append(out, sound.Tick)
			}
		}
	}

	if next.Status == game.StatusPlaying && next.CurrentWord != "" &&
		(next.CurrentWord != prev.CurrentWord || prev.Status != game.StatusPlaying) {
		out = append(out, sound.CardFlip)
	}
	if next.Status == game.StatusEnded && prev.Status != game.StatusEnded {
		out = append(out, sound.GameOver)
	}
	return out
}
