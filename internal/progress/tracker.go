package progress

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Tracker applies finished rounds to the saved progress.
// Storage is best-effort: read failures fall back to defaults and write
// failures are logged, so a broken store never interrupts play.
type Tracker struct {
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

// NewTracker wraps store.
func NewTracker(store Store) *Tracker {
	return &Tracker{
		store: store,
		now:   time.Now,
		log:   log.With().Str("component", "progress").Logger(),
	}
}

// Progress loads the saved progress, or defaults when it cannot be read.
func (t *Tracker) Progress(ctx context.Context) Progress {
	p, err := t.store.Load(ctx)
	if err != nil {
		t.log.Warn().Err(err).Msg("load progress; using defaults")
		return Default()
	}
	return p
}

// RecordGameResult folds r into the saved stats, updates the category high
// score and returns the updated progress plus the ids of newly unlocked
// achievements. Callers must invoke it once per finished round.
func (t *Tracker) RecordGameResult(ctx context.Context, r Result) (Progress, []string) {
	p := t.Progress(ctx)
	now := t.now().UTC().Format(time.RFC3339)

	p.Stats.TotalGamesPlayed++
	p.Stats.TotalWordsGuessed += r.CorrectCount
	p.Stats.TotalWordsSkipped += r.SkippedCount
	p.Stats.TotalPlayTime += r.PlayTime
	p.Stats.BestStreak = max(p.Stats.BestStreak, r.MaxStreak)
	if isPerfect(r) {
		p.Stats.PerfectGames++
	}

	if hs, ok := p.HighScores[r.Category]; !ok || r.CorrectCount > hs.Score {
		p.HighScores[r.Category] = HighScore{
			Score:    r.CorrectCount,
			Streak:   r.MaxStreak,
			Accuracy: accuracy(r),
			Date:     now,
			GameMode: r.GameMode,
		}
	}
	p.LastPlayed = &now

	unlocked := newlyUnlocked(p, r)
	p.Achievements = append(append([]string{}, p.Achievements...), unlocked...)

	if err := t.store.Save(ctx, p); err != nil {
		t.log.Warn().Err(err).Msg("save progress")
	}
	if h, ok := t.store.(History); ok {
		if err := h.AppendRound(ctx, Round{Result: r, FinishedAt: now}); err != nil {
			t.log.Warn().Err(err).Msg("append round history")
		}
	}

	t.log.Info().
		Str("category", r.Category).
		Str("mode", r.GameMode).
		Int("correct", r.CorrectCount).
		Strs("unlocked", unlocked).
		Msg("round recorded")
	return p, unlocked
}

// RecentRounds returns the latest finished rounds, newest first.
// Stores without history yield an empty list.
func (t *Tracker) RecentRounds(ctx context.Context, limit int) ([]Round, error) {
	h, ok := t.store.(History)
	if !ok {
		return []Round{}, nil
	}
	return h.RecentRounds(ctx, limit)
}

// Reset clears all saved progress.
func (t *Tracker) Reset(ctx context.Context) error {
	return t.store.Reset(ctx)
}

// ResetWithPIN clears progress when pin matches the bcrypt pinHash.
// An empty pinHash means no PIN is configured.
func (t *Tracker) ResetWithPIN(ctx context.Context, pinHash, pin string) error {
	if pinHash != "" && bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)) != nil {
		t.log.Warn().Msg("progress reset refused: bad pin")
		return ErrBadPIN
	}
	return t.Reset(ctx)
}

// accuracy is the rounded percentage of correct guesses.
func accuracy(r Result) int {
	total := r.CorrectCount + r.SkippedCount
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(r.CorrectCount) / float64(total) * 100))
}
