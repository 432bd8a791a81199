// Package progress keeps the device's cumulative stats, per-category high
// scores and unlocked achievements.
package progress

import (
	"context"
	"errors"
)

// Key is the storage key the progress document is saved under.
const Key = "wordzapp_progress"

// ErrBadPIN is returned when a reset is attempted with the wrong PIN.
var ErrBadPIN = errors.New("progress: bad reset pin")

// Stats are tracked across all games.
type Stats struct {
	TotalGamesPlayed  int `json:"totalGamesPlayed"`
	TotalWordsGuessed int `json:"totalWordsGuessed"`
	TotalWordsSkipped int `json:"totalWordsSkipped"`
	BestStreak        int `json:"bestStreak"`
	PerfectGames      int `json:"perfectGames"`  // no skips, 5+ correct
	TotalPlayTime     int `json:"totalPlayTime"` // seconds
}

// HighScore is the best round recorded for a category.
type HighScore struct {
	Score    int    `json:"score"`
	Streak   int    `json:"streak"`
	Accuracy int    `json:"accuracy"` // percent
	Date     string `json:"date"`     // RFC3339
	GameMode string `json:"gameMode"`
}

// Progress is the full saved document.
type Progress struct {
	Stats        Stats                `json:"stats"`
	HighScores   map[string]HighScore `json:"highScores"`
	Achievements []string             `json:"achievements"` // unlocked ids
	LastPlayed   *string              `json:"lastPlayed"`
}

// Default returns empty progress.
func Default() Progress {
	return Progress{
		HighScores:   map[string]HighScore{},
		Achievements: []string{},
	}
}

// Unlocked reports whether achievement id has been earned.
func (p Progress) Unlocked(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Result summarizes one finished round.
type Result struct {
	Category     string `json:"category"`
	GameMode     string `json:"gameMode"`
	CorrectCount int    `json:"correctCount"`
	SkippedCount int    `json:"skippedCount"`
	MaxStreak    int    `json:"maxStreak"`
	PlayTime     int    `json:"playTime"` // seconds
}

// Store persists the progress document.
type Store interface {
	Load(ctx context.Context) (Progress, error)
	Save(ctx context.Context, p Progress) error
	Reset(ctx context.Context) error
}

// Round is one row of round history.
type Round struct {
	Result
	FinishedAt string `json:"finishedAt"`
}

// History page sizes. Requests outside [1, MaxHistoryLimit] are clamped;
// zero or negative means DefaultHistoryLimit.
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// History is implemented by stores that also keep a per-round log.
type History interface {
	AppendRound(ctx context.Context, r Round) error
	RecentRounds(ctx context.Context, limit int) ([]Round, error)
}
