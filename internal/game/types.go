// internal/game/types.go
//
// Core type definitions for the WordZapp session engine.
// Defines:
//   - Status:     round lifecycle (idle → countdown → playing → paused/ended).
//   - Mode:       classic / speed / endless / team.
//   - Difficulty: word filter hint carried in state.
//   - Team:       one side of a Team Battle.
//   - Session:    the single state object the reducer transforms.

package game

// Status is the lifecycle state of the current round.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusCountdown Status = "countdown"
	StatusPlaying   Status = "playing"
	StatusPaused    Status = "paused"
	StatusEnded     Status = "ended"
)

// Mode selects timer behavior and the round end condition.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeSpeed   Mode = "speed"
	ModeEndless Mode = "endless"
	ModeTeam    Mode = "team"
)

// Difficulty is a filter hint for word selection.
type Difficulty string

const (
	DifficultyAll    Difficulty = "all"
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyAll, DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Timer bounds, in seconds.
const (
	DefaultTime   = 60
	MinTime       = 30
	MaxTime       = 300
	TimeIncrement = 30
)

// DefaultPack is the word pack a fresh session starts with.
const DefaultPack = "standard"

// Team is one side in team mode.
type Team struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Color string `json:"color"` // "pink" | "cyan"
}

// Session holds the complete state of one device's game.
// Slices are never mutated in place by the reducer; every transition
// produces fresh slices so previously returned values stay stable.
type Session struct {
	Status     Status     `json:"status"`
	WordPack   string     `json:"wordPack"`
	Mode       Mode       `json:"gameMode"`
	Difficulty Difficulty `json:"difficulty"`

	TotalTime     int `json:"totalTime"`     // seconds; 0 for endless
	RemainingTime int `json:"remainingTime"` // seconds

	Categories       []string `json:"categories"`
	SelectedCategory string   `json:"selectedCategory"`
	AvailableWords   []string `json:"availableWords"`
	CurrentWord      string   `json:"currentWord"`

	CorrectWords  []string `json:"correctWords"`
	SkippedWords  []string `json:"skippedWords"`
	CurrentStreak int      `json:"currentStreak"`
	MaxStreak     int      `json:"maxStreak"`
	SkipCount     int      `json:"skipCount"`

	Teams            *[2]Team `json:"teams"`
	CurrentTeamIndex int      `json:"currentTeamIndex"`
	RoundNumber      int      `json:"roundNumber"`

	SoundEnabled bool `json:"soundEnabled"`

	// RoundID changes every time a fresh round is dealt. Hosts use it to
	// record each finished round exactly once.
	RoundID int `json:"roundId"`
	// TeamScored is set once the active team has been credited for this round.
	TeamScored bool `json:"-"`
}

// New returns a session with application start-up defaults.
func New() Session {
	return Session{
		Status:         StatusIdle,
		WordPack:       DefaultPack,
		Mode:           ModeClassic,
		Difficulty:     DifficultyAll,
		TotalTime:      DefaultTime,
		RemainingTime:  DefaultTime,
		Categories:     []string{},
		AvailableWords: []string{},
		CorrectWords:   []string{},
		SkippedWords:   []string{},
		RoundNumber:    1,
		SoundEnabled:   true,
	}
}

// ActiveTeam returns the team whose turn it is, or nil outside team mode.
func (s Session) ActiveTeam() *Team {
	if s.Teams == nil {
		return nil
	}
	t := s.Teams[s.CurrentTeamIndex]
	return &t
}
