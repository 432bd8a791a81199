package game

// Action is a closed set of intents the reducer understands.
// Only types in this package implement it.
type Action interface {
	Kind() string
	isAction()
}

type (
	// SetCategories replaces the category list of the loaded pack.
	SetCategories struct{ Categories []string }
	// SetWordPack switches pack and clears everything pack-scoped.
	SetWordPack struct{ Pack string }
	// SelectCategory deals a fresh round from Words.
	SelectCategory struct {
		Category string
		Words    []string
	}
	SetGameMode   struct{ Mode Mode }
	SetDifficulty struct{ Difficulty Difficulty }
	SetTeams      struct{ Team1, Team2 string }
	NextTeamTurn  struct{}
	// StartCountdown enters the pre-roll; the countdown driver sends StartGame.
	StartCountdown struct{}
	StartGame      struct{}
	PauseGame      struct{}
	ResumeGame     struct{}
	// Tick is sent once per second by the turn timer.
	Tick         struct{}
	MarkCorrect  struct{}
	MarkSkipped  struct{}
	IncreaseTime struct{}
	DecreaseTime struct{}
	// EndGame aborts a playing or paused round.
	EndGame struct{}
	// ResetGame reshuffles the category for a fresh round, keeping team scores.
	ResetGame struct{}
	// RestartGame is ResetGame plus a fresh team match.
	RestartGame struct{}
	ToggleSound struct{}
)

func (SetCategories) Kind() string  { return "setCategories" }
func (SetWordPack) Kind() string    { return "setWordPack" }
func (SelectCategory) Kind() string { return "selectCategory" }
func (SetGameMode) Kind() string    { return "setGameMode" }
func (SetDifficulty) Kind() string  { return "setDifficulty" }
func (SetTeams) Kind() string       { return "setTeams" }
func (NextTeamTurn) Kind() string   { return "nextTeamTurn" }
func (StartCountdown) Kind() string { return "startCountdown" }
func (StartGame) Kind() string      { return "startGame" }
func (PauseGame) Kind() string      { return "pauseGame" }
func (ResumeGame) Kind() string     { return "resumeGame" }
func (Tick) Kind() string           { return "tick" }
func (MarkCorrect) Kind() string    { return "markCorrect" }
func (MarkSkipped) Kind() string    { return "markSkipped" }
func (IncreaseTime) Kind() string   { return "increaseTime" }
func (DecreaseTime) Kind() string   { return "decreaseTime" }
func (EndGame) Kind() string        { return "endGame" }
func (ResetGame) Kind() string      { return "resetGame" }
func (RestartGame) Kind() string    { return "restartGame" }
func (ToggleSound) Kind() string    { return "toggleSound" }

func (SetCategories) isAction()  {}
func (SetWordPack) isAction()    {}
func (SelectCategory) isAction() {}
func (SetGameMode) isAction()    {}
func (SetDifficulty) isAction()  {}
func (SetTeams) isAction()       {}
func (NextTeamTurn) isAction()   {}
func (StartCountdown) isAction() {}
func (StartGame) isAction()      {}
func (PauseGame) isAction()      {}
func (ResumeGame) isAction()     {}
func (Tick) isAction()           {}
func (MarkCorrect) isAction()    {}
func (MarkSkipped) isAction()    {}
func (IncreaseTime) isAction()   {}
func (DecreaseTime) isAction()   {}
func (EndGame) isAction()        {}
func (ResetGame) isAction()      {}
func (RestartGame) isAction()    {}
func (ToggleSound) isAction()    {}

// ToggleTimer maps the single play/pause button onto the action for the
// current status. ok is false when the button does nothing.
func ToggleTimer(s Session) (a Action, ok bool) {
	switch s.Status {
	case StatusIdle:
		return StartCountdown{}, true
	case StatusPlaying:
		return PauseGame{}, true
	case StatusPaused:
		return ResumeGame{}, true
	}
	return nil, false
}
