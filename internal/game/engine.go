// internal/game/engine.go
//
// Session reducer for WordZapp.
// Responsibilities:
//   - Apply one Action to a Session and return the next Session.
//   - Draw words without replacement and track streaks/skips.
//   - Enforce per-mode rules (clock, time adjustment, skip budget).
//   - Credit the active team exactly once when a team round ends.
//
// Notes:
//   - Reduce is total: an action that is illegal for the current state returns
//     the state unchanged, so late or duplicated dispatches cannot corrupt it.
//   - Selecting a category or pack always aborts the round in progress.
//   - The only impurity is randomness, injected through Rand.
package game

// Reducer applies actions to sessions.
type Reducer struct {
	rng Rand
}

// NewReducer returns a reducer drawing randomness from rng.
// A nil rng uses crypto/rand.
func NewReducer(rng Rand) *Reducer {
	if rng == nil {
		rng = cryptoRand{}
	}
	return &Reducer{rng: rng}
}

// Reduce computes the session that follows s after a.
func (r *Reducer) Reduce(s Session, a Action) Session {
	switch a := a.(type) {
	case SetCategories:
		s.Categories = append([]string{}, a.Categories...)
		return s

	case SetWordPack:
		if a.Pack == "" || a.Pack == s.WordPack {
			return s
		}
		s.WordPack = a.Pack
		s.Categories = []string{}
		s.SelectedCategory = ""
		return r.deal(s, nil)

	case SelectCategory:
		if a.Category == "" || len(a.Words) == 0 {
			return s
		}
		s.SelectedCategory = a.Category
		return r.deal(s, a.Words)

	case SetGameMode:
		p, ok := PolicyFor(a.Mode)
		if !ok {
			return s
		}
		s.Mode = a.Mode
		s.TotalTime = p.DefaultTime
		if a.Mode != ModeTeam {
			s.Teams = nil
			s.CurrentTeamIndex = 0
			s.RoundNumber = 1
		}
		return r.deal(s, allWords(s))

	case SetDifficulty:
		if !a.Difficulty.Valid() {
			return s
		}
		s.Difficulty = a.Difficulty
		return s

	case SetTeams:
		if s.Mode != ModeTeam || s.Status != StatusIdle {
			return s
		}
		s.Teams = newTeams(a.Team1, a.Team2)
		s.CurrentTeamIndex = 0
		s.RoundNumber = 1
		return s

	case NextTeamTurn:
		if s.Mode != ModeTeam || s.Teams == nil || s.Status != StatusEnded {
			return s
		}
		return r.deal(rotateTeams(s), allWords(s))

	case StartCountdown:
		if s.Status != StatusIdle || s.CurrentWord == "" {
			return s
		}
		s.Status = StatusCountdown
		return s

	case StartGame:
		if s.Status != StatusCountdown {
			return s
		}
		s.Status = StatusPlaying
		return s

	case PauseGame:
		if s.Status != StatusPlaying || !HasClock(s.Mode) {
			return s
		}
		s.Status = StatusPaused
		return s

	case ResumeGame:
		if s.Status != StatusPaused {
			return s
		}
		s.Status = StatusPlaying
		return s

	case Tick:
		if s.Status != StatusPlaying || !HasClock(s.Mode) {
			return s
		}
		if s.RemainingTime <= 1 {
			s.RemainingTime = 0
			return endRound(s)
		}
		s.RemainingTime--
		return s

	case MarkCorrect:
		if s.Status != StatusPlaying || s.CurrentWord == "" {
			return s
		}
		s.CorrectWords = appendWord(s.CorrectWords, s.CurrentWord)
		s.CurrentStreak++
		s.MaxStreak = max(s.MaxStreak, s.CurrentStreak)
		return r.advance(s)

	case MarkSkipped:
		if s.Status != StatusPlaying || s.CurrentWord == "" {
			return s
		}
		s.SkippedWords = appendWord(s.SkippedWords, s.CurrentWord)
		s.CurrentStreak = 0
		s.SkipCount++
		if p, _ := PolicyFor(s.Mode); p.SkipLimit > 0 && s.SkipCount >= p.SkipLimit {
			// The undrawn remainder stays in the pool for the next deal.
			s.CurrentWord = ""
			return endRound(s)
		}
		return r.advance(s)

	case IncreaseTime:
		return adjustTime(s, TimeIncrement)

	case DecreaseTime:
		return adjustTime(s, -TimeIncrement)

	case EndGame:
		if s.Status != StatusPlaying && s.Status != StatusPaused {
			return s
		}
		return endRound(s)

	case ResetGame:
		return r.deal(s, allWords(s))

	case RestartGame:
		s = zeroTeams(s)
		s.CurrentTeamIndex = 0
		s.RoundNumber = 1
		return r.deal(s, allWords(s))

	case ToggleSound:
		s.SoundEnabled = !s.SoundEnabled
		return s
	}
	return s
}

// deal starts a fresh idle round from words: shuffled pool, first word
// drawn, scores, streaks and skips cleared, clock rewound.
func (r *Reducer) deal(s Session, words []string) Session {
	word, rest := Draw(r.rng, Shuffle(r.rng, words))
	s.Status = StatusIdle
	s.CurrentWord = word
	s.AvailableWords = rest
	s.CorrectWords = []string{}
	s.SkippedWords = []string{}
	s.CurrentStreak = 0
	s.MaxStreak = 0
	s.SkipCount = 0
	s.RemainingTime = s.TotalTime
	s.TeamScored = false
	s.RoundID++
	return s
}

// advance shows the next word, ending the round when the pool is empty.
func (r *Reducer) advance(s Session) Session {
	if len(s.AvailableWords) == 0 {
		s.CurrentWord = ""
		s.AvailableWords = []string{}
		return endRound(s)
	}
	s.CurrentWord, s.AvailableWords = Draw(r.rng, s.AvailableWords)
	return s
}

// endRound is the single place a round transitions to ended.
func endRound(s Session) Session {
	s.Status = StatusEnded
	return creditActiveTeam(s)
}

// adjustTime moves TotalTime by delta within [MinTime, MaxTime].
func adjustTime(s Session, delta int) Session {
	p, _ := PolicyFor(s.Mode)
	if s.Status != StatusIdle || !p.AllowTimeAdjust {
		return s
	}
	s.TotalTime = min(max(s.TotalTime+delta, MinTime), MaxTime)
	s.RemainingTime = s.TotalTime
	return s
}

// allWords gathers every word of the active category, seen or not.
func allWords(s Session) []string {
	out := make([]string, 0, len(s.CorrectWords)+len(s.SkippedWords)+len(s.AvailableWords)+1)
	out = append(out, s.CorrectWords...)
	out = append(out, s.SkippedWords...)
	if s.CurrentWord != "" {
		out = append(out, s.CurrentWord)
	}
	return append(out, s.AvailableWords...)
}

func appendWord(list []string, w string) []string {
	out := make([]string, len(list), len(list)+1)
	copy(out, list)
	return append(out, w)
}
