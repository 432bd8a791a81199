package progress

// Achievement is one unlockable badge.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Criteria    string `json:"criteria"`
}

// rule decides whether a round, together with the stats after it, unlocks an achievement.
type rule func(r Result, st Stats) bool

type achievementDef struct {
	Achievement
	unlocks rule
}

var achievements = []achievementDef{
	{Achievement{"first_game", "First Timer", "Complete your first game", "gamepad", "Play 1 game"},
		func(Result, Stats) bool { return true }},
	{Achievement{"streak_5", "On Fire", "Get a 5-word streak", "flame", "Streak = 5"},
		func(r Result, _ Stats) bool { return r.MaxStreak >= 5 }},
	{Achievement{"streak_10", "Unstoppable", "Get a 10-word streak", "explosion", "Streak = 10"},
		func(r Result, _ Stats) bool { return r.MaxStreak >= 10 }},
	{Achievement{"perfect_game", "Perfectionist", "100% accuracy with 5+ words", "sparkles", "0 skips, 5+ correct"},
		func(r Result, _ Stats) bool { return isPerfect(r) }},
	{Achievement{"speed_demon", "Speed Demon", "10+ words in Speed Round", "zap", "Score 10+ in speed mode"},
		func(r Result, _ Stats) bool { return r.GameMode == "speed" && r.CorrectCount >= 10 }},
	{Achievement{"word_wizard_100", "Word Wizard", "Guess 100 total words", "wand", "Total correct = 100"},
		func(_ Result, st Stats) bool { return st.TotalWordsGuessed >= 100 }},
	{Achievement{"word_wizard_500", "Word Master", "Guess 500 total words", "trophy", "Total correct = 500"},
		func(_ Result, st Stats) bool { return st.TotalWordsGuessed >= 500 }},
	{Achievement{"party_starter", "Party Starter", "Play 10 games", "party", "Games = 10"},
		func(_ Result, st Stats) bool { return st.TotalGamesPlayed >= 10 }},
	{Achievement{"party_animal", "Party Animal", "Play 50 games", "lion", "Games = 50"},
		func(_ Result, st Stats) bool { return st.TotalGamesPlayed >= 50 }},
	{Achievement{"endless_master", "Endless Master", "Score 20+ in Endless mode", "infinity", "Score 20+ in endless mode"},
		func(r Result, _ Stats) bool { return r.GameMode == "endless" && r.CorrectCount >= 20 }},
	{Achievement{"team_player", "Team Player", "Complete a Team Battle game", "users", "Play team mode"},
		func(r Result, _ Stats) bool { return r.GameMode == "team" }},
}

// Achievements lists every achievement in display order.
func Achievements() []Achievement {
	out := make([]Achievement, len(achievements))
	for i, a := range achievements {
		out[i] = a.Achievement
	}
	return out
}

// Lookup finds an achievement by id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range achievements {
		if a.ID == id {
			return a.Achievement, true
		}
	}
	return Achievement{}, false
}

// newlyUnlocked returns ids earned by r that p has not unlocked yet.
func newlyUnlocked(p Progress, r Result) []string {
	out := []string{}
	for _, a := range achievements {
		if !p.Unlocked(a.ID) && a.unlocks(r, p.Stats) {
			out = append(out, a.ID)
		}
	}
	return out
}

func isPerfect(r Result) bool {
	return r.SkippedCount == 0 && r.CorrectCount >= 5
}
