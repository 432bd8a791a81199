package game

import "strings"

var teamColors = [2]string{"pink", "cyan"}

// newTeams builds a fresh pair of teams. Blank names fall back to "Team 1"/"Team 2".
func newTeams(name1, name2 string) *[2]Team {
	names := [2]string{strings.TrimSpace(name1), strings.TrimSpace(name2)}
	if names[0] == "" {
		names[0] = "Team 1"
	}
	if names[1] == "" {
		names[1] = "Team 2"
	}
	return &[2]Team{
		{Name: names[0], Color: teamColors[0]},
		{Name: names[1], Color: teamColors[1]},
	}
}

// creditActiveTeam adds this round's correct guesses to the active team.
// It runs at most once per round, guarded by TeamScored.
func creditActiveTeam(s Session) Session {
	if s.Mode != ModeTeam || s.Teams == nil || s.TeamScored {
		return s
	}
	teams := *s.Teams
	teams[s.CurrentTeamIndex].Score += len(s.CorrectWords)
	s.Teams = &teams
	s.TeamScored = true
	return s
}

// rotateTeams hands the turn to the other team, counting a new round
// whenever the first team is up again.
func rotateTeams(s Session) Session {
	s.CurrentTeamIndex = 1 - s.CurrentTeamIndex
	if s.CurrentTeamIndex == 0 {
		s.RoundNumber++
	}
	return s
}

// zeroTeams keeps team names and colors but clears their scores.
func zeroTeams(s Session) Session {
	if s.Teams == nil {
		return s
	}
	teams := *s.Teams
	for i := range teams {
		teams[i].Score = 0
	}
	s.Teams = &teams
	return s
}
