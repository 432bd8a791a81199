package game

// Policy describes how a game mode behaves.
type Policy struct {
	Mode            Mode   `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Icon            string `json:"icon"`
	DefaultTime     int    `json:"defaultTime"`
	AllowTimeAdjust bool   `json:"allowTimeAdjust"`
	HasClock        bool   `json:"hasClock"`
	SkipLimit       int    `json:"skipLimit,omitempty"` // 0 means unlimited
}

// modeOrder is the display order of the mode picker.
var modeOrder = []Mode{ModeClassic, ModeSpeed, ModeEndless, ModeTeam}

var policies = map[Mode]Policy{
	ModeClassic: {
		Mode:            ModeClassic,
		Name:            "Classic",
		Description:     "Race against the clock",
		Icon:            "timer",
		DefaultTime:     60,
		AllowTimeAdjust: true,
		HasClock:        true,
	},
	ModeSpeed: {
		Mode:        ModeSpeed,
		Name:        "Speed Round",
		Description: "30 seconds of pure chaos",
		Icon:        "zap",
		DefaultTime: 30,
		HasClock:    true,
	},
	ModeEndless: {
		Mode:        ModeEndless,
		Name:        "Endless",
		Description: "Play until you skip 3 times",
		Icon:        "infinity",
		SkipLimit:   3,
	},
	ModeTeam: {
		Mode:            ModeTeam,
		Name:            "Team Battle",
		Description:     "Teams alternate each round",
		Icon:            "users",
		DefaultTime:     60,
		AllowTimeAdjust: true,
		HasClock:        true,
	},
}

// PolicyFor looks up the policy of m. ok is false for unknown modes.
func PolicyFor(m Mode) (p Policy, ok bool) {
	p, ok = policies[m]
	return p, ok
}

// Policies returns every mode policy in display order.
func Policies() []Policy {
	out := make([]Policy, 0, len(modeOrder))
	for _, m := range modeOrder {
		out = append(out, policies[m])
	}
	return out
}

// HasClock reports whether m runs the turn timer.
func HasClock(m Mode) bool {
	p, ok := policies[m]
	return ok && p.HasClock
}
