package poker

// Phase represents the stage of a hand. Lobby is the idle state between
// hands; betting phases advance Preflop through River before Showdown.
type Phase int

const (
	Lobby Phase = iota
	Preflop
	Flop
	Turn
	River
	Showdown
)

func (p Phase) String() string {
	return [...]string{"lobby", "preflop", "flop", "turn", "river", "showdown"}[p]
}

// Betting returns true for phases in which seats act.
func (p Phase) Betting() bool {
	return p >= Preflop && p <= River
}

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
)

func (a Action) String() string {
	return [...]string{"fold", "check", "call", "raise"}[a]
}

// ParseAction converts the wire form of an action back to an Action.
func ParseAction(s string) (Action, bool) {
	switch s {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "raise":
		return Raise, true
	}
	return 0, false
}
