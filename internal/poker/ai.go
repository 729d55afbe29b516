package poker

import (
	"context"
	"fmt"

	rand "math/rand/v2"
)

// Skill is the tier of a scripted opponent.
type Skill string

const (
	Beginner     Skill = "beginner"
	Intermediate Skill = "intermediate"
	Advanced     Skill = "advanced"
)

// ParseSkill validates a configured skill tier.
func ParseSkill(s string) (Skill, error) {
	switch Skill(s) {
	case Beginner, Intermediate, Advanced:
		return Skill(s), nil
	}
	return "", fmt.Errorf("unknown skill tier %q", s)
}

// PotOdds is the cost of the current bet against the resulting pot,
// used as a calling threshold by the advanced tier.
func PotOdds(currentBet, pot int) float64 {
	if currentBet+pot == 0 {
		return 0
	}
	return float64(currentBet) / float64(pot+currentBet)
}

// ScriptedAgent is the decision oracle for automated seats. A beginner
// picks a uniformly random action; an intermediate raises on any made
// pair or better; an advanced seat also gates its calls on pot odds.
type ScriptedAgent struct {
	skill Skill
	rng   *rand.Rand
}

// NewScriptedAgent creates an automated seat with the given tier.
func NewScriptedAgent(skill Skill, rng *rand.Rand) *ScriptedAgent {
	return &ScriptedAgent{skill: skill, rng: rng}
}

// Skill returns the agent's tier.
func (a *ScriptedAgent) Skill() Skill { return a.skill }

// Decide implements Agent. Raises always target the minimum legal total.
func (a *ScriptedAgent) Decide(_ context.Context, view TurnView) (Decision, error) {
	switch a.skill {
	case Beginner:
		actions := []Action{Fold, Check, Call, Raise}
		action := actions[a.rng.IntN(len(actions))]
		return a.decisionFor(action, view), nil

	case Intermediate:
		strength := Evaluate(view.Hole, view.Community)
		if strength >= OnePair {
			return a.decisionFor(Raise, view), nil
		}
		return a.decisionFor(Call, view), nil

	case Advanced:
		strength := Evaluate(view.Hole, view.Community)
		odds := PotOdds(view.CurrentBet, view.Pot)
		switch {
		case strength >= ThreeOfAKind:
			return a.decisionFor(Raise, view), nil
		case strength >= OnePair && odds < 0.5:
			return a.decisionFor(Call, view), nil
		default:
			return a.decisionFor(Fold, view), nil
		}
	}

	return Decision{Action: Fold}, fmt.Errorf("unknown skill tier %q", a.skill)
}

// decisionFor legalises the chosen action for the current state: a check
// while owing becomes a call, and a raise carries the minimum legal
// total.
func (a *ScriptedAgent) decisionFor(action Action, view TurnView) Decision {
	switch action {
	case Check:
		if view.ToCall() > 0 {
			return Decision{Action: Call}
		}
		return Decision{Action: Check}
	case Raise:
		return Decision{Action: Raise, Amount: view.MinRaise()}
	case Call:
		return Decision{Action: Call}
	default:
		return Decision{Action: Fold}
	}
}
