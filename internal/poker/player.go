package poker

import "github.com/feltworks/casino/internal/cards"

// DefaultTurnSeconds is the per-turn countdown restored by ResetHand.
const DefaultTurnSeconds = 30

// Player is the per-seat state. A Player persists across hands; hand,
// bet counters and flags are cleared by ResetHand at the start of each.
type Player struct {
	Name     string
	Seat     int
	Chips    int
	Hole     []cards.Card
	Bet      int // contribution this betting round
	TotalBet int // contribution this hand
	Folded   bool
	AllIn    bool

	// TurnSeconds is the remaining countdown for this seat's turn,
	// maintained by the table's turn clock.
	TurnSeconds int
}

// NewPlayer creates a player with a starting stack.
func NewPlayer(name string, seat, chips int) *Player {
	return &Player{
		Name:        name,
		Seat:        seat,
		Chips:       chips,
		TurnSeconds: DefaultTurnSeconds,
	}
}

// ReceiveCard appends a hole card. The dealer guarantees at most two per
// hand; this operation does not enforce a limit.
func (p *Player) ReceiveCard(c cards.Card) {
	p.Hole = append(p.Hole, c)
}

// PlaceBet commits amount from the player's stack, clamping to the
// available balance. A clamped bet puts the player all-in. Non-positive
// amounts commit nothing. It returns the amount actually committed;
// callers must use the return value, not the request, to update the pot.
func (p *Player) PlaceBet(amount int) int {
	if amount <= 0 {
		return 0
	}
	if amount >= p.Chips {
		amount = p.Chips
		p.AllIn = true
	}
	p.Chips -= amount
	p.Bet += amount
	p.TotalBet += amount
	return amount
}

// Fold marks the player folded for the rest of the hand.
func (p *Player) Fold() {
	p.Folded = true
}

// ResetHand clears hand state ahead of a new deal.
func (p *Player) ResetHand() {
	p.Hole = nil
	p.Bet = 0
	p.TotalBet = 0
	p.Folded = false
	p.AllIn = false
	p.TurnSeconds = DefaultTurnSeconds
}

// Actionable returns true if the seat can still act this round.
func (p *Player) Actionable() bool {
	return !p.Folded && !p.AllIn
}
