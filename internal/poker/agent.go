package poker

import (
	"context"

	"github.com/feltworks/casino/internal/cards"
)

// TurnView is the information a seat sees when deciding: its own hole
// cards, the board, and the table's betting state. Opponents' cards are
// never included.
type TurnView struct {
	Seat       int
	Hole       []cards.Card
	Community  []cards.Card
	Phase      Phase
	Pot        int
	CurrentBet int
	Bet        int // this seat's contribution to the round so far
	Chips      int
	BigBlind   int
}

// ToCall returns the amount owed to match the current bet.
func (v TurnView) ToCall() int {
	return v.CurrentBet - v.Bet
}

// MinRaise returns the minimum legal raise-to total.
func (v TurnView) MinRaise() int {
	return max(v.BigBlind, v.CurrentBet*2)
}

// Decision is a chosen action; Amount is the raise-to total and is
// ignored for other actions.
type Decision struct {
	Action Action
	Amount int
}

// Agent decides actions for a seat. Implementations block until a
// decision is available or ctx is cancelled; the session cancels ctx
// when the turn clock expires.
type Agent interface {
	Decide(ctx context.Context, view TurnView) (Decision, error)
}

// ViewFor builds the TurnView handed to the seat's agent.
func (t *Table) ViewFor(seat int) TurnView {
	p := t.players[seat]
	hole := make([]cards.Card, len(p.Hole))
	copy(hole, p.Hole)
	return TurnView{
		Seat:       seat,
		Hole:       hole,
		Community:  t.communityCopy(),
		Phase:      t.phase,
		Pot:        t.pot,
		CurrentBet: t.currentBet,
		Bet:        p.Bet,
		Chips:      p.Chips,
		BigBlind:   t.bigBlind,
	}
}
