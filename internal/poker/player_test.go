package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feltworks/casino/internal/cards"
)

func TestPlaceBetCommitsRequestedAmount(t *testing.T) {
	t.Parallel()
	p := NewPlayer("Ada", 0, 1000)

	committed := p.PlaceBet(100)
	assert.Equal(t, 100, committed)
	assert.Equal(t, 900, p.Chips)
	assert.Equal(t, 100, p.Bet)
	assert.Equal(t, 100, p.TotalBet)
	assert.False(t, p.AllIn)
}

func TestPlaceBetClampsToBalance(t *testing.T) {
	t.Parallel()
	p := NewPlayer("Ada", 0, 60)

	committed := p.PlaceBet(100)
	assert.Equal(t, 60, committed, "must commit exactly the balance")
	assert.Equal(t, 0, p.Chips)
	assert.True(t, p.AllIn)
	assert.Equal(t, 60, p.TotalBet)
}

func TestPlaceBetIgnoresNonPositiveAmounts(t *testing.T) {
	t.Parallel()
	p := NewPlayer("Ada", 0, 100)

	assert.Zero(t, p.PlaceBet(0))
	assert.Zero(t, p.PlaceBet(-25))
	assert.Equal(t, 100, p.Chips)
	assert.Zero(t, p.Bet)
	assert.Zero(t, p.TotalBet)
	assert.False(t, p.AllIn)
}

func TestBetAccumulatesAcrossRounds(t *testing.T) {
	t.Parallel()
	p := NewPlayer("Ada", 0, 1000)
	p.PlaceBet(50)
	p.Bet = 0 // new betting round
	p.PlaceBet(30)

	assert.Equal(t, 30, p.Bet)
	assert.Equal(t, 80, p.TotalBet)
}

func TestResetHandClearsEverything(t *testing.T) {
	t.Parallel()
	p := NewPlayer("Ada", 0, 100)
	p.ReceiveCard(cards.MustParse("As"))
	p.ReceiveCard(cards.MustParse("Kd"))
	p.PlaceBet(100)
	p.Fold()
	p.TurnSeconds = 3

	p.ResetHand()

	assert.Empty(t, p.Hole)
	assert.Equal(t, 0, p.Bet)
	assert.Equal(t, 0, p.TotalBet)
	assert.False(t, p.Folded)
	assert.False(t, p.AllIn)
	assert.Equal(t, DefaultTurnSeconds, p.TurnSeconds)
	assert.Equal(t, 0, p.Chips, "stack is not restored by ResetHand")
}

func TestActionable(t *testing.T) {
	t.Parallel()
	p := NewPlayer("Ada", 0, 100)
	assert.True(t, p.Actionable())

	p.Fold()
	assert.False(t, p.Actionable())

	p.ResetHand()
	p.PlaceBet(200)
	assert.True(t, p.AllIn)
	assert.False(t, p.Actionable())
}
