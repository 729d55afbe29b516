package blackjack

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltworks/casino/internal/cards"
	"github.com/feltworks/casino/internal/randutil"
)

func newTestGame(t *testing.T, balance int) *Game {
	t.Helper()
	return NewGame(log.New(io.Discard), randutil.New(21), balance)
}

// stackNext puts scripted cards on top of the shoe, drawn in the given
// order. The deal order is player, dealer up, player, dealer hole.
func stackNext(g *Game, codes ...string) {
	next := make([]cards.Card, len(codes))
	for i, code := range codes {
		next[i] = cards.MustParse(code)
	}
	g.shoe.stack(next...)
}

func TestScore(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		hand []string
		want int
	}{
		{"faces count ten", []string{"Kd", "Qh"}, 20},
		{"soft ace high", []string{"Ah", "6c"}, 17},
		{"ace demotes on bust", []string{"Ah", "6c", "9d"}, 16},
		{"two aces", []string{"Ah", "As"}, 12},
		{"blackjack", []string{"Ah", "Kc"}, 21},
		{"multiple demotions", []string{"Ah", "As", "9d", "Kc"}, 21},
		{"pips at face value", []string{"2h", "7c", "5d"}, 14},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hand := make([]cards.Card, len(tc.hand))
			for i, code := range tc.hand {
				hand[i] = cards.MustParse(code)
			}
			assert.Equal(t, tc.want, Score(hand))
		})
	}
}

func TestBetValidation(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 50)

	assert.ErrorIs(t, g.PlaceBet(100), ErrInsufficientFunds)
	assert.Error(t, g.PlaceBet(0))
	require.NoError(t, g.PlaceBet(30))
	assert.Equal(t, 20, g.Balance())
	assert.Equal(t, 30, g.PendingBet())

	require.NoError(t, g.ClearBet())
	assert.Equal(t, 50, g.Balance())

	assert.Error(t, g.Deal(), "dealing without a bet")
}

func TestNaturalPaysThreeToTwo(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "As", "9h", "Kd", "7c")

	require.NoError(t, g.Deal())

	assert.Equal(t, Settled, g.Phase())
	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Natural, g.Settlements()[0].Outcome)
	assert.Equal(t, 25, g.Settlements()[0].Returned)
	assert.Equal(t, 115, g.Balance())
	assert.Equal(t, 1, g.Stats().HandsWon)
	assert.Equal(t, 15, g.Stats().Net)
}

func TestDealerNaturalTakesTheHand(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "9h", "Kd", "7c", "As")

	require.NoError(t, g.Deal())

	assert.Equal(t, Settled, g.Phase())
	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Lost, g.Settlements()[0].Outcome)
	assert.Equal(t, 90, g.Balance())
}

func TestDoubleNaturalPushes(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "As", "Qh", "Kd", "Ac")

	require.NoError(t, g.Deal())

	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Push, g.Settlements()[0].Outcome)
	assert.Equal(t, 100, g.Balance())
}

func TestBustLosesWithoutDealerDraw(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "Kd", "5h", "Qh", "9c", "8s")

	require.NoError(t, g.Deal())
	require.NoError(t, g.Hit())

	assert.Equal(t, Settled, g.Phase())
	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Lost, g.Settlements()[0].Outcome)
	assert.Len(t, g.Dealer(), 2, "dealer does not draw into a dead round")
	assert.Equal(t, 90, g.Balance())
}

func TestDealerHitsToSeventeen(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "Th", "Td", "9h", "6c", "2s")

	require.NoError(t, g.Deal())
	require.NoError(t, g.Stand())

	// Dealer draws the deuce to 18 and loses to the 19.
	assert.Len(t, g.Dealer(), 3)
	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Won, g.Settlements()[0].Outcome)
	assert.Equal(t, 110, g.Balance())
}

func TestPushReturnsTheBet(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "Th", "Td", "9h", "9c")

	require.NoError(t, g.Deal())
	require.NoError(t, g.Stand())

	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Push, g.Settlements()[0].Outcome)
	assert.Equal(t, 100, g.Balance())
}

func TestDoubleDownDrawsOnceAndStands(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "5h", "Th", "6c", "8d", "Kd")

	require.NoError(t, g.Deal())
	require.NoError(t, g.DoubleDown())

	// Eleven doubled into the king makes 21 against the dealer's 18.
	hand := g.Hands()[0]
	assert.True(t, hand.DoubledDown)
	assert.Equal(t, 20, hand.Bet)
	assert.Len(t, hand.Cards, 3)
	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Won, g.Settlements()[0].Outcome)
	assert.Equal(t, 120, g.Balance())
}

func TestDoubleDownRequiresTwoCards(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "2h", "Th", "3c", "8d", "4s")

	require.NoError(t, g.Deal())
	require.NoError(t, g.Hit())
	assert.Error(t, g.DoubleDown())
}

func TestSplitPlaysBothHands(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "8s", "Th", "8h", "7c", "Kd", "Qs")

	require.NoError(t, g.Deal())
	require.NoError(t, g.Split())

	require.Len(t, g.Hands(), 2)
	assert.Equal(t, 18, g.Hands()[0].Score())
	assert.Equal(t, 18, g.Hands()[1].Score())
	assert.Equal(t, 80, g.Balance(), "the split hand is matched by a second stake")

	require.NoError(t, g.Stand())
	require.NoError(t, g.Stand())

	// Both eighteens beat the dealer's 17.
	require.Len(t, g.Settlements(), 2)
	assert.Equal(t, Won, g.Settlements()[0].Outcome)
	assert.Equal(t, Won, g.Settlements()[1].Outcome)
	assert.Equal(t, 120, g.Balance())
}

func TestSplitRequiresEqualRanks(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "Ks", "Th", "Qh", "7c")

	require.NoError(t, g.Deal())
	assert.Error(t, g.Split(), "a king and a queen are not a pair")
}

func TestSurrenderReturnsHalf(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "9h", "Th", "7c", "8d")

	require.NoError(t, g.Deal())
	require.NoError(t, g.Surrender())

	assert.Equal(t, Settled, g.Phase())
	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Surrendered, g.Settlements()[0].Outcome)
	assert.Equal(t, 5, g.Settlements()[0].Returned)
	assert.Equal(t, 95, g.Balance())
	assert.Len(t, g.Dealer(), 2)
}

func TestInsurancePaysOnDealerNatural(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "9h", "As", "7c", "Kd")

	require.NoError(t, g.Deal())
	require.Equal(t, PlayerTurn, g.Phase(), "an ace up does not reveal the hole card")
	require.True(t, g.CanInsure())

	hadNatural, err := g.BuyInsurance()
	require.NoError(t, err)

	assert.True(t, hadNatural)
	assert.Equal(t, Settled, g.Phase())
	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Lost, g.Settlements()[0].Outcome)
	// The hand's 10 is lost, the 5 side bet pays 2:1.
	assert.Equal(t, 100, g.Balance())
}

func TestInsuranceLostWhenDealerMisses(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "Th", "As", "9h", "7c")

	require.NoError(t, g.Deal())
	require.True(t, g.CanInsure())

	hadNatural, err := g.BuyInsurance()
	require.NoError(t, err)
	assert.False(t, hadNatural)
	assert.Equal(t, PlayerTurn, g.Phase())
	assert.Equal(t, 85, g.Balance())

	// Soft 18 stands pat; the 19 wins.
	require.NoError(t, g.Stand())
	require.Len(t, g.Settlements(), 1)
	assert.Equal(t, Won, g.Settlements()[0].Outcome)
	assert.Equal(t, 105, g.Balance())
}

func TestInsuranceIsOncePerRound(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "Th", "As", "9h", "7c")
	require.NoError(t, g.Deal())

	_, err := g.BuyInsurance()
	require.NoError(t, err)
	require.Equal(t, 85, g.Balance())

	// The lost side bet cannot be bought back in the same round.
	assert.False(t, g.CanInsure())
	_, err = g.BuyInsurance()
	assert.ErrorContains(t, err, "insurance is not available")
	assert.Equal(t, 85, g.Balance())
}

func TestNextRoundResets(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(10))
	stackNext(g, "9h", "Th", "7c", "8d")
	require.NoError(t, g.Deal())
	require.NoError(t, g.Surrender())

	require.NoError(t, g.NextRound())

	assert.Equal(t, Betting, g.Phase())
	assert.Empty(t, g.Hands())
	assert.Empty(t, g.Dealer())
	assert.Equal(t, 1, g.Stats().HandsPlayed, "statistics survive the reset")
}

func TestShoeReshufflesWhenEmpty(t *testing.T) {
	t.Parallel()
	shoe := NewShoe(1, randutil.New(4))
	require.Equal(t, 52, shoe.Remaining())

	seen := make(map[cards.Card]bool)
	for range 52 {
		c := shoe.Draw()
		require.False(t, seen[c], "card %s dealt twice from one deck", c)
		seen[c] = true
	}
	require.Zero(t, shoe.Remaining())

	// The next draw refills the shoe instead of failing.
	_ = shoe.Draw()
	assert.Equal(t, 51, shoe.Remaining())
}
