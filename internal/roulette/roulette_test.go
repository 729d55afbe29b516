package roulette

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltworks/casino/internal/randutil"
)

func newTestGame(t *testing.T, balance int) *Game {
	t.Helper()
	return NewGame(log.New(io.Discard), randutil.New(9), balance)
}

// resolveAt replays spins until the wheel lands on the wanted pocket,
// refunding between attempts so only the final book settles.
func resolveAt(t *testing.T, g *Game, want int, place func()) Result {
	t.Helper()
	for range 10000 {
		place()
		n, err := g.Spin()
		require.NoError(t, err)
		if n != want {
			g.spinning = -1
			require.NoError(t, g.ClearBets())
			continue
		}
		result, err := g.Resolve()
		require.NoError(t, err)
		return result
	}
	t.Fatalf("wheel never landed on %d", want)
	return Result{}
}

func TestColorOf(t *testing.T) {
	t.Parallel()
	assert.Equal(t, Green, ColorOf(0))
	assert.Equal(t, RedPocket, ColorOf(1))
	assert.Equal(t, BlackPocket, ColorOf(2))
	assert.Equal(t, RedPocket, ColorOf(36))
	assert.Equal(t, BlackPocket, ColorOf(35))
}

func TestPlaceBetMovesBalanceToBook(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)

	require.NoError(t, g.PlaceBet(Bet{Kind: Red}, 25))
	require.NoError(t, g.PlaceBet(Bet{Kind: Red}, 25))
	require.NoError(t, g.PlaceBet(Bet{Kind: Straight, Number: 17}, 10))

	assert.Equal(t, 40, g.Balance())
	assert.Equal(t, 60, g.Staked())
	assert.Equal(t, 50, g.Bets()[Bet{Kind: Red}], "stakes on the same spot accumulate")
}

func TestPlaceBetValidation(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 10)

	assert.ErrorIs(t, g.PlaceBet(Bet{Kind: Black}, 25), ErrInsufficientFunds)
	assert.Error(t, g.PlaceBet(Bet{Kind: Straight, Number: 37}, 5))
	assert.Error(t, g.PlaceBet(Bet{Kind: Black}, 0))
	assert.Equal(t, 10, g.Balance(), "rejected bets leave the balance alone")
}

func TestClearBetsRefunds(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(Bet{Kind: Odd}, 40))

	require.NoError(t, g.ClearBets())

	assert.Equal(t, 100, g.Balance())
	assert.Zero(t, g.Staked())
	assert.Empty(t, g.Bets())
}

func TestSpinRequiresBets(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	_, err := g.Spin()
	assert.ErrorIs(t, err, ErrNoBets)
}

func TestBetsLockedWhileSpinning(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)
	require.NoError(t, g.PlaceBet(Bet{Kind: Red}, 10))
	_, err := g.Spin()
	require.NoError(t, err)

	assert.ErrorIs(t, g.PlaceBet(Bet{Kind: Black}, 10), ErrSpinInProgress)
	assert.ErrorIs(t, g.ClearBets(), ErrSpinInProgress)
	_, err = g.Spin()
	assert.ErrorIs(t, err, ErrSpinInProgress)

	_, err = g.Resolve()
	require.NoError(t, err)
}

func TestStraightPays35To1(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 1000)

	result := resolveAt(t, g, 17, func() {
		require.NoError(t, g.PlaceBet(Bet{Kind: Straight, Number: 17}, 10))
	})

	require.Len(t, result.Winners, 1)
	assert.Equal(t, 360, result.Winners[0].Payout, "35 to 1 plus the stake back")
	assert.Equal(t, 1350, g.Balance())
}

func TestEvenMoneyAndDozenPayouts(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 1000)

	// 14 is red, even, low, in the second dozen and the second column.
	result := resolveAt(t, g, 14, func() {
		require.NoError(t, g.PlaceBet(Bet{Kind: Red}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: Even}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: Low}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: SecondDozen}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: SecondColumn}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: Black}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: High}, 10))
	})

	// Three even-money winners pay 20 each, dozen and column pay 30 each,
	// black and high lose their stakes.
	assert.Len(t, result.Winners, 5)
	assert.Equal(t, 120, result.Paid)
	assert.Equal(t, 1050, g.Balance())
}

func TestZeroLosesOutsideBets(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 1000)

	result := resolveAt(t, g, 0, func() {
		require.NoError(t, g.PlaceBet(Bet{Kind: Even}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: Low}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: ThirdColumn}, 10))
		require.NoError(t, g.PlaceBet(Bet{Kind: Red}, 10))
	})

	// Zero is not even, not in any range, column or color.
	assert.Empty(t, result.Winners)
	assert.Zero(t, result.Paid)
	assert.Equal(t, 960, g.Balance())
}

func TestZeroStraightStillPays(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100)

	result := resolveAt(t, g, 0, func() {
		require.NoError(t, g.PlaceBet(Bet{Kind: Straight, Number: 0}, 1))
	})

	require.Len(t, result.Winners, 1)
	assert.Equal(t, 36, result.Winners[0].Payout)
}

func TestColumnMembership(t *testing.T) {
	t.Parallel()
	cases := []struct {
		kind   BetKind
		member int
	}{
		{FirstColumn, 1},
		{FirstColumn, 34},
		{SecondColumn, 2},
		{SecondColumn, 35},
		{ThirdColumn, 3},
		{ThirdColumn, 36},
	}
	for _, tc := range cases {
		assert.True(t, tc.kind.wins(0, tc.member), "%s should cover %d", tc.kind, tc.member)
	}
	assert.False(t, ThirdColumn.wins(0, 0))
}

func TestRecentNumbersKeepLastTen(t *testing.T) {
	t.Parallel()
	g := newTestGame(t, 100000)

	for range 12 {
		require.NoError(t, g.PlaceBet(Bet{Kind: Red}, 1))
		_, err := g.Spin()
		require.NoError(t, err)
		_, err = g.Resolve()
		require.NoError(t, err)
	}

	recent := g.Recent()
	assert.Len(t, recent, 10)
}

func TestWheelOrderHasAllPockets(t *testing.T) {
	t.Parallel()
	order := WheelOrder()
	require.Len(t, order, 37)
	seen := make(map[int]bool)
	for _, n := range order {
		require.False(t, seen[n])
		seen[n] = true
		require.GreaterOrEqual(t, n, 0)
		require.LessOrEqual(t, n, 36)
	}
}
