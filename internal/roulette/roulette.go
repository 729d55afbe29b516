// Package roulette implements the European single-zero wheel: a bet
// book, spin resolution and the payout table. The core is pure; wheel
// animation and chip rendering belong to presentation layers.
package roulette

import (
	"errors"
	"fmt"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
)

var (
	ErrSpinInProgress    = errors.New("wheel is spinning: bets are locked")
	ErrNoBets            = errors.New("no bets placed")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// wheelOrder is the physical layout of a European wheel, clockwise from
// zero. Resolution only needs the set of pockets, but the order is part
// of the table's presentation contract.
var wheelOrder = []int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23,
	10, 5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

// WheelOrder returns the pocket layout clockwise from zero.
func WheelOrder() []int {
	out := make([]int, len(wheelOrder))
	copy(out, wheelOrder)
	return out
}

// Color of a pocket.
type Color int

const (
	Green Color = iota
	RedPocket
	BlackPocket
)

func (c Color) String() string {
	switch c {
	case Green:
		return "green"
	case RedPocket:
		return "red"
	case BlackPocket:
		return "black"
	}
	return fmt.Sprintf("Color(%d)", int(c))
}

var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true,
	16: true, 18: true, 19: true, 21: true, 23: true, 25: true, 27: true,
	30: true, 32: true, 34: true, 36: true,
}

// ColorOf returns the pocket color for a number.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return Green
	case redNumbers[n]:
		return RedPocket
	default:
		return BlackPocket
	}
}

// BetKind is one of the board's bet types.
type BetKind int

const (
	Straight BetKind = iota
	Red
	Black
	Even
	Odd
	Low
	High
	FirstDozen
	SecondDozen
	ThirdDozen
	FirstColumn
	SecondColumn
	ThirdColumn
)

func (k BetKind) String() string {
	switch k {
	case Straight:
		return "straight"
	case Red:
		return "red"
	case Black:
		return "black"
	case Even:
		return "even"
	case Odd:
		return "odd"
	case Low:
		return "1-18"
	case High:
		return "19-36"
	case FirstDozen:
		return "1st 12"
	case SecondDozen:
		return "2nd 12"
	case ThirdDozen:
		return "3rd 12"
	case FirstColumn:
		return "column 1"
	case SecondColumn:
		return "column 2"
	case ThirdColumn:
		return "column 3"
	}
	return fmt.Sprintf("BetKind(%d)", int(k))
}

// Multiplier is the payout odds for the kind: winnings are
// stake * multiplier, paid on top of the returned stake.
func (k BetKind) Multiplier() int {
	switch k {
	case Straight:
		return 35
	case FirstDozen, SecondDozen, ThirdDozen, FirstColumn, SecondColumn, ThirdColumn:
		return 2
	default:
		return 1
	}
}

// wins reports whether the kind covers the winning number.
func (k BetKind) wins(number, winning int) bool {
	switch k {
	case Straight:
		return number == winning
	case Red:
		return ColorOf(winning) == RedPocket
	case Black:
		return ColorOf(winning) == BlackPocket
	case Even:
		return winning != 0 && winning%2 == 0
	case Odd:
		return winning%2 == 1
	case Low:
		return winning >= 1 && winning <= 18
	case High:
		return winning >= 19 && winning <= 36
	case FirstDozen:
		return winning >= 1 && winning <= 12
	case SecondDozen:
		return winning >= 13 && winning <= 24
	case ThirdDozen:
		return winning >= 25 && winning <= 36
	case FirstColumn:
		return winning%3 == 1
	case SecondColumn:
		return winning%3 == 2
	case ThirdColumn:
		return winning != 0 && winning%3 == 0
	}
	return false
}

// Bet is one spot on the board. Number is only meaningful for Straight.
type Bet struct {
	Kind   BetKind
	Number int
}

func (b Bet) String() string {
	if b.Kind == Straight {
		return fmt.Sprintf("straight %d", b.Number)
	}
	return b.Kind.String()
}

// WinningBet is one resolved winning spot.
type WinningBet struct {
	Bet    Bet
	Stake  int
	Payout int // stake plus winnings
}

// Result of one resolved spin.
type Result struct {
	Number  int
	Color   Color
	Staked  int
	Paid    int // total returned to the balance, stakes included
	Winners []WinningBet
}

// Game is one player's roulette table.
type Game struct {
	logger   *log.Logger
	rng      *rand.Rand
	balance  int
	book     map[Bet]int
	staked   int
	spinning int // winning pocket while the wheel is live, -1 otherwise
	recent   []int
}

const recentLimit = 10

// NewGame creates a table with the given bankroll.
func NewGame(logger *log.Logger, rng *rand.Rand, balance int) *Game {
	return &Game{
		logger:   logger.WithPrefix("roulette"),
		rng:      rng,
		balance:  balance,
		book:     make(map[Bet]int),
		spinning: -1,
	}
}

// Balance returns the player's bankroll, excluding staked bets.
func (g *Game) Balance() int { return g.balance }

// Staked returns the total amount currently on the board.
func (g *Game) Staked() int { return g.staked }

// Bets returns a copy of the bet book.
func (g *Game) Bets() map[Bet]int {
	out := make(map[Bet]int, len(g.book))
	for b, amount := range g.book {
		out[b] = amount
	}
	return out
}

// Recent returns the last winning numbers, newest first.
func (g *Game) Recent() []int {
	out := make([]int, len(g.recent))
	copy(out, g.recent)
	return out
}

// Spinning reports whether a spin is awaiting resolution.
func (g *Game) Spinning() bool { return g.spinning >= 0 }

// PlaceBet stakes an amount on a spot. Stakes on the same spot
// accumulate.
func (g *Game) PlaceBet(bet Bet, amount int) error {
	if g.Spinning() {
		return ErrSpinInProgress
	}
	if amount <= 0 {
		return fmt.Errorf("bet amount must be positive, got %d", amount)
	}
	if bet.Kind == Straight && (bet.Number < 0 || bet.Number > 36) {
		return fmt.Errorf("straight bet number %d out of range", bet.Number)
	}
	if amount > g.balance {
		return ErrInsufficientFunds
	}

	g.book[bet] += amount
	g.balance -= amount
	g.staked += amount

	g.logger.Debug("bet placed", "bet", bet, "amount", amount, "staked", g.staked)
	return nil
}

// ClearBets refunds every staked bet.
func (g *Game) ClearBets() error {
	if g.Spinning() {
		return ErrSpinInProgress
	}
	g.balance += g.staked
	g.staked = 0
	g.book = make(map[Bet]int)
	return nil
}

// Spin locks the book and picks the winning pocket. The result is
// returned so presentation can animate toward it; call Resolve to
// settle the book.
func (g *Game) Spin() (int, error) {
	if g.Spinning() {
		return 0, ErrSpinInProgress
	}
	if g.staked == 0 {
		return 0, ErrNoBets
	}
	g.spinning = wheelOrder[g.rng.IntN(len(wheelOrder))]
	return g.spinning, nil
}

// Resolve settles the book against the spun pocket: winning bets pay
// stake times the kind's odds plus the stake back, losing stakes are
// gone, and the book is cleared.
func (g *Game) Resolve() (Result, error) {
	if !g.Spinning() {
		return Result{}, errors.New("no spin to resolve")
	}
	winning := g.spinning
	g.spinning = -1

	result := Result{
		Number: winning,
		Color:  ColorOf(winning),
		Staked: g.staked,
	}
	for bet, stake := range g.book {
		if !bet.Kind.wins(bet.Number, winning) {
			continue
		}
		payout := stake + stake*bet.Kind.Multiplier()
		result.Winners = append(result.Winners, WinningBet{Bet: bet, Stake: stake, Payout: payout})
		result.Paid += payout
	}

	g.balance += result.Paid
	g.staked = 0
	g.book = make(map[Bet]int)

	g.recent = append([]int{winning}, g.recent...)
	if len(g.recent) > recentLimit {
		g.recent = g.recent[:recentLimit]
	}

	g.logger.Info("spin resolved",
		"number", winning, "color", result.Color, "staked", result.Staked, "paid", result.Paid)
	return result, nil
}
