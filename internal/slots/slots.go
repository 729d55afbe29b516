// Package slots implements a three-reel, three-row slot machine with
// weighted symbols, 1-3 row paylines, wild substitution and
// scatter-triggered free spins. Spin outcomes are pure functions of the
// injected RNG so the paytable math is testable.
package slots

import (
	"errors"
	"fmt"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
)

var (
	ErrNoBet             = errors.New("no bet placed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrFreeSpinsActive   = errors.New("bets are locked during free spins")
)

// Symbol on a reel.
type Symbol int

const (
	Rocket Symbol = iota
	Star
	Moon
	Planet
	Alien
	Saucer
	Wild
	Scatter
)

func (s Symbol) String() string {
	switch s {
	case Rocket:
		return "rocket"
	case Star:
		return "star"
	case Moon:
		return "moon"
	case Planet:
		return "planet"
	case Alien:
		return "alien"
	case Saucer:
		return "saucer"
	case Wild:
		return "wild"
	case Scatter:
		return "scatter"
	}
	return fmt.Sprintf("Symbol(%d)", int(s))
}

// payTable is the three-of-a-kind multiplier per symbol.
var payTable = [...]int{
	Rocket:  2,
	Star:    3,
	Moon:    4,
	Planet:  5,
	Alien:   7,
	Saucer:  9,
	Wild:    12,
	Scatter: 15,
}

// regularSymbols excludes wild and scatter, which are drawn by weight.
var regularSymbols = []Symbol{Rocket, Star, Moon, Planet, Alien, Saucer}

const (
	scatterWeight = 0.01
	wildWeight    = 0.02

	gridSize = 3
	maxLines = 3

	freeSpinCount      = 10
	freeSpinMultiplier = 2
)

// Grid is the spun symbol layout, indexed [column][row].
type Grid [gridSize][gridSize]Symbol

// Line returns the row of symbols on the given payline.
func (g Grid) Line(row int) [gridSize]Symbol {
	return [gridSize]Symbol{g[0][row], g[1][row], g[2][row]}
}

// LineWin is one winning payline.
type LineWin struct {
	Line   int
	Symbol Symbol // the paying symbol after wild substitution
	Amount int
}

// Result of one spin.
type Result struct {
	Grid             Grid
	Lines            []LineWin
	TotalWin         int
	Scatters         int
	FreeSpinsAwarded int
	FreeSpinsLeft    int
	FreeSpin         bool // this spin consumed a free spin
}

// Machine is one player's slot machine.
type Machine struct {
	logger *log.Logger
	rng    *rand.Rand

	balance    int
	bet        int
	lines      int
	freeSpins  int
	multiplier int
	winStreak  int
}

// NewMachine creates a machine with the given bankroll and one active
// payline.
func NewMachine(logger *log.Logger, rng *rand.Rand, balance int) *Machine {
	return &Machine{
		logger:     logger.WithPrefix("slots"),
		rng:        rng,
		balance:    balance,
		lines:      1,
		multiplier: 1,
	}
}

// Balance returns the bankroll, excluding the staked bet.
func (m *Machine) Balance() int { return m.balance }

// Bet returns the staked bet.
func (m *Machine) Bet() int { return m.bet }

// Lines returns the number of active paylines.
func (m *Machine) Lines() int { return m.lines }

// FreeSpins returns the remaining free spins.
func (m *Machine) FreeSpins() int { return m.freeSpins }

// WinStreak returns the current run of winning spins.
func (m *Machine) WinStreak() int { return m.winStreak }

// PlaceBet adds to the stake for the next spin.
func (m *Machine) PlaceBet(amount int) error {
	if m.freeSpins > 0 {
		return ErrFreeSpinsActive
	}
	if amount <= 0 {
		return fmt.Errorf("bet amount must be positive, got %d", amount)
	}
	if amount > m.balance {
		return ErrInsufficientFunds
	}
	m.balance -= amount
	m.bet += amount
	return nil
}

// ClearBet refunds the stake.
func (m *Machine) ClearBet() error {
	if m.freeSpins > 0 {
		return ErrFreeSpinsActive
	}
	m.balance += m.bet
	m.bet = 0
	return nil
}

// SetLines activates 1 to 3 paylines. Changing lines refunds the
// current stake, since the bet is divided across lines.
func (m *Machine) SetLines(n int) error {
	if n < 1 || n > maxLines {
		return fmt.Errorf("paylines must be 1-%d, got %d", maxLines, n)
	}
	if err := m.ClearBet(); err != nil {
		return err
	}
	m.lines = n
	return nil
}

// drawSymbol picks one symbol: scatter and wild by fixed weight, the
// rest uniform.
func (m *Machine) drawSymbol() Symbol {
	r := m.rng.Float64()
	switch {
	case r < scatterWeight:
		return Scatter
	case r < scatterWeight+wildWeight:
		return Wild
	default:
		return regularSymbols[m.rng.IntN(len(regularSymbols))]
	}
}

// Spin runs one spin: a staked bet or a remaining free spin is
// required. Wins are credited to the balance; a paid spin's stake is
// consumed unless it triggered free spins, in which case it carries
// through them.
func (m *Machine) Spin() (Result, error) {
	free := m.freeSpins > 0
	if !free && m.bet == 0 {
		return Result{}, ErrNoBet
	}

	var grid Grid
	for col := range grid {
		for row := range grid[col] {
			grid[col][row] = m.drawSymbol()
		}
	}
	return m.settle(grid, free), nil
}

// settle evaluates a spun grid against the active paylines and applies
// the outcome.
func (m *Machine) settle(grid Grid, free bool) Result {
	result := Result{Grid: grid, FreeSpin: free}
	for line := range m.lines {
		win := m.lineWin(grid.Line(line))
		if win > 0 {
			symbol := lineSymbol(grid.Line(line))
			result.Lines = append(result.Lines, LineWin{Line: line, Symbol: symbol, Amount: win})
			result.TotalWin += win
		}
	}

	for col := range grid {
		for row := range grid[col] {
			if grid[col][row] == Scatter {
				result.Scatters++
			}
		}
	}
	if result.Scatters >= 3 {
		m.freeSpins += freeSpinCount
		m.multiplier = freeSpinMultiplier
		result.FreeSpinsAwarded = freeSpinCount
	}

	m.balance += result.TotalWin
	if result.TotalWin > 0 {
		m.winStreak++
	} else {
		m.winStreak = 0
	}

	// A spin that triggers free spins keeps its stake: the free spins
	// are evaluated against it.
	if free {
		m.freeSpins--
		if m.freeSpins == 0 {
			m.multiplier = 1
			m.bet = 0
		}
	} else if result.FreeSpinsAwarded == 0 {
		m.bet = 0
	}
	result.FreeSpinsLeft = m.freeSpins

	m.logger.Debug("spin",
		"win", result.TotalWin, "scatters", result.Scatters,
		"freeSpinsLeft", m.freeSpins, "balance", m.balance)
	return result
}

// lineWin scores one payline: three of a kind pays the full table
// value, a pair on the left or right pays half the middle symbol's
// value. Wilds substitute for whichever symbol pays best.
func (m *Machine) lineWin(line [gridSize]Symbol) int {
	if hasWild(line) {
		best := 0
		for _, sym := range regularSymbols {
			if w := m.plainLineWin(substitute(line, sym)); w > best {
				best = w
			}
		}
		return best
	}
	return m.plainLineWin(line)
}

func (m *Machine) plainLineWin(line [gridSize]Symbol) int {
	switch {
	case line[0] == line[1] && line[1] == line[2]:
		return m.bet * payTable[line[0]] * m.multiplier / m.lines
	case line[0] == line[1] || line[1] == line[2]:
		return m.bet * (payTable[line[1]] / 2) * m.multiplier / m.lines
	default:
		return 0
	}
}

func hasWild(line [gridSize]Symbol) bool {
	for _, s := range line {
		if s == Wild {
			return true
		}
	}
	return false
}

func substitute(line [gridSize]Symbol, sym Symbol) [gridSize]Symbol {
	for i, s := range line {
		if s == Wild {
			line[i] = sym
		}
	}
	return line
}

// lineSymbol names the paying symbol of a winning line: the middle
// symbol unless it is wild, then the best substitution.
func lineSymbol(line [gridSize]Symbol) Symbol {
	if line[1] != Wild {
		return line[1]
	}
	for _, s := range line {
		if s != Wild && s != Scatter {
			return s
		}
	}
	return Saucer
}

// PayTable returns the three-of-a-kind multiplier for a symbol.
func PayTable(s Symbol) int { return payTable[s] }
