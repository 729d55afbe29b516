// Package blackjack implements a single-seat blackjack table against a
// dealer who hits to 17: hand scoring with soft aces, splits, double
// downs, surrender, insurance and 3:2 naturals.
package blackjack

import (
	"errors"
	"fmt"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/feltworks/casino/internal/cards"
)

var ErrInsufficientFunds = errors.New("insufficient funds")

// Score values a hand: aces count 11 and demote to 1 one at a time
// while the total is over 21, faces count 10.
func Score(hand []cards.Card) int {
	score, aces := 0, 0
	for _, c := range hand {
		switch {
		case c.Rank == cards.Ace:
			aces++
			score += 11
		case c.Rank >= cards.Ten:
			score += 10
		default:
			score += int(c.Rank)
		}
	}
	for score > 21 && aces > 0 {
		score -= 10
		aces--
	}
	return score
}

// Hand is one of the player's hands; splitting creates more.
type Hand struct {
	Cards       []cards.Card
	Bet         int
	DoubledDown bool
	Surrendered bool
}

// Score values the hand.
func (h *Hand) Score() int { return Score(h.Cards) }

// IsBlackjack reports a two-card 21.
func (h *Hand) IsBlackjack() bool { return len(h.Cards) == 2 && h.Score() == 21 }

// IsBust reports a score over 21.
func (h *Hand) IsBust() bool { return h.Score() > 21 }

// CanSplit reports an unsplit pair of equal ranks.
func (h *Hand) CanSplit() bool {
	return len(h.Cards) == 2 && h.Cards[0].Rank == h.Cards[1].Rank
}

// Phase of the round.
type Phase int

const (
	Betting Phase = iota
	PlayerTurn
	DealerTurn
	Settled
)

func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case PlayerTurn:
		return "player turn"
	case DealerTurn:
		return "dealer turn"
	case Settled:
		return "settled"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Outcome of one settled hand.
type Outcome int

const (
	Lost Outcome = iota
	Won
	Push
	Natural // two-card 21, pays 3:2
	Surrendered
)

func (o Outcome) String() string {
	switch o {
	case Lost:
		return "loss"
	case Won:
		return "win"
	case Push:
		return "push"
	case Natural:
		return "blackjack"
	case Surrendered:
		return "surrender"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Settlement records the resolution of one hand.
type Settlement struct {
	Hand     int
	Outcome  Outcome
	Returned int // amount credited back to the balance
}

// Stats accumulates across rounds.
type Stats struct {
	HandsPlayed int
	HandsWon    int
	Net         int
}

// Game is one seat against the dealer.
type Game struct {
	logger  *log.Logger
	shoe    *Shoe
	balance int

	hands       []*Hand
	dealer      []cards.Card
	current     int
	phase       Phase
	pending     int
	insured     bool
	settlements []Settlement
	stats       Stats
}

const defaultDecks = 6

// NewGame seats a player with the given bankroll against a six-deck
// shoe.
func NewGame(logger *log.Logger, rng *rand.Rand, balance int) *Game {
	return &Game{
		logger:  logger.WithPrefix("blackjack"),
		shoe:    NewShoe(defaultDecks, rng),
		balance: balance,
		phase:   Betting,
	}
}

// Balance returns the bankroll, excluding staked bets.
func (g *Game) Balance() int { return g.balance }

// Phase returns the round phase.
func (g *Game) Phase() Phase { return g.phase }

// Hands returns the player's hands.
func (g *Game) Hands() []*Hand { return g.hands }

// CurrentHand returns the index of the hand in play.
func (g *Game) CurrentHand() int { return g.current }

// Dealer returns the dealer's cards. During the player's turn the
// second card is the hole card; hiding it is the presenter's job.
func (g *Game) Dealer() []cards.Card {
	out := make([]cards.Card, len(g.dealer))
	copy(out, g.dealer)
	return out
}

// Settlements returns the resolved hands of the current round.
func (g *Game) Settlements() []Settlement { return g.settlements }

// Stats returns the running statistics.
func (g *Game) Stats() Stats { return g.stats }

// PendingBet returns the bet built up before the deal.
func (g *Game) PendingBet() int { return g.pending }

// PlaceBet adds to the bet for the next deal.
func (g *Game) PlaceBet(amount int) error {
	if g.phase != Betting {
		return fmt.Errorf("bets are only placed before dealing (%s)", g.phase)
	}
	if amount <= 0 {
		return fmt.Errorf("bet amount must be positive, got %d", amount)
	}
	if amount > g.balance {
		return ErrInsufficientFunds
	}
	g.balance -= amount
	g.pending += amount
	return nil
}

// ClearBet refunds the pending bet.
func (g *Game) ClearBet() error {
	if g.phase != Betting {
		return fmt.Errorf("cannot clear bets after the deal (%s)", g.phase)
	}
	g.balance += g.pending
	g.pending = 0
	return nil
}

// Deal starts the round: two cards each, player first, then checks for
// naturals. A natural on either side settles the round immediately.
func (g *Game) Deal() error {
	if g.phase != Betting {
		return fmt.Errorf("round already dealt (%s)", g.phase)
	}
	if g.pending == 0 {
		return errors.New("place a bet first")
	}

	hand := &Hand{Bet: g.pending}
	g.pending = 0
	g.hands = []*Hand{hand}
	g.dealer = nil
	g.current = 0
	g.insured = false
	g.settlements = nil

	hand.Cards = append(hand.Cards, g.shoe.Draw())
	g.dealer = append(g.dealer, g.shoe.Draw())
	hand.Cards = append(hand.Cards, g.shoe.Draw())
	g.dealer = append(g.dealer, g.shoe.Draw())

	g.phase = PlayerTurn
	g.logger.Debug("dealt", "player", hand.Score(), "dealerUp", g.dealer[0])

	// With an ace up an unbeaten dealer natural stays hidden until
	// insurance is resolved or the dealer's turn reveals it.
	playerNatural := hand.IsBlackjack()
	dealerNatural := Score(g.dealer) == 21
	switch {
	case playerNatural && dealerNatural:
		g.settleAll(Push)
	case playerNatural:
		g.settleAll(Natural)
	case dealerNatural && g.dealer[0].Rank != cards.Ace:
		g.settleAll(Lost)
	}
	return nil
}

// settleAll resolves the single opening hand, for naturals and dealer
// blackjack on the deal.
func (g *Game) settleAll(outcome Outcome) {
	g.phase = Settled
	g.record(0, outcome)
}

// Hit draws a card for the hand in play. A bust or a completed double
// down moves on to the next hand.
func (g *Game) Hit() error {
	hand, err := g.playable()
	if err != nil {
		return err
	}
	hand.Cards = append(hand.Cards, g.shoe.Draw())
	if hand.IsBust() || hand.DoubledDown {
		g.nextHand()
	}
	return nil
}

// Stand finishes the hand in play.
func (g *Game) Stand() error {
	if _, err := g.playable(); err != nil {
		return err
	}
	g.nextHand()
	return nil
}

// DoubleDown doubles the bet on a two-card hand, draws exactly one more
// card and stands.
func (g *Game) DoubleDown() error {
	hand, err := g.playable()
	if err != nil {
		return err
	}
	if len(hand.Cards) != 2 {
		return errors.New("double down is only available on two cards")
	}
	if hand.Bet > g.balance {
		return ErrInsufficientFunds
	}
	g.balance -= hand.Bet
	hand.Bet *= 2
	hand.DoubledDown = true
	return g.Hit()
}

// Split turns an equal-rank pair into two hands, each matched by the
// original bet and dealt a second card.
func (g *Game) Split() error {
	hand, err := g.playable()
	if err != nil {
		return err
	}
	if !hand.CanSplit() {
		return errors.New("split requires a two-card pair of equal rank")
	}
	if hand.Bet > g.balance {
		return ErrInsufficientFunds
	}

	g.balance -= hand.Bet
	split := &Hand{Cards: []cards.Card{hand.Cards[1]}, Bet: hand.Bet}
	hand.Cards = hand.Cards[:1]

	g.hands = append(g.hands, nil)
	copy(g.hands[g.current+2:], g.hands[g.current+1:])
	g.hands[g.current+1] = split

	hand.Cards = append(hand.Cards, g.shoe.Draw())
	split.Cards = append(split.Cards, g.shoe.Draw())
	return nil
}

// Surrender gives up a two-card hand for half the stake back.
func (g *Game) Surrender() error {
	hand, err := g.playable()
	if err != nil {
		return err
	}
	if len(hand.Cards) != 2 {
		return errors.New("surrender is only available on the first action")
	}
	hand.Surrendered = true
	g.balance += hand.Bet / 2
	g.nextHand()
	return nil
}

// CanInsure reports whether insurance is on offer: dealer shows an ace,
// the side bet has not been bought this round, and half the opening bet
// is affordable.
func (g *Game) CanInsure() bool {
	return g.phase == PlayerTurn &&
		len(g.dealer) > 0 && g.dealer[0].Rank == cards.Ace &&
		!g.insured &&
		g.balance >= g.hands[0].Bet/2
}

// BuyInsurance stakes half the opening bet on the dealer holding a
// natural. It resolves immediately: a dealer blackjack pays the side
// bet 2:1 and loses the hand, otherwise the side bet is gone and play
// continues. One purchase per round.
func (g *Game) BuyInsurance() (bool, error) {
	if !g.CanInsure() {
		return false, errors.New("insurance is not available")
	}
	stake := g.hands[0].Bet / 2
	g.balance -= stake
	g.insured = true

	if Score(g.dealer) == 21 {
		g.balance += stake * 3
		g.settleAll(Lost)
		return true, nil
	}
	return false, nil
}

func (g *Game) playable() (*Hand, error) {
	if g.phase != PlayerTurn {
		return nil, fmt.Errorf("no hand in play (%s)", g.phase)
	}
	return g.hands[g.current], nil
}

func (g *Game) nextHand() {
	g.current++
	if g.current >= len(g.hands) {
		g.dealerPlay()
	}
}

// dealerPlay draws the dealer to 17 and settles every hand. The dealer
// only draws when at least one hand is still live.
func (g *Game) dealerPlay() {
	g.phase = DealerTurn

	live := false
	for _, h := range g.hands {
		if !h.Surrendered && !h.IsBust() {
			live = true
			break
		}
	}
	if live {
		for Score(g.dealer) < 17 {
			g.dealer = append(g.dealer, g.shoe.Draw())
		}
	}

	dealerScore := Score(g.dealer)
	g.phase = Settled
	for i, h := range g.hands {
		switch {
		case h.Surrendered:
			g.record(i, Surrendered)
		case h.IsBust():
			g.record(i, Lost)
		case dealerScore > 21:
			g.record(i, Won)
		case h.Score() > dealerScore:
			g.record(i, Won)
		case h.Score() < dealerScore:
			g.record(i, Lost)
		default:
			g.record(i, Push)
		}
	}
}

// record settles one hand: credits the balance and updates statistics.
func (g *Game) record(index int, outcome Outcome) {
	hand := g.hands[index]
	returned := 0
	switch outcome {
	case Won:
		returned = hand.Bet * 2
		g.balance += returned
		g.stats.HandsWon++
		g.stats.Net += hand.Bet
	case Natural:
		returned = hand.Bet * 5 / 2
		g.balance += returned
		g.stats.HandsWon++
		g.stats.Net += returned - hand.Bet
	case Push:
		returned = hand.Bet
		g.balance += returned
	case Surrendered:
		// Half the stake was credited when the hand surrendered.
		returned = hand.Bet / 2
		g.stats.Net -= hand.Bet - returned
	case Lost:
		g.stats.Net -= hand.Bet
	}
	g.stats.HandsPlayed++
	g.settlements = append(g.settlements, Settlement{Hand: index, Outcome: outcome, Returned: returned})

	g.logger.Info("hand settled", "hand", index, "outcome", outcome, "returned", returned)
}

// NextRound returns to the betting phase.
func (g *Game) NextRound() error {
	if g.phase != Settled {
		return fmt.Errorf("round still in progress (%s)", g.phase)
	}
	g.phase = Betting
	g.hands = nil
	g.dealer = nil
	g.current = 0
	g.settlements = nil
	return nil
}
