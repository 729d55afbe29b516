package poker

import (
	"errors"
	"fmt"
	"time"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/feltworks/casino/internal/cards"
)

// Table owns the full state of one poker session: seats, deck, pot and
// the betting state machine. It is a pure state-transition core; every
// mutation emits events for presentation layers, and the table itself
// never renders. It is exclusively owned by a single turn resolver and
// is not safe for concurrent use.
type Table struct {
	logger *log.Logger
	rng    *rand.Rand
	bus    EventBus

	players   []*Player
	deck      *cards.Deck
	community []cards.Card

	handID     string
	phase      Phase
	pot        int
	currentBet int
	smallBlind int
	bigBlind   int

	dealer     int
	sbSeat     int
	bbSeat     int
	active     int
	lastRaiser int
	acted      []bool
}

// TableOption configures a Table at construction.
type TableOption func(*Table)

// WithUniformChips gives every seat the same starting stack.
func WithUniformChips(chips int) TableOption {
	return func(t *Table) {
		for _, p := range t.players {
			p.Chips = chips
		}
	}
}

// WithChips sets individual starting stacks by seat order.
func WithChips(chips []int) TableOption {
	return func(t *Table) {
		for i, p := range t.players {
			if i < len(chips) {
				p.Chips = chips[i]
			}
		}
	}
}

// WithDeck supplies a prepared deck, usually for deterministic tests.
func WithDeck(deck *cards.Deck) TableOption {
	return func(t *Table) { t.deck = deck }
}

// WithEventBus attaches an existing bus instead of a private one.
func WithEventBus(bus EventBus) TableOption {
	return func(t *Table) { t.bus = bus }
}

// NewTable seats the named players with zero chips unless a chips option
// is supplied. The dealer button starts on the last seat so the first
// StartHand rotates it onto seat 0.
func NewTable(logger *log.Logger, rng *rand.Rand, names []string, smallBlind, bigBlind int, opts ...TableOption) (*Table, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(names))
	}
	if smallBlind <= 0 || bigBlind < smallBlind {
		return nil, fmt.Errorf("invalid blinds %d/%d", smallBlind, bigBlind)
	}

	t := &Table{
		logger:     logger.WithPrefix("table"),
		rng:        rng,
		phase:      Lobby,
		smallBlind: smallBlind,
		bigBlind:   bigBlind,
		dealer:     len(names) - 1,
		active:     -1,
		lastRaiser: -1,
	}
	for i, name := range names {
		t.players = append(t.players, NewPlayer(name, i, 0))
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.deck == nil {
		t.deck = cards.NewDeck(rng)
	}
	if t.bus == nil {
		t.bus = NewEventBus()
	}
	return t, nil
}

// Events returns the table's event bus for subscribing observers.
func (t *Table) Events() EventBus { return t.bus }

// Players returns the seats in table order.
func (t *Table) Players() []*Player { return t.players }

// Phase returns the current phase.
func (t *Table) Phase() Phase { return t.phase }

// Pot returns the current pot.
func (t *Table) Pot() int { return t.pot }

// CurrentBet returns the amount each actionable seat must match.
func (t *Table) CurrentBet() int { return t.currentBet }

// ActiveSeat returns the seat due to act, or -1 between hands.
func (t *Table) ActiveSeat() int { return t.active }

// Community returns the revealed community cards.
func (t *Table) Community() []cards.Card { return t.community }

// BigBlind returns the big blind amount.
func (t *Table) BigBlind() int { return t.bigBlind }

// HandID returns the identifier of the hand in progress.
func (t *Table) HandID() string { return t.handID }

// StartHand deals a new hand: resets the deck and seats, rotates the
// button by one seat, posts blinds through PlaceBet and deals two hole
// cards to every seat. The first action is on the seat after the big
// blind.
func (t *Table) StartHand() error {
	if t.phase != Lobby {
		return fmt.Errorf("hand already in progress (%s)", t.phase)
	}

	t.deck.Reset()
	t.community = nil
	t.pot = 0
	t.currentBet = 0
	t.lastRaiser = -1
	t.handID = uuid.NewString()
	t.acted = make([]bool, len(t.players))
	for _, p := range t.players {
		p.ResetHand()
	}

	n := len(t.players)
	t.dealer = (t.dealer + 1) % n
	t.sbSeat = (t.dealer + 1) % n
	t.bbSeat = (t.sbSeat + 1) % n

	t.pot += t.players[t.sbSeat].PlaceBet(t.smallBlind)
	t.pot += t.players[t.bbSeat].PlaceBet(t.bigBlind)
	t.currentBet = t.bigBlind

	for range 2 {
		for _, p := range t.players {
			c, err := t.deck.Draw()
			if err != nil {
				return fmt.Errorf("dealing hole cards: %w", err)
			}
			p.ReceiveCard(c)
		}
	}

	t.phase = Preflop
	t.active = t.nextActionable(t.bbSeat + 1)

	t.logger.Debug("hand started",
		"handID", t.handID, "dealer", t.dealer, "sb", t.sbSeat, "bb", t.bbSeat, "pot", t.pot)

	t.bus.Publish(HandStartEvent{
		HandID:     t.handID,
		SmallBlind: t.smallBlind,
		BigBlind:   t.bigBlind,
		Snapshot:   t.Snapshot(),
		timestamp:  time.Now(),
	})
	t.publishTurnStart()
	return nil
}

// Apply validates and applies an action for the given seat. Illegal
// actions return InvalidActionError and leave all state untouched.
func (t *Table) Apply(seat int, action Action, amount int) error {
	return t.apply(seat, action, amount, false)
}

// AutoAction resolves an expired turn: check when the seat already
// matches the current bet, fold otherwise. Expiry flows through the same
// transition path as voluntary actions.
func (t *Table) AutoAction(seat int) error {
	if seat < 0 || seat >= len(t.players) {
		return fmt.Errorf("no such seat %d", seat)
	}
	if t.players[seat].Bet >= t.currentBet {
		return t.apply(seat, Check, 0, true)
	}
	return t.apply(seat, Fold, 0, true)
}

func (t *Table) apply(seat int, action Action, amount int, auto bool) error {
	if seat < 0 || seat >= len(t.players) {
		return fmt.Errorf("no such seat %d", seat)
	}
	if !t.phase.Betting() {
		return invalidAction(action, "no betting in %s", t.phase)
	}
	if seat != t.active {
		return invalidAction(action, "not %s's turn", t.players[seat].Name)
	}

	p := t.players[seat]
	committed := 0

	switch action {
	case Check:
		if p.Bet < t.currentBet {
			return invalidAction(Check, "cannot check, must call %d", t.currentBet-p.Bet)
		}

	case Call:
		// A call with nothing owed is a check; the original UI offers
		// both buttons regardless.
		if toCall := t.currentBet - p.Bet; toCall > 0 {
			committed = p.PlaceBet(toCall)
			t.pot += committed
		}

	case Raise:
		minRaise := max(t.bigBlind, t.currentBet*2)
		if amount < minRaise {
			return invalidAction(Raise, "minimum raise is %d", minRaise)
		}
		committed = p.PlaceBet(amount - p.Bet)
		t.pot += committed
		// A short stack clamped below the standing bet has called for
		// everything it has; the bet to match never goes down and the
		// round does not reopen.
		if p.Bet > t.currentBet {
			t.currentBet = p.Bet
			t.lastRaiser = seat
			// A raise reopens the round for every other seat.
			for i := range t.acted {
				t.acted[i] = false
			}
		}

	case Fold:
		p.Fold()

	default:
		return invalidAction(action, "unknown action")
	}

	t.acted[seat] = true

	t.logger.Debug("action applied",
		"seat", seat, "player", p.Name, "action", action, "amount", committed,
		"pot", t.pot, "currentBet", t.currentBet, "auto", auto)

	t.bus.Publish(PlayerActionEvent{
		Seat:      seat,
		Name:      p.Name,
		Action:    action,
		Amount:    committed,
		Auto:      auto,
		Phase:     t.phase,
		PotAfter:  t.pot,
		Snapshot:  t.Snapshot(),
		timestamp: time.Now(),
	})

	return t.advance()
}

// advance moves the action pointer and closes the round when any closure
// condition holds: the pointer returns to the last raiser, all
// actionable seats have matched the current bet, or a single non-folded
// seat remains.
func (t *Table) advance() error {
	if t.remainingInHand() == 1 {
		t.finishByFold()
		return nil
	}

	next := t.nextActionable(t.active + 1)

	// Preflop the blinds are forced contributions, not actions, so a
	// round in which everyone matched the big blind closes without the
	// big blind getting a further option. With no outstanding bet the
	// round stays open until every actionable seat has acted.
	closed := t.allMatched() && (t.currentBet > 0 || t.allActed())

	if next == -1 || (t.lastRaiser != -1 && next == t.lastRaiser) || closed {
		return t.nextPhase()
	}

	t.active = next
	t.publishTurnStart()
	return nil
}

// nextPhase deals the community cards for the following phase and resets
// per-round contributions. Phases with fewer than two actionable seats
// run straight through to showdown.
func (t *Table) nextPhase() error {
	for _, p := range t.players {
		p.Bet = 0
	}
	t.currentBet = 0
	t.lastRaiser = -1
	t.active = -1
	t.acted = make([]bool, len(t.players))

	switch t.phase {
	case Preflop:
		t.phase = Flop
		if err := t.dealCommunity(3); err != nil {
			return err
		}
	case Flop:
		t.phase = Turn
		if err := t.dealCommunity(1); err != nil {
			return err
		}
	case Turn:
		t.phase = River
		if err := t.dealCommunity(1); err != nil {
			return err
		}
	case River:
		t.showdown()
		return nil
	default:
		return nil
	}

	t.bus.Publish(PhaseChangeEvent{
		Phase:     t.phase,
		Community: t.communityCopy(),
		Snapshot:  t.Snapshot(),
		timestamp: time.Now(),
	})

	// No betting possible with fewer than two actionable seats; run the
	// remaining streets out.
	if t.actionableCount() <= 1 {
		return t.nextPhase()
	}

	t.active = t.nextActionable(t.dealer + 1)
	t.publishTurnStart()
	return nil
}

func (t *Table) dealCommunity(n int) error {
	for range n {
		c, err := t.deck.Draw()
		if err != nil {
			return fmt.Errorf("dealing community cards: %w", err)
		}
		t.community = append(t.community, c)
	}
	return nil
}

// showdown awards the pot to the non-folded seat with the highest
// category. Category ties go to the first seat encountered in table
// order; the evaluator does not compare within a category.
func (t *Table) showdown() {
	t.phase = Showdown

	var winner *Player
	best := Category(0)
	for _, p := range t.players {
		if p.Folded {
			continue
		}
		cat := Evaluate(p.Hole, t.community)
		if winner == nil || cat > best {
			winner, best = p, cat
		}
	}

	amount := t.pot
	winner.Chips += amount
	t.pot = 0

	t.logger.Info("showdown",
		"handID", t.handID, "winner", winner.Name, "category", best, "pot", amount)

	snapshot := t.Snapshot()
	t.phase = Lobby
	t.active = -1

	t.bus.Publish(HandEndEvent{
		HandID: t.handID,
		Winner: WinnerInfo{
			Seat:     winner.Seat,
			Name:     winner.Name,
			Amount:   amount,
			Category: best,
		},
		Showdown:  true,
		Snapshot:  snapshot,
		timestamp: time.Now(),
	})
}

// finishByFold ends the hand immediately when one non-folded seat
// remains; no further community cards are dealt and there is no
// showdown.
func (t *Table) finishByFold() {
	var winner *Player
	for _, p := range t.players {
		if !p.Folded {
			winner = p
			break
		}
	}

	amount := t.pot
	winner.Chips += amount
	t.pot = 0

	t.logger.Info("hand won by fold",
		"handID", t.handID, "winner", winner.Name, "pot", amount)

	snapshot := t.Snapshot()
	t.phase = Lobby
	t.active = -1

	t.bus.Publish(HandEndEvent{
		HandID: t.handID,
		Winner: WinnerInfo{
			Seat:   winner.Seat,
			Name:   winner.Name,
			Amount: amount,
		},
		Showdown:  false,
		Snapshot:  snapshot,
		timestamp: time.Now(),
	})
}

func (t *Table) nextActionable(from int) int {
	n := len(t.players)
	for i := 0; i < n; i++ {
		seat := (from + i) % n
		if t.players[seat].Actionable() {
			return seat
		}
	}
	return -1
}

func (t *Table) actionableCount() int {
	count := 0
	for _, p := range t.players {
		if p.Actionable() {
			count++
		}
	}
	return count
}

func (t *Table) remainingInHand() int {
	count := 0
	for _, p := range t.players {
		if !p.Folded {
			count++
		}
	}
	return count
}

func (t *Table) allMatched() bool {
	for _, p := range t.players {
		if p.Actionable() && p.Bet < t.currentBet {
			return false
		}
	}
	return true
}

func (t *Table) allActed() bool {
	for i, p := range t.players {
		if p.Actionable() && !t.acted[i] {
			return false
		}
	}
	return true
}

func (t *Table) publishTurnStart() {
	if t.active < 0 {
		return
	}
	p := t.players[t.active]
	t.bus.Publish(TurnStartEvent{
		Seat:        t.active,
		Name:        p.Name,
		ToCall:      t.currentBet - p.Bet,
		TurnSeconds: p.TurnSeconds,
		Snapshot:    t.Snapshot(),
		timestamp:   time.Now(),
	})
}

func (t *Table) communityCopy() []cards.Card {
	out := make([]cards.Card, len(t.community))
	copy(out, t.community)
	return out
}

// Snapshot captures the observable table state for presentation layers.
func (t *Table) Snapshot() Snapshot {
	seats := make([]SeatState, len(t.players))
	for i, p := range t.players {
		hole := make([]cards.Card, len(p.Hole))
		copy(hole, p.Hole)
		seats[i] = SeatState{
			Name:        p.Name,
			Seat:        p.Seat,
			Chips:       p.Chips,
			Bet:         p.Bet,
			TotalBet:    p.TotalBet,
			Folded:      p.Folded,
			AllIn:       p.AllIn,
			Hole:        hole,
			TurnSeconds: p.TurnSeconds,
		}
	}
	return Snapshot{
		HandID:     t.handID,
		Phase:      t.phase,
		Pot:        t.pot,
		CurrentBet: t.currentBet,
		Dealer:     t.dealer,
		SmallBlind: t.sbSeat,
		BigBlind:   t.bbSeat,
		ActiveSeat: t.active,
		Community:  t.communityCopy(),
		Seats:      seats,
	}
}

// ValidateChipConservation checks the pot invariant: the pot equals the
// sum of every seat's total contribution for the hand.
func (t *Table) ValidateChipConservation() error {
	total := 0
	for _, p := range t.players {
		total += p.TotalBet
	}
	if t.phase != Lobby && total != t.pot {
		return errors.New("pot does not equal sum of contributions")
	}
	return nil
}
