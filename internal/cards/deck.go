package cards

import (
	"errors"

	rand "math/rand/v2"
)

// ErrEmptyDeck is returned by Draw when all 52 cards have been dealt.
// The deck must be Reset before any further draws.
var ErrEmptyDeck = errors.New("deck is empty: reset before drawing")

// Deck is a standard 52-card deck owned by a single hand in progress.
// It is not safe for concurrent use.
type Deck struct {
	cards   [52]Card
	next    int
	rng     *rand.Rand
	stacked []Card
}

// NewDeck creates a shuffled deck. The RNG is required so callers control
// determinism; there is no ambient randomness.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	d.Reset()
	return d
}

// NewStacked creates a deck that deals the given cards first, in order,
// followed by the rest of the pack in canonical order. Reset restores
// the scripted order instead of shuffling. Intended for tests.
func NewStacked(first ...Card) *Deck {
	d := &Deck{stacked: first}
	d.Reset()
	return d
}

// Reset repopulates the deck with all 52 distinct cards and reshuffles
// (or restores the scripted order for a stacked deck).
func (d *Deck) Reset() {
	if len(d.stacked) > 0 {
		d.next = 0
		used := make(map[Card]bool, len(d.stacked))
		i := 0
		for _, c := range d.stacked {
			d.cards[i] = c
			used[c] = true
			i++
		}
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Two; rank <= Ace; rank++ {
				c := Card{Rank: rank, Suit: suit}
				if !used[c] {
					d.cards[i] = c
					i++
				}
			}
		}
		return
	}

	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = Card{Rank: rank, Suit: suit}
			i++
		}
	}
	d.shuffle()
}

// shuffle performs a Fisher-Yates shuffle and rewinds the deal position.
func (d *Deck) shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Draw removes and returns the next card. It returns ErrEmptyDeck once all
// 52 cards have been dealt in this deck lifetime.
func (d *Deck) Draw() (Card, error) {
	if d.next >= len(d.cards) {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[d.next]
	d.next++
	return c, nil
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
