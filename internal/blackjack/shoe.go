package blackjack

import (
	rand "math/rand/v2"

	"github.com/feltworks/casino/internal/cards"
)

// Shoe is a multi-deck dealing shoe. Unlike a poker deck it never runs
// dry: drawing from an exhausted shoe reshuffles all the decks back in.
type Shoe struct {
	rng   *rand.Rand
	decks int
	cards []cards.Card
}

// NewShoe builds a shuffled shoe of the given number of 52-card decks.
func NewShoe(decks int, rng *rand.Rand) *Shoe {
	if decks < 1 {
		decks = 1
	}
	s := &Shoe{rng: rng, decks: decks}
	s.refill()
	return s
}

func (s *Shoe) refill() {
	s.cards = s.cards[:0]
	for range s.decks {
		for suit := cards.Spades; suit <= cards.Clubs; suit++ {
			for rank := cards.Two; rank <= cards.Ace; rank++ {
				s.cards = append(s.cards, cards.Card{Rank: rank, Suit: suit})
			}
		}
	}
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
	// Cut the shoe near the middle.
	cut := len(s.cards)/2 + s.rng.IntN(20) - 10
	s.cards = append(s.cards[cut:], s.cards[:cut]...)
}

// Draw deals the next card, reshuffling first if the shoe is empty.
func (s *Shoe) Draw() cards.Card {
	if len(s.cards) == 0 {
		s.refill()
	}
	c := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	return c
}

// Remaining returns the number of undealt cards.
func (s *Shoe) Remaining() int { return len(s.cards) }

// stack places prepared cards on top of the shoe, next-drawn first.
// Test hook for scripted deals.
func (s *Shoe) stack(next ...cards.Card) {
	for i := len(next) - 1; i >= 0; i-- {
		s.cards = append(s.cards, next[i])
	}
}
