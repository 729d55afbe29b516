package poker

import "github.com/feltworks/casino/internal/cards"

// Category is the strength class of a hand, ascending from HighCard.
// The evaluator ranks by category only; it does not produce kicker-level
// comparisons within a category.
type Category int

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Evaluate ranks the pool of hole plus community cards. Evaluation is
// category-only: two flushes compare equal regardless of their cards.
func Evaluate(hole, community []cards.Card) Category {
	pool := make([]cards.Card, 0, len(hole)+len(community))
	pool = append(pool, hole...)
	pool = append(pool, community...)

	var rankCounts [15]int // indexed by Rank (2..14)
	var suitCounts [4]int
	for _, c := range pool {
		rankCounts[c.Rank]++
		suitCounts[c.Suit]++
	}

	flushSuit := cards.Suit(-1)
	for s, n := range suitCounts {
		if n >= 5 {
			flushSuit = cards.Suit(s)
			break
		}
	}

	// A straight flush must be five consecutive ranks within the flush
	// suit, not merely a straight and a flush existing side by side.
	if flushSuit >= 0 {
		var suited [15]int
		for _, c := range pool {
			if c.Suit == flushSuit {
				suited[c.Rank]++
			}
		}
		if high, ok := straightHigh(rankSet(suited)); ok {
			if high == cards.Ace {
				return RoyalFlush
			}
			return StraightFlush
		}
	}

	_, straight := straightHigh(rankSet(rankCounts))

	pairs, trips, quads := 0, 0, 0
	for r := cards.Two; r <= cards.Ace; r++ {
		switch rankCounts[r] {
		case 2:
			pairs++
		case 3:
			trips++
		case 4:
			quads++
		}
	}

	switch {
	case quads > 0:
		return FourOfAKind
	case trips > 0 && (pairs > 0 || trips > 1):
		return FullHouse
	case flushSuit >= 0:
		return Flush
	case straight:
		return Straight
	case trips > 0:
		return ThreeOfAKind
	case pairs >= 2:
		return TwoPair
	case pairs == 1:
		return OnePair
	default:
		return HighCard
	}
}

// rankSet reduces counts to presence flags.
func rankSet(counts [15]int) [15]bool {
	var set [15]bool
	for r := cards.Two; r <= cards.Ace; r++ {
		set[r] = counts[r] > 0
	}
	return set
}

// straightHigh returns the highest rank completing five consecutive
// present ranks, with the ace playing low (A-2-3-4-5) or high.
func straightHigh(set [15]bool) (cards.Rank, bool) {
	best := cards.Rank(0)
	found := false

	// Ace plays low for the wheel.
	if set[cards.Ace] && set[cards.Two] && set[cards.Three] && set[cards.Four] && set[cards.Five] {
		best, found = cards.Five, true
	}

	for high := cards.Six; high <= cards.Ace; high++ {
		run := true
		for r := high - 4; r <= high; r++ {
			if !set[r] {
				run = false
				break
			}
		}
		if run {
			best, found = high, true
		}
	}

	return best, found
}
