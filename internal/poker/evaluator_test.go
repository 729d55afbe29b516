package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/feltworks/casino/internal/cards"
)

func hand(codes ...string) []cards.Card {
	out := make([]cards.Card, len(codes))
	for i, code := range codes {
		out[i] = cards.MustParse(code)
	}
	return out
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		hole      []string
		community []string
		want      Category
	}{
		{
			name:      "royal flush",
			hole:      []string{"As", "Ks"},
			community: []string{"Qs", "Js", "Ts", "2h", "3c"},
			want:      RoyalFlush,
		},
		{
			name:      "straight flush",
			hole:      []string{"9s", "8s"},
			community: []string{"7s", "6s", "5s", "Ah", "Kc"},
			want:      StraightFlush,
		},
		{
			name:      "four of a kind",
			hole:      []string{"Ah", "Ad"},
			community: []string{"As", "Ac", "5s", "9h", "2c"},
			want:      FourOfAKind,
		},
		{
			name:      "full house",
			hole:      []string{"Kh", "Kd"},
			community: []string{"Ks", "2c", "2h", "9d", "5s"},
			want:      FullHouse,
		},
		{
			name:      "two trips make a full house",
			hole:      []string{"Kh", "Kd"},
			community: []string{"Ks", "2c", "2h", "2d", "5s"},
			want:      FullHouse,
		},
		{
			name:      "flush",
			hole:      []string{"Ah", "2h"},
			community: []string{"7h", "9h", "Jh", "Kc", "3s"},
			want:      Flush,
		},
		{
			name:      "straight ace high",
			hole:      []string{"Ah", "Kd"},
			community: []string{"Qs", "Jc", "Th", "3d", "5s"},
			want:      Straight,
		},
		{
			name:      "wheel straight ace low",
			hole:      []string{"Ah", "2d"},
			community: []string{"3s", "4c", "5h", "9d", "Ks"},
			want:      Straight,
		},
		{
			name:      "three of a kind",
			hole:      []string{"7h", "7d"},
			community: []string{"7s", "Ac", "Kh", "3d", "9s"},
			want:      ThreeOfAKind,
		},
		{
			name:      "two pair",
			hole:      []string{"7h", "7d"},
			community: []string{"Ks", "Kc", "2h", "3d", "9s"},
			want:      TwoPair,
		},
		{
			name:      "one pair",
			hole:      []string{"7h", "7d"},
			community: []string{"As", "Kc", "2h", "3d", "9s"},
			want:      OnePair,
		},
		{
			name:      "high card",
			hole:      []string{"7h", "2d"},
			community: []string{"As", "Kc", "9h", "4d", "Jc"},
			want:      HighCard,
		},
		{
			name: "straight and flush in different suits is only a flush",
			hole: []string{"Ah", "Kh"},
			// Straight 5-9 across suits, flush in hearts, but the heart
			// ranks are not consecutive.
			community: []string{"5s", "6c", "7h", "8h", "9h"},
			want:      Flush,
		},
		{
			name: "royal flush needs the ace in the flush suit",
			hole: []string{"Ks", "Ah"},
			// Broadway straight exists across suits, but the spade run
			// tops out at the king.
			community: []string{"Qs", "Js", "Ts", "9s", "3c"},
			want:      StraightFlush,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Evaluate(hand(tt.hole...), hand(tt.community...))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategoryOrdering(t *testing.T) {
	t.Parallel()
	order := []Category{
		HighCard, OnePair, TwoPair, ThreeOfAKind, Straight,
		Flush, FullHouse, FourOfAKind, StraightFlush, RoyalFlush,
	}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i], order[i-1])
	}
	assert.Equal(t, Category(1), HighCard)
	assert.Equal(t, Category(10), RoyalFlush)
}

func TestCategoryStrings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Royal Flush", RoyalFlush.String())
	assert.Equal(t, "High Card", HighCard.String())
	assert.Equal(t, "Unknown", Category(0).String())
}

func TestEvaluatePreflopPair(t *testing.T) {
	t.Parallel()
	// Evaluation with no community cards still classifies pocket pairs;
	// the scripted opponents rely on this preflop.
	assert.Equal(t, OnePair, Evaluate(hand("Ah", "Ad"), nil))
	assert.Equal(t, HighCard, Evaluate(hand("Ah", "Kd"), nil))
}
