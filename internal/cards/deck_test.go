package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feltworks/casino/internal/randutil"
)

func TestDeckIsPermutationOfAllCards(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(42))

	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		c, err := d.Draw()
		require.NoError(t, err)
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)

	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			assert.True(t, seen[Card{Rank: rank, Suit: suit}], "missing %s", Card{Rank: rank, Suit: suit})
		}
	}
}

func TestDrawPastEmptyDeck(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(1))
	for i := 0; i < 52; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}

	_, err := d.Draw()
	assert.ErrorIs(t, err, ErrEmptyDeck)

	// Reset recovers the deck.
	d.Reset()
	assert.Equal(t, 52, d.Remaining())
	_, err = d.Draw()
	assert.NoError(t, err)
}

func TestRemainingTracksDraws(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(7))
	assert.Equal(t, 52, d.Remaining())
	for i := 0; i < 5; i++ {
		_, err := d.Draw()
		require.NoError(t, err)
	}
	assert.Equal(t, 47, d.Remaining())
}

func TestShuffleIsSeedDeterministic(t *testing.T) {
	t.Parallel()
	a := NewDeck(randutil.New(99))
	b := NewDeck(randutil.New(99))
	for i := 0; i < 52; i++ {
		ca, err := a.Draw()
		require.NoError(t, err)
		cb, err := b.Draw()
		require.NoError(t, err)
		assert.Equal(t, ca, cb)
	}
}
