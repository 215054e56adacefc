package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cardroom-server/pkg/deck"
)

func TestSevenCard_Evaluate(t *testing.T) {
	a := assert.New(t)

	evaluator := NewSevenCard()
	board := deck.HandFromString("14s,13s,12s,2d,7h")

	flush, err := evaluator.Evaluate(TexasHoldem, board, deck.HandFromString("11s,10s"))
	a.NoError(err)

	pair, err := evaluator.Evaluate(TexasHoldem, board, deck.HandFromString("14d,3c"))
	a.NoError(err)

	a.True(flush.Beats(pair))
	a.False(pair.Beats(flush))
	a.NotEmpty(flush.Type)
}

func TestSevenCard_Evaluate_ties(t *testing.T) {
	a := assert.New(t)

	evaluator := NewSevenCard()

	// the board plays for both
	board := deck.HandFromString("14s,14d,14h,14c,13s")

	first, err := evaluator.Evaluate(TexasHoldem, board, deck.HandFromString("2d,3c"))
	a.NoError(err)

	second, err := evaluator.Evaluate(TexasHoldem, board, deck.HandFromString("4d,5c"))
	a.NoError(err)

	a.True(first.Ties(second))
}

func TestSevenCard_Evaluate_badInput(t *testing.T) {
	a := assert.New(t)

	evaluator := NewSevenCard()

	_, err := evaluator.Evaluate("omaha", nil, deck.HandFromString("2d,3c"))
	a.EqualError(err, "unsupported variant: omaha")

	_, err = evaluator.Evaluate(TexasHoldem, deck.HandFromString("2c,3c"), deck.HandFromString("2d,3d"))
	a.EqualError(err, "cannot evaluate 4 cards")
}

func TestVariantFromString(t *testing.T) {
	a := assert.New(t)

	variant, err := VariantFromString("texas-holdem")
	a.NoError(err)
	a.Equal(TexasHoldem, variant)
	a.Equal(2, variant.HoleCards())

	_, err = VariantFromString("five-card-draw")
	a.EqualError(err, "invalid variant: five-card-draw")
}
