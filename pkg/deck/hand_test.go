package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_HasCard(t *testing.T) {
	hand := Hand(CardsFromString("2c,3c,4d"))
	assert.True(t, hand.HasCard(CardFromString("3c")))
	assert.False(t, hand.HasCard(CardFromString("3s")))
}

func TestHand_AddCard(t *testing.T) {
	h := make(Hand, 0)
	h.AddCard(CardFromString("14s"))
	h.AddCard(CardFromString("3c"))
	assert.Equal(t, "14s,3c", CardsToString(h))
}

func TestHand_Clone(t *testing.T) {
	h := HandFromString("2c,3c")
	clone := h.Clone()
	clone.AddCard(CardFromString("4c"))

	assert.Equal(t, "2c,3c", h.String())
	assert.Equal(t, "2c,3c,4c", clone.String())
}
