package eval

import (
	"fmt"

	"github.com/paulhankin/poker"

	"cardroom-server/pkg/deck"
)

// SevenCard evaluates the best five-card hand from a player's hole cards and
// the board using a lookup-table evaluator
type SevenCard struct{}

// NewSevenCard returns a seven-card evaluator
func NewSevenCard() SevenCard {
	return SevenCard{}
}

// Evaluate scores the player's best hand
func (SevenCard) Evaluate(variant Variant, board deck.Hand, hole deck.Hand) (Combo, error) {
	if variant != TexasHoldem {
		return Combo{}, fmt.Errorf("unsupported variant: %s", string(variant))
	}

	cards := make([]poker.Card, 0, len(board)+len(hole))
	for _, card := range append(board.Clone(), hole...) {
		converted, err := convertCard(card)
		if err != nil {
			return Combo{}, err
		}

		cards = append(cards, converted)
	}

	var weight int16
	switch len(cards) {
	case 5:
		var five [5]poker.Card
		copy(five[:], cards)
		weight = poker.Eval5(&five)
	case 7:
		var seven [7]poker.Card
		copy(seven[:], cards)
		weight = poker.Eval7(&seven)
	default:
		return Combo{}, fmt.Errorf("cannot evaluate %d cards", len(cards))
	}

	description, err := poker.Describe(cards)
	if err != nil {
		return Combo{}, err
	}

	return Combo{
		Type:   description,
		Weight: int(weight),
	}, nil
}

// convertCard maps a deck card onto the evaluator's representation.
// The evaluator ranks aces as 1; the deck ranks them as 14.
func convertCard(card *deck.Card) (poker.Card, error) {
	var none poker.Card

	var suit poker.Suit
	switch card.Suit {
	case deck.Clubs:
		suit = poker.Club
	case deck.Diamonds:
		suit = poker.Diamond
	case deck.Hearts:
		suit = poker.Heart
	case deck.Spades:
		suit = poker.Spade
	default:
		return none, fmt.Errorf("unknown suit: %s", card.Suit)
	}

	rank := poker.Rank(card.Rank)
	if card.Rank == deck.Ace {
		rank = poker.Rank(1)
	}

	return poker.MakeCard(suit, rank)
}
