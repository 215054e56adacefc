package eval

import (
	"encoding/json"
	"fmt"
	"strings"

	"cardroom-server/pkg/deck"
)

// Variant specifies the poker variant being evaluated
type Variant string

// variant constants
const (
	TexasHoldem Variant = "texas-holdem"
)

var validVariants = map[Variant]bool{
	TexasHoldem: true,
}

// HoleCards returns the number of hole cards dealt for the variant
func (v Variant) HoleCards() int {
	return 2
}

func (v Variant) String() string {
	switch v {
	case TexasHoldem:
		return "Texas Hold'em"
	}

	panic(fmt.Sprintf("unknown variant: %s", string(v)))
}

// VariantFromString returns the variant from a string
func VariantFromString(s string) (Variant, error) {
	variant := Variant(strings.ToLower(s))
	if _, ok := validVariants[variant]; ok {
		return variant, nil
	}

	return "", fmt.Errorf("invalid variant: %s", s)
}

// Combo is the strength of a player's best hand. A higher weight always wins;
// equal weights share the pot.
type Combo struct {
	Type   string `json:"type"`
	Weight int    `json:"weight"`
}

// Beats returns true if the combo outranks the other
func (c Combo) Beats(other Combo) bool {
	return c.Weight > other.Weight
}

// Ties returns true if the combos have equal strength
func (c Combo) Ties(other Combo) bool {
	return c.Weight == other.Weight
}

// MarshalJSON encodes the combo
func (c Combo) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Weight int    `json:"weight"`
	}(c))
}

// Evaluator scores a player's hole cards against the board. Implementations
// must be pure: the same cards always produce the same combo.
type Evaluator interface {
	Evaluate(variant Variant, board deck.Hand, hole deck.Hand) (Combo, error)
}
