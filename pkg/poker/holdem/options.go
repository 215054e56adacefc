package holdem

import (
	"fmt"

	"cardroom-server/pkg/poker/eval"
	"cardroom-server/pkg/poker/pot"
)

// LimitType selects the raise-sizing rule for the hand
type LimitType string

// limit type constants
const (
	NoLimit  LimitType = "no-limit"
	PotLimit LimitType = "pot-limit"
)

// LimitTypeFromString returns the limit type for the given string
func LimitTypeFromString(s string) (LimitType, error) {
	switch LimitType(s) {
	case NoLimit, PotLimit:
		return LimitType(s), nil
	}

	return "", fmt.Errorf("unknown limit type: %s", s)
}

// Options configures a single hand
type Options struct {
	Variant    eval.Variant `json:"variant"`
	Limit      LimitType    `json:"limit"`
	SmallBlind pot.Chips    `json:"smallBlind"`
	BigBlind   pot.Chips    `json:"bigBlind"`
	Ante       pot.Chips    `json:"ante"`
}

// DefaultOptions returns no-limit hold'em at 25/50 with no ante
func DefaultOptions() Options {
	return Options{
		Variant:    eval.TexasHoldem,
		Limit:      NoLimit,
		SmallBlind: 25,
		BigBlind:   50,
	}
}

// Validate returns an error if the options cannot produce a playable hand
func (o Options) Validate() error {
	if _, err := eval.VariantFromString(string(o.Variant)); err != nil {
		return err
	}

	if _, err := LimitTypeFromString(string(o.Limit)); err != nil {
		return err
	}

	if o.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", o.SmallBlind)
	}

	if o.BigBlind < o.SmallBlind {
		return fmt.Errorf("big blind %d cannot be below the small blind %d", o.BigBlind, o.SmallBlind)
	}

	if o.Ante < 0 {
		return fmt.Errorf("ante cannot be negative, got %d", o.Ante)
	}

	return nil
}

// Street is a stage of the hand
type Street string

// street constants
const (
	StreetPreflop  Street = "preflop"
	StreetFlop     Street = "flop"
	StreetTurn     Street = "turn"
	StreetRiver    Street = "river"
	StreetShowdown Street = "showdown"
)

func (s Street) String() string {
	switch s {
	case StreetPreflop:
		return "Pre-flop"
	case StreetFlop:
		return "Flop"
	case StreetTurn:
		return "Turn"
	case StreetRiver:
		return "River"
	case StreetShowdown:
		return "Showdown"
	}

	panic(fmt.Sprintf("unknown street: %s", string(s)))
}

// boardCards returns how many cards the street adds to the board
func (s Street) boardCards() int {
	switch s {
	case StreetFlop:
		return 3
	case StreetTurn, StreetRiver:
		return 1
	}

	return 0
}
