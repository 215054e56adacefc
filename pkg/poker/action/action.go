package action

import (
	"encoding/json"
	"fmt"

	"cardroom-server/pkg/poker/pot"
)

// Type represents a kind of player decision
type Type string

// decision type constants
const (
	Fold  Type = "fold"
	Check Type = "check"
	Call  Type = "call"
	Raise Type = "raise"
)

var allowedTypes = map[Type]bool{
	Fold:  true,
	Check: true,
	Call:  true,
	Raise: true,
}

// TypeFromString returns a decision type for the given string
func TypeFromString(s string) (Type, error) {
	if _, ok := allowedTypes[Type(s)]; ok {
		return Type(s), nil
	}

	return "", fmt.Errorf("unknown decision type: %s", s)
}

func (t Type) String() string {
	switch t {
	case Fold:
		return "Fold"
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Raise:
		return "Raise"
	}

	panic("unknown decision type")
}

// Decision is a single player decision: fold, check, call by an amount, or
// raise by an amount. Fold and check carry no amount; call and raise must
// carry a strictly positive amount. The amounts are increments over what the
// player already has posted this street.
type Decision struct {
	Type   Type
	Amount pot.Chips
}

// NewDecision validates and builds a decision from wire input
func NewDecision(t Type, amount pot.Chips) (Decision, error) {
	if !allowedTypes[t] {
		return Decision{}, fmt.Errorf("unknown decision type: %s", string(t))
	}

	switch t {
	case Fold, Check:
		if amount != 0 {
			return Decision{}, fmt.Errorf("%s cannot carry an amount", string(t))
		}
	case Call, Raise:
		if amount <= 0 {
			return Decision{}, fmt.Errorf("%s requires a positive amount", string(t))
		}
	}

	return Decision{Type: t, Amount: amount}, nil
}

// NewFold returns a fold decision
func NewFold() Decision {
	return Decision{Type: Fold}
}

// NewCheck returns a check decision
func NewCheck() Decision {
	return Decision{Type: Check}
}

// NewCallBy returns a call for the given increment. A non-positive amount is
// a caller bug.
func NewCallBy(amount pot.Chips) Decision {
	return mustDecision(Call, amount)
}

// NewRaiseBy returns a raise by the given increment. A non-positive amount is
// a caller bug.
func NewRaiseBy(amount pot.Chips) Decision {
	return mustDecision(Raise, amount)
}

func mustDecision(t Type, amount pot.Chips) Decision {
	d, err := NewDecision(t, amount)
	if err != nil {
		panic(err)
	}

	return d
}

func (d Decision) String() string {
	switch d.Type {
	case Fold, Check:
		return d.Type.String()
	}

	return fmt.Sprintf("%s %d", d.Type, d.Amount)
}

// LogMessage returns a message formatted for the table log
func (d Decision) LogMessage() string {
	switch d.Type {
	case Fold:
		return "folded"
	case Check:
		return "checked"
	case Call:
		return fmt.Sprintf("called ${%d}", d.Amount)
	case Raise:
		return fmt.Sprintf("raised by ${%d}", d.Amount)
	}

	return ""
}

type decisionJSON struct {
	Type   Type      `json:"type"`
	Amount pot.Chips `json:"amount"`
}

// MarshalJSON encodes the decision into JSON
func (d Decision) MarshalJSON() ([]byte, error) {
	return json.Marshal(decisionJSON{Type: d.Type, Amount: d.Amount})
}

// UnmarshalJSON decodes and validates a decision
func (d *Decision) UnmarshalJSON(b []byte) error {
	var raw decisionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	decision, err := NewDecision(raw.Type, raw.Amount)
	if err != nil {
		return err
	}

	*d = decision
	return nil
}
