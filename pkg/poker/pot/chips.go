package pot

import "errors"

// ErrNegativeChips is an error when an arithmetic result would drop below zero
var ErrNegativeChips = errors.New("chips amount cannot be negative")

// ErrDivideByZero is an error when chips are divided by zero
var ErrDivideByZero = errors.New("cannot divide chips by zero")

// Chips is a non-negative quantity of chips. All money in the wagering engine
// is counted in Chips, and no operation may ever produce a negative amount.
type Chips int

// Add returns the sum of the two amounts
func (c Chips) Add(amount Chips) Chips {
	return c + amount
}

// Sub returns the difference, or ErrNegativeChips if the result would be negative
func (c Chips) Sub(amount Chips) (Chips, error) {
	if amount > c {
		return 0, ErrNegativeChips
	}

	return c - amount, nil
}

// Mul returns the amount multiplied by n, or ErrNegativeChips for a negative multiplier
func (c Chips) Mul(n int) (Chips, error) {
	if n < 0 {
		return 0, ErrNegativeChips
	}

	return c * Chips(n), nil
}

// Div returns the integer quotient of the amount divided by n
func (c Chips) Div(n int) (Chips, error) {
	if n == 0 {
		return 0, ErrDivideByZero
	}

	if n < 0 {
		return 0, ErrNegativeChips
	}

	return c / Chips(n), nil
}

// Mod returns the remainder of the amount divided by n
func (c Chips) Mod(n int) (Chips, error) {
	if n == 0 {
		return 0, ErrDivideByZero
	}

	if n < 0 {
		return 0, ErrNegativeChips
	}

	return c % Chips(n), nil
}

// Int returns the amount as an int
func (c Chips) Int() int {
	return int(c)
}

// mustSub subtracts and panics on underflow. Only for callers that already
// guaranteed the amount is covered; an underflow here is a bug, not a rule violation.
func mustSub(c, amount Chips) Chips {
	res, err := c.Sub(amount)
	if err != nil {
		panic(err)
	}

	return res
}
