package table

import (
	"encoding/json"
	"fmt"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/poker/pot"
)

// Player is a participant in a single hand
type Player struct {
	nickname      pot.Nickname
	seat          int
	stack         pot.Chips
	startingStack pot.Chips
	holeCards     deck.Hand
	folded        bool
	allIn         bool
	revealed      bool
}

// NewPlayer returns a player seated with the given stack
func NewPlayer(nickname pot.Nickname, seat int, stack pot.Chips) *Player {
	if stack <= 0 {
		panic(fmt.Sprintf("player %s must be seated with a positive stack", nickname))
	}

	return &Player{
		nickname:      nickname,
		seat:          seat,
		stack:         stack,
		startingStack: stack,
	}
}

// Nickname returns the player's identifier
func (p *Player) Nickname() pot.Nickname {
	return p.nickname
}

// Seat returns the player's seat index
func (p *Player) Seat() int {
	return p.seat
}

// Stack returns the player's remaining chips
func (p *Player) Stack() pot.Chips {
	return p.stack
}

// StartingStack returns the stack the player began the hand with
func (p *Player) StartingStack() pot.Chips {
	return p.startingStack
}

// TakeFromStack removes chips from the stack. Removing the final chip puts
// the player all-in. Taking more than the stack holds is a caller bug.
func (p *Player) TakeFromStack(amount pot.Chips) {
	remaining, err := p.stack.Sub(amount)
	if err != nil {
		panic(fmt.Sprintf("cannot take %d from %s's stack of %d", amount, p.nickname, p.stack))
	}

	p.stack = remaining
	if p.stack == 0 {
		p.allIn = true
	}
}

// AddToStack credits chips to the stack (refunds and winnings)
func (p *Player) AddToStack(amount pot.Chips) {
	p.stack = p.stack.Add(amount)
}

// Fold marks the player folded
func (p *Player) Fold() {
	p.folded = true
}

// Folded returns true if the player folded
func (p *Player) Folded() bool {
	return p.folded
}

// AllIn returns true if the player has no chips behind
func (p *Player) AllIn() bool {
	return p.allIn
}

// CanAct returns true if the player may still make decisions this hand
func (p *Player) CanAct() bool {
	return !p.folded && !p.allIn
}

// SetHoleCards deals the player's hole cards
func (p *Player) SetHoleCards(cards deck.Hand) {
	p.holeCards = cards.Clone()
}

// HoleCards returns the player's hole cards
func (p *Player) HoleCards() deck.Hand {
	return p.holeCards.Clone()
}

// Reveal marks the player's hole cards as shown
func (p *Player) Reveal() {
	p.revealed = true
}

// Revealed returns true if the player showed their cards
func (p *Player) Revealed() bool {
	return p.revealed
}

type playerJSON struct {
	Nickname pot.Nickname `json:"nickname"`
	Seat     int          `json:"seat"`
	Stack    pot.Chips    `json:"stack"`
	Folded   bool         `json:"folded"`
	AllIn    bool         `json:"allIn"`
	Cards    deck.Hand    `json:"cards,omitempty"`
}

// MarshalJSON encodes the player's public state. Hole cards are only included
// once the player revealed them.
func (p *Player) MarshalJSON() ([]byte, error) {
	obj := playerJSON{
		Nickname: p.nickname,
		Seat:     p.seat,
		Stack:    p.stack,
		Folded:   p.folded,
		AllIn:    p.allIn,
	}

	if p.revealed {
		obj.Cards = p.holeCards
	}

	return json.Marshal(obj)
}
