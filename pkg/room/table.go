package room

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"

	"cardroom-server/internal/rng"
	"cardroom-server/pkg/poker/holdem"
	"cardroom-server/pkg/poker/pot"
)

// maxSeats caps how many players can sit at one table
const maxSeats = 10

// Table is a card room table: a roster of seated players and the hand
// currently in progress. Mutations happen on the table's dealer run loop;
// the lock covers reads from the HTTP handlers. Code, Name and Options never
// change after creation.
type Table struct {
	Code    string
	Name    string
	Options holdem.Options

	lock    sync.RWMutex
	seats   []holdem.Seat
	handNum int
	hand    *holdem.Hand
}

// NewTable returns a table with an empty roster
func NewTable(code, name string, options holdem.Options) (*Table, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	return &Table{
		Code:    code,
		Name:    name,
		Options: options,
	}, nil
}

// AddSeat adds a player to the roster with their buy-in. Players who join
// mid-hand are dealt in starting with the next hand.
func (t *Table) AddSeat(nickname pot.Nickname, stack pot.Chips) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if len(t.seats) >= maxSeats {
		return fmt.Errorf("the table only has %d seats", maxSeats)
	}

	if stack <= 0 {
		return errors.New("the buy-in must be positive")
	}

	for _, seat := range t.seats {
		if seat.Nickname == nickname {
			return fmt.Errorf("%s is already seated", nickname)
		}
	}

	t.seats = append(t.seats, holdem.Seat{Nickname: nickname, Stack: stack})
	return nil
}

// Seats returns the roster
func (t *Table) Seats() []holdem.Seat {
	t.lock.RLock()
	defer t.lock.RUnlock()

	seats := make([]holdem.Seat, len(t.seats))
	copy(seats, t.seats)
	return seats
}

// Hand returns the hand in progress, if any
func (t *Table) Hand() *holdem.Hand {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.hand
}

// eligibleSeats returns the players with chips left to play with
func (t *Table) eligibleSeats() []holdem.Seat {
	return funk.Filter(t.seats, func(s holdem.Seat) bool {
		return s.Stack > 0
	}).([]holdem.Seat)
}

// StartHand deals a new hand for every player with chips. The button walks
// one eligible seat per hand.
func (t *Table) StartHand(logger logrus.FieldLogger, gen rng.Generator) (*holdem.Hand, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.hand != nil && !t.hand.Finished() {
		return nil, errors.New("a hand is already in progress")
	}

	seats := t.eligibleSeats()
	if len(seats) < 2 {
		return nil, errors.New("a hand needs at least two players with chips")
	}

	button := t.handNum % len(seats)
	hand, err := holdem.New(logger, t.Options, seats, button, gen)
	if err != nil {
		return nil, err
	}

	t.hand = hand
	t.handNum++
	return hand, nil
}

// FinishHand writes the finished hand's stacks back to the roster
func (t *Table) FinishHand() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.hand == nil || !t.hand.Finished() {
		panic("no finished hand to collect")
	}

	for i, seat := range t.seats {
		player, err := t.hand.Table().PlayerByNickname(seat.Nickname)
		if err != nil {
			// not dealt into this hand
			continue
		}

		t.seats[i].Stack = player.Stack()
	}
}

type tableJSON struct {
	Code    string         `json:"code"`
	Name    string         `json:"name"`
	Options holdem.Options `json:"options"`
	Seats   []holdem.Seat  `json:"seats"`
	Hand    *holdem.Hand   `json:"hand,omitempty"`
}

// MarshalJSON encodes the table's public state
func (t *Table) MarshalJSON() ([]byte, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	seats := make([]holdem.Seat, len(t.seats))
	copy(seats, t.seats)

	return json.Marshal(tableJSON{
		Code:    t.Code,
		Name:    t.Name,
		Options: t.Options,
		Seats:   seats,
		Hand:    t.hand,
	})
}
