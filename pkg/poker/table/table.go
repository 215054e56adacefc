package table

import (
	"errors"
	"fmt"

	"github.com/thoas/go-funk"

	"cardroom-server/pkg/poker/pot"
)

// ErrPlayerNotFound happens when a nickname is not seated at the table
var ErrPlayerNotFound = errors.New("player is not seated at the table")

// Predicate selects players when walking the table order
type Predicate func(*Player) bool

// CanAct matches players who may still make decisions
func CanAct(p *Player) bool {
	return p.CanAct()
}

// NotFolded matches players still in contention for the pot
func NotFolded(p *Player) bool {
	return !p.Folded()
}

// Table is the seating for a single hand. Seats are dense indexes in the
// order players were seated; the button marks the dealer position.
type Table struct {
	players    []*Player
	byNickname map[pot.Nickname]*Player
	button     int
}

// New returns an empty table with the button at the given seat
func New(button int) *Table {
	return &Table{
		byNickname: make(map[pot.Nickname]*Player),
		button:     button,
	}
}

// Seat adds a player to the next seat. Players must be seated in table order.
func (t *Table) Seat(nickname pot.Nickname, stack pot.Chips) (*Player, error) {
	if _, ok := t.byNickname[nickname]; ok {
		return nil, fmt.Errorf("%s is already seated", nickname)
	}

	player := NewPlayer(nickname, len(t.players), stack)
	t.players = append(t.players, player)
	t.byNickname[nickname] = player
	return player, nil
}

// Button returns the dealer seat
func (t *Table) Button() int {
	return t.button
}

// Players returns all players in seat order
func (t *Table) Players() []*Player {
	players := make([]*Player, len(t.players))
	copy(players, t.players)
	return players
}

// PlayerByNickname returns the seated player, or ErrPlayerNotFound
func (t *Table) PlayerByNickname(nickname pot.Nickname) (*Player, error) {
	player, ok := t.byNickname[nickname]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, nickname)
	}

	return player, nil
}

// PlayersStartingFromSeat returns all players in table order beginning at the
// given seat, wrapping around
func (t *Table) PlayersStartingFromSeat(seat int) []*Player {
	n := len(t.players)
	if n == 0 {
		return nil
	}

	players := make([]*Player, 0, n)
	for i := 0; i < n; i++ {
		players = append(players, t.players[(seat+i)%n])
	}

	return players
}

// PlayerNextToSeat returns the first player after the given seat matching the
// predicate, wrapping around and excluding the seat itself
func (t *Table) PlayerNextToSeat(seat int, pred Predicate) (*Player, bool) {
	n := len(t.players)
	for i := 1; i < n; i++ {
		player := t.players[(seat+i)%n]
		if pred(player) {
			return player, true
		}
	}

	return nil, false
}

// PlayersNotFolded returns the players still in contention, in seat order
func (t *Table) PlayersNotFolded() []*Player {
	return funk.Filter(t.players, NotFolded).([]*Player)
}

// NicknamesNotFolded returns the nicknames still in contention, in seat order
func (t *Table) NicknamesNotFolded() []pot.Nickname {
	return funk.Map(t.PlayersNotFolded(), func(p *Player) pot.Nickname {
		return p.Nickname()
	}).([]pot.Nickname)
}

// CanActCount returns how many players may still make decisions
func (t *Table) CanActCount() int {
	return len(funk.Filter(t.players, CanAct).([]*Player))
}
