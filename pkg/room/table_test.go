package room

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cardroom-server/internal/rng"
	"cardroom-server/pkg/poker/action"
	"cardroom-server/pkg/poker/dealer"
	"cardroom-server/pkg/poker/holdem"
	"cardroom-server/pkg/poker/pot"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTable(t *testing.T) *Table {
	t.Helper()

	options := holdem.DefaultOptions()
	options.SmallBlind = 5
	options.BigBlind = 10

	table, err := NewTable("abcd1234", "test table", options)
	assert.NoError(t, err)
	return table
}

// playHandToCompletion checks or calls every decision until the hand settles
func playHandToCompletion(t *testing.T, hand *holdem.Hand) {
	t.Helper()

	events, err := hand.Start()
	assert.NoError(t, err)

	for !hand.Finished() {
		req, ok := events[len(events)-1].(dealer.PlayerActionRequested)
		assert.True(t, ok, "expected the events to end with an action request")

		decision := action.NewCheck()
		if req.CallAvailable {
			decision = action.NewCallBy(req.CallByAmount)
		}

		events, err = hand.Action(req.Nickname, decision)
		assert.NoError(t, err)
	}
}

func TestNewTable_validation(t *testing.T) {
	a := assert.New(t)

	options := holdem.DefaultOptions()
	options.SmallBlind = 0
	_, err := NewTable("abcd1234", "test table", options)
	a.EqualError(err, "small blind must be positive, got 0")
}

func TestTable_AddSeat(t *testing.T) {
	a := assert.New(t)
	table := testTable(t)

	a.NoError(table.AddSeat("alice", 1000))
	a.EqualError(table.AddSeat("alice", 500), "alice is already seated")
	a.EqualError(table.AddSeat("bob", 0), "the buy-in must be positive")

	for i := 1; i < maxSeats; i++ {
		a.NoError(table.AddSeat(pot.Nickname(fmt.Sprintf("player-%d", i)), 1000))
	}

	a.EqualError(table.AddSeat("zoe", 1000), "the table only has 10 seats")
	a.Len(table.Seats(), maxSeats)
}

func TestTable_StartHand(t *testing.T) {
	a := assert.New(t)
	table := testTable(t)

	_, err := table.StartHand(testLogger(), rng.NewSeeded(1))
	a.EqualError(err, "a hand needs at least two players with chips")

	a.NoError(table.AddSeat("alice", 1000))
	a.NoError(table.AddSeat("bob", 1000))

	hand, err := table.StartHand(testLogger(), rng.NewSeeded(1))
	a.NoError(err)
	a.Equal(hand, table.Hand())

	_, err = table.StartHand(testLogger(), rng.NewSeeded(1))
	a.EqualError(err, "a hand is already in progress")
}

func TestTable_FinishHand(t *testing.T) {
	a := assert.New(t)
	table := testTable(t)

	a.PanicsWithValue("no finished hand to collect", func() {
		table.FinishHand()
	})

	a.NoError(table.AddSeat("alice", 1000))
	a.NoError(table.AddSeat("bob", 1000))

	hand, err := table.StartHand(testLogger(), rng.NewSeeded(1))
	a.NoError(err)

	playHandToCompletion(t, hand)
	table.FinishHand()

	total := pot.Chips(0)
	for _, seat := range table.Seats() {
		total = total.Add(seat.Stack)
	}

	a.Equal(pot.Chips(2000), total)
}

func TestTable_buttonWalksEligibleSeats(t *testing.T) {
	a := assert.New(t)
	table := testTable(t)

	a.NoError(table.AddSeat("alice", 1000))
	a.NoError(table.AddSeat("bob", 1000))
	a.NoError(table.AddSeat("charlie", 1000))

	for _, want := range []pot.Nickname{"alice", "bob", "charlie", "alice"} {
		hand, err := table.StartHand(testLogger(), rng.NewSeeded(1))
		a.NoError(err)

		players := hand.Table().PlayersStartingFromSeat(hand.Table().Button())
		a.Equal(want, players[0].Nickname())

		playHandToCompletion(t, hand)
		table.FinishHand()
	}
}
