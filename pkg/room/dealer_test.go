package room

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cardroom-server/pkg/poker/dealer"
	"cardroom-server/pkg/poker/holdem"
	"cardroom-server/pkg/poker/pot"
)

func noopSaver() HandSaver {
	return HandSaverFunc(func(ctx context.Context, roomCode string, hand *holdem.Hand) error {
		return nil
	})
}

func TestDealer_AddRemoveClient(t *testing.T) {
	a := assert.New(t)

	table := testTable(t)
	d := NewDealer(NewPitBoss(noopSaver(), time.Hour), table)

	c := NewClient(nil, "alice", table)
	c2 := NewClient(nil, "bob", table)

	d.AddClient(c)
	d.AddClient(c2)
	a.Len(d.Clients(), 2)

	a.False(d.RemoveClient(c))
	a.True(d.RemoveClient(c2))
}

// drain empties the client's send channel and returns everything received
func drain(c *Client) []interface{} {
	var msgs []interface{}
	for {
		select {
		case msg := <-c.SendChan():
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

func lastActionRequest(t *testing.T, hand *holdem.Hand) dealer.PlayerActionRequested {
	t.Helper()

	events := hand.Events()
	for i := len(events) - 1; i >= 0; i-- {
		if req, ok := events[i].(dealer.PlayerActionRequested); ok {
			return req
		}
	}

	t.Fatal("no action request found")
	return dealer.PlayerActionRequested{}
}

func TestDealer_playsAHand(t *testing.T) {
	a := assert.New(t)

	saved := make(chan *holdem.Hand, 1)
	saver := HandSaverFunc(func(ctx context.Context, roomCode string, hand *holdem.Hand) error {
		saved <- hand
		return nil
	})

	table := testTable(t)
	d := NewDealer(NewPitBoss(saver, time.Hour), table)

	alice := NewClient(nil, "alice", table)
	bob := NewClient(nil, "bob", table)
	d.AddClient(alice)
	d.AddClient(bob)

	// drive the dealer directly instead of through its run loop
	d.startHand(alice, &PayloadIn{Context: "s1"})
	msgs := drain(alice)
	res, ok := msgs[len(msgs)-1].(*Response)
	a.True(ok)
	a.Equal("error", res.Key)
	a.Equal("a hand needs at least two players with chips", res.Value)
	a.Equal("s1", res.Context)

	a.NoError(table.AddSeat("alice", 1000))
	a.NoError(table.AddSeat("bob", 1000))

	d.startHand(alice, &PayloadIn{Context: "s2"})
	hand := table.Hand()
	a.NotNil(hand)

	for !hand.Finished() {
		req := lastActionRequest(t, hand)
		data := AdditionalData{"decision": "check"}
		if req.CallAvailable {
			data = AdditionalData{"decision": "call", "amount": float64(req.CallByAmount)}
		}

		client := alice
		if req.Nickname == "bob" {
			client = bob
		}

		d.playerAction(client, &PayloadIn{Action: "action", AdditionalData: data, Context: "a"})
	}

	select {
	case savedHand := <-saved:
		a.Equal(hand.ID(), savedHand.ID())
	default:
		t.Fatal("the hand was not saved")
	}

	// the roster picked up the result
	total := pot.Chips(0)
	for _, seat := range table.Seats() {
		total = total.Add(seat.Stack)
	}
	a.Equal(pot.Chips(2000), total)

	// acting out of turn or after the hand is over is rejected
	d.playerAction(alice, &PayloadIn{AdditionalData: AdditionalData{"decision": "check"}, Context: "late"})
	msgs = drain(alice)
	a.Equal(newErrorResponse("late", dealer.ErrStageNotRunning), msgs[len(msgs)-1])
}

func TestDealer_actsForSlowPlayer(t *testing.T) {
	a := assert.New(t)

	saved := make(chan *holdem.Hand, 1)
	saver := HandSaverFunc(func(ctx context.Context, roomCode string, hand *holdem.Hand) error {
		saved <- hand
		return nil
	})

	table := testTable(t)
	a.NoError(table.AddSeat("alice", 1000))
	a.NoError(table.AddSeat("bob", 1000))

	d := NewDealer(NewPitBoss(saver, time.Millisecond*25), table)
	d.StartShift()
	defer d.EndShift()

	alice := NewClient(nil, "alice", table)
	d.AddClient(alice)

	d.execInRunLoop <- func() {
		d.startHand(alice, &PayloadIn{Context: "s"})
	}

	// nobody acts: the dealer checks or folds for every player until the
	// hand settles on its own
	select {
	case hand := <-saved:
		a.True(hand.Finished())
	case <-time.After(time.Second * 5):
		t.Fatal("the hand never finished")
	}
}
