package room

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/weedbox/timebank"

	"cardroom-server/internal/rng"
	"cardroom-server/pkg/poker/action"
	"cardroom-server/pkg/poker/dealer"
	"cardroom-server/pkg/poker/pot"
)

type state int

const (
	stateClientEvent state = iota
	stateGameEvent
	stateGameEnded
)

const saveHandTimeout = time.Second * 5

// Dealer is responsible for running a single table
type Dealer struct {
	pitBoss *PitBoss
	table   *Table
	clients map[*Client]bool
	lock    sync.RWMutex

	execInRunLoop chan func()
	stateChanged  chan state
	close         chan bool

	timebank *timebank.TimeBank
	logger   logrus.FieldLogger
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, table *Table) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		table:         table,
		clients:       make(map[*Client]bool),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan state, 256),
		close:         make(chan bool),
		timebank:      timebank.NewTimeBank(),
		logger: logrus.WithFields(logrus.Fields{
			"code": table.Code,
			"name": table.Name,
		}),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case s := <-d.stateChanged:
			switch s {
			case stateClientEvent:
				d.sendPlayerData()
			case stateGameEvent:
				d.sendGameData()
			case stateGameEnded:
				d.sendHandEnded()
				d.sendPlayerData()
			}
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			d.timebank.Cancel()
			return
		}
	}
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.stateChanged <- stateClientEvent
	d.execInRunLoop <- func() {
		d.sendStateTo(client)
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	if nClients > 0 {
		d.stateChanged <- stateClientEvent
		return false
	}

	return true
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *PayloadIn) {
	switch msg.Action {
	case "join":
		d.execInRunLoop <- func() {
			stack, ok := msg.AdditionalData.GetInt("stack")
			if !ok {
				c.Send(newErrorResponse(msg.Context, errInvalidPayload("stack")))
				return
			}

			if err := d.table.AddSeat(c.nickname, pot.Chips(stack)); err != nil {
				c.Send(newErrorResponse(msg.Context, err))
				return
			}

			c.Send(OK(msg.Context))
			d.stateChanged <- stateClientEvent
		}
	case "startHand":
		d.execInRunLoop <- func() {
			d.startHand(c, msg)
		}
	case "action":
		d.execInRunLoop <- func() {
			d.playerAction(c, msg)
		}
	case "state":
		d.execInRunLoop <- func() {
			d.sendStateTo(c)
		}
	default:
		d.logger.WithField("msg", msg).Warn("unknown message")
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) startHand(c *Client, msg *PayloadIn) {
	hand, err := d.table.StartHand(d.logger, rng.Crypto{})
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	d.logger.WithField("hand", hand.ID()).Info("hand started")

	events, err := hand.Start()
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(OK(msg.Context))
	d.handleEvents(events)
}

// NOTE: must only be called from the run loop
func (d *Dealer) playerAction(c *Client, msg *PayloadIn) {
	hand := d.table.Hand()
	if hand == nil || hand.Finished() {
		c.Send(newErrorResponse(msg.Context, dealer.ErrStageNotRunning))
		return
	}

	typeName, _ := msg.AdditionalData.GetString("decision")
	decisionType, err := action.TypeFromString(typeName)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	amount, _ := msg.AdditionalData.GetInt("amount")
	decision, err := action.NewDecision(decisionType, pot.Chips(amount))
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	events, err := hand.Action(c.nickname, decision)
	if err != nil {
		c.Send(newErrorResponse(msg.Context, err))
		return
	}

	c.Send(OK(msg.Context))
	d.handleEvents(events)
}

// handleEvents broadcasts a batch of emitted events, re-arms the action
// timer, and wraps up the hand once it is settled.
// NOTE: must only be called from the run loop
func (d *Dealer) handleEvents(events []dealer.Event) {
	d.timebank.Cancel()

	for _, ev := range events {
		d.broadcast(&Response{
			Key:   "event",
			Value: ev.EventType(),
			Data:  ev,
		})

		if req, ok := ev.(dealer.PlayerActionRequested); ok {
			d.armActionTimer(req)
		}
	}

	hand := d.table.Hand()
	if hand != nil && hand.Finished() {
		d.finishHand()
		return
	}

	d.stateChanged <- stateGameEvent
}

// armActionTimer schedules the dealer to act for a player who lets their
// decision clock run out: check when possible, fold otherwise
func (d *Dealer) armActionTimer(req dealer.PlayerActionRequested) {
	err := d.timebank.NewTask(d.pitBoss.actionTimeout, func(isCancelled bool) {
		if isCancelled {
			return
		}

		d.execInRunLoop <- func() {
			d.actForSlowPlayer(req)
		}
	})

	if err != nil {
		d.logger.WithError(err).Error("could not arm the action timer")
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) actForSlowPlayer(req dealer.PlayerActionRequested) {
	hand := d.table.Hand()
	if hand == nil || hand.Finished() {
		return
	}

	decision := action.NewFold()
	if req.CheckAvailable {
		decision = action.NewCheck()
	}

	events, err := hand.Action(req.Nickname, decision)
	if err != nil {
		// the player beat the timer
		d.logger.WithError(err).WithField("nickname", req.Nickname).Debug("timed-out action not applied")
		return
	}

	d.logger.WithFields(logrus.Fields{
		"nickname": req.Nickname,
		"decision": decision.String(),
	}).Info("acted for slow player")

	d.handleEvents(events)
}

// NOTE: must only be called from the run loop
func (d *Dealer) finishHand() {
	hand := d.table.Hand()

	ctx, cancel := context.WithTimeout(context.Background(), saveHandTimeout)
	defer cancel()

	if err := d.pitBoss.saver.SaveHand(ctx, d.table.Code, hand); err != nil {
		d.logger.WithError(err).WithField("hand", hand.ID()).Error("could not save hand")
	}

	d.table.FinishHand()
	d.stateChanged <- stateGameEnded
}

func (d *Dealer) broadcast(res *Response) {
	for _, client := range d.Clients() {
		client.Send(res)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendHandEnded() {
	d.broadcast(&Response{
		Key: "handEnded",
	})
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendGameData() {
	for _, client := range d.Clients() {
		d.sendStateTo(client)
	}
}

// sendStateTo sends the public table state plus the client's own hole cards
// NOTE: must only be called from the run loop
func (d *Dealer) sendStateTo(client *Client) {
	client.Send(&Response{
		Key:  "state",
		Data: d.table,
	})

	hand := d.table.Hand()
	if hand == nil || hand.Finished() {
		return
	}

	player, err := hand.Table().PlayerByNickname(client.nickname)
	if err != nil {
		return
	}

	client.Send(&Response{
		Key:  "holeCards",
		Data: player.HoleCards(),
	})
}

type clientStatePlayer struct {
	Nickname    pot.Nickname `json:"nickname"`
	Stack       pot.Chips    `json:"stack"`
	IsConnected bool         `json:"isConnected"`
	IsSeated    bool         `json:"isSeated"`
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendPlayerData() {
	connected := make(map[pot.Nickname]bool)
	for _, client := range d.Clients() {
		connected[client.nickname] = true
	}

	players := make(map[pot.Nickname]*clientStatePlayer)
	for _, seat := range d.table.Seats() {
		isConnected := connected[seat.Nickname]
		delete(connected, seat.Nickname)
		players[seat.Nickname] = &clientStatePlayer{
			Nickname:    seat.Nickname,
			Stack:       seat.Stack,
			IsConnected: isConnected,
			IsSeated:    true,
		}
	}

	for nickname := range connected {
		players[nickname] = &clientStatePlayer{
			Nickname:    nickname,
			IsConnected: true,
			IsSeated:    false,
		}
	}

	d.broadcast(&Response{
		Key:  "clientState",
		Data: players,
	})
}
