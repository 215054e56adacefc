package room

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/poker/holdem"
	"cardroom-server/pkg/token"
)

// HandSaver persists a finished hand and its event log
type HandSaver interface {
	SaveHand(ctx context.Context, roomCode string, hand *holdem.Hand) error
}

// HandSaverFunc adapts a function to the HandSaver interface
type HandSaverFunc func(ctx context.Context, roomCode string, hand *holdem.Hand) error

// SaveHand calls fn
func (fn HandSaverFunc) SaveHand(ctx context.Context, roomCode string, hand *holdem.Hand) error {
	return fn(ctx, roomCode, hand)
}

// roomCodeLength is how many characters a table code has
const roomCodeLength = 8

// PitBoss owns the card room's tables and dispatches players to them
type PitBoss struct {
	tables  map[string]*Table
	dealers map[string]*Dealer
	lock    sync.RWMutex

	saver         HandSaver
	actionTimeout time.Duration

	connect    chan *Client
	disconnect chan *Client
}

// NewPitBoss returns a new dispatch object
func NewPitBoss(saver HandSaver, actionTimeout time.Duration) *PitBoss {
	return &PitBoss{
		tables:        make(map[string]*Table),
		dealers:       make(map[string]*Dealer),
		saver:         saver,
		actionTimeout: actionTimeout,
		connect:       make(chan *Client, 256),
		disconnect:    make(chan *Client, 256),
	}
}

// CreateTable opens a new table and returns it
func (p *PitBoss) CreateTable(name string, options holdem.Options) (*Table, error) {
	code, err := token.Generate(roomCodeLength)
	if err != nil {
		return nil, err
	}

	table, err := NewTable(code, name, options)
	if err != nil {
		return nil, err
	}

	p.lock.Lock()
	p.tables[code] = table
	p.lock.Unlock()

	logrus.WithFields(logrus.Fields{
		"code": code,
		"name": name,
	}).Info("table created")

	return table, nil
}

// GetTable returns the table with the given code
func (p *PitBoss) GetTable(code string) (*Table, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	table, found := p.tables[code]
	if !found {
		return nil, fmt.Errorf("table not found: %s", code)
	}

	return table, nil
}

// StartShift starts the PitBoss run loop
func (p *PitBoss) StartShift() {
	go p.runLoop()
}

func (p *PitBoss) runLoop() {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("player", client.String()).Debug("client connected")
			p.lock.Lock()
			dealer, found := p.dealers[client.table.Code]
			if !found {
				dealer = NewDealer(p, client.table)
				dealer.StartShift()
				p.dealers[client.table.Code] = dealer
			}
			p.lock.Unlock()

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("player", client.String()).Debug("client disconnected")
			p.lock.Lock()
			dealer, found := p.dealers[client.table.Code]
			if !found {
				p.lock.Unlock()
				logrus.WithField("code", client.table.Code).WithField("type", "exception").Error("table not found")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()
				delete(p.dealers, client.table.Code)
			}
			p.lock.Unlock()
		}
	}
}

// ClientConnected is called when a client connects to the server
func (p *PitBoss) ClientConnected(client *Client) {
	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	p.disconnect <- client
}
