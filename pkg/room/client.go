package room

import (
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/poker/pot"
)

// Client is a player connected to a table via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	nickname pot.Nickname
	table    *Table
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, nickname pot.Nickname, table *Table) *Client {
	return &Client{
		send:     make(chan interface{}, 256),
		Close:    make(chan string),
		Conn:     conn,
		nickname: nickname,
		table:    table,
	}
}

// Nickname returns the player this client authenticated as
func (c *Client) Nickname() pot.Nickname {
	return c.nickname
}

// Send send a message to the web client
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.nickname, c.table.Code)
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	if c.dealer == nil {
		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
