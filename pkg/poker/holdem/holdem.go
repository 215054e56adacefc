package holdem

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cardroom-server/internal/rng"
	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/poker/action"
	"cardroom-server/pkg/poker/dealer"
	"cardroom-server/pkg/poker/eval"
	"cardroom-server/pkg/poker/pot"
	"cardroom-server/pkg/poker/table"
)

// ErrHandNotRunning happens when a decision arrives before the hand started
// or after it finished
var ErrHandNotRunning = dealer.RuleError("the hand is not running")

// Seat pairs a nickname with the stack it brings into the hand
type Seat struct {
	Nickname pot.Nickname `json:"nickname"`
	Stack    pot.Chips    `json:"stack"`
}

// Hand runs one complete hold'em hand: forced bets, dealing, one betting
// round per street, and the settlement. Every emitted event is appended to
// the hand's log; a hand built with the same options, seats, button and
// shuffle can be rebuilt from that log with Replay.
type Hand struct {
	logger     logrus.FieldLogger
	id         string
	options    Options
	pot        *pot.Pot
	tbl        *table.Table
	deck       *deck.Deck
	board      deck.Hand
	street     Street
	betting    *dealer.BettingDealer
	settlement *dealer.SettlementDealer
	evaluator  eval.Evaluator
	log        []dealer.Event
	started    bool
	finished   bool
}

// New returns an unstarted hand. The button indexes into seats.
func New(logger logrus.FieldLogger, options Options, seats []Seat, button int, gen rng.Generator) (*Hand, error) {
	if err := options.Validate(); err != nil {
		return nil, err
	}

	if len(seats) < 2 {
		return nil, errors.New("a hand needs at least two players")
	}

	if button < 0 || button >= len(seats) {
		return nil, fmt.Errorf("invalid button seat: %d", button)
	}

	tbl := table.New(button)
	for _, seat := range seats {
		if _, err := tbl.Seat(seat.Nickname, seat.Stack); err != nil {
			return nil, err
		}
	}

	d := deck.New(gen)
	d.Shuffle()

	id := uuid.New().String()
	return &Hand{
		logger:    logger.WithField("hand", id),
		id:        id,
		options:   options,
		pot:       pot.New(options.BigBlind),
		tbl:       tbl,
		deck:      d,
		street:    StreetPreflop,
		evaluator: eval.NewSevenCard(),
	}, nil
}

// ID returns the hand's unique identifier
func (h *Hand) ID() string {
	return h.id
}

// Options returns the hand's configuration
func (h *Hand) Options() Options {
	return h.options
}

// Street returns the current stage of the hand
func (h *Hand) Street() Street {
	return h.street
}

// Board returns the community cards dealt so far
func (h *Hand) Board() deck.Hand {
	return h.board.Clone()
}

// Pot returns the hand's pot
func (h *Hand) Pot() *pot.Pot {
	return h.pot
}

// Table returns the hand's seating
func (h *Hand) Table() *table.Table {
	return h.tbl
}

// Finished returns true once the hand is settled
func (h *Hand) Finished() bool {
	return h.finished
}

// Events returns the hand's event log
func (h *Hand) Events() []dealer.Event {
	events := make([]dealer.Event, len(h.log))
	copy(events, h.log)
	return events
}

type handJSON struct {
	ID       string          `json:"id"`
	Options  Options         `json:"options"`
	Street   Street          `json:"street"`
	Board    deck.Hand       `json:"board"`
	Pot      *pot.Pot        `json:"pot"`
	Players  []*table.Player `json:"players"`
	Finished bool            `json:"finished"`
}

// MarshalJSON encodes the hand's public state. Unrevealed hole cards stay
// hidden through the players' own encoding.
func (h *Hand) MarshalJSON() ([]byte, error) {
	return json.Marshal(handJSON{
		ID:       h.id,
		Options:  h.options,
		Street:   h.street,
		Board:    h.board,
		Pot:      h.pot,
		Players:  h.tbl.Players(),
		Finished: h.finished,
	})
}

// Start posts the forced bets, deals the hole cards and opens the preflop
// betting round. If nobody can act the hand runs out on its own, so the
// returned events may cover every street and the settlement.
func (h *Hand) Start() ([]dealer.Event, error) {
	if h.started {
		panic("hand already started")
	}

	h.started = true
	h.setup()

	h.betting = h.newBettingDealer()
	events := h.betting.Start()
	h.record(events...)

	if err := h.advance(&events); err != nil {
		return nil, err
	}

	return events, nil
}

// Action applies a decision by the player whose turn it is. When the decision
// closes a street the returned events continue into the next one, through the
// settlement if the hand ends.
func (h *Hand) Action(nickname pot.Nickname, decision action.Decision) ([]dealer.Event, error) {
	if !h.started || h.finished {
		return nil, ErrHandNotRunning
	}

	events, err := h.betting.SubmitDecision(nickname, decision)
	if err != nil {
		return nil, err
	}

	h.record(events...)
	if err := h.advance(&events); err != nil {
		return nil, err
	}

	return events, nil
}

// setup posts antes and blinds and deals every player's hole cards
func (h *Hand) setup() {
	if h.options.Ante > 0 {
		for _, player := range h.tbl.Players() {
			amount := minChips(h.options.Ante, player.Stack())
			if amount == 0 {
				continue
			}

			h.pot.PostAnte(amount)
			player.TakeFromStack(amount)
		}
	}

	small, big := h.blindPlayers()
	h.postBlind(small, h.options.SmallBlind)
	h.postBlind(big, h.options.BigBlind)

	h.dealHoleCards()
}

// blindPlayers returns the small and big blind. Heads-up the button posts the
// small blind.
func (h *Hand) blindPlayers() (*table.Player, *table.Player) {
	players := h.tbl.PlayersStartingFromSeat(h.tbl.Button())
	if len(players) == 2 {
		return players[0], players[1]
	}

	return players[1], players[2]
}

func (h *Hand) postBlind(player *table.Player, amount pot.Chips) {
	amount = minChips(amount, player.Stack())
	h.pot.PostBlind(player.Nickname(), amount)
	player.TakeFromStack(amount)

	h.logger.WithFields(logrus.Fields{
		"nickname": player.Nickname(),
		"amount":   amount,
	}).Debug("blind posted")
}

// dealHoleCards deals one card at a time around the table, starting left of
// the button
func (h *Hand) dealHoleCards() {
	order := h.tbl.PlayersStartingFromSeat(h.tbl.Button() + 1)
	hands := make(map[pot.Nickname]deck.Hand, len(order))

	for i := 0; i < h.options.Variant.HoleCards(); i++ {
		for _, player := range order {
			hands[player.Nickname()] = append(hands[player.Nickname()], h.draw())
		}
	}

	for _, player := range order {
		player.SetHoleCards(hands[player.Nickname()])
	}
}

func (h *Hand) draw() *deck.Card {
	card, err := h.deck.Draw()
	if err != nil {
		panic(err)
	}

	return card
}

// advance moves the hand forward while the current betting round is over:
// dealing the next street, or settling when the river closed or only one
// player is left
func (h *Hand) advance(events *[]dealer.Event) error {
	for !h.finished && h.betting.Finished() {
		if h.handOver() {
			settled, err := h.settle()
			if err != nil {
				return err
			}

			*events = append(*events, settled...)
			continue
		}

		h.dealNextStreet()
		h.betting = h.newBettingDealer()

		started := h.betting.Start()
		h.record(started...)
		*events = append(*events, started...)
	}

	return nil
}

func (h *Hand) handOver() bool {
	return h.street == StreetRiver || len(h.tbl.PlayersNotFolded()) == 1
}

// dealNextStreet advances the street and deals its board cards
func (h *Hand) dealNextStreet() {
	switch h.street {
	case StreetPreflop:
		h.street = StreetFlop
	case StreetFlop:
		h.street = StreetTurn
	case StreetTurn:
		h.street = StreetRiver
	default:
		panic(fmt.Sprintf("cannot deal past %s", string(h.street)))
	}

	for i := 0; i < h.street.boardCards(); i++ {
		h.board.AddCard(h.draw())
	}

	h.logger.WithFields(logrus.Fields{
		"street": h.street,
		"board":  h.board.String(),
	}).Debug("street dealt")
}

// settle builds the settlement dealer and pays out the hand
func (h *Hand) settle() ([]dealer.Event, error) {
	h.newSettlementDealer()

	events, err := h.settlement.Settle()
	if err != nil {
		return nil, err
	}

	h.record(events...)
	h.finished = true
	return events, nil
}

func (h *Hand) newBettingDealer() *dealer.BettingDealer {
	if h.options.Limit == PotLimit {
		return dealer.NewPotLimit(h.logger, h.pot, h.tbl)
	}

	return dealer.NewNoLimit(h.logger, h.pot, h.tbl)
}

func (h *Hand) newSettlementDealer() {
	h.street = StreetShowdown
	h.settlement = dealer.NewSettlement(h.logger, h.pot, h.tbl, h.evaluator, h.options.Variant, h.board)

	if nickname, ok := h.betting.LastAggressor(); ok {
		h.settlement.SetFirstToShow(nickname)
	}
}

func (h *Hand) record(events ...dealer.Event) {
	h.log = append(h.log, events...)
}

// Replay rebuilds a hand from its event log under its original id. The
// options, seats, button and generator must match the original hand; the
// shuffle is re-dealt from the generator, and the events drive the dealers
// through the same transitions.
func Replay(logger logrus.FieldLogger, id string, options Options, seats []Seat, button int, gen rng.Generator, events []dealer.Event) (*Hand, error) {
	h, err := New(logger, options, seats, button, gen)
	if err != nil {
		return nil, err
	}

	h.id = id
	h.logger = logger.WithField("hand", id)

	h.started = true
	h.setup()
	h.betting = h.newBettingDealer()

	for _, ev := range events {
		h.handleReplay(ev)
	}

	return h, nil
}

// handleReplay routes one logged event to the dealer that emitted it and
// performs the same street transitions the live hand did
func (h *Hand) handleReplay(ev dealer.Event) {
	h.record(ev)

	if h.street == StreetShowdown {
		h.settlement.Handle(ev)
		if _, ok := ev.(dealer.StageFinished); ok {
			h.finished = true
		}

		return
	}

	h.betting.Handle(ev)
	if _, ok := ev.(dealer.StageFinished); !ok {
		return
	}

	if h.handOver() {
		h.newSettlementDealer()
		return
	}

	h.dealNextStreet()
	h.betting = h.newBettingDealer()
}

func minChips(a, b pot.Chips) pot.Chips {
	if a < b {
		return a
	}

	return b
}
