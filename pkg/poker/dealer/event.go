package dealer

import (
	"encoding/json"
	"fmt"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/poker/action"
	"cardroom-server/pkg/poker/eval"
	"cardroom-server/pkg/poker/pot"
)

// event type identifiers
const (
	TypeStageStarted          = "stage-started"
	TypePlayerActionRequested = "player-action-requested"
	TypePlayerActed           = "player-acted"
	TypeBetRefunded           = "bet-refunded"
	TypeBetsCollected         = "bets-collected"
	TypeStageFinished         = "stage-finished"
	TypeHoleCardsShown        = "hole-cards-shown"
	TypeHoleCardsMucked       = "hole-cards-mucked"
	TypeWinCommitted          = "win-committed"
)

// Event is a single entry in a hand's append-only log. The set of events is
// closed: dealers emit them as returned batches and replay them through
// Handle, and an unrecognized event there is a caller bug.
type Event interface {
	EventType() string
	isEvent()
}

// StageStarted marks the beginning of a betting round or the settlement
type StageStarted struct{}

// PlayerActionRequested asks a player for a decision and describes every
// legal option, including exact call and raise amounts
type PlayerActionRequested struct {
	Nickname         pot.Nickname `json:"nickname"`
	FoldAvailable    bool         `json:"foldAvailable"`
	CheckAvailable   bool         `json:"checkAvailable"`
	CallAvailable    bool         `json:"callAvailable"`
	CallByAmount     pot.Chips    `json:"callByAmount"`
	RaiseAvailable   bool         `json:"raiseAvailable"`
	MinRaiseByAmount pot.Chips    `json:"minRaiseByAmount"`
	MaxRaiseByAmount pot.Chips    `json:"maxRaiseByAmount"`
}

// PlayerActed records a validated decision
type PlayerActed struct {
	Nickname pot.Nickname    `json:"nickname"`
	Decision action.Decision `json:"decision"`
}

// BetRefunded returns the uncalled excess of a bet to its poster
type BetRefunded struct {
	Nickname pot.Nickname `json:"nickname"`
	Amount   pot.Chips    `json:"amount"`
}

// BetsCollected marks the street's bets being merged into the pot
type BetsCollected struct{}

// StageFinished marks the end of a betting round or the settlement
type StageFinished struct{}

// HoleCardsShown reveals a player's cards and their evaluated combo
type HoleCardsShown struct {
	Nickname pot.Nickname `json:"nickname"`
	Cards    deck.Hand    `json:"cards"`
	Combo    eval.Combo   `json:"combo"`
}

// HoleCardsMucked records a player declining to show their cards
type HoleCardsMucked struct {
	Nickname pot.Nickname `json:"nickname"`
}

// WinCommitted awards one pot layer. Nicknames are listed in payout order:
// when the amount does not split evenly, the leading nicknames receive the
// extra chips.
type WinCommitted struct {
	Nicknames []pot.Nickname `json:"nicknames"`
	Amount    pot.Chips      `json:"amount"`
}

// EventType implementations

// EventType returns the type identifier
func (StageStarted) EventType() string { return TypeStageStarted }

// EventType returns the type identifier
func (PlayerActionRequested) EventType() string { return TypePlayerActionRequested }

// EventType returns the type identifier
func (PlayerActed) EventType() string { return TypePlayerActed }

// EventType returns the type identifier
func (BetRefunded) EventType() string { return TypeBetRefunded }

// EventType returns the type identifier
func (BetsCollected) EventType() string { return TypeBetsCollected }

// EventType returns the type identifier
func (StageFinished) EventType() string { return TypeStageFinished }

// EventType returns the type identifier
func (HoleCardsShown) EventType() string { return TypeHoleCardsShown }

// EventType returns the type identifier
func (HoleCardsMucked) EventType() string { return TypeHoleCardsMucked }

// EventType returns the type identifier
func (WinCommitted) EventType() string { return TypeWinCommitted }

func (StageStarted) isEvent()          {}
func (PlayerActionRequested) isEvent() {}
func (PlayerActed) isEvent()           {}
func (BetRefunded) isEvent()           {}
func (BetsCollected) isEvent()         {}
func (StageFinished) isEvent()         {}
func (HoleCardsShown) isEvent()        {}
func (HoleCardsMucked) isEvent()       {}
func (WinCommitted) isEvent()          {}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MarshalEvent encodes an event with its type identifier
func MarshalEvent(ev Event) ([]byte, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}

	return json.Marshal(envelope{
		Type:    ev.EventType(),
		Payload: payload,
	})
}

// UnmarshalEvent decodes an event produced by MarshalEvent
func UnmarshalEvent(b []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, err
	}

	var ev Event
	switch env.Type {
	case TypeStageStarted:
		ev = &StageStarted{}
	case TypePlayerActionRequested:
		ev = &PlayerActionRequested{}
	case TypePlayerActed:
		ev = &PlayerActed{}
	case TypeBetRefunded:
		ev = &BetRefunded{}
	case TypeBetsCollected:
		ev = &BetsCollected{}
	case TypeStageFinished:
		ev = &StageFinished{}
	case TypeHoleCardsShown:
		ev = &HoleCardsShown{}
	case TypeHoleCardsMucked:
		ev = &HoleCardsMucked{}
	case TypeWinCommitted:
		ev = &WinCommitted{}
	default:
		return nil, fmt.Errorf("unknown event type: %s", env.Type)
	}

	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, ev); err != nil {
			return nil, err
		}
	}

	return deref(ev), nil
}

// deref returns the value form so decoded events compare equal to emitted ones
func deref(ev Event) Event {
	switch e := ev.(type) {
	case *StageStarted:
		return *e
	case *PlayerActionRequested:
		return *e
	case *PlayerActed:
		return *e
	case *BetRefunded:
		return *e
	case *BetsCollected:
		return *e
	case *StageFinished:
		return *e
	case *HoleCardsShown:
		return *e
	case *HoleCardsMucked:
		return *e
	case *WinCommitted:
		return *e
	}

	panic(fmt.Sprintf("unknown event type %T", ev))
}
