package pot

import (
	"encoding/json"
	"sort"
)

// SidePot is one layer of the total pot: the set of competitors still
// eligible to win the layer, the bets they contributed into it, and the dead
// money (folded players' contributions plus any ante share) that is paid out
// with the layer but can no longer be won back by its contributors.
type SidePot struct {
	competitors map[Nickname]bool
	bets        Bets
	deadBets    Bets
	anteAmount  Chips
}

// NewSidePot returns a side pot layer. deadBets tracks folded contributors so
// an award can remove the exact entries from the pot; anteAmount is the
// unattributed forced money rolled into this layer.
func NewSidePot(competitors []Nickname, bets Bets, deadBets Bets, anteAmount Chips) SidePot {
	set := make(map[Nickname]bool, len(competitors))
	for _, nickname := range competitors {
		set[nickname] = true
	}

	return SidePot{
		competitors: set,
		bets:        bets,
		deadBets:    deadBets,
		anteAmount:  anteAmount,
	}
}

// Competitors returns the nicknames eligible to win this layer, sorted
func (s SidePot) Competitors() []Nickname {
	competitors := make([]Nickname, 0, len(s.competitors))
	for nickname := range s.competitors {
		competitors = append(competitors, nickname)
	}

	sort.Slice(competitors, func(i, j int) bool {
		return competitors[i] < competitors[j]
	})

	return competitors
}

// HasCompetitor returns true if the nickname can win this layer
func (s SidePot) HasCompetitor(nickname Nickname) bool {
	return s.competitors[nickname]
}

// Bets returns the competitors' contributions to this layer
func (s SidePot) Bets() Bets {
	return s.bets
}

// DeadAmount returns the chips in this layer that no contributor can win back
func (s SidePot) DeadAmount() Chips {
	return s.deadBets.TotalAmount().Add(s.anteAmount)
}

// TotalAmount returns the full value of the layer
func (s SidePot) TotalAmount() Chips {
	return s.bets.TotalAmount().Add(s.DeadAmount())
}

func (s SidePot) sameCompetitors(other SidePot) bool {
	if len(s.competitors) != len(other.competitors) {
		return false
	}

	for nickname := range s.competitors {
		if !other.competitors[nickname] {
			return false
		}
	}

	return true
}

// merge combines two consecutive layers with an identical competitor set
func (s SidePot) merge(other SidePot) SidePot {
	return SidePot{
		competitors: s.competitors,
		bets:        s.bets.Add(other.bets),
		deadBets:    s.deadBets.Add(other.deadBets),
		anteAmount:  s.anteAmount.Add(other.anteAmount),
	}
}

type sidePotJSON struct {
	Competitors []Nickname `json:"competitors"`
	Bets        Bets       `json:"bets"`
	DeadAmount  Chips      `json:"deadAmount"`
	TotalAmount Chips      `json:"totalAmount"`
}

// MarshalJSON encodes the side pot
func (s SidePot) MarshalJSON() ([]byte, error) {
	return json.Marshal(sidePotJSON{
		Competitors: s.Competitors(),
		Bets:        s.bets,
		DeadAmount:  s.DeadAmount(),
		TotalAmount: s.TotalAmount(),
	})
}
