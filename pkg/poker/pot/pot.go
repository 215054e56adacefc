package pot

import (
	"encoding/json"
	"fmt"
)

// Pot tracks every chip wagered during a single hand. The uncommitted ledger
// holds the current street's bets; committed holds everything collected from
// prior streets. The raise bookkeeping (lastPostedNickname,
// lastRaisedNickname, lastRaisedStep) is the only state a betting dealer needs
// to derive whose turn it is and what a legal raise looks like.
type Pot struct {
	minBet         Chips
	anteAmount     Chips
	uncommitted    Bets
	committed      Bets
	lastPosted     Nickname
	hasLastPosted  bool
	lastRaised     Nickname
	hasLastRaised  bool
	lastRaisedStep Chips
}

// New returns a pot for a new hand. minBet is the big blind; it seeds the
// raise step at the start of every street.
func New(minBet Chips) *Pot {
	if minBet <= 0 {
		panic(fmt.Sprintf("min bet must be positive, got %d", minBet))
	}

	return &Pot{
		minBet:         minBet,
		uncommitted:    NewBets(),
		committed:      NewBets(),
		lastRaisedStep: minBet,
	}
}

// MinBet returns the big blind the pot was created with
func (p *Pot) MinBet() Chips {
	return p.minBet
}

// TotalAmount returns every chip currently in the pot
func (p *Pot) TotalAmount() Chips {
	return p.anteAmount.Add(p.uncommitted.TotalAmount()).Add(p.committed.TotalAmount())
}

// PostAnte adds a forced, unattributed contribution. Antes never affect the
// turn-order or raise bookkeeping.
func (p *Pot) PostAnte(amount Chips) {
	if amount < 0 {
		panic(fmt.Sprintf("cannot post negative ante %d", amount))
	}

	p.anteAmount = p.anteAmount.Add(amount)
}

// PostBlind posts a forced bet. A blind always counts as the last post and
// the last raise; the raise step only grows if the blind exceeds it, which
// captures straddles posting more than a big blind.
func (p *Pot) PostBlind(nickname Nickname, amount Chips) {
	p.uncommitted = p.uncommitted.Post(nickname, amount)
	p.lastPosted, p.hasLastPosted = nickname, true
	p.lastRaised, p.hasLastRaised = nickname, true

	if amount > p.lastRaisedStep {
		p.lastRaisedStep = amount
	}
}

// PostBet posts a voluntary amount: a zero-amount check, a call, a raise, or
// an all-in. It returns true only when the post is a genuine raise, meaning
// the poster's new street total exceeds everyone else's by at least the
// current raise step. Short all-ins that do not reach a full raise keep the
// previous raise bookkeeping, which is what prevents them from reopening the
// action.
func (p *Pot) PostBet(nickname Nickname, amount Chips) bool {
	previousMax := p.uncommitted.MaxAmountPostedNotBy(nickname)
	newTotal := p.uncommitted.AmountPostedBy(nickname).Add(amount)

	p.uncommitted = p.uncommitted.Post(nickname, amount)
	p.lastPosted, p.hasLastPosted = nickname, true

	step, err := newTotal.Sub(previousMax)
	if err != nil || step < p.lastRaisedStep {
		return false
	}

	p.lastRaised, p.hasLastRaised = nickname, true
	p.lastRaisedStep = step
	return true
}

// RefundBet returns part of an uncalled bet out of the uncommitted ledger.
// Refunding more than the nickname posted is a caller bug.
func (p *Pot) RefundBet(nickname Nickname, amount Chips) {
	refunded, err := p.uncommitted.Refund(nickname, amount)
	if err != nil {
		panic(err)
	}

	p.uncommitted = refunded
}

// CommitBets merges the current street's bets into the committed ledger and
// resets the raise bookkeeping. This marks the end of a street.
func (p *Pot) CommitBets() {
	p.committed = p.committed.Add(p.uncommitted)
	p.uncommitted = NewBets()
	p.hasLastPosted = false
	p.hasLastRaised = false
	p.lastPosted = ""
	p.lastRaised = ""
	p.lastRaisedStep = p.minBet
}

// HasUncommittedBets returns true if anything was posted this street,
// including zero-amount checks
func (p *Pot) HasUncommittedBets() bool {
	return p.uncommitted.Len() > 0
}

// PostedUncommittedBet returns true if the nickname posted anything this
// street, including a zero-amount check
func (p *Pot) PostedUncommittedBet(nickname Nickname) bool {
	return p.uncommitted.HasEntry(nickname)
}

// UncommittedAmount returns the nickname's total for the current street
func (p *Pot) UncommittedAmount(nickname Nickname) Chips {
	return p.uncommitted.AmountPostedBy(nickname)
}

// MaxUncommittedAmountNotBy returns the largest street total among the other
// nicknames
func (p *Pot) MaxUncommittedAmountNotBy(nickname Nickname) Chips {
	return p.uncommitted.MaxAmountPostedNotBy(nickname)
}

// LastPostedNickname returns the nickname that last posted this street
func (p *Pot) LastPostedNickname() (Nickname, bool) {
	return p.lastPosted, p.hasLastPosted
}

// LastRaisedNickname returns the nickname that last genuinely raised (or
// posted a blind) this street
func (p *Pot) LastRaisedNickname() (Nickname, bool) {
	return p.lastRaised, p.hasLastRaised
}

// LastRaisedStep returns the size of the last genuine raise this street
func (p *Pot) LastRaisedStep() Chips {
	return p.lastRaisedStep
}

// CalculateRefund returns the single nickname, if any, whose street total
// exceeds every other nickname's, along with the uncalled excess. At most one
// such nickname can exist.
func (p *Pot) CalculateRefund() (Nickname, Chips, bool) {
	nickname, ok := p.uncommitted.NicknamePostedMaxAmount()
	if !ok {
		return "", 0, false
	}

	excess, err := p.uncommitted.AmountPostedBy(nickname).Sub(p.uncommitted.MaxAmountPostedNotBy(nickname))
	if err != nil || excess == 0 {
		return "", 0, false
	}

	return nickname, excess, true
}

// CalculateSidePots splits the pooled pot (committed plus uncommitted) into
// layers. Each pass slices off the smallest non-zero remaining contribution:
// contributors still in eligibleNicknames compete for the layer, everyone
// else's slice becomes dead money. Consecutive layers with an identical
// competitor set collapse into one, so streets where nobody changed stack
// tier do not produce spurious layers. Antes ride along as dead money in the
// first layer. The layers are returned smallest stack tier first and their
// totals always sum to the pot's total.
func (p *Pot) CalculateSidePots(eligibleNicknames []Nickname) []SidePot {
	eligible := make(map[Nickname]bool, len(eligibleNicknames))
	for _, nickname := range eligibleNicknames {
		eligible[nickname] = true
	}

	remaining := p.committed.Add(p.uncommitted)
	anteLeft := p.anteAmount

	sidePots := make([]SidePot, 0, 1)
	for remaining.TotalAmount() > 0 {
		minAmount := minNonZeroAmount(remaining)

		layerBets := NewBets()
		layerDead := NewBets()
		for _, entry := range remaining.Entries() {
			if entry.Amount == 0 {
				continue
			}

			var err error
			remaining, err = remaining.Refund(entry.Nickname, minAmount)
			if err != nil {
				panic(err)
			}

			if eligible[entry.Nickname] {
				layerBets = layerBets.Post(entry.Nickname, minAmount)
			} else {
				layerDead = layerDead.Post(entry.Nickname, minAmount)
			}
		}

		competitors := make([]Nickname, 0, layerBets.Len())
		for _, entry := range layerBets.Entries() {
			competitors = append(competitors, entry.Nickname)
		}

		layer := NewSidePot(competitors, layerBets, layerDead, anteLeft)
		anteLeft = 0

		if n := len(sidePots); n > 0 && sidePots[n-1].sameCompetitors(layer) {
			sidePots[n-1] = sidePots[n-1].merge(layer)
		} else {
			sidePots = append(sidePots, layer)
		}
	}

	// a pot funded purely by antes still needs a layer to award
	if anteLeft > 0 {
		sidePots = append(sidePots, NewSidePot(eligibleNicknames, NewBets(), NewBets(), anteLeft))
	}

	return sidePots
}

func minNonZeroAmount(bets Bets) Chips {
	for _, entry := range bets.Entries() {
		if entry.Amount > 0 {
			return entry.Amount
		}
	}

	panic("no non-zero entries")
}

// WinSidePot removes an awarded layer's chips from the pot. Crediting the
// winners' stacks is the caller's responsibility. The layer must have been
// produced by CalculateSidePots against the pot's current state.
func (p *Pot) WinSidePot(sidePot SidePot) {
	merged := p.committed
	committed, err := merged.Sub(sidePot.bets)
	if err != nil {
		panic(err)
	}

	committed, err = committed.Sub(sidePot.deadBets)
	if err != nil {
		panic(err)
	}

	p.committed = committed
	p.anteAmount = mustSub(p.anteAmount, sidePot.anteAmount)
}

type potJSON struct {
	MinBet         Chips    `json:"minBet"`
	AnteAmount     Chips    `json:"anteAmount"`
	Uncommitted    Bets     `json:"uncommittedBets"`
	Committed      Bets     `json:"committedBets"`
	LastPosted     Nickname `json:"lastPostedNickname,omitempty"`
	LastRaised     Nickname `json:"lastRaisedNickname,omitempty"`
	LastRaisedStep Chips    `json:"lastRaisedStep"`
	TotalAmount    Chips    `json:"totalAmount"`
}

// MarshalJSON encodes the pot state
func (p *Pot) MarshalJSON() ([]byte, error) {
	return json.Marshal(potJSON{
		MinBet:         p.minBet,
		AnteAmount:     p.anteAmount,
		Uncommitted:    p.uncommitted,
		Committed:      p.committed,
		LastPosted:     p.lastPosted,
		LastRaised:     p.lastRaised,
		LastRaisedStep: p.lastRaisedStep,
		TotalAmount:    p.TotalAmount(),
	})
}
