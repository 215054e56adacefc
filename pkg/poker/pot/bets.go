package pot

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Nickname identifies a player at the table. It is opaque to the wagering
// engine; the engine only relies on equality and lexicographic order.
type Nickname string

// Bets is a ledger of chips posted per nickname during a single accounting
// lap. The zero value is an empty ledger. Bets is a persistent value: every
// mutator returns a new ledger and never touches the receiver, so snapshots
// taken at any point remain valid.
type Bets struct {
	entries map[Nickname]Chips
}

// NewBets returns an empty ledger
func NewBets() Bets {
	return Bets{}
}

// Entry is a single nickname's posted amount
type Entry struct {
	Nickname Nickname `json:"nickname"`
	Amount   Chips    `json:"amount"`
}

func (b Bets) clone() map[Nickname]Chips {
	entries := make(map[Nickname]Chips, len(b.entries)+1)
	for nickname, amount := range b.entries {
		entries[nickname] = amount
	}

	return entries
}

// Post adds amount to the nickname's entry, creating the entry if absent.
// A zero amount still creates the entry, which is how a check leaves its mark.
func (b Bets) Post(nickname Nickname, amount Chips) Bets {
	if amount < 0 {
		panic(fmt.Sprintf("cannot post negative amount %d for %s", amount, nickname))
	}

	entries := b.clone()
	entries[nickname] = entries[nickname].Add(amount)
	return Bets{entries: entries}
}

// Refund subtracts amount from the nickname's entry. Refunding more than the
// nickname posted returns ErrNegativeChips.
func (b Bets) Refund(nickname Nickname, amount Chips) (Bets, error) {
	remaining, err := b.entries[nickname].Sub(amount)
	if err != nil {
		return Bets{}, fmt.Errorf("cannot refund %d to %s: %w", amount, nickname, err)
	}

	entries := b.clone()
	entries[nickname] = remaining
	return Bets{entries: entries}, nil
}

// Add combines two ledgers per-key
func (b Bets) Add(other Bets) Bets {
	entries := b.clone()
	for nickname, amount := range other.entries {
		entries[nickname] = entries[nickname].Add(amount)
	}

	return Bets{entries: entries}
}

// Sub subtracts the other ledger per-key, dropping entries that reach zero.
// An underflow on any key returns ErrNegativeChips.
func (b Bets) Sub(other Bets) (Bets, error) {
	entries := b.clone()
	for nickname, amount := range other.entries {
		remaining, err := entries[nickname].Sub(amount)
		if err != nil {
			return Bets{}, fmt.Errorf("cannot subtract %d from %s: %w", amount, nickname, err)
		}

		if remaining == 0 {
			delete(entries, nickname)
		} else {
			entries[nickname] = remaining
		}
	}

	return Bets{entries: entries}, nil
}

// TotalAmount is the sum of all entries
func (b Bets) TotalAmount() Chips {
	var total Chips
	for _, amount := range b.entries {
		total = total.Add(amount)
	}

	return total
}

// AmountPostedBy returns the nickname's entry, or zero if absent
func (b Bets) AmountPostedBy(nickname Nickname) Chips {
	return b.entries[nickname]
}

// HasEntry returns true if the nickname posted anything this lap, including a
// zero-amount check
func (b Bets) HasEntry(nickname Nickname) bool {
	_, ok := b.entries[nickname]
	return ok
}

// MaxAmountPostedNotBy returns the largest entry among all other nicknames,
// or zero if there are none
func (b Bets) MaxAmountPostedNotBy(nickname Nickname) Chips {
	var max Chips
	for other, amount := range b.entries {
		if other == nickname {
			continue
		}

		if amount > max {
			max = amount
		}
	}

	return max
}

// NicknamePostedMaxAmount returns the nickname with the largest entry.
// Ties resolve to the lexicographically greatest nickname so the result is
// deterministic. The second return is false for an empty ledger.
func (b Bets) NicknamePostedMaxAmount() (Nickname, bool) {
	entries := b.Entries()
	if len(entries) == 0 {
		return "", false
	}

	return entries[len(entries)-1].Nickname, true
}

// Entries returns the ledger ordered by (amount ascending, nickname
// ascending). Side-pot layering and remainder-chip awards both depend on this
// exact order.
func (b Bets) Entries() []Entry {
	entries := make([]Entry, 0, len(b.entries))
	for nickname, amount := range b.entries {
		entries = append(entries, Entry{Nickname: nickname, Amount: amount})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Amount != entries[j].Amount {
			return entries[i].Amount < entries[j].Amount
		}

		return entries[i].Nickname < entries[j].Nickname
	})

	return entries
}

// Len returns the number of entries
func (b Bets) Len() int {
	return len(b.entries)
}

// MarshalJSON encodes the ledger in its canonical order
func (b Bets) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Entries())
}
