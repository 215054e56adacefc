package dealer

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/thoas/go-funk"

	"cardroom-server/pkg/deck"
	"cardroom-server/pkg/poker/eval"
	"cardroom-server/pkg/poker/pot"
	"cardroom-server/pkg/poker/table"
)

// SettlementDealer ends the hand: it decides who must show, scores the shown
// hands and pays out every pot layer. It distinguishes three endings: a single
// survivor wins without showing, an all-in contender forces everyone to show
// so each layer can be scored among its own competitors, and an ordinary
// showdown walks from the last aggressor letting losing hands muck.
type SettlementDealer struct {
	logger         logrus.FieldLogger
	pot            *pot.Pot
	tbl            *table.Table
	evaluator      eval.Evaluator
	variant        eval.Variant
	board          deck.Hand
	firstToShow    pot.Nickname
	hasFirstToShow bool
	finished       bool
	pending        []pot.SidePot
	pendingSet     bool
}

// NewSettlement returns a settlement dealer for the given board
func NewSettlement(logger logrus.FieldLogger, p *pot.Pot, tbl *table.Table, evaluator eval.Evaluator, variant eval.Variant, board deck.Hand) *SettlementDealer {
	return &SettlementDealer{
		logger:    logger,
		pot:       p,
		tbl:       tbl,
		evaluator: evaluator,
		variant:   variant,
		board:     board,
	}
}

// SetFirstToShow names the last aggressor of the final betting round. They
// show first at the showdown; without one, showing starts left of the button.
func (d *SettlementDealer) SetFirstToShow(nickname pot.Nickname) {
	d.firstToShow, d.hasFirstToShow = nickname, true
}

// Finished returns true once the hand is settled
func (d *SettlementDealer) Finished() bool {
	return d.finished
}

// Settle pays out the hand. All betting rounds must be finished and their
// bets collected. Evaluator failures abort the settlement untouched.
func (d *SettlementDealer) Settle() ([]Event, error) {
	if d.finished {
		panic("hand already settled")
	}

	contenders := d.tbl.PlayersNotFolded()
	if len(contenders) == 0 {
		panic("no players left in the hand")
	}

	events := []Event{StageStarted{}}

	switch {
	case len(contenders) == 1:
		d.settleUncontested(contenders[0], &events)
	case countAllIn(contenders) >= 1:
		if err := d.settleAllInShowdown(&events); err != nil {
			return nil, err
		}
	default:
		if err := d.settleShowdown(&events); err != nil {
			return nil, err
		}
	}

	d.finished = true
	events = append(events, StageFinished{})
	return events, nil
}

// settleUncontested awards everything to the sole survivor without revealing
// their cards
func (d *SettlementDealer) settleUncontested(winner *table.Player, events *[]Event) {
	d.logger.WithField("nickname", winner.Nickname()).Debug("hand won uncontested")

	*events = append(*events, HoleCardsMucked{Nickname: winner.Nickname()})

	winners := []*table.Player{winner}
	for _, sidePot := range d.pot.CalculateSidePots([]pot.Nickname{winner.Nickname()}) {
		d.awardSidePot(sidePot, winners, events)
	}
}

// settleAllInShowdown reveals every contender's cards and awards each pot
// layer to the best hand among its competitors
func (d *SettlementDealer) settleAllInShowdown(events *[]Event) error {
	combos := make(map[pot.Nickname]eval.Combo)
	for _, player := range d.showOrder() {
		combo, err := d.evaluator.Evaluate(d.variant, d.board, player.HoleCards())
		if err != nil {
			return err
		}

		player.Reveal()
		combos[player.Nickname()] = combo
		*events = append(*events, HoleCardsShown{
			Nickname: player.Nickname(),
			Cards:    player.HoleCards(),
			Combo:    combo,
		})
	}

	for _, sidePot := range d.pot.CalculateSidePots(d.tbl.NicknamesNotFolded()) {
		var best eval.Combo
		winners := make([]*table.Player, 0, 1)
		for _, nickname := range sidePot.Competitors() {
			combo := combos[nickname]
			switch {
			case len(winners) == 0 || combo.Beats(best):
				best = combo
				winners = append(winners[:0], mustPlayer(d.tbl, nickname))
			case combo.Ties(best):
				winners = append(winners, mustPlayer(d.tbl, nickname))
			}
		}

		d.awardSidePot(sidePot, winners, events)
	}

	return nil
}

// settleShowdown walks the contenders starting from the last aggressor. The
// first always shows; after that a hand only shows if it ties or beats the
// best hand shown so far, and mucks otherwise. Nobody is all-in here, so
// every contender matched every bet and the pot holds a single layer they
// all compete for; a mucked hand can never be owed a side pot.
func (d *SettlementDealer) settleShowdown(events *[]Event) error {
	var best eval.Combo
	winners := make([]*table.Player, 0, 1)

	for _, player := range d.showOrder() {
		combo, err := d.evaluator.Evaluate(d.variant, d.board, player.HoleCards())
		if err != nil {
			return err
		}

		if len(winners) > 0 && best.Beats(combo) {
			*events = append(*events, HoleCardsMucked{Nickname: player.Nickname()})
			continue
		}

		player.Reveal()
		*events = append(*events, HoleCardsShown{
			Nickname: player.Nickname(),
			Cards:    player.HoleCards(),
			Combo:    combo,
		})

		if len(winners) == 0 || combo.Beats(best) {
			best = combo
			winners = append(winners[:0], player)
		} else {
			winners = append(winners, player)
		}
	}

	for _, sidePot := range d.pot.CalculateSidePots(d.tbl.NicknamesNotFolded()) {
		d.awardSidePot(sidePot, winners, events)
	}

	return nil
}

// awardSidePot splits one layer between the winners and drains it from the
// pot. When the amount does not split evenly, the extra chips go to the
// winners with the smallest starting stacks, nicknames breaking ties.
func (d *SettlementDealer) awardSidePot(sidePot pot.SidePot, winners []*table.Player, events *[]Event) {
	if len(winners) == 0 {
		panic("side pot has no winners")
	}

	ordered := payoutOrder(winners)
	shares := splitChips(sidePot.TotalAmount(), len(ordered))

	nicknames := make([]pot.Nickname, len(ordered))
	for i, player := range ordered {
		player.AddToStack(shares[i])
		nicknames[i] = player.Nickname()
	}

	d.pot.WinSidePot(sidePot)

	d.logger.WithFields(logrus.Fields{
		"nicknames": nicknames,
		"amount":    sidePot.TotalAmount(),
	}).Debug("pot awarded")

	*events = append(*events, WinCommitted{Nicknames: nicknames, Amount: sidePot.TotalAmount()})
}

// Handle replays a previously emitted event against the dealer's state.
// WinCommitted events consume the pot's layers in order, so a replayed
// settlement drains the pot exactly like the live one did.
func (d *SettlementDealer) Handle(ev Event) {
	switch e := ev.(type) {
	case StageStarted:
	case HoleCardsShown:
		player := mustPlayer(d.tbl, e.Nickname)
		player.SetHoleCards(e.Cards)
		player.Reveal()
	case HoleCardsMucked:
		// nothing to apply
	case WinCommitted:
		d.handleWinCommitted(e)
	case StageFinished:
		d.finished = true
	default:
		panic(fmt.Sprintf("unexpected event type %T", ev))
	}
}

func (d *SettlementDealer) handleWinCommitted(e WinCommitted) {
	if !d.pendingSet {
		d.pending = d.pot.CalculateSidePots(d.tbl.NicknamesNotFolded())
		d.pendingSet = true
	}

	if len(d.pending) == 0 {
		panic("no pot layer left to award")
	}

	sidePot := d.pending[0]
	d.pending = d.pending[1:]

	shares := splitChips(e.Amount, len(e.Nicknames))
	for i, nickname := range e.Nicknames {
		mustPlayer(d.tbl, nickname).AddToStack(shares[i])
	}

	d.pot.WinSidePot(sidePot)
}

// showOrder returns the contenders in showing order: starting from the last
// aggressor if there is one, otherwise from the seat after the button
func (d *SettlementDealer) showOrder() []*table.Player {
	seat := d.tbl.Button() + 1
	if d.hasFirstToShow {
		seat = mustPlayer(d.tbl, d.firstToShow).Seat()
	}

	return funk.Filter(d.tbl.PlayersStartingFromSeat(seat), table.NotFolded).([]*table.Player)
}

func countAllIn(players []*table.Player) int {
	return len(funk.Filter(players, func(p *table.Player) bool {
		return p.AllIn()
	}).([]*table.Player))
}

// payoutOrder sorts winners by starting stack, then nickname. The order
// decides who receives the extra chips of an uneven split.
func payoutOrder(winners []*table.Player) []*table.Player {
	ordered := make([]*table.Player, len(winners))
	copy(ordered, winners)

	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].StartingStack() != ordered[j].StartingStack() {
			return ordered[i].StartingStack() < ordered[j].StartingStack()
		}

		return ordered[i].Nickname() < ordered[j].Nickname()
	})

	return ordered
}

// splitChips divides an amount into n shares, the leading shares taking the
// remainder one chip at a time
func splitChips(amount pot.Chips, n int) []pot.Chips {
	base, err := amount.Div(n)
	if err != nil {
		panic(err)
	}

	remainder, err := amount.Mod(n)
	if err != nil {
		panic(err)
	}

	shares := make([]pot.Chips, n)
	for i := range shares {
		shares[i] = base
		if pot.Chips(i) < remainder {
			shares[i] = base.Add(1)
		}
	}

	return shares
}
