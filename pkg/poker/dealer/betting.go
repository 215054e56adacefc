package dealer

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"cardroom-server/pkg/poker/action"
	"cardroom-server/pkg/poker/pot"
	"cardroom-server/pkg/poker/table"
)

// RuleError is a rule violation by an otherwise well-formed decision. The
// message names the exact legal amount or requirement and is safe to send to
// the offending player.
type RuleError string

func (e RuleError) Error() string {
	return string(e)
}

func newRuleErrorf(format string, args ...interface{}) RuleError {
	return RuleError(fmt.Sprintf(format, args...))
}

// dealer rule errors
var (
	ErrOutOfTurn       = RuleError("it is not your turn")
	ErrStageNotRunning = RuleError("the betting round is not running")
)

// Limit computes the largest legal raise-by increment for a player
type Limit interface {
	Name() string
	MaxRaiseBy(p *pot.Pot, player *table.Player) pot.Chips
}

// NoLimit allows raising up to the player's entire stack
type NoLimit struct{}

// Name returns the limit identifier
func (NoLimit) Name() string {
	return "no-limit"
}

// MaxRaiseBy returns the player's remaining stack
func (NoLimit) MaxRaiseBy(_ *pot.Pot, player *table.Player) pot.Chips {
	return player.Stack()
}

// PotLimit caps a raise at the size of the pot after the player would have
// called: call amount plus everything already wagered plus the call again
type PotLimit struct{}

// Name returns the limit identifier
func (PotLimit) Name() string {
	return "pot-limit"
}

// MaxRaiseBy returns the pot-limit cap, never exceeding the player's stack
func (PotLimit) MaxRaiseBy(p *pot.Pot, player *table.Player) pot.Chips {
	gap := amountToCall(p, player.Nickname())
	maxBy := gap.Add(p.TotalAmount()).Add(gap)
	return minChips(maxBy, player.Stack())
}

// BettingDealer runs a single betting round. It owns no turn cursor: the next
// actor is always derived from the pot's last poster and the table's seating,
// so a dealer rebuilt from the pot and table mid-street lands on the same
// player. The acted set tracks who has acted since the last genuine raise;
// blinds never enter it, which is what gives the big blind their option.
type BettingDealer struct {
	logger           logrus.FieldLogger
	pot              *pot.Pot
	tbl              *table.Table
	limit            Limit
	acted            map[pot.Nickname]bool
	started          bool
	finished         bool
	lastAggressor    pot.Nickname
	hasLastAggressor bool
}

// NewNoLimit returns a betting dealer with no-limit raise sizing
func NewNoLimit(logger logrus.FieldLogger, p *pot.Pot, tbl *table.Table) *BettingDealer {
	return newBettingDealer(logger, p, tbl, NoLimit{})
}

// NewPotLimit returns a betting dealer with pot-limit raise sizing
func NewPotLimit(logger logrus.FieldLogger, p *pot.Pot, tbl *table.Table) *BettingDealer {
	return newBettingDealer(logger, p, tbl, PotLimit{})
}

func newBettingDealer(logger logrus.FieldLogger, p *pot.Pot, tbl *table.Table, limit Limit) *BettingDealer {
	return &BettingDealer{
		logger: logger,
		pot:    p,
		tbl:    tbl,
		limit:  limit,
		acted:  make(map[pot.Nickname]bool),
	}
}

// LimitName returns the raise-sizing rule in play
func (d *BettingDealer) LimitName() string {
	return d.limit.Name()
}

// Finished returns true once the round is over
func (d *BettingDealer) Finished() bool {
	return d.finished
}

// LastAggressor returns the player who made the last blind, bet or raise of
// the round. It is captured when the round finishes and decides who must show
// first at a showdown.
func (d *BettingDealer) LastAggressor() (pot.Nickname, bool) {
	return d.lastAggressor, d.hasLastAggressor
}

// Start opens the betting round. Blinds and antes must already be posted. If
// nobody has a decision to make the round finishes immediately.
func (d *BettingDealer) Start() []Event {
	if d.started {
		panic("betting round already started")
	}

	d.started = true
	events := []Event{StageStarted{}}
	d.advance(&events)
	return events
}

// SubmitDecision validates and applies a decision by the player whose turn it
// is. The returned events end with either the next player's action request or
// the round finishing. Rule violations leave the round untouched.
func (d *BettingDealer) SubmitDecision(nickname pot.Nickname, decision action.Decision) ([]Event, error) {
	if !d.started || d.finished {
		return nil, ErrStageNotRunning
	}

	actor, ok := d.currentActor()
	if !ok {
		panic("betting round is running with nobody to act")
	}

	if actor.Nickname() != nickname {
		return nil, ErrOutOfTurn
	}

	gap := amountToCall(d.pot, nickname)

	switch decision.Type {
	case action.Fold:
		actor.Fold()
		d.acted[nickname] = true
	case action.Check:
		if gap > 0 {
			return nil, newRuleErrorf("cannot check: there is %d to call", minChips(gap, actor.Stack()))
		}

		d.pot.PostBet(nickname, 0)
		d.acted[nickname] = true
	case action.Call:
		if gap == 0 {
			return nil, RuleError("there is nothing to call")
		}

		callBy := minChips(gap, actor.Stack())
		if decision.Amount != callBy {
			return nil, newRuleErrorf("call must be exactly %d", callBy)
		}

		d.pot.PostBet(nickname, decision.Amount)
		actor.TakeFromStack(decision.Amount)
		d.acted[nickname] = true
	case action.Raise:
		if gap >= actor.Stack() {
			return nil, RuleError("cannot raise: calling already puts you all-in")
		}

		if d.acted[nickname] {
			return nil, RuleError("cannot raise: the action was not reopened")
		}

		minBy := minChips(gap.Add(d.pot.LastRaisedStep()), actor.Stack())
		if decision.Amount < minBy {
			return nil, newRuleErrorf("minimum raise is %d", minBy)
		}

		maxBy := d.limit.MaxRaiseBy(d.pot, actor)
		if decision.Amount > maxBy {
			return nil, newRuleErrorf("maximum raise is %d", maxBy)
		}

		d.applyRaise(actor, decision.Amount)
	default:
		return nil, fmt.Errorf("unknown decision type: %s", string(decision.Type))
	}

	d.logger.WithFields(logrus.Fields{
		"nickname": nickname,
		"decision": decision.String(),
	}).Debug("decision accepted")

	events := []Event{PlayerActed{Nickname: nickname, Decision: decision}}
	d.advance(&events)
	return events, nil
}

// applyRaise posts the raise and, if it is a genuine raise rather than a
// short all-in, reopens the action for everyone else
func (d *BettingDealer) applyRaise(player *table.Player, amount pot.Chips) {
	raised := d.pot.PostBet(player.Nickname(), amount)
	player.TakeFromStack(amount)

	if raised {
		d.acted = map[pot.Nickname]bool{player.Nickname(): true}
		return
	}

	d.acted[player.Nickname()] = true
}

// Handle replays a previously emitted event against the dealer's state.
// Events are applied without validation: they were validated when first
// emitted. An event the dealer never emits is a caller bug.
func (d *BettingDealer) Handle(ev Event) {
	switch e := ev.(type) {
	case StageStarted:
		d.started = true
	case PlayerActionRequested:
		// derived, nothing to apply
	case PlayerActed:
		d.handlePlayerActed(e)
	case BetRefunded:
		d.pot.RefundBet(e.Nickname, e.Amount)
		mustPlayer(d.tbl, e.Nickname).AddToStack(e.Amount)
	case BetsCollected:
		d.captureLastAggressor()
		d.pot.CommitBets()
	case StageFinished:
		d.captureLastAggressor()
		d.finished = true
	default:
		panic(fmt.Sprintf("unexpected event type %T", ev))
	}
}

func (d *BettingDealer) handlePlayerActed(e PlayerActed) {
	player := mustPlayer(d.tbl, e.Nickname)

	switch e.Decision.Type {
	case action.Fold:
		player.Fold()
		d.acted[e.Nickname] = true
	case action.Check:
		d.pot.PostBet(e.Nickname, 0)
		d.acted[e.Nickname] = true
	case action.Call:
		d.pot.PostBet(e.Nickname, e.Decision.Amount)
		player.TakeFromStack(e.Decision.Amount)
		d.acted[e.Nickname] = true
	case action.Raise:
		d.applyRaise(player, e.Decision.Amount)
	default:
		panic(fmt.Sprintf("unexpected decision type: %s", string(e.Decision.Type)))
	}
}

// advance asks the next eligible player for a decision, or finishes the round
// when nobody is left to act
func (d *BettingDealer) advance(events *[]Event) {
	next, ok := d.currentActor()
	if !ok {
		d.finish(events)
		return
	}

	// with no live opponent a player with nothing to call has no decision
	if d.tbl.CanActCount() < 2 && amountToCall(d.pot, next.Nickname()) == 0 {
		d.finish(events)
		return
	}

	*events = append(*events, d.actionRequest(next))
}

// finish refunds any uncalled excess, collects the street's bets into the pot
// and closes the round. The last aggressor is captured before the pot's raise
// bookkeeping is cleared.
func (d *BettingDealer) finish(events *[]Event) {
	d.captureLastAggressor()

	if nickname, amount, ok := d.pot.CalculateRefund(); ok {
		d.pot.RefundBet(nickname, amount)
		mustPlayer(d.tbl, nickname).AddToStack(amount)
		*events = append(*events, BetRefunded{Nickname: nickname, Amount: amount})
	}

	if d.pot.HasUncommittedBets() {
		d.pot.CommitBets()
		*events = append(*events, BetsCollected{})
	}

	d.finished = true
	*events = append(*events, StageFinished{})
}

func (d *BettingDealer) captureLastAggressor() {
	if nickname, ok := d.pot.LastRaisedNickname(); ok {
		d.lastAggressor, d.hasLastAggressor = nickname, true
	}
}

// currentActor derives whose turn it is: the first eligible player after the
// last poster, or after the button when nobody posted yet this street
func (d *BettingDealer) currentActor() (*table.Player, bool) {
	seat := d.tbl.Button()
	if nickname, ok := d.pot.LastPostedNickname(); ok {
		seat = mustPlayer(d.tbl, nickname).Seat()
	}

	return d.tbl.PlayerNextToSeat(seat, d.eligible)
}

// eligible reports whether a player still owes a decision this street: they
// have not acted since the last genuine raise, or their street total is below
// the highest
func (d *BettingDealer) eligible(player *table.Player) bool {
	if !player.CanAct() {
		return false
	}

	if !d.acted[player.Nickname()] {
		return true
	}

	nickname := player.Nickname()
	return d.pot.UncommittedAmount(nickname) < d.pot.MaxUncommittedAmountNotBy(nickname)
}

// actionRequest describes every legal option for the player, with exact
// amounts
func (d *BettingDealer) actionRequest(player *table.Player) PlayerActionRequested {
	nickname := player.Nickname()
	gap := amountToCall(d.pot, nickname)

	req := PlayerActionRequested{
		Nickname:      nickname,
		FoldAvailable: true,
	}

	if gap == 0 {
		req.CheckAvailable = true
	} else {
		req.CallAvailable = true
		req.CallByAmount = minChips(gap, player.Stack())
	}

	if gap < player.Stack() && !d.acted[nickname] {
		req.RaiseAvailable = true
		req.MinRaiseByAmount = minChips(gap.Add(d.pot.LastRaisedStep()), player.Stack())
		req.MaxRaiseByAmount = d.limit.MaxRaiseBy(d.pot, player)
	}

	return req
}

// amountToCall returns how many more chips the nickname needs to match the
// highest street total, ignoring their stack
func amountToCall(p *pot.Pot, nickname pot.Nickname) pot.Chips {
	posted := p.UncommittedAmount(nickname)
	highest := p.MaxUncommittedAmountNotBy(nickname)
	if highest <= posted {
		return 0
	}

	gap, err := highest.Sub(posted)
	if err != nil {
		panic(err)
	}

	return gap
}

func mustPlayer(tbl *table.Table, nickname pot.Nickname) *table.Player {
	player, err := tbl.PlayerByNickname(nickname)
	if err != nil {
		panic(err)
	}

	return player
}

func minChips(a, b pot.Chips) pot.Chips {
	if a < b {
		return a
	}

	return b
}
