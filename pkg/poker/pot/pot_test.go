package pot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPot_blindsAndRaiseStep(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	p.PostBlind("sb", 5)
	p.PostBlind("bb", 10)

	nickname, ok := p.LastPostedNickname()
	a.True(ok)
	a.Equal(Nickname("bb"), nickname)

	nickname, ok = p.LastRaisedNickname()
	a.True(ok)
	a.Equal(Nickname("bb"), nickname)
	a.Equal(Chips(10), p.LastRaisedStep())
	a.Equal(Chips(15), p.TotalAmount())

	// a straddle beyond the big blind grows the step
	p.PostBlind("straddler", 20)
	a.Equal(Chips(20), p.LastRaisedStep())
}

func TestPot_PostBet_raiseDetection(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	p.PostBlind("sb", 5)
	p.PostBlind("bb", 10)

	// flat call is not a raise
	a.False(p.PostBet("utg", 10))
	nickname, _ := p.LastRaisedNickname()
	a.Equal(Nickname("bb"), nickname)

	// raise to 25 is genuine: step becomes 15
	a.True(p.PostBet("button", 25))
	nickname, _ = p.LastRaisedNickname()
	a.Equal(Nickname("button"), nickname)
	a.Equal(Chips(15), p.LastRaisedStep())

	// short all-in to 30 does not reach 25+15, so it is not a raise
	a.False(p.PostBet("sb", 25))
	nickname, _ = p.LastRaisedNickname()
	a.Equal(Nickname("button"), nickname)
	a.Equal(Chips(15), p.LastRaisedStep())

	nickname, ok := p.LastPostedNickname()
	a.True(ok)
	a.Equal(Nickname("sb"), nickname)
}

func TestPot_CommitBets(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	p.PostBlind("sb", 5)
	p.PostBlind("bb", 10)
	p.PostBet("sb", 5)
	p.PostBet("bb", 0)

	a.True(p.PostedUncommittedBet("sb"))
	p.CommitBets()

	a.False(p.PostedUncommittedBet("sb"))
	a.Equal(Chips(20), p.TotalAmount())
	a.Equal(Chips(10), p.LastRaisedStep())

	_, ok := p.LastPostedNickname()
	a.False(ok)
	_, ok = p.LastRaisedNickname()
	a.False(ok)
}

func TestPot_CalculateRefund(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	_, _, ok := p.CalculateRefund()
	a.False(ok)

	p.PostBet("alice", 100)
	p.PostBet("bob", 60)

	nickname, amount, ok := p.CalculateRefund()
	a.True(ok)
	a.Equal(Nickname("alice"), nickname)
	a.Equal(Chips(40), amount)

	p.RefundBet(nickname, amount)
	_, _, ok = p.CalculateRefund()
	a.False(ok)
	a.Equal(Chips(120), p.TotalAmount())
}

func TestPot_CalculateRefund_loneBettor(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	p.PostBet("alice", 100)

	nickname, amount, ok := p.CalculateRefund()
	a.True(ok)
	a.Equal(Nickname("alice"), nickname)
	a.Equal(Chips(100), amount)
}

// three-way all-in at different stack depths, with antes. The pot must split
// into a 2403 layer contested by everyone and a 200 layer contested by the
// two deeper stacks.
func TestPot_CalculateSidePots_threeWayAllIn(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	for i := 0; i < 3; i++ {
		p.PostAnte(1)
	}

	p.PostBlind("alice", 5)
	p.PostBlind("bob", 10)
	p.PostBet("charlie", 25)
	p.PostBet("alice", 115) // 3-bet to 120
	p.PostBet("bob", 790)   // all-in to 800
	p.PostBet("charlie", 875)
	p.PostBet("alice", 880) // all-in to 1000

	nickname, amount, ok := p.CalculateRefund()
	a.True(ok)
	a.Equal(Nickname("alice"), nickname)
	a.Equal(Chips(100), amount)
	p.RefundBet(nickname, amount)

	p.CommitBets()
	a.Equal(Chips(2603), p.TotalAmount())

	sidePots := p.CalculateSidePots([]Nickname{"alice", "bob", "charlie"})
	a.Len(sidePots, 2)

	a.Equal(Chips(2403), sidePots[0].TotalAmount())
	a.Equal([]Nickname{"alice", "bob", "charlie"}, sidePots[0].Competitors())
	a.Equal(Chips(3), sidePots[0].DeadAmount())

	a.Equal(Chips(200), sidePots[1].TotalAmount())
	a.Equal([]Nickname{"alice", "charlie"}, sidePots[1].Competitors())
	a.Equal(Chips(0), sidePots[1].DeadAmount())

	a.Equal(p.TotalAmount(), sidePots[0].TotalAmount().Add(sidePots[1].TotalAmount()))
}

func TestPot_CalculateSidePots_foldedMoneyIsDead(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	p.PostBet("alice", 100)
	p.PostBet("bob", 100)
	p.PostBet("charlie", 40) // charlie folds after putting in 40
	p.CommitBets()

	sidePots := p.CalculateSidePots([]Nickname{"alice", "bob"})
	a.Len(sidePots, 1)

	sidePot := sidePots[0]
	a.Equal([]Nickname{"alice", "bob"}, sidePot.Competitors())
	a.Equal(Chips(40), sidePot.DeadAmount())
	a.Equal(Chips(240), sidePot.TotalAmount())
}

func TestPot_CalculateSidePots_mergesAcrossStreets(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	p.PostBet("alice", 50)
	p.PostBet("bob", 50)
	p.PostBet("charlie", 50)
	p.CommitBets()

	p.PostBet("alice", 100)
	p.PostBet("bob", 100)
	p.CommitBets()

	// charlie folded on the second street; his first-street chips are dead
	sidePots := p.CalculateSidePots([]Nickname{"alice", "bob"})
	a.Len(sidePots, 1)
	a.Equal(Chips(350), sidePots[0].TotalAmount())
	a.Equal(Chips(50), sidePots[0].DeadAmount())
}

func TestPot_WinSidePot(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	p.PostAnte(2)
	p.PostBet("alice", 100)
	p.PostBet("bob", 60)
	p.PostBet("charlie", 100)
	p.CommitBets()

	// bob is all-in for 60: one layer for everyone, one for the deep stacks
	sidePots := p.CalculateSidePots([]Nickname{"alice", "bob", "charlie"})
	a.Len(sidePots, 2)

	total := p.TotalAmount()
	for _, sidePot := range sidePots {
		p.WinSidePot(sidePot)
		total = total - sidePot.TotalAmount()
		a.Equal(total, p.TotalAmount())
	}

	a.Equal(Chips(0), p.TotalAmount())
}

func TestPot_conservation(t *testing.T) {
	a := assert.New(t)

	p := New(10)
	var leftStacks Chips

	post := func(nickname Nickname, amount Chips) {
		p.PostBet(nickname, amount)
		leftStacks += amount
	}

	p.PostBlind("alice", 5)
	p.PostBlind("bob", 10)
	leftStacks += 15

	post("charlie", 10)
	post("alice", 5)
	post("bob", 0)
	p.CommitBets()

	post("alice", 40)
	post("bob", 40)
	post("charlie", 90)
	post("alice", 50)
	post("bob", 50)
	p.CommitBets()

	a.Equal(leftStacks, p.TotalAmount())
}
