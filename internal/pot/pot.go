// Package pot implements per-street bet tracking, side-pot partitioning
// under mixed stack sizes, and showdown distribution (spec §4.3).
package pot

import (
	"errors"
	"sort"

	"github.com/csc667-team-z-j/holdem-engine/internal/evaluator"
)

// ErrInsufficientChips is returned when a commit or raise would exceed the
// player's stack without being an explicit all-in.
var ErrInsufficientChips = errors.New("pot: insufficient chips")

// ErrBelowMinRaise is returned when a raise's total is below currentBet+minRaise.
var ErrBelowMinRaise = errors.New("pot: raise below minimum")

// Player is the subset of per-seat chip state the ledger needs to move
// chips. The engine's PlayerState satisfies this shape by field, not by
// interface, to keep this package free of a dependency on internal/engine.
type Player struct {
	ID                   string
	Position             int
	Stack                int
	CommittedThisStreet  int
	CommittedThisHand    int
	Folded               bool
	AllIn                bool
}

// Ledger tracks the running pot total across a hand's commits.
type Ledger struct {
	Pot int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Commit moves amount chips from the player's stack into the pot, updating
// committedThisStreet, committedThisHand, stack and the running pot total.
// The caller (the Engine) is responsible for capping amount at the
// player's stack when the action is an all-in; Commit treats an amount
// that exceeds the stack as a caller error.
func (l *Ledger) Commit(p *Player, amount int) error {
	if amount < 0 {
		return errors.New("pot: negative commit amount")
	}
	if amount > p.Stack {
		return ErrInsufficientChips
	}

	p.Stack -= amount
	p.CommittedThisStreet += amount
	p.CommittedThisHand += amount
	l.Pot += amount

	if p.Stack == 0 {
		p.AllIn = true
	}

	return nil
}

// ValidateRaise checks the legality of a Raise(to) action per spec §4.5:
// to must be at least currentBet+minRaise, and the increment must not
// exceed the player's stack.
func ValidateRaise(to, currentBet, minRaise, committedThisStreet, stack int) error {
	if to < currentBet+minRaise {
		return ErrBelowMinRaise
	}
	if to-committedThisStreet > stack {
		return ErrInsufficientChips
	}
	return nil
}

// SidePot is one partition of the pot, restricted to players who
// committed at least the pot's level.
type SidePot struct {
	Amount   int
	Eligible map[string]bool
}

// Contribution is a player's final commitment for a hand, used to compute
// the side-pot partition at hand end.
type Contribution struct {
	UserID            string
	Position          int
	CommittedThisHand int
	Folded            bool
}

// Partition computes the side-pot levels per spec §4.3: sort the distinct
// positive committedThisHand values ascending L1<L2<...<Lk; for each level
// Li (L0=0), the pot at that level is (Li-Li-1) * |{p: committed >= Li}|,
// eligible for players who are not folded and committed >= Li. Folded
// chips are absorbed into whichever level they cover but grant no
// eligibility.
func Partition(contribs []Contribution) []SidePot {
	levelSet := map[int]bool{}
	for _, c := range contribs {
		if c.CommittedThisHand > 0 {
			levelSet[c.CommittedThisHand] = true
		}
	}
	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	pots := make([]SidePot, 0, len(levels))
	prev := 0
	for _, level := range levels {
		amount := 0
		eligible := map[string]bool{}
		for _, c := range contribs {
			if c.CommittedThisHand >= prev+1 {
				contribAtLevel := c.CommittedThisHand
				if contribAtLevel > level {
					contribAtLevel = level
				}
				amount += contribAtLevel - prev
			}
			if !c.Folded && c.CommittedThisHand >= level {
				eligible[c.UserID] = true
			}
		}
		if amount > 0 {
			pots = append(pots, SidePot{Amount: amount, Eligible: eligible})
		}
		prev = level
	}

	return pots
}

// Distribute awards each side pot to its eligible winners (determined by
// ranks, the evaluated HandRank per eligible player). Ties split
// floor(amount/winners) each; the remainder is handed out one chip at a
// time following clockwiseOrder, a list of userIDs ordered clockwise
// starting from the smallest seat position clockwise of the dealer.
func Distribute(pots []SidePot, ranks map[string]evaluator.HandRank, clockwiseOrder []string) map[string]int {
	awarded := map[string]int{}

	for _, sp := range pots {
		contenders := map[string]evaluator.HandRank{}
		for id := range sp.Eligible {
			if rank, ok := ranks[id]; ok {
				contenders[id] = rank
			}
		}
		if len(contenders) == 0 {
			continue
		}

		winners := evaluator.FindWinners(contenders)
		orderedWinners := make([]string, 0, len(winners))
		for _, id := range clockwiseOrder {
			if winners[id] {
				orderedWinners = append(orderedWinners, id)
			}
		}

		share := sp.Amount / len(orderedWinners)
		remainder := sp.Amount % len(orderedWinners)

		for i, id := range orderedWinners {
			amount := share
			if i < remainder {
				amount++
			}
			awarded[id] += amount
		}
	}

	return awarded
}

// AwardUncontested returns the entire pot to a single player, used by the
// fold-out short-circuit: if exactly one non-folded player remains before
// showdown, that player wins the pot without evaluation.
func AwardUncontested(amount int, winnerID string) map[string]int {
	return map[string]int{winnerID: amount}
}
