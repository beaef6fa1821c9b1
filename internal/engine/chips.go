package engine

import "github.com/csc667-team-z-j/holdem-engine/internal/pot"

// commitChips moves amount chips from p's stack into the pot via the pot
// package's bookkeeping, then copies the result back onto p and into
// e.hand.Pot. amount must not exceed p.Stack.
func (e *Engine) commitChips(p *PlayerState, amount int) error {
	ledger := pot.NewLedger()
	ledger.Pot = e.hand.Pot

	pp := &pot.Player{
		ID:                  p.UserID,
		Position:            p.Position,
		Stack:               p.Stack,
		CommittedThisStreet: p.CommittedThisStreet,
		CommittedThisHand:   p.CommittedThisHand,
		Folded:              p.Folded,
		AllIn:               p.AllIn,
	}
	if err := ledger.Commit(pp, amount); err != nil {
		return err
	}

	p.Stack = pp.Stack
	p.CommittedThisStreet = pp.CommittedThisStreet
	p.CommittedThisHand = pp.CommittedThisHand
	p.AllIn = pp.AllIn
	e.hand.Pot = ledger.Pot
	return nil
}
