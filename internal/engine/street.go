package engine

import "context"

// nextStreet implements NextStreet() in §4.5. It resets per-street
// state, deals the next street's board cards (no burn, per this
// engine's design), persists and emits the advance, then either starts
// betting or, if every live player is already all-in, loops straight
// through to the next street (or to HandComplete at the river).
func (e *Engine) nextStreet(ctx context.Context) {
	e.resetStreetState()

	switch e.hand.Street {
	case StreetPreflop:
		if !e.dealBoard(3) {
			return
		}
		e.hand.Street = StreetFlop
	case StreetFlop:
		if !e.dealBoard(1) {
			return
		}
		e.hand.Street = StreetTurn
	case StreetTurn:
		if !e.dealBoard(1) {
			return
		}
		e.hand.Street = StreetRiver
	case StreetRiver:
		e.hand.Street = StreetShowdown
		e.handComplete(ctx)
		return
	default:
		return
	}

	if !e.persistBoardStreetPot(ctx) {
		return
	}
	e.emit(EventStreetAdvanced, StreetAdvancedPayload{
		Street: e.hand.Street,
		Board:  cardStrings(e.hand.Board),
		Pot:    e.hand.Pot,
	})

	e.beginBettingOrRunout(ctx, e.hand.DealerPos)
}

// resetStreetState implements NextStreet step 1.
func (e *Engine) resetStreetState() {
	for _, p := range e.handParticipants() {
		if p.Folded {
			continue
		}
		p.CommittedThisStreet = 0
		p.HasActedThisStreet = p.AllIn
	}
	e.hand.CurrentBet = 0
	e.hand.MinRaise = e.cfg.BigBlind
	e.hand.HasLastAggressor = false
}

// dealBoard deals n cards from the hand's deck onto the board. Returns
// false (after moving the engine to the fatal error state) if the deck
// is exhausted, which per this engine's design should be unreachable.
func (e *Engine) dealBoard(n int) bool {
	cards, err := e.hand.Deck.Deal(n)
	if err != nil {
		e.fail(DeckExhausted, "dealBoard(%d): %v", n, err)
		return false
	}
	e.hand.Board = append(e.hand.Board, cards...)
	return true
}
