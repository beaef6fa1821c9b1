package engine

import (
	"context"

	"github.com/csc667-team-z-j/holdem-engine/internal/deck"
)

// StartHand begins a new hand. Preconditions: the engine is idle (or a
// previous game has ended) and at least MinSeatsToStart non-eliminated
// players are seated.
func (e *Engine) StartHand(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != lifecycleIdle && e.state != lifecycleEnded {
		return newError(IllegalAction, "engine is not idle")
	}

	live := e.nonEliminatedPlayers()
	if len(live) < e.cfg.MinSeatsToStart {
		return newError(IllegalAction, "need at least %d non-eliminated players, have %d", e.cfg.MinSeatsToStart, len(live))
	}

	for _, p := range live {
		p.Folded = false
		p.AllIn = false
		p.HasActedThisStreet = false
		p.CommittedThisStreet = 0
		p.CommittedThisHand = 0
		p.HoleCards = nil
	}

	if !e.positionsInitialized {
		e.dealerPos = live[0].Position
		e.assignBlindPositions(live)
		e.positionsInitialized = true
	}

	d, err := deck.NewShuffled()
	if err != nil {
		e.fail(DeckExhausted, "NewShuffled: %v", err)
		return &EngineError{Kind: DeckExhausted, Message: err.Error()}
	}

	stackTotal := 0
	for _, p := range e.players {
		stackTotal += p.Stack
	}

	e.handNumber++
	e.hand = &HandState{
		HandNumber:    e.handNumber,
		DealerPos:     e.dealerPos,
		SmallBlindPos: e.sbPos,
		BigBlindPos:   e.bbPos,
		Street:        StreetPreflop,
		Board:         nil,
		Pot:           0,
		CurrentBet:    e.cfg.BigBlind,
		MinRaise:      e.cfg.BigBlind,
		LastAggressorPos: e.bbPos,
		HasLastAggressor: true,
		Deck:          d,
		StackTotalAtStart: stackTotal,
	}

	e.postBlind(e.sbPos, e.cfg.SmallBlind)
	e.postBlind(e.bbPos, e.cfg.BigBlind)

	e.dealHoleCards(live)

	if !e.persistInsertHand(ctx) {
		return &EngineError{Kind: StorageFailure, Message: "failed to open hand record"}
	}
	for _, p := range live {
		if !e.persistInsertHoleCards(ctx, p) {
			return &EngineError{Kind: StorageFailure, Message: "failed to persist hole cards"}
		}
	}

	e.state = lifecycleInHand

	e.emit(EventHandStarted, HandStartedPayload{
		HandNumber: e.hand.HandNumber,
		DealerPos:  e.hand.DealerPos,
		SBPos:      e.hand.SmallBlindPos,
		BBPos:      e.hand.BigBlindPos,
		Pot:        e.hand.Pot,
	})
	for _, p := range live {
		e.emitPrivate(p.UserID, EventHoleCardsDealt, HoleCardsDealtPayload{HoleCards: cardStrings(p.HoleCards)})
	}

	e.beginBettingOrRunout(ctx, e.bbPos)

	return nil
}

// nonEliminatedPlayers returns seated players still in the game, in
// Position order (which defines clockwise order).
func (e *Engine) nonEliminatedPlayers() []*PlayerState {
	out := make([]*PlayerState, 0, len(e.players))
	for _, p := range e.players {
		if !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}

// assignBlindPositions sets SB/BB from the dealer position the caller has
// already set (StartHand for the first hand, rotate after every hand);
// heads-up makes the dealer the small blind.
func (e *Engine) assignBlindPositions(live []*PlayerState) {
	if len(live) == 2 {
		e.sbPos = e.dealerPos
		e.bbPos = otherPosition(live, e.dealerPos)
		return
	}
	e.sbPos = nextClockwise(live, e.dealerPos)
	e.bbPos = nextClockwise(live, e.sbPos)
}

func otherPosition(live []*PlayerState, pos int) int {
	for _, p := range live {
		if p.Position != pos {
			return p.Position
		}
	}
	return pos
}

// nextClockwise returns the position of the next live player clockwise of
// pos (pos itself need not belong to a live player).
func nextClockwise(live []*PlayerState, pos int) int {
	best := -1
	for _, p := range live {
		if p.Position > pos && (best == -1 || p.Position < best) {
			best = p.Position
		}
	}
	if best == -1 {
		// wrap: smallest position
		min := live[0].Position
		for _, p := range live {
			if p.Position < min {
				min = p.Position
			}
		}
		return min
	}
	return best
}

func (e *Engine) postBlind(position, amount int) {
	p := e.playerAt(position)
	if p == nil {
		return
	}
	commit := amount
	if commit > p.Stack {
		commit = p.Stack
	}
	_ = e.commitChips(p, commit)
}

func (e *Engine) playerAt(position int) *PlayerState {
	for _, p := range e.players {
		if p.Position == position {
			return p
		}
	}
	return nil
}

// dealHoleCards deals two cards to each participant, one card per round,
// clockwise starting left of the dealer, per the dealing order in §4.5.
func (e *Engine) dealHoleCards(live []*PlayerState) {
	order := e.clockwiseFrom(e.dealerPos, live)
	for round := 0; round < 2; round++ {
		for _, p := range order {
			card, err := e.hand.Deck.Deal(1)
			if err != nil {
				e.fail(DeckExhausted, "dealHoleCards: %v", err)
				return
			}
			p.HoleCards = append(p.HoleCards, card...)
		}
	}
}

// clockwiseFrom returns live players ordered starting with the first live
// seat strictly clockwise of pos, wrapping around.
func (e *Engine) clockwiseFrom(pos int, live []*PlayerState) []*PlayerState {
	sorted := append([]*PlayerState{}, live...)
	startIdx := 0
	for i, p := range sorted {
		if p.Position > pos {
			startIdx = i
			break
		}
		if i == len(sorted)-1 {
			startIdx = 0
		}
	}
	out := make([]*PlayerState, 0, len(sorted))
	out = append(out, sorted[startIdx:]...)
	out = append(out, sorted[:startIdx]...)
	return out
}
