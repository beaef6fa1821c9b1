package engine

import (
	"context"

	"github.com/csc667-team-z-j/holdem-engine/internal/pot"
)

// SubmitAction applies a client-submitted action for userId. It fails
// with a client-facing EngineError (no state mutation) if the engine is
// not mid-hand, the seat isn't on the clock, or the player can't act.
func (e *Engine) SubmitAction(ctx context.Context, userID string, action Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != lifecycleInHand {
		err := newError(NotInHand, "no hand in progress")
		e.emitGameError(userID, err)
		return err
	}

	p := e.playerAt(e.hand.ToActPos)
	if p == nil || p.UserID != userID {
		err := newError(NotYourTurn, "it is not %s's turn", userID)
		e.emitGameError(userID, err)
		return err
	}
	if p.Folded || p.AllIn || p.Eliminated {
		err := newError(NotInHand, "%s cannot act", userID)
		e.emitGameError(userID, err)
		return err
	}

	e.turnTimer.Disarm()

	recordedType, amount, actionErr := e.applyAction(p, action)
	if actionErr != nil {
		e.emitGameError(userID, actionErr)
		// the player is still on the clock; re-arm so they can retry
		e.startTurnFor(p)
		return actionErr
	}

	if !e.persistInsertAction(ctx, userID, recordedType, amount) {
		return &EngineError{Kind: StorageFailure, Message: "failed to persist action"}
	}

	e.emit(EventActionPerformed, ActionPerformedPayload{
		UserID:     userID,
		Action:     recordedType,
		Amount:     amount,
		Pot:        e.hand.Pot,
		CurrentBet: e.hand.CurrentBet,
	})
	e.emit(EventPotUpdated, PotUpdatedPayload{Pot: e.hand.Pot})

	e.advance(ctx)
	return nil
}

// applyAction validates and performs the dispatch table in §4.5, returning
// the action type and chip amount to persist on success.
func (e *Engine) applyAction(p *PlayerState, action Action) (ActionType, int, *EngineError) {
	switch action.Type {
	case Fold:
		p.Folded = true
		p.HasActedThisStreet = true
		return Fold, 0, nil

	case Check:
		if p.CommittedThisStreet != e.hand.CurrentBet {
			return "", 0, newError(IllegalAction, "cannot check, %d owed", e.hand.CurrentBet-p.CommittedThisStreet)
		}
		p.HasActedThisStreet = true
		return Check, 0, nil

	case Call:
		if e.hand.CurrentBet <= p.CommittedThisStreet {
			return "", 0, newError(IllegalAction, "nothing to call")
		}
		amount := e.hand.CurrentBet - p.CommittedThisStreet
		if amount > p.Stack {
			amount = p.Stack
		}
		if err := e.commitChips(p, amount); err != nil {
			return "", 0, newError(InsufficientChips, "%v", err)
		}
		p.HasActedThisStreet = true
		return Call, amount, nil

	case Raise:
		if err := pot.ValidateRaise(action.Amount, e.hand.CurrentBet, e.hand.MinRaise, p.CommittedThisStreet, p.Stack); err != nil {
			if err == pot.ErrBelowMinRaise {
				return "", 0, newError(IllegalAction, "raise to %d below minimum (currentBet=%d minRaise=%d)", action.Amount, e.hand.CurrentBet, e.hand.MinRaise)
			}
			return "", 0, newError(InsufficientChips, "%v", err)
		}

		increment := action.Amount - p.CommittedThisStreet
		previousCurrentBet := e.hand.CurrentBet

		if err := e.commitChips(p, increment); err != nil {
			return "", 0, newError(InsufficientChips, "%v", err)
		}

		e.hand.CurrentBet = action.Amount
		e.hand.MinRaise = action.Amount - previousCurrentBet
		e.hand.LastAggressorPos = p.Position
		e.hand.HasLastAggressor = true
		p.HasActedThisStreet = true
		e.reopenActionForOthers(p)

		return Raise, increment, nil

	case AllIn:
		if p.Stack <= 0 {
			return "", 0, newError(IllegalAction, "no chips to go all-in with")
		}
		amount := p.Stack
		previousCurrentBet := e.hand.CurrentBet

		if err := e.commitChips(p, amount); err != nil {
			return "", 0, newError(InsufficientChips, "%v", err)
		}
		p.HasActedThisStreet = true

		if p.CommittedThisStreet > previousCurrentBet {
			increment := p.CommittedThisStreet - previousCurrentBet
			e.hand.CurrentBet = p.CommittedThisStreet
			e.hand.LastAggressorPos = p.Position
			e.hand.HasLastAggressor = true
			if increment >= e.hand.MinRaise {
				e.hand.MinRaise = increment
				e.reopenActionForOthers(p)
			}
		}

		return AllIn, amount, nil

	default:
		return "", 0, newError(BadInput, "unknown action type %q", action.Type)
	}
}

// reopenActionForOthers clears hasActedThisStreet for every other
// non-folded, non-all-in participant: a full raise requires everyone
// behind it to respond again.
func (e *Engine) reopenActionForOthers(raiser *PlayerState) {
	for _, other := range e.handParticipants() {
		if other == raiser || other.Folded || other.AllIn {
			continue
		}
		other.HasActedThisStreet = false
	}
}

// handParticipants returns the players dealt into the current hand, in
// seat order. Valid only while a hand is in progress.
func (e *Engine) handParticipants() []*PlayerState {
	out := make([]*PlayerState, 0, len(e.players))
	for _, p := range e.nonEliminatedPlayers() {
		if len(p.HoleCards) > 0 {
			out = append(out, p)
		}
	}
	return out
}

func (e *Engine) countNonFolded(players []*PlayerState) int {
	n := 0
	for _, p := range players {
		if !p.Folded {
			n++
		}
	}
	return n
}

func (e *Engine) countLiveNonAllIn(players []*PlayerState) int {
	n := 0
	for _, p := range players {
		if !p.Folded && !p.AllIn {
			n++
		}
	}
	return n
}

// roundComplete implements the round-complete predicate in §4.5. Note
// that the preflop big-blind option falls out of this predicate for
// free: the big blind's hasActedThisStreet is false immediately after
// StartHand posts the blind, so the round cannot be complete until the
// big blind explicitly checks or raises.
func (e *Engine) roundComplete(participants []*PlayerState) bool {
	for _, p := range participants {
		if p.Folded || p.AllIn {
			continue
		}
		if !(p.HasActedThisStreet && p.CommittedThisStreet == e.hand.CurrentBet) {
			return false
		}
	}
	return true
}

// advance implements Advance() in §4.5.
func (e *Engine) advance(ctx context.Context) {
	participants := e.handParticipants()

	if e.countNonFolded(participants) <= 1 {
		e.handComplete(ctx)
		return
	}

	if e.roundComplete(participants) {
		e.nextStreet(ctx)
		return
	}

	next := e.nextActingSeat(e.hand.ToActPos, participants)
	if next == -1 {
		// nobody left who can act; the round is effectively an all-in
		// runout even though roundComplete's strict predicate didn't
		// trip (can happen when the last actor just went all-in).
		e.nextStreet(ctx)
		return
	}
	e.hand.ToActPos = next
	e.startTurn(participants)
}

// nextActingSeat returns the next participant position clockwise of
// fromPos who is neither folded nor all-in, or -1 if none remain.
func (e *Engine) nextActingSeat(fromPos int, participants []*PlayerState) int {
	ordered := e.clockwiseFrom(fromPos, participants)
	for _, p := range ordered {
		if p.Position == fromPos {
			continue
		}
		if !p.Folded && !p.AllIn {
			return p.Position
		}
	}
	return -1
}

// beginBettingOrRunout starts the first betting action after dealing, or
// skips straight to a runout/showdown if fewer than two participants can
// still act.
func (e *Engine) beginBettingOrRunout(ctx context.Context, fromPos int) {
	participants := e.handParticipants()

	if e.countLiveNonAllIn(participants) >= 2 {
		e.hand.ToActPos = e.nextActingSeat(fromPos, participants)
		e.startTurn(participants)
		return
	}

	if e.hand.Street == StreetRiver {
		e.handComplete(ctx)
		return
	}
	e.nextStreet(ctx)
}

// startTurn arms the timer and emits TurnStarted for the current toActPos.
func (e *Engine) startTurn(participants []*PlayerState) {
	p := e.playerAt(e.hand.ToActPos)
	if p == nil {
		return
	}
	e.startTurnFor(p)
}

func (e *Engine) startTurnFor(p *PlayerState) {
	callAmount := e.hand.CurrentBet - p.CommittedThisStreet
	if callAmount < 0 {
		callAmount = 0
	}

	e.emit(EventTurnStarted, TurnStartedPayload{
		UserID:        p.UserID,
		Position:      p.Position,
		TimeRemaining: e.cfg.TurnTimerSeconds,
		CurrentBet:    e.hand.CurrentBet,
		MinRaise:      e.hand.MinRaise,
		CallAmount:    callAmount,
	})

	remaining := e.cfg.TurnTimerSeconds
	e.turnTimer.Arm(context.Background(), remaining, func(remaining int) {
		e.handleTick(p.UserID, remaining)
	}, func() {
		e.handleTimeout(context.Background(), p.UserID)
	})
}

// handleTick is invoked on the clock's own goroutine once per second while
// a turn is armed. It re-acquires the lock and re-validates that the same
// player is still on the clock before broadcasting, since the timer has no
// way to know the turn already ended by the time a tick fires.
func (e *Engine) handleTick(userID string, remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != lifecycleInHand {
		return
	}
	p := e.playerAt(e.hand.ToActPos)
	if p == nil || p.UserID != userID {
		return
	}

	e.emit(EventTurnTick, TurnTickPayload{TimeRemaining: remaining})
}

// handleTimeout is invoked on the clock's own goroutine when a turn
// expires with no action. It re-acquires the lock itself since it does
// not run on the caller's stack.
func (e *Engine) handleTimeout(ctx context.Context, userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != lifecycleInHand {
		return
	}
	p := e.playerAt(e.hand.ToActPos)
	if p == nil || p.UserID != userID {
		// state already moved on (an action took the mutex before this
		// expiry did); this expiry is a no-op.
		return
	}

	p.Folded = true
	p.HasActedThisStreet = true

	if !e.persistInsertAction(ctx, userID, Fold, 0) {
		return
	}
	e.emit(EventActionPerformed, ActionPerformedPayload{
		UserID:     userID,
		Action:     Fold,
		Amount:     0,
		Pot:        e.hand.Pot,
		CurrentBet: e.hand.CurrentBet,
	})

	e.advance(ctx)
}
