package engine

import "context"

// fail moves the room to the quiescent error state and emits a room-wide
// GameError. Per the error policy, StorageFailure and DeckExhausted are
// room-fatal: no further actions are accepted until the room is torn down.
func (e *Engine) fail(kind ErrorKind, format string, args ...any) {
	err := newError(kind, format, args...)
	e.state = lifecycleError
	e.logger.Error("engine entering fatal error state", "room", e.roomID, "kind", kind, "message", err.Message)
	e.emitGameError("", err)
}

// persistInsertHand writes the opening hand record. Returns false if the
// write failed, in which case the Engine has already transitioned to the
// error state and the caller must abort StartHand.
func (e *Engine) persistInsertHand(ctx context.Context) bool {
	if e.store == nil {
		return true
	}
	handID, err := e.store.InsertHand(ctx, e.gameID, e.hand.HandNumber, e.hand.DealerPos, e.hand.SmallBlindPos, e.hand.BigBlindPos, string(e.hand.Street), e.hand.Pot)
	if err != nil {
		e.fail(StorageFailure, "insertHand: %v", err)
		return false
	}
	e.hand.HandID = handID
	return true
}

func (e *Engine) persistInsertHoleCards(ctx context.Context, p *PlayerState) bool {
	if e.store == nil {
		return true
	}
	if err := e.store.InsertHoleCards(ctx, e.hand.HandID, p.UserID, p.HoleCards[0].String(), p.HoleCards[1].String()); err != nil {
		e.fail(StorageFailure, "insertHoleCards: %v", err)
		return false
	}
	return true
}

func (e *Engine) persistInsertAction(ctx context.Context, userID string, actionType ActionType, amount int) bool {
	if e.store == nil {
		return true
	}
	if err := e.store.InsertAction(ctx, e.hand.HandID, userID, string(actionType), amount, string(e.hand.Street)); err != nil {
		e.fail(StorageFailure, "insertAction: %v", err)
		return false
	}
	return true
}

func (e *Engine) persistBoardStreetPot(ctx context.Context) bool {
	if e.store == nil {
		return true
	}
	if err := e.store.UpdateHandBoardStreetPot(ctx, e.hand.HandID, cardStrings(e.hand.Board), string(e.hand.Street), e.hand.Pot); err != nil {
		e.fail(StorageFailure, "updateHandBoardStreetPot: %v", err)
		return false
	}
	return true
}

func (e *Engine) persistInsertWinner(ctx context.Context, userID string, amountWon int, handRankName string) bool {
	if e.store == nil {
		return true
	}
	if err := e.store.InsertWinner(ctx, e.hand.HandID, userID, amountWon, handRankName); err != nil {
		e.fail(StorageFailure, "insertWinner: %v", err)
		return false
	}
	return true
}

func (e *Engine) persistMarkCompleted(ctx context.Context) bool {
	if e.store == nil {
		return true
	}
	if err := e.store.MarkHandCompleted(ctx, e.hand.HandID); err != nil {
		e.fail(StorageFailure, "markHandCompleted: %v", err)
		return false
	}
	return true
}
