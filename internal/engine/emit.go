package engine

func (e *Engine) emit(event EventType, payload any) {
	if e.broadcaster == nil {
		return
	}
	e.broadcaster.Broadcast(e.roomID, event, payload)
}

func (e *Engine) emitPrivate(userID string, event EventType, payload any) {
	if e.broadcaster == nil {
		return
	}
	e.broadcaster.SendPrivate(e.roomID, userID, event, payload)
}

func (e *Engine) emitGameError(userID string, err *EngineError) {
	payload := GameErrorPayload{Message: err.Message, Kind: err.Kind}
	if userID == "" || err.Kind.IsFatal() {
		e.emit(EventGameError, payload)
		return
	}
	e.emitPrivate(userID, EventGameError, payload)
}

func (e *Engine) emitStacksUpdated() {
	entries := make([]StackEntry, len(e.players))
	for i, p := range e.players {
		entries[i] = StackEntry{UserID: p.UserID, Stack: p.Stack, Eliminated: p.Eliminated}
	}
	e.emit(EventStacksUpdated, StacksUpdatedPayload{Players: entries})
}

func (e *Engine) emitPositionsUpdated() {
	e.emit(EventPositionsUpdated, PositionsUpdatedPayload{
		DealerPos: e.hand.DealerPos,
		SBPos:     e.hand.SmallBlindPos,
		BBPos:     e.hand.BigBlindPos,
	})
}
