package engine

// PlayerSnapshot is the read-only view of one seat in an EngineSnapshot.
// HoleCards is populated only for the requesting user's own seat.
type PlayerSnapshot struct {
	UserID              string   `json:"userId"`
	Username            string   `json:"username"`
	Position            int      `json:"position"`
	Stack               int      `json:"stack"`
	CommittedThisStreet int      `json:"committedThisStreet"`
	CommittedThisHand   int      `json:"committedThisHand"`
	HoleCards           []string `json:"holeCards,omitempty"`
	Folded              bool     `json:"folded"`
	AllIn               bool     `json:"allIn"`
	Eliminated          bool     `json:"eliminated"`
}

// EngineSnapshot is a public, read-only view of the Engine's state for a
// reconnecting client: enough to redraw the table without exposing other
// players' hole cards.
type EngineSnapshot struct {
	HandNumber int              `json:"handNumber"`
	Street     Street           `json:"street"`
	Board      []string         `json:"board"`
	Pot        int              `json:"pot"`
	CurrentBet int              `json:"currentBet"`
	MinRaise   int              `json:"minRaise"`
	ToActPos   int              `json:"toActPos"`
	DealerPos  int              `json:"dealerPos"`
	SBPos      int              `json:"sbPos"`
	BBPos      int              `json:"bbPos"`
	InHand     bool             `json:"inHand"`
	Players    []PlayerSnapshot `json:"players"`
}

// Snapshot returns the current table state with hole cards filtered to
// forUserID, per the reconnection contract: a disconnected player can
// rejoin mid-hand and rebuild their view from one read.
func (e *Engine) Snapshot(forUserID string) EngineSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := EngineSnapshot{
		InHand: e.state == lifecycleInHand,
	}

	snap.Players = make([]PlayerSnapshot, len(e.players))
	for i, p := range e.players {
		ps := PlayerSnapshot{
			UserID:              p.UserID,
			Username:            p.Username,
			Position:            p.Position,
			Stack:               p.Stack,
			CommittedThisStreet: p.CommittedThisStreet,
			CommittedThisHand:   p.CommittedThisHand,
			Folded:              p.Folded,
			AllIn:               p.AllIn,
			Eliminated:          p.Eliminated,
		}
		if p.UserID == forUserID {
			ps.HoleCards = cardStrings(p.HoleCards)
		}
		snap.Players[i] = ps
	}

	if e.hand != nil {
		snap.HandNumber = e.hand.HandNumber
		snap.Street = e.hand.Street
		snap.Board = cardStrings(e.hand.Board)
		snap.Pot = e.hand.Pot
		snap.CurrentBet = e.hand.CurrentBet
		snap.MinRaise = e.hand.MinRaise
		snap.ToActPos = e.hand.ToActPos
		snap.DealerPos = e.hand.DealerPos
		snap.SBPos = e.hand.SmallBlindPos
		snap.BBPos = e.hand.BigBlindPos
	} else {
		snap.DealerPos = e.dealerPos
		snap.SBPos = e.sbPos
		snap.BBPos = e.bbPos
	}

	return snap
}
