package engine

import "github.com/csc667-team-z-j/holdem-engine/internal/deck"

// EventType identifies a room-scoped or per-user event emitted by the
// Engine, per the event contract.
type EventType string

const (
	EventHandStarted       EventType = "HandStarted"
	EventHoleCardsDealt    EventType = "HoleCardsDealt"
	EventPotUpdated        EventType = "PotUpdated"
	EventActionPerformed   EventType = "ActionPerformed"
	EventStreetAdvanced    EventType = "StreetAdvanced"
	EventTurnStarted       EventType = "TurnStarted"
	EventTurnTick          EventType = "TurnTick"
	EventWinnerDetermined  EventType = "WinnerDetermined"
	EventStacksUpdated     EventType = "StacksUpdated"
	EventPositionsUpdated  EventType = "PositionsUpdated"
	EventGameEnded         EventType = "GameEnded"
	EventGameError         EventType = "GameError"
)

// HandStartedPayload is broadcast when a hand begins.
type HandStartedPayload struct {
	HandNumber int `json:"handNumber"`
	DealerPos  int `json:"dealerPos"`
	SBPos      int `json:"sbPos"`
	BBPos      int `json:"bbPos"`
	Pot        int `json:"pot"`
}

// HoleCardsDealtPayload is sent privately to the owning user.
type HoleCardsDealtPayload struct {
	HoleCards []string `json:"holeCards"`
}

// PotUpdatedPayload is broadcast after each action applied through
// SubmitAction.
type PotUpdatedPayload struct {
	Pot int `json:"pot"`
}

// ActionPerformedPayload is broadcast after a player action is applied.
type ActionPerformedPayload struct {
	UserID     string     `json:"userId"`
	Action     ActionType `json:"action"`
	Amount     int        `json:"amount"`
	Pot        int        `json:"pot"`
	CurrentBet int        `json:"currentBet"`
}

// StreetAdvancedPayload is broadcast when the board grows.
type StreetAdvancedPayload struct {
	Street Street   `json:"street"`
	Board  []string `json:"board"`
	Pot    int      `json:"pot"`
}

// TurnStartedPayload is broadcast when a new seat is on the clock.
type TurnStartedPayload struct {
	UserID        string `json:"userId"`
	Position      int    `json:"position"`
	TimeRemaining int    `json:"timeRemaining"`
	CurrentBet    int    `json:"currentBet"`
	MinRaise      int    `json:"minRaise"`
	CallAmount    int    `json:"callAmount"`
}

// TurnTickPayload is broadcast each second while a turn is on the clock.
type TurnTickPayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

// WinnerEntry is one winner's share from HandComplete.
type WinnerEntry struct {
	UserID       string   `json:"userId"`
	AmountWon    int      `json:"amountWon"`
	HandRankName string   `json:"handRankName"`
	HoleCards    []string `json:"holeCards,omitempty"`
}

// WinnerDeterminedPayload is broadcast once per completed hand.
type WinnerDeterminedPayload struct {
	Winners []WinnerEntry `json:"winners"`
	Pot     int           `json:"pot"`
	Board   []string       `json:"board"`
}

// StackEntry is one player's stack snapshot.
type StackEntry struct {
	UserID     string `json:"userId"`
	Stack      int    `json:"stack"`
	Eliminated bool   `json:"eliminated"`
}

// StacksUpdatedPayload is broadcast after chips move between stacks.
type StacksUpdatedPayload struct {
	Players []StackEntry `json:"players"`
}

// PositionsUpdatedPayload is broadcast after Rotate.
type PositionsUpdatedPayload struct {
	DealerPos int `json:"dealerPos"`
	SBPos     int `json:"sbPos"`
	BBPos     int `json:"bbPos"`
}

// GameEndedWinner names the sole remaining stack when a game ends.
type GameEndedWinner struct {
	UserID string `json:"userId"`
	Stack  int    `json:"stack"`
}

// GameEndedPayload is broadcast when fewer than two players have chips.
type GameEndedPayload struct {
	Winner *GameEndedWinner `json:"winner,omitempty"`
}

// GameErrorPayload carries a client-facing or room-fatal error.
type GameErrorPayload struct {
	Message string    `json:"message"`
	Kind    ErrorKind `json:"kind"`
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
