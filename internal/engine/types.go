package engine

import "github.com/csc667-team-z-j/holdem-engine/internal/deck"

// Street names a betting round.
type Street string

const (
	StreetPreflop  Street = "preflop"
	StreetFlop     Street = "flop"
	StreetTurn     Street = "turn"
	StreetRiver    Street = "river"
	StreetShowdown Street = "showdown"
	StreetComplete Street = "complete"
)

// ActionType names a client-submitted or synthesized player action.
type ActionType string

const (
	Fold   ActionType = "fold"
	Check  ActionType = "check"
	Call   ActionType = "call"
	Raise  ActionType = "raise"
	AllIn  ActionType = "all_in"
)

// Action is a client-submitted action. Amount is meaningful only for
// Raise, and is the total committedThisStreet the player wants to reach,
// not the increment.
type Action struct {
	Type   ActionType
	Amount int
}

// PlayerState is one seated player's state. Per-hand fields are reset at
// the head of StartHand.
type PlayerState struct {
	UserID              string
	Username            string
	Position            int
	Stack               int
	CommittedThisStreet int
	CommittedThisHand   int
	HoleCards           []deck.Card
	Folded              bool
	AllIn               bool
	Eliminated          bool
	HasActedThisStreet  bool
}

// Live reports whether p can still act or contest the pot this hand:
// seated, not eliminated, not folded.
func (p *PlayerState) Live() bool {
	return !p.Eliminated && !p.Folded
}

// HandState is the mutable state of one hand in progress.
type HandState struct {
	HandNumber       int
	DealerPos        int
	SmallBlindPos    int
	BigBlindPos      int
	ToActPos         int
	Street           Street
	Board            []deck.Card
	Pot              int
	CurrentBet       int
	MinRaise         int
	LastAggressorPos int
	HasLastAggressor bool
	Deck             *deck.Deck
	HandID           string

	// StackTotalAtStart is the sum of every seated player's Stack captured
	// before StartHand mutates anything. handComplete compares the post-
	// award total against this to catch chip-accounting bugs.
	StackTotalAtStart int
}
