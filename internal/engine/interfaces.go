package engine

import "context"

// Broadcaster fans out events to connected clients. Production rooms wire
// a websocket-backed implementation; tests use an in-memory recorder.
// Delivery is best-effort and ordered per recipient with respect to the
// Engine's emission order; Broadcaster implementations must be safe for
// concurrent use across rooms.
type Broadcaster interface {
	// Broadcast delivers event/payload to every socket connected to roomID.
	Broadcast(roomID string, event EventType, payload any)
	// SendPrivate delivers event/payload only to sockets identified with
	// userID within roomID; all of that user's connections receive it.
	SendPrivate(roomID, userID string, event EventType, payload any)
}

// Store persists hand, action, board and winner records. Store
// implementations must be safe for concurrent use across engines; writes
// within a single hand are issued by the Engine in the order required by
// the persistence contract (insertHand before insertHoleCards, actions in
// submission order).
type Store interface {
	InsertHand(ctx context.Context, gameID string, handNumber, dealerSeat, sbSeat, bbSeat int, street string, pot int) (handID string, err error)
	InsertHoleCards(ctx context.Context, handID, userID, card1, card2 string) error
	InsertAction(ctx context.Context, handID, userID, actionType string, amount int, street string) error
	UpdateHandBoardStreetPot(ctx context.Context, handID string, board []string, street string, pot int) error
	InsertWinner(ctx context.Context, handID, userID string, amountWon int, handRankName string) error
	MarkHandCompleted(ctx context.Context, handID string) error
}
