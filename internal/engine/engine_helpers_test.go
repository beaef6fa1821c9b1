package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// recordedEvent captures one Broadcast or SendPrivate call for assertion
// in tests. userID is empty for room-wide broadcasts.
type recordedEvent struct {
	roomID  string
	userID  string
	event   EventType
	payload any
}

// recordingBroadcaster is an in-memory Broadcaster double that preserves
// emission order, the only guarantee the engine relies on.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{}
}

func (b *recordingBroadcaster) Broadcast(roomID string, event EventType, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{roomID: roomID, event: event, payload: payload})
}

func (b *recordingBroadcaster) SendPrivate(roomID, userID string, event EventType, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{roomID: roomID, userID: userID, event: event, payload: payload})
}

func (b *recordingBroadcaster) all() []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]recordedEvent{}, b.events...)
}

func (b *recordingBroadcaster) ofType(t EventType) []recordedEvent {
	var out []recordedEvent
	for _, e := range b.all() {
		if e.event == t {
			out = append(out, e)
		}
	}
	return out
}

// memoryStore is an in-memory Store double that records calls in order,
// matching the persistence ordering contract the Engine relies on.
type memoryStore struct {
	mu       sync.Mutex
	nextHand int
	hands    []string
	actions  []string
	winners  []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) InsertHand(ctx context.Context, gameID string, handNumber, dealerSeat, sbSeat, bbSeat int, street string, pot int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHand++
	id := fmt.Sprintf("hand-%d", s.nextHand)
	s.hands = append(s.hands, id)
	return id, nil
}

func (s *memoryStore) InsertHoleCards(ctx context.Context, handID, userID, card1, card2 string) error {
	return nil
}

func (s *memoryStore) InsertAction(ctx context.Context, handID, userID, actionType string, amount int, street string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, fmt.Sprintf("%s:%s:%s:%d:%s", handID, userID, actionType, amount, street))
	return nil
}

func (s *memoryStore) UpdateHandBoardStreetPot(ctx context.Context, handID string, board []string, street string, pot int) error {
	return nil
}

func (s *memoryStore) InsertWinner(ctx context.Context, handID, userID string, amountWon int, handRankName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.winners = append(s.winners, fmt.Sprintf("%s:%s:%d:%s", handID, userID, amountWon, handRankName))
	return nil
}

func (s *memoryStore) MarkHandCompleted(ctx context.Context, handID string) error {
	return nil
}

// testEngine wires an Engine against the in-memory doubles and a mock
// clock, seating n players named p0..p(n-1) each with the default
// starting stack.
type testEngine struct {
	engine      *Engine
	broadcaster *recordingBroadcaster
	store       *memoryStore
	clock       *quartz.Mock
}

func newTestEngine(t *testing.T, n int, cfg Config) *testEngine {
	t.Helper()
	clock := quartz.NewMock(t)
	b := newRecordingBroadcaster()
	s := newMemoryStore()
	logger := log.NewWithOptions(io.Discard, log.Options{})

	e := NewEngine("room-1", "game-1", cfg, b, s, clock, logger)
	for i := 0; i < n; i++ {
		_ = e.Seat(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i))
	}

	return &testEngine{engine: e, broadcaster: b, store: s, clock: clock}
}
