// Package engine implements the authoritative per-room Texas Hold'em
// hand lifecycle: deck and deal, betting-round progression, side-pot
// accounting, hand evaluation, dealer rotation, and event/persistence
// fan-out. One Engine drives exactly one room; all mutation happens
// through the methods below and the turn timer's callbacks, each of
// which takes the Engine's mutex. Calls arriving from several goroutines
// (cmd/server calls SubmitAction and StartHand from each websocket
// connection's read pump; the timer fires on the clock's goroutine) are
// therefore serialized by the mutex rather than queued through a channel.
package engine

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/csc667-team-z-j/holdem-engine/internal/timer"
)

// Config holds the room-level constants. Defaults match the fixed
// constants for this engine; production rooms load these from HCL
// (internal/config).
type Config struct {
	StartingStack        int
	SmallBlind           int
	BigBlind             int
	TurnTimerSeconds     int
	MaxSeats             int
	MinSeatsToStart      int
	InterHandPauseSeconds int
}

// DefaultConfig returns the fixed constants.
func DefaultConfig() Config {
	return Config{
		StartingStack:         1500,
		SmallBlind:            10,
		BigBlind:              20,
		TurnTimerSeconds:      30,
		MaxSeats:              10,
		MinSeatsToStart:       2,
		InterHandPauseSeconds: 3,
	}
}

type lifecycle string

const (
	lifecycleIdle   lifecycle = "idle"
	lifecycleInHand lifecycle = "inHand"
	lifecycleError  lifecycle = "error"
	lifecycleEnded  lifecycle = "ended"
)

// Engine is the per-room hand state machine.
type Engine struct {
	mu sync.Mutex

	roomID string
	gameID string
	cfg    Config

	broadcaster Broadcaster
	store       Store
	clock       quartz.Clock
	logger      *log.Logger

	state      lifecycle
	players    []*PlayerState // seat order; sorted by Position
	hand       *HandState
	turnTimer  *timer.Timer
	handNumber int
	dealerPos  int
	sbPos      int
	bbPos      int
	positionsInitialized bool
}

// NewEngine constructs an idle Engine for one room.
func NewEngine(roomID, gameID string, cfg Config, broadcaster Broadcaster, store Store, clock quartz.Clock, logger *log.Logger) *Engine {
	e := &Engine{
		roomID:      roomID,
		gameID:      gameID,
		cfg:         cfg,
		broadcaster: broadcaster,
		store:       store,
		clock:       clock,
		logger:      logger,
		state:       lifecycleIdle,
	}
	e.turnTimer = timer.New(clock)
	return e
}

// Seat adds a player at the next free position. Returns BadInput if the
// room is full or the user is already seated.
func (e *Engine) Seat(userID, username string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.players) >= e.cfg.MaxSeats {
		return newError(BadInput, "room at max seats (%d)", e.cfg.MaxSeats)
	}
	for _, p := range e.players {
		if p.UserID == userID {
			return newError(BadInput, "user %s already seated", userID)
		}
	}

	pos := nextFreePosition(e.players)
	e.players = append(e.players, &PlayerState{
		UserID:   userID,
		Username: username,
		Position: pos,
		Stack:    e.cfg.StartingStack,
	})
	sort.Slice(e.players, func(i, j int) bool { return e.players[i].Position < e.players[j].Position })

	return nil
}

// Unseat removes a player. Mid-hand removal of a non-eliminated seat is
// refused: the chip-accounting contract requires every participant who
// was dealt in to remain addressable until HandComplete.
func (e *Engine) Unseat(userID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, p := range e.players {
		if p.UserID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return newError(BadInput, "user %s not seated", userID)
	}

	if e.state == lifecycleInHand && !e.players[idx].Eliminated {
		return newError(IllegalAction, "cannot unseat %s mid-hand", userID)
	}

	e.players = append(e.players[:idx], e.players[idx+1:]...)
	return nil
}

func nextFreePosition(players []*PlayerState) int {
	used := map[int]bool{}
	for _, p := range players {
		used[p.Position] = true
	}
	for i := 0; ; i++ {
		if !used[i] {
			return i
		}
	}
}
