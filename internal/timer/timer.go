// Package timer wraps a quartz.Clock to arm and disarm the per-turn
// countdown described in spec §4.4, with deterministic behavior under test.
package timer

import (
	"context"
	"sync"
	"time"

	"github.com/coder/quartz"
)

// Timer fires onExpire once, seconds after Arm is called, unless Disarm
// runs first, and calls onTick once per second in between with the
// number of seconds remaining. A Timer is reusable: Arm may be called
// again after Disarm or after expiry.
type Timer struct {
	clock quartz.Clock

	mu         sync.Mutex
	timer      *quartz.Timer
	tickCancel context.CancelFunc
	armed      bool
}

// New returns a Timer driven by clock. Production callers pass
// quartz.NewReal(); tests pass quartz.NewMock(t) to control time directly.
func New(clock quartz.Clock) *Timer {
	return &Timer{clock: clock}
}

// Arm schedules onExpire to run after seconds elapse, and onTick once per
// second before that with the countdown remaining. Any previously armed
// timer is disarmed first. Both callbacks run on the clock's own
// goroutine, so callers that mutate Engine state from them must do so
// through the same serialization the Engine otherwise relies on. ctx
// bounds the ticker's lifetime independent of Arm's caller; pass a
// context that outlives the triggering request (e.g.
// context.Background()), not one tied to it.
func (t *Timer) Arm(ctx context.Context, seconds int, onTick func(remaining int), onExpire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	tickCtx, cancel := context.WithCancel(ctx)
	t.tickCancel = cancel

	remaining := seconds
	t.clock.TickerFunc(tickCtx, time.Second, func() error {
		remaining--
		if onTick != nil {
			onTick(remaining)
		}
		return nil
	}, "turn-tick")

	d := time.Duration(seconds) * time.Second
	t.timer = t.clock.AfterFunc(d, func() {
		t.Disarm()
		onExpire()
	})
	t.armed = true
}

// Disarm cancels a pending expiry and its tick stream. It is idempotent
// and safe to call on a Timer that was never armed or has already fired.
func (t *Timer) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.armed = false
}

func (t *Timer) stopLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.tickCancel != nil {
		t.tickCancel()
		t.tickCancel = nil
	}
}

// Armed reports whether a countdown is currently pending.
func (t *Timer) Armed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.armed
}
