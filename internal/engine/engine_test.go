package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStartHand_PostsBlindsAndDealsCards covers the mechanical setup
// every other scenario depends on: blind posting, position assignment,
// and the first seat on the clock preflop.
func TestStartHand_PostsBlindsAndDealsCards(t *testing.T) {
	t.Parallel()
	te := newTestEngine(t, 3, DefaultConfig())
	ctx := context.Background()

	require.NoError(t, te.engine.StartHand(ctx))

	require.Equal(t, lifecycleInHand, te.engine.state)
	require.Equal(t, 0, te.engine.dealerPos)
	require.Equal(t, 1, te.engine.sbPos)
	require.Equal(t, 2, te.engine.bbPos)

	sb := te.engine.playerAt(1)
	bb := te.engine.playerAt(2)
	assert.Equal(t, 1490, sb.Stack)
	assert.Equal(t, 1480, bb.Stack)
	assert.Equal(t, 30, te.engine.hand.Pot)
	assert.Equal(t, 20, te.engine.hand.CurrentBet)
	assert.Equal(t, 0, te.engine.hand.ToActPos)

	for _, p := range te.engine.players {
		assert.Len(t, p.HoleCards, 2)
	}

	hole := te.broadcaster.ofType(EventHoleCardsDealt)
	assert.Len(t, hole, 3)
}

// TestScenarioSimpleFoldOut: three-handed, both non-big-blind players
// fold preflop and the big blind wins the pot uncontested.
func TestScenarioSimpleFoldOut(t *testing.T) {
	t.Parallel()
	te := newTestEngine(t, 3, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, te.engine.StartHand(ctx))

	require.Equal(t, 0, te.engine.hand.ToActPos)
	require.NoError(t, te.engine.SubmitAction(ctx, "p0", Action{Type: Fold}))

	require.Equal(t, 1, te.engine.hand.ToActPos)
	require.NoError(t, te.engine.SubmitAction(ctx, "p1", Action{Type: Fold}))

	assert.Equal(t, lifecycleIdle, te.engine.state)
	assert.Equal(t, 1500, te.engine.playerAt(0).Stack)
	assert.Equal(t, 1490, te.engine.playerAt(1).Stack)
	assert.Equal(t, 1510, te.engine.playerAt(2).Stack)

	won := te.broadcaster.ofType(EventWinnerDetermined)
	require.Len(t, won, 1)
	payload := won[0].payload.(WinnerDeterminedPayload)
	require.Len(t, payload.Winners, 1)
	assert.Equal(t, "p2", payload.Winners[0].UserID)
	assert.Equal(t, 30, payload.Winners[0].AmountWon)
	assert.Equal(t, winByFoldRankName, payload.Winners[0].HandRankName)
	assert.Nil(t, payload.Winners[0].HoleCards)
}

// TestScenarioRaiseReopensAction: a preflop raise must clear
// hasActedThisStreet for every other live player and recompute the call
// amount they're shown, even though both already posted a blind.
func TestScenarioRaiseReopensAction(t *testing.T) {
	t.Parallel()
	te := newTestEngine(t, 3, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, te.engine.StartHand(ctx))

	require.Equal(t, 0, te.engine.hand.ToActPos)
	require.NoError(t, te.engine.SubmitAction(ctx, "p0", Action{Type: Raise, Amount: 60}))

	assert.Equal(t, 60, te.engine.hand.CurrentBet)
	assert.Equal(t, 40, te.engine.hand.MinRaise)
	assert.Equal(t, 0, te.engine.hand.LastAggressorPos)
	assert.Equal(t, 1440, te.engine.playerAt(0).Stack)

	sb := te.engine.playerAt(1)
	bb := te.engine.playerAt(2)
	assert.False(t, sb.HasActedThisStreet)
	assert.False(t, bb.HasActedThisStreet)

	require.Equal(t, 1, te.engine.hand.ToActPos)

	turns := te.broadcaster.ofType(EventTurnStarted)
	require.NotEmpty(t, turns)
	last := turns[len(turns)-1].payload.(TurnStartedPayload)
	assert.Equal(t, "p1", last.UserID)
	assert.Equal(t, 50, last.CallAmount) // owes 60 - 10 already committed

	require.Error(t, te.engine.SubmitAction(ctx, "p1", Action{Type: Check}))
}

// TestScenarioTimeoutFolds verifies that an expired turn timer folds the
// player on the clock and the hand resolves exactly as an explicit fold
// would.
func TestScenarioTimeoutFolds(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	te := newTestEngine(t, 2, cfg)
	ctx := context.Background()
	require.NoError(t, te.engine.StartHand(ctx))

	require.Equal(t, 0, te.engine.dealerPos)
	require.Equal(t, 0, te.engine.sbPos)
	require.Equal(t, 1, te.engine.bbPos)
	require.Equal(t, 0, te.engine.hand.ToActPos)

	waitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := 0; i < cfg.TurnTimerSeconds; i++ {
		te.clock.Advance(1 * time.Second).MustWait(waitCtx)
	}

	assert.Equal(t, lifecycleIdle, te.engine.state)
	assert.True(t, te.engine.playerAt(0).Folded)
	assert.Equal(t, 1490, te.engine.playerAt(0).Stack)
	assert.Equal(t, 1510, te.engine.playerAt(1).Stack)

	acted := te.broadcaster.ofType(EventActionPerformed)
	require.NotEmpty(t, acted)
	last := acted[len(acted)-1].payload.(ActionPerformedPayload)
	assert.Equal(t, "p0", last.UserID)
	assert.Equal(t, Fold, last.Action)

	ticks := te.broadcaster.ofType(EventTurnTick)
	require.Len(t, ticks, cfg.TurnTimerSeconds)
	first := ticks[0].payload.(TurnTickPayload)
	assert.Equal(t, cfg.TurnTimerSeconds-1, first.TimeRemaining)
	lastTick := ticks[len(ticks)-1].payload.(TurnTickPayload)
	assert.Equal(t, 0, lastTick.TimeRemaining)
}

// TestChipConservationAcrossHand spot-checks testable property 5: chips
// neither appear nor vanish across a full hand, win-by-fold or showdown.
func TestChipConservationAcrossHand(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	te := newTestEngine(t, 4, cfg)
	ctx := context.Background()

	total := 0
	for _, p := range te.engine.players {
		total += p.Stack
	}

	require.NoError(t, te.engine.StartHand(ctx))
	require.NoError(t, te.engine.SubmitAction(ctx, te.engine.playerAt(te.engine.hand.ToActPos).UserID, Action{Type: Fold}))
	require.NoError(t, te.engine.SubmitAction(ctx, te.engine.playerAt(te.engine.hand.ToActPos).UserID, Action{Type: Fold}))
	require.NoError(t, te.engine.SubmitAction(ctx, te.engine.playerAt(te.engine.hand.ToActPos).UserID, Action{Type: Fold}))

	after := 0
	for _, p := range te.engine.players {
		after += p.Stack
	}
	assert.Equal(t, total, after)
}

// TestCheckChipConservation_PassesOnUntamperedHand exercises the
// self-check the engine runs inside handComplete: a hand played straight
// through leaves the stack total unchanged from what StartHand captured,
// so the check passes and the room stays open for the next hand.
func TestCheckChipConservation_PassesOnUntamperedHand(t *testing.T) {
	t.Parallel()
	te := newTestEngine(t, 3, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, te.engine.StartHand(ctx))
	require.NoError(t, te.engine.SubmitAction(ctx, "p0", Action{Type: Fold}))
	require.NoError(t, te.engine.SubmitAction(ctx, "p1", Action{Type: Fold}))

	require.True(t, te.engine.checkChipConservation())
	assert.NotEqual(t, lifecycleError, te.engine.state)
}

// TestCheckChipConservation_FailsRoomOnMismatch proves the self-check is
// a real, enforced operation and not just an external test assertion: if
// a hand's stack total drifts from what StartHand recorded, the engine
// raises a room-fatal GameError and moves to the error state rather than
// silently continuing.
func TestCheckChipConservation_FailsRoomOnMismatch(t *testing.T) {
	t.Parallel()
	te := newTestEngine(t, 3, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, te.engine.StartHand(ctx))
	require.NoError(t, te.engine.SubmitAction(ctx, "p0", Action{Type: Fold}))
	require.NoError(t, te.engine.SubmitAction(ctx, "p1", Action{Type: Fold}))

	te.engine.playerAt(0).Stack += 1 // simulate a chip-accounting bug

	require.False(t, te.engine.checkChipConservation())
	assert.Equal(t, lifecycleError, te.engine.state)

	errs := te.broadcaster.ofType(EventGameError)
	require.NotEmpty(t, errs)
	payload := errs[len(errs)-1].payload.(GameErrorPayload)
	assert.Equal(t, ChipConservation, payload.Kind)
}

// TestSubmitAction_RejectsWrongTurn ensures a seat out of turn cannot
// mutate state and is told why.
func TestSubmitAction_RejectsWrongTurn(t *testing.T) {
	t.Parallel()
	te := newTestEngine(t, 3, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, te.engine.StartHand(ctx))

	require.Equal(t, 0, te.engine.hand.ToActPos)
	err := te.engine.SubmitAction(ctx, "p1", Action{Type: Fold})
	require.Error(t, err)
	var engErr *EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, NotYourTurn, engErr.Kind)
	assert.False(t, te.engine.playerAt(1).Folded)
}

// TestSubmitAction_RejectsIllegalCheck ensures a player owing chips
// cannot check, and the timer stays armed so they can retry.
func TestSubmitAction_RejectsIllegalCheck(t *testing.T) {
	t.Parallel()
	te := newTestEngine(t, 3, DefaultConfig())
	ctx := context.Background()
	require.NoError(t, te.engine.StartHand(ctx))

	err := te.engine.SubmitAction(ctx, "p0", Action{Type: Check})
	require.Error(t, err)
	var engErr *EngineError
	require.ErrorAs(t, err, &engErr)
	assert.Equal(t, IllegalAction, engErr.Kind)
	assert.True(t, te.engine.turnTimer.Armed())
	assert.Equal(t, 0, te.engine.hand.ToActPos)
}
