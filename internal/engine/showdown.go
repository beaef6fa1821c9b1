package engine

import (
	"context"
	"time"

	"github.com/csc667-team-z-j/holdem-engine/internal/evaluator"
	"github.com/csc667-team-z-j/holdem-engine/internal/pot"
)

const winByFoldRankName = "Win by fold"

// handComplete implements HandComplete() in §4.5.
func (e *Engine) handComplete(ctx context.Context) {
	participants := e.handParticipants()

	var winners []WinnerEntry
	isShowdown := false

	nonFolded := make([]*PlayerState, 0, len(participants))
	for _, p := range participants {
		if !p.Folded {
			nonFolded = append(nonFolded, p)
		}
	}

	if len(nonFolded) == 1 {
		sole := nonFolded[0]
		awarded := pot.AwardUncontested(e.hand.Pot, sole.UserID)
		winners = e.applyAwards(awarded, map[string]string{sole.UserID: winByFoldRankName})
	} else {
		isShowdown = true
		winners = e.distributeShowdown(participants, nonFolded)
	}

	if !e.checkChipConservation() {
		return
	}

	for _, w := range winners {
		if !e.persistInsertWinner(ctx, w.UserID, w.AmountWon, w.HandRankName) {
			return
		}
	}
	if !e.persistMarkCompleted(ctx) {
		return
	}

	if !isShowdown {
		for i := range winners {
			winners[i].HoleCards = nil
		}
	}

	e.emit(EventWinnerDetermined, WinnerDeterminedPayload{
		Winners: winners,
		Pot:     e.hand.Pot,
		Board:   cardStrings(e.hand.Board),
	})

	e.rotate()
	e.emitStacksUpdated()
	e.emitPositionsUpdated()

	remaining := 0
	var lastStanding *PlayerState
	for _, p := range e.players {
		if p.Stack > 0 {
			remaining++
			lastStanding = p
		}
	}

	if remaining < 2 {
		e.state = lifecycleEnded
		payload := GameEndedPayload{}
		if lastStanding != nil {
			payload.Winner = &GameEndedWinner{UserID: lastStanding.UserID, Stack: lastStanding.Stack}
		}
		e.emit(EventGameEnded, payload)
		return
	}

	e.state = lifecycleIdle
	pause := time.Duration(e.cfg.InterHandPauseSeconds) * time.Second
	e.clock.AfterFunc(pause, func() {
		_ = e.StartHand(context.Background())
	})
}

// checkChipConservation verifies that the hand's awards left the sum of
// every seated player's stack unchanged from what StartHand captured. A
// mismatch means the pot math dropped or manufactured chips somewhere in
// this hand, which is unrecoverable: the room moves to the fatal error
// state rather than let a corrupted economy keep running.
func (e *Engine) checkChipConservation() bool {
	total := 0
	for _, p := range e.players {
		total += p.Stack
	}
	if total != e.hand.StackTotalAtStart {
		e.fail(ChipConservation, "stack total %d after hand %d, expected %d", total, e.hand.HandNumber, e.hand.StackTotalAtStart)
		return false
	}
	return true
}

// distributeShowdown computes the side-pot partition and awards each
// pot to its evaluator winners.
func (e *Engine) distributeShowdown(participants, nonFolded []*PlayerState) []WinnerEntry {
	contribs := make([]pot.Contribution, len(participants))
	for i, p := range participants {
		contribs[i] = pot.Contribution{
			UserID:            p.UserID,
			Position:          p.Position,
			CommittedThisHand: p.CommittedThisHand,
			Folded:            p.Folded,
		}
	}
	sidePots := pot.Partition(contribs)

	ranks := make(map[string]evaluator.HandRank, len(nonFolded))
	rankNames := make(map[string]string, len(nonFolded))
	for _, p := range nonFolded {
		r := evaluator.Evaluate(p.HoleCards, e.hand.Board)
		ranks[p.UserID] = r
		rankNames[p.UserID] = r.Category.String()
	}

	clockwise := e.clockwiseUserIDs(e.hand.DealerPos, participants)
	awarded := pot.Distribute(sidePots, ranks, clockwise)

	return e.applyAwards(awarded, rankNames)
}

// applyAwards credits stacks and builds the winner entries, revealing
// hole cards for showdown winners (callers strip them for fold-outs).
func (e *Engine) applyAwards(awarded map[string]int, rankNames map[string]string) []WinnerEntry {
	entries := make([]WinnerEntry, 0, len(awarded))
	for _, p := range e.handParticipants() {
		amount, ok := awarded[p.UserID]
		if !ok || amount == 0 {
			continue
		}
		p.Stack += amount
		entries = append(entries, WinnerEntry{
			UserID:       p.UserID,
			AmountWon:    amount,
			HandRankName: rankNames[p.UserID],
			HoleCards:    cardStrings(p.HoleCards),
		})
	}
	return entries
}

// clockwiseUserIDs returns the userIDs of participants ordered starting
// from the smallest seat position clockwise of dealerPos, for use as the
// remainder-rotation order in side-pot distribution.
func (e *Engine) clockwiseUserIDs(dealerPos int, participants []*PlayerState) []string {
	ordered := e.clockwiseFrom(dealerPos, participants)
	out := make([]string, len(ordered))
	for i, p := range ordered {
		out[i] = p.UserID
	}
	return out
}

// rotate implements Rotate() in §4.5.
func (e *Engine) rotate() {
	for _, p := range e.players {
		if p.Stack == 0 {
			p.Eliminated = true
		}
	}

	live := e.nonEliminatedPlayers()
	if len(live) == 0 {
		return
	}

	e.dealerPos = nextClockwise(live, e.dealerPos)
	e.assignBlindPositions(live)
}
