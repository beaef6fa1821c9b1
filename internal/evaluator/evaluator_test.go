package evaluator

import (
	"testing"

	"github.com/csc667-team-z-j/holdem-engine/internal/deck"
	"github.com/stretchr/testify/require"
)

func cards(ss ...string) []deck.Card {
	out := make([]deck.Card, len(ss))
	for i, s := range ss {
		c, err := deck.ParseCard(s)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// TestWheelStraight matches S4: hole As 2d, board 3c 4c 5h 9d Kc evaluates
// to a Straight with top value 5, not 14.
func TestWheelStraight(t *testing.T) {
	t.Parallel()

	hole := cards("As", "2d")
	board := cards("3c", "4c", "5h", "9d", "Kc")

	rank := Evaluate(hole, board)
	require.Equal(t, Straight, rank.Category)
	require.Equal(t, []int{5}, rank.Tiebreakers)
}

func TestBroadwayStraightBeatsWheel(t *testing.T) {
	t.Parallel()

	wheel := Evaluate(cards("As", "2d"), cards("3c", "4c", "5h", "9d", "Kc"))
	broadway := Evaluate(cards("As", "Kd"), cards("Qc", "Jc", "Th", "9d", "2c"))

	require.Equal(t, 1, Compare(broadway, wheel))
}

func TestFourOfAKindKicker(t *testing.T) {
	t.Parallel()

	rank := Evaluate(cards("Ah", "Ad"), cards("As", "Ac", "Kd", "2c", "3h"))
	require.Equal(t, FourOfAKind, rank.Category)
	require.Equal(t, []int{14, 13}, rank.Tiebreakers)
}

func TestFullHouseTwoTripsUsesBestTripAndBestPair(t *testing.T) {
	t.Parallel()

	// 7-card hand containing trip kings and trip queens; best five-card
	// subset is KKK QQ, not QQQ KK.
	rank := Evaluate(cards("Kh", "Kd"), cards("Ks", "Qh", "Qd", "Qc", "2c"))
	require.Equal(t, FullHouse, rank.Category)
	require.Equal(t, []int{13, 12}, rank.Tiebreakers)
}

func TestFlushTiebreakersAreTopFiveOfSuit(t *testing.T) {
	t.Parallel()

	rank := Evaluate(cards("Ah", "2h"), cards("4h", "6h", "8h", "Kh", "9h"))
	require.Equal(t, Flush, rank.Category)
	require.Equal(t, []int{14, 13, 9, 8, 6}, rank.Tiebreakers)
}

func TestCompareIsAntisymmetricAndReflexive(t *testing.T) {
	t.Parallel()

	a := Evaluate(cards("Ah", "Ad"), cards("Ks", "Qh", "2c", "3h", "4d"))
	b := Evaluate(cards("2h", "3d"), cards("Ks", "Qh", "2c", "3h", "4d"))

	require.Equal(t, Compare(a, b), -Compare(b, a))
	require.Equal(t, 0, Compare(a, a))
	require.Equal(t, 0, Compare(b, b))
}

func TestFindWinnersTwoWayTie(t *testing.T) {
	t.Parallel()

	board := cards("2h", "7d", "9c", "Jh", "Ks")
	hands := map[string]HandRank{
		"a": Evaluate(cards("Ah", "4d"), board),
		"b": Evaluate(cards("Ac", "4s"), board),
		"c": Evaluate(cards("3c", "5d"), board),
	}

	winners := FindWinners(hands)
	require.Len(t, winners, 2)
	require.True(t, winners["a"])
	require.True(t, winners["b"])
	require.False(t, winners["c"])
}
