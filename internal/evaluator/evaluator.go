// Package evaluator implements best-five-of-seven Texas Hold'em hand
// ranking with explicit category and tiebreaker tracking.
package evaluator

import (
	"sort"

	"github.com/csc667-team-z-j/holdem-engine/internal/deck"
)

// HandCategory orders the nine poker hand categories from weakest to strongest.
type HandCategory int

const (
	HighCard HandCategory = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
)

// String returns the human-readable category name used in persisted
// hand_rank values (spec §6.3) and WinnerDetermined.handRankName (§6.1).
func (c HandCategory) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// HandRank is a hand's category plus descending-priority tiebreakers.
type HandRank struct {
	Category    HandCategory
	Tiebreakers []int
}

// Compare returns 1 if a beats b, -1 if b beats a, 0 if equal: category
// first, then tiebreakers lexicographically.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	n := len(a.Tiebreakers)
	if len(b.Tiebreakers) < n {
		n = len(b.Tiebreakers)
	}
	for i := 0; i < n; i++ {
		if a.Tiebreakers[i] != b.Tiebreakers[i] {
			if a.Tiebreakers[i] > b.Tiebreakers[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Evaluate returns the best HandRank achievable from hole and board cards
// (2 to 7 cards total) by evaluating all C(n,5) five-card subsets.
func Evaluate(hole []deck.Card, board []deck.Card) HandRank {
	all := make([]deck.Card, 0, len(hole)+len(board))
	all = append(all, hole...)
	all = append(all, board...)

	best := HandRank{Category: HighCard, Tiebreakers: []int{0, 0, 0, 0, 0}}
	first := true

	forEachFiveSubset(all, func(five []deck.Card) {
		rank := evaluateFive(five)
		if first || Compare(rank, best) > 0 {
			best = rank
			first = false
		}
	})

	return best
}

// forEachFiveSubset invokes fn for every 5-card subset of cards. If fewer
// than 5 cards are supplied, fn is invoked once with all of them padded by
// the caller's evaluateFive (which tolerates short input for test fixtures).
func forEachFiveSubset(cards []deck.Card, fn func([]deck.Card)) {
	n := len(cards)
	if n <= 5 {
		fn(cards)
		return
	}

	idx := []int{0, 1, 2, 3, 4}
	for {
		five := make([]deck.Card, 5)
		for i, v := range idx {
			five[i] = cards[v]
		}
		fn(five)

		// advance idx like an odometer to the next combination
		i := 4
		for i >= 0 && idx[i] == n-5+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < 5; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func evaluateFive(cards []deck.Card) HandRank {
	values := make([]int, len(cards))
	counts := map[int]int{}
	suitCounts := map[deck.Suit]int{}
	for i, c := range cards {
		v := int(c.Rank)
		values[i] = v
		counts[v]++
		suitCounts[c.Suit]++
	}

	isFlush := len(cards) == 5
	for _, n := range suitCounts {
		if n != len(cards) {
			isFlush = false
		}
	}

	straightTop := straightTopValue(values)
	isStraight := straightTop > 0 && len(cards) == 5

	if isStraight && isFlush {
		return HandRank{Category: StraightFlush, Tiebreakers: []int{straightTop}}
	}

	type group struct {
		rank  int
		count int
	}
	groups := make([]group, 0, len(counts))
	for r, c := range counts {
		groups = append(groups, group{rank: r, count: c})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	switch {
	case len(groups) > 0 && groups[0].count == 4:
		kicker := groups[1].rank
		return HandRank{Category: FourOfAKind, Tiebreakers: []int{groups[0].rank, kicker}}

	case len(groups) > 1 && groups[0].count == 3 && groups[1].count >= 2:
		return HandRank{Category: FullHouse, Tiebreakers: []int{groups[0].rank, groups[1].rank}}

	case isFlush:
		top5 := sortedDesc(values)
		return HandRank{Category: Flush, Tiebreakers: top5}

	case isStraight:
		return HandRank{Category: Straight, Tiebreakers: []int{straightTop}}

	case len(groups) > 0 && groups[0].count == 3:
		kickers := kickersExcluding(values, []int{groups[0].rank}, 2)
		return HandRank{Category: ThreeOfAKind, Tiebreakers: append([]int{groups[0].rank}, kickers...)}

	case len(groups) > 1 && groups[0].count == 2 && groups[1].count == 2:
		kicker := kickersExcluding(values, []int{groups[0].rank, groups[1].rank}, 1)
		return HandRank{Category: TwoPair, Tiebreakers: append([]int{groups[0].rank, groups[1].rank}, kicker...)}

	case len(groups) > 0 && groups[0].count == 2:
		kickers := kickersExcluding(values, []int{groups[0].rank}, 3)
		return HandRank{Category: Pair, Tiebreakers: append([]int{groups[0].rank}, kickers...)}

	default:
		return HandRank{Category: HighCard, Tiebreakers: sortedDesc(values)}
	}
}

// straightTopValue returns the high card of a straight among values (which
// may contain duplicates or fewer than 5 entries), or 0 if none. The wheel
// (A-2-3-4-5) returns 5, not 14.
func straightTopValue(values []int) int {
	seen := map[int]bool{}
	for _, v := range values {
		seen[v] = true
	}
	unique := make([]int, 0, len(seen))
	for v := range seen {
		unique = append(unique, v)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(unique)))

	if len(unique) < 5 {
		return 0
	}

	for i := 0; i+4 < len(unique); i++ {
		if unique[i]-unique[i+4] == 4 {
			consecutive := true
			for j := i; j < i+4; j++ {
				if unique[j]-unique[j+1] != 1 {
					consecutive = false
					break
				}
			}
			if consecutive {
				return unique[i]
			}
		}
	}

	if seen[14] && seen[2] && seen[3] && seen[4] && seen[5] {
		return 5
	}

	return 0
}

func sortedDesc(values []int) []int {
	out := append([]int{}, values...)
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// kickersExcluding returns the top `count` values not in exclude, descending.
func kickersExcluding(values []int, exclude []int, count int) []int {
	excl := map[int]bool{}
	for _, e := range exclude {
		excl[e] = true
	}
	remaining := make([]int, 0, len(values))
	for _, v := range values {
		if !excl[v] {
			remaining = append(remaining, v)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(remaining)))
	if len(remaining) > count {
		remaining = remaining[:count]
	}
	for len(remaining) < count {
		remaining = append(remaining, 0)
	}
	return remaining
}

// FindWinners returns the set of keys tied for the maximum hand in hands.
func FindWinners(hands map[string]HandRank) map[string]bool {
	winners := map[string]bool{}
	var best HandRank
	first := true

	for _, rank := range hands {
		if first || Compare(rank, best) > 0 {
			best = rank
			first = false
		}
	}

	for id, rank := range hands {
		if Compare(rank, best) == 0 {
			winners[id] = true
		}
	}

	return winners
}
