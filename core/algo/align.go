// Package algo holds the pure algorithms behind the scorers in core.
// Nothing here knows about value types: callers pass index-based callbacks.
package algo

import (
	"math"

	"github.com/huangsam/diffscore/schema"
)

// AlignWindowed scores two ordered collections of lengths n and m with a single
// greedy pass bounded by w.MatchWindow.
//
// Each index i of the left side, in order, looks at the unused right indices j with
// |j-i| <= MatchWindow and picks the one minimizing cost(i, j) + w.OrderPenalty*|j-i|;
// ties go to the smallest j. When that best cost exceeds missingLeft(i), or there is
// no candidate, the left item is charged missingLeft(i) and no right index is consumed.
// Otherwise the right index is consumed and the best cost is charged. Every right index
// left unused at the end is charged missingRight(j).
//
// A best cost equal to the missing cost still matches, so a single substituted item
// costs its item cost (1 for Equal) rather than both missing costs (2).
//
// A candidate whose cost is NaN never wins the comparison, so NaN item costs do not
// propagate: the pair is charged as missing on both sides instead.
//
// The result is not guaranteed to be globally optimal nor symmetric for every window
// and penalty; it is O(n * MatchWindow).
func AlignWindowed(
	n, m int,
	w schema.Window,
	cost func(i, j int) float64,
	missingLeft func(i int) float64,
	missingRight func(j int) float64,
) float64 {
	used := make([]bool, m)
	var total float64

	for i := range n {
		best := math.Inf(1)
		bestJ := -1

		lo, hi := windowBounds(i, m, w.MatchWindow)
		for j := lo; j <= hi; j++ {
			if used[j] {
				continue
			}
			drift := math.Abs(float64(j - i))
			score := cost(i, j) + drift*w.OrderPenalty
			if score < best {
				best = score
				bestJ = j
			}
		}

		missing := missingLeft(i)
		if bestJ < 0 || !(best <= missing) {
			total += missing
			continue
		}
		used[bestJ] = true
		total += best
	}

	for j := range m {
		if !used[j] {
			total += missingRight(j)
		}
	}

	return total
}

// windowBounds returns the inclusive range of right indices within window of i.
// hi < lo when the right side is empty.
func windowBounds(i, m, window int) (lo, hi int) {
	if window >= i {
		lo = 0
	} else {
		lo = i - window
	}
	if window >= m {
		hi = m - 1
	} else {
		hi = min(i+window, m-1)
	}
	return lo, hi
}
