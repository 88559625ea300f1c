package pairing

import (
	"math"
	"math/rand"
	"sort"
)

// CostFunc returns the repeat cost of putting two ids in the same group.
type CostFunc func(a, b int) int

// PairCost builds a CostFunc over a history's pair counters.
func PairCost(counts map[string]int) CostFunc {
	return func(a, b int) int {
		return counts[PairKey(a, b)]
	}
}

// Matching is the result of pairing a player set head-to-head.
type Matching struct {
	Pairs [][2]int
	Bye   *int
	Cost  int
}

// PairExact finds a minimum-cost perfect matching of the id set by exhaustive
// branch-and-bound search. For an odd set every candidate bye is tried and the
// cheapest (bye, matching) combination wins; ties break randomly via the
// random visit order.
func PairExact(ids []int, cost CostFunc, rng *rand.Rand) Matching {
	n := len(ids)
	switch n {
	case 0:
		return Matching{}
	case 1:
		bye := ids[0]
		return Matching{Bye: &bye}
	}

	if n%2 == 0 {
		pairs, total := matchEven(ids, cost, rng)
		return Matching{Pairs: pairs, Cost: total}
	}

	best := Matching{Cost: math.MaxInt}
	rest := make([]int, 0, n-1)
	for _, i := range rng.Perm(n) {
		rest = rest[:0]
		for j, id := range ids {
			if j != i {
				rest = append(rest, id)
			}
		}
		pairs, total := matchEven(rest, cost, rng)
		if total < best.Cost {
			bye := ids[i]
			best = Matching{Pairs: pairs, Bye: &bye, Cost: total}
			if total == 0 {
				break
			}
		}
	}
	return best
}

// matchEven runs the recursive search over an even id set. Players are
// addressed by index into ids; candidates for the first unmatched player are
// visited in ascending cost order (random tiebreak) so a zero-cost matching is
// found early, and any branch whose accumulated cost reaches the best known
// total is cut. The pruning bound is what keeps this viable for real rosters.
func matchEven(ids []int, cost CostFunc, rng *rand.Rand) ([][2]int, int) {
	n := len(ids)
	used := make([]bool, n)
	current := make([][2]int, 0, n/2)
	var bestPairs [][2]int
	bestCost := math.MaxInt

	candidates := make([]int, 0, n)

	var search func(acc int)
	search = func(acc int) {
		if acc >= bestCost {
			return
		}
		first := -1
		for i := 0; i < n; i++ {
			if !used[i] {
				first = i
				break
			}
		}
		if first == -1 {
			bestCost = acc
			bestPairs = append(bestPairs[:0], current...)
			return
		}

		candidates = candidates[:0]
		for j := first + 1; j < n; j++ {
			if !used[j] {
				candidates = append(candidates, j)
			}
		}
		local := append([]int(nil), candidates...)
		rng.Shuffle(len(local), func(i, j int) {
			local[i], local[j] = local[j], local[i]
		})
		sort.SliceStable(local, func(i, j int) bool {
			return cost(ids[first], ids[local[i]]) < cost(ids[first], ids[local[j]])
		})

		used[first] = true
		for _, j := range local {
			c := cost(ids[first], ids[j])
			if acc+c >= bestCost {
				break // sorted ascending, nothing cheaper follows
			}
			used[j] = true
			current = append(current, [2]int{ids[first], ids[j]})
			search(acc + c)
			current = current[:len(current)-1]
			used[j] = false
			if bestCost == 0 {
				break
			}
		}
		used[first] = false
	}
	search(0)

	if bestPairs == nil {
		return [][2]int{}, 0
	}
	out := make([][2]int, len(bestPairs))
	copy(out, bestPairs)
	return out, bestCost
}
