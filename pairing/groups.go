package pairing

import (
	"math"
	"math/rand"
)

// maxRestarts caps the randomized search for group sizes where exhaustive
// matching is infeasible.
const maxRestarts = 400

// Grouping is a partition of players into same-machine groups.
type Grouping struct {
	Groups [][]int
	Bye    *int
	Cost   int
}

// GroupPlayers partitions ids into groups of the requested size while
// minimizing total repeat cost (sum of pairwise costs inside each group).
//
// Size 2 uses the exact matcher. Sizes 3 and 4 use up to maxRestarts shuffle
// restarts, keeping the cheapest slicing seen and stopping early on a
// zero-cost one. A trailing remainder of two or more players forms an
// undersized final group; a remainder of exactly one becomes the bye.
//
// Fewer than 2 ids yields no groups; the caller records a warning.
func GroupPlayers(ids []int, size int, cost CostFunc, rng *rand.Rand) Grouping {
	if len(ids) < 2 {
		return Grouping{Groups: [][]int{}}
	}
	if size <= 2 {
		m := PairExact(ids, cost, rng)
		groups := make([][]int, len(m.Pairs))
		for i, p := range m.Pairs {
			groups[i] = []int{p[0], p[1]}
		}
		return Grouping{Groups: groups, Bye: m.Bye, Cost: m.Cost}
	}
	return groupRandomized(ids, size, cost, rng)
}

func groupRandomized(ids []int, size int, cost CostFunc, rng *rand.Rand) Grouping {
	work := append([]int(nil), ids...)
	best := Grouping{Cost: math.MaxInt}

	for restart := 0; restart < maxRestarts; restart++ {
		rng.Shuffle(len(work), func(i, j int) {
			work[i], work[j] = work[j], work[i]
		})
		groups, bye := sliceGroups(work, size)
		total := 0
		for _, g := range groups {
			total += groupCost(g, cost)
		}
		if total < best.Cost {
			best = Grouping{Groups: copyGroups(groups), Bye: copyBye(bye), Cost: total}
			if total == 0 {
				break
			}
		}
	}
	return best
}

// sliceGroups cuts an ordered roster into consecutive fixed-size groups.
// The returned slices alias ids; callers that keep a result must copy.
func sliceGroups(ids []int, size int) ([][]int, *int) {
	n := len(ids)
	var bye *int
	if n%size == 1 {
		bye = &ids[n-1]
		n--
	}
	groups := make([][]int, 0, n/size+1)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		groups = append(groups, ids[start:end])
	}
	return groups, bye
}

func groupCost(group []int, cost CostFunc) int {
	total := 0
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			total += cost(group[i], group[j])
		}
	}
	return total
}

func copyGroups(groups [][]int) [][]int {
	out := make([][]int, len(groups))
	for i, g := range groups {
		out[i] = append([]int(nil), g...)
	}
	return out
}

func copyBye(bye *int) *int {
	if bye == nil {
		return nil
	}
	b := *bye
	return &b
}
