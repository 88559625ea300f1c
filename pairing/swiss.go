package pairing

import (
	"math/rand"
	"sort"
)

// SwissSeed orders players for a swiss round and slices them into fixed-size
// groups. Round one is a pure shuffle; later rounds sort by accumulated points
// descending with random tiebreak (the shuffle before the stable sort). The
// seeder deliberately ignores pair history: only the sort is deterministic,
// not the resulting groups.
func SwissSeed(ids []int, points map[int]int, firstRound bool, size int, rng *rand.Rand) ([][]int, *int) {
	work := append([]int(nil), ids...)
	rng.Shuffle(len(work), func(i, j int) {
		work[i], work[j] = work[j], work[i]
	})
	if !firstRound {
		sort.SliceStable(work, func(i, j int) bool {
			return points[work[i]] > points[work[j]]
		})
	}
	groups, bye := sliceGroups(work, size)
	return copyGroups(groups), copyBye(bye)
}
