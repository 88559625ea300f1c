package pairing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// bruteForceMin computes the true minimum matching cost (plus optimal bye for
// odd sets) by full enumeration. Only usable for small rosters.
func bruteForceMin(ids []int, cost CostFunc) int {
	if len(ids)%2 == 1 {
		best := math.MaxInt
		for i := range ids {
			rest := make([]int, 0, len(ids)-1)
			for j, id := range ids {
				if j != i {
					rest = append(rest, id)
				}
			}
			if c := bruteForceMin(rest, cost); c < best {
				best = c
			}
		}
		return best
	}
	if len(ids) == 0 {
		return 0
	}
	first := ids[0]
	best := math.MaxInt
	for j := 1; j < len(ids); j++ {
		rest := make([]int, 0, len(ids)-2)
		for k := 1; k < len(ids); k++ {
			if k != j {
				rest = append(rest, ids[k])
			}
		}
		if c := cost(first, ids[j]) + bruteForceMin(rest, cost); c < best {
			best = c
		}
	}
	return best
}

func TestPairExactEmptyAndSingle(t *testing.T) {
	rng := testRand()

	m := PairExact(nil, PairCost(nil), rng)
	assert.Empty(t, m.Pairs)
	assert.Nil(t, m.Bye)

	m = PairExact([]int{7}, PairCost(nil), rng)
	assert.Empty(t, m.Pairs)
	require.NotNil(t, m.Bye)
	assert.Equal(t, 7, *m.Bye)
}

func TestPairExactFindsZeroCostMatching(t *testing.T) {
	// 1-2, 3-4, 5-6 have played together; the complement is repeat-free.
	counts := map[string]int{
		PairKey(1, 2): 1,
		PairKey(3, 4): 1,
		PairKey(5, 6): 1,
	}
	m := PairExact([]int{1, 2, 3, 4, 5, 6}, PairCost(counts), testRand())

	assert.Zero(t, m.Cost)
	assert.Len(t, m.Pairs, 3)
	for _, p := range m.Pairs {
		assert.Zero(t, counts[PairKey(p[0], p[1])], "pair %v is a repeat", p)
	}
}

func TestPairExactMatchesBruteForce(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	counts := map[string]int{
		PairKey(1, 2): 3,
		PairKey(1, 3): 1,
		PairKey(2, 3): 2,
		PairKey(4, 5): 1,
		PairKey(4, 6): 1,
		PairKey(5, 6): 1,
		PairKey(7, 8): 2,
		PairKey(1, 8): 1,
		PairKey(2, 7): 1,
	}
	cost := PairCost(counts)
	want := bruteForceMin(ids, cost)

	for seed := int64(0); seed < 20; seed++ {
		m := PairExact(ids, cost, rand.New(rand.NewSource(seed)))
		assert.Equal(t, want, m.Cost, "seed %d", seed)
		assert.Len(t, m.Pairs, 4)
	}
}

func TestPairExactOddSetAssignsOptimalBye(t *testing.T) {
	// Player 5 has played everyone; sitting them out is the only way to zero.
	ids := []int{1, 2, 3, 4, 5}
	counts := map[string]int{
		PairKey(1, 5): 2,
		PairKey(2, 5): 2,
		PairKey(3, 5): 2,
		PairKey(4, 5): 2,
		PairKey(1, 2): 1,
		PairKey(3, 4): 1,
	}
	cost := PairCost(counts)
	want := bruteForceMin(ids, cost)

	for seed := int64(0); seed < 20; seed++ {
		m := PairExact(ids, cost, rand.New(rand.NewSource(seed)))
		require.NotNil(t, m.Bye, "seed %d", seed)
		assert.Equal(t, want, m.Cost, "seed %d", seed)
		assert.Len(t, m.Pairs, 2)
	}
}

func TestPairExactCoversEveryPlayerExactlyOnce(t *testing.T) {
	ids := []int{10, 20, 30, 40, 50, 60, 70}
	m := PairExact(ids, PairCost(nil), testRand())

	seen := make(map[int]int)
	for _, p := range m.Pairs {
		seen[p[0]]++
		seen[p[1]]++
	}
	require.NotNil(t, m.Bye)
	seen[*m.Bye]++

	assert.Len(t, seen, len(ids))
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %d seated %d times", id, n)
	}
}
