package pairing

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyHistory() *History {
	return BuildHistory(nil)
}

func TestBuildDoublesEightPlayers(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	groups, leftover, bye := BuildDoubles(ids, emptyHistory(), testRand())

	assert.Nil(t, bye)
	assert.Empty(t, leftover)
	require.Len(t, groups, 2)

	seen := make(map[int]bool)
	for _, g := range groups {
		for _, id := range []int{g.TeamA[0], g.TeamA[1], g.TeamB[0], g.TeamB[1]} {
			assert.False(t, seen[id], "player %d seated twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, len(ids))
}

func TestBuildDoublesOddRosterByeGoesToFewestMatches(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5}
	hist := emptyHistory()
	hist.MatchesPlayed = map[int]int{1: 3, 2: 3, 3: 3, 4: 3, 5: 1}

	for seed := int64(0); seed < 10; seed++ {
		_, _, bye := BuildDoubles(ids, hist, rand.New(rand.NewSource(seed)))
		require.NotNil(t, bye, "seed %d", seed)
		assert.Equal(t, 5, *bye, "seed %d", seed)
	}
}

func TestBuildDoublesAvoidsRepeatPartners(t *testing.T) {
	ids := []int{1, 2, 3, 4}
	hist := emptyHistory()
	hist.PartnerCounts = map[string]int{
		PairKey(1, 2): 2,
		PairKey(3, 4): 2,
	}

	groups, leftover, bye := BuildDoubles(ids, hist, testRand())

	assert.Nil(t, bye)
	assert.Empty(t, leftover)
	require.Len(t, groups, 1)

	for _, team := range [][2]int{groups[0].TeamA, groups[0].TeamB} {
		assert.Zero(t, hist.PartnerCounts[PairKey(team[0], team[1])],
			"team %v repeats a partnership", team)
	}
}

func TestBuildDoublesAvoidsRepeatMatchups(t *testing.T) {
	// With fresh partner history the teams can form any way; the matchup
	// counter must then steer who faces whom. Force every team containing
	// player 1 to have met every team containing player 5 twice.
	ids := []int{1, 2, 3, 4, 5, 6, 7, 8}
	hist := emptyHistory()
	for _, a := range []int{2, 3, 4} {
		for _, b := range []int{6, 7, 8} {
			hist.MatchupCounts[MatchupKey(TeamKey(1, a), TeamKey(5, b))] = 2
		}
	}

	groups, leftover, bye := BuildDoubles(ids, hist, testRand())

	assert.Nil(t, bye)
	assert.Empty(t, leftover)
	require.Len(t, groups, 2)

	total := 0
	for _, g := range groups {
		keyA := TeamKey(g.TeamA[0], g.TeamA[1])
		keyB := TeamKey(g.TeamB[0], g.TeamB[1])
		total += hist.MatchupCounts[MatchupKey(keyA, keyB)]
	}
	assert.Zero(t, total, "matchup repeats were avoidable")
}

func TestBuildDoublesSixPlayersLeavesLeftoverTeam(t *testing.T) {
	ids := []int{1, 2, 3, 4, 5, 6}
	groups, leftover, bye := BuildDoubles(ids, emptyHistory(), testRand())

	assert.Nil(t, bye)
	require.Len(t, groups, 1)
	require.Len(t, leftover, 1)

	seen := make(map[int]bool)
	for _, id := range []int{
		groups[0].TeamA[0], groups[0].TeamA[1],
		groups[0].TeamB[0], groups[0].TeamB[1],
		leftover[0][0], leftover[0][1],
	} {
		seen[id] = true
	}
	assert.Len(t, seen, len(ids))
}

func TestBuildDoublesTwoPlayers(t *testing.T) {
	groups, leftover, bye := BuildDoubles([]int{1, 2}, emptyHistory(), testRand())

	assert.Nil(t, bye)
	assert.Empty(t, groups)
	require.Len(t, leftover, 1)
}

func TestBuildDoublesThreePlayers(t *testing.T) {
	groups, leftover, bye := BuildDoubles([]int{1, 2, 3}, emptyHistory(), testRand())

	require.NotNil(t, bye)
	assert.Empty(t, groups)
	require.Len(t, leftover, 1)
}
