package pairing

import (
	"math"
	"math/rand"
)

// DoublesGroup is one 2v2 matchup.
type DoublesGroup struct {
	TeamA [2]int
	TeamB [2]int
}

// BuildDoubles forms draw-your-partner matchups in two phases: pair players
// into teams minimizing how often they partnered before, then pair the teams
// against each other minimizing rematches. Both phases reuse the exact
// matcher, parameterized by the relevant counter.
//
// An odd roster drops one bye first, preferring the player with the fewest
// matches played (ties random). A team left without an opponent is returned
// as a leftover pair for the caller to seat head-to-head.
func BuildDoubles(ids []int, hist *History, rng *rand.Rand) (groups []DoublesGroup, leftover [][2]int, bye *int) {
	work := append([]int(nil), ids...)

	if len(work)%2 == 1 {
		byeID := pickBye(work, hist.MatchesPlayed, rng)
		bye = &byeID
		kept := work[:0]
		for _, id := range work {
			if id != byeID {
				kept = append(kept, id)
			}
		}
		work = kept
	}
	if len(work) < 2 {
		return nil, nil, bye
	}

	partners := PairExact(work, func(a, b int) int {
		return hist.PartnerCounts[PairKey(a, b)]
	}, rng)

	teams := make([][2]int, len(partners.Pairs))
	copy(teams, partners.Pairs)
	if len(teams) == 1 {
		return nil, teams, bye
	}

	teamIdx := make([]int, len(teams))
	for i := range teamIdx {
		teamIdx[i] = i
	}
	matchups := PairExact(teamIdx, func(a, b int) int {
		keyA := TeamKey(teams[a][0], teams[a][1])
		keyB := TeamKey(teams[b][0], teams[b][1])
		return hist.MatchupCounts[MatchupKey(keyA, keyB)]
	}, rng)

	for _, p := range matchups.Pairs {
		groups = append(groups, DoublesGroup{TeamA: teams[p[0]], TeamB: teams[p[1]]})
	}
	if matchups.Bye != nil {
		leftover = append(leftover, teams[*matchups.Bye])
	}
	return groups, leftover, bye
}

// pickBye selects the player with the fewest matches played, ties random.
func pickBye(ids []int, matchesPlayed map[int]int, rng *rand.Rand) int {
	order := append([]int(nil), ids...)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	best := order[0]
	bestCount := math.MaxInt
	for _, id := range order {
		if matchesPlayed[id] < bestCount {
			best = id
			bestCount = matchesPlayed[id]
		}
	}
	return best
}
