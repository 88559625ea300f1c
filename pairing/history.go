package pairing

import "strconv"

// PlayerSlot is one player's row inside a historical match.
type PlayerSlot struct {
	PlayerID int
	Team     *int
	Position *int
}

// MatchRecord is a played (or in-progress) match with its seated players,
// flattened from the match and match_players tables.
type MatchRecord struct {
	MatchID   int
	MachineID *int
	Players   []PlayerSlot
}

// PairKey returns an order-independent key for two player ids,
// so PairKey(a, b) == PairKey(b, a).
func PairKey(a, b int) string {
	if b < a {
		a, b = b, a
	}
	return strconv.Itoa(a) + "|" + strconv.Itoa(b)
}

// TeamKey identifies a two-player team, independent of member order.
func TeamKey(a, b int) string {
	return PairKey(a, b)
}

// MatchupKey identifies an opposition of two teams, independent of side.
func MatchupKey(teamA, teamB string) string {
	if teamB < teamA {
		teamA, teamB = teamB, teamA
	}
	return teamA + "v" + teamB
}

// History holds the repeat counters and machine usage derived from all of a
// tournament's past matches. It is a pure fold over MatchRecords; nothing in
// here touches storage.
type History struct {
	// PairCounts counts matches in which two players co-occurred, any
	// grouping size. Keyed by PairKey.
	PairCounts map[string]int
	// PartnerCounts counts matches in which two players were on the same
	// team. Keyed by PairKey.
	PartnerCounts map[string]int
	// MatchupCounts counts matches in which two specific two-player teams
	// opposed each other. Keyed by MatchupKey over TeamKeys.
	MatchupCounts map[string]int
	// MachineUse is player id -> machine id -> times played on it.
	MachineUse map[int]map[int]int
	// MatchesPlayed is player id -> number of matches participated in.
	MatchesPlayed map[int]int
}

func BuildHistory(records []MatchRecord) *History {
	h := &History{
		PairCounts:    make(map[string]int),
		PartnerCounts: make(map[string]int),
		MatchupCounts: make(map[string]int),
		MachineUse:    make(map[int]map[int]int),
		MatchesPlayed: make(map[int]int),
	}

	for _, rec := range records {
		for i := 0; i < len(rec.Players); i++ {
			a := rec.Players[i]
			h.MatchesPlayed[a.PlayerID]++
			if rec.MachineID != nil {
				if h.MachineUse[a.PlayerID] == nil {
					h.MachineUse[a.PlayerID] = make(map[int]int)
				}
				h.MachineUse[a.PlayerID][*rec.MachineID]++
			}
			for j := i + 1; j < len(rec.Players); j++ {
				b := rec.Players[j]
				h.PairCounts[PairKey(a.PlayerID, b.PlayerID)]++
				if a.Team != nil && b.Team != nil && *a.Team == *b.Team {
					h.PartnerCounts[PairKey(a.PlayerID, b.PlayerID)]++
				}
			}
		}

		if teamA, teamB, ok := twoTeamsOfTwo(rec.Players); ok {
			h.MatchupCounts[MatchupKey(teamA, teamB)]++
		}
	}
	return h
}

// twoTeamsOfTwo reports the team keys when the match is exactly two teams of
// two players each.
func twoTeamsOfTwo(slots []PlayerSlot) (string, string, bool) {
	if len(slots) != 4 {
		return "", "", false
	}
	members := make(map[int][]int)
	for _, s := range slots {
		if s.Team == nil {
			return "", "", false
		}
		members[*s.Team] = append(members[*s.Team], s.PlayerID)
	}
	if len(members) != 2 {
		return "", "", false
	}
	keys := make([]string, 0, 2)
	for _, m := range members {
		if len(m) != 2 {
			return "", "", false
		}
		keys = append(keys, TeamKey(m[0], m[1]))
	}
	return keys[0], keys[1], true
}
