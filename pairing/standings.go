package pairing

// Standing is a player's accumulated result, derived from recorded positions.
// It is never persisted; callers recompute it from history on every request.
type Standing struct {
	PlayerID int `json:"player_id"`
	Points   int `json:"points"`
	Matches  int `json:"matches"`
}

// ComputeStandings folds every recorded position into points using the
// placement table:
//
//	2 players:  3 / 0
//	3 players:  3 / 1 / 0
//	4 players:  4 / 2 / 1 / 0 (free-for-all)
//	4 players:  3 / 0          (team result, only positions 1 and 2 occur)
//
// A 4-player match counts as a team result when no row in it ever recorded a
// position other than 1 or 2. A match where only some players reported yet can
// therefore be misclassified until the remaining positions arrive; that
// matches how results have always been scored here.
func ComputeStandings(records []MatchRecord) map[int]*Standing {
	standings := make(map[int]*Standing)

	for _, rec := range records {
		teamScored := isTeamScored(rec.Players)
		for _, slot := range rec.Players {
			if slot.Position == nil {
				continue
			}
			s := standings[slot.PlayerID]
			if s == nil {
				s = &Standing{PlayerID: slot.PlayerID}
				standings[slot.PlayerID] = s
			}
			s.Matches++
			s.Points += placementPoints(len(rec.Players), *slot.Position, teamScored)
		}
	}
	return standings
}

func isTeamScored(slots []PlayerSlot) bool {
	if len(slots) != 4 {
		return false
	}
	for _, s := range slots {
		if s.Position != nil && *s.Position > 2 {
			return false
		}
	}
	return true
}

func placementPoints(matchSize, position int, teamScored bool) int {
	switch matchSize {
	case 2:
		if position == 1 {
			return 3
		}
	case 3:
		switch position {
		case 1:
			return 3
		case 2:
			return 1
		}
	case 4:
		if teamScored {
			if position == 1 {
				return 3
			}
			return 0
		}
		switch position {
		case 1:
			return 4
		case 2:
			return 2
		case 3:
			return 1
		}
	}
	return 0
}
