package pairing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slot(playerID, position int) PlayerSlot {
	return PlayerSlot{PlayerID: playerID, Position: intPtr(position)}
}

func TestPlacementPoints(t *testing.T) {
	tests := []struct {
		name       string
		matchSize  int
		position   int
		teamScored bool
		want       int
	}{
		{"head-to-head win", 2, 1, false, 3},
		{"head-to-head loss", 2, 2, false, 0},
		{"three-player first", 3, 1, false, 3},
		{"three-player second", 3, 2, false, 1},
		{"three-player third", 3, 3, false, 0},
		{"four-player first", 4, 1, false, 4},
		{"four-player second", 4, 2, false, 2},
		{"four-player third", 4, 3, false, 1},
		{"four-player fourth", 4, 4, false, 0},
		{"team win", 4, 1, true, 3},
		{"team loss", 4, 2, true, 0},
		{"oversized match scores nothing", 5, 1, false, 0},
		{"single-player match scores nothing", 1, 1, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, placementPoints(tt.matchSize, tt.position, tt.teamScored))
		})
	}
}

func TestComputeStandingsFreeForAll(t *testing.T) {
	records := []MatchRecord{
		{MatchID: 1, Players: []PlayerSlot{slot(1, 1), slot(2, 2), slot(3, 3), slot(4, 4)}},
		{MatchID: 2, Players: []PlayerSlot{slot(1, 2), slot(2, 1), slot(3, 4), slot(4, 3)}},
	}

	standings := ComputeStandings(records)

	require.Len(t, standings, 4)
	assert.Equal(t, 6, standings[1].Points) // 4 + 2
	assert.Equal(t, 6, standings[2].Points) // 2 + 4
	assert.Equal(t, 1, standings[3].Points) // 1 + 0
	assert.Equal(t, 1, standings[4].Points) // 0 + 1
	assert.Equal(t, 2, standings[1].Matches)
}

func TestComputeStandingsTeamMatch(t *testing.T) {
	// Four players, positions only 1 and 2: scored as a team result.
	records := []MatchRecord{
		{MatchID: 1, Players: []PlayerSlot{slot(1, 1), slot(2, 1), slot(3, 2), slot(4, 2)}},
	}

	standings := ComputeStandings(records)

	assert.Equal(t, 3, standings[1].Points)
	assert.Equal(t, 3, standings[2].Points)
	assert.Equal(t, 0, standings[3].Points)
	assert.Equal(t, 0, standings[4].Points)
}

func TestComputeStandingsFourPlayerWithThirdPlaceIsFFA(t *testing.T) {
	// A single position above 2 disambiguates to free-for-all scoring.
	records := []MatchRecord{
		{MatchID: 1, Players: []PlayerSlot{slot(1, 1), slot(2, 2), slot(3, 3), slot(4, 4)}},
	}

	standings := ComputeStandings(records)

	assert.Equal(t, 4, standings[1].Points)
	assert.Equal(t, 2, standings[2].Points)
	assert.Equal(t, 1, standings[3].Points)
}

func TestComputeStandingsSkipsUnreportedPositions(t *testing.T) {
	records := []MatchRecord{
		{MatchID: 1, Players: []PlayerSlot{
			slot(1, 1),
			{PlayerID: 2}, // not reported yet
		}},
	}

	standings := ComputeStandings(records)

	require.Contains(t, standings, 1)
	assert.NotContains(t, standings, 2)
	assert.Equal(t, 3, standings[1].Points)
	assert.Equal(t, 1, standings[1].Matches)
}
