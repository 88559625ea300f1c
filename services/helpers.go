package services

import (
	"context"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/flynnistcool/pinball-tournament-app-sub000/pairing"
	"github.com/flynnistcool/pinball-tournament-app-sub000/repositories"
)

// historySnapshot is everything the pairing core needs to know about a
// tournament's past, loaded fresh on every request. Nothing is cached between
// calls; the orchestrator is stateless by design.
type historySnapshot struct {
	Rounds  []*models.Round
	Matches []*models.Match
	Records []pairing.MatchRecord
}

func loadHistorySnapshot(
	ctx context.Context,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	matchPlayerRepo repositories.MatchPlayerRepository,
	tournamentID int,
) (*historySnapshot, error) {
	rounds, err := roundRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	roundIDs := make([]int, len(rounds))
	for i, r := range rounds {
		roundIDs[i] = r.ID
	}
	matches, err := matchRepo.ListByRoundIDs(ctx, roundIDs)
	if err != nil {
		return nil, err
	}

	matchIDs := make([]int, len(matches))
	for i, m := range matches {
		matchIDs[i] = m.ID
	}
	matchPlayers, err := matchPlayerRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, err
	}

	return &historySnapshot{
		Rounds:  rounds,
		Matches: matches,
		Records: buildRecords(matches, matchPlayers),
	}, nil
}

func buildRecords(matches []*models.Match, matchPlayers []*models.MatchPlayer) []pairing.MatchRecord {
	slotsByMatch := make(map[int][]pairing.PlayerSlot)
	for _, mp := range matchPlayers {
		slotsByMatch[mp.MatchID] = append(slotsByMatch[mp.MatchID], pairing.PlayerSlot{
			PlayerID: mp.PlayerID,
			Team:     mp.Team,
			Position: mp.Position,
		})
	}

	records := make([]pairing.MatchRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, pairing.MatchRecord{
			MatchID:   m.ID,
			MachineID: m.MachineID,
			Players:   slotsByMatch[m.ID],
		})
	}
	return records
}

func standingPoints(records []pairing.MatchRecord) map[int]int {
	points := make(map[int]int)
	for id, s := range pairing.ComputeStandings(records) {
		points[id] = s.Points
	}
	return points
}
