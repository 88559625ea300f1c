package services

import (
	"context"
	"errors"
	"sort"

	"github.com/flynnistcool/pinball-tournament-app-sub000/pairing"
	"github.com/flynnistcool/pinball-tournament-app-sub000/repositories"
)

// StandingRow is one line of the tournament leaderboard.
type StandingRow struct {
	PlayerID        int    `json:"player_id"`
	Name            string `json:"name"`
	Points          int    `json:"points"`
	Matches         int    `json:"matches"`
	EliminatedRound *int   `json:"eliminated_round,omitempty"`
}

type StandingsService interface {
	ListStandings(ctx context.Context, code string) ([]StandingRow, error)
}

type standingsService struct {
	tournamentRepo  repositories.TournamentRepository
	playerRepo      repositories.PlayerRepository
	roundRepo       repositories.RoundRepository
	matchRepo       repositories.MatchRepository
	matchPlayerRepo repositories.MatchPlayerRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	matchPlayerRepo repositories.MatchPlayerRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo:  tournamentRepo,
		playerRepo:      playerRepo,
		roundRepo:       roundRepo,
		matchRepo:       matchRepo,
		matchPlayerRepo: matchPlayerRepo,
	}
}

// ListStandings recomputes the leaderboard from finished matches. Every
// registered player appears, including those with no scored match yet; ties
// on points fall back to name so the order is stable across requests.
func (s *standingsService) ListStandings(ctx context.Context, code string) ([]StandingRow, error) {
	tournament, err := s.tournamentRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	players, err := s.playerRepo.ListByTournament(ctx, tournament.ID, false)
	if err != nil {
		return nil, err
	}

	snapshot, err := loadHistorySnapshot(ctx, s.roundRepo, s.matchRepo, s.matchPlayerRepo, tournament.ID)
	if err != nil {
		return nil, err
	}
	standings := pairing.ComputeStandings(snapshot.Records)

	rows := make([]StandingRow, 0, len(players))
	for _, p := range players {
		row := StandingRow{
			PlayerID:        p.ID,
			Name:            p.Name,
			EliminatedRound: p.EliminatedRound,
		}
		if st, ok := standings[p.ID]; ok {
			row.Points = st.Points
			row.Matches = st.Matches
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}
