package services

import (
	"context"
	"errors"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/flynnistcool/pinball-tournament-app-sub000/repositories"
)

// TournamentDetail is the public view of a tournament and its rounds.
type TournamentDetail struct {
	Tournament *models.Tournament `json:"tournament"`
	Rounds     []*models.Round    `json:"rounds"`
}

type TournamentService interface {
	GetByCode(ctx context.Context, code string) (*TournamentDetail, error)
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	roundRepo      repositories.RoundRepository
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	roundRepo repositories.RoundRepository,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		roundRepo:      roundRepo,
	}
}

func (s *tournamentService) GetByCode(ctx context.Context, code string) (*TournamentDetail, error) {
	tournament, err := s.tournamentRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	rounds, err := s.roundRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, err
	}
	return &TournamentDetail{Tournament: tournament, Rounds: rounds}, nil
}
