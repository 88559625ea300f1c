package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	GetByCode(ctx context.Context, code string) (*models.Tournament, error)
	UpdateCurrentRound(ctx context.Context, exec SQLExecutor, tournamentID int, roundNumber int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) GetByCode(ctx context.Context, code string) (*models.Tournament, error) {
	query := `
		SELECT id, code, name, format, match_size, current_round, created_at
		FROM tournaments
		WHERE code = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, code).Scan(
		&t.ID,
		&t.Code,
		&t.Name,
		&t.Format,
		&t.MatchSize,
		&t.CurrentRound,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament by code %q: %w", code, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) UpdateCurrentRound(ctx context.Context, exec SQLExecutor, tournamentID int, roundNumber int) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE tournaments SET current_round = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, roundNumber, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to update current round for tournament %d: %w", tournamentID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
