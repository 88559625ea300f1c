package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	ListByTournament(ctx context.Context, tournamentID int, onlyActive bool) ([]*models.Player, error)
	SetEliminatedRound(ctx context.Context, exec SQLExecutor, playerID int, roundNumber int) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) ListByTournament(ctx context.Context, tournamentID int, onlyActive bool) ([]*models.Player, error) {
	query := `
		SELECT id, tournament_id, name, active, profile_id, eliminated_round, created_at
		FROM players
		WHERE tournament_id = $1`
	if onlyActive {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(
			&p.ID,
			&p.TournamentID,
			&p.Name,
			&p.Active,
			&p.ProfileID,
			&p.EliminatedRound,
			&p.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", scanErr)
		}
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}

// SetEliminatedRound stamps the round a player went out in. The guard keeps
// the stamp write-once: a second cascade run cannot move an elimination.
func (r *postgresPlayerRepository) SetEliminatedRound(ctx context.Context, exec SQLExecutor, playerID int, roundNumber int) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE players SET eliminated_round = $1 WHERE id = $2 AND eliminated_round IS NULL`
	result, err := exec.ExecContext(ctx, query, roundNumber, playerID)
	if err != nil {
		return fmt.Errorf("failed to set eliminated round for player %d: %w", playerID, err)
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
