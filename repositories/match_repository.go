package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/lib/pq"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByRoundIDs(ctx context.Context, roundIDs []int) ([]*models.Match, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, matchID int, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches (round_id, machine_id, status, game_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.RoundID,
		match.MachineID,
		match.Status,
		match.GameNumber,
	).Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match for round %d: %w", match.RoundID, err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, round_id, machine_id, status, game_number, created_at
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.RoundID,
		&match.MachineID,
		&match.Status,
		&match.GameNumber,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByRoundIDs(ctx context.Context, roundIDs []int) ([]*models.Match, error) {
	if len(roundIDs) == 0 {
		return []*models.Match{}, nil
	}
	query := `
		SELECT id, round_id, machine_id, status, game_number, created_at
		FROM matches
		WHERE round_id = ANY($1)
		ORDER BY round_id ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(roundIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query matches by round ids: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.RoundID,
			&match.MachineID,
			&match.Status,
			&match.GameNumber,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, &match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, matchID int, status models.MatchStatus) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE matches SET status = $1 WHERE id = $2`
	result, err := exec.ExecContext(ctx, query, status, matchID)
	if err != nil {
		return fmt.Errorf("failed to update status for match %d: %w", matchID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
