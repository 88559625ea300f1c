package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
)

type RatingBaselineRepository interface {
	// ListProfileIDs returns the set of profiles that already have a baseline
	// snapshot for the tournament.
	ListProfileIDs(ctx context.Context, tournamentID int) (map[int]bool, error)
	Create(ctx context.Context, exec SQLExecutor, baseline *models.RatingBaseline) error
}

type postgresRatingBaselineRepository struct {
	db *sql.DB
}

func NewPostgresRatingBaselineRepository(db *sql.DB) RatingBaselineRepository {
	return &postgresRatingBaselineRepository{db: db}
}

func (r *postgresRatingBaselineRepository) ListProfileIDs(ctx context.Context, tournamentID int) (map[int]bool, error) {
	query := `SELECT profile_id FROM rating_baselines WHERE tournament_id = $1`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating baselines for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	profileIDs := make(map[int]bool)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan rating baseline row: %w", scanErr)
		}
		profileIDs[id] = true
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rating baseline rows iteration: %w", err)
	}
	return profileIDs, nil
}

func (r *postgresRatingBaselineRepository) Create(ctx context.Context, exec SQLExecutor, baseline *models.RatingBaseline) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO rating_baselines (tournament_id, profile_id, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (tournament_id, profile_id) DO NOTHING
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		baseline.TournamentID,
		baseline.ProfileID,
		baseline.Rating,
	).Scan(&baseline.ID, &baseline.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Already snapshotted, nothing to do.
			return nil
		}
		return fmt.Errorf("failed to insert rating baseline (tournament %d, profile %d): %w", baseline.TournamentID, baseline.ProfileID, err)
	}
	return nil
}
