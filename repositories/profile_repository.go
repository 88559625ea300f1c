package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/lib/pq"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	ListByIDs(ctx context.Context, ids []int) ([]*models.Profile, error)
}

type postgresProfileRepository struct {
	db *sql.DB
}

func NewPostgresProfileRepository(db *sql.DB) ProfileRepository {
	return &postgresProfileRepository{db: db}
}

func (r *postgresProfileRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Profile, error) {
	if len(ids) == 0 {
		return []*models.Profile{}, nil
	}
	query := `
		SELECT id, name, rating
		FROM profiles
		WHERE id = ANY($1)
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*models.Profile, 0)
	for rows.Next() {
		var p models.Profile
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.Rating); scanErr != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", scanErr)
		}
		profiles = append(profiles, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during profile rows iteration: %w", err)
	}
	return profiles, nil
}
