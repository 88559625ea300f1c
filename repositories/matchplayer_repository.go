package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/lib/pq"
)

var ErrMatchPlayerNotFound = errors.New("match player not found")

type MatchPlayerRepository interface {
	// CreateIfAbsent inserts the row unless the (match, player) pair already
	// exists. It reports whether a row was actually inserted, which makes
	// next-round provisioning idempotent under concurrent score submissions.
	CreateIfAbsent(ctx context.Context, exec SQLExecutor, mp *models.MatchPlayer) (bool, error)
	ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.MatchPlayer, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, matchID, playerID int, score *float64, submitted bool) (*models.MatchPlayer, error)
	UpdatePosition(ctx context.Context, exec SQLExecutor, matchID, playerID int, position int) error
}

type postgresMatchPlayerRepository struct {
	db *sql.DB
}

func NewPostgresMatchPlayerRepository(db *sql.DB) MatchPlayerRepository {
	return &postgresMatchPlayerRepository{db: db}
}

func (r *postgresMatchPlayerRepository) CreateIfAbsent(ctx context.Context, exec SQLExecutor, mp *models.MatchPlayer) (bool, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO match_players (match_id, player_id, position, start_position, team, score, score_submitted)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (match_id, player_id) DO NOTHING
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		mp.MatchID,
		mp.PlayerID,
		mp.Position,
		mp.StartPosition,
		mp.Team,
		mp.Score,
		mp.ScoreSubmitted,
	).Scan(&mp.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict path: the row was already there.
			return false, nil
		}
		return false, fmt.Errorf("failed to insert match player (match %d, player %d): %w", mp.MatchID, mp.PlayerID, err)
	}
	return true, nil
}

func (r *postgresMatchPlayerRepository) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.MatchPlayer, error) {
	if len(matchIDs) == 0 {
		return []*models.MatchPlayer{}, nil
	}
	query := `
		SELECT id, match_id, player_id, position, start_position, team, score, score_submitted
		FROM match_players
		WHERE match_id = ANY($1)
		ORDER BY match_id ASC, start_position ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query match players: %w", err)
	}
	defer rows.Close()

	matchPlayers := make([]*models.MatchPlayer, 0)
	for rows.Next() {
		var mp models.MatchPlayer
		if scanErr := rows.Scan(
			&mp.ID,
			&mp.MatchID,
			&mp.PlayerID,
			&mp.Position,
			&mp.StartPosition,
			&mp.Team,
			&mp.Score,
			&mp.ScoreSubmitted,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match player row: %w", scanErr)
		}
		matchPlayers = append(matchPlayers, &mp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match player rows iteration: %w", err)
	}
	return matchPlayers, nil
}

func (r *postgresMatchPlayerRepository) UpdateScore(ctx context.Context, exec SQLExecutor, matchID, playerID int, score *float64, submitted bool) (*models.MatchPlayer, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE match_players
		SET score = $1, score_submitted = $2
		WHERE match_id = $3 AND player_id = $4
		RETURNING id, match_id, player_id, position, start_position, team, score, score_submitted`

	var mp models.MatchPlayer
	err := exec.QueryRowContext(ctx, query, score, submitted, matchID, playerID).Scan(
		&mp.ID,
		&mp.MatchID,
		&mp.PlayerID,
		&mp.Position,
		&mp.StartPosition,
		&mp.Team,
		&mp.Score,
		&mp.ScoreSubmitted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update score (match %d, player %d): %w", matchID, playerID, err)
	}
	return &mp, nil
}

func (r *postgresMatchPlayerRepository) UpdatePosition(ctx context.Context, exec SQLExecutor, matchID, playerID int, position int) error {
	if exec == nil {
		exec = r.db
	}
	query := `UPDATE match_players SET position = $1 WHERE match_id = $2 AND player_id = $3`
	result, err := exec.ExecContext(ctx, query, position, matchID, playerID)
	if err != nil {
		return fmt.Errorf("failed to update position (match %d, player %d): %w", matchID, playerID, err)
	}
	return checkAffectedRows(result, ErrMatchPlayerNotFound)
}
