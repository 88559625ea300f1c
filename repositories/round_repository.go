package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/lib/pq"
)

var (
	ErrRoundNotFound       = errors.New("round not found")
	ErrRoundNumberConflict = errors.New("round with this number already exists")
)

type RoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.Round) error
	GetByID(ctx context.Context, id int) (*models.Round, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Round, error)
	FindByNumber(ctx context.Context, tournamentID int, number int) (*models.Round, error)
}

type postgresRoundRepository struct {
	db *sql.DB
}

func NewPostgresRoundRepository(db *sql.DB) RoundRepository {
	return &postgresRoundRepository{db: db}
}

func (r *postgresRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.Round) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO rounds (tournament_id, number, format, status, elo_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		round.TournamentID,
		round.Number,
		round.Format,
		round.Status,
		round.EloEnabled,
	).Scan(&round.ID, &round.CreatedAt)
	if err != nil {
		// The (tournament_id, number) unique constraint is what keeps two
		// concurrent provisioning calls from creating the same round twice.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrRoundNumberConflict
		}
		return fmt.Errorf("failed to insert round %d for tournament %d: %w", round.Number, round.TournamentID, err)
	}
	return nil
}

func (r *postgresRoundRepository) GetByID(ctx context.Context, id int) (*models.Round, error) {
	query := `
		SELECT id, tournament_id, number, format, status, elo_enabled, created_at
		FROM rounds
		WHERE id = $1`
	return r.scanRound(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresRoundRepository) FindByNumber(ctx context.Context, tournamentID int, number int) (*models.Round, error) {
	query := `
		SELECT id, tournament_id, number, format, status, elo_enabled, created_at
		FROM rounds
		WHERE tournament_id = $1 AND number = $2`
	return r.scanRound(r.db.QueryRowContext(ctx, query, tournamentID, number))
}

func (r *postgresRoundRepository) scanRound(row *sql.Row) (*models.Round, error) {
	var round models.Round
	err := row.Scan(
		&round.ID,
		&round.TournamentID,
		&round.Number,
		&round.Format,
		&round.Status,
		&round.EloEnabled,
		&round.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to scan round: %w", err)
	}
	return &round, nil
}

func (r *postgresRoundRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Round, error) {
	query := `
		SELECT id, tournament_id, number, format, status, elo_enabled, created_at
		FROM rounds
		WHERE tournament_id = $1
		ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	rounds := make([]*models.Round, 0)
	for rows.Next() {
		var round models.Round
		if scanErr := rows.Scan(
			&round.ID,
			&round.TournamentID,
			&round.Number,
			&round.Format,
			&round.Status,
			&round.EloEnabled,
			&round.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan round row: %w", scanErr)
		}
		rounds = append(rounds, &round)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during round rows iteration: %w", err)
	}
	return rounds, nil
}
