package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
)

var ErrMachineNotFound = errors.New("machine not found")

type MachineRepository interface {
	ListByTournament(ctx context.Context, tournamentID int, onlyActive bool) ([]*models.Machine, error)
}

type postgresMachineRepository struct {
	db *sql.DB
}

func NewPostgresMachineRepository(db *sql.DB) MachineRepository {
	return &postgresMachineRepository{db: db}
}

func (r *postgresMachineRepository) ListByTournament(ctx context.Context, tournamentID int, onlyActive bool) ([]*models.Machine, error) {
	query := `
		SELECT id, tournament_id, name, active
		FROM machines
		WHERE tournament_id = $1`
	if onlyActive {
		query += ` AND active = TRUE`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query machines for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	machines := make([]*models.Machine, 0)
	for rows.Next() {
		var m models.Machine
		if scanErr := rows.Scan(&m.ID, &m.TournamentID, &m.Name, &m.Active); scanErr != nil {
			return nil, fmt.Errorf("failed to scan machine row: %w", scanErr)
		}
		machines = append(machines, &m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during machine rows iteration: %w", err)
	}
	return machines, nil
}
