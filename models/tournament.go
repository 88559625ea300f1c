package models

import "time"

// TournamentFormat selects the grouping strategy used when a new round is built.
type TournamentFormat string

const (
	FormatMatchplay     TournamentFormat = "matchplay"
	FormatSwiss         TournamentFormat = "swiss"
	FormatDYPRoundRobin TournamentFormat = "dyp_round_robin"
	FormatElimination   TournamentFormat = "elimination"
)

// Tournament is one running event. Players join it, machines belong to it,
// rounds are generated inside it. It is looked up by its public code.
type Tournament struct {
	ID           int              `json:"id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	Format       TournamentFormat `json:"format"`
	MatchSize    int              `json:"match_size"`
	CurrentRound *int             `json:"current_round,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}
