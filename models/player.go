package models

import "time"

// Player is a participant within a single tournament. EliminatedRound stays
// nil until the elimination cascade removes the player; it is set exactly once.
type Player struct {
	ID              int       `json:"id"`
	TournamentID    int       `json:"tournament_id"`
	Name            string    `json:"name"`
	Active          bool      `json:"active"`
	ProfileID       *int      `json:"profile_id,omitempty"`
	EliminatedRound *int      `json:"eliminated_round,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
