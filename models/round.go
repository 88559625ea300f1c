package models

import "time"

type RoundStatus string

const (
	RoundStatusOpen     RoundStatus = "open"
	RoundStatusFinished RoundStatus = "finished"
)

// Round is one generation cycle of matches. Numbers are 1-based and
// monotonic per tournament; a new round always gets max(existing)+1.
type Round struct {
	ID           int              `json:"id"`
	TournamentID int              `json:"tournament_id"`
	Number       int              `json:"number"`
	Format       TournamentFormat `json:"format"`
	Status       RoundStatus      `json:"status"`
	EloEnabled   bool             `json:"elo_enabled"`
	CreatedAt    time.Time        `json:"created_at"`
}
