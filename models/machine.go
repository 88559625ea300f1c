package models

// Machine is a physical game available to a tournament.
type Machine struct {
	ID           int    `json:"id"`
	TournamentID int    `json:"tournament_id"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
}
