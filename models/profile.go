package models

import "time"

// Profile is a persistent identity that survives individual tournaments and
// carries a rating. Players may optionally link to one.
type Profile struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Rating float64 `json:"rating"`
}

// RatingBaseline snapshots a profile's rating the first time the profile
// appears in a given tournament. At most one row per (tournament, profile).
type RatingBaseline struct {
	ID           int       `json:"id"`
	TournamentID int       `json:"tournament_id"`
	ProfileID    int       `json:"profile_id"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}
