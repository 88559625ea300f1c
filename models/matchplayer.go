package models

// MatchPlayer is a player's participation in a match.
//
// Position is nil until decided; 1 is best. In non-elimination rounds it is
// entered manually, in elimination rounds the cascade assigns it once every
// participant has submitted a score. StartPosition is the 1-based seat order.
// Team is 1 or 2 for doubles play and nil otherwise.
type MatchPlayer struct {
	ID             int      `json:"id"`
	MatchID        int      `json:"match_id"`
	PlayerID       int      `json:"player_id"`
	Position       *int     `json:"position,omitempty"`
	StartPosition  int      `json:"start_position"`
	Team           *int     `json:"team,omitempty"`
	Score          *float64 `json:"score,omitempty"`
	ScoreSubmitted bool     `json:"score_submitted"`
}
