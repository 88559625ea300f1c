package models

import "time"

type MatchStatus string

const (
	MatchStatusOpen     MatchStatus = "open"
	MatchStatusComplete MatchStatus = "complete"
)

// Match is one contest on one machine within a round. MachineID is nil when
// no machine could be allocated for the group. Elimination rounds contain
// exactly one match.
type Match struct {
	ID         int         `json:"id"`
	RoundID    int         `json:"round_id"`
	MachineID  *int        `json:"machine_id,omitempty"`
	Status     MatchStatus `json:"status"`
	GameNumber int         `json:"game_number"`
	CreatedAt  time.Time   `json:"created_at"`
}
