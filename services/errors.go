package services

import "errors"

// Errors shared across services and the HTTP error mapping.
var (
	// Not-found
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrRoundNotFound      = errors.New("round not found")

	// Validation and business rules
	ErrMatchNotInTournament = errors.New("match does not belong to this tournament")
	ErrPlayerNotInMatch     = errors.New("player is not part of this match")
	ErrInvalidScore         = errors.New("score must be a finite, non-negative number")
	ErrInvalidStartOrder    = errors.New("unknown start order mode")

	// Conflicts
	ErrLastPlaceTie = errors.New("two or more players are tied for last place; the tie must be replayed or resolved manually")

	// Hard failures during round creation
	ErrNoGroupsBuilt    = errors.New("no playable groups could be formed for this round")
	ErrNotEnoughPlayers = errors.New("not enough active players to build a round")
)
