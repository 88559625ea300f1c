package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/flynnistcool/pinball-tournament-app-sub000/live"
	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/flynnistcool/pinball-tournament-app-sub000/repositories"
	"github.com/google/uuid"
)

// NotificationKind classifies who an advancement notification is about.
type NotificationKind string

const (
	NotifyFirstInNextRound NotificationKind = "first_in_next_round"
	NotifyJoiningOthers    NotificationKind = "joining_others"
	NotifyTournamentWinner NotificationKind = "tournament_winner"
)

// AdvanceNotification tells the caller that a spoken or visual announcement
// should fire for a player. Message templating lives outside this core; the
// kind tag is enough for the transport layer to pick a template.
type AdvanceNotification struct {
	ID       string           `json:"id"`
	PlayerID int              `json:"player_id"`
	Kind     NotificationKind `json:"kind"`
}

// ScoreResult is what a score submission returns: the updated row and, for
// elimination play, an optional advancement notification.
type ScoreResult struct {
	MatchPlayer  *models.MatchPlayer  `json:"match_player"`
	Notification *AdvanceNotification `json:"notification,omitempty"`
}

type ScoreService interface {
	SubmitScore(ctx context.Context, code string, matchID, playerID int, score *float64) (*ScoreResult, error)
}

type scoreService struct {
	transactor      repositories.Transactor
	tournamentRepo  repositories.TournamentRepository
	playerRepo      repositories.PlayerRepository
	machineRepo     repositories.MachineRepository
	roundRepo       repositories.RoundRepository
	matchRepo       repositories.MatchRepository
	matchPlayerRepo repositories.MatchPlayerRepository
	hub             *live.Hub
	logger          *slog.Logger
	newRand         func() *rand.Rand
}

func NewScoreService(
	transactor repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	machineRepo repositories.MachineRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	matchPlayerRepo repositories.MatchPlayerRepository,
	hub *live.Hub,
	logger *slog.Logger,
	newRand func() *rand.Rand,
) ScoreService {
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &scoreService{
		transactor:      transactor,
		tournamentRepo:  tournamentRepo,
		playerRepo:      playerRepo,
		machineRepo:     machineRepo,
		roundRepo:       roundRepo,
		matchRepo:       matchRepo,
		matchPlayerRepo: matchPlayerRepo,
		hub:             hub,
		logger:          logger,
		newRand:         newRand,
	}
}

// SubmitScore persists one player's score and, in elimination play, runs the
// cascade: safety inference, completion check, position assignment,
// elimination stamping and next-round provisioning. The raw score write always
// lands first; a tie for last place is the only condition surfaced as an
// error, and it never mutates positions.
func (s *scoreService) SubmitScore(ctx context.Context, code string, matchID, playerID int, score *float64) (*ScoreResult, error) {
	if score != nil && !validScore(*score) {
		return nil, ErrInvalidScore
	}

	tournament, err := s.tournamentRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	round, err := s.roundRepo.GetByID(ctx, match.RoundID)
	if err != nil {
		return nil, err
	}
	if round.TournamentID != tournament.ID {
		return nil, ErrMatchNotInTournament
	}

	updated, err := s.matchPlayerRepo.UpdateScore(ctx, nil, matchID, playerID, score, score != nil)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchPlayerNotFound) {
			return nil, ErrPlayerNotInMatch
		}
		return nil, err
	}
	result := &ScoreResult{MatchPlayer: updated}

	if round.Format != models.FormatElimination && tournament.Format != models.FormatElimination {
		return result, nil
	}

	notification, err := s.runCascade(ctx, tournament, round, match, playerID)
	if err != nil {
		if errors.Is(err, ErrLastPlaceTie) {
			// The score itself stays persisted; positions are untouched.
			return nil, err
		}
		// Everything else in the cascade is best-effort.
		s.logger.Warn("elimination cascade degraded",
			slog.String("tournament", tournament.Code),
			slog.Int("match", matchID),
			slog.Any("error", err),
		)
		return result, nil
	}
	result.Notification = notification

	if notification != nil && s.hub != nil {
		event := live.EventPlayerAdvanced
		if notification.Kind == NotifyTournamentWinner {
			event = live.EventTournamentWon
		}
		s.hub.BroadcastToRoom(tournament.Code, event, notification)
	}
	return result, nil
}

func (s *scoreService) runCascade(ctx context.Context, tournament *models.Tournament, round *models.Round, match *models.Match, actorID int) (*AdvanceNotification, error) {
	rounds, err := s.roundRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, err
	}

	expected, err := s.expectedParticipants(ctx, tournament, rounds, round)
	if err != nil {
		return nil, err
	}

	matchPlayers, err := s.matchPlayerRepo.ListByMatchIDs(ctx, []int{match.ID})
	if err != nil {
		return nil, err
	}

	submitted := make([]*models.MatchPlayer, 0, len(matchPlayers))
	for _, mp := range matchPlayers {
		if mp.ScoreSubmitted && mp.Score != nil && validScore(*mp.Score) {
			submitted = append(submitted, mp)
		}
	}

	// Safety can only be judged once at least two scores are in: a lone first
	// submission must not imply anyone is safe.
	var safe []int
	if len(submitted) >= 2 {
		minScore := *submitted[0].Score
		for _, mp := range submitted[1:] {
			if *mp.Score < minScore {
				minScore = *mp.Score
			}
		}
		for _, mp := range submitted {
			if *mp.Score > minScore {
				safe = append(safe, mp.PlayerID)
			}
		}
	}

	projectedRemaining := expected - 1

	var notification *AdvanceNotification
	if containsID(safe, actorID) {
		occupants, lookErr := s.nextRoundOccupants(ctx, rounds, round.Number)
		if lookErr != nil {
			s.logger.Warn("next round lookup failed", slog.Any("error", lookErr))
		} else {
			notification = &AdvanceNotification{
				ID:       uuid.NewString(),
				PlayerID: actorID,
				Kind:     ClassifyAdvancement(actorID, occupants, projectedRemaining),
			}
		}
	}

	complete := len(matchPlayers) == expected && len(submitted) == len(matchPlayers) && len(matchPlayers) > 0
	var loserID int
	if complete {
		minScore := *matchPlayers[0].Score
		for _, mp := range matchPlayers[1:] {
			if *mp.Score < minScore {
				minScore = *mp.Score
			}
		}
		minHolders := make([]int, 0, 1)
		for _, mp := range matchPlayers {
			if *mp.Score == minScore {
				minHolders = append(minHolders, mp.PlayerID)
			}
		}
		if len(minHolders) > 1 {
			return nil, fmt.Errorf("%w (match %d)", ErrLastPlaceTie, match.ID)
		}
		loserID = minHolders[0]

		err = s.transactor.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
			for _, mp := range matchPlayers {
				position := 1
				if mp.PlayerID == loserID {
					position = 2
				}
				if err := s.matchPlayerRepo.UpdatePosition(ctx, exec, match.ID, mp.PlayerID, position); err != nil {
					return err
				}
			}
			if err := s.matchRepo.UpdateStatus(ctx, exec, match.ID, models.MatchStatusComplete); err != nil {
				return err
			}
			if err := s.playerRepo.SetEliminatedRound(ctx, exec, loserID, round.Number); err != nil {
				// Already stamped by an earlier run; keep the rest.
				if !errors.Is(err, repositories.ErrPlayerNotFound) {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return notification, err
		}
		if s.hub != nil {
			s.hub.BroadcastToRoom(tournament.Code, live.EventMatchCompleted, map[string]int{
				"match_id": match.ID,
				"round":    round.Number,
			})
		}
	}

	// Provision the next round with whoever is confirmed through: the whole
	// field minus the loser once complete, the provisional safe set otherwise.
	if projectedRemaining >= 2 {
		var advancing []int
		if complete {
			for _, mp := range matchPlayers {
				if mp.PlayerID != loserID {
					advancing = append(advancing, mp.PlayerID)
				}
			}
		} else {
			advancing = safe
		}
		if len(advancing) > 0 {
			if provErr := s.provisionNextRound(ctx, tournament, rounds, round, advancing); provErr != nil {
				s.logger.Warn("next round provisioning failed",
					slog.String("tournament", tournament.Code),
					slog.Int("round", round.Number),
					slog.Any("error", provErr),
				)
			}
		}
	}
	return notification, nil
}

// expectedParticipants derives how many players this round should seat by
// walking back to the first elimination round: one player leaves per round.
// The guard keeps a half-populated round from being closed early.
func (s *scoreService) expectedParticipants(ctx context.Context, tournament *models.Tournament, rounds []*models.Round, current *models.Round) (int, error) {
	startRound := current
	for _, r := range rounds {
		if r.Format == models.FormatElimination {
			startRound = r
			break
		}
	}

	startMatches, err := s.matchRepo.ListByRoundIDs(ctx, []int{startRound.ID})
	if err != nil {
		return 0, err
	}
	matchIDs := make([]int, len(startMatches))
	for i, m := range startMatches {
		matchIDs[i] = m.ID
	}
	startMPs, err := s.matchPlayerRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return 0, err
	}
	distinct := make(map[int]bool)
	for _, mp := range startMPs {
		distinct[mp.PlayerID] = true
	}
	startTotal := len(distinct)

	if startTotal == 0 {
		active, err := s.playerRepo.ListByTournament(ctx, tournament.ID, true)
		if err != nil {
			return 0, err
		}
		startTotal = len(active)
	}

	expected := startTotal - (current.Number - startRound.Number)
	if expected < 2 {
		expected = 2
	}
	return expected, nil
}

func (s *scoreService) nextRoundOccupants(ctx context.Context, rounds []*models.Round, currentNumber int) ([]int, error) {
	var next *models.Round
	for _, r := range rounds {
		if r.Number == currentNumber+1 {
			next = r
			break
		}
	}
	if next == nil {
		return nil, nil
	}
	matches, err := s.matchRepo.ListByRoundIDs(ctx, []int{next.ID})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	matchPlayers, err := s.matchPlayerRepo.ListByMatchIDs(ctx, []int{matches[0].ID})
	if err != nil {
		return nil, err
	}
	occupants := make([]int, 0, len(matchPlayers))
	for _, mp := range matchPlayers {
		occupants = append(occupants, mp.PlayerID)
	}
	return occupants, nil
}

// ClassifyAdvancement is the pure decision behind advancement notifications:
// a projected field below two means the actor just won the tournament;
// otherwise the actor is either the first into the next round or joins players
// already seated there.
func ClassifyAdvancement(actorID int, nextOccupants []int, projectedRemaining int) NotificationKind {
	if projectedRemaining < 2 {
		return NotifyTournamentWinner
	}
	for _, id := range nextOccupants {
		if id != actorID {
			return NotifyJoiningOthers
		}
	}
	return NotifyFirstInNextRound
}

func (s *scoreService) provisionNextRound(ctx context.Context, tournament *models.Tournament, rounds []*models.Round, current *models.Round, advancing []int) error {
	next, err := s.roundRepo.FindByNumber(ctx, tournament.ID, current.Number+1)
	if errors.Is(err, repositories.ErrRoundNotFound) {
		next = &models.Round{
			TournamentID: tournament.ID,
			Number:       current.Number + 1,
			Format:       models.FormatElimination,
			Status:       models.RoundStatusOpen,
			EloEnabled:   current.EloEnabled,
		}
		err = s.roundRepo.Create(ctx, nil, next)
		if errors.Is(err, repositories.ErrRoundNumberConflict) {
			// A concurrent submission created it first; use theirs.
			next, err = s.roundRepo.FindByNumber(ctx, tournament.ID, current.Number+1)
		}
	}
	if err != nil {
		return err
	}

	matches, err := s.matchRepo.ListByRoundIDs(ctx, []int{next.ID})
	if err != nil {
		return err
	}
	var nextMatch *models.Match
	if len(matches) > 0 {
		nextMatch = matches[0]
	} else {
		nextMatch = &models.Match{
			RoundID:    next.ID,
			Status:     models.MatchStatusOpen,
			GameNumber: 1,
		}
		if machine, pickErr := s.pickEliminationMachine(ctx, tournament, rounds, advancing); pickErr != nil {
			s.logger.Warn("elimination machine selection failed", slog.Any("error", pickErr))
		} else if machine != nil {
			machineID := machine.ID
			nextMatch.MachineID = &machineID
		}
		if err := s.matchRepo.Create(ctx, nil, nextMatch); err != nil {
			return err
		}
	}

	existing, err := s.matchPlayerRepo.ListByMatchIDs(ctx, []int{nextMatch.ID})
	if err != nil {
		return err
	}
	present := make(map[int]bool, len(existing))
	for _, mp := range existing {
		present[mp.PlayerID] = true
	}

	startPosition := len(existing)
	for _, playerID := range advancing {
		if present[playerID] {
			continue
		}
		startPosition++
		mp := &models.MatchPlayer{
			MatchID:       nextMatch.ID,
			PlayerID:      playerID,
			StartPosition: startPosition,
		}
		if _, err := s.matchPlayerRepo.CreateIfAbsent(ctx, nil, mp); err != nil {
			return err
		}
	}
	return nil
}

// pickEliminationMachine applies the least-used heuristic scoped across all
// of the tournament's elimination rounds rather than the current round.
func (s *scoreService) pickEliminationMachine(ctx context.Context, tournament *models.Tournament, rounds []*models.Round, group []int) (*models.Machine, error) {
	machines, err := s.machineRepo.ListByTournament(ctx, tournament.ID, true)
	if err != nil {
		return nil, err
	}
	if len(machines) == 0 {
		return nil, nil
	}

	elimRoundIDs := make([]int, 0, len(rounds))
	for _, r := range rounds {
		if r.Format == models.FormatElimination {
			elimRoundIDs = append(elimRoundIDs, r.ID)
		}
	}
	elimMatches, err := s.matchRepo.ListByRoundIDs(ctx, elimRoundIDs)
	if err != nil {
		return nil, err
	}
	matchIDs := make([]int, len(elimMatches))
	machineByMatch := make(map[int]*int, len(elimMatches))
	usedInElimination := make(map[int]bool)
	for i, m := range elimMatches {
		matchIDs[i] = m.ID
		machineByMatch[m.ID] = m.MachineID
		if m.MachineID != nil {
			usedInElimination[*m.MachineID] = true
		}
	}
	elimMPs, err := s.matchPlayerRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, err
	}

	use := make(map[int]map[int]int)
	for _, mp := range elimMPs {
		machineID := machineByMatch[mp.MatchID]
		if machineID == nil {
			continue
		}
		if use[mp.PlayerID] == nil {
			use[mp.PlayerID] = make(map[int]int)
		}
		use[mp.PlayerID][*machineID]++
	}

	return pickMachine(machines, use, group, usedInElimination, s.newRand()), nil
}

func validScore(score float64) bool {
	return !math.IsNaN(score) && !math.IsInf(score, 0) && score >= 0
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
