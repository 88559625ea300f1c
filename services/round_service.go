package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/flynnistcool/pinball-tournament-app-sub000/live"
	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/flynnistcool/pinball-tournament-app-sub000/pairing"
	"github.com/flynnistcool/pinball-tournament-app-sub000/repositories"
	"golang.org/x/sync/errgroup"
)

// StartOrder selects how players are seated within a new match.
type StartOrder string

const (
	StartOrderRandom       StartOrder = "random"
	StartOrderStandingsAsc StartOrder = "standings_asc"
	StartOrderLastRoundAsc StartOrder = "last_round_asc"
)

type CreateRoundParams struct {
	StartOrder StartOrder
	EloEnabled bool
}

// RoundResult reports what a round-creation call produced. Warnings are
// non-fatal: the round exists even when some groups degraded.
type RoundResult struct {
	RoundNumber         int        `json:"round_number"`
	RequestedStartOrder StartOrder `json:"requested_start_order"`
	EffectiveStartOrder StartOrder `json:"effective_start_order"`
	Warnings            []string   `json:"warnings"`
}

type RoundService interface {
	CreateRound(ctx context.Context, code string, params CreateRoundParams) (*RoundResult, error)
}

type roundService struct {
	transactor      repositories.Transactor
	tournamentRepo  repositories.TournamentRepository
	playerRepo      repositories.PlayerRepository
	machineRepo     repositories.MachineRepository
	roundRepo       repositories.RoundRepository
	matchRepo       repositories.MatchRepository
	matchPlayerRepo repositories.MatchPlayerRepository
	profileRepo     repositories.ProfileRepository
	baselineRepo    repositories.RatingBaselineRepository
	hub             *live.Hub
	logger          *slog.Logger
	newRand         func() *rand.Rand
}

func NewRoundService(
	transactor repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	machineRepo repositories.MachineRepository,
	roundRepo repositories.RoundRepository,
	matchRepo repositories.MatchRepository,
	matchPlayerRepo repositories.MatchPlayerRepository,
	profileRepo repositories.ProfileRepository,
	baselineRepo repositories.RatingBaselineRepository,
	hub *live.Hub,
	logger *slog.Logger,
	newRand func() *rand.Rand,
) RoundService {
	if newRand == nil {
		newRand = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &roundService{
		transactor:      transactor,
		tournamentRepo:  tournamentRepo,
		playerRepo:      playerRepo,
		machineRepo:     machineRepo,
		roundRepo:       roundRepo,
		matchRepo:       matchRepo,
		matchPlayerRepo: matchPlayerRepo,
		profileRepo:     profileRepo,
		baselineRepo:    baselineRepo,
		hub:             hub,
		logger:          logger,
		newRand:         newRand,
	}
}

// roundGroup is one match worth of players, with team assignments when the
// format plays doubles.
type roundGroup struct {
	players []int
	teams   map[int]int
}

func (s *roundService) CreateRound(ctx context.Context, code string, params CreateRoundParams) (*RoundResult, error) {
	requested := params.StartOrder
	if requested == "" {
		requested = StartOrderRandom
	}
	switch requested {
	case StartOrderRandom, StartOrderStandingsAsc, StartOrderLastRoundAsc:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartOrder, requested)
	}

	tournament, err := s.tournamentRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	var (
		players  []*models.Player
		machines []*models.Machine
		history  *historySnapshot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var loadErr error
		players, loadErr = s.playerRepo.ListByTournament(gctx, tournament.ID, true)
		return loadErr
	})
	g.Go(func() error {
		var loadErr error
		machines, loadErr = s.machineRepo.ListByTournament(gctx, tournament.ID, true)
		return loadErr
	})
	g.Go(func() error {
		var loadErr error
		history, loadErr = loadHistorySnapshot(gctx, s.roundRepo, s.matchRepo, s.matchPlayerRepo, tournament.ID)
		return loadErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament state for %q: %w", code, err)
	}

	names := make(map[int]string, len(players))
	eligible := make([]int, 0, len(players))
	for _, p := range players {
		names[p.ID] = p.Name
		if p.EliminatedRound == nil {
			eligible = append(eligible, p.ID)
		}
	}
	if len(eligible) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	rng := s.newRand()
	hist := pairing.BuildHistory(history.Records)
	points := standingPoints(history.Records)
	firstRound := len(history.Rounds) == 0

	warnings := make([]string, 0)
	groups := s.buildGroups(tournament, eligible, hist, points, firstRound, names, rng, &warnings)
	if len(groups) == 0 {
		return nil, ErrNoGroupsBuilt
	}

	roundNumber := 1
	if n := len(history.Rounds); n > 0 {
		roundNumber = history.Rounds[n-1].Number + 1
	}

	effective := requested
	var prevPositions map[int]int
	if requested == StartOrderLastRoundAsc {
		prevPositions, effective = s.resolveLastRoundOrder(history, len(groups), &warnings)
	}

	matchesBuilt := 0
	err = s.transactor.WithinTransaction(ctx, func(exec repositories.SQLExecutor) error {
		round := &models.Round{
			TournamentID: tournament.ID,
			Number:       roundNumber,
			Format:       tournament.Format,
			Status:       models.RoundStatusOpen,
			EloEnabled:   params.EloEnabled,
		}
		if err := s.roundRepo.Create(ctx, exec, round); err != nil {
			return err
		}

		usedThisRound := make(map[int]bool)
		for _, group := range groups {
			machine := pickMachine(machines, hist.MachineUse, group.players, usedThisRound, rng)
			if machine == nil {
				warnings = append(warnings, fmt.Sprintf(
					"no machine available for %s; group skipped", joinNames(group.players, names)))
				continue
			}
			usedThisRound[machine.ID] = true

			machineID := machine.ID
			match := &models.Match{
				RoundID:    round.ID,
				MachineID:  &machineID,
				Status:     models.MatchStatusOpen,
				GameNumber: 1,
			}
			if err := s.matchRepo.Create(ctx, exec, match); err != nil {
				return err
			}

			seats := orderSeats(group.players, effective, points, names, prevPositions, rng)
			for i, playerID := range seats {
				mp := &models.MatchPlayer{
					MatchID:       match.ID,
					PlayerID:      playerID,
					StartPosition: i + 1,
				}
				if teamNo, ok := group.teams[playerID]; ok {
					team := teamNo
					mp.Team = &team
				}
				if _, err := s.matchPlayerRepo.CreateIfAbsent(ctx, exec, mp); err != nil {
					return err
				}
			}
			matchesBuilt++
		}
		if matchesBuilt == 0 {
			return ErrNoGroupsBuilt
		}

		if err := s.snapshotBaselines(ctx, exec, tournament, players); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateCurrentRound(ctx, exec, tournament.ID, roundNumber)
	})
	if err != nil {
		return nil, err
	}

	result := &RoundResult{
		RoundNumber:         roundNumber,
		RequestedStartOrder: requested,
		EffectiveStartOrder: effective,
		Warnings:            warnings,
	}

	s.logger.Info("round created",
		slog.String("tournament", tournament.Code),
		slog.Int("round", roundNumber),
		slog.Int("matches", matchesBuilt),
		slog.Int("warnings", len(warnings)),
	)
	if s.hub != nil {
		s.hub.BroadcastToRoom(tournament.Code, live.EventRoundCreated, result)
	}
	return result, nil
}

// buildGroups dispatches on the tournament format. Unrecognized formats fall
// back to matchplay-style grouping over a zero-cost function, which amounts to
// random slicing.
func (s *roundService) buildGroups(
	tournament *models.Tournament,
	eligible []int,
	hist *pairing.History,
	points map[int]int,
	firstRound bool,
	names map[int]string,
	rng *rand.Rand,
	warnings *[]string,
) []roundGroup {
	size := tournament.MatchSize
	if size < 2 || size > 4 {
		size = 2
	}

	var groups []roundGroup
	var bye *int

	switch tournament.Format {
	case models.FormatSwiss:
		raw, b := pairing.SwissSeed(eligible, points, firstRound, size, rng)
		groups, bye = wrapGroups(raw), b

	case models.FormatDYPRoundRobin:
		doubles, leftover, b := pairing.BuildDoubles(eligible, hist, rng)
		bye = b
		for _, d := range doubles {
			groups = append(groups, roundGroup{
				players: []int{d.TeamA[0], d.TeamA[1], d.TeamB[0], d.TeamB[1]},
				teams: map[int]int{
					d.TeamA[0]: 1, d.TeamA[1]: 1,
					d.TeamB[0]: 2, d.TeamB[1]: 2,
				},
			})
		}
		for _, pair := range leftover {
			*warnings = append(*warnings, fmt.Sprintf(
				"no opposing team left for %s; seating them head-to-head",
				joinNames([]int{pair[0], pair[1]}, names)))
			groups = append(groups, roundGroup{players: []int{pair[0], pair[1]}})
		}

	case models.FormatElimination:
		// Elimination rounds always hold a single match with the whole field;
		// later rounds are provisioned by the score cascade.
		groups = []roundGroup{{players: append([]int(nil), eligible...)}}

	case models.FormatMatchplay:
		g := pairing.GroupPlayers(eligible, size, pairing.PairCost(hist.PairCounts), rng)
		groups, bye = wrapGroups(g.Groups), g.Bye

	default:
		*warnings = append(*warnings, fmt.Sprintf(
			"unknown format %q; using random matchplay grouping", tournament.Format))
		g := pairing.GroupPlayers(eligible, size, func(int, int) int { return 0 }, rng)
		groups, bye = wrapGroups(g.Groups), g.Bye
	}

	if bye != nil {
		*warnings = append(*warnings, fmt.Sprintf("%s sits out this round", names[*bye]))
	}
	return groups
}

func wrapGroups(raw [][]int) []roundGroup {
	groups := make([]roundGroup, 0, len(raw))
	for _, g := range raw {
		groups = append(groups, roundGroup{players: g})
	}
	return groups
}

// resolveLastRoundOrder validates the last_round_asc policy: it only makes
// sense when both the previous round and the new one hold exactly one match.
// Anything else silently downgrades to random with a warning.
func (s *roundService) resolveLastRoundOrder(history *historySnapshot, newGroupCount int, warnings *[]string) (map[int]int, StartOrder) {
	if len(history.Rounds) == 0 || newGroupCount != 1 {
		*warnings = append(*warnings, "start order last_round_asc needs single-match rounds; using random")
		return nil, StartOrderRandom
	}
	prev := history.Rounds[len(history.Rounds)-1]
	var prevMatchID *int
	for _, m := range history.Matches {
		if m.RoundID != prev.ID {
			continue
		}
		if prevMatchID != nil {
			*warnings = append(*warnings, "start order last_round_asc needs single-match rounds; using random")
			return nil, StartOrderRandom
		}
		id := m.ID
		prevMatchID = &id
	}
	if prevMatchID == nil {
		*warnings = append(*warnings, "start order last_round_asc needs single-match rounds; using random")
		return nil, StartOrderRandom
	}

	positions := make(map[int]int)
	for _, rec := range history.Records {
		if rec.MatchID != *prevMatchID {
			continue
		}
		for _, slot := range rec.Players {
			if slot.Position != nil {
				positions[slot.PlayerID] = *slot.Position
			}
		}
	}
	return positions, StartOrderLastRoundAsc
}

// orderSeats produces the start order for one group. Worst-first policies put
// the weakest player in seat 1.
func orderSeats(group []int, mode StartOrder, points map[int]int, names map[int]string, prevPositions map[int]int, rng *rand.Rand) []int {
	seats := append([]int(nil), group...)
	rng.Shuffle(len(seats), func(i, j int) {
		seats[i], seats[j] = seats[j], seats[i]
	})

	switch mode {
	case StartOrderStandingsAsc:
		sort.SliceStable(seats, func(i, j int) bool {
			if points[seats[i]] != points[seats[j]] {
				return points[seats[i]] < points[seats[j]]
			}
			return names[seats[i]] < names[seats[j]]
		})
	case StartOrderLastRoundAsc:
		sort.SliceStable(seats, func(i, j int) bool {
			pi, okI := prevPositions[seats[i]]
			pj, okJ := prevPositions[seats[j]]
			if okI != okJ {
				return okI // players without a recorded position go last
			}
			return pi > pj
		})
	}
	return seats
}

// pickMachine selects a machine for a group: prefer machines not yet used
// this round, then the one least played historically by the group's players,
// ties broken uniformly at random. Returns nil when no machine is active.
func pickMachine(machines []*models.Machine, use map[int]map[int]int, group []int, usedThisRound map[int]bool, rng *rand.Rand) *models.Machine {
	if len(machines) == 0 {
		return nil
	}

	pool := make([]*models.Machine, 0, len(machines))
	for _, m := range machines {
		if !usedThisRound[m.ID] {
			pool = append(pool, m)
		}
	}
	if len(pool) == 0 {
		pool = machines
	}

	var candidates []*models.Machine
	bestScore := 0
	for _, m := range pool {
		score := 0
		for _, playerID := range group {
			score += use[playerID][m.ID]
		}
		if candidates == nil || score < bestScore {
			candidates = []*models.Machine{m}
			bestScore = score
		} else if score == bestScore {
			candidates = append(candidates, m)
		}
	}
	return candidates[rng.Intn(len(candidates))]
}

func (s *roundService) snapshotBaselines(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, players []*models.Player) error {
	existing, err := s.baselineRepo.ListProfileIDs(ctx, tournament.ID)
	if err != nil {
		return err
	}

	missing := make([]int, 0)
	seen := make(map[int]bool)
	for _, p := range players {
		if p.ProfileID == nil || existing[*p.ProfileID] || seen[*p.ProfileID] {
			continue
		}
		seen[*p.ProfileID] = true
		missing = append(missing, *p.ProfileID)
	}
	if len(missing) == 0 {
		return nil
	}

	profiles, err := s.profileRepo.ListByIDs(ctx, missing)
	if err != nil {
		return err
	}
	for _, profile := range profiles {
		baseline := &models.RatingBaseline{
			TournamentID: tournament.ID,
			ProfileID:    profile.ID,
			Rating:       profile.Rating,
		}
		if err := s.baselineRepo.Create(ctx, exec, baseline); err != nil {
			return err
		}
	}
	return nil
}

func joinNames(ids []int, names map[int]string) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := names[id]; ok {
			parts[i] = name
		} else {
			parts[i] = fmt.Sprintf("player %d", id)
		}
	}
	return strings.Join(parts, ", ")
}
