package services

import (
	"context"
	"sort"

	"github.com/flynnistcool/pinball-tournament-app-sub000/models"
	"github.com/flynnistcool/pinball-tournament-app-sub000/repositories"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. The
// service layer only talks to interfaces, so tests can run the full
// orchestration logic without a database.
type fakeStore struct {
	tournaments  map[string]*models.Tournament
	players      []*models.Player
	machines     []*models.Machine
	rounds       []*models.Round
	matches      []*models.Match
	matchPlayers []*models.MatchPlayer
	profiles     map[int]*models.Profile
	baselines    []*models.RatingBaseline
	nextID       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tournaments: make(map[string]*models.Tournament),
		profiles:    make(map[int]*models.Profile),
		nextID:      1000,
	}
}

func (s *fakeStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addTournament(t *models.Tournament) *models.Tournament {
	if t.ID == 0 {
		t.ID = s.id()
	}
	s.tournaments[t.Code] = t
	return t
}

func (s *fakeStore) addPlayer(tournamentID int, name string) *models.Player {
	p := &models.Player{ID: s.id(), TournamentID: tournamentID, Name: name, Active: true}
	s.players = append(s.players, p)
	return p
}

func (s *fakeStore) addMachine(tournamentID int, name string) *models.Machine {
	m := &models.Machine{ID: s.id(), TournamentID: tournamentID, Name: name, Active: true}
	s.machines = append(s.machines, m)
	return m
}

func (s *fakeStore) matchesForRound(roundID int) []*models.Match {
	var out []*models.Match
	for _, m := range s.matches {
		if m.RoundID == roundID {
			out = append(out, m)
		}
	}
	return out
}

func (s *fakeStore) playersForMatch(matchID int) []*models.MatchPlayer {
	var out []*models.MatchPlayer
	for _, mp := range s.matchPlayers {
		if mp.MatchID == matchID {
			out = append(out, mp)
		}
	}
	return out
}

func (s *fakeStore) player(id int) *models.Player {
	for _, p := range s.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// --- Transactor ---

type fakeTransactor struct{}

func (fakeTransactor) WithinTransaction(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

// --- TournamentRepository ---

type fakeTournamentRepo struct{ s *fakeStore }

func (r fakeTournamentRepo) GetByCode(ctx context.Context, code string) (*models.Tournament, error) {
	t, ok := r.s.tournaments[code]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return t, nil
}

func (r fakeTournamentRepo) UpdateCurrentRound(ctx context.Context, exec repositories.SQLExecutor, tournamentID, roundNumber int) error {
	for _, t := range r.s.tournaments {
		if t.ID == tournamentID {
			n := roundNumber
			t.CurrentRound = &n
			return nil
		}
	}
	return repositories.ErrTournamentNotFound
}

// --- PlayerRepository ---

type fakePlayerRepo struct{ s *fakeStore }

func (r fakePlayerRepo) ListByTournament(ctx context.Context, tournamentID int, onlyActive bool) ([]*models.Player, error) {
	var out []*models.Player
	for _, p := range r.s.players {
		if p.TournamentID != tournamentID {
			continue
		}
		if onlyActive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r fakePlayerRepo) SetEliminatedRound(ctx context.Context, exec repositories.SQLExecutor, playerID, roundNumber int) error {
	for _, p := range r.s.players {
		if p.ID == playerID {
			if p.EliminatedRound != nil {
				return repositories.ErrPlayerNotFound
			}
			n := roundNumber
			p.EliminatedRound = &n
			return nil
		}
	}
	return repositories.ErrPlayerNotFound
}

// --- MachineRepository ---

type fakeMachineRepo struct{ s *fakeStore }

func (r fakeMachineRepo) ListByTournament(ctx context.Context, tournamentID int, onlyActive bool) ([]*models.Machine, error) {
	var out []*models.Machine
	for _, m := range r.s.machines {
		if m.TournamentID != tournamentID {
			continue
		}
		if onlyActive && !m.Active {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// --- RoundRepository ---

type fakeRoundRepo struct{ s *fakeStore }

func (r fakeRoundRepo) Create(ctx context.Context, exec repositories.SQLExecutor, round *models.Round) error {
	for _, existing := range r.s.rounds {
		if existing.TournamentID == round.TournamentID && existing.Number == round.Number {
			return repositories.ErrRoundNumberConflict
		}
	}
	round.ID = r.s.id()
	r.s.rounds = append(r.s.rounds, round)
	return nil
}

func (r fakeRoundRepo) GetByID(ctx context.Context, id int) (*models.Round, error) {
	for _, round := range r.s.rounds {
		if round.ID == id {
			return round, nil
		}
	}
	return nil, repositories.ErrRoundNotFound
}

func (r fakeRoundRepo) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Round, error) {
	var out []*models.Round
	for _, round := range r.s.rounds {
		if round.TournamentID == tournamentID {
			out = append(out, round)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r fakeRoundRepo) FindByNumber(ctx context.Context, tournamentID, number int) (*models.Round, error) {
	for _, round := range r.s.rounds {
		if round.TournamentID == tournamentID && round.Number == number {
			return round, nil
		}
	}
	return nil, repositories.ErrRoundNotFound
}

// --- MatchRepository ---

type fakeMatchRepo struct{ s *fakeStore }

func (r fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	match.ID = r.s.id()
	r.s.matches = append(r.s.matches, match)
	return nil
}

func (r fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	for _, m := range r.s.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrMatchNotFound
}

func (r fakeMatchRepo) ListByRoundIDs(ctx context.Context, roundIDs []int) ([]*models.Match, error) {
	wanted := make(map[int]bool, len(roundIDs))
	for _, id := range roundIDs {
		wanted[id] = true
	}
	var out []*models.Match
	for _, m := range r.s.matches {
		if wanted[m.RoundID] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r fakeMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, matchID int, status models.MatchStatus) error {
	for _, m := range r.s.matches {
		if m.ID == matchID {
			m.Status = status
			return nil
		}
	}
	return repositories.ErrMatchNotFound
}

// --- MatchPlayerRepository ---

type fakeMatchPlayerRepo struct{ s *fakeStore }

func (r fakeMatchPlayerRepo) CreateIfAbsent(ctx context.Context, exec repositories.SQLExecutor, mp *models.MatchPlayer) (bool, error) {
	for _, existing := range r.s.matchPlayers {
		if existing.MatchID == mp.MatchID && existing.PlayerID == mp.PlayerID {
			return false, nil
		}
	}
	mp.ID = r.s.id()
	r.s.matchPlayers = append(r.s.matchPlayers, mp)
	return true, nil
}

func (r fakeMatchPlayerRepo) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]*models.MatchPlayer, error) {
	wanted := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		wanted[id] = true
	}
	var out []*models.MatchPlayer
	for _, mp := range r.s.matchPlayers {
		if wanted[mp.MatchID] {
			out = append(out, mp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].StartPosition < out[j].StartPosition
	})
	return out, nil
}

func (r fakeMatchPlayerRepo) UpdateScore(ctx context.Context, exec repositories.SQLExecutor, matchID, playerID int, score *float64, submitted bool) (*models.MatchPlayer, error) {
	for _, mp := range r.s.matchPlayers {
		if mp.MatchID == matchID && mp.PlayerID == playerID {
			mp.Score = score
			mp.ScoreSubmitted = submitted
			out := *mp
			return &out, nil
		}
	}
	return nil, repositories.ErrMatchPlayerNotFound
}

func (r fakeMatchPlayerRepo) UpdatePosition(ctx context.Context, exec repositories.SQLExecutor, matchID, playerID, position int) error {
	for _, mp := range r.s.matchPlayers {
		if mp.MatchID == matchID && mp.PlayerID == playerID {
			p := position
			mp.Position = &p
			return nil
		}
	}
	return repositories.ErrMatchPlayerNotFound
}

// --- ProfileRepository ---

type fakeProfileRepo struct{ s *fakeStore }

func (r fakeProfileRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Profile, error) {
	var out []*models.Profile
	for _, id := range ids {
		if p, ok := r.s.profiles[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- RatingBaselineRepository ---

type fakeBaselineRepo struct{ s *fakeStore }

func (r fakeBaselineRepo) ListProfileIDs(ctx context.Context, tournamentID int) (map[int]bool, error) {
	out := make(map[int]bool)
	for _, b := range r.s.baselines {
		if b.TournamentID == tournamentID {
			out[b.ProfileID] = true
		}
	}
	return out, nil
}

func (r fakeBaselineRepo) Create(ctx context.Context, exec repositories.SQLExecutor, baseline *models.RatingBaseline) error {
	for _, b := range r.s.baselines {
		if b.TournamentID == baseline.TournamentID && b.ProfileID == baseline.ProfileID {
			return nil
		}
	}
	baseline.ID = r.s.id()
	r.s.baselines = append(r.s.baselines, baseline)
	return nil
}
