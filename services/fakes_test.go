package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Dosada05/chess-standings/models"
	"github.com/Dosada05/chess-standings/repositories"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[int]models.Tournament
	nextID      int
}

func newFakeTournamentRepo(tournaments ...models.Tournament) *fakeTournamentRepo {
	r := &fakeTournamentRepo{tournaments: make(map[int]models.Tournament)}
	for _, t := range tournaments {
		r.tournaments[t.ID] = t
		if t.ID > r.nextID {
			r.nextID = t.ID
		}
	}
	return r
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tournaments {
		if existing.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	r.tournaments[t.ID] = *t
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	out := t
	return &out, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, _ repositories.SQLExecutor) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTournamentRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	r.tournaments[id] = t
	return nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[int]models.Player
	nextID  int
}

func newFakePlayerRepo(players ...models.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{players: make(map[int]models.Player)}
	for _, p := range players {
		r.players[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *fakePlayerRepo) Create(_ context.Context, _ repositories.SQLExecutor, p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.players[p.ID] = *p
	return nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	out := p
	return &out, nil
}

func (r *fakePlayerRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Player, 0)
	for _, p := range r.players {
		if p.TournamentID == tournamentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) UpdateStatus(_ context.Context, _ repositories.SQLExecutor, id int, status models.PlayerStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return repositories.ErrPlayerNotFound
	}
	p.Status = status
	r.players[id] = p
	return nil
}

type fakeGameRepo struct {
	mu     sync.Mutex
	games  map[int]models.Game
	nextID int

	listCalls int32
	listDelay time.Duration
	listErr   error
	onList    func()
}

func newFakeGameRepo(games ...models.Game) *fakeGameRepo {
	r := &fakeGameRepo{games: make(map[int]models.Game)}
	for _, g := range games {
		r.games[g.ID] = g
		if g.ID > r.nextID {
			r.nextID = g.ID
		}
	}
	return r
}

func (r *fakeGameRepo) Create(_ context.Context, _ repositories.SQLExecutor, g *models.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	g.ID = r.nextID
	r.games[g.ID] = *g
	return nil
}

func (r *fakeGameRepo) BatchCreate(ctx context.Context, exec repositories.SQLExecutor, games []*models.Game) error {
	for _, g := range games {
		if err := r.Create(ctx, exec, g); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, _ repositories.SQLExecutor, id int) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	out := g
	return &out, nil
}

func (r *fakeGameRepo) ListByTournament(_ context.Context, _ repositories.SQLExecutor, tournamentID int) ([]models.Game, error) {
	atomic.AddInt32(&r.listCalls, 1)
	if r.onList != nil {
		r.onList()
	}
	if r.listDelay > 0 {
		time.Sleep(r.listDelay)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Game, 0)
	for _, g := range r.games {
		if g.TournamentID == tournamentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGameRepo) UpdateResult(_ context.Context, _ repositories.SQLExecutor, id int, result models.GameResult, resultType models.GameResultType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.games[id]
	if !ok {
		return repositories.ErrGameNotFound
	}
	g.Result = &result
	g.ResultType = resultType
	g.UpdatedAt = time.Now()
	r.games[id] = g
	return nil
}

func (r *fakeGameRepo) listCount() int {
	return int(atomic.LoadInt32(&r.listCalls))
}

func (r *fakeGameRepo) setListErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErr = err
}

type fakeConfigRepo struct {
	mu  sync.Mutex
	cfg *models.TiebreakConfig
}

func (r *fakeConfigRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, cfg *models.TiebreakConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *cfg
	r.cfg = &stored
	return nil
}

func (r *fakeConfigRepo) GetByTournament(_ context.Context, _ repositories.SQLExecutor, _ int) (*models.TiebreakConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		return nil, repositories.ErrTiebreakConfigNotFound
	}
	out := *r.cfg
	return &out, nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[int]models.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]models.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	out := u
	return &out, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

// fakeStandingsService регистрирует инвалидации; остальное не используется в
// тестах сервисов-мутаторов.
type fakeStandingsService struct {
	mu           sync.Mutex
	invalidated  []int
	cacheCleared []int
}

func (s *fakeStandingsService) GetStandings(context.Context, int) (*models.StandingsCalculationResult, error) {
	return nil, ErrNotFound
}

func (s *fakeStandingsService) ForceRecalculate(context.Context, int) (*models.StandingsCalculationResult, error) {
	return nil, ErrNotFound
}

func (s *fakeStandingsService) ClearCache(tournamentID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheCleared = append(s.cacheCleared, tournamentID)
}

func (s *fakeStandingsService) Invalidate(tournamentID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, tournamentID)
}

func (s *fakeStandingsService) ComputeStandings(context.Context, int) ([]models.PlayerStanding, error) {
	return nil, ErrNotFound
}

func (s *fakeStandingsService) GetTiebreakBreakdown(context.Context, int, int, models.TiebreakMethod) (*models.TiebreakBreakdown, error) {
	return nil, ErrNotFound
}

func (s *fakeStandingsService) invalidations() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.invalidated))
	copy(out, s.invalidated)
	return out
}

func intPtr(v int) *int { return &v }

func resultPtr(r models.GameResult) *models.GameResult { return &r }
