package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/Dosada05/chess-standings/models"
	"github.com/Dosada05/chess-standings/repositories"
	"github.com/Dosada05/chess-standings/standings"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// StandingsService — кэширующий слой над движком расчёта таблицы.
//
// Машина состояний на турнир: Empty -> Computing -> Cached ->
// (Invalidated -> Computing -> Cached)*. Конкурентные запросы одного турнира
// схлопываются в один пересчёт (singleflight); чтение кэша других турниров
// при этом не блокируется.
type StandingsService interface {
	// GetStandings возвращает кэшированную таблицу, если с последнего
	// расчёта не было изменений партий, иначе пересчитывает.
	GetStandings(ctx context.Context, tournamentID int) (*models.StandingsCalculationResult, error)
	// ForceRecalculate всегда пересчитывает.
	ForceRecalculate(ctx context.Context, tournamentID int) (*models.StandingsCalculationResult, error)
	// ClearCache сбрасывает кэш турнира; следующий GetStandings пересчитает.
	ClearCache(tournamentID int)
	// Invalidate помечает кэш турнира устаревшим. Вызывается при любом
	// зафиксированном изменении результата партии.
	Invalidate(tournamentID int)
	// ComputeStandings — чистый расчёт без кэша.
	ComputeStandings(ctx context.Context, tournamentID int) ([]models.PlayerStanding, error)
	GetTiebreakBreakdown(ctx context.Context, tournamentID, playerID int, method models.TiebreakMethod) (*models.TiebreakBreakdown, error)
}

type cacheEntry struct {
	tournamentID int
	standings    []models.PlayerStanding
	version      uint64
	computedAt   time.Time
}

func (e *cacheEntry) result(fromCache bool) *models.StandingsCalculationResult {
	table := make([]models.PlayerStanding, len(e.standings))
	copy(table, e.standings)
	return &models.StandingsCalculationResult{
		TournamentID: e.tournamentID,
		Standings:    table,
		Version:      e.version,
		ComputedAt:   e.computedAt,
		FromCache:    fromCache,
	}
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	playerRepo     repositories.PlayerRepository
	gameRepo       repositories.GameRepository
	configRepo     repositories.TiebreakConfigRepository
	hub            *standings.Hub
	logger         *slog.Logger

	mu       sync.RWMutex
	cache    map[int]*cacheEntry
	versions map[int]uint64
	group    singleflight.Group
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	gameRepo repositories.GameRepository,
	configRepo repositories.TiebreakConfigRepository,
	hub *standings.Hub,
	logger *slog.Logger,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		playerRepo:     playerRepo,
		gameRepo:       gameRepo,
		configRepo:     configRepo,
		hub:            hub,
		logger:         logger,
		cache:          make(map[int]*cacheEntry),
		versions:       make(map[int]uint64),
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int) (*models.StandingsCalculationResult, error) {
	if entry := s.cachedEntry(tournamentID); entry != nil {
		return entry.result(true), nil
	}
	return s.recompute(ctx, tournamentID)
}

func (s *standingsService) ForceRecalculate(ctx context.Context, tournamentID int) (*models.StandingsCalculationResult, error) {
	s.Invalidate(tournamentID)
	// Forget отцепляет от уже идущего (устаревшего) расчёта.
	s.group.Forget(strconv.Itoa(tournamentID))
	return s.recompute(ctx, tournamentID)
}

func (s *standingsService) ClearCache(tournamentID int) {
	s.mu.Lock()
	delete(s.cache, tournamentID)
	s.versions[tournamentID]++
	s.mu.Unlock()
	s.group.Forget(strconv.Itoa(tournamentID))
	s.logger.Info("standings cache cleared", slog.Int("tournament_id", tournamentID))
}

func (s *standingsService) Invalidate(tournamentID int) {
	s.mu.Lock()
	s.versions[tournamentID]++
	version := s.versions[tournamentID]
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.BroadcastToTournament(tournamentID, standings.MessageStandingsStale, map[string]interface{}{
			"tournament_id": tournamentID,
			"version":       version,
		})
	}
	s.logger.Info("standings invalidated", slog.Int("tournament_id", tournamentID), slog.Uint64("version", version))
}

func (s *standingsService) ComputeStandings(ctx context.Context, tournamentID int) ([]models.PlayerStanding, error) {
	ledger, cfg, err := s.loadState(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return standings.Compute(ledger, cfg)
}

func (s *standingsService) GetTiebreakBreakdown(ctx context.Context, tournamentID, playerID int, method models.TiebreakMethod) (*models.TiebreakBreakdown, error) {
	ledger, cfg, err := s.loadState(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return standings.Explain(ledger, cfg, playerID, method)
}

func (s *standingsService) cachedEntry(tournamentID int) *cacheEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry := s.cache[tournamentID]
	if entry != nil && entry.version == s.versions[tournamentID] {
		return entry
	}
	return nil
}

func (s *standingsService) currentVersion(tournamentID int) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[tournamentID]
}

// computeOutcome отличает свежий расчёт от записи, которую успел положить в
// кэш параллельный вызов.
type computeOutcome struct {
	entry     *cacheEntry
	fromCache bool
}

func (s *standingsService) recompute(ctx context.Context, tournamentID int) (*models.StandingsCalculationResult, error) {
	key := strconv.Itoa(tournamentID)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Повторная проверка: параллельный вызов мог успеть пересчитать.
		if entry := s.cachedEntry(tournamentID); entry != nil {
			return computeOutcome{entry: entry, fromCache: true}, nil
		}

		// Версия фиксируется до чтения леджера: мутация, закоммиченная во
		// время расчёта, поднимет версию и сделает эту запись устаревшей.
		version := s.currentVersion(tournamentID)
		started := time.Now()

		ledger, cfg, err := s.loadState(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		table, err := standings.Compute(ledger, cfg)
		if err != nil {
			// Ошибки не кэшируются: предыдущая валидная запись (если была)
			// остаётся нетронутой.
			return nil, err
		}

		entry := &cacheEntry{
			tournamentID: tournamentID,
			standings:    table,
			version:      version,
			computedAt:   time.Now(),
		}
		s.mu.Lock()
		s.cache[tournamentID] = entry
		s.mu.Unlock()

		if s.hub != nil {
			s.hub.BroadcastToTournament(tournamentID, standings.MessageStandingsUpdated, entry.result(false))
		}
		s.logger.Info("standings recomputed",
			slog.Int("tournament_id", tournamentID),
			slog.Int("players", len(table)),
			slog.Duration("took", time.Since(started)),
		)
		return computeOutcome{entry: entry}, nil
	})
	if err != nil {
		return nil, err
	}
	out := v.(computeOutcome)
	return out.entry.result(out.fromCache), nil
}

// loadState параллельно загружает всё, что нужно движку для расчёта.
func (s *standingsService) loadState(ctx context.Context, tournamentID int) (*standings.Ledger, models.TiebreakConfig, error) {
	var (
		players []models.Player
		games   []models.Game
		cfg     models.TiebreakConfig
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := s.tournamentRepo.GetByID(gCtx, nil, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		players, err = s.playerRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load players for tournament %d: %w", tournamentID, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		games, err = s.gameRepo.ListByTournament(gCtx, nil, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load games for tournament %d: %w", tournamentID, err)
		}
		return nil
	})

	g.Go(func() error {
		loaded, err := s.configRepo.GetByTournament(gCtx, nil, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTiebreakConfigNotFound) {
				cfg = models.DefaultTiebreakConfig(tournamentID)
				return nil
			}
			return fmt.Errorf("failed to load tiebreak config for tournament %d: %w", tournamentID, err)
		}
		cfg = *loaded
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, models.TiebreakConfig{}, err
	}

	ledger, err := standings.NewLedger(tournamentID, players, games)
	if err != nil {
		return nil, models.TiebreakConfig{}, err
	}
	return ledger, cfg, nil
}
