package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/chess-standings/models"
	"github.com/Dosada05/chess-standings/repositories"
	"github.com/Dosada05/chess-standings/standings"
)

type CreateTournamentInput struct {
	Name      string    `json:"name"`
	Location  *string   `json:"location,omitempty"`
	Rounds    int       `json:"rounds"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

type AddPlayerInput struct {
	Name       string  `json:"name"`
	Rating     *int    `json:"rating,omitempty"`
	Federation *string `json:"federation,omitempty"`
	Title      *string `json:"title,omitempty"`
}

type UpdateTiebreakConfigInput struct {
	Order                    []models.TiebreakMethod `json:"order"`
	UseFederationDefault     bool                    `json:"use_federation_default"`
	ByePolicy                models.ByePolicy        `json:"bye_policy"`
	CountForfeitsForScore    *bool                   `json:"count_forfeits_for_score,omitempty"`
	CountForfeitsInTiebreaks *bool                   `json:"count_forfeits_in_tiebreaks,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, arbiterID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	AddPlayer(ctx context.Context, tournamentID int, input AddPlayerInput) (*models.Player, error)
	WithdrawPlayer(ctx context.Context, tournamentID, playerID int) error
	GetTiebreakConfig(ctx context.Context, tournamentID int) (*models.TiebreakConfig, error)
	UpdateTiebreakConfig(ctx context.Context, tournamentID int, input UpdateTiebreakConfigInput) (*models.TiebreakConfig, error)
}

type tournamentService struct {
	tournamentRepo   repositories.TournamentRepository
	playerRepo       repositories.PlayerRepository
	gameRepo         repositories.GameRepository
	configRepo       repositories.TiebreakConfigRepository
	standingsService StandingsService
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	playerRepo repositories.PlayerRepository,
	gameRepo repositories.GameRepository,
	configRepo repositories.TiebreakConfigRepository,
	standingsService StandingsService,
) TournamentService {
	return &tournamentService{
		tournamentRepo:   tournamentRepo,
		playerRepo:       playerRepo,
		gameRepo:         gameRepo,
		configRepo:       configRepo,
		standingsService: standingsService,
	}
}

func (s *tournamentService) Create(ctx context.Context, arbiterID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, ErrTournamentNameRequired
	}
	if input.Rounds < 1 {
		return nil, ErrTournamentInvalidRounds
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, ErrTournamentInvalidDateRange
	}

	tournament := &models.Tournament{
		Name:      input.Name,
		Location:  input.Location,
		Rounds:    input.Rounds,
		Status:    models.StatusRegistration,
		ArbiterID: arbiterID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}
	if err := s.tournamentRepo.Create(ctx, nil, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	players, err := s.playerRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for tournament %d: %w", id, err)
	}
	tournament.Players = players

	games, err := s.gameRepo.ListByTournament(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for tournament %d: %w", id, err)
	}
	tournament.Games = games

	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) AddPlayer(ctx context.Context, tournamentID int, input AddPlayerInput) (*models.Player, error) {
	if input.Name == "" {
		return nil, ErrPlayerNameRequired
	}
	if _, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	player := &models.Player{
		TournamentID: tournamentID,
		Name:         input.Name,
		Rating:       input.Rating,
		Federation:   input.Federation,
		Title:        input.Title,
		Status:       models.PlayerStatusActive,
	}
	if err := s.playerRepo.Create(ctx, nil, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerTournamentInvalid) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to add player to tournament %d: %w", tournamentID, err)
	}
	return player, nil
}

func (s *tournamentService) WithdrawPlayer(ctx context.Context, tournamentID, playerID int) error {
	player, err := s.playerRepo.GetByID(ctx, nil, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to load player %d: %w", playerID, err)
	}
	if player.TournamentID != tournamentID {
		return ErrPlayerNotFound
	}
	if err := s.playerRepo.UpdateStatus(ctx, nil, playerID, models.PlayerStatusWithdrawn); err != nil {
		return fmt.Errorf("failed to withdraw player %d: %w", playerID, err)
	}
	return nil
}

func (s *tournamentService) GetTiebreakConfig(ctx context.Context, tournamentID int) (*models.TiebreakConfig, error) {
	cfg, err := s.configRepo.GetByTournament(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTiebreakConfigNotFound) {
			def := models.DefaultTiebreakConfig(tournamentID)
			return &def, nil
		}
		return nil, fmt.Errorf("failed to load tiebreak config for tournament %d: %w", tournamentID, err)
	}
	return cfg, nil
}

func (s *tournamentService) UpdateTiebreakConfig(ctx context.Context, tournamentID int, input UpdateTiebreakConfigInput) (*models.TiebreakConfig, error) {
	cfg := models.DefaultTiebreakConfig(tournamentID)
	cfg.UseFederationDefault = input.UseFederationDefault
	if !input.UseFederationDefault {
		if len(input.Order) == 0 {
			return nil, fmt.Errorf("%w: tiebreak order must not be empty", ErrValidationFailed)
		}
		cfg.Order = input.Order
	}
	// Неизвестный метод отклоняется при сохранении, а не в середине расчёта.
	for _, m := range cfg.Order {
		if !standings.KnownMethod(m) {
			return nil, &standings.ConfigurationError{Method: m, Reason: "unknown tiebreak method"}
		}
	}
	switch input.ByePolicy {
	case "":
		// остаётся значение по умолчанию
	case models.ByePolicyOwnScore, models.ByePolicyZero, models.ByePolicyHalfPerRound:
		cfg.ByePolicy = input.ByePolicy
	default:
		return nil, fmt.Errorf("%w: unknown bye policy %q", ErrValidationFailed, input.ByePolicy)
	}
	if input.CountForfeitsForScore != nil {
		cfg.CountForfeitsForScore = *input.CountForfeitsForScore
	}
	if input.CountForfeitsInTiebreaks != nil {
		cfg.CountForfeitsInTiebreaks = *input.CountForfeitsInTiebreaks
	}

	if err := s.configRepo.Upsert(ctx, nil, &cfg); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to save tiebreak config for tournament %d: %w", tournamentID, err)
	}

	// Смена порядка тайбрейков меняет таблицу.
	s.standingsService.Invalidate(tournamentID)
	return &cfg, nil
}
