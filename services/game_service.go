package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/chess-standings/models"
	"github.com/Dosada05/chess-standings/repositories"
)

// PairingInput — одна пара при конвертации жеребьёвки тура в партии.
// Nil BlackID означает bye; HalfPointBye превращает его в ничейный bye.
type PairingInput struct {
	WhiteID      int  `json:"white_id"`
	BlackID      *int `json:"black_id,omitempty"`
	HalfPointBye bool `json:"half_point_bye,omitempty"`
}

// SubmitResultInput — фиксация результата партии.
type SubmitResultInput struct {
	Result     models.GameResult     `json:"result"`
	ResultType models.GameResultType `json:"result_type"`
}

type GameService interface {
	CreateRoundGames(ctx context.Context, tournamentID, round int, pairings []PairingInput) ([]*models.Game, error)
	SubmitResult(ctx context.Context, gameID int, input SubmitResultInput) (*models.Game, error)
	// CorrectResult — явный путь исправления: единственный способ перезаписать
	// уже зафиксированный результат.
	CorrectResult(ctx context.Context, gameID int, input SubmitResultInput) (*models.Game, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Game, error)
}

type gameService struct {
	db             *sql.DB
	gameRepo       repositories.GameRepository
	playerRepo     repositories.PlayerRepository
	tournamentRepo repositories.TournamentRepository
	standings      StandingsService
	logger         *slog.Logger
}

func NewGameService(
	db *sql.DB,
	gameRepo repositories.GameRepository,
	playerRepo repositories.PlayerRepository,
	tournamentRepo repositories.TournamentRepository,
	standingsService StandingsService,
	logger *slog.Logger,
) GameService {
	return &gameService{
		db:             db,
		gameRepo:       gameRepo,
		playerRepo:     playerRepo,
		tournamentRepo: tournamentRepo,
		standings:      standingsService,
		logger:         logger,
	}
}

func (s *gameService) CreateRoundGames(ctx context.Context, tournamentID, round int, pairings []PairingInput) ([]*models.Game, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if round < 1 || round > tournament.Rounds {
		return nil, ErrInvalidRoundNumber
	}
	if len(pairings) == 0 {
		return nil, fmt.Errorf("%w: round has no pairings", ErrValidationFailed)
	}

	players, err := s.playerRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load players for tournament %d: %w", tournamentID, err)
	}
	known := make(map[int]bool, len(players))
	for _, p := range players {
		known[p.ID] = true
	}

	games := make([]*models.Game, 0, len(pairings))
	for _, pairing := range pairings {
		if !known[pairing.WhiteID] {
			return nil, fmt.Errorf("%w: player %d", ErrPlayerNotFound, pairing.WhiteID)
		}
		game := &models.Game{
			TournamentID: tournamentID,
			Round:        round,
			WhiteID:      pairing.WhiteID,
			ResultType:   models.ResultTypeNormal,
		}
		if pairing.BlackID == nil {
			// Bye фиксируется сразу: полный пункт или половина.
			game.ResultType = models.ResultTypeBye
			result := models.ResultWhiteWins
			if pairing.HalfPointBye {
				result = models.ResultDraw
			}
			game.Result = &result
		} else {
			if !known[*pairing.BlackID] {
				return nil, fmt.Errorf("%w: player %d", ErrPlayerNotFound, *pairing.BlackID)
			}
			if *pairing.BlackID == pairing.WhiteID {
				return nil, ErrPlayersIdentical
			}
			game.BlackID = pairing.BlackID
		}
		games = append(games, game)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := s.gameRepo.BatchCreate(ctx, tx, games); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, repositories.ErrGamePlayerInvalid) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit round %d games: %w", round, err)
	}

	// Bye приносят очки сразу, так что таблица устаревает уже на создании тура.
	s.standings.Invalidate(tournamentID)
	s.logger.Info("round games created",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round", round),
		slog.Int("games", len(games)),
	)
	return games, nil
}

func (s *gameService) SubmitResult(ctx context.Context, gameID int, input SubmitResultInput) (*models.Game, error) {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	// Терминальный результат не перезаписывается молча.
	if game.Finished() {
		return nil, ErrResultAlreadySubmitted
	}
	return s.applyResult(ctx, game, input, false)
}

func (s *gameService) CorrectResult(ctx context.Context, gameID int, input SubmitResultInput) (*models.Game, error) {
	game, err := s.loadGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !game.Finished() {
		return nil, ErrCorrectionRequiresResult
	}
	return s.applyResult(ctx, game, input, true)
}

func (s *gameService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Game, error) {
	games, err := s.gameRepo.ListByTournament(ctx, nil, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list games for tournament %d: %w", tournamentID, err)
	}
	return games, nil
}

func (s *gameService) loadGame(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, nil, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	return game, nil
}

func (s *gameService) applyResult(ctx context.Context, game *models.Game, input SubmitResultInput, correction bool) (*models.Game, error) {
	switch input.Result {
	case models.ResultWhiteWins, models.ResultBlackWins, models.ResultDraw:
	default:
		return nil, ErrInvalidGameResult
	}
	switch input.ResultType {
	case models.ResultTypeNormal, models.ResultTypeForfeit, models.ResultTypeTimeout, models.ResultTypeBye:
	default:
		return nil, ErrInvalidGameResult
	}
	if game.Bye() && input.Result == models.ResultBlackWins {
		return nil, ErrInvalidGameResult
	}

	if err := s.gameRepo.UpdateResult(ctx, nil, game.ID, input.Result, input.ResultType); err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	game.Result = &input.Result
	game.ResultType = input.ResultType

	// Инвалидация после коммита: следующий GetStandings обязан увидеть
	// новый результат.
	s.standings.Invalidate(game.TournamentID)

	if correction {
		s.logger.Warn("game result corrected",
			slog.Int("game_id", game.ID),
			slog.Int("tournament_id", game.TournamentID),
			slog.String("result", string(input.Result)),
			slog.String("result_type", string(input.ResultType)),
		)
	} else {
		s.logger.Info("game result submitted",
			slog.Int("game_id", game.ID),
			slog.Int("tournament_id", game.TournamentID),
			slog.String("result", string(input.Result)),
		)
	}
	return game, nil
}
