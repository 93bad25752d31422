package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/chess-standings/models"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGamePlayerInvalid = errors.New("game references unknown player")
)

type GameRepository interface {
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	BatchCreate(ctx context.Context, exec SQLExecutor, games []*models.Game) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Game, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, result models.GameResult, resultType models.GameResultType) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO games (tournament_id, round, white_id, black_id, result, result_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`
	err := executor.QueryRowContext(ctx, query,
		game.TournamentID, game.Round, game.WhiteID, game.BlackID, game.Result, game.ResultType,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		if pqErrorCode(err) == pqForeignKeyViolation {
			return ErrGamePlayerInvalid
		}
		return err
	}
	return nil
}

func (r *postgresGameRepository) BatchCreate(ctx context.Context, exec SQLExecutor, games []*models.Game) error {
	executor := r.getExecutor(exec)
	for _, game := range games {
		if err := r.Create(ctx, executor, game); err != nil {
			return fmt.Errorf("batch create failed for round %d white %d: %w", game.Round, game.WhiteID, err)
		}
	}
	return nil
}

func (r *postgresGameRepository) scanGame(rowScanner interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var g models.Game
	err := rowScanner.Scan(
		&g.ID, &g.TournamentID, &g.Round, &g.WhiteID, &g.BlackID, &g.Result, &g.ResultType,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Game, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, round, white_id, black_id, result, result_type, created_at, updated_at
		FROM games
		WHERE id = $1`
	return r.scanGame(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresGameRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Game, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, round, white_id, black_id, result, result_type, created_at, updated_at
		FROM games
		WHERE tournament_id = $1
		ORDER BY round ASC, id ASC`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		g, errScan := r.scanGame(rows)
		if errScan != nil {
			return nil, errScan
		}
		games = append(games, *g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return games, nil
}

func (r *postgresGameRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, result models.GameResult, resultType models.GameResultType) error {
	executor := r.getExecutor(exec)
	query := `UPDATE games SET result = $1, result_type = $2, updated_at = $3 WHERE id = $4`
	res, err := executor.ExecContext(ctx, query, result, resultType, time.Now(), id)
	if err != nil {
		return err
	}
	return checkAffectedRows(res, ErrGameNotFound)
}
