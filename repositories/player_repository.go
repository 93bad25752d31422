package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/chess-standings/models"
)

var (
	ErrPlayerNotFound          = errors.New("player not found")
	ErrPlayerTournamentInvalid = errors.New("player tournament conflict or invalid")
)

type PlayerRepository interface {
	Create(ctx context.Context, exec SQLExecutor, player *models.Player) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Player, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PlayerStatus) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) Create(ctx context.Context, exec SQLExecutor, player *models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (tournament_id, name, rating, federation, title, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`
	err := executor.QueryRowContext(ctx, query,
		player.TournamentID, player.Name, player.Rating, player.Federation, player.Title, player.Status,
	).Scan(&player.ID, &player.CreatedAt)
	if err != nil {
		if pqErrorCode(err) == pqForeignKeyViolation {
			return ErrPlayerTournamentInvalid
		}
		return err
	}
	return nil
}

func (r *postgresPlayerRepository) scanPlayer(rowScanner interface{ Scan(...interface{}) error }) (*models.Player, error) {
	var p models.Player
	err := rowScanner.Scan(
		&p.ID, &p.TournamentID, &p.Name, &p.Rating, &p.Federation, &p.Title, &p.Status, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Player, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, name, rating, federation, title, status, created_at
		FROM players
		WHERE id = $1`
	return r.scanPlayer(executor.QueryRowContext(ctx, query, id))
}

func (r *postgresPlayerRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]models.Player, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, name, rating, federation, title, status, created_at
		FROM players
		WHERE tournament_id = $1
		ORDER BY id ASC`
	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		p, errScan := r.scanPlayer(rows)
		if errScan != nil {
			return nil, errScan
		}
		players = append(players, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *postgresPlayerRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PlayerStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE players SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
