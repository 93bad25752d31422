package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Dosada05/chess-standings/models"
	"github.com/lib/pq"
)

var ErrTiebreakConfigNotFound = errors.New("tiebreak config not found")

type TiebreakConfigRepository interface {
	Upsert(ctx context.Context, exec SQLExecutor, cfg *models.TiebreakConfig) error
	GetByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.TiebreakConfig, error)
}

type postgresTiebreakConfigRepository struct {
	db *sql.DB
}

func NewPostgresTiebreakConfigRepository(db *sql.DB) TiebreakConfigRepository {
	return &postgresTiebreakConfigRepository{db: db}
}

func (r *postgresTiebreakConfigRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTiebreakConfigRepository) Upsert(ctx context.Context, exec SQLExecutor, cfg *models.TiebreakConfig) error {
	executor := r.getExecutor(exec)
	// Порядок тайбрейков хранится как text[]: порядок элементов и есть приоритет.
	order := make([]string, len(cfg.Order))
	for i, m := range cfg.Order {
		order[i] = string(m)
	}
	if cfg.UpdatedAt.IsZero() {
		cfg.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO tiebreak_configs
		    (tournament_id, tiebreak_order, use_federation_default, bye_policy,
		     count_forfeits_for_score, count_forfeits_in_tiebreaks, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (tournament_id) DO UPDATE SET
		    tiebreak_order = EXCLUDED.tiebreak_order,
		    use_federation_default = EXCLUDED.use_federation_default,
		    bye_policy = EXCLUDED.bye_policy,
		    count_forfeits_for_score = EXCLUDED.count_forfeits_for_score,
		    count_forfeits_in_tiebreaks = EXCLUDED.count_forfeits_in_tiebreaks,
		    updated_at = EXCLUDED.updated_at`
	_, err := executor.ExecContext(ctx, query,
		cfg.TournamentID, pq.Array(order), cfg.UseFederationDefault, cfg.ByePolicy,
		cfg.CountForfeitsForScore, cfg.CountForfeitsInTiebreaks, cfg.UpdatedAt,
	)
	if err != nil && pqErrorCode(err) == pqForeignKeyViolation {
		return ErrTournamentNotFound
	}
	return err
}

func (r *postgresTiebreakConfigRepository) GetByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.TiebreakConfig, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT tournament_id, tiebreak_order, use_federation_default, bye_policy,
		       count_forfeits_for_score, count_forfeits_in_tiebreaks, updated_at
		FROM tiebreak_configs
		WHERE tournament_id = $1`

	var cfg models.TiebreakConfig
	var order []string
	err := executor.QueryRowContext(ctx, query, tournamentID).Scan(
		&cfg.TournamentID, pq.Array(&order), &cfg.UseFederationDefault, &cfg.ByePolicy,
		&cfg.CountForfeitsForScore, &cfg.CountForfeitsInTiebreaks, &cfg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTiebreakConfigNotFound
		}
		return nil, err
	}
	cfg.Order = make([]models.TiebreakMethod, len(order))
	for i, m := range order {
		cfg.Order[i] = models.TiebreakMethod(m)
	}
	return &cfg, nil
}
