package models

import "time"

// PlayerStanding — строка итоговой таблицы. Производная величина: никогда не
// хранится как источник истины, всегда пересчитывается из партий.
type PlayerStanding struct {
	Rank        int     `json:"rank"`
	PlayerID    int     `json:"player_id"`
	Points      float64 `json:"points"`
	GamesPlayed int     `json:"games_played"`
	Wins        int     `json:"wins"`
	Draws       int     `json:"draws"`
	Losses      int     `json:"losses"`
	// Вектор тайбрейков в порядке конфигурации турнира.
	TiebreakScores    []TiebreakScore `json:"tiebreak_scores"`
	PerformanceRating *int            `json:"performance_rating,omitempty"`
	RatingChange      *float64        `json:"rating_change,omitempty"`

	// Связанные данные, заполняются сервисом.
	Player *Player `json:"player,omitempty"`
}

// StandingsCalculationResult — ответ кэширующего слоя: таблица плюс метаданные
// расчёта.
type StandingsCalculationResult struct {
	TournamentID int              `json:"tournament_id"`
	Standings    []PlayerStanding `json:"standings"`
	Version      uint64           `json:"version"`
	ComputedAt   time.Time        `json:"computed_at"`
	FromCache    bool             `json:"from_cache"`
}
