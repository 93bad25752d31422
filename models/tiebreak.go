package models

import "time"

// TiebreakMethod — идентификатор метода тайбрейка, как он хранится в конфиге
// турнира и приходит по API.
type TiebreakMethod string

const (
	TiebreakBuchholz        TiebreakMethod = "buchholz"
	TiebreakBuchholzCut1    TiebreakMethod = "buchholz_cut_1"
	TiebreakBuchholzCut2    TiebreakMethod = "buchholz_cut_2"
	TiebreakBuchholzMedian  TiebreakMethod = "buchholz_median"
	TiebreakSonnebornBerger TiebreakMethod = "sonneborn_berger"
	TiebreakProgressive     TiebreakMethod = "progressive"
	TiebreakCumulative      TiebreakMethod = "cumulative"
	TiebreakDirectEncounter TiebreakMethod = "direct_encounter"
	TiebreakAverageRating   TiebreakMethod = "average_rating_of_opponents"
	TiebreakPerformance     TiebreakMethod = "performance_rating"
	TiebreakWins            TiebreakMethod = "wins"
	TiebreakGamesWithBlack  TiebreakMethod = "games_with_black"
	TiebreakWinsWithBlack   TiebreakMethod = "wins_with_black"
	TiebreakKoya            TiebreakMethod = "koya"
	TiebreakAROCut1         TiebreakMethod = "aroc_cut_1"
	TiebreakAROCut2         TiebreakMethod = "aroc_cut_2"
	TiebreakMatchPoints     TiebreakMethod = "match_points"
	TiebreakGamePoints      TiebreakMethod = "game_points"
	TiebreakBoardPoints     TiebreakMethod = "board_points"
)

// ByePolicy задаёт вклад "виртуального соперника" за bye/несыгранный тур в
// тайбрейках семейства Бухгольца и в Зоннеборне-Бергере.
type ByePolicy string

const (
	// Виртуальный соперник приносит собственный итоговый счёт игрока.
	ByePolicyOwnScore ByePolicy = "own_score"
	// Виртуальный соперник не приносит ничего.
	ByePolicyZero ByePolicy = "zero"
	// Виртуальный соперник приносит половину максимума (rounds / 2).
	ByePolicyHalfPerRound ByePolicy = "half_per_round"
)

// TiebreakConfig — конфигурация тайбрейков турнира. Порядок Order задаёт
// приоритет: первый метод — старший.
type TiebreakConfig struct {
	TournamentID         int              `json:"tournament_id" db:"tournament_id"`
	Order                []TiebreakMethod `json:"order" db:"order"`
	UseFederationDefault bool             `json:"use_federation_default" db:"use_federation_default"`
	ByePolicy            ByePolicy        `json:"bye_policy" db:"bye_policy"`
	// Учитывать ли форфейты/просрочки как обычные результаты при подсчёте
	// очков и в формулах тайбрейков, чувствительных к соперникам.
	CountForfeitsForScore    bool      `json:"count_forfeits_for_score" db:"count_forfeits_for_score"`
	CountForfeitsInTiebreaks bool      `json:"count_forfeits_in_tiebreaks" db:"count_forfeits_in_tiebreaks"`
	UpdatedAt                time.Time `json:"updated_at" db:"updated_at"`
}

// FederationDefaultOrder — порядок тайбрейков, применяемый при
// use_federation_default.
var FederationDefaultOrder = []TiebreakMethod{
	TiebreakBuchholzCut1,
	TiebreakBuchholz,
	TiebreakSonnebornBerger,
	TiebreakDirectEncounter,
	TiebreakWins,
	TiebreakPerformance,
}

// DefaultTiebreakConfig возвращает конфигурацию по умолчанию для турнира.
func DefaultTiebreakConfig(tournamentID int) TiebreakConfig {
	return TiebreakConfig{
		TournamentID:             tournamentID,
		Order:                    append([]TiebreakMethod(nil), FederationDefaultOrder...),
		UseFederationDefault:     true,
		ByePolicy:                ByePolicyOwnScore,
		CountForfeitsForScore:    true,
		CountForfeitsInTiebreaks: true,
	}
}

// TiebreakScore — одно значение в векторе тайбрейков игрока. Defined == false
// означает "значение не определено" (например, перформанс без рейтинговых
// соперников); такие значения сортируются последними.
type TiebreakScore struct {
	Method  TiebreakMethod `json:"method"`
	Value   float64        `json:"value"`
	Defined bool           `json:"defined"`
	Display string         `json:"display"`
}

// BreakdownStep — один шаг вывода значения тайбрейка.
type BreakdownStep struct {
	Description string  `json:"description"`
	Formula     string  `json:"formula"`
	Value       float64 `json:"value"`
}

// OpponentContribution — вклад конкретного соперника в значение тайбрейка.
type OpponentContribution struct {
	OpponentID   int     `json:"opponent_id"`
	OpponentName string  `json:"opponent_name"`
	Rating       *int    `json:"rating,omitempty"`
	Round        int     `json:"round"`
	Result       string  `json:"result"`
	Contribution float64 `json:"contribution"`
}

// TiebreakBreakdown — пошаговая расшифровка значения тайбрейка для UI/аудита.
// Значение последнего шага всегда равно Value и совпадает с прямым расчётом
// движка.
type TiebreakBreakdown struct {
	Method      TiebreakMethod         `json:"method"`
	PlayerID    int                    `json:"player_id"`
	Value       float64                `json:"value"`
	Display     string                 `json:"display"`
	Explanation string                 `json:"explanation"`
	Steps       []BreakdownStep        `json:"steps"`
	Opponents   []OpponentContribution `json:"opponents"`
}
