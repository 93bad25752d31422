package models

import "time"

// GameResult соответствует ENUM game_result в БД. Nil у Game.Result означает,
// что партия ещё играется.
type GameResult string

const (
	ResultWhiteWins GameResult = "white_wins"
	ResultBlackWins GameResult = "black_wins"
	ResultDraw      GameResult = "draw"
)

// GameResultType различает, как был получен результат. Для подсчёта очков
// все типы по умолчанию равнозначны, различие нужно тайбрейкам и отображению.
type GameResultType string

const (
	ResultTypeNormal  GameResultType = "normal"
	ResultTypeForfeit GameResultType = "forfeit"
	ResultTypeTimeout GameResultType = "timeout"
	ResultTypeBye     GameResultType = "bye"
)

type Game struct {
	ID           int            `json:"id" db:"id"`
	TournamentID int            `json:"tournament_id" db:"tournament_id"`
	Round        int            `json:"round" db:"round"`
	WhiteID      int            `json:"white_id" db:"white_id"`
	BlackID      *int           `json:"black_id,omitempty" db:"black_id"` // nil только для bye
	Result       *GameResult    `json:"result,omitempty" db:"result"`
	ResultType   GameResultType `json:"result_type" db:"result_type"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// Finished сообщает, зафиксирован ли терминальный результат.
func (g *Game) Finished() bool {
	return g.Result != nil
}

// Bye сообщает, является ли запись технической партией без соперника.
func (g *Game) Bye() bool {
	return g.ResultType == ResultTypeBye || g.BlackID == nil
}

// PointsFor возвращает очки, заработанные игроком playerID в этой партии.
// Для незавершённой партии и для игрока, не участвовавшего в ней, — 0.
func (g *Game) PointsFor(playerID int) float64 {
	if g.Result == nil {
		return 0
	}
	switch *g.Result {
	case ResultDraw:
		if playerID == g.WhiteID || (g.BlackID != nil && playerID == *g.BlackID) {
			return 0.5
		}
	case ResultWhiteWins:
		if playerID == g.WhiteID {
			return 1
		}
	case ResultBlackWins:
		if g.BlackID != nil && playerID == *g.BlackID {
			return 1
		}
	}
	return 0
}
