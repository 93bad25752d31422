package standings

import (
	"fmt"

	"github.com/Dosada05/chess-standings/models"
)

// DataIntegrityError — леджер ссылается на неизвестных игроков или содержит
// противоречивые данные. Не ретраится, поднимается вызывающему сразу.
type DataIntegrityError struct {
	GameID   int
	PlayerID int
	Reason   string
}

func (e *DataIntegrityError) Error() string {
	if e.GameID != 0 {
		return fmt.Sprintf("data integrity violation in game %d: %s", e.GameID, e.Reason)
	}
	return fmt.Sprintf("data integrity violation: %s", e.Reason)
}

// ConfigurationError — неизвестный или некорректный идентификатор тайбрейка.
// Весь расчёт таблицы для турнира падает сразу, метод не пропускается молча.
type ConfigurationError struct {
	Method models.TiebreakMethod
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Method != "" {
		return fmt.Sprintf("tiebreak configuration error: method %q: %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("tiebreak configuration error: %s", e.Reason)
}

// NotFoundError — запрошена расшифровка для несуществующего игрока.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}
