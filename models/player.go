package models

import "time"

// PlayerStatus соответствует ENUM player_status в БД.
type PlayerStatus string

const (
	PlayerStatusActive    PlayerStatus = "active"
	PlayerStatusWithdrawn PlayerStatus = "withdrawn"
)

type Player struct {
	ID           int          `json:"id" db:"id"`
	TournamentID int          `json:"tournament_id" db:"tournament_id"`
	Name         string       `json:"name" db:"name"`
	Rating       *int         `json:"rating,omitempty" db:"rating"`
	Federation   *string      `json:"federation,omitempty" db:"federation"`
	Title        *string      `json:"title,omitempty" db:"title"`
	Status       PlayerStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}
