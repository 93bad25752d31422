package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed           = errors.New("validation failed")
	ErrTournamentNameRequired     = errors.New("tournament name is required")
	ErrTournamentInvalidDateRange = errors.New("tournament end date must be after start date")
	ErrTournamentInvalidRounds    = errors.New("tournament must have at least one round")
	ErrPlayerNameRequired         = errors.New("player name is required")
	ErrInvalidRoundNumber         = errors.New("round number is out of range for this tournament")
	ErrInvalidGameResult          = errors.New("invalid game result")
	ErrPlayersIdentical           = errors.New("white and black must be different players")
	ErrResultAlreadySubmitted     = errors.New("result already submitted; use the correction endpoint")
	ErrCorrectionRequiresResult   = errors.New("correction requires an existing result")
	ErrPasswordTooShort           = errors.New("password is too short")

	// Ошибки конфликтов
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound       = errors.New("user not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrGameNotFound       = errors.New("game not found")
)
