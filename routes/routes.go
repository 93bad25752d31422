package routes

import (
	"github.com/Dosada05/chess-standings/handlers"
	"github.com/Dosada05/chess-standings/middleware"
	"github.com/Dosada05/chess-standings/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes собирает все HTTP-маршруты приложения.
//
// Чтение (таблица, расшифровка тайбрейков, список турниров) публично;
// мутации доступны арбитру, администрирование кэша — администратору.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	tournamentHandler *handlers.TournamentHandler,
	gameHandler *handlers.GameHandler,
	standingsHandler *handlers.StandingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Route("/tournaments", func(r chi.Router) {
		// Публичные маршруты: просмотр турниров и таблицы.
		r.Get("/", tournamentHandler.List)
		r.Get("/{tournamentID}", tournamentHandler.GetByID)
		r.Get("/{tournamentID}/games", gameHandler.ListByTournament)
		r.Get("/{tournamentID}/standings", standingsHandler.GetStandings)
		r.Get("/{tournamentID}/standings/players/{playerID}/breakdown", standingsHandler.GetBreakdown)
		r.Get("/{tournamentID}/tiebreaks", tournamentHandler.GetTiebreakConfig)

		// Мутации — только арбитр.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(models.RoleArbiter))

			r.Post("/", tournamentHandler.Create)
			r.Post("/{tournamentID}/players", tournamentHandler.AddPlayer)
			r.Delete("/{tournamentID}/players/{playerID}", tournamentHandler.WithdrawPlayer)
			r.Put("/{tournamentID}/tiebreaks", tournamentHandler.UpdateTiebreakConfig)
			r.Post("/{tournamentID}/rounds/{round}/games", gameHandler.CreateRoundGames)
			r.Post("/{tournamentID}/standings/recalculate", standingsHandler.Recalculate)
			r.Post("/{tournamentID}/standings/report", standingsHandler.PublishReport)
		})

		// Администрирование кэша.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))
			r.Use(middleware.Authorize(models.RoleAdmin))

			r.Delete("/{tournamentID}/standings/cache", standingsHandler.ClearCache)
		})
	})

	router.Route("/games", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))
		r.Use(middleware.Authorize(models.RoleArbiter))

		r.Post("/{gameID}/result", gameHandler.SubmitResult)
		r.Put("/{gameID}/result", gameHandler.CorrectResult)
	})

	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)
}
