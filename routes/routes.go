package routes

import (
	"github.com/flynnistcool/pinball-tournament-app-sub000/handlers"
	"github.com/flynnistcool/pinball-tournament-app-sub000/middleware"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes wires every handler into the router. Reads and the live stream
// are public; anything that mutates tournament state requires a token.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	tournamentHandler *handlers.TournamentHandler,
	roundHandler *handlers.RoundHandler,
	scoreHandler *handlers.ScoreHandler,
	standingsHandler *handlers.StandingsHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Route("/tournaments/{code}", func(r chi.Router) {
		r.Get("/", tournamentHandler.GetTournament)
		r.Get("/standings", standingsHandler.ListStandings)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(jwtSecret))

			r.Post("/rounds", roundHandler.CreateRound)
			r.Put("/matches/{matchID}/players/{playerID}/score", scoreHandler.SubmitScore)
		})
	})

	router.Get("/ws/tournaments/{code}", webSocketHandler.ServeWs)
}
