package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jokes-api/internal/config"
	"jokes-api/internal/handler"
	"jokes-api/internal/middleware"
	"jokes-api/internal/websocket"
)

type Handlers struct {
	Auth   *handler.AuthHandler
	User   *handler.UserHandler
	Joke   *handler.JokeHandler
	Jobs   *handler.JobsHandler
	Health *handler.HealthHandler
	Events *websocket.Hub
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/", handler.Welcome)
	r.Get("/health", h.Health.Health)
	// Outside /api/v1: http.TimeoutHandler cannot hijack connections.
	r.With(authMiddleware.RequireAuth).Get("/ws/events", h.Events.ServeWS)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/users", func(users chi.Router) {
			users.Post("/", h.Auth.Register)
			users.Post("/login", h.Auth.Login)

			users.Group(func(authed chi.Router) {
				authed.Use(authMiddleware.RequireAuth)
				authed.Get("/me", h.Auth.Me)
				authed.Put("/me", h.User.Update)
				authed.Delete("/", h.User.Delete)
			})
		})

		api.Route("/jokes", func(jokes chi.Router) {
			jokes.Use(authMiddleware.RequireAuth)
			jokes.Post("/", h.Joke.Create)
			jokes.Get("/", h.Joke.List)
			jokes.Post("/random", h.Joke.Random)
			jokes.Get("/{id}", h.Joke.Get)
			jokes.Put("/{id}", h.Joke.Update)
			jokes.Delete("/{id}", h.Joke.Delete)
			jokes.Get("/{id}/owner", h.Joke.Owner)
		})

		api.With(authMiddleware.RequireAuth).Get("/jobs/fetch-joke", h.Jobs.FetchJokeStatus)
	})

	return r
}
