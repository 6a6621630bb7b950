package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"kompas/internal/middleware"
	"kompas/internal/storage"
)

// Pinger reports whether a backing service answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// API groups what NewRouter mounts.
type API struct {
	Log         *zap.Logger
	Health      Pinger
	CORSOrigins []string
	UploadDir   string // served under /uploads/ when set
	Auth        *middleware.AuthMiddleware
	RateLimit   *middleware.RateLimiter

	Users      *AuthHandler
	Profile    *ProfileHandler
	Compass    *CompassHandler
	Stats      *StatsHandler
	Essays     *EssayHandler
	FirstTimes *FirstTimeHandler
	Wishes     *WishHandler
	Photos     *PhotoHandler
	Fitness    *FitnessHandler
	English    *EnglishHandler
	Actions    *ActionHandler
}

func NewRouter(api API) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.ZapRequestLogger(api.Log))
	r.Use(middleware.Recover(api.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if api.Health != nil {
			if err := api.Health.Ping(ctx); err != nil {
				api.Log.Warn("health check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if api.UploadDir != "" {
		files := http.StripPrefix(storage.LocalPathPrefix, http.FileServer(http.Dir(api.UploadDir)))
		r.Handle(storage.LocalPathPrefix+"*", files)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", Catalog)

		r.Group(func(r chi.Router) {
			if api.RateLimit != nil {
				r.Use(api.RateLimit.Handler)
			}
			r.Post("/auth/signup", api.Users.Signup)
			r.Post("/auth/login", api.Users.Login)
			r.Get("/auth/google", api.Users.GoogleStart)
			r.Get("/auth/google/callback", api.Users.GoogleCallback)
		})

		r.Group(func(r chi.Router) {
			r.Use(api.Auth.RequireAuth)

			r.Get("/auth/session", api.Users.Session)
			r.Post("/auth/logout", api.Users.Logout)

			r.Get("/profile", api.Profile.Get)
			r.Put("/profile", api.Profile.Update)
			r.Post("/profile/avatar", api.Profile.UploadAvatar)

			r.Get("/compass", api.Compass.List)
			r.Get("/compass/{date}", api.Compass.Get)
			r.Put("/compass/{date}", api.Compass.Put)
			r.Delete("/compass/{date}", api.Compass.Delete)

			r.Get("/statistics", api.Stats.Statistics)
			r.Get("/dashboard", api.Stats.Dashboard)
			r.Get("/achievements", api.Stats.Achievements)

			r.Get("/essay-topics", api.Essays.Topics)
			r.Get("/essays", api.Essays.List)
			r.Put("/essays/{topicID}", api.Essays.Put)
			r.Delete("/essays/{topicID}", api.Essays.Delete)

			r.Route("/first-times", func(r chi.Router) {
				r.Get("/", api.FirstTimes.List)
				r.Post("/", api.FirstTimes.Create)
				r.Put("/{id}", api.FirstTimes.Update)
				r.Delete("/{id}", api.FirstTimes.Delete)
			})

			r.Route("/wishes", func(r chi.Router) {
				r.Get("/", api.Wishes.List)
				r.Post("/", api.Wishes.Create)
				r.Get("/next-number", api.Wishes.NextNumber)
				r.Put("/{id}", api.Wishes.Update)
				r.Delete("/{id}", api.Wishes.Delete)
			})

			r.Route("/monthly-photos", func(r chi.Router) {
				r.Get("/", api.Photos.List)
				r.Post("/", api.Photos.Upload)
				r.Delete("/{id}", api.Photos.Delete)
			})

			r.Route("/fitness-tests", func(r chi.Router) {
				r.Get("/", api.Fitness.List)
				r.Get("/progress", api.Fitness.Progress)
				r.Put("/{n}", api.Fitness.Put)
				r.Delete("/{n}", api.Fitness.Delete)
			})

			r.Route("/english-tests", func(r chi.Router) {
				r.Get("/", api.English.List)
				r.Put("/{n}", api.English.Put)
				r.Delete("/{n}", api.English.Delete)
			})

			r.Route("/actions", func(r chi.Router) {
				r.Get("/", api.Actions.List)
				r.Post("/", api.Actions.Create)
				r.Get("/summary", api.Actions.Summary)
				r.Put("/{id}", api.Actions.Update)
				r.Delete("/{id}", api.Actions.Delete)
			})
		})
	})

	return r
}
