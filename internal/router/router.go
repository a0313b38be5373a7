package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/deweis/fcc-exercise-tracker/docs"
	"github.com/deweis/fcc-exercise-tracker/internal/api/exercise"
	"github.com/deweis/fcc-exercise-tracker/internal/api/user"
)

// Config contains dependencies needed for the router setup
type Config struct {
	UserHandler     user.Handler
	ExerciseHandler exercise.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	// The original tracker served arbitrary browser clients directly, so the
	// API stays open to any origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Get("/api/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"greeting":"hello API"}`))
	})

	// Paths preserved from the original service.
	r.Route("/api/exercise", func(r chi.Router) {
		r.Post("/new-user", cfg.UserHandler.CreateUser)
		r.Get("/users", cfg.UserHandler.ListUsers)
		r.Post("/add", cfg.ExerciseHandler.AddExercise)
		r.Get("/log", cfg.ExerciseHandler.GetLog)
	})

	r.Get("/swagger/*", httpSwagger.Handler())

	return r
}
