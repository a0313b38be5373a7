package container

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/deweis/fcc-exercise-tracker/app/db"
	"github.com/deweis/fcc-exercise-tracker/config"
	"github.com/deweis/fcc-exercise-tracker/internal/api/exercise"
	"github.com/deweis/fcc-exercise-tracker/internal/api/user"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Pool            *pgxpool.Pool
	UserHandler     *user.HandlerImpl
	ExerciseHandler *exercise.HandlerImpl
}

// NewContainer initializes and returns a new dependency container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbConfig, err := database.NewDatabaseConfig(cfg, logger)
	if err != nil {
		logger.Error("Failed to generate database config", slog.Any("error", err))
		return nil, err
	}

	pool, err := database.Init(dbConfig.ConnectionURL, logger)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.Any("error", err))
		return nil, err
	}

	userRepo := user.NewPostgresUserRepo(pool, logger)
	userService := user.NewUserService(userRepo, logger)
	userHandler := user.NewHandlerImpl(userService, logger)

	exerciseRepo := exercise.NewPostgresExerciseRepo(pool, logger)
	exerciseService := exercise.NewExerciseService(exerciseRepo, userService, logger)
	exerciseHandler := exercise.NewHandlerImpl(exerciseService, logger)

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Pool:            pool,
		UserHandler:     userHandler,
		ExerciseHandler: exerciseHandler,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}
