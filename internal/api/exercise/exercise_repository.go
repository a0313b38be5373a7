package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	obsmetrics "github.com/deweis/fcc-exercise-tracker/app/observability/metrics"
	"github.com/deweis/fcc-exercise-tracker/internal/api/user"
	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

var _ ExerciseRepo = (*PostgresExerciseRepo)(nil)

// ExerciseRepo defines the contract for exercise entry persistence.
type ExerciseRepo interface {
	// Insert persists a single exercise entry for an existing user.
	Insert(ctx context.Context, entry types.Exercise) error

	// ListByUser retrieves a user's full log in insertion order.
	ListByUser(ctx context.Context, userID string) ([]types.Exercise, error)
}

type PostgresExerciseRepo struct {
	logger *slog.Logger
	pgpool user.PgxPool
}

func NewPostgresExerciseRepo(pgpool user.PgxPool, logger *slog.Logger) *PostgresExerciseRepo {
	return &PostgresExerciseRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// Insert implements exercise.ExerciseRepo.
func (r *PostgresExerciseRepo) Insert(ctx context.Context, entry types.Exercise) error {
	ctx, span := otel.Tracer("ExerciseRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "exercises"),
		attribute.String("db.user.id", entry.UserID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Insert"), slog.String("userID", entry.UserID))
	l.DebugContext(ctx, "Inserting exercise entry")

	start := time.Now()
	_, err := r.pgpool.Exec(ctx,
		"INSERT INTO exercises (user_id, description, duration, logged_on) VALUES ($1, $2, $3, $4)",
		entry.UserID, entry.Description, entry.Duration, entry.LoggedOn)
	obsmetrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		obsmetrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to insert exercise entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error inserting exercise: %w", err)
	}

	l.InfoContext(ctx, "Exercise entry inserted")
	span.SetStatus(codes.Ok, "Exercise entry inserted")
	return nil
}

// ListByUser implements exercise.ExerciseRepo.
// Entries come back ordered by insertion, which is also append order since
// entries are immutable once created.
func (r *PostgresExerciseRepo) ListByUser(ctx context.Context, userID string) ([]types.Exercise, error) {
	ctx, span := otel.Tracer("ExerciseRepo").Start(ctx, "ListByUser", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "exercises"),
		attribute.String("db.user.id", userID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "ListByUser"), slog.String("userID", userID))
	l.DebugContext(ctx, "Fetching exercise log")

	start := time.Now()
	rows, err := r.pgpool.Query(ctx,
		"SELECT user_id, description, duration, logged_on FROM exercises WHERE user_id = $1 ORDER BY id",
		userID)
	obsmetrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		obsmetrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to query exercise log", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching exercise log: %w", err)
	}
	defer rows.Close()

	entries := make([]types.Exercise, 0)
	for rows.Next() {
		var e types.Exercise
		if err := rows.Scan(&e.UserID, &e.Description, &e.Duration, &e.LoggedOn); err != nil {
			l.ErrorContext(ctx, "Failed to scan exercise row", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning exercise: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		obsmetrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Row iteration error", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("database error iterating exercises: %w", err)
	}

	l.InfoContext(ctx, "Exercise log fetched", slog.Int("count", len(entries)))
	span.SetStatus(codes.Ok, "Exercise log fetched")
	return entries, nil
}
