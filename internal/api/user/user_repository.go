package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	obsmetrics "github.com/deweis/fcc-exercise-tracker/app/observability/metrics"
	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

var _ UserRepo = (*PostgresUserRepo)(nil)

// PgxPool is the subset of pgxpool.Pool the repositories use. Declared here
// so tests can substitute a pgxmock pool.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UserRepo defines the contract for user data persistence.
type UserRepo interface {
	// CreateOrGet resolves a username to its user, creating the row on first
	// sight. Idempotent: the same username always yields the same id.
	CreateOrGet(ctx context.Context, username string) (*types.User, error)

	// GetAll retrieves every registered user, store order.
	GetAll(ctx context.Context) ([]types.User, error)

	// GetByID retrieves a user by exact id match.
	// Returns types.ErrUserNotFound (wrapped) if no row matches.
	GetByID(ctx context.Context, userID string) (*types.User, error)
}

type PostgresUserRepo struct {
	logger *slog.Logger
	pgpool PgxPool
}

func NewPostgresUserRepo(pgpool PgxPool, logger *slog.Logger) *PostgresUserRepo {
	return &PostgresUserRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

// CreateOrGet implements user.UserRepo.
//
// The upsert resolves lookup-or-create in a single statement so two
// concurrent registrations of the same username cannot both insert; the
// losing statement returns the winner's row. The no-op DO UPDATE is what
// makes RETURNING yield the existing row on conflict.
func (r *PostgresUserRepo) CreateOrGet(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "CreateOrGet", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "CreateOrGet"), slog.String("username", username))
	l.DebugContext(ctx, "Upserting user")

	start := time.Now()
	var u types.User
	err := r.pgpool.QueryRow(ctx, `
        INSERT INTO users (id, username) VALUES ($1, $2)
        ON CONFLICT (username) DO UPDATE SET username = EXCLUDED.username
        RETURNING id, username`,
		uuid.New(), username).Scan(&u.ID, &u.Username)
	obsmetrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		obsmetrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to upsert user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return nil, fmt.Errorf("database error upserting user: %w", err)
	}

	l.InfoContext(ctx, "User resolved", slog.String("userID", u.ID))
	span.SetStatus(codes.Ok, "User resolved")
	return &u, nil
}

// GetAll implements user.UserRepo.
func (r *PostgresUserRepo) GetAll(ctx context.Context) ([]types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetAll", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetAll"))
	l.DebugContext(ctx, "Fetching all users")

	start := time.Now()
	rows, err := r.pgpool.Query(ctx, "SELECT id, username FROM users")
	obsmetrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		obsmetrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to query users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching users: %w", err)
	}
	defer rows.Close()

	users := make([]types.User, 0)
	for rows.Next() {
		var u types.User
		if err := rows.Scan(&u.ID, &u.Username); err != nil {
			l.ErrorContext(ctx, "Failed to scan user row", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Row scan failed")
			return nil, fmt.Errorf("database error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		obsmetrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Row iteration error", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Row iteration failed")
		return nil, fmt.Errorf("database error iterating users: %w", err)
	}

	l.InfoContext(ctx, "Users fetched", slog.Int("count", len(users)))
	span.SetStatus(codes.Ok, "Users fetched")
	return users, nil
}

// GetByID implements user.UserRepo.
func (r *PostgresUserRepo) GetByID(ctx context.Context, userID string) (*types.User, error) {
	ctx, span := otel.Tracer("UserRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetByID"), slog.String("userID", userID))
	l.DebugContext(ctx, "Fetching user by id")

	start := time.Now()
	var u types.User
	err := r.pgpool.QueryRow(ctx, "SELECT id, username FROM users WHERE id = $1", userID).
		Scan(&u.ID, &u.Username)
	obsmetrics.Get().DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err := fmt.Errorf("user %s: %w", userID, types.ErrUserNotFound)
			l.WarnContext(ctx, "User not found")
			span.RecordError(err)
			span.SetStatus(codes.Error, "User not found")
			return nil, err
		}
		obsmetrics.Get().DbQueryErrorsTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}

	l.InfoContext(ctx, "User fetched")
	span.SetStatus(codes.Ok, "User fetched")
	return &u, nil
}
