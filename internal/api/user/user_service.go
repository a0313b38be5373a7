package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	obsmetrics "github.com/deweis/fcc-exercise-tracker/app/observability/metrics"
	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

// Ensure implementation satisfies the interface
var _ UserService = (*UserServiceImpl)(nil)

// UserService defines the business logic contract for the identity registry.
type UserService interface {
	// CreateOrGet registers a username, returning the existing user unchanged
	// when the username is already taken.
	CreateOrGet(ctx context.Context, username string) (*types.User, error)

	// GetAll lists every registered user.
	GetAll(ctx context.Context) ([]types.User, error)

	// GetByID looks a user up by id. Missing users surface as
	// types.ErrUserNotFound so callers can produce a client-facing message.
	GetByID(ctx context.Context, userID string) (*types.User, error)
}

// UserServiceImpl provides the implementation for UserService.
//
// Resolved users are kept in an in-process cache: user rows are immutable and
// never deleted in this system, so a cached hit can never be stale.
type UserServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	byID   *cache.Cache
}

// NewUserService creates a new user service instance.
func NewUserService(repo UserRepo, logger *slog.Logger) *UserServiceImpl {
	return &UserServiceImpl{
		logger: logger,
		repo:   repo,
		byID:   cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// CreateOrGet registers a username idempotently.
func (s *UserServiceImpl) CreateOrGet(ctx context.Context, username string) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "CreateOrGet", trace.WithAttributes(
		attribute.String("user.username", username),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateOrGet"), slog.String("username", username))
	l.DebugContext(ctx, "Registering user")

	// The boundary layer pre-validates, but reject blanks defensively.
	if strings.TrimSpace(username) == "" {
		err := types.ErrEmptyUsername
		l.WarnContext(ctx, "Rejected empty username")
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty username")
		return nil, err
	}

	u, err := s.repo.CreateOrGet(ctx, username)
	if err != nil {
		l.ErrorContext(ctx, "Failed to register user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to register user")
		return nil, fmt.Errorf("error registering user: %w", err)
	}

	s.byID.Set(u.ID, *u, cache.NoExpiration)
	obsmetrics.Get().UserRegistrationsTotal.Add(ctx, 1)

	l.InfoContext(ctx, "User registered", slog.String("userID", u.ID))
	span.SetStatus(codes.Ok, "User registered")
	return u, nil
}

// GetAll lists every registered user.
func (s *UserServiceImpl) GetAll(ctx context.Context) ([]types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetAll")
	defer span.End()

	l := s.logger.With(slog.String("method", "GetAll"))
	l.DebugContext(ctx, "Fetching all users")

	users, err := s.repo.GetAll(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch users")
		return nil, fmt.Errorf("error fetching users: %w", err)
	}

	l.InfoContext(ctx, "Users fetched", slog.Int("count", len(users)))
	span.SetStatus(codes.Ok, "Users fetched")
	return users, nil
}

// GetByID looks a user up by id, serving immutable rows from cache.
func (s *UserServiceImpl) GetByID(ctx context.Context, userID string) (*types.User, error) {
	ctx, span := otel.Tracer("UserService").Start(ctx, "GetByID", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetByID"), slog.String("userID", userID))
	l.DebugContext(ctx, "Fetching user")

	if cached, found := s.byID.Get(userID); found {
		u := cached.(types.User)
		l.DebugContext(ctx, "User served from cache")
		span.SetStatus(codes.Ok, "User served from cache")
		return &u, nil
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch user", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch user")
		// Keep the sentinel visible to errors.Is callers.
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	s.byID.Set(u.ID, *u, cache.NoExpiration)

	l.InfoContext(ctx, "User fetched")
	span.SetStatus(codes.Ok, "User fetched")
	return u, nil
}
