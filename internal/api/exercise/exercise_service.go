package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	obsmetrics "github.com/deweis/fcc-exercise-tracker/app/observability/metrics"
	"github.com/deweis/fcc-exercise-tracker/internal/api/user"
	"github.com/deweis/fcc-exercise-tracker/internal/types"
)

// Ensure implementation satisfies the interface
var _ ExerciseService = (*ExerciseServiceImpl)(nil)

// ExerciseService defines the business logic contract for the exercise log.
//
// Raw request fields come in as strings: this layer owns date normalization,
// duration coercion and the lenient query-filter policy, so the handlers
// stay a thin transport shim.
type ExerciseService interface {
	// Add validates and persists one exercise entry for userID, returning the
	// entry joined with the owning user. Exactly one row is written on
	// success, none on any failure path.
	Add(ctx context.Context, userID, description, durationRaw, dateRaw string) (*types.EnrichedExercise, error)

	// GetLog retrieves a user's exercise log with the optional from/to/limit
	// filters applied in that fixed order. Malformed filter values are
	// skipped, never errored.
	GetLog(ctx context.Context, userID, fromRaw, toRaw, limitRaw string) (*types.ExerciseLog, error)
}

// ExerciseServiceImpl provides the implementation for ExerciseService.
type ExerciseServiceImpl struct {
	logger *slog.Logger
	users  user.UserService
	repo   ExerciseRepo
	now    func() time.Time
}

// NewExerciseService creates a new exercise service instance.
func NewExerciseService(repo ExerciseRepo, users user.UserService, logger *slog.Logger) *ExerciseServiceImpl {
	return &ExerciseServiceImpl{
		logger: logger,
		users:  users,
		repo:   repo,
		now:    time.Now,
	}
}

// Add validates and persists one exercise entry.
func (s *ExerciseServiceImpl) Add(ctx context.Context, userID, description, durationRaw, dateRaw string) (*types.EnrichedExercise, error) {
	ctx, span := otel.Tracer("ExerciseService").Start(ctx, "Add", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Add"), slog.String("userID", userID))
	l.DebugContext(ctx, "Adding exercise entry")

	// Referential integrity first: nothing is persisted for unknown users.
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		l.WarnContext(ctx, "User lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, err
	}

	loggedOn, err := normalizeDate(dateRaw, s.now())
	if err != nil {
		l.WarnContext(ctx, "Invalid date", slog.String("date", dateRaw))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid date")
		return nil, err
	}

	duration, err := parseDuration(durationRaw)
	if err != nil {
		l.WarnContext(ctx, "Invalid duration", slog.String("duration", durationRaw))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid duration")
		return nil, err
	}

	entry := types.Exercise{
		UserID:      u.ID,
		Description: description,
		Duration:    duration,
		LoggedOn:    loggedOn,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		l.ErrorContext(ctx, "Failed to persist exercise entry", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist exercise entry")
		return nil, fmt.Errorf("error persisting exercise: %w", err)
	}

	m := obsmetrics.Get()
	m.ExercisesLoggedTotal.Add(ctx, 1)
	m.ExerciseDurationMinutes.Record(ctx, int64(duration))

	l.InfoContext(ctx, "Exercise entry added", slog.String("date", loggedOn.Format(types.DateDisplayFormat)))
	span.SetStatus(codes.Ok, "Exercise entry added")
	return &types.EnrichedExercise{
		ID:          u.ID,
		Username:    u.Username,
		Description: entry.Description,
		Duration:    entry.Duration,
		Date:        loggedOn.Format(types.DateDisplayFormat),
	}, nil
}

// GetLog retrieves and filters a user's exercise log.
func (s *ExerciseServiceImpl) GetLog(ctx context.Context, userID, fromRaw, toRaw, limitRaw string) (*types.ExerciseLog, error) {
	ctx, span := otel.Tracer("ExerciseService").Start(ctx, "GetLog", trace.WithAttributes(
		attribute.String("user.id", userID),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetLog"), slog.String("userID", userID))
	l.DebugContext(ctx, "Retrieving exercise log")

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		l.WarnContext(ctx, "User lookup failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "User lookup failed")
		return nil, err
	}

	entries, err := s.repo.ListByUser(ctx, u.ID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch exercise log", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to fetch exercise log")
		return nil, fmt.Errorf("error fetching exercise log: %w", err)
	}

	filter := parseLogFilter(fromRaw, toRaw, limitRaw)
	filtered := applyLogFilter(entries, filter)

	log := make([]types.LogEntry, 0, len(filtered))
	for _, e := range filtered {
		log = append(log, types.LogEntry{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        e.LoggedOn.Format(types.DateDisplayFormat),
		})
	}

	obsmetrics.Get().LogRequestsTotal.Add(ctx, 1)

	l.InfoContext(ctx, "Exercise log retrieved", slog.Int("count", len(log)), slog.Int("total", len(entries)))
	span.SetStatus(codes.Ok, "Exercise log retrieved")
	return &types.ExerciseLog{
		ID:       u.ID,
		Username: u.Username,
		Count:    len(log),
		Log:      log,
	}, nil
}

// normalizeDate turns a raw yyyy-mm-dd string into a day-precision UTC date.
// An empty value means "today" on the server clock (UTC).
func normalizeDate(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return toDay(now.UTC()), nil
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, types.ErrInvalidDate
	}
	return toDay(d), nil
}

// parseDuration coerces the raw duration field to a positive integer.
func parseDuration(raw string) (int, error) {
	d, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return 0, types.ErrInvalidDuration
	}
	return d, nil
}

// parseLogFilter parses the optional query filters. A value that is absent
// or fails to parse leaves its field nil, meaning "skip this filter": the
// documented lenient policy, deliberately not a request error.
func parseLogFilter(fromRaw, toRaw, limitRaw string) types.LogFilter {
	var f types.LogFilter
	if d, err := time.Parse(time.DateOnly, fromRaw); err == nil {
		from := toDay(d)
		f.From = &from
	}
	if d, err := time.Parse(time.DateOnly, toRaw); err == nil {
		to := toDay(d)
		f.To = &to
	}
	if n, err := strconv.Atoi(limitRaw); err == nil && n > 0 {
		f.Limit = &n
	}
	return f
}

// applyLogFilter applies from, then to, then limit, preserving the store's
// insertion order throughout (no re-sort by date).
func applyLogFilter(entries []types.Exercise, f types.LogFilter) []types.Exercise {
	filtered := make([]types.Exercise, 0, len(entries))
	for _, e := range entries {
		if f.From != nil && e.LoggedOn.Before(*f.From) {
			continue
		}
		if f.To != nil && e.LoggedOn.After(*f.To) {
			continue
		}
		filtered = append(filtered, e)
	}
	if f.Limit != nil && len(filtered) > *f.Limit {
		filtered = filtered[:*f.Limit]
	}
	return filtered
}

// toDay strips the time component, keeping year/month/day in UTC.
func toDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
