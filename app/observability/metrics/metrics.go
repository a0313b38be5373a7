package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	UserRegistrationsTotal  metric.Int64Counter
	ExercisesLoggedTotal    metric.Int64Counter
	LogRequestsTotal        metric.Int64Counter
	ExerciseDurationMinutes metric.Int64Histogram
	DbQueryDurationSeconds  metric.Float64Histogram
	DbQueryErrorsTotal      metric.Int64Counter
}

var (
	// Global instance of AppMetrics (initialized once)
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("ExerciseTracker")
		var err error
		m := &AppMetrics{}

		m.UserRegistrationsTotal, err = meter.Int64Counter(
			"user_registrations_total",
			metric.WithDescription("Total number of user registration requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create user_registrations_total: %v", err)
		}

		m.ExercisesLoggedTotal, err = meter.Int64Counter(
			"exercises_logged_total",
			metric.WithDescription("Total number of exercise entries persisted"),
			metric.WithUnit("{entry}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create exercises_logged_total: %v", err)
		}

		m.LogRequestsTotal, err = meter.Int64Counter(
			"log_requests_total",
			metric.WithDescription("Total number of exercise log retrievals"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create log_requests_total: %v", err)
		}

		m.ExerciseDurationMinutes, err = meter.Int64Histogram(
			"exercise_duration_minutes",
			metric.WithDescription("Distribution of logged exercise durations"),
			metric.WithUnit("min"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create exercise_duration_minutes: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing it
// against the current MeterProvider on first use. Call InitAppMetrics at
// startup after the provider is configured so instruments land on the real
// exporter rather than the no-op default.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
