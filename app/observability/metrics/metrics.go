package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the pipeline's metric instruments.
type AppMetrics struct {
	RecommendationRequestsTotal metric.Int64Counter
	GenerationDurationSeconds   metric.Float64Histogram
	VerificationOutcomesTotal   metric.Int64Counter // label "outcome": succeeded, error, timeout, low_reliability
	VerificationDurationSeconds metric.Float64Histogram
	InteractionLogErrorsTotal   metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments once, using the
// globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TravelRecommender")
		var err error
		m := &AppMetrics{}

		m.RecommendationRequestsTotal, err = meter.Int64Counter(
			"recommendation_requests_total",
			metric.WithDescription("Total number of recommendation requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recommendation_requests_total: %v", err)
		}

		m.GenerationDurationSeconds, err = meter.Float64Histogram(
			"generation_duration_seconds",
			metric.WithDescription("Duration of the itinerary generation call in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create generation_duration_seconds: %v", err)
		}

		m.VerificationOutcomesTotal, err = meter.Int64Counter(
			"verification_outcomes_total",
			metric.WithDescription("Terminal outcomes of verification tasks"),
			metric.WithUnit("{task}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create verification_outcomes_total: %v", err)
		}

		m.VerificationDurationSeconds, err = meter.Float64Histogram(
			"verification_duration_seconds",
			metric.WithDescription("Duration of a verification batch in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create verification_duration_seconds: %v", err)
		}

		m.InteractionLogErrorsTotal, err = meter.Int64Counter(
			"interaction_log_errors_total",
			metric.WithDescription("Failed attempts to persist the interaction record"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create interaction_log_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics.InitAppMetrics must be called before metrics.Get")
	}
	return appMetrics
}
