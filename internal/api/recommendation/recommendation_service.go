package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-travel-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-recommender/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ErrGenerationFailure is the only error that crosses the pipeline boundary:
// the generative capability could not be reached or errored outright.
// Every other defect is encoded in the PlanResponse itself.
var ErrGenerationFailure = errors.New("itinerary generation failed")

var _ Service = (*ServiceImpl)(nil)

// GenerativeClient is the narrow capability surface the pipeline consumes.
// Satisfied by generativeAI.AIClient.
type GenerativeClient interface {
	Generate(ctx context.Context, prompt string) (string, int32, error)
	SearchAndSummarize(ctx context.Context, prompt string) (string, error)
}

// Geocoder resolves an address to coordinates. Optional; consulted only when
// a catalog row carries no coordinates.
type Geocoder interface {
	Coordinates(ctx context.Context, query string) (lat, lon float64, found bool, err error)
}

// Service defines the business logic contract for the recommendation pipeline.
type Service interface {
	GenerateRecommendations(ctx context.Context, req types.GenerationRequest, candidates []types.PointOfInterest) (*types.PlanResponse, error)
}

// Policy carries the pipeline's tunable constants. The reference values
// (120s per verification task, reliability floor of 50) live in
// configuration, not code.
type Policy struct {
	GenerationTimeout   time.Duration // 0 disables the bound on the generation call
	VerificationTimeout time.Duration
	ReliabilityFloor    int
}

type ServiceImpl struct {
	logger   *slog.Logger
	ai       GenerativeClient
	geocoder Geocoder
	policy   Policy
}

func NewService(ai GenerativeClient, geocoder Geocoder, policy Policy, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		ai:       ai,
		geocoder: geocoder,
		policy:   policy,
	}
}

// GenerateRecommendations runs the full pipeline: compile one generation
// request over the candidate catalog, reconcile the model output against it,
// verify the volatile subset concurrently and aggregate everything into one
// response. Synchronous: every verification task has settled by the time it
// returns.
func (s *ServiceImpl) GenerateRecommendations(ctx context.Context, req types.GenerationRequest, candidates []types.PointOfInterest) (*types.PlanResponse, error) {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "GenerateRecommendations", trace.WithAttributes(
		attribute.String("request.region", req.Region),
		attribute.Int("request.duration_days", req.DurationDays()),
		attribute.Int("candidates.count", len(candidates)),
	))
	defer span.End()

	defer metrics.Get().RecommendationRequestsTotal.Add(ctx, 1)

	// Phase one: a single generation call, optionally bounded.
	genCtx := ctx
	if s.policy.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.policy.GenerationTimeout)
		defer cancel()
	}

	prompt := buildItineraryPrompt(req, candidates)
	span.SetAttributes(attribute.Int("prompt.length", len(prompt)))

	genStart := time.Now()
	raw, totalTokens, err := s.ai.Generate(genCtx, prompt)
	metrics.Get().GenerationDurationSeconds.Record(ctx, time.Since(genStart).Seconds())
	if err != nil {
		s.logger.ErrorContext(ctx, "Generation capability failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Generation failed")
		return nil, fmt.Errorf("%w: %s", ErrGenerationFailure, err)
	}
	span.SetAttributes(attribute.Int("response.length", len(raw)), attribute.Int("tokens.total", int(totalTokens)))

	days, pending, traceLog, ok := s.reconcile(ctx, raw, candidates)
	span.SetAttributes(attribute.Int("plan.days", len(days)), attribute.Int("plan.pending_verifications", len(pending)))

	// Phase two: concurrent verification of the volatile subset.
	if len(pending) > 0 {
		batchStart := time.Now()
		outcomes := s.verifyAll(ctx, pending)
		metrics.Get().VerificationDurationSeconds.Record(ctx, time.Since(batchStart).Seconds())

		verificationTrace, verificationOK := s.applyOutcomes(ctx, days, pending, outcomes)
		traceLog = append(traceLog, verificationTrace...)
		ok = ok && verificationOK
	}

	span.SetAttributes(attribute.Bool("plan.verified_ok", ok))
	span.SetStatus(codes.Ok, "Recommendations generated")

	return &types.PlanResponse{
		DailyPlans:  days,
		VerifiedOK:  ok,
		TraceLog:    traceLog,
		TotalTokens: totalTokens,
	}, nil
}

// verificationPayload is the structured shape a verification task is asked to
// return. The capability may also report failure as data through the error
// field instead of failing the call.
type verificationPayload struct {
	Error               string `json:"error"`
	VerificationResults struct {
		OperatingStatus     string `json:"operating_status"`
		EndOrCancelStatus   string `json:"end_or_cancel_status"`
		LatestPriceInfo     string `json:"latest_price_info"`
		ScheduleChangeNotes string `json:"schedule_change_and_notes"`
	} `json:"verification_results"`
	ReliabilityScore  int    `json:"reliability_score"`
	ReliabilityReason string `json:"reliability_reason"`
}

// applyOutcomes folds the settled verification outcomes back into their
// originating items, in pending order, and produces the verification part of
// the trace log. Runs strictly after the concurrent phase, so each item is
// written by exactly one single-threaded step.
func (s *ServiceImpl) applyOutcomes(ctx context.Context, days []types.DailyPlan, pending []pendingVerification, outcomes []verificationOutcome) ([]string, bool) {
	trace := []string{}
	ok := true
	m := metrics.Get()

	for i, p := range pending {
		item := &days[p.dayIdx].Items[p.itemIdx]
		outcome := outcomes[i]

		if outcome.err != nil {
			reason := "verification timed out"
			label := "timeout"
			if !outcome.timedOut {
				reason = outcome.err.Error()
				label = "error"
			}
			item.Verification = types.ErrorVerdict(reason, "verification task did not settle cleanly")
			trace = append(trace, fmt.Sprintf("%s: verification failed - %s", item.Name, reason))
			m.VerificationOutcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", label)))
			ok = false
			continue
		}

		jsonStr, err := extractJSONBlock(outcome.raw)
		if err != nil {
			item.Verification = types.ErrorVerdict("malformed verification payload", outcome.raw)
			trace = append(trace, fmt.Sprintf("%s: verification failed - malformed verification payload", item.Name))
			m.VerificationOutcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
			ok = false
			continue
		}

		var payload verificationPayload
		if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
			item.Verification = types.ErrorVerdict("malformed verification payload", outcome.raw)
			trace = append(trace, fmt.Sprintf("%s: verification failed - malformed verification payload", item.Name))
			m.VerificationOutcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
			ok = false
			continue
		}

		if payload.Error != "" {
			item.Verification = types.ErrorVerdict(payload.Error, "verification capability reported failure")
			trace = append(trace, fmt.Sprintf("%s: verification failed - %s", item.Name, payload.Error))
			m.VerificationOutcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "error")))
			ok = false
			continue
		}

		item.Verification = &types.VerificationVerdict{
			OperatingStatus:     orNoInformation(payload.VerificationResults.OperatingStatus),
			EndOrCancelStatus:   orNoInformation(payload.VerificationResults.EndOrCancelStatus),
			LatestPriceInfo:     orNoInformation(payload.VerificationResults.LatestPriceInfo),
			ScheduleChangeNotes: orNoInformation(payload.VerificationResults.ScheduleChangeNotes),
			ReliabilityScore:    payload.ReliabilityScore,
			ReliabilityReason:   orNoInformation(payload.ReliabilityReason),
		}

		if payload.ReliabilityScore < s.policy.ReliabilityFloor {
			trace = append(trace, fmt.Sprintf("%s: verification failed - low reliability (%d) - %s",
				item.Name, payload.ReliabilityScore, item.Verification.ReliabilityReason))
			m.VerificationOutcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "low_reliability")))
			ok = false
			continue
		}

		trace = append(trace, fmt.Sprintf("%s: verification succeeded", item.Name))
		m.VerificationOutcomesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "succeeded")))
	}

	return trace, ok
}

func orNoInformation(v string) string {
	if v == "" {
		return "no information"
	}
	return v
}
