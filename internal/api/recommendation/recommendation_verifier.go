package recommendation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// verificationOutcome is the terminal result of one verification task,
// index-aligned with the pending list it was dispatched for.
type verificationOutcome struct {
	raw      string
	err      error
	timedOut bool
}

// verifyAll dispatches one verification task per pending item and waits for
// every task to settle. Tasks run concurrently, each bounded by the
// configured timeout; a slow or failing task never blocks or drops its
// siblings. Each goroutine only writes its own slot of the outcomes slice,
// so no locking is needed.
func (s *ServiceImpl) verifyAll(ctx context.Context, pending []pendingVerification) []verificationOutcome {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "verifyAll", trace.WithAttributes(
		attribute.Int("verification.tasks", len(pending)),
	))
	defer span.End()

	outcomes := make([]verificationOutcome, len(pending))

	start := time.Now()
	var wg sync.WaitGroup
	for i, p := range pending {
		wg.Add(1)
		go func(i int, poi types.PointOfInterest) {
			defer wg.Done()
			outcomes[i] = s.verifyOne(ctx, poi)
		}(i, p.poi)
	}
	wg.Wait()

	s.logger.InfoContext(ctx, "Verification batch settled",
		slog.Int("tasks", len(pending)),
		slog.Duration("elapsed", time.Since(start)),
	)
	span.SetStatus(codes.Ok, "All verification tasks settled")
	return outcomes
}

// verifyOne runs a single live verification with its own deadline. A deadline
// hit is reported as a timeout outcome, any other capability failure as an
// error outcome carrying the cause.
func (s *ServiceImpl) verifyOne(ctx context.Context, poi types.PointOfInterest) verificationOutcome {
	ctx, span := otel.Tracer("RecommendationService").Start(ctx, "verifyOne", trace.WithAttributes(
		attribute.String("poi.content_id", poi.ContentID),
		attribute.String("poi.name", poi.Name),
	))
	defer span.End()

	taskCtx, cancel := context.WithTimeout(ctx, s.policy.VerificationTimeout)
	defer cancel()

	s.logger.InfoContext(taskCtx, "Verifying volatile item", slog.String("name", poi.Name))

	raw, err := s.ai.SearchAndSummarize(taskCtx, buildVerificationPrompt(poi))
	if err != nil {
		timedOut := errors.Is(err, context.DeadlineExceeded) || errors.Is(taskCtx.Err(), context.DeadlineExceeded)
		if timedOut {
			s.logger.WarnContext(ctx, "Verification task timed out", slog.String("name", poi.Name))
			span.SetStatus(codes.Error, "Verification timed out")
		} else {
			s.logger.ErrorContext(ctx, "Verification task failed", slog.String("name", poi.Name), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Verification failed")
		}
		return verificationOutcome{err: err, timedOut: timedOut}
	}

	span.SetStatus(codes.Ok, "Verification settled")
	return verificationOutcome{raw: raw}
}
