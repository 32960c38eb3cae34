package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/FACorreiaa/go-travel-recommender/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-recommender/internal/api"
	"github.com/FACorreiaa/go-travel-recommender/internal/types"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// CandidateLookup is the catalog collaborator the handler consumes.
// Satisfied by catalog.Service.
type CandidateLookup interface {
	LookupCandidates(ctx context.Context, filter types.CatalogFilter) ([]types.PointOfInterest, error)
}

type Handler struct {
	service Service
	catalog CandidateLookup
	repo    Repository
	logger  *slog.Logger
}

func NewHandler(service Service, catalog CandidateLookup, repo Repository, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		catalog: catalog,
		repo:    repo,
		logger:  logger,
	}
}

// GenerateRecommendations handles POST /recommendations: fetch candidates for
// the request, run the generation-and-verification pipeline and persist the
// interaction record best-effort before responding.
func (h *Handler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RecommendationHandler").Start(r.Context(), "GenerateRecommendations", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/recommendations"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateRecommendations"))

	var req types.RecommendationRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	genReq, err := validateRequest(req)
	if err != nil {
		l.ErrorContext(ctx, "Invalid recommendation request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	l = l.With(slog.String("region", genReq.Region))

	candidates, err := h.catalog.LookupCandidates(ctx, types.CatalogFilter{
		Region:    genReq.Region,
		Interests: genReq.Interests,
		StartDate: genReq.StartDate,
		EndDate:   genReq.EndDate,
	})
	if err != nil {
		l.ErrorContext(ctx, "Failed to look up catalog candidates", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load tourist information")
		return
	}
	if len(candidates) == 0 {
		l.WarnContext(ctx, "No catalog candidates for request")
		api.ErrorResponse(w, r, http.StatusNotFound, "No tourist information matches the requested region and interests")
		return
	}

	response, err := h.service.GenerateRecommendations(ctx, genReq, candidates)
	if err != nil {
		l.ErrorContext(ctx, "Recommendation pipeline failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fmt.Sprintf("Failed to generate recommendations: %s", err.Error()))
		return
	}

	h.logInteraction(ctx, req, response)

	l.InfoContext(ctx, "Recommendations generated",
		slog.Int("days", len(response.DailyPlans)),
		slog.Bool("verified_ok", response.VerifiedOK),
	)
	api.WriteJSONResponse(w, r, http.StatusOK, response)
}

// logInteraction persists the pipeline record. Failures are absorbed: the
// user keeps their response even when the audit row is lost.
func (h *Handler) logInteraction(ctx context.Context, req types.RecommendationRequest, response *types.PlanResponse) {
	userInput, err := json.Marshal(req)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to marshal request for interaction log", slog.Any("error", err))
		metrics.Get().InteractionLogErrorsTotal.Add(ctx, 1)
		return
	}
	aiResponse, err := json.Marshal(response)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to marshal response for interaction log", slog.Any("error", err))
		metrics.Get().InteractionLogErrorsTotal.Add(ctx, 1)
		return
	}

	tokens := response.TotalTokens
	if _, err := h.repo.SaveInteraction(ctx, types.InteractionLog{
		RequestTime: time.Now(),
		UserInput:   userInput,
		AIResponse:  aiResponse,
		TotalTokens: &tokens,
		TraceLog:    strings.Join(response.TraceLog, "\n"),
		VerifiedOK:  response.VerifiedOK,
	}); err != nil {
		h.logger.ErrorContext(ctx, "Failed to save interaction log", slog.Any("error", err))
		metrics.Get().InteractionLogErrorsTotal.Add(ctx, 1)
	}
}

func validateRequest(req types.RecommendationRequest) (types.GenerationRequest, error) {
	if req.Region == "" {
		return types.GenerationRequest{}, fmt.Errorf("region is required")
	}
	if len(req.Interests) == 0 {
		return types.GenerationRequest{}, fmt.Errorf("at least one interest is required")
	}
	if req.Age < 0 {
		return types.GenerationRequest{}, fmt.Errorf("age must not be negative")
	}

	startDate, err := time.Parse(types.DateLayout, req.StartDate)
	if err != nil {
		return types.GenerationRequest{}, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", req.StartDate)
	}
	endDate, err := time.Parse(types.DateLayout, req.EndDate)
	if err != nil {
		return types.GenerationRequest{}, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", req.EndDate)
	}
	if endDate.Before(startDate) {
		return types.GenerationRequest{}, fmt.Errorf("start_date must not be after end_date")
	}

	return types.GenerationRequest{
		Region:    req.Region,
		StartDate: startDate,
		EndDate:   endDate,
		Age:       req.Age,
		Gender:    req.Gender,
		Interests: req.Interests,
	}, nil
}
