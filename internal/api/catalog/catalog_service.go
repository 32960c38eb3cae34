package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ Service = (*ServiceImpl)(nil)

// Service is the catalog lookup collaborator consumed by the pipeline.
type Service interface {
	LookupCandidates(ctx context.Context, filter types.CatalogFilter) ([]types.PointOfInterest, error)
	RefreshCatalog(ctx context.Context) error
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *gocache.Cache
}

func NewService(repo Repository, cacheTTL time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// LookupCandidates returns the candidate set for one request, served from the
// in-process cache when an identical lookup happened recently.
func (s *ServiceImpl) LookupCandidates(ctx context.Context, filter types.CatalogFilter) ([]types.PointOfInterest, error) {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "LookupCandidates", trace.WithAttributes(
		attribute.String("catalog.region", filter.Region),
		attribute.Int("catalog.interests", len(filter.Interests)),
	))
	defer span.End()

	key := cacheKey(filter)
	if cached, found := s.cache.Get(key); found {
		span.SetAttributes(attribute.Bool("catalog.cache_hit", true))
		span.SetStatus(codes.Ok, "Candidates served from cache")
		return cached.([]types.PointOfInterest), nil
	}

	pois, err := s.repo.GetPOIsByFilter(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to look up catalog candidates", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog lookup failed")
		return nil, fmt.Errorf("failed to look up candidates: %w", err)
	}

	s.cache.Set(key, pois, gocache.DefaultExpiration)
	span.SetAttributes(attribute.Int("catalog.candidates", len(pois)))
	span.SetStatus(codes.Ok, "Candidates loaded")
	return pois, nil
}

// RefreshCatalog reloads the full dataset and drops every cached lookup.
// TODO: replace the seed dataset with the national Tour API ingestion once
// the API credentials are provisioned.
func (s *ServiceImpl) RefreshCatalog(ctx context.Context) error {
	ctx, span := otel.Tracer("CatalogService").Start(ctx, "RefreshCatalog")
	defer span.End()

	pois := seedPointsOfInterest(time.Now())
	if err := s.repo.ReplaceAll(ctx, pois); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Catalog refresh failed")
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	s.cache.Flush()
	s.logger.InfoContext(ctx, "Catalog refreshed", slog.Int("rows", len(pois)))
	span.SetStatus(codes.Ok, "Catalog refreshed")
	return nil
}

func cacheKey(filter types.CatalogFilter) string {
	return strings.Join([]string{
		filter.Region,
		strings.Join(filter.Interests, ","),
		filter.StartDate.Format(types.DateLayout),
		filter.EndDate.Format(types.DateLayout),
	}, "|")
}
