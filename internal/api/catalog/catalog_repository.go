package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
	"github.com/jackc/pgx/v5"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository is the persistence contract for the point-of-interest catalog.
type Repository interface {
	GetPOIsByFilter(ctx context.Context, filter types.CatalogFilter) ([]types.PointOfInterest, error)
	ReplaceAll(ctx context.Context, pois []types.PointOfInterest) error
}

// DB is the subset of pgxpool.Pool the repository needs. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PostgresRepository struct {
	logger *slog.Logger
	pgpool DB
}

func NewPostgresRepository(pgpool DB, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

// GetPOIsByFilter returns catalog rows for one region whose category tag
// matches any requested interest prefix and whose event window, if present,
// overlaps the requested date range.
func (r *PostgresRepository) GetPOIsByFilter(ctx context.Context, filter types.CatalogFilter) ([]types.PointOfInterest, error) {
	patterns := make([]string, 0, len(filter.Interests))
	for _, interest := range filter.Interests {
		patterns = append(patterns, interest+"%")
	}

	query := `
        SELECT id, content_id, name, region, address, latitude, longitude,
               content_type, category_tag, image_url, is_variable,
               start_date, end_date, operating_hours, last_refreshed
        FROM points_of_interest
        WHERE region ILIKE $1
          AND category_tag ILIKE ANY($2::text[])
          AND (start_date IS NULL OR start_date <= $4)
          AND (end_date IS NULL OR end_date >= $3)
        ORDER BY content_id
    `
	rows, err := r.pgpool.Query(ctx, query, filter.Region, patterns, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	var pois []types.PointOfInterest
	for rows.Next() {
		var poi types.PointOfInterest
		if err := rows.Scan(
			&poi.ID, &poi.ContentID, &poi.Name, &poi.Region, &poi.Address,
			&poi.Latitude, &poi.Longitude, &poi.ContentType, &poi.CategoryTag,
			&poi.ImageURL, &poi.Volatile, &poi.StartDate, &poi.EndDate,
			&poi.OperatingHours, &poi.LastRefreshed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		pois = append(pois, poi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading catalog rows: %w", err)
	}
	return pois, nil
}

// ReplaceAll swaps the whole catalog for a fresh dataset in one transaction.
func (r *PostgresRepository) ReplaceAll(ctx context.Context, pois []types.PointOfInterest) error {
	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM points_of_interest`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}

	query := `
        INSERT INTO points_of_interest (
            content_id, name, region, address, latitude, longitude,
            content_type, category_tag, image_url, is_variable,
            start_date, end_date, operating_hours, last_refreshed
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
    `
	for _, poi := range pois {
		if _, err := tx.Exec(ctx, query,
			poi.ContentID, poi.Name, poi.Region, poi.Address, poi.Latitude, poi.Longitude,
			poi.ContentType, poi.CategoryTag, poi.ImageURL, poi.Volatile,
			poi.StartDate, poi.EndDate, poi.OperatingHours, poi.LastRefreshed,
		); err != nil {
			return fmt.Errorf("failed to insert catalog row %s: %w", poi.ContentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog refresh: %w", err)
	}

	r.logger.InfoContext(ctx, "Catalog replaced", slog.Int("rows", len(pois)))
	return nil
}
