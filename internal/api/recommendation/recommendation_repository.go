package recommendation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ Repository = (*PostgresRepository)(nil)

// Repository persists the record of one pipeline run. Callers treat failures
// as non-fatal: a lost log line must never affect the returned response.
type Repository interface {
	SaveInteraction(ctx context.Context, log types.InteractionLog) (uuid.UUID, error)
}

// DB is the subset of pgxpool.Pool this repository needs.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
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

func (r *PostgresRepository) SaveInteraction(ctx context.Context, log types.InteractionLog) (uuid.UUID, error) {
	query := `
        INSERT INTO ai_log (
            request_time, user_input_json, ai_response_json, total_tokens, agent_search_log, is_verified_success
        ) VALUES ($1, $2, $3, $4, $5, $6) RETURNING log_id
    `
	requestTime := log.RequestTime
	if requestTime.IsZero() {
		requestTime = time.Now()
	}

	var id uuid.UUID
	if err := r.pgpool.QueryRow(ctx, query,
		requestTime, log.UserInput, log.AIResponse, log.TotalTokens, log.TraceLog, log.VerifiedOK,
	).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert interaction log: %w", err)
	}

	r.logger.InfoContext(ctx, "Interaction log saved", slog.String("log_id", id.String()))
	return id, nil
}
