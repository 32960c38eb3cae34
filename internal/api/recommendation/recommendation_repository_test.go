package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepositoryTest(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresRepository(mockPool, logger), mockPool
}

func TestSaveInteraction(t *testing.T) {
	ctx := context.Background()
	tokens := int32(1234)
	record := types.InteractionLog{
		RequestTime: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC),
		UserInput:   json.RawMessage(`{"region":"seoul"}`),
		AIResponse:  json.RawMessage(`{"is_verified_success":true}`),
		TotalTokens: &tokens,
		TraceLog:    "Namsan Park: verification succeeded",
		VerifiedOK:  true,
	}

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		expectedID := uuid.New()

		mockPool.ExpectQuery("INSERT INTO ai_log").
			WithArgs(record.RequestTime, record.UserInput, record.AIResponse, record.TotalTokens, record.TraceLog, record.VerifiedOK).
			WillReturnRows(pgxmock.NewRows([]string{"log_id"}).AddRow(expectedID))

		id, err := repo.SaveInteraction(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, expectedID, id)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("insert failure", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)

		mockPool.ExpectQuery("INSERT INTO ai_log").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection refused"))

		id, err := repo.SaveInteraction(ctx, record)
		require.Error(t, err)
		assert.Equal(t, uuid.Nil, id)
		assert.Contains(t, err.Error(), "failed to insert interaction log")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("zero request time defaults to now", func(t *testing.T) {
		repo, mockPool := setupRepositoryTest(t)
		expectedID := uuid.New()
		zeroTime := record
		zeroTime.RequestTime = time.Time{}

		mockPool.ExpectQuery("INSERT INTO ai_log").
			WithArgs(pgxmock.AnyArg(), zeroTime.UserInput, zeroTime.AIResponse, zeroTime.TotalTokens, zeroTime.TraceLog, zeroTime.VerifiedOK).
			WillReturnRows(pgxmock.NewRows([]string{"log_id"}).AddRow(expectedID))

		id, err := repo.SaveInteraction(ctx, zeroTime)
		require.NoError(t, err)
		assert.Equal(t, expectedID, id)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
