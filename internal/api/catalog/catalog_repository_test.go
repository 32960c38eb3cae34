package catalog

import (
	"context"
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

var poiColumns = []string{
	"id", "content_id", "name", "region", "address", "latitude", "longitude",
	"content_type", "category_tag", "image_url", "is_variable",
	"start_date", "end_date", "operating_hours", "last_refreshed",
}

func setupCatalogRepositoryTest(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresRepository(mockPool, logger), mockPool
}

func testFilter() types.CatalogFilter {
	return types.CatalogFilter{
		Region:    "seoul",
		Interests: []string{"food"},
		StartDate: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestGetPOIsByFilter(t *testing.T) {
	ctx := context.Background()

	t.Run("returns matching rows", func(t *testing.T) {
		repo, mockPool := setupCatalogRepositoryTest(t)
		filter := testFilter()
		refreshed := time.Date(2025, 10, 27, 3, 0, 0, 0, time.UTC)
		hours := "10:30-21:00"

		mockPool.ExpectQuery("SELECT id, content_id, name, region").
			WithArgs(filter.Region, []string{"food%"}, filter.StartDate, filter.EndDate).
			WillReturnRows(pgxmock.NewRows(poiColumns).
				AddRow(uuid.New(), "SEOUL005", "Myeongdong Kyoja", "seoul", "29 Myeongdong 10-gil, Jung-gu, Seoul",
					37.5627, 126.9857, "restaurant", "food_korean", (*string)(nil), true,
					(*time.Time)(nil), (*time.Time)(nil), &hours, refreshed).
				AddRow(uuid.New(), "SEOUL013", "Gwangjang Market", "seoul", "88 Changgyeonggung-ro, Jongno-gu, Seoul",
					37.5700, 126.9996, "attraction", "food_market", (*string)(nil), false,
					(*time.Time)(nil), (*time.Time)(nil), (*string)(nil), refreshed))

		pois, err := repo.GetPOIsByFilter(ctx, filter)
		require.NoError(t, err)
		require.Len(t, pois, 2)

		assert.Equal(t, "SEOUL005", pois[0].ContentID)
		assert.True(t, pois[0].Volatile)
		require.NotNil(t, pois[0].OperatingHours)
		assert.Equal(t, "10:30-21:00", *pois[0].OperatingHours)

		assert.Equal(t, "SEOUL013", pois[1].ContentID)
		assert.False(t, pois[1].Volatile)
		assert.Nil(t, pois[1].OperatingHours)

		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("no matches", func(t *testing.T) {
		repo, mockPool := setupCatalogRepositoryTest(t)

		mockPool.ExpectQuery("SELECT id, content_id, name, region").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(poiColumns))

		pois, err := repo.GetPOIsByFilter(ctx, testFilter())
		require.NoError(t, err)
		assert.Empty(t, pois)
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mockPool := setupCatalogRepositoryTest(t)

		mockPool.ExpectQuery("SELECT id, content_id, name, region").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetPOIsByFilter(ctx, testFilter())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to query catalog")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}

func TestReplaceAll(t *testing.T) {
	ctx := context.Background()
	pois := []types.PointOfInterest{
		{ContentID: "SEOUL001", Name: "Namsan Park", Region: "seoul", Address: "231 Samil-daero, Jung-gu, Seoul",
			Latitude: 37.5509, Longitude: 126.9905, ContentType: "attraction", CategoryTag: "nature_park",
			LastRefreshed: time.Date(2025, 10, 27, 3, 0, 0, 0, time.UTC)},
	}

	t.Run("success", func(t *testing.T) {
		repo, mockPool := setupCatalogRepositoryTest(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec("DELETE FROM points_of_interest").
			WillReturnResult(pgxmock.NewResult("DELETE", 13))
		mockPool.ExpectExec("INSERT INTO points_of_interest").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockPool.ExpectCommit()

		require.NoError(t, repo.ReplaceAll(ctx, pois))
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})

	t.Run("insert failure rolls back", func(t *testing.T) {
		repo, mockPool := setupCatalogRepositoryTest(t)

		mockPool.ExpectBegin()
		mockPool.ExpectExec("DELETE FROM points_of_interest").
			WillReturnResult(pgxmock.NewResult("DELETE", 13))
		mockPool.ExpectExec("INSERT INTO points_of_interest").
			WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
				pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnError(errors.New("constraint violation"))
		mockPool.ExpectRollback()

		err := repo.ReplaceAll(ctx, pois)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to insert catalog row SEOUL001")
		assert.NoError(t, mockPool.ExpectationsWereMet())
	})
}
