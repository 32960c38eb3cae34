package recommendation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupParserTest(geocoder Geocoder) *ServiceImpl {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(new(MockGenerativeClient), geocoder, defaultTestPolicy(), logger)
}

func TestExtractJSONBlock(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		out, err := extractJSONBlock(`{"a": 1}`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("markdown fenced", func(t *testing.T) {
		out, err := extractJSONBlock("```json\n{\"a\": 1}\n```")
		require.NoError(t, err)
		assert.Equal(t, `{"a": 1}`, out)
	})

	t.Run("wrapped in prose", func(t *testing.T) {
		out, err := extractJSONBlock(`Sure, here is your itinerary: {"a": {"b": 2}} hope it helps!`)
		require.NoError(t, err)
		assert.Equal(t, `{"a": {"b": 2}}`, out)
	})

	t.Run("no object at all", func(t *testing.T) {
		_, err := extractJSONBlock("no json here")
		require.Error(t, err)
	})
}

func TestReconcile_CatalogFactsWin(t *testing.T) {
	service := setupParserTest(nil)
	ctx := context.Background()

	// The model renames the park and the raw payload carries a bogus address
	// field; both must be ignored in favour of the catalog record.
	raw := `{
        "daily_recommendations": [
            {
                "date": "2025-11-01",
                "recommendations": [
                    {"content_id": "SEOUL001", "name": "Totally Fake Palace", "address": "1 Nowhere St", "description": "d", "activity": "a"}
                ]
            }
        ]
    }`

	days, pending, trace, ok := service.reconcile(ctx, raw, testCandidates())
	require.True(t, ok)
	assert.Empty(t, trace)
	assert.Empty(t, pending)
	require.Len(t, days, 1)
	require.Len(t, days[0].Items, 1)

	item := days[0].Items[0]
	assert.Equal(t, "Namsan Park", item.Name)
	assert.Equal(t, "231 Samil-daero, Jung-gu, Seoul", item.Address)
	assert.InDelta(t, 37.5509, item.Latitude, 0.0001)
	require.NotNil(t, item.OperatingHours)
	assert.Equal(t, "05:00-23:00", *item.OperatingHours)
}

func TestReconcile_UnknownContentIDDroppedWithTrace(t *testing.T) {
	service := setupParserTest(nil)
	ctx := context.Background()

	raw := `{
        "daily_recommendations": [
            {
                "date": "2025-11-01",
                "recommendations": [
                    {"content_id": "ZZZ999", "name": "Invented Palace", "description": "d", "activity": "a"},
                    {"content_id": "SEOUL001", "name": "Namsan Park", "description": "d", "activity": "a"}
                ]
            }
        ]
    }`

	days, _, trace, ok := service.reconcile(ctx, raw, testCandidates())
	assert.False(t, ok)
	assert.Contains(t, trace, "invalid identifier ZZZ999; item dropped")

	// The sibling item on the same day survives.
	require.Len(t, days, 1)
	require.Len(t, days[0].Items, 1)
	assert.Equal(t, "SEOUL001", days[0].Items[0].ContentID)
}

func TestReconcile_BadDateSkipsOnlyThatDay(t *testing.T) {
	service := setupParserTest(nil)
	ctx := context.Background()

	raw := `{
        "daily_recommendations": [
            {
                "date": "not-a-date",
                "recommendations": [
                    {"content_id": "SEOUL001", "name": "Namsan Park", "description": "d", "activity": "a"}
                ]
            },
            {
                "recommendations": [
                    {"content_id": "SEOUL001", "name": "Namsan Park", "description": "d", "activity": "a"}
                ]
            },
            {
                "date": "2025-11-02",
                "recommendations": [
                    {"content_id": "SEOUL001", "name": "Namsan Park", "description": "d", "activity": "a"}
                ]
            }
        ]
    }`

	days, _, trace, ok := service.reconcile(ctx, raw, testCandidates())
	assert.False(t, ok)
	require.Len(t, days, 1)
	assert.Equal(t, "2025-11-02", days[0].Date)
	assert.Contains(t, trace, "model returned malformed date: not-a-date; day skipped")
	assert.Contains(t, trace, "model response missing date field for a day; day skipped")
}

func TestReconcile_VolatileClassification(t *testing.T) {
	service := setupParserTest(nil)
	ctx := context.Background()

	days, pending, _, ok := service.reconcile(ctx, modelItinerary(), testCandidates())
	require.True(t, ok)
	require.Len(t, days, 1)
	require.Len(t, days[0].Items, 2)

	// Park is trusted immediately, restaurant waits for a live check.
	park := days[0].Items[0]
	require.NotNil(t, park.Verification)
	assert.Equal(t, "trusted", park.Verification.OperatingStatus)
	assert.Equal(t, 100, park.Verification.ReliabilityScore)

	restaurant := days[0].Items[1]
	assert.Nil(t, restaurant.Verification)

	require.Len(t, pending, 1)
	assert.Equal(t, "SEOUL005", pending[0].poi.ContentID)
	assert.Equal(t, 0, pending[0].dayIdx)
	assert.Equal(t, 1, pending[0].itemIdx)
}

func TestReconcile_GeocodeFallback(t *testing.T) {
	ctx := context.Background()

	candidates := testCandidates()
	candidates[0].Latitude = 0
	candidates[0].Longitude = 0

	raw := `{
        "daily_recommendations": [
            {
                "date": "2025-11-01",
                "recommendations": [
                    {"content_id": "SEOUL001", "name": "Namsan Park", "description": "d", "activity": "a"}
                ]
            }
        ]
    }`

	t.Run("coordinates resolved", func(t *testing.T) {
		mockGeo := new(MockGeocoder)
		mockGeo.On("Coordinates", mock.Anything, candidates[0].Address).Return(37.5512, 126.9882, true, nil).Once()
		service := setupParserTest(mockGeo)

		days, _, _, ok := service.reconcile(ctx, raw, candidates)
		require.True(t, ok)
		item := days[0].Items[0]
		assert.InDelta(t, 37.5512, item.Latitude, 0.0001)
		assert.InDelta(t, 126.9882, item.Longitude, 0.0001)
		mockGeo.AssertExpectations(t)
	})

	t.Run("geocode failure keeps item with failed verdict", func(t *testing.T) {
		mockGeo := new(MockGeocoder)
		mockGeo.On("Coordinates", mock.Anything, candidates[0].Address).Return(0.0, 0.0, false, errors.New("kakao unreachable")).Once()
		service := setupParserTest(mockGeo)

		days, pending, trace, ok := service.reconcile(ctx, raw, candidates)
		assert.False(t, ok)
		assert.Empty(t, pending)
		require.Len(t, days[0].Items, 1)

		item := days[0].Items[0]
		require.NotNil(t, item.Verification)
		assert.Equal(t, 0, item.Verification.ReliabilityScore)
		assert.Contains(t, trace[0], "geocoding failed")
		mockGeo.AssertExpectations(t)
	})
}

func TestResolveItem_NarrativeDefaults(t *testing.T) {
	service := setupParserTest(nil)
	ctx := context.Background()

	raw := `{
        "daily_recommendations": [
            {
                "date": "2025-11-01",
                "recommendations": [
                    {"content_id": "SEOUL001", "name": "Namsan Park"}
                ]
            }
        ]
    }`

	days, _, _, ok := service.reconcile(ctx, raw, testCandidates())
	require.True(t, ok)
	item := days[0].Items[0]
	assert.Equal(t, "No description generated.", item.Description)
	assert.Equal(t, "No suggested activity.", item.Activity)
}
