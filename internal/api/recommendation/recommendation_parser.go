package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

// rawItinerary mirrors the model's unvalidated output. Every field must be
// checked against the candidate catalog before anything is trusted.
type rawItinerary struct {
	DailyRecommendations []rawPlanDay `json:"daily_recommendations"`
}

type rawPlanDay struct {
	Date            string        `json:"date"`
	Recommendations []rawPlanItem `json:"recommendations"`
}

type rawPlanItem struct {
	ContentID   string `json:"content_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Activity    string `json:"activity"`
}

// pendingVerification points at one reconciled item awaiting a live check.
// Items are addressed by index so the slices can keep growing during
// reconciliation without invalidating anything.
type pendingVerification struct {
	dayIdx  int
	itemIdx int
	poi     types.PointOfInterest
}

// extractJSONBlock locates the outermost JSON object in the model's raw text.
// The model may wrap the payload in prose or markdown fences.
func extractJSONBlock(raw string) (string, error) {
	cleaned := strings.TrimPrefix(strings.TrimSuffix(strings.TrimSpace(raw), "```"), "```json")
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in model output")
	}
	return cleaned[start : end+1], nil
}

// reconcile parses the raw model output into daily plans, validates every
// referenced content ID against the candidate set and classifies each
// resolved item as trusted or pending live verification.
//
// A parse failure of the whole payload yields an empty plan; a malformed day
// or item only drops that day or item. The returned ok flag is false as soon
// as any defect was observed.
func (s *ServiceImpl) reconcile(ctx context.Context, raw string, candidates []types.PointOfInterest) ([]types.DailyPlan, []pendingVerification, []string, bool) {
	days := []types.DailyPlan{}
	pending := []pendingVerification{}
	trace := []string{}
	ok := true

	jsonStr, err := extractJSONBlock(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to locate JSON block in model output", slog.Any("error", err))
		return days, pending, []string{fmt.Sprintf("failed to parse model response: %s", err)}, false
	}

	var itinerary rawItinerary
	if err := json.Unmarshal([]byte(jsonStr), &itinerary); err != nil {
		s.logger.WarnContext(ctx, "Failed to parse model output", slog.Any("error", err))
		return days, pending, []string{fmt.Sprintf("failed to parse model response: %s", err)}, false
	}

	byContentID := make(map[string]types.PointOfInterest, len(candidates))
	for _, poi := range candidates {
		byContentID[poi.ContentID] = poi
	}

	for _, rawDay := range itinerary.DailyRecommendations {
		if rawDay.Date == "" {
			s.logger.WarnContext(ctx, "Model omitted the date field for a day, skipping it")
			trace = append(trace, "model response missing date field for a day; day skipped")
			ok = false
			continue
		}
		if _, err := time.Parse(types.DateLayout, rawDay.Date); err != nil {
			s.logger.WarnContext(ctx, "Model returned malformed date, skipping day", slog.String("date", rawDay.Date))
			trace = append(trace, fmt.Sprintf("model returned malformed date: %s; day skipped", rawDay.Date))
			ok = false
			continue
		}

		day := types.DailyPlan{Date: rawDay.Date, Items: []types.ResolvedItem{}}
		dayIdx := len(days)

		for _, rawItem := range rawDay.Recommendations {
			poi, found := byContentID[rawItem.ContentID]
			if !found {
				s.logger.WarnContext(ctx, "Model referenced unknown content ID", slog.String("content_id", rawItem.ContentID))
				trace = append(trace, fmt.Sprintf("invalid identifier %s; item dropped", rawItem.ContentID))
				ok = false
				continue
			}

			item := s.resolveItem(ctx, rawItem, poi)

			if poi.Latitude == 0 && poi.Longitude == 0 && s.geocoder != nil {
				lat, lon, found, err := s.geocoder.Coordinates(ctx, poi.Address)
				if err != nil || !found {
					trace = append(trace, fmt.Sprintf("%s: geocoding failed for address %q", poi.Name, poi.Address))
					item.Verification = types.ErrorVerdict("geocoding failed", fmt.Sprintf("address: %s", poi.Address))
					ok = false
					day.Items = append(day.Items, item)
					continue
				}
				item.Latitude, item.Longitude = lat, lon
			}

			if poi.Volatile {
				pending = append(pending, pendingVerification{dayIdx: dayIdx, itemIdx: len(day.Items), poi: poi})
			} else {
				item.Verification = types.TrustedVerdict()
			}
			day.Items = append(day.Items, item)
		}

		days = append(days, day)
	}

	return days, pending, trace, ok
}

// resolveItem merges model narrative with catalog facts. Address, coordinates,
// validity window, operating hours and image always come from the catalog so
// a hallucinating model cannot override them.
func (s *ServiceImpl) resolveItem(ctx context.Context, rawItem rawPlanItem, poi types.PointOfInterest) types.ResolvedItem {
	description := rawItem.Description
	if description == "" {
		description = "No description generated."
	}
	activity := rawItem.Activity
	if activity == "" {
		activity = "No suggested activity."
	}

	item := types.ResolvedItem{
		ContentID:      poi.ContentID,
		Name:           poi.Name,
		Description:    description,
		Activity:       activity,
		Address:        poi.Address,
		Latitude:       poi.Latitude,
		Longitude:      poi.Longitude,
		ImageURL:       poi.ImageURL,
		OperatingHours: poi.OperatingHours,
	}
	if poi.StartDate != nil {
		start := poi.StartDate.Format(types.DateLayout)
		item.StartDate = &start
	}
	if poi.EndDate != nil {
		end := poi.EndDate.Format(types.DateLayout)
		item.EndDate = &end
	}
	return item
}
