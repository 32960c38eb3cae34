package recommendation

import (
	"fmt"
	"strings"

	"github.com/FACorreiaa/go-travel-recommender/internal/types"
)

// buildItineraryPrompt embeds the user constraints and the full candidate
// catalog into one generation request. The model is only allowed to reference
// content IDs present in the candidate block; anything else is dropped during
// reconciliation.
func buildItineraryPrompt(req types.GenerationRequest, candidates []types.PointOfInterest) string {
	var catalog strings.Builder
	for _, poi := range candidates {
		window := "none"
		if poi.StartDate != nil && poi.EndDate != nil {
			window = fmt.Sprintf("%s to %s", poi.StartDate.Format(types.DateLayout), poi.EndDate.Format(types.DateLayout))
		}
		hours := "unknown"
		if poi.OperatingHours != nil {
			hours = *poi.OperatingHours
		}
		catalog.WriteString(fmt.Sprintf("- content_id: %s | name: %s | type: %s | category: %s | address: %s | event window: %s | operating hours: %s\n",
			poi.ContentID, poi.Name, poi.ContentType, poi.CategoryTag, poi.Address, window, hours))
	}

	return fmt.Sprintf(`You are a travel planning expert for South Korea.
Build a day-by-day itinerary for the traveler below, choosing ONLY from the candidate catalog.

[Traveler]
- Region: %s
- Trip length: %d day(s) (%s to %s)
- Age: %d
- Gender: %s
- Interests: %s

[Candidate catalog]
%s
[Instructions]
1. Recommend 2-3 places per day, one entry per day of the trip.
2. Every recommendation MUST reference a content_id from the candidate catalog above. Do not invent places.
3. Write a short description explaining why the place fits this traveler.
4. Suggest a concrete activity at each place.
5. Return STRICTLY a JSON object with this shape and nothing else:
{
    "daily_recommendations": [
        {
            "date": "YYYY-MM-DD",
            "recommendations": [
                {
                    "content_id": "catalog content_id",
                    "name": "place name",
                    "description": "why this place fits the traveler",
                    "activity": "suggested activity at this place"
                }
            ]
        }
    ]
}`,
		req.Region,
		req.DurationDays(),
		req.StartDate.Format(types.DateLayout),
		req.EndDate.Format(types.DateLayout),
		req.Age,
		req.Gender,
		strings.Join(req.Interests, ", "),
		catalog.String(),
	)
}

// buildVerificationPrompt asks the search-grounded capability to re-check one
// volatile catalog entry. All facts handed to the prompt come from the
// catalog record, not from model output.
func buildVerificationPrompt(poi types.PointOfInterest) string {
	startDate, endDate, hours := "N/A", "N/A", "N/A"
	if poi.StartDate != nil {
		startDate = poi.StartDate.Format(types.DateLayout)
	}
	if poi.EndDate != nil {
		endDate = poi.EndDate.Format(types.DateLayout)
	}
	if poi.OperatingHours != nil {
		hours = *poi.OperatingHours
	}

	return fmt.Sprintf(`You are a travel information verification expert.
Verify the place below against live web search results and report your findings as JSON.

[Place under verification]
- Name: %s
- Known start date: %s
- Known end date: %s
- Known operating hours: %s

[What to verify]
1. Current operating status (open, permanently closed, temporarily closed) and whether the place actually exists.
2. Whether the event or festival has already ended or been cancelled.
3. Latest price information (admission, main services).
4. Schedule changes and noteworthy constraints (reservation required, closing days, special events).

[Instructions]
1. Search the web for the latest information about "%s".
2. Answer every verification point; use "no information" when nothing can be found.
3. Score the reliability of your findings from 0 (very low) to 100 (very high) based on the sources, and briefly justify the score.
4. Return STRICTLY a JSON object with this shape and nothing else:
{
    "verification_results": {
        "operating_status": "...",
        "end_or_cancel_status": "...",
        "latest_price_info": "...",
        "schedule_change_and_notes": "..."
    },
    "reliability_score": 100,
    "reliability_reason": "..."
}`,
		poi.Name, startDate, endDate, hours, poi.Name)
}
