package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for every date in requests, prompts and responses.
const DateLayout = "2006-01-02"

// RecommendationRequest is the JSON body of POST /recommendations.
// Dates arrive as "YYYY-MM-DD" strings and are validated in the handler.
type RecommendationRequest struct {
	Region    string   `json:"region"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Interests []string `json:"interests"`
}

// GenerationRequest is the validated form handed to the pipeline.
// Invariant: StartDate <= EndDate.
type GenerationRequest struct {
	Region    string
	StartDate time.Time
	EndDate   time.Time
	Age       int
	Gender    string
	Interests []string
}

// DurationDays is the inclusive length of the requested trip.
func (r GenerationRequest) DurationDays() int {
	return int(r.EndDate.Sub(r.StartDate).Hours()/24) + 1
}

// VerificationVerdict is the structured outcome of one live verification,
// or one of the two policy constructions (trusted / failed).
type VerificationVerdict struct {
	OperatingStatus     string `json:"operating_status"`
	EndOrCancelStatus   string `json:"end_or_cancel_status"`
	LatestPriceInfo     string `json:"latest_price_info"`
	ScheduleChangeNotes string `json:"schedule_change_and_notes"`
	ReliabilityScore    int    `json:"reliability_score"` // 0-100
	ReliabilityReason   string `json:"reliability_reason"`
}

// ErrorVerdict marks an item whose verification task errored or timed out.
func ErrorVerdict(reason, notes string) *VerificationVerdict {
	return &VerificationVerdict{
		OperatingStatus:     "verification failed",
		EndOrCancelStatus:   "no information",
		LatestPriceInfo:     "no information",
		ScheduleChangeNotes: notes,
		ReliabilityScore:    0,
		ReliabilityReason:   reason,
	}
}

// TrustedVerdict marks a non-volatile item that never needed a live check.
func TrustedVerdict() *VerificationVerdict {
	return &VerificationVerdict{
		OperatingStatus:     "trusted",
		EndOrCancelStatus:   "not applicable",
		LatestPriceInfo:     "no information",
		ScheduleChangeNotes: "no information",
		ReliabilityScore:    100,
		ReliabilityReason:   "non-volatile, catalog-sourced",
	}
}

// ResolvedItem is a model suggestion reconciled against the catalog.
// Narrative fields (description, activity) come from the model; everything
// factual is copied from the matching PointOfInterest.
type ResolvedItem struct {
	ContentID      string               `json:"content_id"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Activity       string               `json:"activity"`
	Address        string               `json:"address"`
	Latitude       float64              `json:"latitude"`
	Longitude      float64              `json:"longitude"`
	ImageURL       *string              `json:"image_url,omitempty"`
	StartDate      *string              `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate        *string              `json:"end_date,omitempty"`
	OperatingHours *string              `json:"operating_hours,omitempty"`
	Verification   *VerificationVerdict `json:"verification_details,omitempty"`
}

// DailyPlan is one day of the itinerary, items in model-given order.
type DailyPlan struct {
	Date  string         `json:"date"` // YYYY-MM-DD
	Items []ResolvedItem `json:"recommendations"`
}

// PlanResponse is the final answer of the pipeline.
type PlanResponse struct {
	DailyPlans  []DailyPlan `json:"daily_recommendations"`
	VerifiedOK  bool        `json:"is_verified_success"`
	TraceLog    []string    `json:"agent_search_log"`
	TotalTokens int32       `json:"total_tokens,omitempty"`
}

// InteractionLog is the persisted record of one pipeline run (ai_log table).
type InteractionLog struct {
	ID          uuid.UUID       `json:"log_id"`
	RequestTime time.Time       `json:"request_time"`
	UserInput   json.RawMessage `json:"user_input_json"`
	AIResponse  json.RawMessage `json:"ai_response_json"`
	TotalTokens *int32          `json:"total_tokens,omitempty"`
	TraceLog    string          `json:"agent_search_log"`
	VerifiedOK  bool            `json:"is_verified_success"`
}
