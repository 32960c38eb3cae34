package types

import (
	"time"

	"github.com/google/uuid"
)

// PointOfInterest is one row of the trusted catalog for a region.
// Factual fields (address, coordinates, validity window, operating hours)
// always come from here, never from model output. Immutable once fetched
// for a request.
type PointOfInterest struct {
	ID             uuid.UUID  `json:"id"`
	ContentID      string     `json:"content_id"` // stable identifier within a region
	Name           string     `json:"name"`
	Region         string     `json:"region"`
	Address        string     `json:"address"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	ContentType    string     `json:"content_type"` // attraction, restaurant, festival...
	CategoryTag    string     `json:"category_tag"` // interest matching tag, e.g. "food_market"
	ImageURL       *string    `json:"image_url,omitempty"`
	Volatile       bool       `json:"is_variable"` // true => live verification required
	StartDate      *time.Time `json:"start_date,omitempty"` // festival/event validity window
	EndDate        *time.Time `json:"end_date,omitempty"`
	OperatingHours *string    `json:"operating_hours,omitempty"`
	LastRefreshed  time.Time  `json:"last_refreshed"`
}

// CatalogFilter narrows a candidate lookup to one request's constraints.
type CatalogFilter struct {
	Region    string
	Interests []string
	StartDate time.Time
	EndDate   time.Time
}
