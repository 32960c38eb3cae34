package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client resolves free-text places to coordinates through the Kakao local
// keyword search API.
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type keywordSearchResponse struct {
	Documents []struct {
		X string `json:"x"` // longitude
		Y string `json:"y"` // latitude
	} `json:"documents"`
}

// Coordinates looks the query up and returns the first match. found=false
// with a nil error means the service answered but knows no such place.
func (c *Client) Coordinates(ctx context.Context, query string) (lat, lon float64, found bool, err error) {
	endpoint := fmt.Sprintf("%s/v2/local/search/keyword.json?query=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, false, fmt.Errorf("failed to build geocode request: %w", err)
	}
	req.Header.Set("Authorization", "KakaoAK "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, false, fmt.Errorf("geocode request returned status %d", resp.StatusCode)
	}

	var payload keywordSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, 0, false, fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(payload.Documents) == 0 {
		c.logger.DebugContext(ctx, "Geocode lookup returned no documents", slog.String("query", query))
		return 0, 0, false, nil
	}

	lat, err = strconv.ParseFloat(payload.Documents[0].Y, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("malformed latitude in geocode response: %w", err)
	}
	lon, err = strconv.ParseFloat(payload.Documents[0].X, 64)
	if err != nil {
		return 0, 0, false, fmt.Errorf("malformed longitude in geocode response: %w", err)
	}
	return lat, lon, true, nil
}
