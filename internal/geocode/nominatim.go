package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// NominatimClient talks to a Nominatim-compatible reverse geocoding endpoint.
type NominatimClient struct {
	BaseURL    string
	UserAgent  string
	Language   string
	httpClient *http.Client
}

// NewNominatimClient creates a reusable Nominatim client. Nominatim's usage
// policy requires an identifying User-Agent on every request.
func NewNominatimClient(baseURL, userAgent, language string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		UserAgent: userAgent,
		Language:  language,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// nominatimResponse is the subset of the /reverse jsonv2 payload we consume.
// Nominatim reports "no result" as a 200 with an error field.
type nominatimResponse struct {
	Error   string `json:"error"`
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		State        string `json:"state"`
		Country      string `json:"country"`
	} `json:"address"`
}

// Reverse performs one reverse geocoding round trip.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (Address, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	if c.Language != "" {
		q.Set("accept-language", c.Language)
	}
	reverseURL := fmt.Sprintf("%s/reverse?%s", c.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reverseURL, nil)
	if err != nil {
		return Address{}, fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("failed to reach geocoder: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Address{}, fmt.Errorf("geocoder returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Address{}, fmt.Errorf("failed to decode geocoder response: %w", err)
	}
	if payload.Error != "" {
		return Address{}, ErrNoMatch
	}

	return Address{
		City:         payload.Address.City,
		Town:         payload.Address.Town,
		Village:      payload.Address.Village,
		Municipality: payload.Address.Municipality,
		State:        payload.Address.State,
		Country:      payload.Address.Country,
	}, nil
}
