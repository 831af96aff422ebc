package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Result is one best-effort geocoding hit.
type Result struct {
	Label string  `json:"display_name"`
	Lat   float64 `json:"lat,string"`
	Lng   float64 `json:"lon,string"`
}

// Client queries the Nominatim HTTP API. Lookups are best effort:
// every failure maps to an empty, ok=false result and never reaches
// the pricing or reservation path.
type Client struct {
	baseURL      string
	userAgent    string
	countryCodes string
	http         *http.Client
}

func NewClient(baseURL, userAgent, countryCodes string) *Client {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}
	return &Client{
		baseURL:      baseURL,
		userAgent:    userAgent,
		countryCodes: countryCodes,
		http:         &http.Client{Timeout: 8 * time.Second},
	}
}

// Search resolves free-text to candidate coordinates.
func (c *Client) Search(ctx context.Context, query string) ([]Result, bool) {
	params := url.Values{
		"q":              {query},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
		"limit":          {"6"},
	}
	if c.countryCodes != "" {
		params.Set("countrycodes", c.countryCodes)
	}

	var results []Result
	if err := c.getJSON(ctx, "/search", params, &results); err != nil {
		return nil, false
	}
	return results, true
}

// Reverse resolves coordinates to an address label.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (string, bool) {
	params := url.Values{
		"lat":            {formatCoord(lat)},
		"lon":            {formatCoord(lng)},
		"format":         {"jsonv2"},
		"addressdetails": {"1"},
	}

	var out struct {
		DisplayName string `json:"display_name"`
	}
	if err := c.getJSON(ctx, "/reverse", params, &out); err != nil {
		return "", false
	}
	return out.DisplayName, true
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(out)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
