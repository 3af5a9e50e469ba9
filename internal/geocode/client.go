package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"golang.org/x/time/rate"
)

// MaxResults is the fixed result limit requested from the search service.
const MaxResults = 5

// Client is a Searcher backed by a Nominatim-compatible HTTP endpoint.
// Requests are rate limited to one per second, the usage policy of the
// public instances.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a client for a search endpoint such as
// https://nominatim.openstreetmap.org/search.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// nominatimPlace matches the service's wire format, which carries numbers
// as strings.
type nominatimPlace struct {
	PlaceID     int64     `json:"place_id"`
	DisplayName string    `json:"display_name"`
	Lat         string    `json:"lat"`
	Lon         string    `json:"lon"`
	Class       string    `json:"class"`
	Type        string    `json:"type"`
	Importance  float64   `json:"importance"`
	BoundingBox [4]string `json:"boundingbox"` // south, north, west, east
}

// Search queries the service and converts results to Places. Entries with
// unparsable coordinates are skipped.
func (c *Client) Search(ctx context.Context, query string) ([]Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searching %q: unexpected status %s", query, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	var raw []nominatimPlace
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	places := make([]Place, 0, len(raw))
	for _, r := range raw {
		p, err := r.toPlace()
		if err != nil {
			continue
		}
		places = append(places, p)
	}
	return places, nil
}

func (r nominatimPlace) toPlace() (Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("lon %q: %w", r.Lon, err)
	}

	var box [4]float64 // south, north, west, east
	for i, s := range r.BoundingBox {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Place{}, fmt.Errorf("boundingbox[%d] %q: %w", i, s, err)
		}
		box[i] = v
	}

	return Place{
		ID:         r.PlaceID,
		Name:       r.DisplayName,
		Point:      orb.Point{lon, lat},
		Bound:      orb.Bound{Min: orb.Point{box[2], box[0]}, Max: orb.Point{box[3], box[1]}},
		Class:      r.Class,
		Type:       r.Type,
		Importance: r.Importance,
	}, nil
}
