package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/four-pillars/internal/common"
	"github.com/Veraticus/four-pillars/internal/model"
	"github.com/Veraticus/four-pillars/internal/service"
)

const serviceName = "nominatim"

// NominatimClient queries the OpenStreetMap Nominatim search API.
type NominatimClient struct {
	httpClient *http.Client
	zones      service.ZoneFinder
	baseURL    string
	userAgent  string
	retry      service.RetryOptions
}

// NominatimOption configures a NominatimClient.
type NominatimOption func(*NominatimClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) NominatimOption {
	return func(n *NominatimClient) { n.httpClient = c }
}

// WithZoneFinder replaces the coordinate to timezone lookup.
func WithZoneFinder(z service.ZoneFinder) NominatimOption {
	return func(n *NominatimClient) { n.zones = z }
}

// WithRetryOptions sets the retry policy for search requests.
func WithRetryOptions(opts service.RetryOptions) NominatimOption {
	return func(n *NominatimClient) { n.retry = opts }
}

// NewNominatimClient creates a client for baseURL identifying itself as userAgent.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration, opts ...NominatimOption) *NominatimClient {
	n := &NominatimClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		zones:      LatLongZones{},
		retry:      service.RetryOptions{MaxAttempts: 2, InitialDelay: 500 * time.Millisecond},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type searchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Lookup returns the best match for place or common.ErrLocationNotFound.
func (n *NominatimClient) Lookup(ctx context.Context, place string) (*model.Location, error) {
	var hits []searchHit
	err := common.WithRetry(ctx, func() error {
		var searchErr error
		hits, searchErr = n.search(ctx, place)
		return searchErr
	}, n.retry)
	if err != nil {
		common.LogWarn("Geocoder request failed", common.Fields{
			"place":     place,
			"transient": common.IsRetryable(err),
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: %w", common.ErrGeocoderUnavailable, err)
	}
	if len(hits) == 0 {
		return nil, fmt.Errorf("%w: %q", common.ErrLocationNotFound, place)
	}

	hit := hits[0]
	lat, err := strconv.ParseFloat(hit.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad latitude %q", common.ErrGeocoderUnavailable, hit.Lat)
	}
	lon, err := strconv.ParseFloat(hit.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad longitude %q", common.ErrGeocoderUnavailable, hit.Lon)
	}

	loc := &model.Location{
		Name:        strings.TrimSpace(place),
		DisplayName: hit.DisplayName,
		Latitude:    lat,
		Longitude:   lon,
		Source:      model.SourceNominatim,
	}
	if zone, ok := n.zones.ZoneFor(lat, lon); ok {
		loc.Timezone = zone
	} else {
		common.LogWarn("No timezone found for coordinates, defaulting to UTC", common.Fields{
			"place":     place,
			"latitude":  lat,
			"longitude": lon,
		})
		loc.Timezone = "UTC"
		loc.TimezoneFallback = true
	}

	common.LogDebug("Geocoded place", common.Fields{
		"place":    place,
		"display":  loc.DisplayName,
		"timezone": loc.Timezone,
	})
	return loc, nil
}

func (n *NominatimClient) search(ctx context.Context, place string) ([]searchHit, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err), Retryable: false}
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := common.StatusError(serviceName, resp.StatusCode); err != nil {
		return nil, err
	}

	var hits []searchHit
	if err := json.NewDecoder(resp.Body).Decode(&hits); err != nil {
		return nil, &common.RetryableError{Err: fmt.Errorf("failed to decode search response: %w", err), Retryable: false}
	}
	return hits, nil
}
