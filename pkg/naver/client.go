// Package naver is the HTTP client for the Naver Maps (NCP) and Naver Search
// Open APIs.
package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NERVsystems/navermcp/pkg/cache"
	"github.com/NERVsystems/navermcp/pkg/metrics"
	"github.com/NERVsystems/navermcp/pkg/version"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// API paths, relative to the configured base URLs.
const (
	GeocodePath     = "/map-geocode/v2/geocode"
	DirectionsPath  = "/map-direction/v1/driving"
	LocalSearchPath = "/v1/search/local.json"
)

// Service names used in errors, logs and metrics.
const (
	ServiceGeocode    = "geocode"
	ServiceLocal      = "local"
	ServiceDirections = "directions"
)

const maxErrorBody = 512

// Client talks to the Naver APIs. It is safe for concurrent use.
type Client struct {
	cfg          Config
	httpClient   *http.Client
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[[]byte]
	geocodeCache *cache.TTLCache[GeocodeParams, *GeocodeResponse]
	logger       *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithGeocodeCache sets the geocode response cache; nil disables caching.
func WithGeocodeCache(gc *cache.TTLCache[GeocodeParams, *GeocodeResponse]) Option {
	return func(c *Client) {
		c.geocodeCache = gc
	}
}

// NewClient creates a client after validating cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MapsBaseURL == "" {
		cfg.MapsBaseURL = DefaultMapsBaseURL
	}
	if cfg.OpenAPIBaseURL == "" {
		cfg.OpenAPIBaseURL = DefaultOpenAPIBaseURL
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}

	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			Timeout: cfg.HTTPTimeout,
		},
		limiter:      newLimiter(cfg.RequestsPerSecond),
		geocodeCache: cache.NewTTLCache[GeocodeParams, *GeocodeResponse](cache.DefaultTTL, cache.DefaultMaxItems),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = newBreaker(c.logger)

	return c, nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// newBreaker trips after repeated transport failures or 5xx answers.
// Client-side errors (400, 401, 420) never count against it.
func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "naver",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Temporary()
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

// SearchLocal runs one local search request.
func (c *Client) SearchLocal(ctx context.Context, p LocalSearchParams) (*LocalSearchResponse, error) {
	params := url.Values{}
	params.Set("query", p.Query)
	params.Set("display", fmt.Sprint(p.Display))
	params.Set("start", fmt.Sprint(p.Start))
	if p.Sort != "" {
		params.Set("sort", p.Sort)
	}

	var out LocalSearchResponse
	if err := c.get(ctx, ServiceLocal, c.cfg.OpenAPIBaseURL+LocalSearchPath, params, c.searchHeaders(), &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []LocalItem{}
	}
	return &out, nil
}

// Geocode resolves an address. Results are cached per parameter set.
func (c *Client) Geocode(ctx context.Context, p GeocodeParams) (*GeocodeResponse, error) {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Count <= 0 {
		p.Count = 10
	}
	if p.Language == "" {
		p.Language = LanguageKorean
	}

	if c.geocodeCache != nil {
		if cached, ok := c.geocodeCache.Get(p); ok {
			c.logger.Debug("geocode cache hit", "query", p.Query)
			return cached, nil
		}
	}

	params := url.Values{}
	params.Set("query", p.Query)
	params.Set("language", p.Language)
	params.Set("page", fmt.Sprint(p.Page))
	params.Set("count", fmt.Sprint(p.Count))

	var out GeocodeResponse
	if err := c.get(ctx, ServiceGeocode, c.cfg.MapsBaseURL+GeocodePath, params, c.mapsHeaders(), &out); err != nil {
		return nil, err
	}
	if out.Addresses == nil {
		out.Addresses = []GeocodeAddress{}
	}

	if c.geocodeCache != nil {
		c.geocodeCache.Set(p, &out)
		c.logger.Debug("geocode cached", "query", p.Query, "entries", c.geocodeCache.Count())
	}
	return &out, nil
}

// Directions requests a driving route between two "lon,lat" points.
func (c *Client) Directions(ctx context.Context, p DirectionsParams) (*DirectionsResponse, error) {
	if p.Option == "" {
		p.Option = DirectionOptimal
	}

	params := url.Values{}
	params.Set("start", p.Start)
	params.Set("goal", p.Goal)
	params.Set("option", string(p.Option))
	if p.Language != "" {
		params.Set("lang", p.Language)
	}

	var out DirectionsResponse
	if err := c.get(ctx, ServiceDirections, c.cfg.MapsBaseURL+DirectionsPath, params, c.mapsHeaders(), &out); err != nil {
		return nil, err
	}
	if out.Code != 0 {
		return nil, fmt.Errorf("directions: %s (code %d)", out.Message, out.Code)
	}
	return &out, nil
}

func (c *Client) mapsHeaders() map[string]string {
	return map[string]string{
		"x-ncp-apigw-api-key-id": c.cfg.MapsClientID,
		"x-ncp-apigw-api-key":    c.cfg.MapsClientSecret,
	}
}

func (c *Client) searchHeaders() map[string]string {
	return map[string]string{
		"X-Naver-Client-Id":     c.cfg.SearchClientID,
		"X-Naver-Client-Secret": c.cfg.SearchClientSecret,
	}
}

// get performs a rate limited GET and decodes a 200 response into out.
func (c *Client) get(ctx context.Context, service, endpoint string, params url.Values, headers map[string]string, out any) error {
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%s: invalid endpoint: %w", service, err)
	}
	reqURL.RawQuery = params.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", service, err)
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, service, reqURL.String(), headers)
	})
	metrics.ObserveUpstream(service, outcome(err), time.Since(start))
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%s service temporarily unavailable: %w", service, err)
		}
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		c.logger.Error("failed to decode response", "service", service, "error", err)
		return fmt.Errorf("%s: failed to decode response: %w", service, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, service, reqURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", service, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	c.logger.Debug("calling naver api", "service", service, "url", req.URL.Redacted())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request failed: %w", service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", service, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := NewAPIError(service, resp.StatusCode, errorDetail(resp.StatusCode, body))
		c.logger.Warn("naver api returned error", "service", service, "status", resp.StatusCode, "error", apiErr.Message)
		return nil, apiErr
	}
	return body, nil
}

// errorDetail extracts the message from either error body shape:
// the NCP gateway's {"error": {...}} or the Open API's {"errorMessage": ...}.
func errorDetail(status int, body []byte) string {
	var parsed struct {
		Error struct {
			ErrorCode string `json:"errorCode"`
			Message   string `json:"message"`
			Details   string `json:"details"`
		} `json:"error"`
		ErrorMessage string `json:"errorMessage"`
		ErrorCode    string `json:"errorCode"`
	}

	prefix := fmt.Sprint(status)
	if text := http.StatusText(status); text != "" {
		prefix += " " + text
	}
	if json.Unmarshal(body, &parsed) == nil {
		switch {
		case parsed.Error.Message != "" && parsed.Error.Details != "":
			return fmt.Sprintf("%s: %s (%s)", prefix, parsed.Error.Message, parsed.Error.Details)
		case parsed.Error.Message != "":
			return fmt.Sprintf("%s: %s", prefix, parsed.Error.Message)
		case parsed.ErrorMessage != "":
			return fmt.Sprintf("%s: %s", prefix, parsed.ErrorMessage)
		}
	}

	text := strings.TrimSpace(string(body))
	if text == "" {
		return prefix
	}
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return prefix + ": " + text
}

func outcome(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return metrics.OutcomeCircuitOpen
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case ErrBadRequest:
			return metrics.OutcomeBadRequest
		case ErrAuth:
			return metrics.OutcomeAuth
		case ErrRateLimited:
			return metrics.OutcomeRateLimited
		}
		return metrics.OutcomeUpstream
	default:
		return metrics.OutcomeTransport
	}
}
