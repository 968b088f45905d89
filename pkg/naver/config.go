package naver

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvMapsClientID       = "NAVER_MAPS_CLIENT_ID"
	EnvMapsClientSecret   = "NAVER_MAPS_CLIENT_SECRET"
	EnvSearchClientID     = "NAVER_CLIENT_ID"
	EnvSearchClientSecret = "NAVER_CLIENT_SECRET"
	EnvMapsBaseURL        = "NAVER_MAPS_BASE_URL"
	EnvOpenAPIBaseURL     = "NAVER_OPENAPI_BASE_URL"
	EnvRequestsPerSecond  = "NAVER_REQUESTS_PER_SECOND"
	EnvHTTPTimeout        = "NAVER_HTTP_TIMEOUT"
)

const (
	// DefaultMapsBaseURL serves geocoding and directions (NCP API gateway).
	DefaultMapsBaseURL = "https://maps.apigw.ntruss.com"

	// DefaultOpenAPIBaseURL serves local search.
	DefaultOpenAPIBaseURL = "https://openapi.naver.com"

	DefaultRequestsPerSecond = 10.0
	DefaultHTTPTimeout       = 10 * time.Second
)

// Config holds credentials and endpoints for the Naver APIs.
type Config struct {
	MapsClientID       string
	MapsClientSecret   string
	SearchClientID     string
	SearchClientSecret string

	MapsBaseURL    string
	OpenAPIBaseURL string

	// RequestsPerSecond caps outgoing calls; zero or negative disables the limiter.
	RequestsPerSecond float64
	HTTPTimeout       time.Duration
}

// ConfigFromEnv reads the configuration from the process environment.
// Missing credentials yield a *ConfigError.
func ConfigFromEnv() (Config, error) {
	return configFromLookup(os.LookupEnv)
}

func configFromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return v
	}

	cfg := Config{
		MapsClientID:       get(EnvMapsClientID),
		MapsClientSecret:   get(EnvMapsClientSecret),
		SearchClientID:     get(EnvSearchClientID),
		SearchClientSecret: get(EnvSearchClientSecret),
		MapsBaseURL:        DefaultMapsBaseURL,
		OpenAPIBaseURL:     DefaultOpenAPIBaseURL,
		RequestsPerSecond:  DefaultRequestsPerSecond,
		HTTPTimeout:        DefaultHTTPTimeout,
	}

	if v := get(EnvMapsBaseURL); v != "" {
		cfg.MapsBaseURL = v
	}
	if v := get(EnvOpenAPIBaseURL); v != "" {
		cfg.OpenAPIBaseURL = v
	}
	if v := get(EnvRequestsPerSecond); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, &ConfigError{Err: fmt.Errorf("%s: %w", EnvRequestsPerSecond, err)}
		}
		cfg.RequestsPerSecond = rps
	}
	if v := get(EnvHTTPTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, &ConfigError{Err: fmt.Errorf("%s: %w", EnvHTTPTimeout, err)}
		}
		cfg.HTTPTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every missing credential at once.
func (c Config) Validate() error {
	var missing []string
	if c.MapsClientID == "" {
		missing = append(missing, EnvMapsClientID)
	}
	if c.MapsClientSecret == "" {
		missing = append(missing, EnvMapsClientSecret)
	}
	if c.SearchClientID == "" {
		missing = append(missing, EnvSearchClientID)
	}
	if c.SearchClientSecret == "" {
		missing = append(missing, EnvSearchClientSecret)
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}
