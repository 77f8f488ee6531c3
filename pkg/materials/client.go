package materials

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the Materials Project API base URL.
	DefaultBaseURL = "https://api.materialsproject.org"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default maximum number of retries.
	DefaultMaxRetries = 3

	// DefaultBackoff is the delay before the first retry; it doubles on
	// every further attempt.
	DefaultBackoff = time.Second
)

// Client is the Materials Project API client.
type Client struct {
	// Phonon provides phonon band structure and DOS lookups.
	Phonon *PhononService

	// Summary provides material summary lookups.
	Summary *SummaryService

	config *clientConfig
	http   *httpClient
}

type clientConfig struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetry sets the maximum number of retries for transient errors.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) {
		c.maxRetries = maxRetries
	}
}

// WithBackoff sets the delay before the first retry.
func WithBackoff(d time.Duration) Option {
	return func(c *clientConfig) {
		c.backoff = d
	}
}

// NewClient creates a new Materials Project API client.
//
//	client := materials.NewClient("your-api-key")
//	client := materials.NewClient("your-api-key", materials.WithTimeout(60*time.Second))
func NewClient(apiKey string, opts ...Option) *Client {
	cfg := &clientConfig{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		backoff:    DefaultBackoff,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}

	c := &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}
	c.Phonon = &PhononService{client: c}
	c.Summary = &SummaryService{client: c}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}

// BandStructure implements Source.
func (c *Client) BandStructure(ctx context.Context, id string) (*BandStructure, error) {
	return c.Phonon.BandStructure(ctx, id)
}

// DOS implements Source.
func (c *Client) DOS(ctx context.Context, id string) (*DOS, error) {
	return c.Phonon.DOS(ctx, id)
}

// Formula implements Source.
func (c *Client) Formula(ctx context.Context, id string) (string, error) {
	return c.Summary.Formula(ctx, id)
}

var _ Source = (*Client)(nil)
