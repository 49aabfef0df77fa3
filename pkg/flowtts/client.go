package flowtts

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultEndpoint is the FlowTTS API host.
	DefaultEndpoint = "trtc.ai.tencentcloudapi.com"

	// DefaultRegion is the region requests are signed for.
	DefaultRegion = "ap-beijing"

	// DefaultModel is the synthesis model.
	DefaultModel = "flow_01_turbo"

	// DefaultMaxTextLength is the character limit per request.
	DefaultMaxTextLength = 2000

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 120 * time.Second

	// signService is the service name used in TC3 credential scopes.
	signService = "trtc"
)

// Config holds the provider constants a Client works with. A Client keeps
// its own copy; changing a Config after NewClient has no effect.
type Config struct {
	// Endpoint is the API host.
	Endpoint string

	// BaseURL overrides the URL derived from Endpoint, e.g. for tests.
	BaseURL string

	// Region is the Tencent Cloud region.
	Region string

	// Model is the synthesis model name.
	Model string

	// MaxTextLength is the maximum text length in characters.
	MaxTextLength int
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Endpoint:      DefaultEndpoint,
		Region:        DefaultRegion,
		Model:         DefaultModel,
		MaxTextLength: DefaultMaxTextLength,
	}
}

// Credentials are the caller's own Tencent Cloud credentials.
type Credentials struct {
	SecretID  string
	SecretKey string
	SdkAppID  int64
}

// Client is the FlowTTS API client.
type Client struct {
	config     Config
	creds      Credentials
	httpClient *http.Client
	classifier *Classifier
	now        func() time.Time
}

// Option is a function that configures the client.
type Option func(*Client)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Client) {
		c.config = cfg
	}
}

// WithEndpoint sets the API host.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		c.config.Endpoint = endpoint
	}
}

// WithBaseURL sets a full base URL, overriding the endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.config.BaseURL = url
	}
}

// WithRegion sets the region.
func WithRegion(region string) Option {
	return func(c *Client) {
		c.config.Region = region
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// NewClient creates a FlowTTS client that signs requests with creds.
//
// Example:
//
//	client := flowtts.NewClient(flowtts.Credentials{
//	    SecretID:  id,
//	    SecretKey: key,
//	    SdkAppID:  1400000000,
//	})
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		config: DefaultConfig(),
		creds:  creds,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.config.MaxTextLength <= 0 {
		c.config.MaxTextLength = DefaultMaxTextLength
	}
	if c.httpClient == nil {
		// Per-request deadlines come from the request context.
		c.httpClient = &http.Client{}
	}
	c.classifier = NewClassifier(creds.SecretID, creds.SecretKey)

	return c
}

// Config returns a copy of the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Classifier returns the classifier used for this client's faults.
func (c *Client) Classifier() *Classifier {
	return c.classifier
}

func (c *Client) baseURL() string {
	if c.config.BaseURL != "" {
		return strings.TrimRight(c.config.BaseURL, "/") + "/"
	}
	return "https://" + c.config.Endpoint + "/"
}

func (c *Client) signer() tc3Signer {
	return tc3Signer{
		secretID:  c.creds.SecretID,
		secretKey: c.creds.SecretKey,
		service:   signService,
	}
}
