package notesdk

import (
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// SDKClient talks to the notes backend. Session calls ride on the cookie jar
// of HTTPClient; notes calls go through the Executor with a bearer token.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	tokens *TokenProvider
	exec   *Executor
}

// Option configures an SDKClient.
type Option func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	tokenOpts  []TokenProviderOption
}

// WithHTTPClient uses a copy of hc. A cookie jar is attached if hc has none,
// since the session lives in a cookie.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// WithTokenOptions configures the client's TokenProvider.
func WithTokenOptions(opts ...TokenProviderOption) Option {
	return func(c *clientConfig) { c.tokenOpts = append(c.tokenOpts, opts...) }
}

// NewSDKClient creates a client for the backend at baseURL.
func NewSDKClient(baseURL string, opts ...Option) *SDKClient {
	cfg := clientConfig{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	hc := *cfg.httpClient
	if hc.Jar == nil {
		// cookiejar.New never returns a non-nil error.
		jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		hc.Jar = jar
	}

	c := &SDKClient{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &hc,
	}
	c.tokens = NewTokenProvider(c, cfg.tokenOpts...)
	c.exec = NewExecutor(c, c.tokens)
	return c
}

// Tokens exposes the credential cache, mainly for diagnostics and tests.
func (c *SDKClient) Tokens() *TokenProvider { return c.tokens }

// Executor exposes the authorized request executor for protected calls the
// typed methods do not cover.
func (c *SDKClient) Executor() *Executor { return c.exec }
