package fetch

import (
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"
)

// Client fetches listing pages from the bazaar feed.
type Client struct {
	baseURL    string
	httpClient *http.Client
	extractor  RowExtractor
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new feed client. baseURL is the bazaar search root,
// e.g. "https://hiroba.example.jp/sc/search/bazaar".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		extractor: NewTableExtractor(time.UTC, nil),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client. The session jar is not carried
// over; install cookies after the client is built.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithExtractor sets the row extractor for the site template.
func WithExtractor(ex RowExtractor) ClientOption {
	return func(c *Client) {
		c.extractor = ex
	}
}

// WithSession installs credentialed session cookies on the client's jar.
// The session itself is acquired externally (interactive login); the client
// only consumes it.
func WithSession(s SessionCookies) ClientOption {
	return func(c *Client) {
		if c.httpClient.Jar == nil {
			return
		}
		u, err := url.Parse(c.baseURL)
		if err != nil {
			return
		}
		c.httpClient.Jar.SetCookies(u, s.toCookies())
	}
}
