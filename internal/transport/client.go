package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/ansync/pkg/constants"
	"github.com/agentstation/ansync/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	apiKey string
}

// Option configures a Client.
type Option func(*Client)

// WithAuth applies auth with apiKey to every request. An empty key disables
// authentication.
func WithAuth(auth Authenticator, apiKey string) Option {
	return func(c *Client) {
		if auth != nil {
			c.auth = auth
		}
		c.apiKey = apiKey
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{Timeout: DefaultHTTPTimeout},
		auth: NoAuth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.apiKey != "" {
		c.auth(req, c.apiKey)
	}

	// Set common headers
	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, contextError(ctxErr)
		}
		return nil, errors.WrapAPI(req.URL.Redacted(), 0, err)
	}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(req)
}

// GetJSON performs a GET request and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	return DecodeResponse(resp, target)
}

// maxErrorBody bounds how much of an error response is kept in the error.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into target and closes the body.
// Any status other than 200 becomes an *errors.APIError carrying the start
// of the body, where the LCD puts its error message.
func DecodeResponse(resp *http.Response, target any) error {
	defer func() { _ = resp.Body.Close() }()

	endpoint := "unknown"
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.URL.Redacted()
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.NewAPIError(endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return errors.WrapIO("read", endpoint, err)
		}
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}

func contextError(err error) error {
	switch err {
	case context.DeadlineExceeded:
		return errors.Join(errors.ErrTimeout, err)
	case context.Canceled:
		return errors.Join(errors.ErrCanceled, err)
	default:
		return err
	}
}
