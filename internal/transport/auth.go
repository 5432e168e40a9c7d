package transport

import (
	"net/http"
	"strings"

	"github.com/agentstation/ansync/pkg/errors"
)

// Authenticator sets the LCD credentials on an outgoing request. Public
// endpoints need none; hosted RPC providers take the key as a bearer token,
// a header or a query parameter.
type Authenticator func(req *http.Request, apiKey string)

// NoAuth leaves requests untouched.
func NoAuth(*http.Request, string) {}

// BearerAuth sends the key as a bearer token.
func BearerAuth(req *http.Request, apiKey string) {
	req.Header.Set("Authorization", "Bearer "+apiKey)
}

// HeaderAuth sends the key in the named header.
func HeaderAuth(name string) Authenticator {
	return func(req *http.Request, apiKey string) {
		req.Header.Set(name, apiKey)
	}
}

// QueryAuth sends the key as the named query parameter.
func QueryAuth(param string) Authenticator {
	return func(req *http.Request, apiKey string) {
		if req.URL == nil {
			return
		}
		q := req.URL.Query()
		q.Set(param, apiKey)
		req.URL.RawQuery = q.Encode()
	}
}

// ParseAuthenticator builds an Authenticator from its config form:
// "" or "none", "bearer", "header:<name>" or "query:<param>".
func ParseAuthenticator(s string) (Authenticator, error) {
	scheme, arg, _ := strings.Cut(s, ":")
	switch strings.ToLower(scheme) {
	case "", "none":
		return NoAuth, nil
	case "bearer":
		return BearerAuth, nil
	case "header", "query":
		if arg == "" {
			return nil, errors.NewValidationError("lcd_auth", s, scheme+" auth needs a name, as in "+scheme+":<name>")
		}
		if scheme == "header" {
			return HeaderAuth(arg), nil
		}
		return QueryAuth(arg), nil
	default:
		return nil, errors.NewValidationError("lcd_auth", s, "unknown auth scheme")
	}
}
