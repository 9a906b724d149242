package generator

import (
	"fmt"
	"strings"
)

// DefaultEndpointURL is embedded when Options.EndpointURL is empty.
const DefaultEndpointURL = "http://example.com/api"

// Options tunes the emitted client. The zero value selects per-target defaults.
type Options struct {
	// EndpointURL is embedded verbatim in the preamble of every target.
	EndpointURL string

	// AuthTokens toggles bearer-token storage and the Authorization header.
	// Nil means Target.DefaultAuthTokens.
	AuthTokens *bool
}

// WithAuthTokens returns a copy of o with auth-token support forced on or off.
func (o Options) WithAuthTokens(enabled bool) Options {
	o.AuthTokens = &enabled
	return o
}

// AuthTokensFor reports the effective auth-token setting for t.
func (o Options) AuthTokensFor(t Target) bool {
	if o.AuthTokens == nil {
		return t.DefaultAuthTokens()
	}
	return *o.AuthTokens
}

func (o Options) resolve(t Target) Options {
	if o.EndpointURL == "" {
		o.EndpointURL = DefaultEndpointURL
	}
	enabled := o.AuthTokensFor(t)
	o.AuthTokens = &enabled
	return o
}

func (o Options) authTokens() bool {
	return o.AuthTokens != nil && *o.AuthTokens
}

func validateEndpointURL(u string) error {
	if strings.TrimSpace(u) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidEndpointURL)
	}
	if !quotable(u) {
		return fmt.Errorf("%w: %q contains quote, backslash or control characters", ErrInvalidEndpointURL, u)
	}
	return nil
}
