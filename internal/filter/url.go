package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrMissingScheme = errors.New("missing scheme")
	ErrMissingHost   = errors.New("missing host")
)

// InvalidURLError explains why an entry's URL is not usable for replay. It
// only drives filtering and is never returned to conversion callers.
type InvalidURLError struct {
	URL string
	Err error
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid url %q: %v", e.URL, e.Err)
}

func (e *InvalidURLError) Unwrap() error {
	return e.Err
}

// parseAbsolute parses raw and requires both a scheme and a host.
func parseAbsolute(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Err: err}
	}
	if u.Scheme == "" {
		return nil, &InvalidURLError{URL: raw, Err: ErrMissingScheme}
	}
	if u.Host == "" {
		return nil, &InvalidURLError{URL: raw, Err: ErrMissingHost}
	}
	return u, nil
}

// normalizeHost lowercases host, strips a trailing dot and converts IDN to
// punycode so "Bücher.example" and "xn--bcher-kva.example" compare equal.
func normalizeHost(host string) (string, error) {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return "", ErrMissingHost
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("normalize host %q: %w", host, err)
	}
	return ascii, nil
}
