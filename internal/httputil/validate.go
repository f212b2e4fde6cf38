package httputil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL checks that a URL is absolute, uses HTTP(S) and names a host.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "https" && scheme != "http" {
		return fmt.Errorf("only HTTP(S) URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// NormalizeURL trims surrounding whitespace and lower-cases the scheme and
// host so that the same page given twice on the command line is fetched once.
// Unparsable input is returned trimmed but otherwise untouched; ValidateURL
// reports it later.
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}
