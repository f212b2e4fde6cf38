// Package httputil provides the shared HTTP client used to fetch video pages
// and the request/URL helpers around it.
package httputil

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// UserAgent disguises requests as IE 9 on Windows 7. The legacy player page
// served to this browser still carries the plain src fields.
const UserAgent = "Mozilla/5.0 (compatible; MSIE 9.0; Windows NT 6.1; Trident/5.0)"

const (
	// DefaultMaxRedirects matches net/http's own default cap.
	DefaultMaxRedirects = 10

	// DefaultMaxBodySize bounds how much of a page is read into memory.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024
)

// ErrRedirectPolicy is returned (wrapped in a *url.Error) when the redirect
// policy stops following a chain.
var ErrRedirectPolicy = errors.New("redirect rejected")

// ErrBodyTooLarge is returned by ReadBody when the response exceeds its limit.
var ErrBodyTooLarge = errors.New("response body too large")

// Options configures NewClient. The zero value means no overall timeout and
// DefaultMaxRedirects.
type Options struct {
	Timeout      time.Duration
	MaxRedirects int
}

// NewClient creates a hardened HTTP client. Compression stays enabled: the
// transport sends Accept-Encoding: gzip itself and transparently decompresses
// the response. The returned client holds no per-request state and is safe
// for concurrent use.
func NewClient(opts Options) *http.Client {
	maxRedirects := opts.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}

	return &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          10,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			DisableCompression:    false,
			MaxIdleConnsPerHost:   5,
			ResponseHeaderTimeout: 20 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: stopped after %d redirects", ErrRedirectPolicy, len(via))
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return fmt.Errorf("%w: unsupported scheme %q", ErrRedirectPolicy, req.URL.Scheme)
			}
			return nil
		},
	}
}

var (
	defaultOnce   sync.Once
	defaultClient *http.Client
)

// Default returns the process-wide client, built on first use with zero
// Options. Callers that need a timeout build their own with NewClient.
func Default() *http.Client {
	defaultOnce.Do(func() {
		defaultClient = NewClient(Options{})
	})
	return defaultClient
}

// Get performs a GET request with the legacy browser identity.
func Get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	if err := ValidateURL(url); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	return client.Do(req)
}

// ReadBody reads the whole response body as UTF-8 text, transcoding from the
// charset declared in the Content-Type header or the document itself.
// A limit <= 0 reads without bound.
func ReadBody(resp *http.Response, limit int64) (string, error) {
	var (
		data []byte
		err  error
	)
	if limit <= 0 {
		data, err = io.ReadAll(resp.Body)
	} else {
		// Read one extra byte to detect overflow.
		data, err = io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err == nil && int64(len(data)) > limit {
			return "", fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, limit)
		}
	}
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	// Undeclared pages that are already valid UTF-8 are kept as is; the
	// detector's windows-1252 fallback would mangle them.
	enc, name, certain := charset.DetermineEncoding(data, resp.Header.Get("Content-Type"))
	if name == "utf-8" || (!certain && utf8.Valid(data)) {
		return string(data), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data), nil
	}
	return string(decoded), nil
}
