// Package extract leaks the direct video URL and title out of a video page
// by fetching its markup once and searching it for the player's src fields.
package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"fburl/internal/httputil"
	"fburl/internal/media"
)

// Page is one extraction request: a source URL, the quality tier wanted and
// the page body, fetched lazily on first use and kept for the Page's lifetime.
type Page struct {
	url     string
	quality media.Quality

	client      *http.Client
	maxBodySize int64

	mu      sync.Mutex
	fetched bool
	content string
}

// Option customizes a Page.
type Option func(*Page)

// WithClient sets the HTTP client used for the fetch. The client may be
// shared between pages.
func WithClient(c *http.Client) Option {
	return func(p *Page) {
		if c != nil {
			p.client = c
		}
	}
}

// WithMaxBodySize bounds how many bytes of the page are read. Zero or less
// reads the whole body.
func WithMaxBodySize(n int64) Option {
	return func(p *Page) {
		p.maxBodySize = n
	}
}

// New creates a Page. No network I/O happens until VideoURL, Title or Meta
// is called.
func New(url string, quality media.Quality, opts ...Option) *Page {
	p := &Page{
		url:         url,
		quality:     quality,
		client:      httputil.Default(),
		maxBodySize: httputil.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// URL returns the source page URL.
func (p *Page) URL() string { return p.url }

// Quality returns the requested quality tier.
func (p *Page) Quality() media.Quality { return p.quality }

// VideoURL returns the direct video URL (usually an mp4) for the configured
// quality.
func (p *Page) VideoURL(ctx context.Context) (string, error) {
	content, err := p.body(ctx)
	if err != nil {
		return "", err
	}
	src, ok := grep(srcPattern(p.quality), content)
	if !ok {
		return "", &Error{
			Kind: InvalidTarget,
			URL:  p.url,
			Err:  fmt.Errorf("no %s_src field in page", p.quality),
		}
	}
	return src, nil
}

// Title returns the page title. The quality tier plays no part in it.
func (p *Page) Title(ctx context.Context) (string, error) {
	content, err := p.body(ctx)
	if err != nil {
		return "", err
	}
	title, ok := grep(titlePattern, content)
	if !ok {
		return "", &Error{
			Kind: InvalidTarget,
			URL:  p.url,
			Err:  errors.New("no pageTitle element in page"),
		}
	}
	return title, nil
}

// body returns the cached page content, fetching it on first use. A failed
// fetch caches nothing, so the next call tries again; a successful one is
// never repeated.
func (p *Page) body(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fetched {
		return p.content, nil
	}

	content, err := p.fetch(ctx)
	if err != nil {
		return "", err
	}
	p.content = content
	p.fetched = true
	return p.content, nil
}

func (p *Page) fetch(ctx context.Context) (string, error) {
	if err := httputil.ValidateURL(p.url); err != nil {
		return "", &Error{Kind: InvalidTarget, URL: p.url, Err: err}
	}

	resp, err := httputil.Get(ctx, p.client, p.url)
	if err != nil {
		return "", classify(p.url, err)
	}
	defer resp.Body.Close()

	// Any status counts as a fetched page: error pages simply carry no
	// src field and fail extraction.
	content, err := httputil.ReadBody(resp, p.maxBodySize)
	if err != nil {
		return "", classify(p.url, err)
	}
	return content, nil
}
