package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fburl/internal/extract"
	"fburl/internal/httputil"
	"fburl/internal/media"
)

// fetchOptions carries what every page resolution needs.
type fetchOptions struct {
	quality     media.Quality
	title       bool
	meta        bool
	client      *http.Client
	maxBodySize int64
}

// fetchRun is the default command: fburl <url>...
// Individual failures are printed, never returned, so the exit status is
// zero whenever the arguments and configuration were valid.
func fetchRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	opts := fetchOptions{
		quality: cfg.QualityTier(),
		title:   flagTitle || flagJSON,
		meta:    flagJSON,
		client: httputil.NewClient(httputil.Options{
			Timeout:      cfg.TimeoutDuration(),
			MaxRedirects: cfg.MaxRedirects,
		}),
		maxBodySize: cfg.MaxBodySize,
	}

	stderr := cmd.ErrOrStderr()
	out := newPrinter(cmd.OutOrStdout(), stderr, flagJSON, flagTitle, useColor(cfg.Color, stderr))

	urls := uniqueURLs(args)
	log.Debug().Int("urls", len(urls)).Int("given", len(args)).Msg("resolving")
	resolveAll(ctx, urls, opts, out)
	return nil
}

// uniqueURLs drops repeated URLs, keeping first-seen order.
func uniqueURLs(args []string) []string {
	seen := make(map[string]bool, len(args))
	var urls []string
	for _, arg := range args {
		u := httputil.NormalizeURL(arg)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}

// resolveAll resolves every URL concurrently, one Page each, and prints each
// result as soon as it is ready.
func resolveAll(ctx context.Context, urls []string, opts fetchOptions, out *printer) {
	results := make(chan media.Video)

	var wg sync.WaitGroup
	for _, u := range urls {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			results <- resolve(ctx, u, opts)
		}(u)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for v := range results {
		out.print(v)
	}
}

// resolve fetches one page and extracts what the options ask for. The video
// URL decides success; title and metadata are best effort.
func resolve(ctx context.Context, rawURL string, opts fetchOptions) media.Video {
	start := time.Now()
	v := media.Video{Source: rawURL, Quality: opts.quality.String()}

	page := extract.New(rawURL, opts.quality,
		extract.WithClient(opts.client),
		extract.WithMaxBodySize(opts.maxBodySize),
	)

	src, err := page.VideoURL(ctx)
	if err != nil {
		log.Debug().Err(err).Str("url", rawURL).Dur("elapsed", time.Since(start)).Msg("extraction failed")
		v.Error = err.Error()
		return v
	}
	v.URL = src

	if opts.title {
		title, err := page.Title(ctx)
		if err != nil {
			log.Debug().Err(err).Str("url", rawURL).Msg("no title")
		} else {
			v.Title = title
		}
	}

	if opts.meta {
		if m, err := page.Meta(ctx); err == nil {
			v.Thumbnail = m.Image
			if v.Title == "" {
				v.Title = m.Title
			}
		}
	}

	log.Debug().Str("url", rawURL).Str("video", src).Dur("elapsed", time.Since(start)).Msg("resolved")
	return v
}
