package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta holds the OpenGraph properties of a video page.
type Meta struct {
	Title    string // og:title
	Image    string // og:image (thumbnail)
	Video    string // og:video, falling back to og:video:url
	URL      string // og:url (canonical page URL)
	SiteName string // og:site_name
}

// Meta parses the OpenGraph tags out of the cached page. Missing properties
// are left empty; only a failed fetch is an error.
func (p *Page) Meta(ctx context.Context) (*Meta, error) {
	content, err := p.body(ctx)
	if err != nil {
		return nil, err
	}
	return parseMeta(content), nil
}

func parseMeta(content string) *Meta {
	m := &Meta{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return m
	}

	props := map[string]string{}
	doc.Find("meta[property^='og:']").Each(func(_ int, s *goquery.Selection) {
		prop, _ := s.Attr("property")
		val := strings.TrimSpace(s.AttrOr("content", ""))
		// Keep the first occurrence of each property.
		if _, seen := props[prop]; !seen && val != "" {
			props[prop] = val
		}
	})

	m.Title = props["og:title"]
	m.Image = props["og:image"]
	m.Video = props["og:video"]
	if m.Video == "" {
		m.Video = props["og:video:url"]
	}
	m.URL = props["og:url"]
	m.SiteName = props["og:site_name"]
	return m
}
