package extract

import (
	"regexp"

	"fburl/internal/media"
)

// Both aliases of a src key are accepted; the first occurrence in the page
// wins, whichever alias it uses.
var (
	sdSrcPattern = regexp.MustCompile(`sd_src(?:_no_ratelimit)?:\s*"([^"]+)"`)
	hdSrcPattern = regexp.MustCompile(`hd_src(?:_no_ratelimit)?:\s*"([^"]+)"`)

	// The title runs up to the first '<' after the opening tag.
	titlePattern = regexp.MustCompile(`title id="pageTitle">([^<]+)`)
)

// srcPattern returns the video field pattern for a quality tier.
func srcPattern(q media.Quality) *regexp.Regexp {
	if q == media.SD {
		return sdSrcPattern
	}
	return hdSrcPattern
}

// grep returns the first capture group of re in content.
func grep(re *regexp.Regexp, content string) (string, bool) {
	m := re.FindStringSubmatch(content)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
