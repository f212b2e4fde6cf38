// Package media defines shared types for the fburl application.
package media

import (
	"fmt"
	"strings"
)

// Quality selects which of the two parallel video fields is extracted.
type Quality int

const (
	SD Quality = iota
	HD
)

// DefaultQuality is used when neither --sd nor --hd is given.
const DefaultQuality = HD

func (q Quality) String() string {
	switch q {
	case SD:
		return "sd"
	case HD:
		return "hd"
	default:
		return "unknown"
	}
}

// ParseQuality converts "sd" or "hd" (any case) into a Quality.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sd":
		return SD, nil
	case "hd":
		return HD, nil
	default:
		return 0, fmt.Errorf("unsupported quality %q (valid: sd, hd)", s)
	}
}

// Video is the resolved result for one source URL, as printed by --json.
type Video struct {
	Source    string `json:"source"`              // Page URL given on the command line
	Quality   string `json:"quality"`             // "sd" or "hd"
	URL       string `json:"url,omitempty"`       // Direct media URL
	Title     string `json:"title,omitempty"`     // Page title (only with --title)
	Thumbnail string `json:"thumbnail,omitempty"` // og:image, when present
	Error     string `json:"error,omitempty"`     // Failure description
}
