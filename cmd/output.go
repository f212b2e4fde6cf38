package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"fburl/internal/media"
)

// printer writes results: video URLs to stdout, failures to stderr, or one
// JSON object per result to stdout in --json mode.
// It is only used from a single goroutine.
type printer struct {
	stdout io.Writer
	stderr io.Writer
	json   bool
	title  bool

	errorPrefix string
}

func newPrinter(stdout, stderr io.Writer, jsonOut, title, color bool) *printer {
	p := &printer{
		stdout:      stdout,
		stderr:      stderr,
		json:        jsonOut,
		title:       title,
		errorPrefix: "Error:",
	}
	if color {
		r := lipgloss.NewRenderer(stderr)
		r.SetColorProfile(termenv.ANSI)
		p.errorPrefix = r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true).Render("Error:")
	}
	return p
}

func (p *printer) print(v media.Video) {
	if p.json {
		if err := json.NewEncoder(p.stdout).Encode(v); err != nil {
			fmt.Fprintf(p.stderr, "%s encoding result: %v\n", p.errorPrefix, err)
		}
		return
	}

	if v.Error != "" {
		fmt.Fprintf(p.stderr, "%s %s\n", p.errorPrefix, v.Error)
		return
	}

	if p.title && v.Title != "" {
		fmt.Fprintf(p.stdout, "%s\t%s\n", v.Title, v.URL)
		return
	}
	fmt.Fprintln(p.stdout, v.URL)
}

// useColor decides whether stderr output is styled. "auto" styles only a
// terminal, and honours NO_COLOR.
func useColor(mode string, w io.Writer) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
