package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"fburl/internal/httputil"
	"fburl/internal/media"
)

const testPage = `<html><head><title id="pageTitle">My Video</title>
<meta property="og:image" content="https://img.example/thumb.jpg"></head>
<body><script>{hd_src_no_ratelimit:"https://video.example/hd.mp4",sd_src:"https://video.example/sd.mp4"}</script></body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Path {
		case "/video":
			w.Write([]byte(testPage))
		case "/other":
			w.Write([]byte(strings.Replace(testPage, "hd.mp4", "other.mp4", 1)))
		default:
			w.Write([]byte("<html>nothing to see</html>"))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testOptions(q media.Quality) fetchOptions {
	return fetchOptions{
		quality:     q,
		client:      httputil.NewClient(httputil.Options{Timeout: 5 * time.Second}),
		maxBodySize: httputil.DefaultMaxBodySize,
	}
}

func TestUniqueURLs(t *testing.T) {
	got := uniqueURLs([]string{
		"https://www.facebook.com/v/1",
		"https://www.facebook.com/v/2",
		"https://WWW.facebook.com/v/1",
		" https://www.facebook.com/v/2 ",
		"",
	})
	want := []string{"https://www.facebook.com/v/1", "https://www.facebook.com/v/2"}

	if len(got) != len(want) {
		t.Fatalf("uniqueURLs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("uniqueURLs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveAll(t *testing.T) {
	srv := newTestServer(t)

	var stdout, stderr bytes.Buffer
	out := newPrinter(&stdout, &stderr, false, false, false)
	urls := []string{srv.URL + "/video", srv.URL + "/other", srv.URL + "/empty", "ftp://example.com/v"}

	resolveAll(context.Background(), urls, testOptions(media.HD), out)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	sort.Strings(lines)
	want := []string{"https://video.example/hd.mp4", "https://video.example/other.mp4"}
	if len(lines) != len(want) || lines[0] != want[0] || lines[1] != want[1] {
		t.Errorf("stdout lines = %q, want %q", lines, want)
	}

	errLines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	if len(errLines) != 2 {
		t.Fatalf("stderr = %q, want 2 error lines", stderr.String())
	}
	for _, l := range errLines {
		if !strings.HasPrefix(l, "Error: invalid target") {
			t.Errorf("stderr line = %q, want 'Error: invalid target' prefix", l)
		}
	}
}

func TestResolveSD(t *testing.T) {
	srv := newTestServer(t)

	v := resolve(context.Background(), srv.URL+"/video", testOptions(media.SD))
	if v.Error != "" {
		t.Fatalf("resolve() error: %s", v.Error)
	}
	if v.URL != "https://video.example/sd.mp4" {
		t.Errorf("URL = %q, want sd.mp4", v.URL)
	}
	if v.Quality != "sd" {
		t.Errorf("Quality = %q, want sd", v.Quality)
	}
	if v.Title != "" {
		t.Errorf("Title = %q, want empty without --title", v.Title)
	}
}

func TestResolveTitleAndMeta(t *testing.T) {
	srv := newTestServer(t)

	opts := testOptions(media.HD)
	opts.title = true
	opts.meta = true
	v := resolve(context.Background(), srv.URL+"/video", opts)

	if v.Title != "My Video" {
		t.Errorf("Title = %q, want My Video", v.Title)
	}
	if v.Thumbnail != "https://img.example/thumb.jpg" {
		t.Errorf("Thumbnail = %q", v.Thumbnail)
	}
}

func TestPrinterTitle(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := newPrinter(&stdout, &stderr, false, true, false)

	p.print(media.Video{URL: "https://video.example/hd.mp4", Title: "My Video"})
	p.print(media.Video{URL: "https://video.example/untitled.mp4"})

	want := "My Video\thttps://video.example/hd.mp4\nhttps://video.example/untitled.mp4\n"
	if stdout.String() != want {
		t.Errorf("stdout = %q, want %q", stdout.String(), want)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty", stderr.String())
	}
}

func TestPrinterJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := newPrinter(&stdout, &stderr, true, false, false)

	p.print(media.Video{Source: "https://www.facebook.com/v/1", Quality: "hd", URL: "https://video.example/hd.mp4"})
	p.print(media.Video{Source: "https://www.facebook.com/v/2", Quality: "hd", Error: "invalid target"})

	dec := json.NewDecoder(&stdout)
	var first, second media.Video
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decoding first record: %v", err)
	}
	if err := dec.Decode(&second); err != nil {
		t.Fatalf("decoding second record: %v", err)
	}
	if first.URL != "https://video.example/hd.mp4" || first.Error != "" {
		t.Errorf("first record = %+v", first)
	}
	if second.Error != "invalid target" || second.URL != "" {
		t.Errorf("second record = %+v", second)
	}
	if stderr.Len() != 0 {
		t.Errorf("stderr = %q, want empty in JSON mode", stderr.String())
	}
}

func TestPrinterColor(t *testing.T) {
	var stdout, stderr bytes.Buffer
	p := newPrinter(&stdout, &stderr, false, false, true)
	p.print(media.Video{Error: "timeout"})

	if !strings.Contains(stderr.String(), "\x1b[") {
		t.Errorf("stderr = %q, want ANSI styling", stderr.String())
	}
	if !strings.Contains(stderr.String(), "Error:") || !strings.HasSuffix(stderr.String(), " timeout\n") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	tests := []struct {
		mode string
		want bool
	}{
		{"always", true},
		{"ALWAYS", true},
		{"never", false},
		{"auto", false}, // not a terminal
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := useColor(tt.mode, &buf); got != tt.want {
				t.Errorf("useColor(%q) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}
