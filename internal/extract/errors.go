package extract

import (
	"context"
	"errors"
	"fmt"
	"net"

	"fburl/internal/httputil"
)

// Kind classifies why an extraction failed.
type Kind int

const (
	// Unknown covers transport failures not classified below.
	Unknown Kind = iota
	// Timeout means the fetch did not finish within the transport's budget.
	Timeout
	// Redirect means the redirect policy rejected the chain.
	Redirect
	// InvalidTarget means the URL was unusable, or the page was fetched but
	// carried no recognizable field.
	InvalidTarget
)

func (k Kind) String() string {
	switch k {
	case Timeout:
		return "timeout"
	case Redirect:
		return "redirect"
	case InvalidTarget:
		return "invalid target"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrUnknown       = &Error{Kind: Unknown}
	ErrTimeout       = &Error{Kind: Timeout}
	ErrRedirect      = &Error{Kind: Redirect}
	ErrInvalidTarget = &Error{Kind: InvalidTarget}
)

// Error is returned by every Page operation.
type Error struct {
	Kind Kind
	URL  string // Source page URL
	Err  error  // Underlying cause, nil for extraction misses
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.URL != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.URL)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// classify maps a transport-level failure onto the error taxonomy.
func classify(sourceURL string, err error) *Error {
	kind := Unknown

	var netErr net.Error
	switch {
	case errors.Is(err, httputil.ErrRedirectPolicy):
		kind = Redirect
	case errors.Is(err, context.DeadlineExceeded):
		kind = Timeout
	case errors.As(err, &netErr) && netErr.Timeout():
		kind = Timeout
	}

	return &Error{Kind: kind, URL: sourceURL, Err: err}
}
