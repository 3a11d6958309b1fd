package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Failure classes of a crawl. Per-URL errors wrap one of these so callers can
// branch with Is regardless of how much context was added on the way up.
var (
	ErrNetwork       = errors.New("network error")
	ErrHTTPStatus    = errors.New("http status error")
	ErrExtraction    = errors.New("extraction error")
	ErrConfiguration = errors.New("configuration error")
)

// HTTPStatusError is returned by the fetcher for a non-2xx response.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}

func (e *HTTPStatusError) Unwrap() error {
	return ErrHTTPStatus
}

// New creates a new instance of the base error
func New(msg string) error {
	return fmt.Errorf("%s: %s", msg, filePath())
}

// Wrap creates a new error of the wrapped error
func Wrap(err error, msg string) error {
	return fmt.Errorf("%s %s \ncaused by: %w", msg, filePath(), err)
}

// Mark tags err with one of the failure classes above.
func Mark(err error, class error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", class, err)
}

// Is checks if the error is equal to the target
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As returns the wrapped error
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func Errorf(format string, args ...interface{}) error {
	args = append(args, filePath())
	return fmt.Errorf(format+` %s`, args...)
}

// Kind returns the metrics label for a per-URL failure.
func Kind(err error) string {
	switch {
	case err == nil:
		return `success`
	case Is(err, ErrHTTPStatus):
		return `http_error`
	case Is(err, ErrNetwork):
		return `network_error`
	case Is(err, ErrExtraction):
		return `extraction_error`
	case Is(err, ErrConfiguration):
		return `configuration_error`
	}
	return `unknown_error`
}

func filePath() string {
	pc, f, l, ok := runtime.Caller(2)
	fn := `unknown`
	if ok {
		fn = runtime.FuncForPC(pc).Name()
	}
	return fmt.Sprintf("at %s\n\t%s:%d", fn, f, l)
}
