package errors

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
)

func TestNewError(t *testing.T) {
	e := New("sample error message")
	if e == nil {
		t.Errorf("expected non-nil error but got nil")
		return
	}

	errString := e.Error()
	match, err := regexp.Match(`^sample error message: at .*TestNewError`, []byte(errString))
	if err != nil {
		t.Error(err)
		return
	}

	if !match {
		t.Errorf("expected %q to carry the call site", errString)
	}
}

func TestNewEmbeddedError(t *testing.T) {
	errOne := New("sample error message one")
	errTwo := Wrap(errOne, "sample error message two")

	er := errors.Unwrap(errTwo)
	if er != errOne {
		t.Errorf("expected %v to be equal to %v", er, errOne)
	}
}

func TestFilePath(t *testing.T) {
	path := filePath()

	if path == "" {
		t.Fatalf("expected non-empty string but got empty string")
	}

	pattern := `^at testing.tRunner.*`
	match, err := regexp.Match(pattern, []byte(path))
	if err != nil {
		t.Error(err)
	}

	if !match {
		t.Fatalf("expected %q to match %q", path, pattern)
	}
}

func TestMark(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(Mark(cause, ErrNetwork), `failed to fetch`)

	if !Is(err, ErrNetwork) {
		t.Errorf("expected %v to be a network error", err)
	}
	if !Is(err, cause) {
		t.Errorf("expected %v to keep its cause", err)
	}
	if Mark(nil, ErrNetwork) != nil {
		t.Errorf("expected marking a nil error to stay nil")
	}
}

func TestHTTPStatusError(t *testing.T) {
	var err error = &HTTPStatusError{URL: "http://example.com", StatusCode: 404}
	err = fmt.Errorf("fetch: %w", err)

	if !Is(err, ErrHTTPStatus) {
		t.Fatalf("expected %v to be an http status error", err)
	}

	var statusErr *HTTPStatusError
	if !As(err, &statusErr) {
		t.Fatalf("expected As to find *HTTPStatusError")
	}
	if statusErr.StatusCode != 404 {
		t.Errorf("status code = %d; want 404", statusErr.StatusCode)
	}
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, `success`},
		{Mark(errors.New("timeout"), ErrNetwork), `network_error`},
		{&HTTPStatusError{StatusCode: 500}, `http_error`},
		{Wrap(Mark(errors.New("bad"), ErrExtraction), `extract`), `extraction_error`},
		{ErrConfiguration, `configuration_error`},
		{errors.New("other"), `unknown_error`},
	}

	for _, tc := range cases {
		if got := Kind(tc.err); got != tc.want {
			t.Errorf("Kind(%v) = %q; want %q", tc.err, got, tc.want)
		}
	}
}
