package httpclient

import (
	"fmt"
	"net/http"
	"strings"
)

// Error is the single failure kind surfaced by transport helpers. Network
// failures, non-2xx statuses and undecodable bodies all end up here.
type Error struct {
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

// Error returns the human readable message.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "http failure"
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// CheckStatus returns an *Error for any non-2xx response.
func CheckStatus(url string, resp Response) error {
	if resp == nil {
		return &Error{Message: fmt.Sprintf("Http failure response for %s: no response", url)}
	}
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	msg := fmt.Sprintf("Http failure response for %s: %d %s", url, code, http.StatusText(code))
	return &Error{StatusCode: code, Message: strings.TrimSpace(msg)}
}

// Wrap converts an arbitrary transport error into an *Error.
func Wrap(url string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Message: fmt.Sprintf("Http failure response for %s: %v", url, err), Err: err}
}
