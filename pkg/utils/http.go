// Package utils provides common utility functions used across uicheck.
// This file specifically implements HTTP-related utilities including a common
// HTTP client with consistent configuration.
package utils

import (
	"fmt"
	"net/http"
	"time"
)

// MaxRedirects is the number of redirects a page load may follow
const MaxRedirects = 10

// NewHTTPClient returns an HTTP client bounded by timeout that follows at most
// MaxRedirects redirects. A zero timeout falls back to 30 seconds.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", MaxRedirects)
			}
			return nil
		},
	}
}

// StatusError reports a page load answered with a non-2xx status
type StatusError struct {
	StatusCode int
	URL        string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// CheckStatus returns a *StatusError when code is outside the 2xx range
func CheckStatus(url string, code int) error {
	if code < 200 || code > 299 {
		return &StatusError{StatusCode: code, URL: url}
	}
	return nil
}
