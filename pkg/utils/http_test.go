package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClientStopsRedirectLoops(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(time.Second)
	_, err := client.Get(srv.URL + "/")
	assert.ErrorContains(t, err, "stopped after 10 redirects")
}

func TestNewHTTPClientDefaultTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewHTTPClient(0).Timeout)
}

func TestCheckStatus(t *testing.T) {
	assert.NoError(t, CheckStatus("http://x", 200))
	assert.NoError(t, CheckStatus("http://x", 204))

	err := CheckStatus("http://x/dashboard", 503)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, 503, statusErr.StatusCode)
	assert.Equal(t, "GET http://x/dashboard: unexpected status 503 Service Unavailable", err.Error())
}
