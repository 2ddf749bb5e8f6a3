package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	c := New(Options{Timeout: 15 * time.Second})

	assert.Equal(t, 15*time.Second, c.Timeout())
	assert.Equal(t, defaultMaxRedirects, c.maxRedirects)
	assert.True(t, c.blockPrivateIP)
}

func TestValidateURL(t *testing.T) {
	c := New(Options{Timeout: time.Second})

	tests := []struct {
		name        string
		url         string
		errContains string
	}{
		{name: "https", url: "https://api.openf1.org/v1/meetings?year=2023"},
		{name: "http", url: "http://example.com"},
		{name: "file scheme", url: "file:///etc/passwd", errContains: "scheme"},
		{name: "ftp scheme", url: "ftp://example.com", errContains: "scheme"},
		{name: "localhost", url: "http://localhost/v1", errContains: "localhost"},
		{name: "localhost subdomain", url: "http://api.localhost/", errContains: "localhost"},
		{name: "loopback", url: "http://127.0.0.1/", errContains: "private IP"},
		{name: "rfc1918", url: "http://192.168.1.10/", errContains: "private IP"},
		{name: "metadata", url: "http://169.254.169.254/latest", errContains: "private IP"},
		{name: "credentials", url: "http://user@example.com/", errContains: "credentials"},
		{name: "no host", url: "http:///v1", errContains: "hostname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.ValidateURL(tt.url)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestAllowPrivatePermitsLoopback(t *testing.T) {
	c := New(Options{Timeout: time.Second, AllowPrivate: true})

	_, err := c.ValidateURL("http://127.0.0.1:8080/v1")
	assert.NoError(t, err)
}

func TestGet(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`[{"year":2023}]`))
	}))
	defer srv.Close()

	c := New(Options{Timeout: 5 * time.Second, UserAgent: "paddock-test", AllowPrivate: true})

	resp, err := c.Get(context.Background(), srv.URL+"/meetings")
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `[{"year":2023}]`, string(resp.Body))
	assert.Equal(t, "paddock-test", gotUA)
	assert.Equal(t, "application/json", gotAccept)

	resp, err = c.Get(context.Background(), srv.URL+"/missing")
	require.NoError(t, err, "HTTP status codes are not transport errors")
	assert.Equal(t, http.StatusNotFound, resp.Status)
	assert.False(t, resp.OK())
}

func TestGetBlocksLoopbackByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	}))
	defer srv.Close()

	c := New(Options{Timeout: time.Second})
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestGetRedirectLimit(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	c := New(Options{Timeout: time.Second, AllowPrivate: true, MaxRedirects: 2})
	_, err := c.Get(context.Background(), srv.URL+"/r")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 2 redirects")
}

func TestGetHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(Options{Timeout: 5 * time.Second, AllowPrivate: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, srv.URL)
	assert.Error(t, err)
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip      string
		private bool
	}{
		{"10.1.2.3", true},
		{"172.20.0.1", true},
		{"172.32.0.1", false},
		{"192.168.0.1", true},
		{"127.0.0.1", true},
		{"169.254.169.254", true},
		{"8.8.8.8", false},
		{"::1", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"2606:4700::1111", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.private, isPrivateIP(net.ParseIP(tt.ip)))
		})
	}
}
