// Package openf1 implements the provider capabilities over the OpenF1 REST API.
//
// Every request is a GET returning a JSON array. Responses are decoded with key
// order preserved, throttled with a token bucket and, when a cache is attached,
// stored by URL so later runs over the same concluded sessions hit no network.
package openf1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/internal/httpclient"
	"github.com/teranos/paddock/logger"
	"github.com/teranos/paddock/provider"
	"github.com/teranos/paddock/provider/cache"
	"github.com/teranos/paddock/recordset"
)

// DefaultBaseURL is the public OpenF1 endpoint.
const DefaultBaseURL = "https://api.openf1.org/v1"

// Config holds client settings.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int // <= 0 disables throttling
	UserAgent         string
	AllowPrivate      bool // allow loopback/private base URLs
}

// ResponseCache stores raw responses by URL. *cache.Store implements it.
type ResponseCache interface {
	Get(ctx context.Context, url string) (*cache.Entry, error)
	Put(ctx context.Context, url string, status int, body []byte) error
}

var _ provider.Provider = (*Client)(nil)

// Client talks to OpenF1.
type Client struct {
	baseURL string
	http    *httpclient.Client
	limiter *rate.Limiter
	cache   ResponseCache
	logger  *zap.SugaredLogger
	now     func() time.Time
}

// New creates a client. store may be nil to disable response caching.
func New(cfg Config, store ResponseCache, log *zap.SugaredLogger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60.0)
	}

	return &Client{
		baseURL: base,
		http: httpclient.New(httpclient.Options{
			Timeout:      cfg.Timeout,
			UserAgent:    cfg.UserAgent,
			AllowPrivate: cfg.AllowPrivate,
		}),
		limiter: rate.NewLimiter(limit, 1),
		cache:   store,
		logger:  log,
		now:     time.Now,
	}
}

// statusError is a non-2xx provider response.
type statusError struct {
	status int
	url    string
	detail string
}

func (e *statusError) Error() string {
	msg := http.StatusText(e.status)
	if e.detail != "" {
		msg = e.detail
	}
	return "openf1 " + e.url + ": " + msg
}

// get fetches one endpoint as a record set. A 404 (OpenF1's answer for "no
// rows match") is returned as an error marked errors.ErrNotFound.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, cacheable bool) (*recordset.Set, error) {
	u := c.baseURL + "/" + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if c.cache != nil && cacheable {
		entry, err := c.cache.Get(ctx, u)
		switch {
		case err == nil:
			c.logger.Debugw("Provider response", logger.FieldURL, u, logger.FieldStatus, entry.Status, logger.FieldCached, true)
			return decode(entry.Body, u)
		case !errors.IsNotFound(err):
			c.logger.Warnw("Response cache read failed", logger.FieldURL, u, logger.FieldError, err)
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}

	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	c.logger.Debugw("Provider response",
		logger.FieldURL, u,
		logger.FieldStatus, resp.Status,
		logger.FieldCached, false,
		logger.FieldDurationMS, resp.Duration.Milliseconds(),
	)

	if !resp.OK() {
		serr := &statusError{status: resp.Status, url: endpoint, detail: detailOf(resp.Body)}
		if resp.Status == http.StatusNotFound {
			return nil, errors.Mark(serr, errors.ErrNotFound)
		}
		return nil, serr
	}

	set, err := decode(resp.Body, u)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && cacheable {
		if err := c.cache.Put(ctx, u, resp.Status, resp.Body); err != nil {
			c.logger.Warnw("Response cache write failed", logger.FieldURL, u, logger.FieldError, err)
		}
	}
	return set, nil
}

// getOptional is get with "no rows" mapped to an empty set.
func (c *Client) getOptional(ctx context.Context, endpoint string, query url.Values, cacheable bool) (*recordset.Set, error) {
	set, err := c.get(ctx, endpoint, query, cacheable)
	if errors.IsNotFound(err) {
		return recordset.New(nil), nil
	}
	return set, err
}

func decode(body []byte, u string) (*recordset.Set, error) {
	set, err := recordset.DecodeJSON(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", u)
	}
	return set, nil
}

// detailOf extracts OpenF1's {"detail": "..."} error message, if any.
func detailOf(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
