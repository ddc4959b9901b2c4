package arcgis

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Config holds the portal connection settings.
type Config struct {
	URL      string
	Username string
	Token    string
	Timeout  time.Duration
	// RateLimit caps portal requests per second across the session. Zero is unlimited.
	RateLimit float64
	// Burst is the number of requests allowed above RateLimit at once. Defaults to 1.
	Burst int
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Session is an authenticated connection to one portal. It is created once
// at startup and shared by all clients. It is safe for concurrent use.
type Session struct {
	base     *url.URL
	username string
	token    string
	http     *http.Client
	limiter  *rate.Limiter
}

// NewSession validates cfg and opens a session.
func NewSession(cfg Config) (*Session, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("portal url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse portal url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("portal url %q must be absolute", cfg.URL)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("portal username is required")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Session{
		base:     base,
		username: cfg.Username,
		token:    cfg.Token,
		http:     hc,
		limiter:  limiter,
	}, nil
}

// Username returns the portal user that owns the session.
func (s *Session) Username() string { return s.username }

// sharingURL builds an absolute URL under {portal}/sharing/rest.
func (s *Session) sharingURL(elem ...string) string {
	segs := make([]string, 0, len(elem))
	for _, e := range elem {
		segs = append(segs, url.PathEscape(e))
	}
	return s.base.String() + "/sharing/rest/" + strings.Join(segs, "/")
}

// params returns the base form values of every request.
func (s *Session) params() url.Values {
	v := url.Values{}
	v.Set("f", "json")
	if s.token != "" {
		v.Set("token", s.token)
	}
	return v
}
