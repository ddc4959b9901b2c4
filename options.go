package webmaps

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	portalURL  string
	username   string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	rateLimit  float64
	burst      int

	driver   string
	addrs    []string
	password string
	cacheTTL time.Duration

	excludedFields []string
	itemType       string
	logger         *zap.Logger
}

// WithPortal sets the portal base URL, e.g. https://gis.example.com/portal.
func WithPortal(url string) Option {
	return func(c *clientConfig) {
		c.portalURL = url
	}
}

// WithCredentials sets the portal user and its access token.
func WithCredentials(username, token string) Option {
	return func(c *clientConfig) {
		c.username = username
		c.token = token
	}
}

// WithTimeout bounds every portal request.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the HTTP client used for portal requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithRateLimit caps portal requests per second, allowing burst at once.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *clientConfig) {
		c.rateLimit = perSecond
		c.burst = burst
	}
}

// WithMemoryCache caches layer schemas in process memory.
func WithMemoryCache() Option {
	return func(c *clientConfig) {
		c.driver = "memory"
		c.addrs = nil
	}
}

// WithValkey caches layer schemas in Valkey.
func WithValkey(addrs ...string) Option {
	return func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = addrs
	}
}

// WithRedis caches layer schemas in Redis.
func WithRedis(addrs ...string) Option {
	return func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = addrs
	}
}

// WithCachePassword sets the cache store password.
func WithCachePassword(password string) Option {
	return func(c *clientConfig) {
		c.password = password
	}
}

// WithCacheTTL sets how long cached schemas live.
func WithCacheTTL(d time.Duration) Option {
	return func(c *clientConfig) {
		c.cacheTTL = d
	}
}

// WithExcludedFields replaces the system fields left out of popup descriptions.
func WithExcludedFields(fields ...string) Option {
	return func(c *clientConfig) {
		c.excludedFields = fields
	}
}

// WithItemType sets the portal type of project collections (default "Feature Layer").
func WithItemType(itemType string) Option {
	return func(c *clientConfig) {
		c.itemType = itemType
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
