// Package webmaps creates ArcGIS web maps with synthesized popups.
package webmaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/db"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/db/memory"
	dbRedis "github.com/kkalanta/CreateWebMapsWithPopups/internal/db/redis"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/domain"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/metrics"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/repository/schemacache"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/transport/arcgis"
	popupuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/popup"
	schemauc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/schema"
	webmapuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/webmap"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = 5 * time.Minute
)

// Errors returned by CreateWebMap; test with errors.Is.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrInvariantViolation = domain.ErrInvariantViolation
	ErrInvalidArgument    = domain.ErrInvalidArgument
	ErrPortal             = domain.ErrPortal
)

// Result describes a saved web map.
type Result struct {
	WebMapID string
	Popups   []Popup
}

// Popup reports the popup built for one map layer.
type Popup struct {
	Layer string
	// Kind is "hosted" or "registered".
	Kind string
	// UnmatchedFields lists popup fields without a schema field; they keep no format.
	UnmatchedFields []string
}

// Client is the webmaps SDK entry point.
type Client struct {
	store    db.Store
	portal   *arcgis.Client
	workflow *webmapuc.Service
}

// New opens a portal session, connects the optional schema cache and wires the workflow.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{cacheTTL: defaultCacheTTL}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if cfg.portalURL == "" {
		return nil, errors.New("webmaps: portal url required (use WithPortal)")
	}

	session, err := arcgis.NewSession(arcgis.Config{
		URL:        cfg.portalURL,
		Username:   cfg.username,
		Token:      cfg.token,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		RateLimit:  cfg.rateLimit,
		Burst:      cfg.burst,
	})
	if err != nil {
		return nil, fmt.Errorf("webmaps: %w", err)
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}
	if store != nil {
		if err := store.WaitForReady(context.Background(), defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("webmaps: cache not ready: %w", err)
		}
	}

	return wireClient(session, store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "":
		return nil, nil
	case "memory":
		return memory.NewStore(cfg.cacheTTL), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			ForceRESP2: cfg.driver == "redis",
		})
		if err != nil {
			return nil, fmt.Errorf("webmaps: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("webmaps: unknown driver %q", cfg.driver)
	}
}

func wireClient(session *arcgis.Session, store db.Store, cfg *clientConfig) *Client {
	portal := arcgis.NewClient(session, cfg.logger)

	var source schemauc.Source = portal
	if store != nil {
		source = schemacache.New(portal, store, cfg.cacheTTL, metrics.SchemaCacheTotal, cfg.logger)
	}

	synth := popupuc.New(schemauc.New(source, cfg.logger), cfg.excludedFields, cfg.logger)
	return &Client{
		store:    store,
		portal:   portal,
		workflow: webmapuc.New(portal, synth, cfg.itemType, cfg.logger),
	}
}

// CreateWebMap publishes the properties of project's feature layer collection
// and saves a web map over its layers with popups for layerNames.
func (c *Client) CreateWebMap(ctx context.Context, project string, layerNames []string, tags ...string) (Result, error) {
	res, err := c.workflow.Create(ctx, webmapuc.Request{
		Project:    project,
		LayerNames: layerNames,
		Tags:       tags,
	})
	if err != nil {
		return Result{}, fmt.Errorf("webmaps: %w", err)
	}

	popups := make([]Popup, len(res.Popups))
	for i, p := range res.Popups {
		unmatched := make([]string, len(p.Unmatched))
		for j, u := range p.Unmatched {
			unmatched[j] = u.FieldName
		}
		popups[i] = Popup{Layer: p.Layer, Kind: p.Kind.String(), UnmatchedFields: unmatched}
	}
	return Result{WebMapID: res.WebMapID, Popups: popups}, nil
}

// Ping checks portal availability and, when configured, the cache.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.portal.HealthCheck(ctx); err != nil {
		return fmt.Errorf("webmaps: %w", err)
	}
	if c.store != nil {
		if err := c.store.Ping(ctx); err != nil {
			return fmt.Errorf("webmaps: cache: %w", err)
		}
	}
	return nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}
