package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kkalanta/CreateWebMapsWithPopups/internal/config"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/db"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/db/memory"
	dbRedis "github.com/kkalanta/CreateWebMapsWithPopups/internal/db/redis"
	logpkg "github.com/kkalanta/CreateWebMapsWithPopups/internal/logger"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/metrics"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/repository/schemacache"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/transport/arcgis"
	chiTransport "github.com/kkalanta/CreateWebMapsWithPopups/internal/transport/chi"
	healthuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/health"
	popupuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/popup"
	schemauc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/schema"
	webmapuc "github.com/kkalanta/CreateWebMapsWithPopups/internal/usecase/webmap"
	"github.com/kkalanta/CreateWebMapsWithPopups/internal/version"
)

func main() {
	// A local .env fills in ${VAR} references; real environment variables win.
	_ = godotenv.Load()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting webmapper API server",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("portal_url", cfg.Portal.URL),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterMetrics()

	ctx := context.Background()

	// Cache store is optional; nil disables the schema cache.
	store, err := newStore(ctx, cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
		logger.Info("Connected to cache", zap.String("driver", cfg.Cache.Driver), zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// One portal session for the process
	session, err := arcgis.NewSession(arcgis.Config{
		URL:       cfg.Portal.URL,
		Username:  cfg.Portal.Username,
		Token:     cfg.Portal.Token,
		Timeout:   cfg.Portal.Timeout(),
		RateLimit: cfg.Portal.RateLimit,
		Burst:     cfg.Portal.Burst,
	})
	if err != nil {
		logger.Fatal("Failed to open portal session", zap.Error(err))
	}
	portal := arcgis.NewClient(session, logger)

	// Schema lookups go through the cache when one is configured
	var source schemauc.Source = portal
	if store != nil {
		source = schemacache.New(portal, store, cfg.Cache.TTL(), metrics.SchemaCacheTotal, logger)
	}

	resolver := schemauc.New(source, logger)
	synth := popupuc.New(resolver, cfg.Popup.ExcludedFields, logger)
	webmapSvc := webmapuc.New(portal, synth, cfg.Popup.ItemType, logger)

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(portal, cachePinger)

	server := chiTransport.NewServer(webmapSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newStore connects the schema cache store for the configured driver.
// It returns nil for driver "none".
func newStore(ctx context.Context, cfg config.CacheConfig) (db.Store, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if cfg.Driver == config.CacheMemory {
		return memory.NewStore(cfg.TTL()), nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
		// Redis deployments behind older proxies reject HELLO; Valkey speaks RESP3.
		ForceRESP2: cfg.Driver == config.CacheRedis,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	return store, nil
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Services pick this logger up through logpkg.FromContextOr
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
