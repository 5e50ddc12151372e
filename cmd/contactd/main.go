// Command contactd serves the contacts API: CRUD and search over a
// contact list with auto-generated documentation on /docs and /redoc.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbaumer/contactd/internal/api"
	"github.com/mbaumer/contactd/internal/config"
	"github.com/mbaumer/contactd/internal/info"
	"github.com/mbaumer/contactd/internal/metrics"
	"github.com/mbaumer/contactd/internal/probe"
	"github.com/mbaumer/contactd/internal/responder"
	"github.com/mbaumer/contactd/internal/router"
	"github.com/mbaumer/contactd/internal/store"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
	mongoConnectWait  = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	contactStore, readinessChecks, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialise contact store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	openapiDoc, err := api.LoadOpenAPIDoc()
	if err != nil {
		logger.Error("failed to load openapi document", "error", err)
		os.Exit(1)
	}

	resp := responder.New(
		responder.WithLogger(logger),
		responder.WithErrorClassifier(api.ErrorClassifier),
	)

	requestMetrics := metrics.New()
	apiServer := api.NewServer(contactStore, resp)

	mux := router.New(
		apiServer.Routes(),
		router.WithLogger(logger),
		router.WithOpenAPIDoc(openapiDoc),
		router.WithConfig(router.Config{
			Timeout:         time.Duration(cfg.TimeoutSeconds) * time.Second,
			QuietdownRoutes: []string{"/status", "/healthz", "/readyz", "/metrics"},
			HideHeaders:     []string{"Authorization"},
			CORS: router.CORSConfig{
				Origins: cfg.CORSOrigins,
				Methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
				Headers: []string{"Content-Type"},
			},
		}),
		router.WithMiddlewares(requestMetrics.Middleware()),
	)

	infoHandler := info.NewHandler(
		info.WithResponder(resp),
		info.WithVersionProvider(func() any {
			return map[string]string{"version": version, "commit": commit}
		}),
		info.WithOpenAPIProvider(api.OpenAPIDocument),
		info.WithReadinessChecks(readinessChecks...),
	)

	// Exact patterns take precedence over the "/" catch-all, so these
	// endpoints bypass the API middleware chain.
	mux.HandleFunc("GET /status", infoHandler.GetStatus)
	mux.HandleFunc("GET /healthz", infoHandler.GetHealthz)
	mux.HandleFunc("GET /readyz", infoHandler.GetReadyz)
	mux.HandleFunc("GET /version", infoHandler.GetVersion)
	mux.HandleFunc("GET /openapi.json", infoHandler.GetOpenAPIJSON)
	mux.HandleFunc("GET /docs", infoHandler.GetDocsHTML)
	mux.HandleFunc("GET /redoc", infoHandler.GetRedocHTML)
	mux.Handle("GET /metrics", requestMetrics.Handler())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", cfg.Addr, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// buildStore constructs the configured backend together with its
// readiness checks and a cleanup function for shutdown.
func buildStore(ctx context.Context, cfg *config.Config) (store.Store, []info.ProbeFunc, func(), error) {
	switch cfg.StoreBackend {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, mongoConnectWait)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, nil, err
		}

		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), mongoConnectWait)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}

		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		checks := []info.ProbeFunc{probe.NewMongoPingProbe(client, nil)}
		return store.NewMongo(coll), checks, cleanup, nil

	default:
		var opts []store.MemoryOption
		if cfg.SnapshotPath != "" {
			opts = append(opts, store.WithSnapshotFile(cfg.SnapshotPath))
		}
		memory, err := store.NewMemory(opts...)
		if err != nil {
			return nil, nil, nil, err
		}
		return memory, nil, func() {}, nil
	}
}
