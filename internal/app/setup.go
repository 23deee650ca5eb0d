// Package app wires the product service together from its configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/abgdnv/productcache/internal/cache"
	"github.com/abgdnv/productcache/internal/config"
	"github.com/abgdnv/productcache/internal/service"
	"github.com/abgdnv/productcache/internal/store"
	"github.com/abgdnv/productcache/internal/transport/rest"
	pkgconfig "github.com/abgdnv/productcache/pkg/config"
	"github.com/abgdnv/productcache/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "product"

// Resources are the external connections opened by the caller.
// DB is required for the postgres store and Redis for the redis cache provider.
// Metrics is optional; when set, /metrics exposes it.
type Resources struct {
	DB      *pgxpool.Pool
	Redis   redis.UniversalClient
	Metrics prometheus.Gatherer
}

type Dependencies struct {
	ProductService service.ProductService
	Health         *rest.HealthHandler
	GrpcHealth     *health.Server
	Metrics        prometheus.Gatherer
	MetricsPath    string
	Logger         *slog.Logger
}

// SetupDependencies builds the store, the cache stack and the service for cfg.
func SetupDependencies(cfg *config.Config, res Resources, logger *slog.Logger) (*Dependencies, error) {
	productStore, err := newStore(cfg.Store, res.DB)
	if err != nil {
		return nil, err
	}

	backend, err := newCache(cfg, res.Redis, logger)
	if err != nil {
		return nil, err
	}
	productCache, err := cache.NewProductCache(backend, cache.Options{
		TTL:    cfg.Cache.TTL,
		Prefix: cfg.Cache.Prefix,
		Codec:  cfg.Cache.Codec,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product cache: %w", err)
	}
	logger.Info("Product cache configured", "provider", cfg.Cache.Provider, "ttl", productCache.TTL(), "codec", cfg.Cache.Codec)

	checks := map[string]rest.Check{"cache": productCache.Ping}
	if p, ok := productStore.(interface{ Ping(context.Context) error }); ok {
		checks["store"] = p.Ping
	}

	return &Dependencies{
		ProductService: service.NewService(productStore, productCache, logger),
		Health:         rest.NewHealthHandler(checks, logger),
		GrpcHealth:     health.NewServer(),
		Metrics:        res.Metrics,
		MetricsPath:    cfg.Telemetry.Metrics.Path,
		Logger:         logger,
	}, nil
}

func newStore(cfg pkgconfig.StoreConfig, db *pgxpool.Pool) (store.ProductStore, error) {
	switch cfg.Driver {
	case pkgconfig.StoreDriverMemory:
		return store.NewInMemoryStore(), nil
	case pkgconfig.StoreDriverPostgres, "":
		if db == nil {
			return nil, errors.New("postgres store requires a database pool")
		}
		return store.NewPgStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", cfg.Driver)
	}
}

func newCache(cfg *config.Config, rdb redis.UniversalClient, logger *slog.Logger) (cache.Cache, error) {
	switch cfg.Cache.Provider {
	case pkgconfig.CacheProviderNone:
		return cache.Disabled{}, nil
	case pkgconfig.CacheProviderMemory:
		m, err := cache.NewMemory(cfg.Cache.Memory.MaxSize, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		return m, nil
	case pkgconfig.CacheProviderRedis, "":
		if rdb == nil {
			return nil, errors.New("redis cache requires a redis client")
		}
		var c cache.Cache = cache.NewRedis(rdb)
		if cfg.Resilience.CircuitBreaker.Enabled {
			c = cache.NewBreaker(c, cfg.Resilience.CircuitBreaker, logger)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported cache provider: %s", cfg.Cache.Provider)
	}
}

// SetupHttpHandler initializes the router and routes for the product service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return server.Instrument(ServiceName, mux)
}

// wireRoutes sets up the HTTP routes for the product service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	rest.NewHandler(deps.ProductService, deps.Logger).RegisterRoutes(mux)
	deps.Health.RegisterRoutes(mux)
	if deps.Metrics != nil {
		mux.Handle(deps.MetricsPath, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// SetupHttpServer creates and configures an HTTP server for the product service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {

	handler := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, handler)
}

// SetupGrpcServer creates a gRPC server exposing the standard health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	healthRegisterFunc := func(s *grpc.Server) {
		healthpb.RegisterHealthServer(s, deps.GrpcHealth)
	}
	return server.NewGRPCServer(reflectionEnabled, healthRegisterFunc)
}

// WatchReadiness mirrors the readiness checks into the gRPC health status until ctx is done.
func WatchReadiness(ctx context.Context, deps *Dependencies, interval time.Duration) {
	update := func() {
		status := healthpb.HealthCheckResponse_SERVING
		if failures := deps.Health.Check(ctx); len(failures) > 0 {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		deps.GrpcHealth.SetServingStatus("", status)
	}

	update()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			deps.GrpcHealth.Shutdown()
			return
		case <-ticker.C:
			update()
		}
	}
}
