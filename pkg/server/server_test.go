package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abgdnv/productcache/pkg/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestNewHTTPServer(t *testing.T) {
	cfg := HTTPConfig{
		Port:           8080,
		MaxHeaderBytes: 1 << 20,
		ReadTimeout:    time.Second,
		WriteTimeout:   2 * time.Second,
		IdleTimeout:    3 * time.Second,
		ReadHeader:     4 * time.Second,
	}

	srv := NewHTTPServer(cfg, http.NotFoundHandler())

	assert.Equal(t, ":8080", srv.Addr)
	assert.Equal(t, 1<<20, srv.MaxHeaderBytes)
	assert.Equal(t, time.Second, srv.ReadTimeout)
	assert.Equal(t, 2*time.Second, srv.WriteTimeout)
	assert.Equal(t, 3*time.Second, srv.IdleTimeout)
	assert.Equal(t, 4*time.Second, srv.ReadHeaderTimeout)
}

func TestNewChiRouter_SetsRequestID(t *testing.T) {
	r := NewChiRouter(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Instrument("test", r).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(web.RequestIDHeader))
}

func TestNewGRPCServer_RegistersServices(t *testing.T) {
	called := false
	srv := NewGRPCServer(true, func(s *grpc.Server) {
		called = true
		healthpb.RegisterHealthServer(s, health.NewServer())
	})
	defer srv.Stop()

	require.True(t, called)
	info := srv.GetServiceInfo()
	assert.Contains(t, info, "grpc.health.v1.Health")
	assert.Contains(t, info, "grpc.reflection.v1.ServerReflection")
}
