package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webcache/internal/infrastructure/config"
	"github.com/GriffinCanCode/webcache/internal/infrastructure/logging"
	"github.com/GriffinCanCode/webcache/internal/infrastructure/sysinfo"
)

func stubProbe(t *testing.T, profile sysinfo.Profile, err error) *int {
	t.Helper()
	calls := 0
	orig := probe
	probe = func() (sysinfo.Profile, error) {
		calls++
		return profile, err
	}
	t.Cleanup(func() { probe = orig })
	return &calls
}

func testServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	srv, err := newServer(cfg, logging.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)
	t.Cleanup(srv.cache.Close)
	return srv
}

func get(srv *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestNewServerProbesDefaults(t *testing.T) {
	calls := stubProbe(t, sysinfo.Profile{PhysicalMB: 512, GlobalSizeLimit: 16 << 20, LowEndDevice: true}, nil)

	srv := testServer(t, config.Default())

	assert.Equal(t, 1, *calls)
	assert.Equal(t, uint64(16<<20), srv.cache.GlobalSizeLimit())
}

func TestNewServerConfiguredValuesSkipProbe(t *testing.T) {
	calls := stubProbe(t, sysinfo.Profile{}, nil)

	cfg := config.Default()
	cfg.Cache.GlobalSizeLimit = 4 << 20
	cfg.Cache.LowEndDevice = "false"
	srv := testServer(t, cfg)

	assert.Equal(t, 0, *calls)
	assert.Equal(t, uint64(4<<20), srv.cache.GlobalSizeLimit())
}

func TestNewServerProbeFailureUsesBaseSize(t *testing.T) {
	stubProbe(t, sysinfo.Profile{GlobalSizeLimit: sysinfo.BaseCacheSize}, errors.New("no /proc"))

	srv := testServer(t, config.Default())
	assert.Equal(t, uint64(sysinfo.BaseCacheSize), srv.cache.GlobalSizeLimit())
}

func TestNewServerRejectsBadLowEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.LowEndDevice = "sometimes"

	_, err := newServer(cfg, logging.NewNop(), prometheus.NewRegistry())
	assert.Error(t, err)
}

func TestServerRoutes(t *testing.T) {
	stubProbe(t, sysinfo.Profile{GlobalSizeLimit: 32 << 20}, nil)
	srv := testServer(t, config.Default())

	assert.Equal(t, http.StatusOK, get(srv, "/health").Code)
	assert.Equal(t, http.StatusOK, get(srv, "/cache").Code)

	w := get(srv, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "webcache_global_size_limit_bytes 3.3554432e+07")
	assert.Contains(t, w.Body.String(), `webcache_http_requests_total{method="GET",path="/health",status="200"} 1`)
}
