package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/webcache/internal/api/http"
	"github.com/GriffinCanCode/webcache/internal/api/middleware"
	"github.com/GriffinCanCode/webcache/internal/domain/registry"
	"github.com/GriffinCanCode/webcache/internal/domain/webcache"
	"github.com/GriffinCanCode/webcache/internal/infrastructure/config"
	"github.com/GriffinCanCode/webcache/internal/infrastructure/logging"
	"github.com/GriffinCanCode/webcache/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webcache/internal/infrastructure/sysinfo"
)

// shutdownTimeout bounds how long in-flight requests may run during Close
const shutdownTimeout = 5 * time.Second

// probe is swapped in tests
var probe = sysinfo.Probe

// Server wraps the HTTP server and dependencies
type Server struct {
	router    *gin.Engine
	http      *http.Server
	cache     *webcache.Manager
	processes *registry.Manager
	logger    *logging.Logger
	config    *config.Config
	metrics   *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newServer(cfg, logger, prometheus.NewRegistry())
}

func newServer(cfg *config.Config, logger *logging.Logger, reg *prometheus.Registry) (*Server, error) {
	lowEnd, lowEndSet, err := cfg.Cache.LowEnd()
	if err != nil {
		return nil, err
	}

	// Probe the host only for values left to auto
	limit := cfg.Cache.GlobalSizeLimit
	if limit == 0 || !lowEndSet {
		profile, err := probe()
		if err != nil {
			logger.Warn("Failed to read physical memory, using base cache size", zap.Error(err))
		}
		if limit == 0 {
			limit = profile.GlobalSizeLimit
		}
		if !lowEndSet {
			lowEnd = profile.LowEndDevice
		}
		logger.Info("Probed host memory",
			zap.Uint64("physical_mb", profile.PhysicalMB),
			zap.Bool("low_end_device", profile.LowEndDevice),
		)
	}

	logger.Info("Initializing cache manager",
		zap.String("port", cfg.Server.Port),
		zap.String("global_size_limit", humanize.IBytes(limit)),
		zap.Duration("inactive_threshold", cfg.Cache.InactiveThreshold),
		zap.Duration("revise_delay", cfg.Cache.ReviseDelay),
		zap.Bool("low_end_device", lowEnd),
	)

	// Initialize metrics first (needed by the manager)
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.NewMetrics(reg)

	processes := registry.NewManager(cfg.Cache.OutboxSize, logger.Logger)
	cache := webcache.NewManager(webcache.Options{
		Host:              processes,
		Logger:            logger.Logger,
		Reporter:          metrics,
		GlobalSizeLimit:   limit,
		InactiveThreshold: cfg.Cache.InactiveThreshold,
		ReviseDelay:       cfg.Cache.ReviseDelay,
		LowEndDevice:      lowEnd,
	})
	processes.WithLifecycle(cache)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.Logger))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	admin := router.Group("/")
	bridge := router.Group("/")
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst

		admin.Use(middleware.RateLimit(limits))
		limits.Key = middleware.ProcessKey
		bridge.Use(middleware.RateLimit(limits))
	}

	handlers := api.NewHandlers(cache, processes, logger.Logger)
	handlers.RegisterAdmin(admin)
	handlers.RegisterBridge(bridge)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	logger.Info("Server initialized successfully")

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		router:    router,
		http:      httpServer,
		cache:     cache,
		processes: processes,
		logger:    logger,
		config:    cfg,
		metrics:   metrics,
	}, nil
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until it stops
func (s *Server) Run() error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	// Stop pending revisions before the bridge goes away
	s.cache.Close()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		return fmt.Errorf("failed to shut down http server: %w", err)
	}

	// Sync logger before exit
	_ = s.logger.Sync()

	return nil
}
