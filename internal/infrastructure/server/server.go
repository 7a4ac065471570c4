package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"
	"golang.org/x/net/netutil"

	apihttp "github.com/GriffinCanCode/fsagent/internal/api/http"
	"github.com/GriffinCanCode/fsagent/internal/api/middleware"
	"github.com/GriffinCanCode/fsagent/internal/api/ws"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/logging"
	"github.com/GriffinCanCode/fsagent/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsagent/internal/mcpserver"
	"github.com/GriffinCanCode/fsagent/internal/planner"
	"github.com/GriffinCanCode/fsagent/internal/providers/filesystem"
	"github.com/GriffinCanCode/fsagent/internal/sandbox"
	"github.com/GriffinCanCode/fsagent/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the transports and their dependencies
type Server struct {
	config     *config.Config
	logger     *logging.Logger
	metrics    *monitoring.Metrics
	root       *sandbox.Root
	registry   *service.Registry
	dispatcher *service.Dispatcher
	commander  *service.Commander
	planner    *planner.Gemini
	mcp        *mcpserver.Server
	router     *gin.Engine
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger, version string) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	rootDir, err := cfg.RootDir()
	if err != nil {
		return nil, err
	}
	root, err := sandbox.New(rootDir)
	if err != nil {
		return nil, fmt.Errorf("invalid FS_ROOT: %w", err)
	}
	logger.Info("Initializing fsagent",
		zap.String("root", root.Dir()),
		zap.String("transport", cfg.Transport.Mode),
	)

	metrics := monitoring.NewMetrics()

	registry := service.NewRegistry()
	if err := registry.Register(filesystem.NewProvider(filesystem.NewOps(root, logger))); err != nil {
		return nil, fmt.Errorf("register filesystem provider: %w", err)
	}
	logger.Info("Registered service providers", zap.Any("stats", registry.Stats()))

	dispatcher := service.NewDispatcher(registry, service.DispatchConfig{
		Timeout:       cfg.Dispatch.Timeout,
		MaxConcurrent: cfg.Dispatch.MaxConcurrent,
	}, logger, metrics)

	gemini := planner.NewGemini(planner.Config{
		APIKey:            cfg.Planner.APIKey,
		Model:             cfg.Planner.Model,
		BaseURL:           cfg.Planner.BaseURL,
		Temperature:       cfg.Planner.Temperature,
		Timeout:           cfg.Planner.Timeout,
		MaxRetries:        cfg.Planner.MaxRetries,
		RequestsPerSecond: cfg.Planner.RequestsPerSecond,
	}, logger, metrics)
	if !gemini.Configured() {
		logger.Warn("GOOGLE_API_KEY not set, natural-language commands are disabled")
	}
	commander := service.NewCommander(gemini, dispatcher, logger)

	s := &Server{
		config:     cfg,
		logger:     logger,
		metrics:    metrics,
		root:       root,
		registry:   registry,
		dispatcher: dispatcher,
		commander:  commander,
		planner:    gemini,
		mcp:        mcpserver.New(dispatcher, commander, logger, version),
	}
	s.router = s.newRouter(version)
	return s, nil
}

func (s *Server) newRouter(version string) *gin.Engine {
	if !s.config.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(monitoring.Middleware(s.metrics))
	router.Use(middleware.CORS(s.config.RateLimit.CORSOrigins))
	if s.config.RateLimit.Enabled {
		s.logger.Info("Rate limiting enabled",
			zap.Int("rps", s.config.RateLimit.RequestsPerSecond),
			zap.Int("burst", s.config.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = s.config.RateLimit.RequestsPerSecond
		rl.Burst = s.config.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	handlers := apihttp.NewHandlers(s.dispatcher, s.commander, s.metrics, s.logger, apihttp.Info{
		Version:           version,
		Root:              s.root.Dir(),
		PlannerConfigured: s.planner.Configured(),
	})
	handlers.Register(router.Group("/", middleware.Deadline(s.config.Dispatch.Timeout)))

	// The stream outlives any single request deadline
	wsHandler := ws.NewHandler(s.dispatcher, s.commander, s.metrics, s.logger)
	router.GET("/stream", wsHandler.HandleConnection)

	return router
}

// Root returns the sandbox root
func (s *Server) Root() *sandbox.Root { return s.root }

// Registry returns the action catalog
func (s *Server) Registry() *service.Registry { return s.registry }

// Dispatcher returns the shared dispatcher
func (s *Server) Dispatcher() *service.Dispatcher { return s.dispatcher }

// Commander returns the natural-language entry point
func (s *Server) Commander() *service.Commander { return s.commander }

// Handler composes the HTTP surface for the configured network transport
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	mux.Handle("/stream", s.router)

	switch s.config.Transport.Mode {
	case config.TransportSSE:
		mux.Handle("/sse", s.mcp.SSEHandler())
	case config.TransportHTTP:
		mux.Handle("/mcp", s.mcp.StreamableHandler())
	}

	mux.Handle("/", gzhttp.GzipHandler(s.router))
	return mux
}

// Run serves the configured transport until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	if s.config.Transport.Mode == config.TransportStdio {
		return s.mcp.ServeStdio(ctx)
	}

	addr := s.config.Addr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	if limit := s.config.Transport.MaxConnections; limit > 0 {
		ln = netutil.LimitListener(ln, limit)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server",
			zap.String("addr", ln.Addr().String()),
			zap.String("transport", s.config.Transport.Mode),
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		// Long-lived SSE and WebSocket connections do not drain on their own
		s.logger.Warn("Graceful shutdown incomplete, closing", zap.Error(err))
		_ = srv.Close()
	}
	return nil
}

// Close flushes the logger
func (s *Server) Close() error {
	_ = s.logger.Sync()
	return nil
}
