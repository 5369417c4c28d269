// Package agent serves the metrics endpoint the dashboard polls.
//
// It exposes GET /api/system/status, GET /api/system/processes, and
// GET /api/health using gin, reading the host through a Collector.
package agent

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// collectTimeout bounds a single collector call.
const collectTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	Collector      Collector
	Addr           string
	AllowedOrigins []string
	Version        string
	Logger         logger.Logger
	Debug          bool
}

// Server is the HTTP metrics agent.
type Server struct {
	collector Collector
	addr      string
	version   string
	log       logger.Logger
	router    *gin.Engine
	started   time.Time
}

// New creates a Server with routes and middleware installed.
func New(opts Options) *Server {
	if opts.Debug {
		gin.SetMode(gin.DebugMode)
	} else if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	s := &Server{
		collector: opts.Collector,
		addr:      opts.Addr,
		version:   opts.Version,
		log:       log,
		router:    gin.New(),
		started:   time.Now(),
	}

	s.router.Use(gin.Recovery(), s.requestLogger())
	s.router.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	s.setupRoutes()

	return s
}

// corsConfig builds the CORS policy. A "*" entry allows every origin.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/health", s.handleHealth)

		system := api.Group("/system")
		{
			system.GET("/status", s.handleStatus)
			system.GET("/processes", s.handleProcesses)
		}
	}

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found: " + c.Request.URL.Path})
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), collectTimeout)
	defer cancel()

	status, err := s.collector.Status(ctx)
	if err != nil {
		s.log.Warn("status collection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if status.Network == nil {
		status.Network = []metrics.NetworkInterface{}
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleProcesses(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), collectTimeout)
	defer cancel()

	procs, err := s.collector.Processes(ctx)
	if err != nil {
		s.log.Warn("process collection failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if procs == nil {
		procs = []metrics.Process{}
	}
	c.JSON(http.StatusOK, procs)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Round(time.Second).String(),
	})
}

// requestLogger logs each request at debug level.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Microsecond))
	}
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrServe,
			"Can't listen on "+s.addr,
			"Pick a free address with --addr or stop whatever is using the port")
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("metrics agent listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.WrapWithCode(err, errors.ErrServe, "Metrics agent stopped unexpectedly", "")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down metrics agent")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapWithCode(err, errors.ErrServe, "Metrics agent did not shut down cleanly", "")
	}
	return nil
}
