// Package server exposes the calculator over HTTP.
//
// Routes:
//
//	GET  /                        calculator page
//	POST /compute                 calc.Request JSON -> calc.Response JSON
//	GET  /api/operations          operation registry
//	GET  /api/history?limit=n     recent calculations
//	GET  /api/triangle.{format}   triangle from sides a, b, c as png, pdf, svg, dot or json
//	GET  /healthz                 liveness
//
// Calculation failures are reported in the response body with HTTP 200 so
// the page can show them in place; only malformed requests get a 4xx status.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/geotrig/pkg/calc"
)

// Defaults.
const (
	DefaultAddr            = "127.0.0.1:5000"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second

	// maxBodyBytes bounds a /compute payload.
	maxBodyBytes = 64 << 10
)

// Config configures a Server.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Diagram holds the rendering defaults for /compute.
	Diagram calc.Options

	// OnListen is called with the base URL once the listener is open.
	OnListen func(url string)
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	c.Diagram.SetDefaults()
}

// Server serves the calculator page and API.
type Server struct {
	runner *calc.Runner
	logger *log.Logger
	cfg    Config
	page   []byte
}

// New creates a server around runner.
func New(runner *calc.Runner, cfg Config, logger *log.Logger) (*Server, error) {
	cfg.setDefaults()
	if logger == nil {
		logger = log.Default()
	}
	page, err := renderPage()
	if err != nil {
		return nil, err
	}
	return &Server{runner: runner, logger: logger, cfg: cfg, page: page}, nil
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })
	r.Use(middleware.Timeout(s.cfg.WriteTimeout))

	r.Get("/", s.handlePage)
	r.Post("/compute", s.handleCompute)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/operations", s.handleOperations)
		r.Get("/history", s.handleHistory)
		r.Get("/triangle.{format}", s.handleTriangle)
	})
	return r
}

// Run listens on the configured address and serves until ctx is done, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	url := "http://" + ln.Addr().String()
	s.logger.Info("listening", "url", url)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if s.cfg.OnListen != nil {
		s.cfg.OnListen(url)
	}
	return g.Wait()
}
