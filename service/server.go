package service

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/c360/semvalid/config"
	"github.com/c360/semvalid/health"
	"github.com/c360/semvalid/metric"
	"github.com/c360/semvalid/pipeline"
)

// Validator runs one validation for a resource IRI.
type Validator interface {
	Validate(ctx context.Context, resourceIRI string) (*pipeline.Result, error)
}

// Server is the HTTP front of the validator.
type Server struct {
	cfg       config.ServerConfig
	validator Validator
	monitor   *health.Monitor
	metrics   *metric.Metrics
	logger    *slog.Logger
	httpSrv   *http.Server
}

// NewServer wires the HTTP surface over a validator.
func NewServer(cfg config.ServerConfig, validator Validator, monitor *health.Monitor,
	metrics *metric.Metrics, logger *slog.Logger) *Server {
	if monitor == nil {
		monitor = health.NewMonitor()
	}
	if metrics == nil {
		metrics = metric.NewMetrics()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:       cfg,
		validator: validator,
		monitor:   monitor,
		metrics:   metrics,
		logger:    logger.With("component", "http"),
	}
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Std(),
		WriteTimeout: cfg.WriteTimeout.Std(),
	}
	return s
}

// Handler builds the route table with the request ID and metrics
// middleware applied to every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/validate", s.handleValidate)
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/metrics", s.metrics.Handler())
	return s.withRequestID(s.withRequestMetrics(mux))
}

// Run serves until ctx is canceled, then shuts down gracefully within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	s.monitor.UpdateHealthy("http", "listening on "+s.cfg.Addr())
	s.logger.Info("http server starting", "addr", s.cfg.Addr())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.monitor.Update("http", health.FromError("http", err))
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("http server shutting down")
		s.monitor.UpdateDegraded("http", "shutting down")

		timeout := s.cfg.ShutdownTimeout.Std()
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
