// Package server exposes the engine over HTTP: task submission and
// execution, rule administration, campaign runs, and Prometheus metrics.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"mmss/internal/campaign"
	"mmss/internal/rules"
	"mmss/internal/task"
)

// Options wires a server.
type Options struct {
	Addr      string
	Processor *task.Processor
	Campaigns *campaign.Controller
	Rules     *rules.Registry
	Logger    *zap.Logger

	// Campaign endpoint rate limiting. Zero values disable it.
	CampaignRatePerSec float64
	CampaignBurst      int
}

// Server is the HTTP front of the engine.
type Server struct {
	addr        string
	proc        *task.Processor
	campaigns   *campaign.Controller
	rules       *rules.Registry
	log         *zap.Logger
	instruments *Instruments
	limiter     *rate.Limiter
}

// New creates a server. A nil logger is replaced with a no-op.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	var limiter *rate.Limiter
	if opts.CampaignRatePerSec > 0 {
		burst := opts.CampaignBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.CampaignRatePerSec), burst)
	}

	s := &Server{
		addr:        opts.Addr,
		proc:        opts.Processor,
		campaigns:   opts.Campaigns,
		rules:       opts.Rules,
		log:         opts.Logger,
		instruments: NewInstruments(),
		limiter:     limiter,
	}
	s.instruments.Observe(s.proc.CurrentMetrics())
	return s
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /tasks", s.handleSubmitTask)
	mux.HandleFunc("POST /tasks/{id}/execute", s.handleExecuteTask)
	mux.HandleFunc("GET /tasks/{id}", s.handleTaskStatus)
	mux.HandleFunc("GET /tasks", s.handleListTasks)

	mux.HandleFunc("GET /metrics/system", s.handleSystemMetrics)
	mux.HandleFunc("GET /field", s.handleField)

	mux.HandleFunc("POST /rules", s.handleRegisterRule)
	mux.HandleFunc("DELETE /rules/{name}", s.handleRemoveRule)
	mux.HandleFunc("POST /rules/{name}/apply", s.handleApplyRule)
	mux.HandleFunc("POST /rules/apply", s.handleApplyAllRules)

	mux.HandleFunc("POST /campaigns", s.handleCampaign)

	mux.Handle("GET /metrics", promhttp.HandlerFor(s.instruments.Registry, promhttp.HandlerOpts{}))

	return s.logRequests(mux)
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("http server listening", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
