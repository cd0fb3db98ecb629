package server

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"vidsum/internal/config"
	"vidsum/internal/logger"
	"vidsum/internal/pipeline"
	"vidsum/internal/store"
	"vidsum/internal/summarize"
)

// Server exposes the pipeline and summarizer as a small JSON API.
type Server struct {
	cfg        *config.Config
	pipe       *pipeline.Pipeline
	summarizer summarize.Summarizer
	store      *store.Store
	log        logger.Logger
	limiter    *rate.Limiter
	httpServer *http.Server
}

func New(cfg *config.Config, pipe *pipeline.Pipeline, summarizer summarize.Summarizer, st *store.Store, log logger.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		pipe:       pipe,
		summarizer: summarizer,
		store:      st,
		log:        log,
		limiter: rate.NewLimiter(
			rate.Limit(float64(cfg.Server.RequestsPerMinute)/60.0),
			cfg.Server.Burst,
		),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/process", s.withRateLimit(s.handleProcess))
	mux.HandleFunc("POST /api/summarize", s.withRateLimit(s.handleSummarize))
	mux.HandleFunc("GET /api/jobs", s.withRateLimit(s.handleGetJob))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.withLogging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Minute, // transcription requests are slow
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info(ctx, "HTTP server listening on :%s", s.cfg.Server.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) withRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next(w, r)
	}
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info(r.Context(), "%s %s (%s)", r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
