package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/legisai/legisai/internal/config"
	"github.com/legisai/legisai/internal/middleware"
	"github.com/rs/zerolog/log"
)

// chat requests may run up to the 600s request timeout
const writeTimeout = 10*time.Minute + 15*time.Second

type Server struct {
	cfg     *config.Config
	stack   *Stack
	limiter *middleware.RateLimiter
	http    *http.Server
}

func New(cfg *config.Config, stack *Stack) *Server {
	s := &Server{
		cfg:     cfg,
		stack:   stack,
		limiter: middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.APIKeyHeader),
	}

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.setupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler exposes the router, e.g. for httptest
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is cancelled, then shuts down gracefully. The stack
// is left to the caller to close.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("graceful shutdown initiated")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return s.http.Shutdown(shutdownCtx)
		case now := <-ticker.C:
			s.limiter.Cleanup(now)
		case err := <-errCh:
			return err
		}
	}
}
