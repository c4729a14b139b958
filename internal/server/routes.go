package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/legisai/legisai/internal/config"
	"github.com/legisai/legisai/internal/handler"
	"github.com/legisai/legisai/internal/middleware"
	"github.com/legisai/legisai/internal/security"
	"github.com/rs/zerolog/log"
)

func (s *Server) setupRoutes() http.Handler {
	cfg := s.cfg
	st := s.stack

	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	// ─── Security ───────────────────────────────────────────────────────────────
	var piiDetector *security.PIIDetector
	if cfg.EnablePIIDetection {
		piiDetector = security.NewPIIDetector(cfg.PIIKeywords)
	}
	promptVal := security.NewPromptValidator()
	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)

	// ─── Handlers ───────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler().Require("congress", st.Congress)
	var redisCheck, pgCheck, esCheck handler.HealthChecker
	if st.redis != nil {
		redisCheck = handler.HealthCheckFunc(st.redis.Ping)
	}
	if st.pg != nil {
		pgCheck = handler.HealthCheckFunc(st.pg.Ping)
	}
	if st.es != nil {
		esCheck = st.es
	}
	healthH.Optional("redis", redisCheck).
		Optional("postgres", pgCheck).
		Optional("elasticsearch", esCheck)

	chatH := handler.NewChatHandler(st.Sessions, promptVal, piiDetector, auditLogger)
	sessionH := handler.NewSessionHandler(st.Sessions)
	toolsH := handler.NewToolsHandler(st.Agent.Catalog())

	// ─── Router ─────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins, config.DefaultCORSMaxAge)))

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	apiMiddleware := []func(http.Handler) http.Handler{s.limiter.Middleware}
	if cfg.EnableAuth {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		r.Use(apiMiddleware...)

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Post("/chat", chatH.Chat)
			r.Get("/tools", toolsH.List)

			r.Post("/sessions", sessionH.Create)
			r.Get("/sessions/{id}/messages", sessionH.Messages)
			r.Post("/sessions/{id}/reset", sessionH.Reset)
			r.Delete("/sessions/{id}", sessionH.Delete)
		})
	})

	return r
}
