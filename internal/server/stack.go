package server

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/legisai/legisai/internal/agent"
	"github.com/legisai/legisai/internal/config"
	"github.com/legisai/legisai/internal/llm"
	"github.com/legisai/legisai/internal/service"
	"github.com/legisai/legisai/internal/telemetry"
	"github.com/legisai/legisai/internal/tools"
	"github.com/rs/zerolog/log"
)

const telemetryBuffer = 512

// Stack is every long-lived component behind the HTTP API and the CLI
type Stack struct {
	Config   *config.Config
	Congress *service.CongressService
	Registry *tools.Registry
	Agent    *agent.Agent
	Sessions *agent.SessionManager

	redis    *service.RedisCache
	pg       *pgxpool.Pool
	es       *telemetry.ElasticsearchSink
	async    []*telemetry.Async
	recorder *telemetry.Recorder
}

// BuildOptions adjusts Build for non-server callers
type BuildOptions struct {
	// Trace keeps an in-memory copy of every telemetry event, see Events
	Trace bool
	// Model replaces the Anthropic model, mainly for tests
	Model llm.ChatModel
}

// Build wires config into the cache, Congress.gov client, tool registry,
// chat model, forcer, telemetry sinks and session manager.
func Build(ctx context.Context, cfg *config.Config, opts BuildOptions) (*Stack, error) {
	s := &Stack{Config: cfg}

	// ─── Cache ──────────────────────────────────────────────────────────────────
	var cache service.ResponseCache = service.NewMemoryCache()
	if cfg.RedisURL != "" {
		rc, err := service.NewRedisCache(cfg.RedisURL, "legisai")
		if err != nil {
			return nil, errors.Wrap(err, "redis url")
		}
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err = rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("redis unreachable - using in-process cache")
			_ = rc.Close()
		} else {
			s.redis = rc
			cache = rc
		}
	}

	// ─── Congress.gov ───────────────────────────────────────────────────────────
	if cfg.CongressAPIKey == "" {
		log.Warn().Msg("CONGRESS_API_KEY not set - Congress.gov calls will be rejected")
	}
	s.Congress = service.NewCongressService(cfg.CongressBaseURL, cfg.CongressAPIKey, cache, cfg.CongressCacheTTL())

	reg, err := tools.NewRegistry(s.Congress)
	if err != nil {
		return nil, errors.Wrap(err, "tool registry")
	}
	s.Registry = reg

	// ─── Model ──────────────────────────────────────────────────────────────────
	model := opts.Model
	if model == nil {
		if cfg.AnthropicAPIKey == "" {
			return nil, errors.New("ANTHROPIC_API_KEY is required")
		}
		model = llm.NewAnthropicModel(cfg.AnthropicAPIKey, cfg.Model, cfg.AnthropicBaseURL, cfg.MaxTokens, cfg.ModelTimeout())
	}

	// ─── Telemetry ──────────────────────────────────────────────────────────────
	sinks := telemetry.Multi{telemetry.NewLogSink(true)}
	if cfg.PostgresDSN != "" {
		if pg, err := s.connectPostgres(ctx, cfg.PostgresDSN); err != nil {
			log.Warn().Err(err).Msg("postgres telemetry disabled")
		} else {
			sinks = append(sinks, s.buffered(pg))
		}
	}
	if len(cfg.ElasticsearchAddresses) > 0 {
		es, err := telemetry.NewElasticsearchSink(cfg.ElasticsearchAddresses, cfg.ElasticsearchUser, cfg.ElasticsearchPassword, cfg.ElasticsearchIndex)
		if err != nil {
			log.Warn().Err(err).Msg("elasticsearch telemetry disabled")
		} else {
			s.es = es
			sinks = append(sinks, s.buffered(es))
		}
	}
	if opts.Trace {
		s.recorder = telemetry.NewRecorder()
		sinks = append(sinks, s.recorder)
	}

	// ─── Agent ──────────────────────────────────────────────────────────────────
	s.Agent = agent.New(
		model,
		tools.NewDispatcher(reg, cfg.ToolTimeout()),
		reg.List(),
		service.NewKeywordForcer(cfg.DefaultCongress),
		sinks,
		agent.Options{MaxTurns: cfg.MaxTurns, WarningMarker: cfg.WarningMarker},
	)
	s.Sessions = agent.NewSessionManager(s.Agent, cfg.SessionTTL())

	log.Info().
		Str("model", model.Name()).
		Int("tools", reg.Len()).
		Int("max_turns", cfg.MaxTurns).
		Int("default_congress", cfg.DefaultCongress).
		Bool("redis_cache", s.redis != nil).
		Bool("postgres_telemetry", s.pg != nil).
		Bool("elasticsearch_telemetry", s.es != nil).
		Msg("service configuration")

	return s, nil
}

func (s *Stack) connectPostgres(ctx context.Context, dsn string) (*telemetry.PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "pgxpool")
	}
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(initCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	sink := telemetry.NewPostgresSink(pool)
	if err := sink.EnsureSchema(initCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "create telemetry table")
	}
	s.pg = pool
	return sink, nil
}

func (s *Stack) buffered(inner telemetry.Sink) telemetry.Sink {
	a := telemetry.NewAsync(inner, telemetryBuffer)
	s.async = append(s.async, a)
	return a
}

// Events returns the telemetry recorded so far when built with Trace
func (s *Stack) Events() []telemetry.Event {
	if s.recorder == nil {
		return nil
	}
	return s.recorder.Events()
}

// Close stops the session sweeper, flushes buffered telemetry and releases
// connections.
func (s *Stack) Close() {
	if s.Sessions != nil {
		s.Sessions.Close()
	}
	for _, a := range s.async {
		a.Close()
	}
	if s.pg != nil {
		s.pg.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing redis client")
		}
	}
}
