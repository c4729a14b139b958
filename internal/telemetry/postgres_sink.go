package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

const createEventsTable = `CREATE TABLE IF NOT EXISTS telemetry_events (
	id             BIGSERIAL PRIMARY KEY,
	kind           TEXT        NOT NULL,
	occurred_at    TIMESTAMPTZ NOT NULL,
	session_id     TEXT        NOT NULL,
	correlation_id TEXT        NOT NULL,
	turn           INT         NOT NULL,
	tool           TEXT,
	call_id        TEXT,
	success        BOOLEAN     NOT NULL,
	reason         TEXT,
	duration_ms    BIGINT,
	fields         JSONB
)`

const insertEvent = `INSERT INTO telemetry_events
	(kind, occurred_at, session_id, correlation_id, turn, tool, call_id, success, reason, duration_ms, fields)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// Execer is the subset of *pgxpool.Pool used by PostgresSink
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresSink stores events in the telemetry_events table
type PostgresSink struct {
	db      Execer
	timeout time.Duration
}

func NewPostgresSink(db Execer) *PostgresSink {
	return &PostgresSink{db: db, timeout: 5 * time.Second}
}

// EnsureSchema creates the events table if it does not exist
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, createEventsTable)
	return err
}

func (s *PostgresSink) Record(ctx context.Context, ev Event) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var fields *string
	if len(ev.Fields) > 0 {
		b, err := json.Marshal(ev.Fields)
		if err == nil {
			str := string(b)
			fields = &str
		}
	}

	_, err := s.db.Exec(ctx, insertEvent,
		string(ev.Kind), ev.Time, ev.SessionID, ev.CorrelationID, ev.Turn,
		nullable(ev.Tool), nullable(ev.CallID), ev.Success, nullable(ev.Reason),
		ev.DurationMs, fields,
	)
	if err != nil {
		log.Warn().Err(err).Str("event", string(ev.Kind)).Msg("postgres telemetry insert failed")
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
