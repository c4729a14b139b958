package agent

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionManager keeps sessions by id and evicts the ones idle longer than ttl
type SessionManager struct {
	agent *Agent
	ttl   time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewSessionManager starts the idle sweeper when ttl > 0; call Close to stop it.
func NewSessionManager(agent *Agent, ttl time.Duration) *SessionManager {
	m := &SessionManager{
		agent:    agent,
		ttl:      ttl,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	if ttl > 0 {
		go m.sweepLoop()
	} else {
		close(m.done)
	}
	return m
}

func (m *SessionManager) Agent() *Agent { return m.agent }

// Create starts a session with a fresh uuid
func (m *SessionManager) Create() *Session {
	s := m.agent.NewSession(uuid.NewString())
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()

	log.Debug().Str("session_id", s.ID()).Msg("session created")
	return s
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, errors.Wrapf(ErrSessionNotFound, "id %q", id)
	}
	return s, nil
}

// GetOrCreate returns the session for id, or a new one when id is empty
func (m *SessionManager) GetOrCreate(id string) (*Session, error) {
	if id == "" {
		return m.Create(), nil
	}
	return m.Get(id)
}

// Reset clears a session's conversation but keeps its id
func (m *SessionManager) Reset(id string) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.Reset()
	return nil
}

func (m *SessionManager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	return ok
}

func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle since before now-ttl and returns how many.
// Sessions busy with a query are kept.
func (m *SessionManager) Sweep(now time.Time) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, s := range m.sessions {
		if !s.LastUsed().Before(cutoff) {
			continue
		}
		if !s.mu.TryLock() {
			continue
		}
		s.mu.Unlock()
		delete(m.sessions, id)
		evicted++
	}
	if evicted > 0 {
		log.Info().Int("evicted", evicted).Int("remaining", len(m.sessions)).Msg("idle sessions evicted")
	}
	return evicted
}

func (m *SessionManager) sweepLoop() {
	defer close(m.done)

	interval := m.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// Close stops the sweeper and waits for it to exit
func (m *SessionManager) Close() {
	m.closeOnce.Do(func() { close(m.stop) })
	<-m.done
}
