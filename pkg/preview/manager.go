package preview

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/docmark/pkg/errors"
	"github.com/matzehuels/docmark/pkg/pipeline"
)

// Manager owns the live sessions of one process.
type Manager struct {
	runner *pipeline.Runner
	ttl    time.Duration
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions render with runner.
// A ttl of zero means DefaultTTL; a nil logger discards output.
func NewManager(runner *pipeline.Runner, ttl time.Duration, logger *log.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = runner.Logger
	}
	return &Manager{
		runner:   runner,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create validates opts, renders the empty document once and registers a new
// session under a random UUID.
func (m *Manager) Create(ctx context.Context, opts pipeline.Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = m.logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	initial, err := m.runner.Execute(ctx, "", opts)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		runner:    m.runner,
		opts:      opts,
		logger:    m.logger,
		latest:    Snapshot{Result: initial, UpdatedAt: now},
		lastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("created preview session", "session", s.ID, "grammar", opts.Grammar, "formats", opts.Formats)
	return s, nil
}

// Get returns the session with id. Unknown and expired ids yield an error
// wrapping ErrSessionNotFound with code SESSION_NOT_FOUND.
func (m *Manager) Get(id string) (*Session, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}

	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	now := time.Now()
	if !ok || m.expired(s, now) {
		return nil, errors.Wrap(errors.ErrCodeSessionNotFound, ErrSessionNotFound, "session %s", id)
	}
	s.touch(now)
	return s, nil
}

// Delete removes the session with id.
func (m *Manager) Delete(id string) error {
	if err := errors.ValidateSessionID(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return errors.Wrap(errors.ErrCodeSessionNotFound, ErrSessionNotFound, "session %s", id)
	}
	delete(m.sessions, id)
	return nil
}

// List returns the live sessions, oldest first.
func (m *Manager) List() []*Session {
	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Session) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		return 1
	})
	return out
}

// Len returns the number of registered sessions, including expired ones not
// yet cleaned up.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes sessions idle for longer than the TTL as of now and returns
// how many were removed.
func (m *Manager) Cleanup(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("removed idle preview sessions", "count", removed)
	}
	return removed
}

// Run calls Cleanup every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Cleanup(now)
		}
	}
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return now.Sub(s.idleSince()) > m.ttl
}
