// Package preview keeps live preview sessions for documents being edited.
//
// An editor re-submits the whole text on every change. Renders of successive
// submissions may finish out of order, so each update is numbered with a
// generation and a result is only published while it is still the newest
// one issued. Readers never observe an older document replacing a newer one.
//
// # Usage
//
//	m := preview.NewManager(runner, preview.DefaultTTL, logger)
//	sess, err := m.Create(ctx, pipeline.Options{Grammar: "docstyle"})
//
//	gen, err := sess.Update(ctx, text)
//	snap := sess.Latest()       // newest published render
//	html := snap.Result.Artifacts["html"]
//
// Sessions idle for longer than the manager TTL are removed by
// [Manager.Cleanup], which [Manager.Run] calls periodically.
package preview

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/docmark/pkg/observability"
	"github.com/matzehuels/docmark/pkg/pipeline"
)

// Sentinel errors for session operations.
var (
	// ErrSessionNotFound is returned when a session does not exist or has
	// expired.
	ErrSessionNotFound = stderrors.New("session not found")
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 30 * time.Minute

// Snapshot is a published render of a session.
type Snapshot struct {
	Generation uint64
	Text       string
	Result     *pipeline.Result
	UpdatedAt  time.Time
}

// Session is one live preview. All methods are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	mu       sync.Mutex
	issued   uint64
	latest   Snapshot
	lastSeen time.Time
}

// Options returns the validated pipeline options the session renders with.
func (s *Session) Options() pipeline.Options {
	return s.opts
}

// Update renders text and publishes the result if no newer update was issued
// while it rendered. It returns the generation assigned to this update.
// A render error leaves the published snapshot unchanged.
func (s *Session) Update(ctx context.Context, text string) (uint64, error) {
	s.mu.Lock()
	s.issued++
	gen := s.issued
	s.lastSeen = time.Now()
	s.mu.Unlock()

	result, err := s.runner.Execute(ctx, text, s.opts)
	if err != nil {
		return gen, err
	}

	published := s.publish(gen, text, result)
	observability.Server().OnSessionUpdate(ctx, s.ID, gen, published)
	if !published {
		s.logger.Debug("discarded stale render", "session", s.ID, "generation", gen)
	}
	return gen, nil
}

// publish stores result as the latest snapshot if gen is still the newest
// generation issued.
func (s *Session) publish(gen uint64, text string, result *pipeline.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued || gen <= s.latest.Generation {
		return false
	}
	s.latest = Snapshot{
		Generation: gen,
		Text:       text,
		Result:     result,
		UpdatedAt:  time.Now(),
	}
	return true
}

// Latest returns the newest published snapshot. Before the first update it
// is generation 0 holding the render of empty text (the placeholder).
func (s *Session) Latest() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Issued returns the newest generation handed out by Update.
func (s *Session) Issued() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
