package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/netscope/pkg/engine"
	"github.com/matzehuels/netscope/pkg/errors"
	"github.com/matzehuels/netscope/pkg/observability"
)

// ErrSessionClosed is returned for calls on a stopped session.
var ErrSessionClosed = errors.New(errors.ErrCodeSessionNotFound, "session closed")

// call is a closure executed on the session loop.
type call struct {
	fn   func(*engine.Engine)
	done chan struct{}
}

// session is one engine and the goroutine that owns it.
type session struct {
	id        string
	createdAt time.Time
	lastSeen  atomic.Int64 // unix nanoseconds

	calls    chan call
	quit     chan struct{}
	stopOnce sync.Once

	// network is only accessed on the loop.
	network string
}

func newSession(now time.Time) *session {
	s := &session{
		id:        uuid.NewString(),
		createdAt: now,
		calls:     make(chan call),
		quit:      make(chan struct{}),
	}
	s.touch(now)
	return s
}

func (s *session) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// idle returns how long the session has been unused at now.
func (s *session) idle(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

// loop runs calls against e until ctx is cancelled or the session stops.
func (s *session) loop(ctx context.Context, e *engine.Engine) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case c := <-s.calls:
			c.fn(e)
			close(c.done)
		}
	}
}

// do runs fn on the session loop and waits for it to finish.
func (s *session) do(ctx context.Context, fn func(*engine.Engine)) error {
	c := call{fn: fn, done: make(chan struct{})}
	select {
	case s.calls <- c:
	case <-s.quit:
		return ErrSessionClosed
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "session %s busy", s.id)
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "session %s call", s.id)
	}
}

func (s *session) stop() {
	s.stopOnce.Do(func() { close(s.quit) })
}

// =============================================================================
// Registry
// =============================================================================

// openSession creates a session and starts its loop.
func (s *Server) openSession(ctx context.Context) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx.Err() != nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "server is shutting down")
	}
	if len(s.sessions) >= s.opts.MaxSessions {
		return nil, errors.New(errors.ErrCodeUnsupported, "too many sessions (limit %d)", s.opts.MaxSessions)
	}

	sess := newSession(time.Now())
	opts := s.opts.Engine
	opts.Logger = s.logger.With("session", sess.id)
	e := engine.New(opts)

	s.sessions[sess.id] = sess
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		sess.loop(s.ctx, e)
	}()

	observability.Session().OnSessionStart(ctx, sess.id, "")
	s.logger.Debug("session opened", "session", sess.id, "open", len(s.sessions))
	return sess, nil
}

// lookup returns the session with id and marks it used.
func (s *Server) lookup(id string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess.touch(time.Now())
	return sess, nil
}

// closeSession stops and forgets the session with id.
func (s *Server) closeSession(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	s.end(ctx, sess)
	return nil
}

func (s *Server) end(ctx context.Context, sess *session) {
	sess.stop()
	observability.Session().OnSessionEnd(ctx, sess.id, time.Since(sess.createdAt))
	s.logger.Debug("session closed", "session", sess.id)
}

// sessionCount returns the number of open sessions.
func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// reap closes sessions idle for longer than the idle timeout at now and
// returns how many it closed.
func (s *Server) reap(now time.Time) int {
	var expired []*session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.idle(now) > s.opts.IdleTimeout {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.end(s.ctx, sess)
	}
	if len(expired) > 0 {
		s.logger.Info("reaped idle sessions", "count", len(expired))
	}
	return len(expired)
}

func (s *Server) reapLoop() {
	interval := max(s.opts.IdleTimeout/4, time.Second)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case now := <-ticker.C:
			s.reap(now)
		}
	}
}
