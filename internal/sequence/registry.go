package sequence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"botdemo/internal/config"
	"botdemo/internal/metrics"
)

var (
	// ErrSessionNotFound is returned for an unknown or expired session id.
	ErrSessionNotFound = errors.New("sequence: session not found")
	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("sequence: too many sessions")
)

type session struct {
	machine  *Machine
	lastSeen time.Time
}

// Registry owns the live demo sessions.
type Registry struct {
	logger *slog.Logger
	clock  Clock
	cfg    config.DemoConfig

	mu       sync.Mutex
	seeds    *rand.Rand
	sessions map[string]*session
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *slog.Logger, clock Clock, cfg config.DemoConfig) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = RealClock()
	}
	return &Registry{
		logger:   logger,
		clock:    clock,
		cfg:      cfg,
		seeds:    rand.New(rand.NewSource(clock.Now().UnixNano())),
		sessions: make(map[string]*session),
	}
}

// Create starts a new session and returns its id.
func (r *Registry) Create() (string, *Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.MaxSessions > 0 && len(r.sessions) >= r.cfg.MaxSessions {
		return "", nil, fmt.Errorf("%w: limit %d", ErrTooManySessions, r.cfg.MaxSessions)
	}

	id := uuid.NewString()
	m := NewMachine(r.logger.With("session_id", id), r.clock, rand.New(rand.NewSource(r.seeds.Int63())))
	r.sessions[id] = &session{machine: m, lastSeen: r.clock.Now()}
	metrics.DemoSessionsActive.Set(float64(len(r.sessions)))
	r.logger.Info("Demo session created", "session_id", id)
	return id, m, nil
}

// Get returns the machine of a session and marks it as active.
func (r *Registry) Get(id string) (*Machine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.lastSeen = r.clock.Now()
	return s.machine, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
		metrics.DemoSessionsActive.Set(float64(len(r.sessions)))
	}
	r.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.machine.Close()
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the configured TTL.
// It returns the number of sessions removed.
func (r *Registry) Sweep() int {
	if r.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := r.clock.Now().Add(-r.cfg.SessionTTL)

	r.mu.Lock()
	var expired []*session
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	metrics.DemoSessionsActive.Set(float64(len(r.sessions)))
	r.mu.Unlock()

	for _, s := range expired {
		s.machine.Close()
	}
	if len(expired) > 0 {
		r.logger.Info("Expired demo sessions removed", "count", len(expired))
	}
	return len(expired)
}

// RunJanitor sweeps expired sessions every interval until ctx is cancelled.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*session)
	metrics.DemoSessionsActive.Set(0)
	r.mu.Unlock()

	for _, s := range sessions {
		s.machine.Close()
	}
}
