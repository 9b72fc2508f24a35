package repository

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/chatlaw/pkg/model"
	"github.com/m-mizutani/chatlaw/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// sessionEntry pairs a session with its lock. Both are allocated together
// in Create, so there is no separate lock-creation step to race on.
type sessionEntry struct {
	mu      sync.Mutex
	session *model.Session
	removed bool
}

// SessionStore is the in-memory registry of live consultations. The map is
// guarded by mu only for lookup and insert; each session has its own lock so
// that different sessions never block each other.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[model.SessionID]*sessionEntry

	newID func() model.SessionID
	now   func() time.Time
}

// SessionStoreOption is a functional option for SessionStore
type SessionStoreOption func(*SessionStore)

// WithIDGenerator replaces the session id generator
func WithIDGenerator(f func() model.SessionID) SessionStoreOption {
	return func(s *SessionStore) {
		s.newID = f
	}
}

// WithStoreClock replaces the clock used for idle tracking
func WithStoreClock(f func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		s.now = f
	}
}

// NewSessionStore creates an empty SessionStore
func NewSessionStore(opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		entries: make(map[model.SessionID]*sessionEntry),
		newID:   model.NewSessionID,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers session under a freshly generated id, which is written to
// session.ID and returned. It fails with a conflict error if the generated id
// is already in use.
func (s *SessionStore) Create(ctx context.Context, session *model.Session) (model.SessionID, error) {
	if session == nil {
		return "", goerr.New("session is nil", goerr.T(model.TagInvalidArgument))
	}

	id := s.newID()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		return "", goerr.New("session id collision", goerr.T(model.TagConflict), goerr.V("session_id", id))
	}

	now := s.now()
	session.ID = id
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	s.entries[id] = &sessionEntry{session: session}

	logging.From(ctx).Debug("session registered", "session_id", id)
	return id, nil
}

func (s *SessionStore) lookup(id model.SessionID) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, goerr.New("session not found", goerr.T(model.TagNotFound), goerr.V("session_id", id))
	}
	return entry, nil
}

// WithLock runs fn with exclusive access to the session. The lock is released
// on every exit path of fn, and fn's error is returned as is.
func (s *SessionStore) WithLock(ctx context.Context, id model.SessionID, fn func(*model.Session) error) error {
	entry, err := s.lookup(id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	// The janitor may have swept the entry while we were waiting.
	if entry.removed {
		return goerr.New("session not found", goerr.T(model.TagNotFound), goerr.V("session_id", id))
	}

	if err := fn(entry.session); err != nil {
		return err
	}
	entry.session.UpdatedAt = s.now()
	return nil
}

// Get returns a copy of the session taken under its lock
func (s *SessionStore) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.removed {
		return nil, goerr.New("session not found", goerr.T(model.TagNotFound), goerr.V("session_id", id))
	}
	return entry.session.Clone(), nil
}

// Len returns the number of registered sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sweep removes sessions whose last update is older than ttl. Sessions that
// are locked at the time of the sweep are skipped. It returns the number of
// removed sessions.
func (s *SessionStore) Sweep(ctx context.Context, ttl time.Duration) int {
	threshold := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if !entry.mu.TryLock() {
			continue
		}
		if entry.session.UpdatedAt.Before(threshold) {
			entry.removed = true
			delete(s.entries, id)
			removed++
		}
		entry.mu.Unlock()
	}

	if removed > 0 {
		logging.From(ctx).Info("expired sessions swept", "removed", removed, "remaining", len(s.entries))
	}
	return removed
}

// RunJanitor sweeps idle sessions every interval until ctx is cancelled
func (s *SessionStore) RunJanitor(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx, ttl)
		}
	}
}
