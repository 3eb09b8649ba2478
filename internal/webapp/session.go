package webapp

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"quizform/internal/bridge"
	"quizform/internal/wizard"
)

// sessionCookie names the cookie carrying the session id.
const sessionCookie = "quizform_session"

// session is one open quiz: its controller and the page bridge it talks to.
type session struct {
	id         string
	controller *wizard.Controller
	host       *bridge.Script
	lastSeen   time.Time
	// synced is set once the page reported identity and theme.
	synced atomic.Bool
}

// sessionStore keeps sessions in memory and drops them after ttl of
// inactivity.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	onResize func(int)
}

func newSessionStore(ttl time.Duration, now func() time.Time, onResize func(int)) *sessionStore {
	if onResize == nil {
		onResize = func(int) {}
	}
	return &sessionStore{
		sessions: map[string]*session{},
		ttl:      ttl,
		now:      now,
		onResize: onResize,
	}
}

// get returns a live session and marks it as used.
func (s *sessionStore) get(id string) (*session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		s.onResize(len(s.sessions))
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// create sweeps expired sessions and registers a new one built by build.
func (s *sessionStore) create(build func(id string) *session) *session {
	id := uuid.NewString()
	sess := build(id)
	sess.id = id

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, existing := range s.sessions {
		if s.expired(existing, now) {
			delete(s.sessions, key)
		}
	}
	sess.lastSeen = now
	s.sessions[id] = sess
	s.onResize(len(s.sessions))
	return sess
}

func (s *sessionStore) expired(sess *session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.lastSeen) > s.ttl
}
