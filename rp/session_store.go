package rp

import (
	"encoding/base64"
	"sync"

	"github.com/insaplace/spresso/model"
)

// SessionStore is the token-keyed RP session map: StartLogin inserts,
// Redirect reads, Login reads then replaces; distinct tokens are
// independent, same-token access is serialized.
type SessionStore struct {
	mu    sync.RWMutex
	items map[string]*model.Session
}

// NewSessionStore builds an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{items: make(map[string]*model.Session)}
}

func tokenKey(token []byte) string {
	return base64.StdEncoding.EncodeToString(token)
}

// Save persists s, keyed by s.Token. Called at the end of StartLogin
// (session NEW → PERSISTED) and again at the end of Login (PERSISTED →
// AUTHENTICATED).
func (s *SessionStore) Save(session *model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		s.items = make(map[string]*model.Session)
	}
	s.items[tokenKey(session.Token)] = session
}

// Load returns the session stored under token, if any.
func (s *SessionStore) Load(token []byte) (*model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.items[tokenKey(token)]
	return session, ok
}
