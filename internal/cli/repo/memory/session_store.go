package memory

import (
	"sync"

	"SocialSphere/internal/cli/model"
	"SocialSphere/internal/cli/repo"
)

// SessionStore keeps the session in process memory. Used by tests and embedders.
type SessionStore struct {
	mu   sync.Mutex
	sess model.Session
	user *model.User
}

var _ repo.Store = (*SessionStore)(nil)

func NewSessionStore(initial model.Session) *SessionStore {
	return &SessionStore{sess: initial}
}

func (s *SessionStore) Get() (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess, nil
}

func (s *SessionStore) Set(sess model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = model.Session{}
	s.user = nil
	return nil
}

func (s *SessionStore) SaveUser(u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	return nil
}

func (s *SessionStore) LoadUser() (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil, nil
	}
	u := *s.user
	return &u, nil
}
