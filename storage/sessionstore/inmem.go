package sessionstore

import (
	"sync"

	"github.com/darasalabs/darasa/core/session"
	"github.com/darasalabs/darasa/transport"
)

// MemStore is an in-memory session store for tests and throwaway sessions.
type MemStore struct {
	mu sync.Mutex
	p  persisted
}

var (
	_ session.Store        = (*MemStore)(nil)
	_ transport.TokenStore = (*MemStore)(nil)
)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load() (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return session.State{
		User:            copyUser(s.p.User),
		AccessToken:     s.p.AccessToken,
		RefreshToken:    s.p.RefreshToken,
		IsAuthenticated: s.p.User != nil && s.p.AccessToken != "",
	}, nil
}

func (s *MemStore) Save(state session.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.p = persisted{
		User:         copyUser(state.User),
		AccessToken:  state.AccessToken,
		RefreshToken: state.RefreshToken,
	}
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.p = persisted{}
	return nil
}

func (s *MemStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.AccessToken
}

func (s *MemStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p.RefreshToken
}

func (s *MemStore) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.p.AccessToken = token
	return nil
}

func copyUser(usr *session.User) *session.User {
	if usr == nil {
		return nil
	}
	cp := *usr
	return &cp
}
