package sessionstore

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/darasalabs/darasa/core/session"
	"github.com/darasalabs/darasa/transport"
)

// persisted is the durable subset of the session state. Exactly these three
// fields survive a process restart; everything else is transient.
type persisted struct {
	User         *session.User `json:"user,omitempty"`
	AccessToken  string        `json:"accessToken,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
}

// FileStore persists the session in a JSON file. It backs both the session
// manager (Load/Save/Clear) and the transport layer (token reads/rotation),
// which makes the file the single source of truth for tokens.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var (
	_ session.Store        = (*FileStore)(nil)
	_ transport.TokenStore = (*FileStore)(nil)
)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.read()
	if err != nil {
		return session.State{}, err
	}
	return session.State{
		User:            p.User,
		AccessToken:     p.AccessToken,
		RefreshToken:    p.RefreshToken,
		IsAuthenticated: p.User != nil && p.AccessToken != "",
	}, nil
}

func (s *FileStore) Save(state session.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(persisted{
		User:         state.User,
		AccessToken:  state.AccessToken,
		RefreshToken: state.RefreshToken,
	})
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing %s", s.path)
	}
	return nil
}

func (s *FileStore) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.read()
	if err != nil {
		return ""
	}
	return p.AccessToken
}

func (s *FileStore) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.read()
	if err != nil {
		return ""
	}
	return p.RefreshToken
}

func (s *FileStore) SetAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.read()
	if err != nil {
		return err
	}
	p.AccessToken = token
	return s.write(p)
}

func (s *FileStore) read() (persisted, error) {
	var p persisted
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, errors.Wrapf(err, "reading %s", s.path)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return persisted{}, errors.Wrapf(err, "decoding %s", s.path)
	}
	return p, nil
}

func (s *FileStore) write(p persisted) error {
	data, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(s.path))
	}
	// tokens are credentials: owner-only
	return errors.Wrapf(ioutil.WriteFile(s.path, data, 0o600), "writing %s", s.path)
}
