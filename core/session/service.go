package session

import (
	"context"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/darasalabs/darasa/core"
	"github.com/darasalabs/darasa/transport"
)

var (
	// errors
	ErrNotAuthenticated = errors.New("not authenticated")
)

// Manager owns the authentication state: it performs login, registration,
// logout and token refresh against the API and keeps the in-memory State in
// sync with the injected Store. It is safe for concurrent use.
type Manager struct {
	client   *transport.Client
	store    Store
	validate *validator.Validate
	log      core.Logger

	mu          sync.RWMutex
	state       State
	initialized bool
}

func NewManager(client *transport.Client, store Store, validate *validator.Validate, log core.Logger) *Manager {
	return &Manager{
		client:   client,
		store:    store,
		validate: validate,
		log:      log,
	}
}

// authPayload is the response shape of auth/login and auth/register.
type authPayload struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type mePayload struct {
	User *User `json:"user"`
}

// InitializeAuth rehydrates the session from the Store. It must run once
// before any authenticated call; further calls are no-ops, so multiple
// consumers may all call it safely.
func (m *Manager) InitializeAuth() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized || m.state.IsAuthenticated {
		return
	}
	m.initialized = true

	st, err := m.store.Load()
	if err != nil {
		m.log.Warn("loading persisted session", err)
		return
	}
	if st.User == nil || st.AccessToken == "" {
		return
	}
	m.state = State{
		User:            st.User,
		AccessToken:     st.AccessToken,
		RefreshToken:    st.RefreshToken,
		IsAuthenticated: true,
	}
}

// Login authenticates against the API and populates the session.
// The failure is recorded in the session state AND returned, so callers can
// branch on it (e.g. role-based redirects only on success).
func (m *Manager) Login(ctx context.Context, creds Credentials) (User, error) {
	if err := creds.Validate(m.validate); err != nil {
		return User{}, err
	}

	m.begin()
	var payload authPayload
	if err := m.client.Post(ctx, "/auth/login", &creds, &payload); err != nil {
		m.fail(err)
		return User{}, errors.Wrap(err, "logging in")
	}
	return m.establish(payload)
}

// Register creates an account and treats the response as an implicit login.
func (m *Manager) Register(ctx context.Context, account NewAccount) (User, error) {
	if err := account.Validate(m.validate); err != nil {
		return User{}, err
	}

	m.begin()
	var payload authPayload
	if err := m.client.Post(ctx, "/auth/register", &account, &payload); err != nil {
		m.fail(err)
		return User{}, errors.Wrap(err, "registering")
	}
	return m.establish(payload)
}

// Logout clears the session unconditionally. The server-side invalidation
// call is best-effort: its failure is logged and swallowed because the
// client-side session must be cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		m.log.Debug("server-side logout failed", err)
	}
	m.clear()
}

// RefreshAccessToken rotates the access token in place. A missing refresh
// token fails fast; a rejected refresh is terminal and clears the session
// before re-raising.
func (m *Manager) RefreshAccessToken(ctx context.Context) error {
	m.mu.RLock()
	refreshToken := m.state.RefreshToken
	m.mu.RUnlock()
	if refreshToken == "" {
		return transport.ErrNoRefreshToken
	}

	if err := m.client.Refresh(ctx); err != nil {
		m.Logout(ctx)
		return errors.Wrap(err, "refreshing access token")
	}

	st, err := m.store.Load()
	if err != nil {
		return errors.Wrap(err, "reloading session")
	}
	m.mu.Lock()
	m.state.AccessToken = st.AccessToken
	m.mu.Unlock()
	return nil
}

// FetchCurrentUser reloads the identity record from the API ("who am I").
func (m *Manager) FetchCurrentUser(ctx context.Context) (User, error) {
	var payload mePayload
	if err := m.client.Get(ctx, "/auth/me", &payload); err != nil {
		m.mu.Lock()
		m.state.Err = transport.NormalizeError(err).Message
		m.mu.Unlock()
		return User{}, errors.Wrap(err, "fetching current user")
	}
	if payload.User == nil {
		return User{}, ErrNotAuthenticated
	}

	m.mu.Lock()
	m.state.User = payload.User
	st := m.state
	m.mu.Unlock()
	if err := m.store.Save(st); err != nil {
		m.log.Error("persisting session", err)
	}
	return *payload.User, nil
}

// UserUpdate is a partial, local-only update of the identity record, applied
// after a profile-edit endpoint returned fresh fields. No network call.
type UserUpdate struct {
	Name      *string
	Email     *string
	SchoolID  *string
	AvatarURL *string
}

func (m *Manager) UpdateUser(update UserUpdate) User {
	m.mu.Lock()
	if m.state.User == nil {
		m.mu.Unlock()
		return User{}
	}
	if update.Name != nil {
		m.state.User.Name = *update.Name
	}
	if update.Email != nil {
		m.state.User.Email = *update.Email
	}
	if update.SchoolID != nil {
		m.state.User.SchoolID = null.StringFrom(*update.SchoolID)
	}
	if update.AvatarURL != nil {
		m.state.User.AvatarURL = null.StringFrom(*update.AvatarURL)
	}
	usr := *m.state.User
	st := m.state
	m.mu.Unlock()

	if err := m.store.Save(st); err != nil {
		m.log.Error("persisting session", err)
	}
	return usr
}

// Current returns a snapshot of the session state.
func (m *Manager) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := m.state
	if m.state.User != nil {
		usr := *m.state.User
		st.User = &usr
	}
	return st
}

// Role returns the current user's role, or "" when unauthenticated.
func (m *Manager) Role() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state.User == nil {
		return ""
	}
	return m.state.User.Role
}

func (m *Manager) HasRole(roles ...string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.state.User == nil {
		return false
	}
	return m.state.User.HasRole(roles...)
}

func (m *Manager) IsStudent() bool { return m.HasRole(RoleStudent) }
func (m *Manager) IsTeacher() bool { return m.HasRole(RoleTeacher) }
func (m *Manager) IsAdmin() bool   { return m.HasRole(RoleAdmin) }

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.IsAuthenticated
}

// HandleSessionInvalid resets the in-memory state after the transport layer
// forcibly terminated the session. Wire it to transport.Client.OnSessionInvalid.
func (m *Manager) HandleSessionInvalid(reason error) {
	m.mu.Lock()
	m.state = State{Err: transport.NormalizeError(reason).Message}
	m.mu.Unlock()
}

func (m *Manager) begin() {
	m.mu.Lock()
	m.state.Loading = true
	m.state.Err = ""
	m.mu.Unlock()
}

// fail clears every session field, records the failure message and leaves the
// session unauthenticated. No partial state survives a failed login/register.
func (m *Manager) fail(err error) {
	m.mu.Lock()
	m.state = State{Err: transport.NormalizeError(err).Message}
	m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		m.log.Error("clearing session store", err)
	}
}

func (m *Manager) establish(payload authPayload) (User, error) {
	st := State{
		User:            payload.User,
		AccessToken:     payload.AccessToken,
		RefreshToken:    payload.RefreshToken,
		IsAuthenticated: payload.User != nil && payload.AccessToken != "",
	}
	m.mu.Lock()
	m.state = st
	m.mu.Unlock()

	if err := m.store.Save(st); err != nil {
		m.log.Error("persisting session", err)
	}
	if payload.User == nil {
		return User{}, ErrNotAuthenticated
	}
	return *payload.User, nil
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.state = State{}
	m.mu.Unlock()
	if err := m.store.Clear(); err != nil {
		m.log.Error("clearing session store", err)
	}
}
