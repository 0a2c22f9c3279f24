package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/darasalabs/darasa/api"
	"github.com/darasalabs/darasa/core/session"
)

// FakeAPI is an in-process stand-in for the Darasa backend, implementing the
// auth contract (register/login/logout/refresh/me) plus just enough of the
// domain endpoints to drive the client through realistic flows. Behaviors are
// scriptable: access tokens can be revoked mid-flight and refresh can be made
// to fail, which is how the 401-recovery paths get exercised.
type FakeAPI struct {
	mu sync.Mutex

	srv *httptest.Server

	users         map[string]*fakeAccount // by email
	accessTokens  map[string]string       // access token -> user ID
	refreshTokens map[string]string       // refresh token -> user ID
	tokenSeq      int

	// scriptable behaviors
	FailRefresh   bool // refresh endpoint rejects every token
	EmptyMe       bool // /auth/me responds 200 without a user record
	RefreshCalls  int
	LogoutCalls   int
	ProtectedHits int
}

type fakeAccount struct {
	user     session.User
	password string
}

func NewFakeAPI() *FakeAPI {
	f := &FakeAPI{
		users:         make(map[string]*fakeAccount),
		accessTokens:  make(map[string]string),
		refreshTokens: make(map[string]string),
	}

	e := echo.New()
	e.POST("/auth/register", f.handleRegister)
	e.POST("/auth/login", f.handleLogin)
	e.POST("/auth/refresh", f.handleRefresh)
	e.POST("/auth/logout", f.handleLogout)
	e.GET("/auth/me", f.handleMe)

	e.GET("/activities", f.handleActivities)
	e.GET("/protected", f.handleProtected)
	e.GET("/boom", f.handleBoom)

	f.srv = httptest.NewServer(e)
	return f
}

func (f *FakeAPI) URL() string { return f.srv.URL }
func (f *FakeAPI) Close()      { f.srv.Close() }

// AddUser registers an account directly, bypassing the register endpoint.
func (f *FakeAPI) AddUser(name, email, password, role string) session.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	usr := session.User{
		ID:    fmt.Sprintf("u%d", len(f.users)+1),
		Name:  name,
		Email: email,
		Role:  role,
	}
	f.users[email] = &fakeAccount{user: usr, password: password}
	return usr
}

// RevokeAccessTokens invalidates every issued access token while leaving
// refresh tokens valid - the "token just expired" scenario.
func (f *FakeAPI) RevokeAccessTokens() {
	f.mu.Lock()
	f.accessTokens = make(map[string]string)
	f.mu.Unlock()
}

func (f *FakeAPI) issueTokens(userID string) (string, string) {
	f.tokenSeq++
	access := fmt.Sprintf("T%d", f.tokenSeq)
	refresh := fmt.Sprintf("R%d", f.tokenSeq)
	f.accessTokens[access] = userID
	f.refreshTokens[refresh] = userID
	return access, refresh
}

func (f *FakeAPI) userByToken(ctx echo.Context) (session.User, bool) {
	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return session.User{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.accessTokens[parts[1]]
	if !ok {
		return session.User{}, false
	}
	for _, acc := range f.users {
		if acc.user.ID == userID {
			return acc.user, true
		}
	}
	return session.User{}, false
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (f *FakeAPI) handleLogin(ctx echo.Context) error {
	var creds credentials
	if err := ctx.Bind(&creds); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	acc, ok := f.users[creds.Email]
	if !ok || acc.password != creds.Password {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid credentials"})
	}

	access, refresh := f.issueTokens(acc.user.ID)
	return ctx.JSON(http.StatusOK, echo.Map{
		"user":         acc.user,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

func (f *FakeAPI) handleRegister(ctx echo.Context) error {
	var reg registration
	if err := ctx.Bind(&reg); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[reg.Email]; exists {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "a user with this email already exists"})
	}

	usr := session.User{
		ID:    fmt.Sprintf("u%d", len(f.users)+1),
		Name:  reg.Name,
		Email: reg.Email,
		Role:  reg.Role,
	}
	f.users[reg.Email] = &fakeAccount{user: usr, password: reg.Password}

	access, refresh := f.issueTokens(usr.ID)
	return ctx.JSON(http.StatusCreated, echo.Map{
		"user":         usr,
		"accessToken":  access,
		"refreshToken": refresh,
	})
}

func (f *FakeAPI) handleRefresh(ctx echo.Context) error {
	var req refreshRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request"})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.RefreshCalls++

	userID, ok := f.refreshTokens[req.RefreshToken]
	if f.FailRefresh || !ok {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid refresh token"})
	}

	f.tokenSeq++
	access := fmt.Sprintf("T%d", f.tokenSeq)
	f.accessTokens[access] = userID
	return ctx.JSON(http.StatusOK, echo.Map{"accessToken": access})
}

func (f *FakeAPI) handleLogout(ctx echo.Context) error {
	f.mu.Lock()
	f.LogoutCalls++
	f.mu.Unlock()
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (f *FakeAPI) handleMe(ctx echo.Context) error {
	usr, ok := f.userByToken(ctx)
	if !ok {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
	}
	if f.EmptyMe {
		return ctx.JSON(http.StatusOK, echo.Map{"user": nil})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"user": usr})
}

func (f *FakeAPI) handleActivities(ctx echo.Context) error {
	if _, ok := f.userByToken(ctx); !ok {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
	}
	return ctx.JSON(http.StatusOK, []api.Activity{
		{
			ID:        "a1",
			Type:      api.ActivitySpeaking,
			Title:     "Describe your weekend",
			Prompt:    "Record a 2 minute description of your weekend.",
			MaxScore:  100,
			DueAt:     null.TimeFrom(time.Now().Add(48 * time.Hour).UTC()),
			CreatedAt: time.Now().UTC(),
		},
	})
}

// handleProtected counts authenticated hits; used by the retry tests.
func (f *FakeAPI) handleProtected(ctx echo.Context) error {
	f.mu.Lock()
	f.ProtectedHits++
	f.mu.Unlock()

	if _, ok := f.userByToken(ctx); !ok {
		return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "invalid token"})
	}
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}

func (f *FakeAPI) handleBoom(ctx echo.Context) error {
	return ctx.JSON(http.StatusInternalServerError, echo.Map{"message": "boom"})
}
