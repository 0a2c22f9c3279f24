package session

import (
	"github.com/volatiletech/null/v8"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

// User is the identity record of the logged-in account as returned by the API.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`

	// optional profile fields; the server may omit any of them
	SchoolID  null.String `json:"school_id,omitempty"`
	AvatarURL null.String `json:"avatar_url,omitempty"`
	LastLogin null.Time   `json:"last_login,omitempty"`
}

func (u *User) HasRole(roles ...string) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u *User) IsAdmin() bool   { return u.Role == RoleAdmin }

// State is the authenticated session state.
//
// Invariant: IsAuthenticated is true if and only if both User and AccessToken
// are present. Loading and Err are transient and never persisted.
type State struct {
	User            *User  `json:"user,omitempty"`
	AccessToken     string `json:"accessToken,omitempty"`
	RefreshToken    string `json:"refreshToken,omitempty"`
	IsAuthenticated bool   `json:"-"`
	Loading         bool   `json:"-"`
	Err             string `json:"-"`
}

// Store persists the durable subset of State (User, AccessToken, RefreshToken)
// across process restarts. Load derives IsAuthenticated and must return an
// empty State (not an error) when nothing is persisted yet.
type Store interface {
	Load() (State, error)
	Save(state State) error
	Clear() error
}
