package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_roleHelpers(t *testing.T) {
	tests := []struct {
		role      string
		isStudent bool
		isTeacher bool
		isAdmin   bool
	}{
		{role: RoleStudent, isStudent: true},
		{role: RoleTeacher, isTeacher: true},
		{role: RoleAdmin, isAdmin: true},
		{role: "superuser"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			usr := &User{Role: tt.role}
			assert.Equal(t, tt.isStudent, usr.IsStudent())
			assert.Equal(t, tt.isTeacher, usr.IsTeacher())
			assert.Equal(t, tt.isAdmin, usr.IsAdmin())
			assert.Equal(t, tt.isStudent || tt.isTeacher || tt.isAdmin, usr.HasRole(AllRoles...))
			assert.False(t, usr.HasRole())
		})
	}
}

func TestState_transientFieldsNotSerialized(t *testing.T) {
	data, err := json.Marshal(State{
		User:            &User{ID: "u1"},
		AccessToken:     "T1",
		RefreshToken:    "R1",
		IsAuthenticated: true,
		Loading:         true,
		Err:             "lol",
	})
	assert.NoError(t, err)

	var raw map[string]interface{}
	assert.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "user")
	assert.Contains(t, raw, "accessToken")
	assert.Contains(t, raw, "refreshToken")
	assert.NotContains(t, raw, "IsAuthenticated")
	assert.NotContains(t, raw, "Loading")
	assert.NotContains(t, raw, "Err")
}
