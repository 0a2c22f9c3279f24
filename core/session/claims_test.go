package session

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

func TestPeekClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		StandardClaims: jwt.StandardClaims{Subject: "u1", ExpiresAt: exp},
		Email:          "alice@test.cd",
		Role:           RoleStudent,
	}).SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("signing test token failed, %v", err)
	}

	claims, err := PeekClaims(token)
	if err != nil {
		t.Fatalf("PeekClaims() failed, %v", err)
	}
	if claims.Subject != "u1" || claims.Email != "alice@test.cd" || claims.Role != RoleStudent {
		t.Errorf("claims = %+v", claims)
	}
	if left := claims.ExpiresIn(); left <= 0 || left > time.Hour {
		t.Errorf("ExpiresIn() = %s", left)
	}

	t.Run("garbage token", func(t *testing.T) {
		if _, err := PeekClaims("not.a.jwt"); err == nil {
			t.Error("PeekClaims() expected error, got nil")
		}
	})

	t.Run("no exp claim", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{Email: "a@b.cd"}).
			SignedString([]byte("irrelevant"))
		if err != nil {
			t.Fatal(err)
		}
		claims, err := PeekClaims(token)
		if err != nil {
			t.Fatalf("PeekClaims() failed, %v", err)
		}
		if claims.ExpiresIn() != 0 {
			t.Errorf("ExpiresIn() = %s, want 0", claims.ExpiresIn())
		}
	})
}
