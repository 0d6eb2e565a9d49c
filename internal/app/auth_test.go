package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	token, err := svc.Issue("player-1", "Ann")
	if err != nil {
		t.Fatalf("issue error: %v", err)
	}

	id, err := svc.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if id.PlayerID != "player-1" || id.DisplayName != "Ann" {
		t.Fatalf("identity = %+v", id)
	}
}

func TestTokenServiceRejects(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	expired := NewTokenService("test-secret", -time.Minute)
	other := NewTokenService("other-secret", time.Hour)

	expiredToken, _ := expired.Issue("p", "P")
	foreignToken, _ := other.Issue("p", "P")
	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "p"}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"Empty", ""},
		{"Garbage", "not-a-token"},
		{"Expired", expiredToken},
		{"WrongSecret", foreignToken},
		{"UnsignedAlgNone", noneToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Resolve(context.Background(), tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenServiceIssueRequiresPlayer(t *testing.T) {
	if _, err := NewTokenService("s", 0).Issue("", "x"); !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
	if _, err := NewTokenService("", 0).Issue("p", "x"); err == nil {
		t.Fatalf("expected error for unconfigured secret")
	}
}
