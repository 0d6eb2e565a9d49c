package nakama

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

func TestAfterAuthenticateDevice_OnboardsNewAccounts(t *testing.T) {
	nk := newFakeNakama()
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "u1")

	if err := AfterAuthenticateDevice(ctx, noopLogger{}, nil, nk, &api.Session{Created: true}, &api.AuthenticateDeviceRequest{}); err != nil {
		t.Fatalf("AfterAuthenticateDevice: %v", err)
	}
	if nk.names["u1"] == "" {
		t.Fatal("new account was not named")
	}
	if name := callerName(ctx, nk, "u1"); name != nk.names["u1"] {
		t.Fatalf("callerName = %q, want %q", name, nk.names["u1"])
	}
	stats, err := NewNakamaStorageAdapter(nk).PlayerStats(ctx, "u1")
	if err != nil || stats.GamesPlayed != 0 {
		t.Fatalf("stats = %+v, %v", stats, err)
	}

	// Returning accounts are left alone.
	if err := AfterAuthenticateDevice(userCtx("u2"), noopLogger{}, nil, nk, &api.Session{Created: false}, &api.AuthenticateDeviceRequest{}); err != nil {
		t.Fatalf("AfterAuthenticateDevice: %v", err)
	}
	if _, ok := nk.names["u2"]; ok {
		t.Fatal("existing account renamed")
	}
}

func TestAfterAuthenticateDevice_StorageFailure(t *testing.T) {
	nk := newFakeNakama()
	nk.failWrites = true
	ctx := context.WithValue(context.Background(), runtime.RUNTIME_CTX_USER_ID, "u1")
	if err := AfterAuthenticateDevice(ctx, noopLogger{}, nil, nk, &api.Session{Created: true}, &api.AuthenticateDeviceRequest{}); err == nil {
		t.Fatal("expected stats failure to surface")
	}
}

func TestExtractUserIDFromToken(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"uid":"u7","usn":"someone"}`))
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr bool
	}{
		{"Valid", "header." + payload + ".sig", "u7", false},
		{"WrongParts", "only.two", "", true},
		{"BadBase64", "header.!!!.sig", "", true},
		{"MissingUID", "header." + base64.RawURLEncoding.EncodeToString([]byte(`{"usn":"x"}`)) + ".sig", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractUserIDFromToken(tt.token)
			if (err != nil) != tt.wantErr || got != tt.want {
				t.Fatalf("extractUserIDFromToken = %q, %v", got, err)
			}
		})
	}
}
