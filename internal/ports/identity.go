package ports

import "context"

// Identity is the stable caller identity behind a bearer credential.
type Identity struct {
	PlayerID    string
	DisplayName string
}

// IdentityPort resolves bearer credentials issued by the auth collaborator.
type IdentityPort interface {
	// Resolve returns the identity for token, or an error when the token is unknown, expired or malformed.
	Resolve(ctx context.Context, token string) (Identity, error)
}
