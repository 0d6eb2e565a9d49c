package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"euchre/internal/ports"

	"github.com/form3tech-oss/jwt-go"
)

// DefaultTokenTTL bounds how long a socket credential stays valid.
const DefaultTokenTTL = 24 * time.Hour

// ErrInvalidToken is returned when a bearer credential cannot be resolved to a player.
var ErrInvalidToken = errors.New("invalid auth token")

// TokenService issues and verifies HS256 bearer tokens carrying a player id and display name.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a TokenService. A non-positive ttl selects DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the player.
func (s *TokenService) Issue(playerID, displayName string) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", fmt.Errorf("token service is not configured")
	}
	if playerID == "" {
		return "", ErrMissingPlayerID
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  playerID,
		"name": displayName,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Resolve verifies signature and expiry and returns the identity in the token.
func (s *TokenService) Resolve(ctx context.Context, token string) (ports.Identity, error) {
	if token == "" {
		return ports.Identity{}, ErrInvalidToken
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ports.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ports.Identity{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return ports.Identity{}, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	name, _ := claims["name"].(string)
	return ports.Identity{PlayerID: sub, DisplayName: name}, nil
}

var _ ports.IdentityPort = (*TokenService)(nil)
