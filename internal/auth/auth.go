// Package auth issues and verifies the bearer tokens that carry the caller's
// organization and role into every API request.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrNoSecret     = errors.New("jwt secret is not configured")
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
	RoleClient  Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff, RoleClient:
		return true
	}

	return false
}

// Identity is the authenticated caller. ClientID is set for the client role
// only and names the client record the caller acts for.
type Identity struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Role           Role
	ClientID       *uuid.UUID
}

// Claims is the token payload. The user ID travels in the registered subject.
type Claims struct {
	OrganizationID string `json:"org_id"`
	Role           Role   `json:"role"`
	ClientID       string `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewManager(secret, issuer string) (*Manager, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}

	return &Manager{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue signs an HS256 token for id that expires after ttl.
func (m *Manager) Issue(id Identity, ttl time.Duration) (string, error) {
	if !id.Role.Valid() {
		return "", fmt.Errorf("unknown role %q", id.Role)
	}

	var clientID string

	switch {
	case id.Role == RoleClient && id.ClientID == nil:
		return "", errors.New("client role requires a client id")
	case id.Role == RoleClient:
		clientID = id.ClientID.String()
	case id.ClientID != nil:
		return "", fmt.Errorf("role %q must not carry a client id", id.Role)
	}

	now := m.now()
	claims := Claims{
		OrganizationID: id.OrganizationID.String(),
		Role:           id.Role,
		ClientID:       clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify parses a token and returns the identity it carries.
func (m *Manager) Verify(token string) (Identity, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrExpiredToken
		}

		return Identity{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	orgID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	if !claims.Role.Valid() {
		return Identity{}, ErrInvalidToken
	}

	id := Identity{UserID: userID, OrganizationID: orgID, Role: claims.Role}

	if claims.Role == RoleClient {
		clientID, err := uuid.Parse(claims.ClientID)
		if err != nil {
			return Identity{}, ErrInvalidToken
		}

		id.ClientID = &clientID
	}

	return id, nil
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
