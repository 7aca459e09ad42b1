package session

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrOpaqueToken is returned by Claims when the token is not a JWT.
	ErrOpaqueToken = errors.New("session: token is not a JWT")
	// ErrNotAuthenticated is returned by Claims when no token is held.
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

// Claims is what the profile header shows about the current token. It is
// read without verifying the signature and must never drive authorization.
type Claims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

type peekClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Claims peeks into the current token.
func (m *Manager) Claims() (Claims, error) {
	cred := m.State()
	if !cred.Authenticated() {
		return Claims{}, ErrNotAuthenticated
	}

	var pc peekClaims
	if _, _, err := jwt.NewParser().ParseUnverified(cred.Token, &pc); err != nil {
		return Claims{}, ErrOpaqueToken
	}

	out := Claims{Subject: pc.Subject, Email: pc.Email}
	if pc.ExpiresAt != nil {
		out.ExpiresAt = pc.ExpiresAt.Time
	}
	return out, nil
}
