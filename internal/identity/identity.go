// Package identity wraps the external identity provider. The rest of the
// application only ever sees a verified user id and email.
package identity

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type User struct {
	ID    string
	Email string
}

type Session struct {
	AccessToken string
	User        User
}

type Provider interface {
	// SignIn exchanges email/password for a bearer token.
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// Verify validates a bearer token and returns the user it belongs to.
	Verify(ctx context.Context, token string) (*User, error)
}
