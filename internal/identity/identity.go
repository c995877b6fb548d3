// Package identity resolves bearer credentials to platform users.
package identity

import (
	"context"
	"errors"

	"github.com/openclass/live/internal/domain"
)

var (
	// ErrMissingCredential is returned when no bearer token was supplied.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidCredential is returned for malformed or unrecognized tokens.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrExpiredCredential is returned for tokens past their expiry.
	ErrExpiredCredential = errors.New("credential expired")
)

// Identity is what a verified credential resolves to.
type Identity struct {
	UserID      domain.UserID
	DisplayName string
	Role        string
}

// Verifier validates a bearer credential exactly once per handshake.
// Implementations may call out over the network, so verification is the
// one suspension point of the connection accept path.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}
