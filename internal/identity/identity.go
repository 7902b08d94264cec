// Package identity abstracts the external credential store that
// authenticates email+password pairs. The session scheme never trusts the
// provider's own tokens; it only needs a stable user identifier back.
package identity

import (
	"context"
	"errors"
)

// User is the verified account a provider returns
type User struct {
	ID    string
	Email string
}

// Provider authenticates raw credentials against a credential store
type Provider interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
}

// Provider failure categories. Anything else bubbling out of Authenticate
// is an unexpected fault.
var (
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrProviderTimeout = errors.New("identity provider timed out")
)
