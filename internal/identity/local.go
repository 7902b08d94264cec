package identity

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LocalProvider verifies credentials against password digests stored on the
// admins table. Used in development and as a break-glass mode when the
// hosted auth service is unreachable.
type LocalProvider struct {
	db *sqlx.DB
}

// NewLocalProvider creates a local credential provider
func NewLocalProvider(db *sqlx.DB) *LocalProvider {
	return &LocalProvider{db: db}
}

type localCredential struct {
	ID             string         `db:"id"`
	Email          string         `db:"email"`
	PasswordDigest sql.NullString `db:"password_digest"`
}

// Authenticate checks the password against the stored bcrypt digest
func (p *LocalProvider) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var cred localCredential
	query := `SELECT id, email, password_digest FROM admins WHERE email = $1`

	err := p.db.GetContext(ctx, &cred, query, strings.ToLower(email))
	if err == sql.ErrNoRows {
		// Burn a comparison anyway so absent accounts cost the same
		// as wrong passwords.
		_ = VerifyPassword(password, dummyDigest)
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up credential: %w", err)
	}

	if !cred.PasswordDigest.Valid || cred.PasswordDigest.String == "" {
		return nil, ErrBadCredentials
	}

	if err := VerifyPassword(password, cred.PasswordDigest.String); err != nil {
		return nil, ErrBadCredentials
	}

	return &User{ID: cred.ID, Email: strings.ToLower(cred.Email)}, nil
}

// Digest of an unguessable placeholder, kept to equalize timing on unknown
// emails.
var dummyDigest = mustDummyDigest()

func mustDummyDigest() string {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		panic(fmt.Sprintf("failed to generate dummy digest nonce: %v", err))
	}
	digest, err := HashPassword(hex.EncodeToString(nonce))
	if err != nil {
		panic(fmt.Sprintf("failed to generate dummy digest: %v", err))
	}
	return digest
}
