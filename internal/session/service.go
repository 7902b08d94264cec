package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Rejection reasons returned by Verify. These are expected outcomes, not
// faults, so callers branch on them rather than unwrapping.
var (
	ErrMalformedToken = errors.New("malformed session token")
	ErrBadSignature   = errors.New("session token signature mismatch")
	ErrExpiredToken   = errors.New("session token expired")
)

// Identity is the verified caller a token is minted for
type Identity struct {
	Email  string
	Role   Role
	UserID string
}

// Service issues and verifies signed session tokens. The wire format is
// base64url(JSON(claims)) + "." + base64url(HMAC-SHA256(secret, payload)).
type Service struct {
	signer *signer
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a new session token service
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		signer: newSigner(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// TTL returns the configured session lifetime
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue mints a token for a verified identity. Issuance is pure token
// construction; persisting any admin-side record is the caller's job.
func (s *Service) Issue(identity Identity) (string, *Claims, error) {
	issuedAt := s.now()
	claims := &Claims{
		Email:    strings.ToLower(identity.Email),
		Role:     NormalizeRole(string(identity.Role)),
		UserID:   identity.UserID,
		IssuedAt: issuedAt.UnixMilli(),
		Expiry:   issuedAt.Add(s.ttl).UnixMilli(),
	}

	payload, err := EncodeClaims(claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode claims: %w", err)
	}

	return payload + "." + s.signer.Sign(payload), claims, nil
}

// Verify accepts or rejects a token. The signature is checked over the raw
// payload segment before anything is decoded, so tampered payloads never
// reach the JSON parser.
func (s *Service) Verify(token string) (*Claims, error) {
	payload, signature, ok := splitToken(token)
	if !ok {
		return nil, ErrMalformedToken
	}

	if !s.signer.Verify(payload, signature) {
		return nil, ErrBadSignature
	}

	claims, err := DecodeClaims(payload)
	if err != nil {
		return nil, err
	}

	if claims.ExpiredAt(s.now()) {
		return nil, ErrExpiredToken
	}

	return claims, nil
}

// splitToken splits a token on its single "." separator
func splitToken(token string) (payload, signature string, ok bool) {
	if token == "" || strings.ContainsAny(token, " \t\r\n") {
		return "", "", false
	}
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
