package session

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Role is the canonical privilege level carried by a session
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// NormalizeRole maps the role spellings seen in the wild onto the canonical
// enumeration. Unknown strings pass through lowercased so the policy layer
// can fail closed on them.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "super_admin", "superadmin":
		return RoleSuperAdmin
	default:
		return Role(strings.ToLower(strings.TrimSpace(raw)))
	}
}

// Known reports whether the role is one of the canonical values
func (r Role) Known() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Claims is the signed content of a session token. Timestamps are epoch
// milliseconds to match the wire contract consumed by the dashboard.
type Claims struct {
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	UserID   string `json:"user_id"`
	IssuedAt int64  `json:"iat"`
	Expiry   int64  `json:"exp"`
}

// IssuedTime returns the issue instant as a time.Time
func (c *Claims) IssuedTime() time.Time {
	return time.UnixMilli(c.IssuedAt)
}

// ExpiryTime returns the expiry instant as a time.Time
func (c *Claims) ExpiryTime() time.Time {
	return time.UnixMilli(c.Expiry)
}

// ExpiredAt reports whether the claims are expired at the given instant.
// A token is invalid at and after its expiry instant.
func (c *Claims) ExpiredAt(now time.Time) bool {
	return now.UnixMilli() >= c.Expiry
}

// payloadEncoding is the URL-safe alphabet used for both the claims segment
// and the signature segment of a token
var payloadEncoding = base64.RawURLEncoding

// EncodeClaims serializes claims to the URL-safe payload segment
func EncodeClaims(c *Claims) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return payloadEncoding.EncodeToString(raw), nil
}

// DecodeClaims parses a payload segment back into claims. Malformed base64,
// malformed JSON, and missing or mistyped fields all come back as
// ErrMalformedToken.
func DecodeClaims(segment string) (*Claims, error) {
	raw, err := payloadEncoding.DecodeString(segment)
	if err != nil {
		return nil, ErrMalformedToken
	}

	// Decode into a loose map first so absent fields can be told apart
	// from zero values.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, ErrMalformedToken
	}
	for _, required := range []string{"email", "role", "user_id", "iat", "exp"} {
		if _, ok := fields[required]; !ok {
			return nil, ErrMalformedToken
		}
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, ErrMalformedToken
	}
	if claims.Email == "" || claims.Role == "" || claims.UserID == "" {
		return nil, ErrMalformedToken
	}

	claims.Email = strings.ToLower(claims.Email)
	claims.Role = NormalizeRole(string(claims.Role))
	return &claims, nil
}
