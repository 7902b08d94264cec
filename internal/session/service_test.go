package session

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-signing-secret-minimum-32-chars"

func testIdentity() Identity {
	return Identity{
		Email:  "a@x.com",
		Role:   RoleAdmin,
		UserID: "u1",
	}
}

func TestService_IssueAndVerify(t *testing.T) {
	service := NewService(testSecret, 168*time.Hour)

	token, issued, err := service.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}
	if got := strings.Count(token, "."); got != 1 {
		t.Fatalf("token has %d separators, want 1", got)
	}

	claims, err := service.Verify(token)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}

	if claims.Email != "a@x.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "a@x.com")
	}
	if claims.Role != RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleAdmin)
	}
	if claims.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "u1")
	}
	if claims.IssuedAt != issued.IssuedAt {
		t.Errorf("IssuedAt = %d, want %d", claims.IssuedAt, issued.IssuedAt)
	}
	if got := claims.Expiry - claims.IssuedAt; got != (168 * time.Hour).Milliseconds() {
		t.Errorf("Expiry - IssuedAt = %dms, want %dms", got, (168 * time.Hour).Milliseconds())
	}
}

func TestService_IssueNormalizesIdentity(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, _, err := service.Issue(Identity{
		Email:  "Admin@CTGOLD.example",
		Role:   Role("SuperAdmin"),
		UserID: "u2",
	})
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	claims, err := service.Verify(token)
	if err != nil {
		t.Fatalf("Verify() failed: %v", err)
	}

	if claims.Email != "admin@ctgold.example" {
		t.Errorf("Email = %q, want lowercased", claims.Email)
	}
	if claims.Role != RoleSuperAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, RoleSuperAdmin)
	}
}

func TestService_VerifyMalformed(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"no separator", "abcdef"},
		{"two separators", "a.b.c"},
		{"empty payload", ".signature"},
		{"empty signature", "payload."},
		{"whitespace", "pay load.sig"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Verify(tt.token)
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("Verify(%q) error = %v, want ErrMalformedToken", tt.token, err)
			}
		})
	}
}

func TestService_VerifyGarbagePayload(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	// Correctly signed, but the payload is not claims JSON. The signature
	// passes and the decode step must reject.
	payload := payloadEncoding.EncodeToString([]byte("not-json"))
	token := payload + "." + newSigner(testSecret).Sign(payload)

	_, err := service.Verify(token)
	if !errors.Is(err, ErrMalformedToken) {
		t.Errorf("Verify() error = %v, want ErrMalformedToken", err)
	}
}

func TestService_TamperDetection(t *testing.T) {
	service := NewService(testSecret, time.Hour)

	token, _, err := service.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	payload := token[:strings.IndexByte(token, '.')]
	for i := 0; i < len(payload); i++ {
		flipped := flipChar(token, i)
		if flipped == token {
			continue
		}
		if _, err := service.Verify(flipped); err == nil {
			t.Fatalf("Verify() accepted token with payload byte %d flipped", i)
		}
	}
}

func flipChar(s string, i int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := []byte(s)
	for _, c := range []byte(alphabet) {
		if c != b[i] {
			b[i] = c
			break
		}
	}
	return string(b)
}

func TestService_SecretSensitivity(t *testing.T) {
	issuer := NewService("first-signing-secret-minimum-32-chars!!", time.Hour)
	verifier := NewService("other-signing-secret-minimum-32-chars!!", time.Hour)

	token, _, err := issuer.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("Verify() error = %v, want ErrBadSignature", err)
	}
}

func TestService_ExpiryBoundary(t *testing.T) {
	issued := time.Now()

	tests := []struct {
		name    string
		ttl     time.Duration
		verify  time.Time
		wantErr error
	}{
		{"expired one ms ago", time.Hour, issued.Add(time.Hour + time.Millisecond), ErrExpiredToken},
		{"expires exactly now", time.Hour, issued.Add(time.Hour), ErrExpiredToken},
		{"one ms before expiry", time.Hour, issued.Add(time.Hour - time.Millisecond), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(testSecret, tt.ttl)
			service.now = func() time.Time { return issued }

			token, _, err := service.Issue(testIdentity())
			if err != nil {
				t.Fatalf("Issue() failed: %v", err)
			}

			service.now = func() time.Time { return tt.verify }
			_, err = service.Verify(token)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Verify() error = %v, want nil", err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("Verify() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
