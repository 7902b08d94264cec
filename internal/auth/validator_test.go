package auth

import (
	"strings"
	"testing"
)

func TestValidateLoginRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     LoginRequest
		wantErr bool
		wantMsg string
	}{
		{
			name: "valid request",
			req:  LoginRequest{Email: "admin@ctgold.example", Password: "secret"},
		},
		{
			name:    "missing email",
			req:     LoginRequest{Password: "secret"},
			wantErr: true,
			wantMsg: "Email is required",
		},
		{
			name:    "missing password",
			req:     LoginRequest{Email: "admin@ctgold.example"},
			wantErr: true,
			wantMsg: "Password is required",
		},
		{
			name:    "bad email format",
			req:     LoginRequest{Email: "not-an-email", Password: "secret"},
			wantErr: true,
			wantMsg: "Email format is invalid",
		},
		{
			name:    "both missing",
			req:     LoginRequest{},
			wantErr: true,
			wantMsg: "email: Email is required; password: Password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLoginRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateLoginRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"admin@ctgold.example", true},
		{"first.last+tag@sub.domain.co", true},
		{"  padded@ctgold.example  ", true},
		{"", false},
		{"no-at-sign", false},
		{"missing@tld", false},
		{"@no-local.example", false},
		{strings.Repeat("a", 250) + "@x.co", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Admin@CTGold.Example", "admin@ctgold.example"},
		{"  spaced@x.com  ", "spaced@x.com"},
		{"already@lower.com", "already@lower.com"},
	}

	for _, tt := range tests {
		if got := SanitizeEmail(tt.in); got != tt.want {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
