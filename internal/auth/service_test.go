package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/admin"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/identity"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
	apperrors "github.com/ekodaeng/ctgold-admin-gateway/pkg/errors"
)

const testServiceSecret = "auth-service-test-secret-32-chars!!!"

type fakeProvider struct {
	user *identity.User
	err  error
}

func (f fakeProvider) Authenticate(_ context.Context, _, _ string) (*identity.User, error) {
	return f.user, f.err
}

type fakeLimiter struct {
	allowed   bool
	checkErr  error
	failures  int
	successes int
}

func (f *fakeLimiter) CheckLoginAttempt(_ context.Context, _, _ string) (bool, int, time.Duration, error) {
	return f.allowed, 0, time.Minute, f.checkErr
}

func (f *fakeLimiter) RecordFailedAttempt(_ context.Context, _, _ string) error {
	f.failures++
	return nil
}

func (f *fakeLimiter) RecordSuccessfulAttempt(_ context.Context, _, _ string) error {
	f.successes++
	return nil
}

type fakeStore struct {
	byEmail  map[string]*admin.Admin
	upserted *admin.Admin
	activity []string
}

func (f *fakeStore) FindAdminByEmail(_ context.Context, email string) (*admin.Admin, error) {
	return f.byEmail[email], nil
}

func (f *fakeStore) UpsertAdmin(_ context.Context, id, email string, role session.Role, status string) (*admin.Admin, error) {
	f.upserted = &admin.Admin{ID: id, Email: email, Role: role, Status: status}
	return f.upserted, nil
}

func (f *fakeStore) UpdateLastLoginAt(_ context.Context, _ string) error {
	return nil
}

func (f *fakeStore) RecordActivity(_ context.Context, _, action, _, _, _ string) error {
	f.activity = append(f.activity, action)
	return nil
}

func activeAccount(role session.Role) *admin.Admin {
	return &admin.Admin{ID: "u1", Email: "a@x.com", Role: role, Status: admin.StatusActive}
}

func newTestService(store *fakeStore, provider identity.Provider, limiter RateLimiter, allowlist *Allowlist) *Service {
	if allowlist == nil {
		allowlist = NewAllowlist("", "")
	}
	sessions := session.NewService(testServiceSecret, time.Hour)
	return NewService(store, sessions, nil, provider, limiter, allowlist, zap.NewNop())
}

func TestServiceLoginErrorMapping(t *testing.T) {
	providerUser := &identity.User{ID: "u1", Email: "a@x.com"}

	tests := []struct {
		name     string
		store    *fakeStore
		provider fakeProvider
		limiter  *fakeLimiter
		wantErr  *apperrors.AppError
	}{
		{
			name:     "bad credentials",
			store:    &fakeStore{},
			provider: fakeProvider{err: identity.ErrBadCredentials},
			limiter:  &fakeLimiter{allowed: true},
			wantErr:  apperrors.ErrInvalidCredentials,
		},
		{
			name:     "provider timeout",
			store:    &fakeStore{},
			provider: fakeProvider{err: identity.ErrProviderTimeout},
			limiter:  &fakeLimiter{allowed: true},
			wantErr:  apperrors.ErrTimeout,
		},
		{
			name:     "locked out",
			store:    &fakeStore{},
			provider: fakeProvider{user: providerUser},
			limiter:  &fakeLimiter{allowed: false},
			wantErr:  apperrors.ErrRateLimited,
		},
		{
			name: "pending account",
			store: &fakeStore{byEmail: map[string]*admin.Admin{
				"a@x.com": {ID: "u1", Email: "a@x.com", Role: session.RoleAdmin, Status: admin.StatusPending},
			}},
			provider: fakeProvider{user: providerUser},
			limiter:  &fakeLimiter{allowed: true},
			wantErr:  apperrors.ErrAccountPending,
		},
		{
			name: "disabled account",
			store: &fakeStore{byEmail: map[string]*admin.Admin{
				"a@x.com": {ID: "u1", Email: "a@x.com", Role: session.RoleAdmin, Status: admin.StatusDisabled},
			}},
			provider: fakeProvider{user: providerUser},
			limiter:  &fakeLimiter{allowed: true},
			wantErr:  apperrors.ErrAccountInactive,
		},
		{
			name:     "authenticated but not an admin",
			store:    &fakeStore{},
			provider: fakeProvider{user: providerUser},
			limiter:  &fakeLimiter{allowed: true},
			wantErr:  apperrors.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(tt.store, tt.provider, tt.limiter, nil)

			_, err := service.Login(context.Background(), "a@x.com", "pw", "1.2.3.4")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceLoginRecordsFailedAttempt(t *testing.T) {
	limiter := &fakeLimiter{allowed: true}
	service := newTestService(&fakeStore{}, fakeProvider{err: identity.ErrBadCredentials}, limiter, nil)

	if _, err := service.Login(context.Background(), "a@x.com", "pw", "1.2.3.4"); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want %v", err, apperrors.ErrInvalidCredentials)
	}
	if limiter.failures != 1 {
		t.Errorf("recorded failures = %d, want 1", limiter.failures)
	}
	if limiter.successes != 0 {
		t.Errorf("recorded successes = %d, want 0", limiter.successes)
	}
}

func TestServiceLoginSuccess(t *testing.T) {
	store := &fakeStore{byEmail: map[string]*admin.Admin{
		"a@x.com": activeAccount(session.RoleAdmin),
	}}
	limiter := &fakeLimiter{allowed: true}
	service := newTestService(store, fakeProvider{user: &identity.User{ID: "u1", Email: "a@x.com"}}, limiter, nil)

	result, err := service.Login(context.Background(), "A@X.Com", "pw", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	claims, err := service.sessions.Verify(result.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Email != "a@x.com" || claims.Role != session.RoleAdmin || claims.UserID != "u1" {
		t.Errorf("claims = %+v, want a@x.com/admin/u1", claims)
	}

	if limiter.successes != 1 {
		t.Errorf("recorded successes = %d, want 1", limiter.successes)
	}
	if len(store.activity) != 1 || store.activity[0] != "login" {
		t.Errorf("activity trail = %v, want [login]", store.activity)
	}
}

func TestServiceLoginBootstrapsFromAllowlist(t *testing.T) {
	store := &fakeStore{}
	allowlist := NewAllowlist("root@x.com", "")
	service := newTestService(store, fakeProvider{user: &identity.User{ID: "u9", Email: "root@x.com"}}, &fakeLimiter{allowed: true}, allowlist)

	result, err := service.Login(context.Background(), "root@x.com", "pw", "1.2.3.4")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	if store.upserted == nil {
		t.Fatal("first login should create the admin record")
	}
	if store.upserted.Role != session.RoleSuperAdmin || store.upserted.Status != admin.StatusActive {
		t.Errorf("bootstrapped account = %+v, want active super_admin", store.upserted)
	}
	if result.Claims.Role != session.RoleSuperAdmin {
		t.Errorf("claims role = %q, want %q", result.Claims.Role, session.RoleSuperAdmin)
	}
}

func TestServiceLoginBrokenLimiterDoesNotBlock(t *testing.T) {
	store := &fakeStore{byEmail: map[string]*admin.Admin{
		"a@x.com": activeAccount(session.RoleAdmin),
	}}
	limiter := &fakeLimiter{checkErr: errors.New("redis down")}
	service := newTestService(store, fakeProvider{user: &identity.User{ID: "u1", Email: "a@x.com"}}, limiter, nil)

	if _, err := service.Login(context.Background(), "a@x.com", "pw", "1.2.3.4"); err != nil {
		t.Errorf("Login() with a failing limiter should still succeed, got %v", err)
	}
}
