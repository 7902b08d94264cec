package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/admin"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/identity"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
	apperrors "github.com/ekodaeng/ctgold-admin-gateway/pkg/errors"
)

// RateLimiter interface for login rate limiting
type RateLimiter interface {
	CheckLoginAttempt(ctx context.Context, email, ipAddress string) (allowed bool, remaining int, lockoutRemaining time.Duration, err error)
	RecordFailedAttempt(ctx context.Context, email, ipAddress string) error
	RecordSuccessfulAttempt(ctx context.Context, email, ipAddress string) error
}

// AccountStore persists admin accounts and their activity trail
type AccountStore interface {
	FindAdminByEmail(ctx context.Context, email string) (*admin.Admin, error)
	UpsertAdmin(ctx context.Context, id, email string, role session.Role, status string) (*admin.Admin, error)
	UpdateLastLoginAt(ctx context.Context, id string) error
	RecordActivity(ctx context.Context, adminID, action, resource, detail, ip string) error
}

// Service handles login, session checks and logout
type Service struct {
	repo        AccountStore
	sessions    *session.Service
	denylist    *session.Denylist
	provider    identity.Provider
	rateLimiter RateLimiter
	allowlist   *Allowlist
	logger      *zap.Logger
}

// NewService creates a new authentication service
func NewService(
	repo AccountStore,
	sessions *session.Service,
	denylist *session.Denylist,
	provider identity.Provider,
	rateLimiter RateLimiter,
	allowlist *Allowlist,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:        repo,
		sessions:    sessions,
		denylist:    denylist,
		provider:    provider,
		rateLimiter: rateLimiter,
		allowlist:   allowlist,
		logger:      logger,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult carries everything the login response needs
type LoginResult struct {
	Token  string
	Claims *session.Claims
	Admin  *admin.Admin
}

// Login authenticates credentials against the identity provider, resolves
// the caller's admin record and role, and mints a session token. All
// expected failures come back as *apperrors.AppError so the handler can
// map them straight onto the wire.
func (s *Service) Login(ctx context.Context, email, password, ipAddress string) (*LoginResult, error) {
	email = SanitizeEmail(email)

	if s.rateLimiter != nil {
		allowed, _, lockoutRemaining, err := s.rateLimiter.CheckLoginAttempt(ctx, email, ipAddress)
		if err != nil {
			// A broken limiter should not lock everyone out
			s.logger.Warn("rate limiter check failed", zap.Error(err))
		} else if !allowed {
			s.logger.Info("login locked out",
				zap.String("email", email),
				zap.Duration("remaining", lockoutRemaining),
			)
			return nil, apperrors.ErrRateLimited
		}
	}

	user, err := s.provider.Authenticate(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrBadCredentials):
			s.recordFailure(ctx, email, ipAddress)
			return nil, apperrors.ErrInvalidCredentials
		case errors.Is(err, identity.ErrProviderTimeout):
			return nil, apperrors.ErrTimeout
		default:
			s.logger.Error("identity provider failure", zap.Error(err))
			return nil, fmt.Errorf("identity provider failure: %w", err)
		}
	}

	account, err := s.resolveAdmin(ctx, user)
	if err != nil {
		return nil, err
	}

	switch account.Status {
	case admin.StatusActive:
		// Proceed
	case admin.StatusPending:
		return nil, apperrors.ErrAccountPending
	default:
		return nil, apperrors.ErrAccountInactive
	}

	if s.rateLimiter != nil {
		_ = s.rateLimiter.RecordSuccessfulAttempt(ctx, email, ipAddress)
	}

	if err := s.repo.UpdateLastLoginAt(ctx, account.ID); err != nil {
		s.logger.Warn("failed to stamp last login", zap.Error(err))
	}
	if err := s.repo.RecordActivity(ctx, account.ID, "login", "session", "", ipAddress); err != nil {
		s.logger.Warn("failed to record login activity", zap.Error(err))
	}

	token, claims, err := s.sessions.Issue(session.Identity{
		Email:  account.Email,
		Role:   account.Role,
		UserID: account.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &LoginResult{Token: token, Claims: claims, Admin: account}, nil
}

// resolveAdmin loads the admin record, bootstrapping one from the email
// allowlists on first login. Accounts outside the allowlists with no
// existing record are not admins at all.
func (s *Service) resolveAdmin(ctx context.Context, user *identity.User) (*admin.Admin, error) {
	account, err := s.repo.FindAdminByEmail(ctx, user.Email)
	if err != nil {
		s.logger.Error("admin lookup failed", zap.Error(err))
		return nil, apperrors.ErrDBError
	}
	if account != nil {
		return account, nil
	}

	role, ok := s.allowlist.RoleFor(user.Email)
	if !ok {
		return nil, apperrors.ErrForbidden
	}

	account, err = s.repo.UpsertAdmin(ctx, user.ID, user.Email, role, admin.StatusActive)
	if err != nil {
		s.logger.Error("admin bootstrap failed", zap.Error(err))
		return nil, apperrors.ErrDBError
	}

	s.logger.Info("bootstrapped admin from allowlist",
		zap.String("email", user.Email),
		zap.String("role", string(role)),
	)

	return account, nil
}

func (s *Service) recordFailure(ctx context.Context, email, ipAddress string) {
	if s.rateLimiter != nil {
		_ = s.rateLimiter.RecordFailedAttempt(ctx, email, ipAddress)
	}
}

// Logout revokes the presented token until its natural expiry. A token
// that no longer verifies is already useless, so logout succeeds for it.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := s.sessions.Verify(token)
	if err != nil {
		return nil
	}

	if err := s.denylist.Add(ctx, token, claims.ExpiryTime()); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	if err := s.repo.RecordActivity(ctx, claims.UserID, "logout", "session", "", ""); err != nil {
		s.logger.Warn("failed to record logout activity", zap.Error(err))
	}

	return nil
}
