package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/admin"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/policy"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
	apperrors "github.com/ekodaeng/ctgold-admin-gateway/pkg/errors"
	"github.com/ekodaeng/ctgold-admin-gateway/pkg/response"
)

// Context keys set by the session middleware
const (
	ContextClaims = session.ContextClaims
	ContextAdmin  = session.ContextAdmin
	ContextToken  = session.ContextToken
)

// Revocations reports whether a token has been revoked
type Revocations interface {
	Contains(ctx context.Context, token string) (bool, error)
}

// AccountSource loads the admin record behind a verified session
type AccountSource interface {
	FindAdminByID(ctx context.Context, id string) (*admin.Admin, error)
}

// Session authenticates a request: extract the credential, check the
// denylist, verify signature and expiry, then re-read the admin record so
// deactivation takes effect on the next request, not at token expiry.
func Session(
	sessions *session.Service,
	denylist Revocations,
	accounts AccountSource,
	cookieName string,
	logger *zap.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := session.ExtractToken(c.Request, cookieName)
		if token == "" {
			RecordSessionVerification("no_token")
			response.AbortError(c, apperrors.ErrNoToken)
			return
		}

		revoked, err := denylist.Contains(c.Request.Context(), token)
		if err != nil {
			logger.Error("denylist check failed", zap.Error(err))
			response.AbortError(c, apperrors.ErrDBError)
			return
		}
		if revoked {
			RecordSessionVerification("revoked")
			response.AbortError(c, apperrors.ErrSessionRevoked)
			return
		}

		claims, err := sessions.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, session.ErrExpiredToken):
				RecordSessionVerification("expired")
				response.AbortError(c, apperrors.ErrSessionExpired)
			default:
				// Malformed and bad-signature rejections are logged
				// distinctly but reported identically, so callers
				// cannot probe which check failed.
				RecordSessionVerification("invalid")
				logger.Info("session rejected",
					zap.String("reason", err.Error()),
					zap.String("ip", c.ClientIP()),
				)
				response.AbortError(c, apperrors.ErrInvalidToken)
			}
			return
		}

		account, err := accounts.FindAdminByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.Error("admin lookup failed", zap.Error(err))
			response.AbortError(c, apperrors.ErrDBError)
			return
		}
		if account == nil {
			RecordSessionVerification("forbidden")
			response.AbortError(c, apperrors.ErrForbidden)
			return
		}
		switch account.Status {
		case admin.StatusActive:
			// Proceed
		case admin.StatusPending:
			RecordSessionVerification("forbidden")
			response.AbortError(c, apperrors.ErrAccountPending)
			return
		default:
			RecordSessionVerification("forbidden")
			response.AbortError(c, apperrors.ErrAccountInactive)
			return
		}

		RecordSessionVerification("success")

		c.Set(ContextClaims, claims)
		c.Set(ContextAdmin, account)
		c.Set(ContextToken, token)

		c.Next()
	}
}

// RequirePermission gates a route on the authorization policy. Must run
// after Session.
func RequirePermission(resource policy.Resource, action policy.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := ClaimsFrom(c)
		if claims == nil {
			response.AbortError(c, apperrors.ErrNoToken)
			return
		}

		if !policy.IsAllowed(claims.Role, resource, action) {
			response.AbortError(c, apperrors.ErrForbidden)
			return
		}

		c.Next()
	}
}

// ClaimsFrom returns the verified claims set by Session, or nil
func ClaimsFrom(c *gin.Context) *session.Claims {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return nil
	}
	claims, ok := value.(*session.Claims)
	if !ok {
		return nil
	}
	return claims
}

// AdminFrom returns the admin record set by Session, or nil
func AdminFrom(c *gin.Context) *admin.Admin {
	value, exists := c.Get(ContextAdmin)
	if !exists {
		return nil
	}
	account, ok := value.(*admin.Admin)
	if !ok {
		return nil
	}
	return account
}

// TokenFrom returns the raw session token set by Session
func TokenFrom(c *gin.Context) string {
	return c.GetString(ContextToken)
}
