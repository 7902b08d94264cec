package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/config"
)

// HTTPProvider authenticates against the hosted auth service using the
// OAuth2 resource-owner password grant, which is the flow the service
// exposes for first-party email+password login.
type HTTPProvider struct {
	config  *oauth2.Config
	timeout time.Duration
}

// NewHTTPProvider creates a provider for the configured token endpoint
func NewHTTPProvider(cfg config.IdentityConfig) *HTTPProvider {
	return &HTTPProvider{
		config: &oauth2.Config{
			ClientID: cfg.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL: cfg.TokenURL,
			},
		},
		timeout: cfg.Timeout,
	}
}

// Authenticate exchanges the credentials for the provider's own token pair
// and extracts the account identity from it. The provider session itself is
// discarded; the gateway issues its own credential.
func (p *HTTPProvider) Authenticate(ctx context.Context, email, password string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	tok, err := p.config.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		switch {
		case errors.As(err, &retrieveErr) && retrieveErr.Response != nil &&
			(retrieveErr.Response.StatusCode == 400 || retrieveErr.Response.StatusCode == 401):
			return nil, ErrBadCredentials
		case errors.Is(err, context.DeadlineExceeded):
			return nil, ErrProviderTimeout
		default:
			return nil, fmt.Errorf("identity provider request failed: %w", err)
		}
	}

	user, err := userFromAccessToken(tok.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider identity: %w", err)
	}
	if user.Email == "" {
		user.Email = strings.ToLower(email)
	}

	return user, nil
}

// providerClaims is the subset of the provider's access token we care
// about. The token is the provider's own; its signature is the provider's
// concern, so an unverified parse is sufficient here.
type providerClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func userFromAccessToken(accessToken string) (*User, error) {
	var claims providerClaims
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse access token: %w", err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("access token carries no subject")
	}

	return &User{
		ID:    claims.Subject,
		Email: strings.ToLower(claims.Email),
	}, nil
}
