package session

import (
	"net/http"
	"strings"
	"time"
)

const bearerPrefix = "Bearer "

// Request-context keys under which a verified session is stored. Declared
// here so the middleware that writes them and the handlers that read them
// share one definition.
const (
	ContextClaims = "claims"
	ContextAdmin  = "admin"
	ContextToken  = "session_token"
)

// ExtractToken pulls the session credential from a request. The bearer
// header is checked first, then the named cookie; the first present wins.
// An empty string means no credential was supplied.
func ExtractToken(r *http.Request, cookieName string) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, bearerPrefix) {
		return strings.TrimSpace(authHeader[len(bearerPrefix):])
	}

	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// AttachCookie sets the session token as an HTTP-only cookie whose lifetime
// mirrors the token's TTL. Browser flows read the cookie; API clients use
// the token returned in the response body.
func AttachCookie(w http.ResponseWriter, cookieName, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie
func ClearCookie(w http.ResponseWriter, cookieName string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
