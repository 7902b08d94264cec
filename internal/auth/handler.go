package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/middleware"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
	"github.com/ekodaeng/ctgold-admin-gateway/pkg/response"
)

// Handler handles authentication HTTP requests
type Handler struct {
	service    *Service
	cookieName string
}

// NewHandler creates a new authentication handler
func NewHandler(service *Service, cookieName string) *Handler {
	return &Handler{service: service, cookieName: cookieName}
}

// Login handles email/password login
// POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "email and password are required")
		return
	}
	if err := ValidateLoginRequest(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		middleware.RecordLoginAttempt("failure")
		response.Error(c, err)
		return
	}

	middleware.RecordLoginAttempt("success")
	middleware.RecordSessionIssued()

	// Browser flows read the cookie; API clients use the body token.
	session.AttachCookie(c.Writer, h.cookieName, result.Token, h.service.sessions.TTL())

	response.OK(c, http.StatusOK, gin.H{
		"token":      result.Token,
		"role":       result.Claims.Role,
		"email":      result.Claims.Email,
		"user_id":    result.Claims.UserID,
		"expires_at": result.Claims.Expiry,
	})
}

// Session returns the verified caller's claims
// GET /auth/session
func (h *Handler) Session(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)

	response.OK(c, http.StatusOK, gin.H{
		"email":   claims.Email,
		"role":    claims.Role,
		"user_id": claims.UserID,
	})
}

// Logout revokes the presented session token
// POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.TokenFrom(c)); err != nil {
		response.Error(c, err)
		return
	}

	session.ClearCookie(c.Writer, h.cookieName)

	response.OK(c, http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// Health returns health status
// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}
