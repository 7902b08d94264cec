package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/policy"
	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
	apperrors "github.com/ekodaeng/ctgold-admin-gateway/pkg/errors"
	"github.com/ekodaeng/ctgold-admin-gateway/pkg/response"
)

// claimsFrom reads the verified claims set by the session middleware
func claimsFrom(c *gin.Context) *session.Claims {
	value, exists := c.Get(session.ContextClaims)
	if !exists {
		return nil
	}
	claims, _ := value.(*session.Claims)
	return claims
}

// callerFrom reads the caller's admin record set by the session middleware
func callerFrom(c *gin.Context) *Admin {
	value, exists := c.Get(session.ContextAdmin)
	if !exists {
		return nil
	}
	account, _ := value.(*Admin)
	return account
}

// Handler serves the administrative CRUD surface
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a new admin handler
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) repoError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		response.Error(c, apperrors.ErrNotFound)
		return
	}
	h.logger.Error("repository failure", zap.Error(err))
	response.Error(c, apperrors.ErrDBError)
}

func (h *Handler) audit(c *gin.Context, action, resource, detail string) {
	caller := callerFrom(c)
	if caller == nil {
		return
	}
	if err := h.repo.RecordActivity(c.Request.Context(), caller.ID, action, resource, detail, c.ClientIP()); err != nil {
		h.logger.Warn("failed to record activity", zap.Error(err))
	}
}

// ListMembers returns member profiles
// GET /admin/members
func (h *Handler) ListMembers(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", MemberPending, MemberApproved, MemberRejected:
		// Acceptable filter
	default:
		response.ValidationError(c, "status must be pending, approved or rejected")
		return
	}

	members, err := h.repo.ListMembers(c.Request.Context(), status)
	if err != nil {
		h.repoError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"members": members})
}

// UpdateMemberRequest is the body of a member update
type UpdateMemberRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// UpdateMember edits a member profile
// PUT /admin/members/:id
func (h *Handler) UpdateMember(c *gin.Context) {
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "full_name and status are required")
		return
	}
	if req.Status != MemberPending && req.Status != MemberApproved && req.Status != MemberRejected {
		response.ValidationError(c, "status must be pending, approved or rejected")
		return
	}

	id := c.Param("id")
	if err := h.repo.UpdateMember(c.Request.Context(), id, req.FullName, req.Status); err != nil {
		h.repoError(c, err)
		return
	}

	h.audit(c, "edit", "members", id)
	response.OK(c, http.StatusOK, gin.H{"id": id})
}

// ApproveMember marks a member approved
// POST /admin/members/:id/approve
func (h *Handler) ApproveMember(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.SetMemberStatus(c.Request.Context(), id, MemberApproved); err != nil {
		h.repoError(c, err)
		return
	}

	h.audit(c, "approve", "members", id)
	response.OK(c, http.StatusOK, gin.H{"id": id, "status": MemberApproved})
}

// DeleteMember removes a member profile
// DELETE /admin/members/:id
func (h *Handler) DeleteMember(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.DeleteMember(c.Request.Context(), id); err != nil {
		h.repoError(c, err)
		return
	}

	h.audit(c, "delete", "members", id)
	response.OK(c, http.StatusOK, gin.H{"id": id})
}

// ListAdmins returns admin accounts
// GET /admin/admins
func (h *Handler) ListAdmins(c *gin.Context) {
	admins, err := h.repo.ListAdmins(c.Request.Context())
	if err != nil {
		h.repoError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"admins": admins})
}

// CreateAdminRequest is the body of an admin creation
type CreateAdminRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

// CreateAdmin creates an admin account
// POST /admin/admins
func (h *Handler) CreateAdmin(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "email and role are required")
		return
	}

	role := session.NormalizeRole(req.Role)
	if !role.Known() {
		response.ValidationError(c, "role must be admin or super_admin")
		return
	}

	account, err := h.repo.CreateAdmin(c.Request.Context(), req.Email, role, StatusActive)
	if err != nil {
		h.repoError(c, err)
		return
	}

	h.audit(c, "create", "admins", account.ID)
	response.OK(c, http.StatusCreated, gin.H{"admin": account})
}

// UpdateAdminRequest is the body of an admin update
type UpdateAdminRequest struct {
	Role   string `json:"role" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// UpdateAdmin edits role and status of an admin account
// PUT /admin/admins/:id
func (h *Handler) UpdateAdmin(c *gin.Context) {
	var req UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "role and status are required")
		return
	}

	role := session.NormalizeRole(req.Role)
	if !role.Known() {
		response.ValidationError(c, "role must be admin or super_admin")
		return
	}
	if req.Status != StatusActive && req.Status != StatusPending && req.Status != StatusDisabled {
		response.ValidationError(c, "status must be active, pending or disabled")
		return
	}

	id := c.Param("id")
	if err := h.repo.UpdateAdmin(c.Request.Context(), id, role, req.Status); err != nil {
		h.repoError(c, err)
		return
	}

	h.audit(c, "edit", "admins", id)
	response.OK(c, http.StatusOK, gin.H{"id": id})
}

// DeleteAdmin removes an admin account
// DELETE /admin/admins/:id
func (h *Handler) DeleteAdmin(c *gin.Context) {
	id := c.Param("id")

	// An account cannot delete itself out from under its own session
	if caller := callerFrom(c); caller != nil && caller.ID == id {
		response.ValidationError(c, "cannot delete your own account")
		return
	}

	if err := h.repo.DeleteAdmin(c.Request.Context(), id); err != nil {
		h.repoError(c, err)
		return
	}

	h.audit(c, "delete", "admins", id)
	response.OK(c, http.StatusOK, gin.H{"id": id})
}

// ListSettings returns dashboard settings
// GET /admin/settings
func (h *Handler) ListSettings(c *gin.Context) {
	settings, err := h.repo.ListSettings(c.Request.Context())
	if err != nil {
		h.repoError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettingRequest is the body of a setting write
type UpdateSettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// UpdateSetting writes a dashboard setting
// PUT /admin/settings
func (h *Handler) UpdateSetting(c *gin.Context) {
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "key and value are required")
		return
	}

	caller := callerFrom(c)
	if err := h.repo.UpsertSetting(c.Request.Context(), req.Key, req.Value, caller.ID); err != nil {
		h.repoError(c, err)
		return
	}

	h.audit(c, "edit", "settings", req.Key)
	response.OK(c, http.StatusOK, gin.H{"key": req.Key})
}

// ListActivity returns activity log rows. Plain admins see their own
// entries; super admins may request everyone's with ?all=true.
// GET /admin/activity
func (h *Handler) ListActivity(c *gin.Context) {
	claims := claimsFrom(c)
	caller := callerFrom(c)

	adminID := caller.ID
	if c.Query("all") == "true" {
		if !policy.IsAllowed(claims.Role, policy.ResourceActivityLogs, policy.ActionViewAll) {
			response.Error(c, apperrors.ErrForbidden)
			return
		}
		adminID = ""
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			response.ValidationError(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	logs, err := h.repo.ListActivity(c.Request.Context(), adminID, limit)
	if err != nil {
		h.repoError(c, err)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"activity": logs})
}
