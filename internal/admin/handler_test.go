package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
)

func requestContext(t *testing.T, claims *session.Claims, caller *Admin, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	if claims != nil {
		c.Set(session.ContextClaims, claims)
	}
	if caller != nil {
		c.Set(session.ContextAdmin, caller)
	}
	return c, rec
}

// The handlers must read the same context keys the session middleware
// writes under.
func TestContextHelpersShareMiddlewareKeys(t *testing.T) {
	claims := &session.Claims{Email: "a@x.com", Role: session.RoleAdmin, UserID: "u1"}
	caller := &Admin{ID: "u1", Email: "a@x.com", Role: session.RoleAdmin, Status: StatusActive}

	c, _ := requestContext(t, claims, caller, "/admin/activity")

	if got := claimsFrom(c); got != claims {
		t.Errorf("claimsFrom() = %v, want the stored claims", got)
	}
	if got := callerFrom(c); got != caller {
		t.Errorf("callerFrom() = %v, want the stored account", got)
	}
}

func TestListActivityAllRequiresViewAll(t *testing.T) {
	repo, mock := mockRepository(t)
	handler := NewHandler(repo, zap.NewNop())

	claims := &session.Claims{Email: "a@x.com", Role: session.RoleAdmin, UserID: "u1"}
	caller := &Admin{ID: "u1", Email: "a@x.com", Role: session.RoleAdmin, Status: StatusActive}
	c, rec := requestContext(t, claims, caller, "/admin/activity?all=true")

	handler.ListActivity(c)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, http.StatusForbidden, rec.Body.String())
	}

	var body struct {
		ErrorCode string `json:"error_code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.ErrorCode != "FORBIDDEN" {
		t.Errorf("error_code = %q, want FORBIDDEN", body.ErrorCode)
	}

	// The refusal must happen before any query runs
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected database access: %v", err)
	}
}
