package admin

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
)

func mockRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func adminRows(a Admin) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "role", "status", "password_digest", "last_login_at", "created_at", "updated_at",
	}).AddRow(a.ID, a.Email, a.Role, a.Status, nil, nil, a.CreatedAt, a.UpdatedAt)
}

// A first login that loses the insert race must come back holding the row
// the winner created, not the id it tried to insert.
func TestUpsertAdminReturnsWinningRow(t *testing.T) {
	repo, mock := mockRepository(t)

	now := time.Now()
	winner := Admin{
		ID:        "winner-id",
		Email:     "a@x.com",
		Role:      session.RoleSuperAdmin,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO admins").
		WithArgs("loser-id", "a@x.com", session.RoleAdmin, StatusActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(adminRows(winner))

	got, err := repo.UpsertAdmin(context.Background(), "loser-id", "a@x.com", session.RoleAdmin, StatusActive)
	if err != nil {
		t.Fatalf("UpsertAdmin() failed: %v", err)
	}

	if got.ID != "winner-id" {
		t.Errorf("ID = %q, want the conflicting row's %q", got.ID, "winner-id")
	}
	if got.Role != session.RoleSuperAdmin {
		t.Errorf("Role = %q, want the existing row's %q", got.Role, session.RoleSuperAdmin)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsertAdminInsertsFreshRow(t *testing.T) {
	repo, mock := mockRepository(t)

	now := time.Now()
	fresh := Admin{
		ID:        "u1",
		Email:     "a@x.com",
		Role:      session.RoleAdmin,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO admins").
		WithArgs("u1", "a@x.com", session.RoleAdmin, StatusActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(adminRows(fresh))

	got, err := repo.UpsertAdmin(context.Background(), "u1", "a@x.com", session.RoleAdmin, StatusActive)
	if err != nil {
		t.Fatalf("UpsertAdmin() failed: %v", err)
	}
	if got.ID != "u1" || got.Role != session.RoleAdmin {
		t.Errorf("row = %+v, want the inserted u1/admin", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
