package admin

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
)

// Repository handles admin dashboard data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// FindAdminByEmail finds an admin account by email address
func (r *Repository) FindAdminByEmail(ctx context.Context, email string) (*Admin, error) {
	var admin Admin
	query := `SELECT id, email, role, status, password_digest, last_login_at, created_at, updated_at
			  FROM admins
			  WHERE email = $1`

	err := r.db.GetContext(ctx, &admin, query, email)
	if err == sql.ErrNoRows {
		return nil, nil // Admin not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin by email: %w", err)
	}

	return &admin, nil
}

// FindAdminByID finds an admin account by ID
func (r *Repository) FindAdminByID(ctx context.Context, id string) (*Admin, error) {
	var admin Admin
	query := `SELECT id, email, role, status, password_digest, last_login_at, created_at, updated_at
			  FROM admins
			  WHERE id = $1`

	err := r.db.GetContext(ctx, &admin, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find admin by ID: %w", err)
	}

	return &admin, nil
}

// ListAdmins returns all admin accounts
func (r *Repository) ListAdmins(ctx context.Context) ([]Admin, error) {
	var admins []Admin
	query := `SELECT id, email, role, status, password_digest, last_login_at, created_at, updated_at
			  FROM admins
			  ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &admins, query); err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	return admins, nil
}

// CreateAdmin inserts a new admin account
func (r *Repository) CreateAdmin(ctx context.Context, email string, role session.Role, status string) (*Admin, error) {
	now := time.Now()
	admin := Admin{
		ID:        uuid.New().String(),
		Email:     email,
		Role:      role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO admins (id, email, role, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(ctx, query, admin.ID, admin.Email, admin.Role, admin.Status, admin.CreatedAt, admin.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return &admin, nil
}

// UpdateAdmin updates role and status of an admin account
func (r *Repository) UpdateAdmin(ctx context.Context, id string, role session.Role, status string) error {
	query := `UPDATE admins SET role = $1, status = $2, updated_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, role, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update admin: %w", err)
	}
	return requireRow(result)
}

// DeleteAdmin removes an admin account
func (r *Repository) DeleteAdmin(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	return requireRow(result)
}

// UpdateLastLoginAt stamps a successful login on the admin record
func (r *Repository) UpdateLastLoginAt(ctx context.Context, id string) error {
	query := `UPDATE admins SET last_login_at = $1, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, time.Now(), id); err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// UpsertAdmin creates the admin row on first login, keeping the existing
// row's role and status when one already exists. RETURNING hands back the
// row that actually won, so a concurrent first login cannot mint a
// session for an id that never reached the table.
func (r *Repository) UpsertAdmin(ctx context.Context, id, email string, role session.Role, status string) (*Admin, error) {
	now := time.Now()
	query := `INSERT INTO admins (id, email, role, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  ON CONFLICT (email) DO UPDATE SET updated_at = $6
			  RETURNING id, email, role, status, password_digest, last_login_at, created_at, updated_at`

	var admin Admin
	if err := r.db.GetContext(ctx, &admin, query, id, email, role, status, now, now); err != nil {
		return nil, fmt.Errorf("failed to upsert admin: %w", err)
	}

	return &admin, nil
}

// ListMembers returns member profiles, optionally filtered by status
func (r *Repository) ListMembers(ctx context.Context, status string) ([]Member, error) {
	var members []Member
	if status == "" {
		query := `SELECT id, email, full_name, status, created_at, updated_at FROM members ORDER BY created_at DESC`
		if err := r.db.SelectContext(ctx, &members, query); err != nil {
			return nil, fmt.Errorf("failed to list members: %w", err)
		}
		return members, nil
	}

	query := `SELECT id, email, full_name, status, created_at, updated_at FROM members WHERE status = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &members, query, status); err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// FindMemberByID finds a member profile by ID
func (r *Repository) FindMemberByID(ctx context.Context, id string) (*Member, error) {
	var member Member
	query := `SELECT id, email, full_name, status, created_at, updated_at FROM members WHERE id = $1`

	err := r.db.GetContext(ctx, &member, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find member: %w", err)
	}

	return &member, nil
}

// UpdateMember updates a member's profile fields
func (r *Repository) UpdateMember(ctx context.Context, id, fullName, status string) error {
	query := `UPDATE members SET full_name = $1, status = $2, updated_at = $3 WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, fullName, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return requireRow(result)
}

// SetMemberStatus updates only the review status of a member
func (r *Repository) SetMemberStatus(ctx context.Context, id, status string) error {
	query := `UPDATE members SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set member status: %w", err)
	}
	return requireRow(result)
}

// DeleteMember removes a member profile
func (r *Repository) DeleteMember(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return requireRow(result)
}

// RecordActivity appends an activity log row
func (r *Repository) RecordActivity(ctx context.Context, adminID, action, resource, detail, ip string) error {
	query := `INSERT INTO activity_logs (id, admin_id, action, resource, detail, ip_address, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query, uuid.New().String(), adminID, action, resource, detail, ip, time.Now())
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListActivity returns activity log rows, scoped to one admin unless
// adminID is empty.
func (r *Repository) ListActivity(ctx context.Context, adminID string, limit int) ([]ActivityLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var logs []ActivityLog
	if adminID == "" {
		query := `SELECT id, admin_id, action, resource, detail, ip_address, created_at
				  FROM activity_logs ORDER BY created_at DESC LIMIT $1`
		if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
			return nil, fmt.Errorf("failed to list activity: %w", err)
		}
		return logs, nil
	}

	query := `SELECT id, admin_id, action, resource, detail, ip_address, created_at
			  FROM activity_logs WHERE admin_id = $1 ORDER BY created_at DESC LIMIT $2`
	if err := r.db.SelectContext(ctx, &logs, query, adminID, limit); err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	return logs, nil
}

// ListSettings returns all settings rows
func (r *Repository) ListSettings(ctx context.Context) ([]Setting, error) {
	var settings []Setting
	query := `SELECT key, value, updated_by, updated_at FROM settings ORDER BY key`

	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// UpsertSetting writes a settings row
func (r *Repository) UpsertSetting(ctx context.Context, key, value, updatedBy string) error {
	query := `INSERT INTO settings (key, value, updated_by, updated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (key) DO UPDATE SET value = $2, updated_by = $3, updated_at = $4`

	if _, err := r.db.ExecContext(ctx, query, key, value, updatedBy, time.Now()); err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}
	return nil
}

// ErrNotFound signals a write against a missing row
var ErrNotFound = sql.ErrNoRows

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
