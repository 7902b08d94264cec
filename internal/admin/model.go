package admin

import (
	"database/sql"
	"time"

	"github.com/ekodaeng/ctgold-admin-gateway/internal/session"
)

// Admin account statuses
const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusDisabled = "disabled"
)

// Member review statuses
const (
	MemberPending  = "pending"
	MemberApproved = "approved"
	MemberRejected = "rejected"
)

// Admin represents the admins table
type Admin struct {
	ID             string         `db:"id" json:"id"`
	Email          string         `db:"email" json:"email"`
	Role           session.Role   `db:"role" json:"role"`
	Status         string         `db:"status" json:"status"`
	PasswordDigest sql.NullString `db:"password_digest" json:"-"`
	LastLoginAt    sql.NullTime   `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// Active reports whether the account may hold a session
func (a *Admin) Active() bool {
	return a.Status == StatusActive
}

// Member represents the members table (dashboard-managed user profiles)
type Member struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ActivityLog represents the activity_logs table
type ActivityLog struct {
	ID        string    `db:"id" json:"id"`
	AdminID   string    `db:"admin_id" json:"admin_id"`
	Action    string    `db:"action" json:"action"`
	Resource  string    `db:"resource" json:"resource"`
	Detail    string    `db:"detail" json:"detail"`
	IPAddress string    `db:"ip_address" json:"ip_address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Setting represents a row of the settings table
type Setting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedBy string    `db:"updated_by" json:"updated_by"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
