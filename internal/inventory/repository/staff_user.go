package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/stocker/stocker-backend/pkg/database"
	"github.com/stocker/stocker-backend/pkg/errors"
)

// StaffUser is a locally cached copy of a user record owned by the external
// user service. The cache is kept current by the user events consumer and is
// read by the alert dispatcher to resolve notification recipients.
type StaffUser struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	IsStaff   bool      `db:"is_staff" json:"is_staff"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FullName returns the user's display name
func (u *StaffUser) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// StaffUserRepository handles the local user cache
type StaffUserRepository struct {
	db *database.DB
}

// NewStaffUserRepository creates a new staff user repository
func NewStaffUserRepository(db *database.DB) *StaffUserRepository {
	return &StaffUserRepository{db: db}
}

// Upsert inserts or replaces a cached user record
func (r *StaffUserRepository) Upsert(ctx context.Context, u *StaffUser) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO staff_users (id, email, first_name, last_name, is_staff, is_active, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			is_staff = EXCLUDED.is_staff,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
	`, u.ID, u.Email, u.FirstName, u.LastName, u.IsStaff, u.IsActive)
	if err != nil {
		return database.MapError(err)
	}
	return nil
}

// Get fetches a cached user by ID
func (r *StaffUserRepository) Get(ctx context.Context, id string) (*StaffUser, error) {
	var u StaffUser
	err := r.db.GetContext(ctx, &u, `
		SELECT id, email, first_name, last_name, is_staff, is_active, updated_at
		FROM staff_users WHERE id = $1
	`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes a cached user record. Missing rows are not an error since
// delete events may arrive for users never cached.
func (r *StaffUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM staff_users WHERE id = $1`, id)
	return err
}

// ListStaffWithEmail returns active staff users that have an email address.
// These are the alert recipients.
func (r *StaffUserRepository) ListStaffWithEmail(ctx context.Context) ([]*StaffUser, error) {
	var users []*StaffUser
	err := r.db.SelectContext(ctx, &users, `
		SELECT id, email, first_name, last_name, is_staff, is_active, updated_at
		FROM staff_users
		WHERE is_staff = TRUE AND is_active = TRUE AND email <> ''
		ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	return users, nil
}
