package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrAdminNotFound = errors.New("admin user not found")
)

// AdminRepository defines the interface for admin account data access
type AdminRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error)
	RecordLoginSuccess(ctx context.Context, id uuid.UUID, at time.Time) error
	RecordLoginFailure(ctx context.Context, id uuid.UUID, attempts int, lockedUntil *time.Time, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new instance of AdminRepository
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

const adminColumns = `id, username, email, password_hash, role, is_active,
	failed_login_attempts, locked_until, last_failed_attempt, last_login,
	created_at, updated_at`

func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE username = $1`, adminColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *adminRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE id = $1`, adminColumns)
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// RecordLoginSuccess resets the failure counter and lock and stamps
// last_login.
func (r *adminRepository) RecordLoginSuccess(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE admin_users
		SET failed_login_attempts = 0, locked_until = NULL, last_failed_attempt = NULL, last_login = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to record login success: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAdminNotFound
	}

	return nil
}

// RecordLoginFailure stores the new failure count and, once the threshold is
// reached, the lock expiry.
func (r *adminRepository) RecordLoginFailure(ctx context.Context, id uuid.UUID, attempts int, lockedUntil *time.Time, at time.Time) error {
	query := `
		UPDATE admin_users
		SET failed_login_attempts = $2, locked_until = $3, last_failed_attempt = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, attempts, lockedUntil, at)
	if err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAdminNotFound
	}

	return nil
}

// UpdatePassword stores a new password hash and clears any lockout state.
func (r *adminRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	query := `
		UPDATE admin_users
		SET password_hash = $2, failed_login_attempts = 0, locked_until = NULL, last_failed_attempt = NULL
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrAdminNotFound
	}

	return nil
}

func (r *adminRepository) scanOne(row *sql.Row) (*domain.AdminUser, error) {
	admin := &domain.AdminUser{}
	err := row.Scan(
		&admin.ID,
		&admin.Username,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.IsActive,
		&admin.FailedLoginAttempts,
		&admin.LockedUntil,
		&admin.LastFailedAttempt,
		&admin.LastLogin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin user: %w", err)
	}

	return admin, nil
}
