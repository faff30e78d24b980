package domain

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is a back-office account. The account locks for a configured
// window once FailedLoginAttempts reaches the threshold.
type AdminUser struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	Username            string     `json:"username" db:"username"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	Role                string     `json:"role" db:"role"`
	IsActive            bool       `json:"is_active" db:"is_active"`
	FailedLoginAttempts int        `json:"-" db:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"-" db:"locked_until"`
	LastFailedAttempt   *time.Time `json:"-" db:"last_failed_attempt"`
	LastLogin           *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// Locked reports whether the account is inside an active lock window.
func (a *AdminUser) Locked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}
