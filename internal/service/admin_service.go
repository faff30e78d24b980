package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing
	BcryptCost = 10
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountInactive    = errors.New("account is not active")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims represents the JWT claims issued on admin login
type Claims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Role    string    `json:"role"`
	jwt.RegisteredClaims
}

// AdminService handles admin authentication with failed-attempt lockout.
type AdminService interface {
	Login(ctx context.Context, username, password string) (token string, admin *domain.AdminUser, err error)
	ResetPassword(ctx context.Context, adminID uuid.UUID, newPassword string) error
	ValidateToken(tokenString string) (*Claims, error)
}

type adminService struct {
	adminRepo repository.AdminRepository
	jwtSecret string
	jwtExpiry time.Duration
	authCfg   config.AuthConfig
	now       func() time.Time
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(adminRepo repository.AdminRepository, jwtCfg config.JWTConfig, authCfg config.AuthConfig) AdminService {
	return &adminService{
		adminRepo: adminRepo,
		jwtSecret: jwtCfg.Secret,
		jwtExpiry: time.Duration(jwtCfg.AccessExpiry) * time.Minute,
		authCfg:   authCfg,
		now:       time.Now,
	}
}

// Login authenticates an admin account. Failures increment the attempt
// counter; reaching the threshold locks the account for the configured
// window. During the window even a correct password is rejected. Once the
// window has elapsed the counter starts over.
func (s *adminService) Login(ctx context.Context, username, password string) (string, *domain.AdminUser, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if err == repository.ErrAdminNotFound {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to find admin: %w", err)
	}

	if !admin.IsActive {
		return "", nil, ErrAccountInactive
	}

	now := s.now()
	if admin.Locked(now) {
		return "", nil, ErrAccountLocked
	}

	// Lock expired: the failure count starts over.
	if admin.LockedUntil != nil && !now.Before(*admin.LockedUntil) {
		admin.FailedLoginAttempts = 0
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, s.recordFailure(ctx, admin, now)
	}

	if err := s.adminRepo.RecordLoginSuccess(ctx, admin.ID, now); err != nil {
		return "", nil, fmt.Errorf("failed to record login: %w", err)
	}
	admin.FailedLoginAttempts = 0
	admin.LockedUntil = nil
	admin.LastLogin = &now

	token, err := s.generateAccessToken(admin, now)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return token, admin, nil
}

func (s *adminService) recordFailure(ctx context.Context, admin *domain.AdminUser, now time.Time) error {
	attempts := admin.FailedLoginAttempts + 1

	var lockedUntil *time.Time
	if attempts >= s.authCfg.MaxLoginAttempts {
		until := now.Add(time.Duration(s.authCfg.LockoutMinutes) * time.Minute)
		lockedUntil = &until
	}

	if err := s.adminRepo.RecordLoginFailure(ctx, admin.ID, attempts, lockedUntil, now); err != nil {
		return fmt.Errorf("failed to record login failure: %w", err)
	}

	if lockedUntil != nil {
		return ErrAccountLocked
	}
	return ErrInvalidCredentials
}

// ResetPassword rehashes and stores the password and clears any lockout.
func (s *adminService) ResetPassword(ctx context.Context, adminID uuid.UUID, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.adminRepo.UpdatePassword(ctx, adminID, string(hashed))
}

// ValidateToken validates a JWT token and returns the claims
func (s *adminService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (s *adminService) generateAccessToken(admin *domain.AdminUser, now time.Time) (string, error) {
	claims := &Claims{
		AdminID: admin.ID,
		Role:    admin.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
