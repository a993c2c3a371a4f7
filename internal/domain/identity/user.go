package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	uidRegex   = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// User represents a shopper or back-office account
// It is the aggregate root for user-related operations
type User struct {
	shared.BaseAggregateRoot
	UID          string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	BrandID      *uuid.UUID
	LastLoginAt  *time.Time
}

// NewUser creates a new customer account
func NewUser(name, uid, email, password string) (*User, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateUID(uid); err != nil {
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UID:               strings.ToLower(strings.TrimSpace(uid)),
		Name:              strings.TrimSpace(name),
		Email:             email,
		PasswordHash:      passwordHash,
		Role:              RoleCustomer,
	}, nil
}

// SetName sets the user's display name
func (u *User) SetName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	u.Name = strings.TrimSpace(name)
	u.touch()
	return nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return err
	}
	u.Email = email
	u.touch()
	return nil
}

// SetPassword sets a new password
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.touch()
	return nil
}

// VerifyPassword checks if the provided password matches the stored hash
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// BelongToBrand attaches the user to a brand with the given role
func (u *User) BelongToBrand(brandID uuid.UUID, role Role) error {
	if brandID == uuid.Nil {
		return shared.NewDomainError("INVALID_BRAND", "Brand is required")
	}
	if role != RoleBrandAdmin && role != RoleBrandChiefAdmin {
		return shared.NewDomainError("INVALID_ROLE", "Only brand roles can be attached to a brand")
	}
	if u.Role == RoleSuperAdmin {
		return shared.NewDomainError("INVALID_STATE", "A super admin cannot be attached to a brand")
	}
	u.BrandID = &brandID
	u.Role = role
	u.touch()
	return nil
}

// RecordLogin records a successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// IsBrandMember checks whether the user administers the given brand
func (u *User) IsBrandMember(brandID uuid.UUID) bool {
	return u.BrandID != nil && *u.BrandID == brandID
}

// touch stamps the modification time; the repository bumps Version on save.
func (u *User) touch() {
	u.UpdatedAt = time.Now()
}

// Validation functions

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}

func validateUID(uid string) error {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return shared.NewDomainError("INVALID_UID", "UID cannot be empty")
	}
	if len(uid) < 3 {
		return shared.NewDomainError("INVALID_UID", "UID must be at least 3 characters")
	}
	if len(uid) > 100 {
		return shared.NewDomainError("INVALID_UID", "UID cannot exceed 100 characters")
	}
	if !uidRegex.MatchString(uid) {
		return shared.NewDomainError("INVALID_UID", "UID can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores input beyond 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}

	hasLetter := strings.IndexFunc(password, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) >= 0
	hasNumber := strings.IndexFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
