package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmall/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserResponse
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the claims of the access token being revoked
type LogoutInput struct {
	UserID    uuid.UUID
	TokenJTI  string
	ExpiresAt time.Time
}

// CreateUserRequest contains the input for sign up
type CreateUserRequest struct {
	Name     string
	UID      string
	Email    string
	Password string
}

// UpdateSelfRequest is a partial update of the caller's own account
type UpdateSelfRequest struct {
	Name     *string
	Email    *string
	Password *string
}

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID  uuid.UUID
	Role    identity.Role
	BrandID *uuid.UUID
}

// UserResponse is the public view of a user. It never carries the password hash.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	UID         string     `json:"uid"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	BrandID     *uuid.UUID `json:"brand_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a domain user to its response
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		UID:         u.UID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role.String(),
		BrandID:     u.BrandID,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
