package dto

import (
	"time"

	"github.com/spec-kit/user-service/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Password  string         `json:"password"`
	Phone     string         `json:"phone"`
	Address   domain.Address `json:"address"`
}

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a partial profile update; absent fields stay
// untouched and a provided address merges into the stored one.
type UpdateProfileRequest struct {
	FirstName    *string         `json:"firstName"`
	LastName     *string         `json:"lastName"`
	Phone        *string         `json:"phone"`
	ProfileImage *string         `json:"profileImage"`
	Address      *domain.Address `json:"address"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
