package auth

import (
	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/internal/users"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

// RegisterRequest contains the payload required to create an account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
}

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the token pair and user produced by a successful login.
type LoginResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest carries the expired access token plus the refresh token to rotate.
type RefreshRequest struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshResponse returns the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// SwitchHouseholdInput captures the data required to change the active household.
type SwitchHouseholdInput struct {
	UserID        uuid.UUID
	HouseholdID   uuid.UUID
	AccessTokenID string
	RefreshToken  string
}

// SwitchHouseholdResult returns the tokens issued after switching households.
type SwitchHouseholdResult struct {
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	HouseholdID  uuid.UUID           `json:"householdId"`
	Role         enums.HouseholdRole `json:"role"`
}
