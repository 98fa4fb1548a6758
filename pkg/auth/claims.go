package auth

import (
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID            uuid.UUID
	ActiveHouseholdID *uuid.UUID
	Role              enums.HouseholdRole
	JTI               string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID            uuid.UUID           `json:"user_id"`
	ActiveHouseholdID *uuid.UUID          `json:"active_household_id,omitempty"`
	Role              enums.HouseholdRole `json:"role"`
	jwt.RegisteredClaims
}
