package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
)

// UserDTO is the transport shape that omits credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName"`
	AvatarURL   string     `json:"avatarUrl,omitempty"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user and
// their profile.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	DisplayName  string
}

// UpdateProfileInput carries the editable profile fields.
type UpdateProfileInput struct {
	DisplayName *string
}

// PresignAvatarOutput carries the signed PUT URL for an avatar upload.
type PresignAvatarOutput struct {
	ObjectPath   string    `json:"objectPath"`
	SignedPUTURL string    `json:"signedPutUrl"`
	ContentType  string    `json:"contentType"`
	ExpiresAt    time.Time `json:"expiresAt"`
}

// FromModel maps a user plus their profile into the DTO. The avatar URL, when
// present, is resolved by the service from the stored object path.
func FromModel(user *models.User, profile *models.UserProfile, avatarURL string) *UserDTO {
	if user == nil {
		return nil
	}
	dto := &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		AvatarURL:   avatarURL,
		IsActive:    user.IsActive,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
	if profile != nil {
		dto.DisplayName = profile.DisplayName
	}
	return dto
}
