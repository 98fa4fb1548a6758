package models

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile carries the user's display data, kept apart from credentials.
type UserProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name;type:text;not null"`
	AvatarPath  *string   `gorm:"column:avatar_path;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
