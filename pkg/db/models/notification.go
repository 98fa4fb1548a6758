package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to one user.
// EventID plus UserID dedupes redelivered worker messages.
type Notification struct {
	ID          uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID     string                 `gorm:"column:event_id;type:text;not null;uniqueIndex:idx_notifications_event_user"`
	UserID      uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:idx_notifications_event_user"`
	HouseholdID uuid.UUID              `gorm:"column:household_id;type:uuid;not null"`
	Type        enums.NotificationType `gorm:"type:notification_type;not null"`
	Title       string                 `gorm:"type:text;not null"`
	Body        string                 `gorm:"type:text;not null"`
	FridgeID    *uuid.UUID             `gorm:"column:fridge_id;type:uuid"`
	ItemID      *uuid.UUID             `gorm:"column:item_id;type:uuid"`
	ReadAt      *time.Time             `gorm:"column:read_at;type:timestamptz"`
	CreatedAt   time.Time              `gorm:"column:created_at;type:timestamptz;default:now()"`
}
