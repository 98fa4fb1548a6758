package models

import (
	"time"

	"github.com/google/uuid"
)

// FCMToken stores one Web Push subscription for a user. The table keeps the
// legacy fcm_tokens name; the endpoint plus keys form the subscription.
type FCMToken struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Endpoint   string    `gorm:"type:text;not null;uniqueIndex"`
	P256dh     string    `gorm:"column:p256dh;type:text;not null"`
	Auth       string    `gorm:"column:auth;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	LastSeenAt time.Time `gorm:"column:last_seen_at;type:timestamptz;not null;default:now()"`
}

// TableName keeps the original collection name.
func (FCMToken) TableName() string {
	return "fcm_tokens"
}
