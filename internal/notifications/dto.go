package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

// NotificationDTO is the transport shape for one in-app notification.
type NotificationDTO struct {
	ID          uuid.UUID              `json:"id"`
	Type        enums.NotificationType `json:"type"`
	HouseholdID uuid.UUID              `json:"householdId"`
	FridgeID    *uuid.UUID             `json:"fridgeId,omitempty"`
	ItemID      *uuid.UUID             `json:"itemId,omitempty"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	ReadAt      *time.Time             `json:"readAt,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// ListParams holds the inputs for paging through a user's notifications.
type ListParams struct {
	UnreadOnly bool
	Limit      int
	Cursor     string
}

// ListResult returns one page plus the cursor for the next.
type ListResult struct {
	Notifications []NotificationDTO `json:"notifications"`
	NextCursor    string            `json:"nextCursor,omitempty"`
}

// FromModel maps a notification row into its DTO.
func FromModel(n *models.Notification) *NotificationDTO {
	if n == nil {
		return nil
	}
	return &NotificationDTO{
		ID:          n.ID,
		Type:        n.Type,
		HouseholdID: n.HouseholdID,
		FridgeID:    n.FridgeID,
		ItemID:      n.ItemID,
		Title:       n.Title,
		Body:        n.Body,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}
