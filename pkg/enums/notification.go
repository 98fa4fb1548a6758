package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeItemExpiring      NotificationType = "item_expiring"
	NotificationTypeItemExpired       NotificationType = "item_expired"
	NotificationTypeShoppingListAdd   NotificationType = "shopping_list_add"
	NotificationTypeMemberJoined      NotificationType = "member_joined"
	NotificationTypeMemberLeft        NotificationType = "member_left"
	NotificationTypeMemberRoleChanged NotificationType = "member_role_changed"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeItemExpiring,
	NotificationTypeItemExpired,
	NotificationTypeShoppingListAdd,
	NotificationTypeMemberJoined,
	NotificationTypeMemberLeft,
	NotificationTypeMemberRoleChanged,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
