package enums

import "fmt"

// AnalyticsEventType identifies inventory events streamed to the warehouse.
type AnalyticsEventType string

const (
	AnalyticsEventItemAdded    AnalyticsEventType = "item_added"
	AnalyticsEventItemUpdated  AnalyticsEventType = "item_updated"
	AnalyticsEventItemRemoved  AnalyticsEventType = "item_removed"
	AnalyticsEventItemExpired  AnalyticsEventType = "item_expired"
	AnalyticsEventProductScan  AnalyticsEventType = "product_scan"
	AnalyticsEventNotification AnalyticsEventType = "notification_sent"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventItemAdded,
	AnalyticsEventItemUpdated,
	AnalyticsEventItemRemoved,
	AnalyticsEventItemExpired,
	AnalyticsEventProductScan,
	AnalyticsEventNotification,
}

// IsValid reports whether the value is a known AnalyticsEventType.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts raw strings into AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
