package analytics

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// InventoryEventRow mirrors the inventory_events BigQuery schema.
type InventoryEventRow struct {
	EventID     string             `bigquery:"event_id"`
	EventType   string             `bigquery:"event_type"`
	OccurredAt  time.Time          `bigquery:"occurred_at"`
	HouseholdID string             `bigquery:"household_id"`
	FridgeID    *string            `bigquery:"fridge_id"`
	ItemID      *string            `bigquery:"item_id"`
	UPC         *string            `bigquery:"upc"`
	Quantity    *int64             `bigquery:"quantity"`
	ActorID     string             `bigquery:"actor_id"`
	Payload     cbigquery.NullJSON `bigquery:"payload"`
}

// RowFromEvent converts an event envelope into its warehouse row.
func RowFromEvent(event Event) InventoryEventRow {
	row := InventoryEventRow{
		EventID:     event.EventID.String(),
		EventType:   string(event.Type),
		OccurredAt:  event.OccurredAt.UTC(),
		HouseholdID: event.HouseholdID.String(),
		ActorID:     event.ActorID.String(),
	}
	if event.FridgeID != nil {
		v := event.FridgeID.String()
		row.FridgeID = &v
	}
	if event.ItemID != nil {
		v := event.ItemID.String()
		row.ItemID = &v
	}
	if event.UPC != nil {
		v := *event.UPC
		row.UPC = &v
	}
	if event.Quantity != nil {
		v := int64(*event.Quantity)
		row.Quantity = &v
	}
	if len(event.Payload) > 0 {
		row.Payload = cbigquery.NullJSON{JSONVal: string(event.Payload), Valid: true}
	}
	return row
}
