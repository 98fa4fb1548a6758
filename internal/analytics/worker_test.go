package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type fakeWriterSink struct {
	rows []InventoryEventRow
	err  error
}

func (f *fakeWriterSink) InsertInventory(_ context.Context, row InventoryEventRow) error {
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, row)
	return nil
}

type fakeIdemStore struct {
	seen    map[string]bool
	deleted []string
	err     error
}

func newFakeIdemStore() *fakeIdemStore {
	return &fakeIdemStore{seen: map[string]bool{}}
}

func (f *fakeIdemStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[key] {
		return false, nil
	}
	f.seen[key] = true
	return true, nil
}

func (f *fakeIdemStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.seen, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeIdemStore) IdempotencyKey(scope, id string) string {
	return "fridgy:idempotency:" + scope + ":" + id
}

func testWorker(t *testing.T, sink *fakeWriterSink, store *fakeIdemStore) *Worker {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	return &Worker{writer: sink, store: store, logg: logg}
}

func eventMessage(t *testing.T, event Event) *gcppubsub.Message {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return &gcppubsub.Message{
		ID:         "m1",
		Data:       data,
		Attributes: map[string]string{"event_type": string(event.Type)},
	}
}

func TestWorkerProcessWritesRow(t *testing.T) {
	sink := &fakeWriterSink{}
	store := newFakeIdemStore()
	w := testWorker(t, sink, store)

	event := Event{
		EventID:     uuid.New(),
		Type:        enums.AnalyticsEventItemAdded,
		HouseholdID: uuid.New(),
		ActorID:     uuid.New(),
		OccurredAt:  time.Now().UTC(),
	}
	result := w.process(context.Background(), eventMessage(t, event))
	if result.nack {
		t.Fatal("expected ack")
	}
	if len(sink.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(sink.rows))
	}
	if sink.rows[0].EventID != event.EventID.String() {
		t.Fatalf("event id mismatch")
	}
}

func TestWorkerProcessSkipsDuplicates(t *testing.T) {
	sink := &fakeWriterSink{}
	store := newFakeIdemStore()
	w := testWorker(t, sink, store)

	event := Event{
		EventID:     uuid.New(),
		Type:        enums.AnalyticsEventItemRemoved,
		HouseholdID: uuid.New(),
		ActorID:     uuid.New(),
	}
	if w.process(context.Background(), eventMessage(t, event)).nack {
		t.Fatal("first delivery should ack")
	}
	if w.process(context.Background(), eventMessage(t, event)).nack {
		t.Fatal("duplicate delivery should ack without writing")
	}
	if len(sink.rows) != 1 {
		t.Fatalf("duplicate was written, rows=%d", len(sink.rows))
	}
}

func TestWorkerProcessNacksOnWriteFailure(t *testing.T) {
	sink := &fakeWriterSink{err: errors.New("bigquery down")}
	store := newFakeIdemStore()
	w := testWorker(t, sink, store)

	event := Event{
		EventID:     uuid.New(),
		Type:        enums.AnalyticsEventItemUpdated,
		HouseholdID: uuid.New(),
		ActorID:     uuid.New(),
	}
	if !w.process(context.Background(), eventMessage(t, event)).nack {
		t.Fatal("expected nack on write failure")
	}
	// the idempotency key must be released so the redelivery can retry
	if len(store.deleted) != 1 {
		t.Fatalf("expected idempotency key release, got %v", store.deleted)
	}
}

func TestWorkerProcessAcksMalformedPayload(t *testing.T) {
	sink := &fakeWriterSink{}
	store := newFakeIdemStore()
	w := testWorker(t, sink, store)

	msg := &gcppubsub.Message{ID: "m2", Data: []byte("{not json")}
	if w.process(context.Background(), msg).nack {
		t.Fatal("malformed payload should be acked and dropped")
	}
	if len(sink.rows) != 0 {
		t.Fatal("malformed payload must not be written")
	}
}
