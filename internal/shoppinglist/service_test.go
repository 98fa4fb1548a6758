package shoppinglist

import (
	"context"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/notifications"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type fakeListRepo struct {
	entries map[uuid.UUID]*models.ShoppingListEntry
	seq     int
}

func newFakeListRepo() *fakeListRepo {
	return &fakeListRepo{entries: map[uuid.UUID]*models.ShoppingListEntry{}}
}

func (f *fakeListRepo) Create(_ context.Context, entry *models.ShoppingListEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.seq++
	entry.CreatedAt = time.Unix(int64(f.seq), 0).UTC()
	f.entries[entry.ID] = entry
	return nil
}

func (f *fakeListRepo) FindByID(_ context.Context, id uuid.UUID) (*models.ShoppingListEntry, error) {
	entry, ok := f.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return entry, nil
}

func (f *fakeListRepo) ListByHousehold(_ context.Context, householdID uuid.UUID) ([]models.ShoppingListEntry, error) {
	var rows []models.ShoppingListEntry
	for _, entry := range f.entries {
		if entry.HouseholdID == householdID {
			rows = append(rows, *entry)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Checked != rows[j].Checked {
			return !rows[i].Checked
		}
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	return rows, nil
}

func (f *fakeListRepo) SetChecked(_ context.Context, id uuid.UUID, checked bool, by *uuid.UUID, at *time.Time) error {
	entry, ok := f.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.Checked = checked
	entry.CheckedBy = by
	entry.CheckedAt = at
	return nil
}

func (f *fakeListRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.entries[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeListRepo) ClearChecked(_ context.Context, householdID uuid.UUID) (int64, error) {
	var removed int64
	for id, entry := range f.entries {
		if entry.HouseholdID == householdID && entry.Checked {
			delete(f.entries, id)
			removed++
		}
	}
	return removed, nil
}

type fakeHouseholdReader struct {
	households map[uuid.UUID]*models.Household
}

func (f *fakeHouseholdReader) FindByID(_ context.Context, id uuid.UUID) (*models.Household, error) {
	h, ok := f.households[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return h, nil
}

type capturingPublisher struct {
	events []notifications.Event
}

func (c *capturingPublisher) Publish(_ context.Context, event notifications.Event) error {
	c.events = append(c.events, event)
	return nil
}

type fakePresence struct {
	viewers map[string][]string
}

func newFakePresence() *fakePresence {
	return &fakePresence{viewers: map[string][]string{}}
}

func (f *fakePresence) PresenceHeartbeat(_ context.Context, householdID, userID string, _ time.Duration) error {
	for _, existing := range f.viewers[householdID] {
		if existing == userID {
			return nil
		}
	}
	f.viewers[householdID] = append(f.viewers[householdID], userID)
	return nil
}

func (f *fakePresence) PresenceClear(_ context.Context, householdID, userID string) error {
	kept := f.viewers[householdID][:0]
	for _, existing := range f.viewers[householdID] {
		if existing != userID {
			kept = append(kept, existing)
		}
	}
	f.viewers[householdID] = kept
	return nil
}

func (f *fakePresence) ActiveViewers(_ context.Context, householdID string) ([]string, error) {
	return append([]string(nil), f.viewers[householdID]...), nil
}

type listFixture struct {
	svc       Service
	repo      *fakeListRepo
	events    *capturingPublisher
	presence  *fakePresence
	household *models.Household
	other     *models.Household
	owner     uuid.UUID
	member    uuid.UUID
	outsider  uuid.UUID
}

func newListFixture(t *testing.T) *listFixture {
	t.Helper()

	owner := uuid.New()
	member := uuid.New()
	household := &models.Household{ID: uuid.New(), Name: "Home", CreatedBy: owner}
	household.Members = []models.HouseholdMember{
		{HouseholdID: household.ID, UserID: owner, Role: enums.HouseholdRoleOwner},
		{HouseholdID: household.ID, UserID: member, Role: enums.HouseholdRoleMember},
	}
	other := &models.Household{ID: uuid.New(), Name: "Cabin", CreatedBy: owner}

	repo := newFakeListRepo()
	events := &capturingPublisher{}
	presence := newFakePresence()
	reader := &fakeHouseholdReader{households: map[uuid.UUID]*models.Household{
		household.ID: household,
		other.ID:     other,
	}}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(repo, reader, events, presence, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &listFixture{
		svc: svc, repo: repo, events: events, presence: presence,
		household: household, other: other,
		owner: owner, member: member, outsider: uuid.New(),
	}
}

func TestAddPublishesEvent(t *testing.T) {
	fix := newListFixture(t)

	dto, err := fix.svc.Add(context.Background(), fix.member, fix.household.ID, AddEntryInput{Name: " Milk "})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if dto.Name != "Milk" || dto.Quantity != 1 {
		t.Fatalf("unexpected entry %+v", dto)
	}
	if dto.AddedBy != fix.member {
		t.Fatalf("adder not recorded")
	}

	if len(fix.events.events) != 1 {
		t.Fatalf("expected one notification event")
	}
	event := fix.events.events[0]
	if event.Type != enums.NotificationTypeShoppingListAdd || event.HouseholdID != fix.household.ID || event.ActorID != fix.member {
		t.Fatalf("unexpected event %+v", event)
	}

	_, err = fix.svc.Add(context.Background(), fix.member, fix.household.ID, AddEntryInput{Name: "  "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}

	_, err = fix.svc.Add(context.Background(), fix.member, fix.household.ID, AddEntryInput{Name: "Eggs", Quantity: -2})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative quantity, got %v", err)
	}

	_, err = fix.svc.Add(context.Background(), fix.outsider, fix.household.ID, AddEntryInput{Name: "Eggs"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
}

func TestCheckAndUncheck(t *testing.T) {
	fix := newListFixture(t)

	dto, err := fix.svc.Add(context.Background(), fix.owner, fix.household.ID, AddEntryInput{Name: "Milk"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	checked, err := fix.svc.SetChecked(context.Background(), fix.member, fix.household.ID, dto.ID, true)
	if err != nil {
		t.Fatalf("SetChecked: %v", err)
	}
	if !checked.Checked || checked.CheckedBy == nil || *checked.CheckedBy != fix.member || checked.CheckedAt == nil {
		t.Fatalf("check state not recorded: %+v", checked)
	}

	unchecked, err := fix.svc.SetChecked(context.Background(), fix.owner, fix.household.ID, dto.ID, false)
	if err != nil {
		t.Fatalf("uncheck: %v", err)
	}
	if unchecked.Checked || unchecked.CheckedBy != nil || unchecked.CheckedAt != nil {
		t.Fatalf("uncheck did not clear state: %+v", unchecked)
	}

	// an entry id from another household resolves as missing
	_, err = fix.svc.SetChecked(context.Background(), fix.owner, fix.other.ID, dto.ID, true)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found across households, got %v", err)
	}
}

func TestClearCheckedRemovesOnlyChecked(t *testing.T) {
	fix := newListFixture(t)

	milk, _ := fix.svc.Add(context.Background(), fix.owner, fix.household.ID, AddEntryInput{Name: "Milk"})
	eggs, _ := fix.svc.Add(context.Background(), fix.owner, fix.household.ID, AddEntryInput{Name: "Eggs"})
	if _, err := fix.svc.SetChecked(context.Background(), fix.owner, fix.household.ID, milk.ID, true); err != nil {
		t.Fatalf("SetChecked: %v", err)
	}

	removed, err := fix.svc.ClearChecked(context.Background(), fix.owner, fix.household.ID)
	if err != nil {
		t.Fatalf("ClearChecked: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	remaining, err := fix.svc.List(context.Background(), fix.owner, fix.household.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != eggs.ID {
		t.Fatalf("unexpected remaining list %+v", remaining)
	}
}

func TestRemoveEntry(t *testing.T) {
	fix := newListFixture(t)

	dto, err := fix.svc.Add(context.Background(), fix.owner, fix.household.ID, AddEntryInput{Name: "Milk"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	if err := fix.svc.Remove(context.Background(), fix.member, fix.household.ID, dto.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	err = fix.svc.Remove(context.Background(), fix.member, fix.household.ID, dto.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for deleted entry, got %v", err)
	}
}

func TestPresenceLifecycle(t *testing.T) {
	fix := newListFixture(t)

	if err := fix.svc.Heartbeat(context.Background(), fix.member, fix.household.ID); err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}

	viewers, err := fix.svc.ActiveViewers(context.Background(), fix.owner, fix.household.ID)
	if err != nil {
		t.Fatalf("ActiveViewers: %v", err)
	}
	if len(viewers) != 1 || viewers[0] != fix.member {
		t.Fatalf("unexpected viewers %v", viewers)
	}

	// non-uuid keys from older clients are skipped
	fix.presence.viewers[fix.household.ID.String()] = append(fix.presence.viewers[fix.household.ID.String()], "not-a-uuid")
	viewers, err = fix.svc.ActiveViewers(context.Background(), fix.owner, fix.household.ID)
	if err != nil {
		t.Fatalf("ActiveViewers: %v", err)
	}
	if len(viewers) != 1 {
		t.Fatalf("malformed key not skipped: %v", viewers)
	}

	if err := fix.svc.LeavePresence(context.Background(), fix.member, fix.household.ID); err != nil {
		t.Fatalf("LeavePresence: %v", err)
	}
	viewers, err = fix.svc.ActiveViewers(context.Background(), fix.owner, fix.household.ID)
	if err != nil {
		t.Fatalf("ActiveViewers: %v", err)
	}
	if len(viewers) != 0 {
		t.Fatalf("viewer survived leave: %v", viewers)
	}

	err = fix.svc.Heartbeat(context.Background(), fix.outsider, fix.household.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
}
