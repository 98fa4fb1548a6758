package notifications

import (
	"context"
	"fmt"
	"io"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
	"github.com/fridgyapp/fridgy-backend/pkg/pagination"
)

type fakeNotificationRepo struct {
	rows map[uuid.UUID]*models.Notification
	seq  int
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{rows: map[uuid.UUID]*models.Notification{}}
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	for _, existing := range f.rows {
		if existing.EventID == notification.EventID && existing.UserID == notification.UserID {
			return fmt.Errorf("duplicate key value violates unique constraint %q", "idx_notifications_event_user")
		}
	}
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	f.seq++
	notification.CreatedAt = time.Unix(int64(f.seq), 0).UTC()
	f.rows[notification.ID] = notification
	return nil
}

func (f *fakeNotificationRepo) List(_ context.Context, params listNotificationsParams) ([]models.Notification, *pagination.Cursor, error) {
	var all []models.Notification
	for _, n := range f.rows {
		if n.UserID != params.UserID {
			continue
		}
		if params.UnreadOnly && n.ReadAt != nil {
			continue
		}
		if params.Cursor != nil && !n.CreatedAt.Before(params.Cursor.CreatedAt) {
			continue
		}
		all = append(all, *n)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	normalized := pagination.NormalizeLimit(params.Limit)
	if len(all) > normalized {
		page := all[:normalized]
		last := page[len(page)-1]
		return page, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
	}
	return all, nil, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, userID, id uuid.UUID, at time.Time) error {
	n, ok := f.rows[id]
	if !ok || n.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	if n.ReadAt == nil {
		n.ReadAt = &at
	}
	return nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	var touched int64
	for _, n := range f.rows {
		if n.UserID == userID && n.ReadAt == nil {
			stamp := at
			n.ReadAt = &stamp
			touched++
		}
	}
	return touched, nil
}

func (f *fakeNotificationRepo) seedForUser(userID uuid.UUID, count int) []uuid.UUID {
	var ids []uuid.UUID
	for i := 0; i < count; i++ {
		n := &models.Notification{
			EventID:     uuid.NewString(),
			UserID:      userID,
			HouseholdID: uuid.New(),
			Type:        enums.NotificationTypeShoppingListAdd,
			Title:       fmt.Sprintf("notification %d", i),
			Body:        "body",
		}
		_ = f.Create(context.Background(), n)
		ids = append(ids, n.ID)
	}
	return ids
}

func newNotificationService(t *testing.T) (Service, *fakeNotificationRepo) {
	t.Helper()
	repo := newFakeNotificationRepo()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(repo, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc, repo := newNotificationService(t)
	user := uuid.New()
	repo.seedForUser(user, 30)
	repo.seedForUser(uuid.New(), 5)

	page1, err := svc.List(context.Background(), user, ListParams{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page1.Notifications) != 25 {
		t.Fatalf("expected default page of 25, got %d", len(page1.Notifications))
	}
	if page1.NextCursor == "" {
		t.Fatalf("expected a next cursor")
	}
	if page1.Notifications[0].Title != "notification 29" {
		t.Fatalf("not newest first: %q", page1.Notifications[0].Title)
	}

	page2, err := svc.List(context.Background(), user, ListParams{Cursor: page1.NextCursor})
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if len(page2.Notifications) != 5 {
		t.Fatalf("expected 5 remaining, got %d", len(page2.Notifications))
	}
	if page2.NextCursor != "" {
		t.Fatalf("unexpected cursor on final page")
	}

	_, err = svc.List(context.Background(), user, ListParams{Cursor: "!!not-base64!!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}
}

func TestListUnreadOnly(t *testing.T) {
	svc, repo := newNotificationService(t)
	user := uuid.New()
	ids := repo.seedForUser(user, 3)

	if err := svc.MarkRead(context.Background(), user, ids[0]); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	unread, err := svc.List(context.Background(), user, ListParams{UnreadOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(unread.Notifications) != 2 {
		t.Fatalf("expected 2 unread, got %d", len(unread.Notifications))
	}
}

func TestMarkReadScopedToOwner(t *testing.T) {
	svc, repo := newNotificationService(t)
	user := uuid.New()
	ids := repo.seedForUser(user, 1)

	err := svc.MarkRead(context.Background(), uuid.New(), ids[0])
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign notification, got %v", err)
	}

	if err := svc.MarkRead(context.Background(), user, ids[0]); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	first := *repo.rows[ids[0]].ReadAt

	// marking again keeps the original timestamp
	if err := svc.MarkRead(context.Background(), user, ids[0]); err != nil {
		t.Fatalf("second MarkRead: %v", err)
	}
	if !repo.rows[ids[0]].ReadAt.Equal(first) {
		t.Fatalf("read timestamp overwritten")
	}
}

func TestMarkAllRead(t *testing.T) {
	svc, repo := newNotificationService(t)
	user := uuid.New()
	repo.seedForUser(user, 4)

	touched, err := svc.MarkAllRead(context.Background(), user)
	if err != nil {
		t.Fatalf("MarkAllRead: %v", err)
	}
	if touched != 4 {
		t.Fatalf("expected 4 touched, got %d", touched)
	}

	touched, err = svc.MarkAllRead(context.Background(), user)
	if err != nil {
		t.Fatalf("second MarkAllRead: %v", err)
	}
	if touched != 0 {
		t.Fatalf("expected idempotent second pass, got %d", touched)
	}
}
