package users

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type fakeUserRepo struct {
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.UserProfile
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[uuid.UUID]*models.User{},
		profiles: map[uuid.UUID]*models.UserProfile{},
	}
}

func (f *fakeUserRepo) seed(email, displayName string) uuid.UUID {
	id := uuid.New()
	f.users[id] = &models.User{ID: id, Email: email, IsActive: true}
	f.profiles[id] = &models.UserProfile{ID: uuid.New(), UserID: id, DisplayName: displayName}
	return id
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindProfile(_ context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeUserRepo) UpdateDisplayName(_ context.Context, userID uuid.UUID, displayName string) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.DisplayName = displayName
	return nil
}

func (f *fakeUserRepo) SetAvatarPath(_ context.Context, userID uuid.UUID, objectPath string) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	profile.AvatarPath = &objectPath
	return nil
}

type stubGCS struct {
	signed []string
}

func (s *stubGCS) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	s.signed = append(s.signed, object)
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s?signed=put", bucket, object), nil
}

func (s *stubGCS) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s?signed=get", bucket, object), nil
}

func newUserService(t *testing.T) (Service, *fakeUserRepo, *stubGCS) {
	t.Helper()
	repo := newFakeUserRepo()
	gcs := &stubGCS{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cfg := config.GCSConfig{BucketName: "fridgy-media", UploadURLExpiry: 15 * time.Minute, DownloadURLExpiry: time.Hour}

	svc, err := NewService(repo, gcs, cfg, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, gcs
}

func TestGetProfile(t *testing.T) {
	svc, repo, _ := newUserService(t)
	id := repo.seed("ana@example.com", "Ana")

	dto, err := svc.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if dto.Email != "ana@example.com" || dto.DisplayName != "Ana" {
		t.Fatalf("unexpected profile %+v", dto)
	}

	_, err = svc.GetProfile(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfileDisplayName(t *testing.T) {
	svc, repo, _ := newUserService(t)
	id := repo.seed("ana@example.com", "Ana")

	name := "  Ana Torres "
	dto, err := svc.UpdateProfile(context.Background(), id, UpdateProfileInput{DisplayName: &name})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if dto.DisplayName != "Ana Torres" {
		t.Fatalf("expected trimmed display name, got %q", dto.DisplayName)
	}

	// nil field leaves the profile untouched
	dto, err = svc.UpdateProfile(context.Background(), id, UpdateProfileInput{})
	if err != nil {
		t.Fatalf("no-op UpdateProfile: %v", err)
	}
	if dto.DisplayName != "Ana Torres" {
		t.Fatalf("no-op update changed display name to %q", dto.DisplayName)
	}

	empty := "   "
	_, err = svc.UpdateProfile(context.Background(), id, UpdateProfileInput{DisplayName: &empty})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestPresignAvatarUpload(t *testing.T) {
	svc, repo, gcs := newUserService(t)
	id := repo.seed("ana@example.com", "Ana")

	out, err := svc.PresignAvatarUpload(context.Background(), id)
	if err != nil {
		t.Fatalf("PresignAvatarUpload: %v", err)
	}
	wantPath := fmt.Sprintf("avatars/%s.jpg", id)
	if out.ObjectPath != wantPath {
		t.Fatalf("unexpected object path %q", out.ObjectPath)
	}
	if out.ContentType != "image/jpeg" {
		t.Fatalf("unexpected content type %q", out.ContentType)
	}
	if len(gcs.signed) != 1 {
		t.Fatalf("expected one signing call")
	}

	profile := repo.profiles[id]
	if profile.AvatarPath == nil || *profile.AvatarPath != wantPath {
		t.Fatalf("avatar path not recorded")
	}

	dto, err := svc.GetProfile(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if !strings.Contains(dto.AvatarURL, "signed=get") {
		t.Fatalf("expected signed read url, got %q", dto.AvatarURL)
	}

	_, err = svc.PresignAvatarUpload(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}
