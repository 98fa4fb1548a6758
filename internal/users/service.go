package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

const avatarContentType = "image/jpeg"

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateDisplayName(ctx context.Context, userID uuid.UUID, displayName string) error
	SetAvatarPath(ctx context.Context, userID uuid.UUID, objectPath string) error
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

// Service exposes profile operations for the authenticated user.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
	PresignAvatarUpload(ctx context.Context, userID uuid.UUID) (*PresignAvatarOutput, error)
}

type service struct {
	repo userRepository
	gcs  gcsClient
	cfg  config.GCSConfig
	logg *logger.Logger
}

// NewService builds a user profile service with the provided dependencies.
func NewService(repo userRepository, gcsClient gcsClient, cfg config.GCSConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if gcsClient == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, gcs: gcsClient, cfg: cfg, logg: logg}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	return s.load(ctx, userID)
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
		}
		if err := s.repo.UpdateDisplayName(ctx, userID, name); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update display name")
		}
	}
	return s.load(ctx, userID)
}

func (s *service) PresignAvatarUpload(ctx context.Context, userID uuid.UUID) (*PresignAvatarOutput, error) {
	if _, err := s.repo.FindProfile(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	objectPath := AvatarObjectPath(userID)
	signedURL, err := s.gcs.SignedURL(s.cfg.BucketName, objectPath, avatarContentType, s.cfg.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}
	if err := s.repo.SetAvatarPath(ctx, userID, objectPath); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record avatar path")
	}

	return &PresignAvatarOutput{
		ObjectPath:   objectPath,
		SignedPUTURL: signedURL,
		ContentType:  avatarContentType,
		ExpiresAt:    time.Now().Add(s.cfg.UploadURLExpiry),
	}, nil
}

// AvatarObjectPath returns the canonical GCS object for a user avatar.
func AvatarObjectPath(userID uuid.UUID) string {
	return fmt.Sprintf("avatars/%s.jpg", userID)
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	profile, err := s.repo.FindProfile(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(user, profile, s.resolveAvatarURL(ctx, profile)), nil
}

func (s *service) resolveAvatarURL(ctx context.Context, profile *models.UserProfile) string {
	if profile == nil || profile.AvatarPath == nil || *profile.AvatarPath == "" {
		return ""
	}
	url, err := s.gcs.SignedReadURL(s.cfg.BucketName, *profile.AvatarPath, s.cfg.DownloadURLExpiry)
	if err != nil {
		s.logg.Error(ctx, "sign avatar url", err)
		return ""
	}
	return url
}
