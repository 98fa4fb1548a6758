package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/analytics"
	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

const (
	productImageContentType = "image/jpeg"
	defaultSearchLimit      = 25
	maxSearchLimit          = 100
)

type productRepository interface {
	Upsert(ctx context.Context, product *models.Product) error
	FindByUPC(ctx context.Context, upc string) (*models.Product, error)
	SetImagePath(ctx context.Context, upc, objectPath string) error
	Search(ctx context.Context, words []string, limit int) ([]models.Product, error)
}

type gcsClient interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

type analyticsPublisher interface {
	Publish(ctx context.Context, event analytics.Event) error
}

// Service exposes catalog operations.
type Service interface {
	Get(ctx context.Context, upc string) (*ProductDTO, error)
	Scan(ctx context.Context, actorID, householdID uuid.UUID, upc string) (*ProductDTO, error)
	Upsert(ctx context.Context, upc string, input UpsertProductInput) (*ProductDTO, error)
	Search(ctx context.Context, query string, limit int) ([]ProductDTO, error)
	PresignImageUpload(ctx context.Context, upc string) (*PresignImageOutput, error)
}

type service struct {
	repo      productRepository
	gcs       gcsClient
	analytics analyticsPublisher
	cfg       config.GCSConfig
	logg      *logger.Logger
}

// NewService builds a product service with the provided dependencies.
func NewService(repo productRepository, gcsClient gcsClient, analyticsPub analyticsPublisher, cfg config.GCSConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if gcsClient == nil {
		return nil, fmt.Errorf("gcs client required")
	}
	if analyticsPub == nil {
		return nil, fmt.Errorf("analytics publisher required")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, gcs: gcsClient, analytics: analyticsPub, cfg: cfg, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, upc string) (*ProductDTO, error) {
	normalized, err := normalizeUPC(upc)
	if err != nil {
		return nil, err
	}

	product, err := s.repo.FindByUPC(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return FromModel(product, s.resolveImageURL(product)), nil
}

// Scan is a Get that also records a product_scan analytics event for the
// scanning household.
func (s *service) Scan(ctx context.Context, actorID, householdID uuid.UUID, upc string) (*ProductDTO, error) {
	dto, err := s.Get(ctx, upc)
	if err != nil {
		return nil, err
	}

	scannedUPC := dto.UPC
	if pubErr := s.analytics.Publish(ctx, analytics.Event{
		Type:        enums.AnalyticsEventProductScan,
		HouseholdID: householdID,
		UPC:         &scannedUPC,
		ActorID:     actorID,
	}); pubErr != nil {
		s.logg.Error(ctx, "publish product scan event", pubErr)
	}
	return dto, nil
}

func (s *service) Upsert(ctx context.Context, upc string, input UpsertProductInput) (*ProductDTO, error) {
	normalized, err := normalizeUPC(upc)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	brand := strings.TrimSpace(input.Brand)
	if input.SizeUnit != nil && !input.SizeUnit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid size unit")
	}

	product := &models.Product{
		UPC:          normalized,
		Name:         name,
		Brand:        brand,
		CategoryID:   input.CategoryID,
		SizeAmount:   input.SizeAmount,
		SizeUnit:     input.SizeUnit,
		SearchTokens: GenerateSearchTokens(name, brand),
	}
	if err := s.repo.Upsert(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert product")
	}

	stored, err := s.repo.FindByUPC(ctx, normalized)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return FromModel(stored, s.resolveImageURL(stored)), nil
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]ProductDTO, error) {
	words := NormalizeQueryWords(query)
	if len(words) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	rows, err := s.repo.Search(ctx, words, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search products")
	}

	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i], s.resolveImageURL(&rows[i])))
	}
	return dtos, nil
}

func (s *service) PresignImageUpload(ctx context.Context, upc string) (*PresignImageOutput, error) {
	normalized, err := normalizeUPC(upc)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByUPC(ctx, normalized); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	objectPath := ImageObjectPath(normalized)
	signedURL, err := s.gcs.SignedURL(s.cfg.BucketName, objectPath, productImageContentType, s.cfg.UploadURLExpiry)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	if err := s.repo.SetImagePath(ctx, normalized, objectPath); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record image path")
	}

	return &PresignImageOutput{
		UPC:          normalized,
		ObjectPath:   objectPath,
		SignedPUTURL: signedURL,
		ContentType:  productImageContentType,
		ExpiresAt:    time.Now().Add(s.cfg.UploadURLExpiry),
	}, nil
}

// ImageObjectPath returns the canonical GCS object for a product image.
func ImageObjectPath(upc string) string {
	return fmt.Sprintf("products/%s.jpg", upc)
}

func (s *service) resolveImageURL(product *models.Product) string {
	if product == nil || product.ImagePath == nil || *product.ImagePath == "" {
		return ""
	}
	url, err := s.gcs.SignedReadURL(s.cfg.BucketName, *product.ImagePath, s.cfg.DownloadURLExpiry)
	if err != nil {
		s.logg.Error(context.Background(), "sign product image url", err)
		return ""
	}
	return url
}

func normalizeUPC(upc string) (string, error) {
	trimmed := strings.TrimSpace(upc)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "upc is required")
	}
	for _, r := range trimmed {
		if !unicode.IsDigit(r) {
			return "", pkgerrors.New(pkgerrors.CodeValidation, "upc must be numeric")
		}
	}
	if len(trimmed) < 8 || len(trimmed) > 14 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "upc must be 8 to 14 digits")
	}
	return trimmed, nil
}
