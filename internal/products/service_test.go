package products

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/analytics"
	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
	"github.com/fridgyapp/fridgy-backend/pkg/logger"
)

type fakeProductRepo struct {
	products map[string]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*models.Product{}}
}

func (f *fakeProductRepo) Upsert(_ context.Context, product *models.Product) error {
	if existing, ok := f.products[product.UPC]; ok {
		product.ImagePath = existing.ImagePath
		product.CreatedAt = existing.CreatedAt
	}
	f.products[product.UPC] = product
	return nil
}

func (f *fakeProductRepo) FindByUPC(_ context.Context, upc string) (*models.Product, error) {
	product, ok := f.products[upc]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (f *fakeProductRepo) SetImagePath(_ context.Context, upc, objectPath string) error {
	product, ok := f.products[upc]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	product.ImagePath = &objectPath
	return nil
}

func (f *fakeProductRepo) Search(_ context.Context, words []string, limit int) ([]models.Product, error) {
	var rows []models.Product
	for _, product := range f.products {
		matchesAll := true
		for _, word := range words {
			found := false
			for _, token := range product.SearchTokens {
				if token == word {
					found = true
					break
				}
			}
			if !found {
				matchesAll = false
				break
			}
		}
		if matchesAll {
			rows = append(rows, *product)
		}
		if len(rows) >= limit {
			break
		}
	}
	return rows, nil
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

type capturingAnalytics struct {
	events []analytics.Event
}

func (c *capturingAnalytics) Publish(_ context.Context, event analytics.Event) error {
	c.events = append(c.events, event)
	return nil
}

func newProductService(t *testing.T) (Service, *fakeProductRepo, *stubGCS, *capturingAnalytics) {
	t.Helper()
	repo := newFakeProductRepo()
	gcs := &stubGCS{}
	sink := &capturingAnalytics{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cfg := config.GCSConfig{BucketName: "fridgy-media", UploadURLExpiry: 15 * time.Minute, DownloadURLExpiry: time.Hour}

	svc, err := NewService(repo, gcs, sink, cfg, logg)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, gcs, sink
}

func TestUpsertRegeneratesTokens(t *testing.T) {
	svc, repo, _, _ := newProductService(t)

	dto, err := svc.Upsert(context.Background(), "012345678905", UpsertProductInput{Name: "Milk", Brand: "Acme"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	for _, want := range []string{"milk", "mil", "ilk", "acme"} {
		if !contains(dto.SearchTokens, want) {
			t.Fatalf("missing token %q in %v", want, dto.SearchTokens)
		}
	}

	// renaming replaces the token set entirely
	dto, err = svc.Upsert(context.Background(), "012345678905", UpsertProductInput{Name: "Cream", Brand: "Acme"})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if contains(dto.SearchTokens, "milk") {
		t.Fatalf("stale token survived rename: %v", dto.SearchTokens)
	}
	if !contains(dto.SearchTokens, "cream") {
		t.Fatalf("new token missing: %v", dto.SearchTokens)
	}
	if len(repo.products) != 1 {
		t.Fatalf("upsert created a duplicate row")
	}
}

func TestUpsertValidation(t *testing.T) {
	svc, _, _, _ := newProductService(t)

	_, err := svc.Upsert(context.Background(), "not-a-upc", UpsertProductInput{Name: "Milk"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad upc, got %v", err)
	}

	_, err = svc.Upsert(context.Background(), "012345678905", UpsertProductInput{Name: "  "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty name, got %v", err)
	}

	bad := enums.SizeUnit("barrel")
	_, err = svc.Upsert(context.Background(), "012345678905", UpsertProductInput{Name: "Milk", SizeUnit: &bad})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad size unit, got %v", err)
	}
}

func TestSearchMatchesTokens(t *testing.T) {
	svc, _, _, _ := newProductService(t)

	if _, err := svc.Upsert(context.Background(), "012345678905", UpsertProductInput{Name: "Whole Milk", Brand: "Acme"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := svc.Upsert(context.Background(), "036000291452", UpsertProductInput{Name: "Greek Yogurt", Brand: "Olympus"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	results, err := svc.Search(context.Background(), "MILK acme", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].UPC != "012345678905" {
		t.Fatalf("unexpected search results %+v", results)
	}

	_, err = svc.Search(context.Background(), "   ", 10)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty query, got %v", err)
	}
}

func TestScanRecordsAnalytics(t *testing.T) {
	svc, _, _, sink := newProductService(t)

	if _, err := svc.Upsert(context.Background(), "012345678905", UpsertProductInput{Name: "Milk", Brand: "Acme"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	actor := uuid.New()
	household := uuid.New()
	dto, err := svc.Scan(context.Background(), actor, household, "012345678905")
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if dto.UPC != "012345678905" {
		t.Fatalf("wrong product returned")
	}
	if len(sink.events) != 1 {
		t.Fatalf("expected one scan event")
	}
	event := sink.events[0]
	if event.Type != enums.AnalyticsEventProductScan || event.HouseholdID != household || event.ActorID != actor {
		t.Fatalf("unexpected event %+v", event)
	}

	_, err = svc.Scan(context.Background(), actor, household, "99999999")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown upc, got %v", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("scan miss must not emit an event")
	}
}

func TestPresignImageUpload(t *testing.T) {
	svc, repo, gcs, _ := newProductService(t)

	if _, err := svc.Upsert(context.Background(), "012345678905", UpsertProductInput{Name: "Milk", Brand: "Acme"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	out, err := svc.PresignImageUpload(context.Background(), "012345678905")
	if err != nil {
		t.Fatalf("PresignImageUpload: %v", err)
	}
	if out.ObjectPath != "products/012345678905.jpg" {
		t.Fatalf("unexpected object path %q", out.ObjectPath)
	}
	if out.ContentType != "image/jpeg" {
		t.Fatalf("unexpected content type %q", out.ContentType)
	}
	if !strings.Contains(out.SignedPUTURL, "products/012345678905.jpg") {
		t.Fatalf("signed url missing object: %q", out.SignedPUTURL)
	}
	if len(gcs.signed) != 1 {
		t.Fatalf("expected one signing call")
	}
	stored := repo.products["012345678905"]
	if stored.ImagePath == nil || *stored.ImagePath != out.ObjectPath {
		t.Fatalf("image path not recorded")
	}

	// the product DTO now resolves a read URL
	dto, err := svc.Get(context.Background(), "012345678905")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !strings.Contains(dto.ImageURL, "signed=get") {
		t.Fatalf("expected signed read url, got %q", dto.ImageURL)
	}

	_, err = svc.PresignImageUpload(context.Background(), "99999999")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}
