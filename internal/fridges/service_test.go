package fridges

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
)

type fakeFridgeRepo struct {
	fridges map[uuid.UUID]*models.Fridge
}

func newFakeFridgeRepo() *fakeFridgeRepo {
	return &fakeFridgeRepo{fridges: map[uuid.UUID]*models.Fridge{}}
}

func (f *fakeFridgeRepo) Create(_ context.Context, fridge *models.Fridge) error {
	if fridge.ID == uuid.Nil {
		fridge.ID = uuid.New()
	}
	f.fridges[fridge.ID] = fridge
	return nil
}

func (f *fakeFridgeRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Fridge, error) {
	fridge, ok := f.fridges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return fridge, nil
}

func (f *fakeFridgeRepo) ListByHousehold(_ context.Context, householdID uuid.UUID) ([]models.Fridge, error) {
	var out []models.Fridge
	for _, fridge := range f.fridges {
		if fridge.HouseholdID == householdID {
			out = append(out, *fridge)
		}
	}
	return out, nil
}

func (f *fakeFridgeRepo) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	fridge, ok := f.fridges[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	fridge.Name = name
	return nil
}

func (f *fakeFridgeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.fridges[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.fridges, id)
	return nil
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

type fridgeFixture struct {
	svc       Service
	repo      *fakeFridgeRepo
	household *models.Household
	other     *models.Household
	owner     uuid.UUID
	member    uuid.UUID
}

func newFridgeFixture(t *testing.T) *fridgeFixture {
	t.Helper()

	owner := uuid.New()
	member := uuid.New()
	household := &models.Household{ID: uuid.New(), Name: "Home", CreatedBy: owner}
	household.Members = []models.HouseholdMember{
		{HouseholdID: household.ID, UserID: owner, Role: enums.HouseholdRoleOwner},
		{HouseholdID: household.ID, UserID: member, Role: enums.HouseholdRoleMember},
	}
	other := &models.Household{ID: uuid.New(), Name: "Cabin", CreatedBy: owner}

	repo := newFakeFridgeRepo()
	reader := &fakeHouseholdReader{households: map[uuid.UUID]*models.Household{
		household.ID: household,
		other.ID:     other,
	}}
	svc, err := NewService(repo, reader)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &fridgeFixture{svc: svc, repo: repo, household: household, other: other, owner: owner, member: member}
}

func TestCreateFridge(t *testing.T) {
	fix := newFridgeFixture(t)

	dto, err := fix.svc.Create(context.Background(), fix.owner, fix.household.ID, CreateFridgeInput{Name: " Garage Freezer "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Name != "Garage Freezer" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.HouseholdID != fix.household.ID || dto.CreatedBy != fix.owner {
		t.Fatalf("fridge not bound to household/creator")
	}

	_, err = fix.svc.Create(context.Background(), fix.member, fix.household.ID, CreateFridgeInput{Name: "Pantry"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for plain member, got %v", err)
	}
}

func TestGetHidesCrossHouseholdFridges(t *testing.T) {
	fix := newFridgeFixture(t)

	dto, err := fix.svc.Create(context.Background(), fix.owner, fix.household.ID, CreateFridgeInput{Name: "Kitchen"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// members can read
	if _, err := fix.svc.Get(context.Background(), fix.member, fix.household.ID, dto.ID); err != nil {
		t.Fatalf("member get: %v", err)
	}

	// a fridge id from another household resolves as missing
	_, err = fix.svc.Get(context.Background(), fix.owner, fix.other.ID, dto.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found across households, got %v", err)
	}
}

func TestRenameAndDeleteRequireManagement(t *testing.T) {
	fix := newFridgeFixture(t)

	dto, err := fix.svc.Create(context.Background(), fix.owner, fix.household.ID, CreateFridgeInput{Name: "Kitchen"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = fix.svc.Rename(context.Background(), fix.member, fix.household.ID, dto.ID, RenameFridgeInput{Name: "Main"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden rename for member, got %v", err)
	}

	renamed, err := fix.svc.Rename(context.Background(), fix.owner, fix.household.ID, dto.ID, RenameFridgeInput{Name: "Main"})
	if err != nil {
		t.Fatalf("owner rename: %v", err)
	}
	if renamed.Name != "Main" {
		t.Fatalf("rename not applied")
	}

	err = fix.svc.Delete(context.Background(), fix.member, fix.household.ID, dto.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden delete for member, got %v", err)
	}

	if err := fix.svc.Delete(context.Background(), fix.owner, fix.household.ID, dto.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(fix.repo.fridges) != 0 {
		t.Fatalf("fridge still present after delete")
	}
}

func TestListScopedToHousehold(t *testing.T) {
	fix := newFridgeFixture(t)

	if _, err := fix.svc.Create(context.Background(), fix.owner, fix.household.ID, CreateFridgeInput{Name: "Kitchen"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := fix.svc.Create(context.Background(), fix.owner, fix.other.ID, CreateFridgeInput{Name: "Cabin Fridge"}); err != nil {
		t.Fatalf("Create other: %v", err)
	}

	list, err := fix.svc.List(context.Background(), fix.member, fix.household.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Kitchen" {
		t.Fatalf("unexpected list %+v", list)
	}

	// outsiders cannot list
	_, err = fix.svc.List(context.Background(), fix.member, fix.other.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
}
