package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/internal/users"
	pkgAuth "github.com/fridgyapp/fridgy-backend/pkg/auth"
	"github.com/fridgyapp/fridgy-backend/pkg/auth/session"
	"github.com/fridgyapp/fridgy-backend/pkg/config"
	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
	pkgerrors "github.com/fridgyapp/fridgy-backend/pkg/errors"
)

var (
	testJWTConfig = config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "fridgy-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
	testPasswordConfig = config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
)

type fakeAuthUserRepo struct {
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.UserProfile
}

func newFakeAuthUserRepo() *fakeAuthUserRepo {
	return &fakeAuthUserRepo{
		users:    map[uuid.UUID]*models.User{},
		profiles: map[uuid.UUID]*models.UserProfile{},
	}
}

func (f *fakeAuthUserRepo) Create(_ context.Context, dto users.CreateUserDTO) (*models.User, error) {
	for _, existing := range f.users {
		if existing.Email == dto.Email {
			return nil, fmt.Errorf("duplicate key value violates unique constraint")
		}
	}
	user := &models.User{ID: uuid.New(), Email: dto.Email, PasswordHash: dto.PasswordHash, IsActive: true}
	f.users[user.ID] = user
	f.profiles[user.ID] = &models.UserProfile{ID: uuid.New(), UserID: user.ID, DisplayName: dto.DisplayName}
	return user, nil
}

func (f *fakeAuthUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAuthUserRepo) FindProfile(_ context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeAuthUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	user, ok := f.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.LastLoginAt = &at
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

type fakeSessionManager struct {
	sessions map[string]string
	seq      int
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{sessions: map[string]string{}}
}

func (f *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	f.seq++
	token := fmt.Sprintf("refresh-%d", f.seq)
	f.sessions[accessID] = token
	return token, nil
}

func (f *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.sessions[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.sessions, oldAccessID)
	newAccessID := uuid.NewString()
	f.seq++
	token := fmt.Sprintf("refresh-%d", f.seq)
	f.sessions[newAccessID] = token
	return newAccessID, token, nil
}

func (f *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	delete(f.sessions, accessID)
	return nil
}

type authFixture struct {
	svc        Service
	repo       *fakeAuthUserRepo
	sessions   *fakeSessionManager
	households *fakeHouseholdReader
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newFakeAuthUserRepo()
	sessions := newFakeSessionManager()
	reader := &fakeHouseholdReader{households: map[uuid.UUID]*models.Household{}}

	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		HouseholdRepo:  reader,
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
		PasswordConfig: testPasswordConfig,
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return &authFixture{svc: svc, repo: repo, sessions: sessions, households: reader}
}

func (fix *authFixture) register(t *testing.T, email, password, name string) *LoginResponse {
	t.Helper()
	resp, err := fix.svc.Register(context.Background(), RegisterRequest{Email: email, Password: password, DisplayName: name})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return resp
}

func TestRegisterIssuesSession(t *testing.T) {
	fix := newAuthFixture(t)

	resp := fix.register(t, " Ana@Example.com ", "hunter2hunter2", "Ana")
	if resp.User.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", resp.User.Email)
	}
	if resp.User.DisplayName != "Ana" {
		t.Fatalf("profile not created: %+v", resp.User)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("token pair missing")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatalf("claims user mismatch")
	}
	if _, ok := fix.sessions.sessions[claims.ID]; !ok {
		t.Fatalf("refresh session not stored for jti")
	}

	_, err = fix.svc.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "hunter2hunter2", DisplayName: "Ana"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	_, err = fix.svc.Register(context.Background(), RegisterRequest{Email: "bo@example.com", Password: "short", DisplayName: "Bo"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}

func TestLoginVerifiesCredentials(t *testing.T) {
	fix := newAuthFixture(t)
	fix.register(t, "ana@example.com", "hunter2hunter2", "Ana")

	resp, err := fix.svc.Login(context.Background(), LoginRequest{Email: "ANA@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}

	_, err = fix.svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "wrong-password"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}

	_, err = fix.svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "hunter2hunter2"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for unknown email, got %v", err)
	}

	// deactivated accounts cannot log in
	user, _ := fix.repo.FindByEmail(context.Background(), "ana@example.com")
	user.IsActive = false
	_, err = fix.svc.Login(context.Background(), LoginRequest{Email: "ana@example.com", Password: "hunter2hunter2"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for inactive user, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	fix := newAuthFixture(t)
	resp := fix.register(t, "ana@example.com", "hunter2hunter2", "Ana")

	rotated, err := fix.svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rotated.AccessToken == resp.AccessToken || rotated.RefreshToken == resp.RefreshToken {
		t.Fatalf("tokens not rotated")
	}

	// the old pair is now dead
	_, err = fix.svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for replayed refresh, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	fix := newAuthFixture(t)
	resp := fix.register(t, "ana@example.com", "hunter2hunter2", "Ana")

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if err := fix.svc.Logout(context.Background(), claims.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := fix.sessions.sessions[claims.ID]; ok {
		t.Fatalf("session survived logout")
	}
}

func TestSwitchHousehold(t *testing.T) {
	fix := newAuthFixture(t)
	resp := fix.register(t, "ana@example.com", "hunter2hunter2", "Ana")
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}

	owner := resp.User.ID
	household := &models.Household{ID: uuid.New(), Name: "Home", CreatedBy: uuid.New()}
	household.Members = []models.HouseholdMember{
		{HouseholdID: household.ID, UserID: household.CreatedBy, Role: enums.HouseholdRoleOwner},
		{HouseholdID: household.ID, UserID: owner, Role: enums.HouseholdRoleManager},
	}
	fix.households.households[household.ID] = household

	result, err := fix.svc.SwitchHousehold(context.Background(), SwitchHouseholdInput{
		UserID:        owner,
		HouseholdID:   household.ID,
		AccessTokenID: claims.ID,
		RefreshToken:  resp.RefreshToken,
	})
	if err != nil {
		t.Fatalf("SwitchHousehold: %v", err)
	}
	if result.Role != enums.HouseholdRoleManager {
		t.Fatalf("expected manager role, got %q", result.Role)
	}

	switched, err := pkgAuth.ParseAccessToken(testJWTConfig, result.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if switched.ActiveHouseholdID == nil || *switched.ActiveHouseholdID != household.ID {
		t.Fatalf("active household not embedded in claims")
	}

	// non-members cannot switch in
	other := &models.Household{ID: uuid.New(), Name: "Cabin", CreatedBy: uuid.New()}
	fix.households.households[other.ID] = other
	_, err = fix.svc.SwitchHousehold(context.Background(), SwitchHouseholdInput{
		UserID:        owner,
		HouseholdID:   other.ID,
		AccessTokenID: switched.ID,
		RefreshToken:  result.RefreshToken,
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-member, got %v", err)
	}
}
