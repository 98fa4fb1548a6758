package invites

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fridgyapp/fridgy-backend/pkg/db/models"
	"github.com/fridgyapp/fridgy-backend/pkg/enums"
)

func setupInvitesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	inviteCodes := `
CREATE TABLE IF NOT EXISTS invite_codes (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  household_id TEXT NOT NULL,
  created_by TEXT NOT NULL,
  expires_at DATETIME NOT NULL,
  max_uses INTEGER NOT NULL,
  use_count INTEGER NOT NULL DEFAULT 0,
  revoked_at DATETIME,
  created_at DATETIME
);`
	members := `
CREATE TABLE IF NOT EXISTS household_members (
  id TEXT PRIMARY KEY,
  household_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  role TEXT NOT NULL,
  invited_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(inviteCodes).Error)
	require.NoError(t, db.Exec(members).Error)
	return db
}

func seedInvite(t *testing.T, db *gorm.DB, code string, expiresAt time.Time, maxUses, useCount int, revokedAt *time.Time) *models.InviteCode {
	t.Helper()
	invite := &models.InviteCode{
		ID:          uuid.New(),
		Code:        code,
		HouseholdID: uuid.New(),
		CreatedBy:   uuid.New(),
		ExpiresAt:   expiresAt,
		MaxUses:     maxUses,
		UseCount:    useCount,
		RevokedAt:   revokedAt,
	}
	require.NoError(t, db.Create(invite).Error)
	return invite
}

func TestRepositoryRedeemConsumesUse(t *testing.T) {
	db := setupInvitesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	invite := seedInvite(t, db, "BRUNCH42", now.Add(24*time.Hour), 1, 0, nil)
	userID := uuid.New()

	require.NoError(t, repo.Redeem(ctx, invite, userID, now))

	var updated models.InviteCode
	require.NoError(t, db.First(&updated, "id = ?", invite.ID).Error)
	assert.Equal(t, 1, updated.UseCount)

	var member models.HouseholdMember
	require.NoError(t, db.First(&member, "household_id = ? AND user_id = ?", invite.HouseholdID, userID).Error)
	assert.Equal(t, enums.HouseholdRoleMember, member.Role)
	require.NotNil(t, member.InvitedBy)
	assert.Equal(t, invite.CreatedBy, *member.InvitedBy)

	err := repo.Redeem(ctx, invite, uuid.New(), now)
	assert.ErrorIs(t, err, ErrInviteUnusable)
}

func TestRepositoryRedeemRejectsDeadCodes(t *testing.T) {
	db := setupInvitesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	revokedAt := now.Add(-time.Hour)

	expired := seedInvite(t, db, "STALE1", now.Add(-time.Minute), 5, 0, nil)
	revoked := seedInvite(t, db, "PULLED1", now.Add(24*time.Hour), 5, 0, &revokedAt)

	assert.ErrorIs(t, repo.Redeem(ctx, expired, uuid.New(), now), ErrInviteUnusable)
	assert.ErrorIs(t, repo.Redeem(ctx, revoked, uuid.New(), now), ErrInviteUnusable)
}

func TestRepositoryRevoke(t *testing.T) {
	db := setupInvitesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	invite := seedInvite(t, db, "FRESH9", now.Add(24*time.Hour), 5, 0, nil)

	require.NoError(t, repo.Revoke(ctx, invite.HouseholdID, invite.ID, now))

	var updated models.InviteCode
	require.NoError(t, db.First(&updated, "id = ?", invite.ID).Error)
	require.NotNil(t, updated.RevokedAt)

	// already revoked rows are not revocable again
	assert.ErrorIs(t, repo.Revoke(ctx, invite.HouseholdID, invite.ID, now), gorm.ErrRecordNotFound)
}

func TestRepositoryDeleteDead(t *testing.T) {
	db := setupInvitesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	revokedAt := now.Add(-48 * time.Hour)

	seedInvite(t, db, "OLD1", now.Add(-time.Hour), 5, 0, nil)
	seedInvite(t, db, "OLD2", now.Add(24*time.Hour), 5, 0, &revokedAt)
	alive := seedInvite(t, db, "LIVE1", now.Add(24*time.Hour), 5, 0, nil)

	deleted, err := repo.DeleteDead(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining []models.InviteCode
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, alive.ID, remaining[0].ID)
}
