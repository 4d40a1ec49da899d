package services

import (
	"testing"
	"time"

	"craft-mentor-system/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory DB.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Organization{},
		&models.User{},
		&models.ActivityRecord{},
		&models.BadgeGrant{},
	))
	return db
}

func seedOrg(t *testing.T, db *gorm.DB) *models.Organization {
	t.Helper()
	id := uuid.NewString()
	org := &models.Organization{ID: id, Name: "Test Org", Slug: "test-org-" + id[:8]}
	require.NoError(t, db.Create(org).Error)
	return org
}

func seedUser(t *testing.T, db *gorm.DB, orgID, tier string) *models.User {
	t.Helper()
	user := &models.User{
		ID:     uuid.NewString(),
		OrgID:  orgID,
		Name:   "Test Brewer",
		XP:     0,
		Rank:   models.RankNovice,
		Tier:   tier,
		Streak: 0,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedActivity(t *testing.T, db *gorm.DB, userID, orgID, kind string, occurredAt time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.ActivityRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		OrgID:      orgID,
		Kind:       kind,
		OccurredAt: occurredAt,
	}).Error)
}

func reloadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.Where("id = ?", id).First(&user).Error)
	return &user
}
