package services

import (
	"testing"

	"craft-mentor-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTier(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	otherOrg := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewBillingService(db)

	require.NoError(t, svc.UpdateTier(user.ID, org.ID, models.TierPro))
	assert.Equal(t, models.TierPro, reloadUser(t, db, user.ID).Tier)

	tier, err := svc.GetTier(user.ID, org.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TierPro, tier)

	t.Run("unknown tier rejected", func(t *testing.T) {
		require.Error(t, svc.UpdateTier(user.ID, org.ID, "DIAMOND"))
		assert.Equal(t, models.TierPro, reloadUser(t, db, user.ID).Tier)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.UpdateTier(uuid.NewString(), org.ID, models.TierPro)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("tenant mismatch", func(t *testing.T) {
		err := svc.UpdateTier(user.ID, otherOrg.ID, models.TierElite)
		require.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, models.TierPro, reloadUser(t, db, user.ID).Tier)
	})
}

func TestTierChangeTakesEffectOnNextQuotaCheck(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	billing := NewBillingService(db)
	quota := NewQuotaService(db)

	for i := 0; i < 10; i++ {
		seedActivity(t, db, user.ID, org.ID, models.ActivityChatMessage, quota.now())
	}

	status, err := quota.CheckQuota(user.ID, org.ID, models.TierFree)
	require.NoError(t, err)
	require.False(t, status.Allowed)

	require.NoError(t, billing.UpdateTier(user.ID, org.ID, models.TierPro))
	status, err = quota.CheckQuota(user.ID, org.ID, reloadUser(t, db, user.ID).Tier)
	require.NoError(t, err)
	assert.True(t, status.Allowed)
	assert.Equal(t, int64(90), status.Remaining)
}
