package services

import (
	"testing"
	"time"

	"craft-mentor-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRank(t *testing.T) {
	cases := []struct {
		xp   int64
		want string
	}{
		{0, models.RankNovice},
		{299, models.RankNovice},
		{300, models.RankBrewer},
		{999, models.RankBrewer},
		{1000, models.RankMaltMaster},
		{2999, models.RankMaltMaster},
		{3000, models.RankAlchemist},
		{9999, models.RankAlchemist},
		{10000, models.RankLegend},
		{1000000, models.RankLegend},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CalculateRank(tc.xp), "xp=%d", tc.xp)
	}

	// Determinism: same input, same output — no hidden state.
	for i := 0; i < 3; i++ {
		assert.Equal(t, CalculateRank(1234), CalculateRank(1234))
	}
}

func TestGrantXP_RankUpAtBoundary(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewProgressionService(db)

	result, err := svc.GrantXP(user.ID, org.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, int64(300), result.NewXP)
	assert.Equal(t, models.RankBrewer, result.NewRank)
	assert.True(t, result.RankUp)

	result, err = svc.GrantXP(user.ID, org.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(350), result.NewXP)
	assert.Equal(t, models.RankBrewer, result.NewRank)
	assert.False(t, result.RankUp)

	stored := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(350), stored.XP)
	assert.Equal(t, models.RankBrewer, stored.Rank)
}

func TestGrantXP_RankMonotonicAcrossSequence(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewProgressionService(db)

	rankOrder := map[string]int{
		models.RankNovice:     0,
		models.RankBrewer:     1,
		models.RankMaltMaster: 2,
		models.RankAlchemist:  3,
		models.RankLegend:     4,
	}

	prevRank := models.RankNovice
	for _, amount := range []int64{100, 150, 49, 1, 500, 2000, 300, 7000, 5} {
		result, err := svc.GrantXP(user.ID, org.ID, amount)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, rankOrder[result.NewRank], rankOrder[prevRank])
		assert.Equal(t, result.NewRank != prevRank, result.RankUp,
			"rank_up must fire exactly when the derived rank changes")
		prevRank = result.NewRank
	}
	assert.Equal(t, models.RankLegend, prevRank)
}

func TestGrantXP_RejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewProgressionService(db)

	_, err := svc.GrantXP(user.ID, org.ID, 0)
	require.Error(t, err)
	_, err = svc.GrantXP(user.ID, org.ID, -5)
	require.Error(t, err)
}

func TestGrantXP_UserNotFound(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	svc := NewProgressionService(db)

	_, err := svc.GrantXP(uuid.NewString(), org.ID, 10)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestGrantXP_TenantMismatchHasNoSideEffect(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	otherOrg := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewProgressionService(db)

	_, err := svc.GrantXP(user.ID, otherOrg.ID, 100)
	require.ErrorIs(t, err, ErrForbidden)

	stored := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(0), stored.XP)
	assert.Equal(t, models.RankNovice, stored.Rank)
}

func TestEnsureUser(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	otherOrg := seedOrg(t, db)
	svc := NewProgressionService(db)

	id := uuid.NewString()
	user, err := svc.EnsureUser(id, org.ID, "Bro", "bro@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RankNovice, user.Rank)
	assert.Equal(t, models.TierFree, user.Tier)

	// Idempotent: second call returns the same row.
	again, err := svc.EnsureUser(id, org.ID, "Bro", "bro@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The stored org wins over whatever context a later call carries.
	_, err = svc.EnsureUser(id, otherOrg.ID, "Bro", "")
	require.ErrorIs(t, err, ErrForbidden)
}

func TestRecordActivity_ChatFlow(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewProgressionService(db)

	result, err := svc.RecordActivity(user.ID, org.ID, models.ActivityChatMessage, nil)
	require.NoError(t, err)

	assert.Equal(t, ChatMessageXP, result.Activity.XPGained)
	assert.Equal(t, ChatMessageXP, result.XP.NewXP)
	assert.False(t, result.XP.RankUp)
	require.NotNil(t, result.MessagesRemaining)
	assert.Equal(t, int64(9), *result.MessagesRemaining)

	// First chat message earns the first-chat badge in the same pass.
	types := make([]string, 0, len(result.NewBadges))
	for _, b := range result.NewBadges {
		types = append(types, b.BadgeType)
	}
	assert.Contains(t, types, "FIRST_CHAT")

	var activityCount int64
	require.NoError(t, db.Model(&models.ActivityRecord{}).Where("user_id = ?", user.ID).Count(&activityCount).Error)
	assert.Equal(t, int64(1), activityCount)
}

func TestRecordActivity_RecipeFlow(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewProgressionService(db)

	photo := "https://cdn.example.com/completions/abc.jpg"
	result, err := svc.RecordActivity(user.ID, org.ID, models.ActivityRecipeCompleted, &photo)
	require.NoError(t, err)

	assert.Equal(t, RecipeCompletedXP, result.XP.NewXP)
	assert.Nil(t, result.MessagesRemaining, "recipe completions are not quota-gated")
	require.NotNil(t, result.Activity.PhotoURL)
	assert.Equal(t, photo, *result.Activity.PhotoURL)
}

func TestRecordActivity_UnknownKind(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewProgressionService(db)

	_, err := svc.RecordActivity(user.ID, org.ID, "walked_the_dog", nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrQuotaExceeded)
}

func TestRecordActivity_QuotaExceededLeavesNoTrace(t *testing.T) {
	db := newTestDB(t)
	org := seedOrg(t, db)
	user := seedUser(t, db, org.ID, models.TierFree)
	svc := NewProgressionService(db)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	svc.Quota.now = svc.now

	for i := 0; i < 10; i++ {
		seedActivity(t, db, user.ID, org.ID, models.ActivityChatMessage, now)
	}

	_, err := svc.RecordActivity(user.ID, org.ID, models.ActivityChatMessage, nil)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// Rejected attempt appends nothing and grants nothing.
	var activityCount int64
	require.NoError(t, db.Model(&models.ActivityRecord{}).Where("user_id = ?", user.ID).Count(&activityCount).Error)
	assert.Equal(t, int64(10), activityCount)
	assert.Equal(t, int64(0), reloadUser(t, db, user.ID).XP)
}
