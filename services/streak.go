package services

import (
	"time"

	"craft-mentor-system/models"

	"gorm.io/gorm"
)

// startOfDay truncates to the calendar day in the timestamp's location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StreakService maintains the per-user consecutive-day activity streak.
// The streak is recomputed lazily as a side effect of profile reads rather
// than by a background job, so its staleness is bounded by the time until
// the next profile fetch.
type StreakService struct {
	DB *gorm.DB

	now func() time.Time
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{DB: db, now: time.Now}
}

// RecomputeStreak refreshes and returns the user's streak. Idempotent
// within a calendar day. Soft-fails to the prior value (or 0 when the user
// cannot be loaded): the streak is a motivational display value and must
// never block a profile read.
//
// The calendar day after the last activity is a grace window — the streak
// only breaks after more than one full day without activity.
func (s *StreakService) RecomputeStreak(userID, orgID string) int {
	if err := EnsureOrgOwnership(s.DB, userID, orgID); err != nil {
		return 0
	}

	var user models.User
	if err := s.DB.Where("id = ? AND org_id = ?", userID, orgID).First(&user).Error; err != nil {
		return 0
	}

	now := s.now()
	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)

	activityToday, err := s.hasActivityBetween(userID, orgID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return user.Streak
	}

	if activityToday {
		lastDay := startOfDay(user.LastActivityAt)
		if !lastDay.Before(today) {
			// Already refreshed today. Activity today implies a streak of
			// at least 1 even when the stored value is 0.
			if user.Streak > 0 {
				return user.Streak
			}
			return 1
		}

		// First activity-bearing read of the day: continue or restart.
		activityYesterday, err := s.hasActivityBetween(userID, orgID, yesterday, today)
		if err != nil {
			return user.Streak
		}
		newStreak := 1
		if activityYesterday || lastDay.Equal(yesterday) {
			newStreak = user.Streak + 1
		}
		if err := s.DB.Model(&user).Updates(map[string]interface{}{
			"streak":           newStreak,
			"last_activity_at": now,
		}).Error; err != nil {
			return user.Streak
		}
		return newStreak
	}

	// No activity yet today.
	daysSinceLastActivity := int(today.Sub(startOfDay(user.LastActivityAt)).Hours() / 24)
	if daysSinceLastActivity > 1 {
		if user.Streak > 0 {
			if err := s.DB.Model(&user).UpdateColumn("streak", 0).Error; err != nil {
				return user.Streak
			}
		}
		return 0
	}
	return user.Streak
}

func (s *StreakService) hasActivityBetween(userID, orgID string, from, to time.Time) (bool, error) {
	var count int64
	err := s.DB.Model(&models.ActivityRecord{}).
		Where("user_id = ? AND org_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, orgID, from, to).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
