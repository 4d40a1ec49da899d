package services

import (
	"log"

	"craft-mentor-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// EvaluateAndGrant runs the full catalog against a fresh stats snapshot and
// grants every not-yet-earned badge whose criteria now pass. Grants are
// append-only and idempotent: a second pass with unchanged stats yields
// nothing. Soft-fails to an empty list — badge evaluation must never fail
// the XP grant or the chat response it rides on.
func (s *BadgeService) EvaluateAndGrant(userID, orgID string) []models.BadgeGrant {
	if err := EnsureOrgOwnership(s.DB, userID, orgID); err != nil {
		return nil
	}

	var user models.User
	if err := s.DB.Where("id = ? AND org_id = ?", userID, orgID).First(&user).Error; err != nil {
		return nil
	}

	stats, err := s.collectStats(&user)
	if err != nil {
		log.Printf("⚠️ [BADGES] stats snapshot failed for user %s: %v", userID, err)
		return nil
	}

	var existingTypes []string
	if err := s.DB.Model(&models.BadgeGrant{}).
		Where("user_id = ? AND org_id = ?", userID, orgID).
		Pluck("badge_type", &existingTypes).Error; err != nil {
		log.Printf("⚠️ [BADGES] loading grants failed for user %s: %v", userID, err)
		return nil
	}
	earned := make(map[string]bool, len(existingTypes))
	for _, t := range existingTypes {
		earned[t] = true
	}

	var newlyGranted []models.BadgeGrant
	for _, def := range models.BadgeCatalog {
		if earned[def.Type] || !def.Criteria(stats) {
			continue
		}

		grant := models.BadgeGrant{
			ID:          uuid.NewString(),
			UserID:      userID,
			OrgID:       orgID,
			BadgeType:   def.Type,
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Color:       def.Color,
		}
		// ON CONFLICT DO NOTHING: a concurrent evaluation may have inserted
		// the same (user, type) first — that is a no-op, not an error.
		res := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_type"}},
			DoNothing: true,
		}).Create(&grant)
		if res.Error != nil {
			log.Printf("⚠️ [BADGES] insert failed for %s/%s: %v", userID, def.Type, res.Error)
			continue
		}
		if res.RowsAffected == 0 {
			continue
		}

		log.Printf("🎖️ Badge awarded: %s → %s", def.Name, userID)
		newlyGranted = append(newlyGranted, grant)
	}
	return newlyGranted
}

// GetUserBadges lists the badges already granted to the user.
func (s *BadgeService) GetUserBadges(userID, orgID string) ([]models.BadgeGrant, error) {
	if err := EnsureOrgOwnership(s.DB, userID, orgID); err != nil {
		return nil, err
	}
	var grants []models.BadgeGrant
	err := s.DB.Where("user_id = ? AND org_id = ?", userID, orgID).
		Order("earned_at ASC").
		Find(&grants).Error
	return grants, err
}

func (s *BadgeService) collectStats(user *models.User) (models.UserStats, error) {
	var totalMessages, completedRecipes int64
	if err := s.DB.Model(&models.ActivityRecord{}).
		Where("user_id = ? AND org_id = ? AND kind = ?", user.ID, user.OrgID, models.ActivityChatMessage).
		Count(&totalMessages).Error; err != nil {
		return models.UserStats{}, err
	}
	if err := s.DB.Model(&models.ActivityRecord{}).
		Where("user_id = ? AND org_id = ? AND kind = ?", user.ID, user.OrgID, models.ActivityRecipeCompleted).
		Count(&completedRecipes).Error; err != nil {
		return models.UserStats{}, err
	}
	return models.UserStats{
		TotalMessages:    totalMessages,
		CompletedRecipes: completedRecipes,
		XP:               user.XP,
		Rank:             user.Rank,
		Streak:           user.Streak,
	}, nil
}
