package services

import (
	"fmt"
	"log"

	"craft-mentor-system/models"

	"gorm.io/gorm"
)

// BillingService applies tier changes pushed by the billing collaborator
// (subscription upgrade/downgrade). The new tier is picked up by the next
// quota check — no migration step.
type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db}
}

func (s *BillingService) UpdateTier(userID, orgID, tier string) error {
	if _, ok := TierLimits[tier]; !ok {
		return fmt.Errorf("unknown tier %q", tier)
	}
	if err := EnsureOrgOwnership(s.DB, userID, orgID); err != nil {
		return err
	}

	res := s.DB.Model(&models.User{}).
		Where("id = ? AND org_id = ?", userID, orgID).
		UpdateColumn("tier", tier)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	log.Printf("💳 User %s orgId=%s tier updated to %s", userID, orgID, tier)
	return nil
}

func (s *BillingService) GetTier(userID, orgID string) (string, error) {
	if err := EnsureOrgOwnership(s.DB, userID, orgID); err != nil {
		return "", err
	}
	var user models.User
	if err := s.DB.Select("tier").Where("id = ? AND org_id = ?", userID, orgID).First(&user).Error; err != nil {
		return "", err
	}
	return user.Tier, nil
}
