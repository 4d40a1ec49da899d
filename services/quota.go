package services

import (
	"time"

	"craft-mentor-system/models"

	"gorm.io/gorm"
)

// TierLimits maps a subscription tier to its daily chat message allowance.
// -1 means unlimited.
var TierLimits = map[string]int64{
	models.TierFree:  10,
	models.TierPro:   100,
	models.TierElite: -1,
}

// QuotaStatus is the result of one quota check.
type QuotaStatus struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	Unlimited bool  `json:"unlimited"`
}

// QuotaService gates chat activity on the tier's daily allowance. It is a
// pure read-check: the day boundary lives in the query filter, so there is
// no reset job and nothing to decrement. Two concurrent checks can both
// pass just before the allowance fills — accepted, the quota is a usage
// nudge rather than billing-accurate metering.
type QuotaService struct {
	DB *gorm.DB

	now func() time.Time
}

func NewQuotaService(db *gorm.DB) *QuotaService {
	return &QuotaService{DB: db, now: time.Now}
}

// CheckQuota reports whether the user may send another chat message today.
// Unknown tiers fall back to the FREE allowance.
func (s *QuotaService) CheckQuota(userID, orgID, tier string) (*QuotaStatus, error) {
	if err := EnsureOrgOwnership(s.DB, userID, orgID); err != nil {
		return nil, err
	}

	limit, ok := TierLimits[tier]
	if !ok {
		limit = TierLimits[models.TierFree]
	}
	if limit < 0 {
		return &QuotaStatus{Allowed: true, Unlimited: true}, nil
	}

	var count int64
	err := s.DB.Model(&models.ActivityRecord{}).
		Where("user_id = ? AND org_id = ? AND kind = ? AND occurred_at >= ?",
			userID, orgID, models.ActivityChatMessage, startOfDay(s.now())).
		Count(&count).Error
	if err != nil {
		return nil, err
	}

	if count >= limit {
		return &QuotaStatus{Allowed: false, Remaining: 0}, nil
	}
	return &QuotaStatus{Allowed: true, Remaining: limit - count}, nil
}
