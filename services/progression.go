package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"craft-mentor-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// XP awarded per activity kind (tunable via config/env later)
const (
	ChatMessageXP     int64 = 10
	RecipeCompletedXP int64 = 50
)

// RankThresholds: minimum cumulative XP per rank, ascending and contiguous.
// The stored rank is always exactly CalculateRank(xp).
var RankThresholds = []struct {
	MinXP int64
	Rank  string
}{
	{0, models.RankNovice},
	{300, models.RankBrewer},
	{1000, models.RankMaltMaster},
	{3000, models.RankAlchemist},
	{10000, models.RankLegend},
}

// CalculateRank returns the highest rank whose threshold is <= xp.
// Pure function of xp alone.
func CalculateRank(xp int64) string {
	rank := models.RankNovice
	for _, t := range RankThresholds {
		if xp >= t.MinXP {
			rank = t.Rank
		}
	}
	return rank
}

// RankName returns the display name for a rank value.
func RankName(rank string) string {
	switch rank {
	case models.RankNovice:
		return "Novice"
	case models.RankBrewer:
		return "Brewer"
	case models.RankMaltMaster:
		return "Malt Master"
	case models.RankAlchemist:
		return "Alchemist"
	case models.RankLegend:
		return "Legend"
	default:
		return "Novice"
	}
}

// XPResult reports the outcome of one XP grant.
type XPResult struct {
	NewXP   int64  `json:"new_xp"`
	NewRank string `json:"new_rank"`
	RankUp  bool   `json:"rank_up"`
}

// ActivityResult reports the outcome of one ingested activity.
type ActivityResult struct {
	Activity  *models.ActivityRecord `json:"activity"`
	XP        *XPResult              `json:"xp"`
	NewBadges []models.BadgeGrant    `json:"new_badges"`
	// MessagesRemaining is nil for unlimited tiers and non-chat activity.
	MessagesRemaining *int64 `json:"messages_remaining,omitempty"`
}

type ProgressionService struct {
	DB     *gorm.DB
	Badges *BadgeService
	Quota  *QuotaService

	now func() time.Time
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{
		DB:     db,
		Badges: NewBadgeService(db),
		Quota:  NewQuotaService(db),
		now:    time.Now,
	}
}

// EnsureUser ensures a progression row exists for the user (idempotent).
// Called when the gateway forwards a principal the engine has not seen yet;
// the org id comes from the authenticated context and is immutable after this.
func (s *ProgressionService) EnsureUser(userID, orgID, name, email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			ID:             userID,
			OrgID:          orgID,
			Name:           name,
			Email:          email,
			XP:             0,
			Rank:           models.RankNovice,
			Tier:           models.TierFree,
			Streak:         0,
			LastActivityAt: s.now(),
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}
	if user.OrgID != orgID {
		return nil, ErrForbidden
	}
	return &user, nil
}

// GrantXP adds a positive XP amount and re-derives the rank, both persisted
// in one transaction. The increment runs as UPDATE ... SET xp = xp + ?
// RETURNING xp so concurrent grants cannot lose an update.
func (s *ProgressionService) GrantXP(userID, orgID string, amount int64) (*XPResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("xp amount must be positive, got %d", amount)
	}
	if err := EnsureOrgOwnership(s.DB, userID, orgID); err != nil {
		return nil, err
	}

	var result XPResult
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ? AND org_id = ?", userID, orgID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		oldRank := user.Rank

		if err := tx.Model(&user).
			Clauses(clause.Returning{Columns: []clause.Column{{Name: "xp"}}}).
			UpdateColumn("xp", gorm.Expr("xp + ?", amount)).Error; err != nil {
			return err
		}

		newRank := CalculateRank(user.XP)
		if newRank != oldRank {
			if err := tx.Model(&user).UpdateColumn("rank", newRank).Error; err != nil {
				return err
			}
		}

		result = XPResult{NewXP: user.XP, NewRank: newRank, RankUp: newRank != oldRank}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.RankUp {
		// Consumed by the UI layer for the rank-up toast.
		log.Printf(`🎮 [EVENT] type="rank_up" userId=%s orgId=%s newRank=%q totalXP=%d`,
			userID, orgID, result.NewRank, result.NewXP)
	}
	return &result, nil
}

// RecordActivity is the ingestion hook called by the chat and recipe
// collaborators after their action succeeds. Order matters: the quota gate
// runs before anything is written, the activity record and XP grant are
// critical, the badge pass is cosmetic and never fails the grant.
func (s *ProgressionService) RecordActivity(userID, orgID, kind string, photoURL *string) (*ActivityResult, error) {
	if err := EnsureOrgOwnership(s.DB, userID, orgID); err != nil {
		return nil, err
	}

	var xpAmount int64
	switch kind {
	case models.ActivityChatMessage:
		xpAmount = ChatMessageXP
	case models.ActivityRecipeCompleted:
		xpAmount = RecipeCompletedXP
	default:
		return nil, fmt.Errorf("unknown activity kind %q", kind)
	}

	var user models.User
	if err := s.DB.Where("id = ? AND org_id = ?", userID, orgID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if kind == models.ActivityChatMessage {
		status, err := s.Quota.CheckQuota(userID, orgID, user.Tier)
		if err != nil {
			return nil, err
		}
		if !status.Allowed {
			log.Printf(`🚫 [EVENT] type="limit_reached" userId=%s orgId=%s tier=%q`, userID, orgID, user.Tier)
			return nil, ErrQuotaExceeded
		}
	}

	record := &models.ActivityRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		OrgID:      orgID,
		Kind:       kind,
		XPGained:   xpAmount,
		PhotoURL:   photoURL,
		OccurredAt: s.now(),
	}
	if err := s.DB.Create(record).Error; err != nil {
		return nil, err
	}

	xp, err := s.GrantXP(userID, orgID, xpAmount)
	if err != nil {
		return nil, err
	}

	newBadges := s.Badges.EvaluateAndGrant(userID, orgID)

	result := &ActivityResult{Activity: record, XP: xp, NewBadges: newBadges}
	if kind == models.ActivityChatMessage {
		if status, err := s.Quota.CheckQuota(userID, orgID, user.Tier); err == nil && !status.Unlimited {
			remaining := status.Remaining
			result.MessagesRemaining = &remaining
		}
	}
	return result, nil
}
