package models

import (
	"time"

	"gorm.io/gorm"
)

// Rank values, lowest to highest. Always derived from XP — never set directly.
const (
	RankNovice     = "NOVICE"
	RankBrewer     = "BREWER"
	RankMaltMaster = "MALT_MASTER"
	RankAlchemist  = "ALCHEMIST"
	RankLegend     = "LEGEND"
)

// Subscription tiers. Tier controls the daily chat message allowance.
const (
	TierFree  = "FREE"
	TierPro   = "PRO"
	TierElite = "ELITE"
)

// User is the per-principal progression row (denormalized for fast profile reads).
// The ID matches the auth service's user id forwarded by the gateway.
// OrgID is immutable after creation.
type User struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	OrgID string `gorm:"index;type:uuid;not null" json:"org_id"`

	Name  string `json:"name"`
	Email string `gorm:"size:320" json:"email,omitempty"`

	// Gamification state
	XP     int64  `gorm:"default:0;not null" json:"xp"`
	Rank   string `gorm:"size:32;default:'NOVICE';not null" json:"rank"`
	Tier   string `gorm:"size:32;default:'FREE';not null" json:"tier"`
	Streak int    `gorm:"default:0;not null" json:"streak"`

	// Updated only by streak recomputation.
	LastActivityAt time.Time `json:"last_activity_at"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
