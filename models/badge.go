package models

import (
	"time"
)

// BadgeGrant: one-time, non-revocable achievement awarded to a user.
// The unique index on (user_id, badge_type) is what makes concurrent
// duplicate grants a harmless no-op.
type BadgeGrant struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;uniqueIndex:ux_user_badge,priority:1;not null" json:"user_id"`
	OrgID  string `gorm:"type:uuid;index;not null" json:"org_id"`

	BadgeType   string `gorm:"size:64;uniqueIndex:ux_user_badge,priority:2;not null" json:"badge_type"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Icon        string `gorm:"size:50" json:"icon"`
	Color       string `gorm:"size:7" json:"color"`

	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

// UserStats is the snapshot badge criteria are evaluated against.
type UserStats struct {
	TotalMessages    int64
	CompletedRecipes int64
	XP               int64
	Rank             string
	Streak           int
}

// BadgeDefinition is a static catalog entry. The catalog is closed and
// code-defined; criteria are pure functions of a UserStats snapshot.
type BadgeDefinition struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`

	Criteria func(stats UserStats) bool `json:"-"`
}

// BadgeCatalog lists every badge the engine can award, in evaluation order.
var BadgeCatalog = []BadgeDefinition{
	{
		Type:        "FIRST_CHAT",
		Name:        "First Spark",
		Description: "Sent your first chat message",
		Icon:        "🔥",
		Color:       "#FF6B00",
		Criteria:    func(s UserStats) bool { return s.TotalMessages >= 1 },
	},
	{
		Type:        "TEN_CHATS",
		Name:        "Chatterbox",
		Description: "Sent 10 chat messages",
		Icon:        "💬",
		Color:       "#3B82F6",
		Criteria:    func(s UserStats) bool { return s.TotalMessages >= 10 },
	},
	{
		Type:        "FIFTY_CHATS",
		Name:        "Conversation Master",
		Description: "Sent 50 chat messages",
		Icon:        "🗣️",
		Color:       "#8B5CF6",
		Criteria:    func(s UserStats) bool { return s.TotalMessages >= 50 },
	},
	{
		Type:        "FIRST_RECIPE",
		Name:        "First Batch",
		Description: "Completed your first recipe",
		Icon:        "📜",
		Color:       "#10B981",
		Criteria:    func(s UserStats) bool { return s.CompletedRecipes >= 1 },
	},
	{
		Type:        "TEN_RECIPES",
		Name:        "Seasoned Brewer",
		Description: "Completed 10 recipes",
		Icon:        "👨‍🍳",
		Color:       "#F59E0B",
		Criteria:    func(s UserStats) bool { return s.CompletedRecipes >= 10 },
	},
	{
		Type:        "FIRST_RANK_UP",
		Name:        "Moving Up",
		Description: "Reached the Brewer rank",
		Icon:        "⬆️",
		Color:       "#EF4444",
		Criteria:    func(s UserStats) bool { return s.Rank != RankNovice },
	},
	{
		Type:        "MASTER_RANK",
		Name:        "Malt Master",
		Description: "Reached the Malt Master rank",
		Icon:        "🍺",
		Color:       "#F59E0B",
		Criteria: func(s UserStats) bool {
			switch s.Rank {
			case RankMaltMaster, RankAlchemist, RankLegend:
				return true
			}
			return false
		},
	},
	{
		Type:        "STREAK_7",
		Name:        "One Week Fermenting",
		Description: "Kept a 7-day activity streak",
		Icon:        "📅",
		Color:       "#06B6D4",
		Criteria:    func(s UserStats) bool { return s.Streak >= 7 },
	},
}
