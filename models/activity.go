package models

import (
	"time"
)

// Activity kinds recorded by the engine.
const (
	ActivityChatMessage     = "chat_message"
	ActivityRecipeCompleted = "recipe_completed"
)

// ActivityRecord is an immutable, append-only fact of a qualifying user
// action. It is both the XP audit trail and the streak evidence source.
// Rows are never updated or deleted.
type ActivityRecord struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;index:idx_activity_user_day,priority:1;not null" json:"user_id"`
	OrgID  string `gorm:"type:uuid;index;not null" json:"org_id"`

	Kind     string `gorm:"size:32;index;not null" json:"kind"`
	XPGained int64  `gorm:"default:0;not null" json:"xp_gained"`

	// PhotoURL is set for recipe completions when the collaborator attached
	// a completion photo (uploaded to R2).
	PhotoURL *string `gorm:"type:text" json:"photo_url,omitempty"`

	OccurredAt time.Time `gorm:"index:idx_activity_user_day,priority:2;not null" json:"occurred_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}
