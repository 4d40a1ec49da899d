package models

import (
	"time"
)

// Organization is the isolation boundary for all engine data.
// Every user, activity record and badge grant is scoped to exactly one org.
type Organization struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// DefaultOrgID is the fixed id of the bootstrap organization
// (matches the seed used by the community deployment).
const DefaultOrgID = "00000000-0000-0000-0000-000000000001"
