package services

import (
	"errors"
	"log"

	"craft-mentor-system/models"

	"gorm.io/gorm"
)

// EnsureOrgOwnership verifies that the user belongs to the given org before
// any engine read or write. The org id must come from the gateway's
// authenticated context, never from untrusted input.
//
// Returns ErrUserNotFound if the user does not exist and ErrForbidden on an
// org mismatch. Every other engine entry point calls this first.
func EnsureOrgOwnership(db *gorm.DB, userID, orgID string) error {
	var user models.User
	err := db.Select("org_id").Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if user.OrgID != orgID {
		// Possible cross-tenant access attempt — keep this loud.
		log.Printf("🚨 [GUARD] org mismatch: user=%s stored_org=%s requested_org=%s", userID, user.OrgID, orgID)
		return ErrForbidden
	}
	return nil
}
