package services

import (
	"errors"
	"log"

	"craft-mentor-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CreateOrganization provisions a new tenant. Organizations are immutable
// once created.
func CreateOrganization(db *gorm.DB, name string) (*models.Organization, error) {
	org := models.Organization{
		ID:   uuid.NewString(),
		Name: name,
		Slug: slug.Make(name),
	}
	if err := db.Create(&org).Error; err != nil {
		return nil, err
	}
	log.Printf("🏠 Organization created: %s (%s)", org.Name, org.Slug)
	return &org, nil
}

// EnsureDefaultOrganization seeds the bootstrap org used by single-tenant
// deployments (idempotent).
func EnsureDefaultOrganization(db *gorm.DB) (*models.Organization, error) {
	var org models.Organization
	err := db.Where("id = ?", models.DefaultOrgID).First(&org).Error
	if err == nil {
		return &org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name := "Craft Mentor Community"
	org = models.Organization{
		ID:   models.DefaultOrgID,
		Name: name,
		Slug: slug.Make(name),
	}
	if err := db.Create(&org).Error; err != nil {
		return nil, err
	}
	log.Printf("🏠 Created default organization %s (%s)", org.Name, org.Slug)
	return &org, nil
}
