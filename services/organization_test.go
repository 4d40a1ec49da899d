package services

import (
	"testing"

	"craft-mentor-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrganization(t *testing.T) {
	db := newTestDB(t)

	org, err := CreateOrganization(db, "Hop Heads Brewing Club")
	require.NoError(t, err)
	assert.Equal(t, "hop-heads-brewing-club", org.Slug)

	// Slug is unique: the same name cannot be provisioned twice.
	_, err = CreateOrganization(db, "Hop Heads Brewing Club")
	require.Error(t, err)
}

func TestEnsureDefaultOrganization(t *testing.T) {
	db := newTestDB(t)

	org, err := EnsureDefaultOrganization(db)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultOrgID, org.ID)

	again, err := EnsureDefaultOrganization(db)
	require.NoError(t, err)
	assert.Equal(t, org.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.Organization{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
