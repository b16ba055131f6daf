package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestTableNames(t *testing.T) {
	assert.Equal(t, "claims", Claim{}.TableName())
	assert.Equal(t, "claim_actions", ClaimAction{}.TableName())
	assert.Equal(t, "claim_images", ClaimImage{}.TableName())
	assert.Equal(t, "claim_status", ClaimStatus{}.TableName())
	assert.Equal(t, "vehicle_types", VehicleType{}.TableName())
	assert.Equal(t, "incident_types", IncidentType{}.TableName())
}

func TestClaimHasAssessment(t *testing.T) {
	claim := Claim{}
	assert.False(t, claim.HasAssessment(), "Claim without assessment columns should report none")

	severity := "medium"
	claim.DamageSeverity = &severity
	assert.True(t, claim.HasAssessment(), "Claim with severity set should report an assessment")
}

func TestClaimImageStorageKey(t *testing.T) {
	image := ClaimImage{
		S3FolderPath: "claims/000000000001",
		FileName:     "image.png",
	}
	assert.Equal(t, "claims/000000000001/image.png", image.StorageKey())
}

func TestSeedLookupsIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&ClaimStatus{}, &VehicleType{}, &IncidentType{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	assert.NoError(t, SeedLookups(db))
	assert.NoError(t, SeedLookups(db), "Seeding twice should not fail")

	var statusCount int64
	db.Model(&ClaimStatus{}).Count(&statusCount)
	assert.Equal(t, int64(len(AllStatusNames())), statusCount, "Seeding twice should not duplicate statuses")

	var pending ClaimStatus
	assert.NoError(t, db.Where("status_name = ?", StatusPending).First(&pending).Error)
	assert.NotZero(t, pending.StatusID)
}
