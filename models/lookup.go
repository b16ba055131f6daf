package models

import (
	"gorm.io/gorm"
)

// Claim status names. Stored lowercase with spaces; input variants such as
// "In Progress" or "in_progress" are folded by services.NormalizeStatus.
const (
	StatusNew        = "new"
	StatusInProgress = "in progress"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusPending    = "pending"
)

// ClaimStatus is a lookup row mapping a status id to its name
type ClaimStatus struct {
	StatusID   uint   `gorm:"primaryKey;autoIncrement" json:"status_id"`
	StatusName string `gorm:"size:20;uniqueIndex;not null" json:"status_name"`
}

// TableName specifies the table name for the ClaimStatus model
func (ClaimStatus) TableName() string {
	return "claim_status"
}

// VehicleType is a lookup row for the kind of insured vehicle
type VehicleType struct {
	TypeID   uint   `gorm:"primaryKey;autoIncrement" json:"type_id"`
	TypeName string `gorm:"size:50;uniqueIndex;not null" json:"type_name"`
}

// TableName specifies the table name for the VehicleType model
func (VehicleType) TableName() string {
	return "vehicle_types"
}

// IncidentType is a lookup row for the kind of reported incident
type IncidentType struct {
	TypeID   uint   `gorm:"primaryKey;autoIncrement" json:"type_id"`
	TypeName string `gorm:"size:50;uniqueIndex;not null" json:"type_name"`
}

// TableName specifies the table name for the IncidentType model
func (IncidentType) TableName() string {
	return "incident_types"
}

// AllStatusNames returns every valid claim status name
func AllStatusNames() []string {
	return []string{StatusNew, StatusInProgress, StatusApproved, StatusRejected, StatusPending}
}

var defaultVehicleTypes = []string{"car", "motorcycle", "truck", "van", "other"}

var defaultIncidentTypes = []string{"collision", "theft", "vandalism", "weather", "fire", "other"}

// SeedLookups inserts the lookup rows the application depends on.
// Safe to run repeatedly; existing rows are left alone.
func SeedLookups(db *gorm.DB) error {
	for _, name := range AllStatusNames() {
		status := ClaimStatus{StatusName: name}
		if err := db.Where("status_name = ?", name).FirstOrCreate(&status).Error; err != nil {
			return err
		}
	}
	for _, name := range defaultVehicleTypes {
		vt := VehicleType{TypeName: name}
		if err := db.Where("type_name = ?", name).FirstOrCreate(&vt).Error; err != nil {
			return err
		}
	}
	for _, name := range defaultIncidentTypes {
		it := IncidentType{TypeName: name}
		if err := db.Where("type_name = ?", name).FirstOrCreate(&it).Error; err != nil {
			return err
		}
	}
	return nil
}
