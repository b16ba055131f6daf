package models

import (
	"time"
)

// Claim represents one insurance claim tracked from intake through payout
type Claim struct {
	ClaimID            string       `gorm:"primaryKey;size:12" json:"id"`
	UUID               string       `gorm:"size:36;not null" json:"uuid"`
	CustomerName       string       `gorm:"not null" json:"customerName"`
	Email              string       `gorm:"not null" json:"email"`
	PhoneNumber        string       `gorm:"not null" json:"phone"`
	PolicyNumber       string       `gorm:"uniqueIndex;not null" json:"policyNumber"`
	VehicleTypeID      uint         `gorm:"not null;index" json:"vehicle_type_id"`
	VehicleType        VehicleType  `gorm:"foreignKey:VehicleTypeID" json:"-"`
	VehicleBrand       string       `json:"vehicleBrand"`
	VehicleDescription string       `gorm:"type:text" json:"vehicleDescription"`
	IncidentTypeID     uint         `gorm:"not null;index" json:"incident_type_id"`
	IncidentType       IncidentType `gorm:"foreignKey:IncidentTypeID" json:"-"`
	IncidentDate       string       `json:"incidentDate"`
	Description        string       `gorm:"type:text" json:"description"`
	StatusID           uint         `gorm:"not null;index" json:"status_id"`
	Status             ClaimStatus  `gorm:"foreignKey:StatusID" json:"-"`
	EstimatedCost      float64      `gorm:"not null;default:0" json:"estimatedCost"`
	DamagePhotoURL     *string      `json:"damagePhotoUrl"`
	ReportURL          *string      `json:"reportUrl"`

	// Damage assessment columns, written by the detection ingest path only
	DamageSeverity      *string  `json:"damageSeverity,omitempty"`
	DamageEstimatedCost *float64 `json:"damageEstimatedCost,omitempty"`
	DamageRepairTime    *string  `json:"damageRepairTime,omitempty"`
	DamageNotes         *string  `json:"damageNotes,omitempty"`
	DamagedPartsCount   *int     `json:"damagedPartsCount,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Claim model
func (Claim) TableName() string {
	return "claims"
}

// HasAssessment reports whether a damage assessment has been ingested
func (c *Claim) HasAssessment() bool {
	return c.DamageSeverity != nil
}
