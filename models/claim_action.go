package models

import (
	"time"
)

// ClaimAction is one append-only audit row recording a status transition.
// Rows are never updated or deleted; ordered by action date they reconstruct
// the full status history of a claim.
type ClaimAction struct {
	ActionID   uint      `gorm:"primaryKey;autoIncrement" json:"action_id"`
	ClaimID    string    `gorm:"size:12;not null;index" json:"claim_id"`
	Claim      Claim     `gorm:"foreignKey:ClaimID" json:"-"`
	OldStatus  *string   `gorm:"size:20" json:"old_status"` // nil for the very first transition
	NewStatus  string    `gorm:"size:20;not null" json:"new_status"`
	ActionBy   string    `gorm:"size:255;not null" json:"action_by"`
	Notes      string    `gorm:"type:text" json:"notes"`
	ActionDate time.Time `gorm:"autoCreateTime" json:"action_date"`
}

// TableName specifies the table name for the ClaimAction model
func (ClaimAction) TableName() string {
	return "claim_actions"
}
