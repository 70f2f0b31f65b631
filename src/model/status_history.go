package model

import (
	"time"

	"gorm.io/datatypes"
)

// StatusHistoryEntry is one row of the append-only audit trail.
type StatusHistoryEntry struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	EntityType     EntityType        `gorm:"size:20;not null;index:idx_status_history_entity" json:"entity_type"`
	EntityID       uint              `gorm:"not null;index:idx_status_history_entity" json:"entity_id"`
	PreviousStatus *string           `gorm:"size:20" json:"previous_status"`
	NewStatus      string            `gorm:"size:20;not null" json:"new_status"`
	UserID         uint              `gorm:"not null;index" json:"user_id"`
	TriggerType    TriggerType       `gorm:"size:20;not null" json:"trigger_type"`
	Details        datatypes.JSONMap `json:"details,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (StatusHistoryEntry) TableName() string {
	return "status_history"
}
