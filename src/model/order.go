package model

import "time"

// Order is a position that has not been triggered yet.
type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	PositionID uint        `gorm:"not null;uniqueIndex" json:"position_id"`
	Status     OrderStatus `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	ExpiresAt  *time.Time  `gorm:"index" json:"expires_at,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	Position *Position `gorm:"constraint:OnDelete:CASCADE" json:"position,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}
