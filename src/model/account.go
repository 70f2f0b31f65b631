package model

import (
	"time"

	"gorm.io/gorm"
)

// Account groups positions of one user (a broker account, a prop
// challenge, a paper account...).
type Account struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Broker    string         `gorm:"size:100" json:"broker,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}
