package model

import "time"

// User is the acting identity. Users are issued by the auth layer; the
// journal only needs the ID to enforce ownership.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserName  string    `gorm:"size:100;uniqueIndex" json:"user_name"`
	Email     string    `gorm:"size:255" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
