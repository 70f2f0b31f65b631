package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Target is one profit target. Price is derived from the position entry.
type Target struct {
	Points decimal.Decimal `json:"points"`
	Size   decimal.Decimal `json:"size"`
	Price  decimal.Decimal `json:"price"`
}

// Position is the trade idea shared by an Order and, once triggered, a Trade.
type Position struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	AccountID  uint            `gorm:"not null;index" json:"account_id"`
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	Symbol     string          `gorm:"size:50;not null;index" json:"symbol"`
	Direction  Direction       `gorm:"size:4;not null" json:"direction"`
	EntryPrice decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"entry_price"`
	Size       decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"size"`
	Setup      string          `gorm:"size:255;not null" json:"setup"`

	SLPoints decimal.Decimal `gorm:"column:sl_points;type:numeric(24,8);not null" json:"sl_points"`
	SLPrice  decimal.Decimal `gorm:"column:sl_price;type:numeric(24,8);not null" json:"sl_price"`

	BEPoints decimal.NullDecimal `gorm:"column:be_points;type:numeric(24,8)" json:"be_points"`
	BEPrice  decimal.NullDecimal `gorm:"column:be_price;type:numeric(24,8)" json:"be_price"`
	BESize   decimal.NullDecimal `gorm:"column:be_size;type:numeric(24,8)" json:"be_size"`

	Targets datatypes.JSONSlice[Target] `json:"targets"`
	Notes   *string                     `gorm:"type:text" json:"notes,omitempty"`
	Kind    PositionKind                `gorm:"column:position_kind;size:10;not null;index" json:"position_kind"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Account *Account `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Position) TableName() string {
	return "positions"
}
