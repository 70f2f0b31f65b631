package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartialExit is one realized exit against a trade. Rows are never updated.
type PartialExit struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	TradeID   uint            `gorm:"not null;index" json:"trade_id"`
	ExitedAt  time.Time       `gorm:"not null" json:"exited_at"`
	ExitPrice decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"exit_price"`
	Size      decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"size"`
	ExitType  ExitType        `gorm:"size:10;not null" json:"exit_type"`
	PnL       decimal.Decimal `gorm:"column:pnl;type:numeric(24,2);not null" json:"pnl"`
	CreatedAt time.Time       `json:"created_at"`

	Trade *Trade `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (PartialExit) TableName() string {
	return "partial_exits"
}
