package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a triggered position being managed to exit.
type Trade struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	PositionID    uint        `gorm:"not null;uniqueIndex" json:"position_id"`
	SourceOrderID *uint       `gorm:"index" json:"source_order_id"`
	Status        TradeStatus `gorm:"size:20;not null;default:OPEN;index" json:"status"`

	RemainingSize decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"remaining_size"`

	// Risk as it stood when the trade opened; risk_reward is measured against it.
	InitialSize     decimal.Decimal `gorm:"type:numeric(24,8);not null;default:0" json:"initial_size"`
	InitialSLPoints decimal.Decimal `gorm:"column:initial_sl_points;type:numeric(24,8);not null;default:0" json:"initial_sl_points"`

	AvgExitPrice    decimal.NullDecimal `gorm:"type:numeric(24,8)" json:"avg_exit_price"`
	PnL             decimal.NullDecimal `gorm:"column:pnl;type:numeric(24,2)" json:"pnl"`
	PnLPercent      decimal.NullDecimal `gorm:"column:pnl_percent;type:numeric(24,4)" json:"pnl_percent"`
	RiskReward      decimal.NullDecimal `gorm:"column:risk_reward;type:numeric(24,4)" json:"risk_reward"`
	DurationMinutes *int64              `json:"duration_minutes"`
	ExitType        *ExitType           `gorm:"size:10" json:"exit_type"`
	Session         string              `gorm:"size:30" json:"session,omitempty"`

	OpenedAt  time.Time  `gorm:"not null" json:"opened_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Position *Position    `gorm:"constraint:OnDelete:CASCADE" json:"position,omitempty"`
	Exits    []PartialExit `gorm:"foreignKey:TradeID" json:"exits,omitempty"`
}

func (Trade) TableName() string {
	return "trades"
}
