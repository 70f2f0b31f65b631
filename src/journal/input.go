package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/src/model"
)

// TargetInput is a profit target as entered by the user.
type TargetInput struct {
	Points decimal.Decimal `json:"points"`
	Size   decimal.Decimal `json:"size"`
}

// PositionInput carries the user-entered fields shared by orders and trades.
type PositionInput struct {
	Symbol     string           `json:"symbol"`
	Direction  model.Direction  `json:"direction"`
	EntryPrice decimal.Decimal  `json:"entry_price"`
	Size       decimal.Decimal  `json:"size"`
	Setup      string           `json:"setup"`
	SLPoints   decimal.Decimal  `json:"sl_points"`
	BEPoints   *decimal.Decimal `json:"be_points,omitempty"`
	BESize     *decimal.Decimal `json:"be_size,omitempty"`
	Targets    []TargetInput    `json:"targets,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
}

type CreateOrderInput struct {
	PositionInput
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type CreateTradeInput struct {
	PositionInput
	// OpenedAt defaults to now when zero.
	OpenedAt time.Time `json:"opened_at"`
}

type CloseTradeInput struct {
	ExitPrice decimal.Decimal `json:"exit_price"`
	ExitSize  decimal.Decimal `json:"exit_size"`
	ExitType  model.ExitType  `json:"exit_type"`
	// ExitedAt defaults to now when nil.
	ExitedAt *time.Time `json:"exited_at,omitempty"`
}

// PositionPatch lists the editable position fields. Nil means unchanged.
type PositionPatch struct {
	Symbol     *string          `json:"symbol,omitempty"`
	Direction  *model.Direction `json:"direction,omitempty"`
	EntryPrice *decimal.Decimal `json:"entry_price,omitempty"`
	Size       *decimal.Decimal `json:"size,omitempty"`
	Setup      *string          `json:"setup,omitempty"`
	SLPoints   *decimal.Decimal `json:"sl_points,omitempty"`
	BEPoints   *decimal.Decimal `json:"be_points,omitempty"`
	BESize     *decimal.Decimal `json:"be_size,omitempty"`
	// ClearBreakEven drops be_points, be_size and be_price.
	ClearBreakEven bool           `json:"clear_break_even,omitempty"`
	Targets        *[]TargetInput `json:"targets,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
	// ExpiresAt applies to orders only.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ListOrdersInput filters ListOrders.
type ListOrdersInput struct {
	AccountID     *uint
	Status        *model.OrderStatus
	Symbol        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// ListTradesInput filters ListTrades.
type ListTradesInput struct {
	AccountID    *uint
	Status       *model.TradeStatus
	Symbol       *string
	OpenedAfter  *time.Time
	OpenedBefore *time.Time
	Limit        int
	Offset       int
}
