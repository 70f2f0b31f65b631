package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction is the side of a position.
type Direction string

const (
	DirectionBuy  Direction = "BUY"
	DirectionSell Direction = "SELL"
)

func (d Direction) Valid() bool {
	switch d {
	case DirectionBuy, DirectionSell:
		return true
	default:
		return false
	}
}

// Sign returns +1 for BUY and -1 for SELL.
func (d Direction) Sign() decimal.Decimal {
	switch d {
	case DirectionBuy:
		return decimal.NewFromInt(1)
	case DirectionSell:
		return decimal.NewFromInt(-1)
	default:
		panic(fmt.Sprintf("model: unknown direction %q", string(d)))
	}
}

// PositionKind tells whether a position backs an order or a live trade.
type PositionKind string

const (
	PositionKindOrder PositionKind = "ORDER"
	PositionKindTrade PositionKind = "TRADE"
)

func (k PositionKind) Valid() bool {
	switch k {
	case PositionKindOrder, PositionKindTrade:
		return true
	default:
		return false
	}
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusExecuted  OrderStatus = "EXECUTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusExpired   OrderStatus = "EXPIRED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusExecuted, OrderStatusCancelled, OrderStatusExpired:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition is possible.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusExecuted, OrderStatusCancelled, OrderStatusExpired:
		return true
	case OrderStatusPending:
		return false
	default:
		panic(fmt.Sprintf("model: unknown order status %q", string(s)))
	}
}

// CanTransitionTo reports whether s -> next is a legal order transition.
// Only PENDING orders move, and only to a terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return next.Valid() && next.Terminal()
	case OrderStatusExecuted, OrderStatusCancelled, OrderStatusExpired:
		return false
	default:
		return false
	}
}

// TradeStatus is the lifecycle state of a trade.
type TradeStatus string

const (
	TradeStatusOpen    TradeStatus = "OPEN"
	TradeStatusSecured TradeStatus = "SECURED"
	TradeStatusClosed  TradeStatus = "CLOSED"
)

func (s TradeStatus) Valid() bool {
	switch s {
	case TradeStatusOpen, TradeStatusSecured, TradeStatusClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether s -> next is a legal trade transition.
// OPEN -> SECURED -> CLOSED, with OPEN -> CLOSED allowed for a single full exit.
func (s TradeStatus) CanTransitionTo(next TradeStatus) bool {
	switch s {
	case TradeStatusOpen:
		return next == TradeStatusSecured || next == TradeStatusClosed
	case TradeStatusSecured:
		return next == TradeStatusClosed
	case TradeStatusClosed:
		return false
	default:
		return false
	}
}

// ExitType classifies a partial exit.
type ExitType string

const (
	ExitTypeBreakEven  ExitType = "BE"
	ExitTypeTakeProfit ExitType = "TP"
	ExitTypeStopLoss   ExitType = "SL"
	ExitTypeManual     ExitType = "MANUAL"
)

func (t ExitType) Valid() bool {
	switch t {
	case ExitTypeBreakEven, ExitTypeTakeProfit, ExitTypeStopLoss, ExitTypeManual:
		return true
	default:
		return false
	}
}

// EntityType names the kind of record a status history entry refers to.
type EntityType string

const (
	EntityTypeOrder    EntityType = "ORDER"
	EntityTypeTrade    EntityType = "TRADE"
	EntityTypeAccount  EntityType = "ACCOUNT"
	EntityTypePosition EntityType = "POSITION"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeOrder, EntityTypeTrade, EntityTypeAccount, EntityTypePosition:
		return true
	default:
		return false
	}
}

// TriggerType records what caused a state transition.
type TriggerType string

const (
	TriggerManual    TriggerType = "MANUAL"
	TriggerSystem    TriggerType = "SYSTEM"
	TriggerWebhook   TriggerType = "WEBHOOK"
	TriggerBrokerAPI TriggerType = "BROKER_API"
)

func (t TriggerType) Valid() bool {
	switch t {
	case TriggerManual, TriggerSystem, TriggerWebhook, TriggerBrokerAPI:
		return true
	default:
		return false
	}
}
