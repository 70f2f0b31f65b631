package pricing

import (
	"fmt"

	"tradejournal/src/model"

	"github.com/shopspring/decimal"
)

// StopLossPrice places the stop on the losing side of the entry.
// BUY: entry - points. SELL: entry + points.
func StopLossPrice(entry, slPoints decimal.Decimal, direction model.Direction) decimal.Decimal {
	switch direction {
	case model.DirectionBuy:
		return entry.Sub(slPoints)
	case model.DirectionSell:
		return entry.Add(slPoints)
	default:
		panic(fmt.Sprintf("pricing: unknown direction %q", string(direction)))
	}
}

// BreakEvenPrice places the break-even level on the winning side of the entry.
// BUY: entry + points. SELL: entry - points.
func BreakEvenPrice(entry, bePoints decimal.Decimal, direction model.Direction) decimal.Decimal {
	return winningSide(entry, bePoints, direction)
}

// TargetPrice places a profit target on the winning side of the entry.
// BUY: entry + points. SELL: entry - points.
func TargetPrice(entry, points decimal.Decimal, direction model.Direction) decimal.Decimal {
	return winningSide(entry, points, direction)
}

func winningSide(entry, points decimal.Decimal, direction model.Direction) decimal.Decimal {
	switch direction {
	case model.DirectionBuy:
		return entry.Add(points)
	case model.DirectionSell:
		return entry.Sub(points)
	default:
		panic(fmt.Sprintf("pricing: unknown direction %q", string(direction)))
	}
}

// Derive recomputes every derived price of p (stop loss, break even and each
// target) from its current entry price, direction and point distances.
// Prices are always rebuilt from scratch, never adjusted incrementally.
// The direction must be valid.
func Derive(p *model.Position) {
	p.SLPrice = StopLossPrice(p.EntryPrice, p.SLPoints, p.Direction)

	if p.BEPoints.Valid {
		p.BEPrice = decimal.NewNullDecimal(BreakEvenPrice(p.EntryPrice, p.BEPoints.Decimal, p.Direction))
	} else {
		p.BEPrice = decimal.NullDecimal{}
	}

	for i := range p.Targets {
		p.Targets[i].Price = TargetPrice(p.EntryPrice, p.Targets[i].Points, p.Direction)
	}
}
