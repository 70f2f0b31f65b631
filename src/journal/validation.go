package journal

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"tradejournal/src/model"
)

const (
	maxSymbolLength = 50
	maxSetupLength  = 255
	maxNotesLength  = 10000
)

// validatePosition checks every user-entered position field and returns the
// first failure.
func validatePosition(in PositionInput) error {
	symbol := strings.TrimSpace(in.Symbol)
	if symbol == "" {
		return invalid("symbol", "is required")
	}
	if utf8.RuneCountInString(symbol) > maxSymbolLength {
		return invalid("symbol", "must be at most 50 characters")
	}
	if !in.Direction.Valid() {
		return invalid("direction", "must be BUY or SELL")
	}
	if !positive(in.EntryPrice) {
		return invalid("entry_price", "must be greater than 0")
	}
	if !positive(in.Size) {
		return invalid("size", "must be greater than 0")
	}

	setup := strings.TrimSpace(in.Setup)
	if setup == "" {
		return invalid("setup", "is required")
	}
	if utf8.RuneCountInString(setup) > maxSetupLength {
		return invalid("setup", "must be at most 255 characters")
	}

	if !positive(in.SLPoints) {
		return invalid("sl_points", "must be greater than 0")
	}
	if in.BEPoints != nil && !positive(*in.BEPoints) {
		return invalid("be_points", "must be greater than 0")
	}
	if in.BESize != nil && !positive(*in.BESize) {
		return invalid("be_size", "must be greater than 0")
	}
	if in.Notes != nil && utf8.RuneCountInString(*in.Notes) > maxNotesLength {
		return invalid("notes", "must be at most 10000 characters")
	}

	for _, t := range in.Targets {
		if !positive(t.Points) {
			return invalid("targets.points", "must be greater than 0")
		}
		if !positive(t.Size) {
			return invalid("targets.size", "must be greater than 0")
		}
	}

	return nil
}

func validateExpiry(expiresAt *time.Time, now time.Time) error {
	if expiresAt != nil && !expiresAt.After(now) {
		return invalid("expires_at", "must be in the future")
	}
	return nil
}

func validateClose(in CloseTradeInput, remaining decimal.Decimal) error {
	if !positive(in.ExitPrice) {
		return invalid("exit_price", "must be greater than 0")
	}
	if !positive(in.ExitSize) {
		return invalid("exit_size", "must be greater than 0")
	}
	if in.ExitSize.GreaterThan(remaining) {
		return invalid("exit_size", "exceeds remaining size")
	}
	if !in.ExitType.Valid() {
		return invalid("exit_type", "must be one of BE, TP, SL, MANUAL")
	}
	return nil
}

func positive(v decimal.Decimal) bool {
	return v.GreaterThan(decimal.Zero)
}

// applyInput copies validated input onto p. Derived prices are left to the
// caller.
func applyInput(p *model.Position, in PositionInput) {
	p.Symbol = strings.TrimSpace(in.Symbol)
	p.Direction = in.Direction
	p.EntryPrice = in.EntryPrice
	p.Size = in.Size
	p.Setup = strings.TrimSpace(in.Setup)
	p.SLPoints = in.SLPoints
	p.BEPoints = nullable(in.BEPoints)
	p.BESize = nullable(in.BESize)
	p.Notes = in.Notes

	p.Targets = nil
	if len(in.Targets) > 0 {
		p.Targets = make(datatypes.JSONSlice[model.Target], 0, len(in.Targets))
		for _, t := range in.Targets {
			p.Targets = append(p.Targets, model.Target{Points: t.Points, Size: t.Size})
		}
	}
}

// inputFrom rebuilds the editable input of an existing position.
func inputFrom(p *model.Position) PositionInput {
	in := PositionInput{
		Symbol:     p.Symbol,
		Direction:  p.Direction,
		EntryPrice: p.EntryPrice,
		Size:       p.Size,
		Setup:      p.Setup,
		SLPoints:   p.SLPoints,
		Notes:      p.Notes,
	}
	if p.BEPoints.Valid {
		v := p.BEPoints.Decimal
		in.BEPoints = &v
	}
	if p.BESize.Valid {
		v := p.BESize.Decimal
		in.BESize = &v
	}
	for _, t := range p.Targets {
		in.Targets = append(in.Targets, TargetInput{Points: t.Points, Size: t.Size})
	}
	return in
}

func nullable(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*v)
}
