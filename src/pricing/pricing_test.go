package pricing

import (
	"testing"

	"tradejournal/src/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStopLossAndTargetPrices(t *testing.T) {
	tests := []struct {
		name       string
		direction  model.Direction
		entry      decimal.Decimal
		points     decimal.Decimal
		wantSL     decimal.Decimal
		wantTarget decimal.Decimal
	}{
		{
			name:       "BUY NASDAQ",
			direction:  model.DirectionBuy,
			entry:      d("18500"),
			points:     d("50"),
			wantSL:     d("18450"),
			wantTarget: d("18550"),
		},
		{
			name:       "SELL DAX",
			direction:  model.DirectionSell,
			entry:      d("16500"),
			points:     d("30"),
			wantSL:     d("16530"),
			wantTarget: d("16470"),
		},
		{
			name:       "fractional forex points",
			direction:  model.DirectionBuy,
			entry:      d("1.08523"),
			points:     d("0.0015"),
			wantSL:     d("1.08373"),
			wantTarget: d("1.08673"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sl := StopLossPrice(tt.entry, tt.points, tt.direction)
			tp := TargetPrice(tt.entry, tt.points, tt.direction)

			assert.True(t, sl.Equal(tt.wantSL), "sl got=%s want=%s", sl, tt.wantSL)
			assert.True(t, tp.Equal(tt.wantTarget), "target got=%s want=%s", tp, tt.wantTarget)

			// stop and target sit symmetrically around the entry
			assert.True(t, sl.Add(tp).Equal(tt.entry.Mul(decimal.NewFromInt(2))))
		})
	}
}

func TestBreakEvenPrice(t *testing.T) {
	assert.True(t, BreakEvenPrice(d("100"), d("2"), model.DirectionBuy).Equal(d("102")))
	assert.True(t, BreakEvenPrice(d("100"), d("2"), model.DirectionSell).Equal(d("98")))
}

func TestDerivationIsIdempotent(t *testing.T) {
	for _, dir := range []model.Direction{model.DirectionBuy, model.DirectionSell} {
		first := TargetPrice(d("4200.25"), d("12.5"), dir)
		second := TargetPrice(d("4200.25"), d("12.5"), dir)
		assert.True(t, first.Equal(second))

		first = StopLossPrice(d("4200.25"), d("12.5"), dir)
		second = StopLossPrice(d("4200.25"), d("12.5"), dir)
		assert.True(t, first.Equal(second))
	}
}

func TestUnknownDirectionPanics(t *testing.T) {
	assert.Panics(t, func() { StopLossPrice(d("1"), d("1"), model.Direction("LONG")) })
	assert.Panics(t, func() { TargetPrice(d("1"), d("1"), model.Direction("")) })
}

func TestDerive(t *testing.T) {
	p := &model.Position{
		Direction:  model.DirectionSell,
		EntryPrice: d("16500"),
		SLPoints:   d("30"),
		BEPoints:   decimal.NewNullDecimal(d("10")),
		Targets: datatypes.JSONSlice[model.Target]{
			{Points: d("60"), Size: d("1")},
			{Points: d("120"), Size: d("1")},
		},
	}

	Derive(p)

	assert.True(t, p.SLPrice.Equal(d("16530")))
	require.True(t, p.BEPrice.Valid)
	assert.True(t, p.BEPrice.Decimal.Equal(d("16490")))
	assert.True(t, p.Targets[0].Price.Equal(d("16440")))
	assert.True(t, p.Targets[1].Price.Equal(d("16380")))

	t.Run("recomputes from the new entry", func(t *testing.T) {
		p.EntryPrice = d("16600")
		p.Direction = model.DirectionBuy
		p.BEPoints = decimal.NullDecimal{}

		Derive(p)

		assert.True(t, p.SLPrice.Equal(d("16570")))
		assert.False(t, p.BEPrice.Valid)
		assert.True(t, p.Targets[0].Price.Equal(d("16660")))
		assert.True(t, p.Targets[1].Price.Equal(d("16720")))
	})
}
