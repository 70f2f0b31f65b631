package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/src/model"
)

func TestExitPnL(t *testing.T) {
	tests := []struct {
		name      string
		entry     string
		price     string
		size      string
		direction model.Direction
		want      string
	}{
		{"long winner", "18500", "18600", "1", model.DirectionBuy, "100"},
		{"long loser", "18500", "18450", "2", model.DirectionBuy, "-100"},
		{"short winner", "16500", "16440", "1", model.DirectionSell, "60"},
		{"short loser", "16500", "16530", "0.5", model.DirectionSell, "-15"},
		{"rounds half away from zero", "18500", "18500.005", "1", model.DirectionBuy, "0.01"},
		{"fx lot", "1.08500", "1.09125", "1000", model.DirectionBuy, "6.25"},
		{"fx rounding", "1.08500", "1.08515", "1000", model.DirectionBuy, "0.15"},
		{"negative rounding", "100", "99.995", "1", model.DirectionBuy, "-0.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitPnL(d(tt.entry), d(tt.price), d(tt.size), tt.direction)
			requireDecimal(t, tt.want, got)
		})
	}
}

func TestRemainingAfter(t *testing.T) {
	requireDecimal(t, "1.5", remainingAfter(d("2"), d("0.5")))
	requireDecimal(t, "0", remainingAfter(d("1"), d("1")))
	requireDecimal(t, "0", remainingAfter(d("0.10000"), d("0.09995")))
	requireDecimal(t, "0.0001", remainingAfter(d("0.1"), d("0.0999")))
}

func TestWeightedExitPrice(t *testing.T) {
	_, ok := weightedExitPrice(nil)
	assert.False(t, ok)

	avg, ok := weightedExitPrice([]model.PartialExit{
		{ExitPrice: d("18600"), Size: d("1")},
		{ExitPrice: d("18650"), Size: d("1")},
	})
	assert.True(t, ok)
	requireDecimal(t, "18625", avg)

	avg, _ = weightedExitPrice([]model.PartialExit{
		{ExitPrice: d("1.1"), Size: d("1")},
		{ExitPrice: d("1.2"), Size: d("2")},
	})
	requireDecimal(t, "1.16667", avg)
}

func TestComputeClosingMetrics(t *testing.T) {
	opened := time.Date(2026, time.March, 3, 15, 0, 0, 0, time.UTC)
	exits := []model.PartialExit{
		{ExitPrice: d("18600"), Size: d("1"), PnL: d("100")},
		{ExitPrice: d("18650"), Size: d("1"), PnL: d("150")},
	}

	m := computeClosingMetrics(exits, d("18500"), d("2"), d("2"), d("50"), opened, opened.Add(90*time.Minute))
	requireDecimal(t, "250", m.PnL)
	requireDecimal(t, "2.5", m.RiskReward)
	requireDecimal(t, "0.6757", m.PnLPercent)
	assert.Equal(t, int64(90), m.DurationMinutes)

	// Risk comes from the opening figures, not the current stop.
	m = computeClosingMetrics(exits, d("18500"), d("2"), d("2"), d("100"), opened, opened)
	requireDecimal(t, "1.25", m.RiskReward)

	m = computeClosingMetrics(exits, d("18500"), d("2"), d("0"), d("0"), opened, opened)
	requireDecimal(t, "0", m.RiskReward)
}

func TestDurationMinutes(t *testing.T) {
	opened := time.Date(2026, time.March, 3, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(0), durationMinutes(opened, opened))
	assert.Equal(t, int64(0), durationMinutes(opened, opened.Add(-time.Hour)))
	assert.Equal(t, int64(1), durationMinutes(opened, opened.Add(89*time.Second)))
	assert.Equal(t, int64(2), durationMinutes(opened, opened.Add(90*time.Second)))
	assert.Equal(t, int64(0), durationMinutes(opened, opened.Add(29*time.Second)))
	assert.Equal(t, int64(1440), durationMinutes(opened, opened.Add(24*time.Hour)))
}

func TestNextTradeStatus(t *testing.T) {
	tests := []struct {
		current   model.TradeStatus
		remaining string
		want      model.TradeStatus
	}{
		{model.TradeStatusOpen, "1", model.TradeStatusSecured},
		{model.TradeStatusSecured, "0.5", model.TradeStatusSecured},
		{model.TradeStatusOpen, "0", model.TradeStatusClosed},
		{model.TradeStatusSecured, "0", model.TradeStatusClosed},
	}
	for _, tt := range tests {
		got, err := nextTradeStatus(tt.current, d(tt.remaining))
		require.NoError(t, err, "%s with %s left", tt.current, tt.remaining)
		assert.Equal(t, tt.want, got, "%s with %s left", tt.current, tt.remaining)
	}
}

func TestNextTradeStatus_RejectsIllegalTransitions(t *testing.T) {
	for _, tt := range []struct {
		current   model.TradeStatus
		remaining string
	}{
		{model.TradeStatusClosed, "1"},
		{model.TradeStatus("ARCHIVED"), "0"},
	} {
		got, err := nextTradeStatus(tt.current, d(tt.remaining))
		assert.ErrorIs(t, err, ErrInvalidState, "%s with %s left", tt.current, tt.remaining)
		assert.Equal(t, tt.current, got)
	}
}
