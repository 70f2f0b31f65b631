package journal

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"tradejournal/src/model"
)

// sizeEpsilon absorbs decimal drift when deciding whether a trade is flat.
// It is the only tolerance used by the engine.
var sizeEpsilon = decimal.RequireFromString("0.0001")

var hundred = decimal.NewFromInt(100)

// exitPnL is the signed, 2dp-rounded result of exiting size at price.
// It is computed once per exit and stored with it.
func exitPnL(entry, price, size decimal.Decimal, direction model.Direction) decimal.Decimal {
	return price.Sub(entry).Mul(size).Mul(direction.Sign()).Round(2)
}

// remainingAfter subtracts size from remaining, snapping drift below
// sizeEpsilon to exactly zero.
func remainingAfter(remaining, size decimal.Decimal) decimal.Decimal {
	left := remaining.Sub(size)
	if left.Abs().LessThan(sizeEpsilon) {
		return decimal.Zero
	}
	return left
}

// weightedExitPrice is the size-weighted mean of every exit in the ledger,
// rounded to 5dp. ok is false for an empty ledger.
func weightedExitPrice(exits []model.PartialExit) (avg decimal.Decimal, ok bool) {
	notional := decimal.Zero
	size := decimal.Zero
	for _, e := range exits {
		notional = notional.Add(e.ExitPrice.Mul(e.Size))
		size = size.Add(e.Size)
	}
	if !size.IsPositive() {
		return decimal.Zero, false
	}
	return notional.Div(size).Round(5), true
}

// closingMetrics are the figures fixed when a trade reaches zero size.
type closingMetrics struct {
	PnL             decimal.Decimal
	PnLPercent      decimal.Decimal
	RiskReward      decimal.Decimal
	DurationMinutes int64
}

// computeClosingMetrics derives the final figures from the whole ledger.
// Risk is measured with the size and stop distance recorded at opening.
func computeClosingMetrics(
	exits []model.PartialExit,
	entryPrice, size, initialSize, initialSLPoints decimal.Decimal,
	openedAt, closedAt time.Time,
) closingMetrics {
	total := decimal.Zero
	for _, e := range exits {
		total = total.Add(e.PnL)
	}
	total = total.Round(2)

	m := closingMetrics{
		PnL:        total,
		RiskReward: decimal.Zero,
		PnLPercent: decimal.Zero,
	}

	riskAmount := initialSize.Mul(initialSLPoints)
	if riskAmount.IsPositive() {
		m.RiskReward = total.Div(riskAmount).Round(4)
	}

	entryValue := entryPrice.Mul(size)
	if entryValue.IsPositive() {
		m.PnLPercent = total.Div(entryValue).Mul(hundred).Round(4)
	}

	m.DurationMinutes = durationMinutes(openedAt, closedAt)

	return m
}

// durationMinutes rounds the elapsed time to whole minutes and never goes
// negative when clocks disagree.
func durationMinutes(openedAt, closedAt time.Time) int64 {
	if !closedAt.After(openedAt) {
		return 0
	}
	return int64(math.Round(closedAt.Sub(openedAt).Seconds() / 60))
}
