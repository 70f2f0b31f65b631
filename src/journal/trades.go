package journal

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/model"
	"tradejournal/src/pricing"
	"tradejournal/src/repository"
	"tradejournal/src/session"
)

// CreateTrade records a trade that is already live, without an order.
func (e *Engine) CreateTrade(ctx context.Context, actor Actor, accountID uint, in CreateTradeInput) (*model.Trade, error) {
	var trade *model.Trade

	err := e.run(ctx, "create_trade", actor, func(ctx context.Context, u *unitOfWork) error {
		if _, err := u.ownedAccount(ctx, accountID); err != nil {
			return err
		}
		if err := validatePosition(in.PositionInput); err != nil {
			return err
		}

		position := &model.Position{
			AccountID: accountID,
			UserID:    actor.UserID,
			Kind:      model.PositionKindTrade,
		}
		applyInput(position, in.PositionInput)
		pricing.Derive(position)

		if err := u.positions.Create(ctx, position); err != nil {
			return err
		}

		openedAt := in.OpenedAt
		if openedAt.IsZero() {
			openedAt = e.now()
		}

		trade = e.newTrade(position, openedAt, nil)
		if err := u.trades.Create(ctx, trade); err != nil {
			return err
		}
		trade.Position = position

		return u.record(ctx, model.EntityTypeTrade, trade.ID, nil, string(model.TradeStatusOpen), nil)
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// newTrade builds an OPEN trade for the full size of position.
func (e *Engine) newTrade(position *model.Position, openedAt time.Time, sourceOrderID *uint) *model.Trade {
	trade := &model.Trade{
		PositionID:      position.ID,
		SourceOrderID:   sourceOrderID,
		Status:          model.TradeStatusOpen,
		RemainingSize:   position.Size,
		InitialSize:     position.Size,
		InitialSLPoints: position.SLPoints,
		OpenedAt:        openedAt,
	}
	if e.config.SessionTagging {
		trade.Session = string(session.Detect(openedAt))
	}
	return trade
}

// GetTrade returns the trade joined with its position and exit ledger.
func (e *Engine) GetTrade(ctx context.Context, actor Actor, id uint) (*model.Trade, error) {
	var trade *model.Trade

	err := e.run(ctx, "get_trade", actor, func(ctx context.Context, u *unitOfWork) error {
		var err error
		if trade, err = u.loadTrade(ctx, id, false); err != nil {
			return err
		}
		trade.Exits, err = u.exits.ListByTrade(ctx, trade.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// ListTrades returns the acting user's trades, most recently opened first.
func (e *Engine) ListTrades(ctx context.Context, actor Actor, in ListTradesInput) ([]model.Trade, error) {
	var trades []model.Trade

	err := e.run(ctx, "list_trades", actor, func(ctx context.Context, u *unitOfWork) error {
		if in.AccountID != nil {
			if _, err := u.ownedAccount(ctx, *in.AccountID); err != nil {
				return err
			}
		}
		if in.Status != nil && !in.Status.Valid() {
			return invalid("status", "unknown trade status")
		}
		if in.OpenedAfter != nil && in.OpenedBefore != nil && in.OpenedAfter.After(*in.OpenedBefore) {
			return invalid("opened_after", "must not be after opened_before")
		}

		var err error
		trades, err = u.trades.Search(ctx, repository.TradeSearchOptions{
			UserID:       actor.UserID,
			AccountID:    in.AccountID,
			Status:       in.Status,
			Symbol:       in.Symbol,
			OpenedAfter:  in.OpenedAfter,
			OpenedBefore: in.OpenedBefore,
			Limit:        in.Limit,
			Offset:       in.Offset,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return trades, nil
}

// ListPartialExits returns the exit ledger of a trade in execution order.
func (e *Engine) ListPartialExits(ctx context.Context, actor Actor, tradeID uint) ([]model.PartialExit, error) {
	var exits []model.PartialExit

	err := e.run(ctx, "list_partial_exits", actor, func(ctx context.Context, u *unitOfWork) error {
		trade, err := u.loadTrade(ctx, tradeID, false)
		if err != nil {
			return err
		}
		exits, err = u.exits.ListByTrade(ctx, trade.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return exits, nil
}

// CloseTrade books one exit against the trade. The trade row stays locked
// for the whole call, so concurrent closes of one trade commit one at a time
// and each one sees the ledger left by the previous.
//
// The first exit that leaves size open secures the trade. The exit that
// brings the remaining size to zero closes it and fixes the final figures.
func (e *Engine) CloseTrade(ctx context.Context, actor Actor, id uint, in CloseTradeInput) (*model.Trade, error) {
	var trade *model.Trade

	err := e.run(ctx, "close_trade", actor, func(ctx context.Context, u *unitOfWork) error {
		var err error
		if trade, err = u.loadTrade(ctx, id, true); err != nil {
			return err
		}
		if trade.Status == model.TradeStatusClosed {
			return ErrAlreadyClosed
		}
		if err := validateClose(in, trade.RemainingSize); err != nil {
			return err
		}

		exitedAt := e.now()
		if in.ExitedAt != nil {
			exitedAt = *in.ExitedAt
		}

		position := trade.Position
		exit := &model.PartialExit{
			TradeID:   trade.ID,
			ExitedAt:  exitedAt,
			ExitPrice: in.ExitPrice,
			Size:      in.ExitSize,
			ExitType:  in.ExitType,
			PnL:       exitPnL(position.EntryPrice, in.ExitPrice, in.ExitSize, position.Direction),
		}
		if err := u.exits.Create(ctx, exit); err != nil {
			return err
		}
		u.exitTypes = append(u.exitTypes, exit.ExitType)

		ledger, err := u.exits.ListByTrade(ctx, trade.ID)
		if err != nil {
			return err
		}

		previous := trade.Status
		trade.RemainingSize = remainingAfter(trade.RemainingSize, in.ExitSize)
		if avg, ok := weightedExitPrice(ledger); ok {
			trade.AvgExitPrice = decimal.NewNullDecimal(avg)
		}

		next, err := nextTradeStatus(previous, trade.RemainingSize)
		if err != nil {
			return err
		}
		if next == model.TradeStatusClosed {
			closeOut(trade, ledger, exit, exitedAt)
			rr, _ := trade.RiskReward.Decimal.Float64()
			u.riskReward = &rr
		}
		trade.Status = next
		trade.Exits = ledger

		if err := u.trades.Save(ctx, trade); err != nil {
			return err
		}

		logger.WithFields(logger.Fields{
			"service":        "journal",
			"op":             "CloseTrade",
			"trade_id":       trade.ID,
			"exit_pnl":       exit.PnL.String(),
			"remaining_size": trade.RemainingSize.String(),
			"status":         trade.Status,
		}).Debug("Partial exit booked")

		if next == previous {
			return nil
		}
		return u.record(ctx, model.EntityTypeTrade, trade.ID, statusPtr(previous), string(next), map[string]any{
			"exit_id": exit.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// nextTradeStatus is the status after an exit left remaining open. A
// SECURED trade with size left stays SECURED; any other change must be a
// legal trade transition.
func nextTradeStatus(current model.TradeStatus, remaining decimal.Decimal) (model.TradeStatus, error) {
	next := model.TradeStatusSecured
	if remaining.IsZero() {
		next = model.TradeStatusClosed
	}
	if next == current {
		return next, nil
	}
	if !current.CanTransitionTo(next) {
		return current, invalidState("trade cannot go from %s to %s", current, next)
	}
	return next, nil
}

// closeOut stamps the final figures on a trade whose size reached zero.
func closeOut(trade *model.Trade, ledger []model.PartialExit, last *model.PartialExit, closedAt time.Time) {
	position := trade.Position
	m := computeClosingMetrics(
		ledger,
		position.EntryPrice,
		position.Size,
		trade.InitialSize,
		trade.InitialSLPoints,
		trade.OpenedAt,
		closedAt,
	)

	exitType := last.ExitType
	trade.ExitType = &exitType
	trade.ClosedAt = &closedAt
	trade.PnL = decimal.NewNullDecimal(m.PnL)
	trade.PnLPercent = decimal.NewNullDecimal(m.PnLPercent)
	trade.RiskReward = decimal.NewNullDecimal(m.RiskReward)
	trade.DurationMinutes = &m.DurationMinutes
}

// UpdateTrade edits the position of an OPEN or SECURED trade and re-derives
// prices. The size of a live trade cannot change.
func (e *Engine) UpdateTrade(ctx context.Context, actor Actor, id uint, patch PositionPatch) (*model.Trade, error) {
	var trade *model.Trade

	err := e.run(ctx, "update_trade", actor, func(ctx context.Context, u *unitOfWork) error {
		var err error
		if trade, err = u.loadTrade(ctx, id, true); err != nil {
			return err
		}
		if trade.Status == model.TradeStatusClosed {
			return ErrAlreadyClosed
		}
		if patch.ExpiresAt != nil {
			return invalid("expires_at", "only orders expire")
		}
		if err := applyPatch(trade.Position, patch, false); err != nil {
			return err
		}
		return u.positions.Save(ctx, trade.Position)
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// DeleteTrade removes the trade, its exit ledger, the order it came from
// and the shared position.
func (e *Engine) DeleteTrade(ctx context.Context, actor Actor, id uint) error {
	return e.run(ctx, "delete_trade", actor, func(ctx context.Context, u *unitOfWork) error {
		trade, err := u.loadTrade(ctx, id, true)
		if err != nil {
			return err
		}

		if err := u.exits.DeleteByTrade(ctx, trade.ID); err != nil {
			return err
		}
		if err := u.trades.DeleteByPositionID(ctx, trade.PositionID); err != nil {
			return err
		}
		if err := u.orders.DeleteByPositionID(ctx, trade.PositionID); err != nil {
			return err
		}
		return u.positions.Delete(ctx, trade.PositionID)
	})
}

// loadTrade fetches a trade and applies the ownership guard.
func (u *unitOfWork) loadTrade(ctx context.Context, id uint, forUpdate bool) (*model.Trade, error) {
	var (
		trade *model.Trade
		err   error
	)
	if forUpdate {
		trade, err = u.trades.FindByIDForUpdate(ctx, id)
	} else {
		trade, err = u.trades.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if trade == nil || trade.Position == nil {
		return nil, ErrNotFound
	}
	if err := u.authorize(ctx, trade.PositionID); err != nil {
		return nil, err
	}
	return trade, nil
}
