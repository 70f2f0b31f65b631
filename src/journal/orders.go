package journal

import (
	"context"
	"time"

	logger "github.com/sirupsen/logrus"

	"tradejournal/src/model"
	"tradejournal/src/pricing"
	"tradejournal/src/repository"
)

// CreateOrder records a new PENDING order in accountID.
func (e *Engine) CreateOrder(ctx context.Context, actor Actor, accountID uint, in CreateOrderInput) (*model.Order, error) {
	var order *model.Order

	err := e.run(ctx, "create_order", actor, func(ctx context.Context, u *unitOfWork) error {
		if _, err := u.ownedAccount(ctx, accountID); err != nil {
			return err
		}
		if err := validatePosition(in.PositionInput); err != nil {
			return err
		}
		if err := validateExpiry(in.ExpiresAt, e.now()); err != nil {
			return err
		}

		position := &model.Position{
			AccountID: accountID,
			UserID:    actor.UserID,
			Kind:      model.PositionKindOrder,
		}
		applyInput(position, in.PositionInput)
		pricing.Derive(position)

		if err := u.positions.Create(ctx, position); err != nil {
			return err
		}

		order = &model.Order{
			PositionID: position.ID,
			Status:     model.OrderStatusPending,
			ExpiresAt:  in.ExpiresAt,
		}
		if err := u.orders.Create(ctx, order); err != nil {
			return err
		}
		order.Position = position

		return u.record(ctx, model.EntityTypeOrder, order.ID, nil, string(model.OrderStatusPending), nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder returns the order joined with its position.
func (e *Engine) GetOrder(ctx context.Context, actor Actor, id uint) (*model.Order, error) {
	var order *model.Order

	err := e.run(ctx, "get_order", actor, func(ctx context.Context, u *unitOfWork) error {
		var err error
		order, err = u.loadOrder(ctx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns the acting user's orders, newest first.
func (e *Engine) ListOrders(ctx context.Context, actor Actor, in ListOrdersInput) ([]model.Order, error) {
	var orders []model.Order

	err := e.run(ctx, "list_orders", actor, func(ctx context.Context, u *unitOfWork) error {
		if in.AccountID != nil {
			if _, err := u.ownedAccount(ctx, *in.AccountID); err != nil {
				return err
			}
		}
		if in.Status != nil && !in.Status.Valid() {
			return invalid("status", "unknown order status")
		}
		if in.CreatedAfter != nil && in.CreatedBefore != nil && in.CreatedAfter.After(*in.CreatedBefore) {
			return invalid("created_after", "must not be after created_before")
		}

		var err error
		orders, err = u.orders.Search(ctx, repository.OrderSearchOptions{
			UserID:        actor.UserID,
			AccountID:     in.AccountID,
			Status:        in.Status,
			Symbol:        in.Symbol,
			CreatedAfter:  in.CreatedAfter,
			CreatedBefore: in.CreatedBefore,
			Limit:         in.Limit,
			Offset:        in.Offset,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrder moves a PENDING order to CANCELLED.
func (e *Engine) CancelOrder(ctx context.Context, actor Actor, id uint) (*model.Order, error) {
	var order *model.Order

	err := e.run(ctx, "cancel_order", actor, func(ctx context.Context, u *unitOfWork) error {
		var err error
		if order, err = u.loadOrder(ctx, id, true); err != nil {
			return err
		}
		return u.transitionOrder(ctx, order, model.OrderStatusCancelled, nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ExpireOrder moves a PENDING order to EXPIRED.
func (e *Engine) ExpireOrder(ctx context.Context, actor Actor, id uint) (*model.Order, error) {
	var order *model.Order

	err := e.run(ctx, "expire_order", actor, func(ctx context.Context, u *unitOfWork) error {
		var err error
		if order, err = u.loadOrder(ctx, id, true); err != nil {
			return err
		}
		return u.transitionOrder(ctx, order, model.OrderStatusExpired, nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ExpireDueOrders expires every PENDING order whose expiry is at or before
// now, one transaction per order, acting as SYSTEM on behalf of the owner.
// Due orders are read in ID pages of ExpireBatchSize; orders that changed
// state in the meantime are skipped. It returns how many orders were expired.
func (e *Engine) ExpireDueOrders(ctx context.Context, now time.Time) (int, error) {
	reader := repository.NewOrderRepository(e.db)
	owners := repository.NewPositionRepository(e.db)

	batch := e.config.ExpireBatchSize
	if batch <= 0 {
		batch = 500
	}

	expired := 0
	var lastID uint
	for {
		if err := ctx.Err(); err != nil {
			return expired, err
		}

		ids, err := reader.FindDuePendingIDs(ctx, now, lastID, batch)
		if err != nil {
			return expired, err
		}

		for _, id := range ids {
			lastID = id

			ok, err := e.expireDue(ctx, reader, owners, id, now)
			if err != nil {
				return expired, err
			}
			if ok {
				expired++
			}
		}

		if len(ids) < batch {
			return expired, nil
		}
	}
}

// expireDue expires one due order. ok is false when the order was skipped.
func (e *Engine) expireDue(
	ctx context.Context,
	reader *repository.OrderRepository,
	owners *repository.PositionRepository,
	id uint,
	now time.Time,
) (ok bool, err error) {
	order, err := reader.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if order == nil || order.Position == nil {
		return false, nil
	}

	owner, found, err := owners.FindOwnerUserID(ctx, order.PositionID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	system := Actor{UserID: owner, Trigger: model.TriggerSystem}
	err = e.run(ctx, "expire_order", system, func(ctx context.Context, u *unitOfWork) error {
		locked, err := u.loadOrder(ctx, id, true)
		if err != nil {
			return err
		}
		if locked.ExpiresAt == nil || locked.ExpiresAt.After(now) {
			return invalidState("order %d is not due", id)
		}
		return u.transitionOrder(ctx, locked, model.OrderStatusExpired, map[string]any{
			"expires_at": locked.ExpiresAt.UTC().Format(time.RFC3339),
		})
	})
	switch Kind(err) {
	case "":
		return true, nil
	case "internal":
		return false, err
	default:
		logger.WithFields(logger.Fields{
			"service":  "journal",
			"op":       "ExpireDueOrders",
			"order_id": id,
		}).WithError(err).Info("Skipping order")
		return false, nil
	}
}

// ExecuteOrder triggers a PENDING order: the position becomes a trade and a
// new OPEN trade is created for the full size.
func (e *Engine) ExecuteOrder(ctx context.Context, actor Actor, id uint) (*model.Trade, error) {
	var trade *model.Trade

	err := e.run(ctx, "execute_order", actor, func(ctx context.Context, u *unitOfWork) error {
		order, err := u.loadOrder(ctx, id, true)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(model.OrderStatusExecuted) {
			return invalidState("order %d is %s", order.ID, order.Status)
		}

		position := order.Position
		if position.Kind != model.PositionKindOrder {
			return invalidState("position %d is already a trade", position.ID)
		}
		if err := u.positions.UpdateKind(ctx, position.ID, model.PositionKindTrade); err != nil {
			return err
		}
		position.Kind = model.PositionKindTrade

		trade = e.newTrade(position, e.now(), &order.ID)
		if err := u.trades.Create(ctx, trade); err != nil {
			return err
		}
		trade.Position = position

		if err := u.transitionOrder(ctx, order, model.OrderStatusExecuted, map[string]any{"trade_id": trade.ID}); err != nil {
			return err
		}
		return u.record(ctx, model.EntityTypeTrade, trade.ID, nil, string(model.TradeStatusOpen), map[string]any{
			"source_order_id": order.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return trade, nil
}

// UpdateOrder edits the position of a PENDING order and re-derives prices.
func (e *Engine) UpdateOrder(ctx context.Context, actor Actor, id uint, patch PositionPatch) (*model.Order, error) {
	var order *model.Order

	err := e.run(ctx, "update_order", actor, func(ctx context.Context, u *unitOfWork) error {
		var err error
		if order, err = u.loadOrder(ctx, id, true); err != nil {
			return err
		}
		if order.Status != model.OrderStatusPending {
			return invalidState("order %d is %s", order.ID, order.Status)
		}

		if err := applyPatch(order.Position, patch, true); err != nil {
			return err
		}
		if patch.ExpiresAt != nil {
			if err := validateExpiry(patch.ExpiresAt, e.now()); err != nil {
				return err
			}
			order.ExpiresAt = patch.ExpiresAt
			if err := u.orders.Save(ctx, order); err != nil {
				return err
			}
		}
		return u.positions.Save(ctx, order.Position)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// DeleteOrder removes the order together with its position. Executed
// orders share their position with a trade and cannot be deleted here.
func (e *Engine) DeleteOrder(ctx context.Context, actor Actor, id uint) error {
	return e.run(ctx, "delete_order", actor, func(ctx context.Context, u *unitOfWork) error {
		order, err := u.loadOrder(ctx, id, true)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusExecuted {
			return invalidState("order %d was executed; delete its trade instead", order.ID)
		}

		if err := u.orders.DeleteByPositionID(ctx, order.PositionID); err != nil {
			return err
		}
		return u.positions.Delete(ctx, order.PositionID)
	})
}

// loadOrder fetches an order and applies the ownership guard.
func (u *unitOfWork) loadOrder(ctx context.Context, id uint, forUpdate bool) (*model.Order, error) {
	var (
		order *model.Order
		err   error
	)
	if forUpdate {
		order, err = u.orders.FindByIDForUpdate(ctx, id)
	} else {
		order, err = u.orders.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	if order == nil || order.Position == nil {
		return nil, ErrNotFound
	}
	if err := u.authorize(ctx, order.PositionID); err != nil {
		return nil, err
	}
	return order, nil
}

// transitionOrder moves order to next and records the change.
func (u *unitOfWork) transitionOrder(ctx context.Context, order *model.Order, next model.OrderStatus, details map[string]any) error {
	if !order.Status.CanTransitionTo(next) {
		return invalidState("order %d is %s", order.ID, order.Status)
	}

	previous := order.Status
	if err := u.orders.UpdateStatus(ctx, order.ID, next); err != nil {
		return err
	}
	order.Status = next

	return u.record(ctx, model.EntityTypeOrder, order.ID, statusPtr(previous), string(next), details)
}
