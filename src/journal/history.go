package journal

import (
	"context"

	"tradejournal/src/model"
)

// ListStatusHistory returns the audit trail of one entity, oldest first.
// Orders, trades and positions are guarded through their position; accounts
// directly.
func (e *Engine) ListStatusHistory(ctx context.Context, actor Actor, entityType model.EntityType, entityID uint) ([]model.StatusHistoryEntry, error) {
	var entries []model.StatusHistoryEntry

	err := e.run(ctx, "list_status_history", actor, func(ctx context.Context, u *unitOfWork) error {
		switch entityType {
		case model.EntityTypeOrder:
			if _, err := u.loadOrder(ctx, entityID, false); err != nil {
				return err
			}
		case model.EntityTypeTrade:
			if _, err := u.loadTrade(ctx, entityID, false); err != nil {
				return err
			}
		case model.EntityTypePosition:
			if err := u.authorize(ctx, entityID); err != nil {
				return err
			}
		case model.EntityTypeAccount:
			if _, err := u.ownedAccount(ctx, entityID); err != nil {
				return err
			}
		default:
			return invalid("entity_type", "must be one of ORDER, TRADE, ACCOUNT, POSITION")
		}

		var err error
		entries, err = u.history.ListByEntity(ctx, entityType, entityID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
