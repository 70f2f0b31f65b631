package journal

import (
	"context"

	"tradejournal/src/model"
	"tradejournal/src/pricing"
)

// applyPatch merges patch into p, validates the merged result as a whole and
// re-derives every price from the resulting entry. Nothing is written to p
// when validation fails.
func applyPatch(p *model.Position, patch PositionPatch, sizeEditable bool) error {
	in := inputFrom(p)

	if patch.Symbol != nil {
		in.Symbol = *patch.Symbol
	}
	if patch.Direction != nil {
		in.Direction = *patch.Direction
	}
	if patch.EntryPrice != nil {
		in.EntryPrice = *patch.EntryPrice
	}
	if patch.Size != nil {
		if !sizeEditable && !patch.Size.Equal(p.Size) {
			return invalid("size", "cannot change once the trade is live")
		}
		in.Size = *patch.Size
	}
	if patch.Setup != nil {
		in.Setup = *patch.Setup
	}
	if patch.SLPoints != nil {
		in.SLPoints = *patch.SLPoints
	}
	if patch.ClearBreakEven {
		in.BEPoints = nil
		in.BESize = nil
	}
	if patch.BEPoints != nil {
		in.BEPoints = patch.BEPoints
	}
	if patch.BESize != nil {
		in.BESize = patch.BESize
	}
	if patch.Targets != nil {
		in.Targets = *patch.Targets
	}
	if patch.Notes != nil {
		in.Notes = patch.Notes
	}

	if err := validatePosition(in); err != nil {
		return err
	}

	applyInput(p, in)
	pricing.Derive(p)
	return nil
}

// TransferPosition moves a position, with its order or trade, to another
// account of the same user. The move is audited on the POSITION entity.
func (e *Engine) TransferPosition(ctx context.Context, actor Actor, positionID, toAccountID uint) (*model.Position, error) {
	var position *model.Position

	err := e.run(ctx, "transfer_position", actor, func(ctx context.Context, u *unitOfWork) error {
		var err error
		position, err = u.positions.FindByID(ctx, positionID, true)
		if err != nil {
			return err
		}
		if position == nil {
			return ErrNotFound
		}
		if err := u.authorize(ctx, position.ID); err != nil {
			return err
		}
		if _, err := u.ownedAccount(ctx, toAccountID); err != nil {
			return err
		}
		if position.AccountID == toAccountID {
			return invalid("to_account_id", "position already belongs to this account")
		}

		from := position.AccountID
		if err := u.positions.UpdateAccount(ctx, position.ID, toAccountID); err != nil {
			return err
		}
		position.AccountID = toAccountID

		return u.record(ctx, model.EntityTypePosition, position.ID, statusPtr(position.Kind), string(position.Kind), map[string]any{
			"from_account_id": from,
			"to_account_id":   toAccountID,
		})
	})
	if err != nil {
		return nil, err
	}
	return position, nil
}
