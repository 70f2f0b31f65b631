package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejournal/src/model"
)

// PositionRepository handles the trade-idea rows shared by orders and trades.
type PositionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Create inserts the position and fills its ID and timestamps.
func (r *PositionRepository) Create(ctx context.Context, position *model.Position) error {
	logger.WithFields(logger.Fields{
		"repo":       "PositionRepository",
		"op":         "Create",
		"account_id": position.AccountID,
		"symbol":     position.Symbol,
		"kind":       position.Kind,
	}).Debug("Creating position")

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(position).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo": "PositionRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create position")
		return err
	}

	return nil
}

// FindByID returns the position, or (nil, nil) when it does not exist.
// When forUpdate is set the row is locked until the transaction ends.
func (r *PositionRepository) FindByID(ctx context.Context, id uint, forUpdate bool) (*model.Position, error) {
	var position model.Position

	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	if err := q.First(&position, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(logger.Fields{
			"repo": "PositionRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch position")
		return nil, err
	}

	return &position, nil
}

// FindOwnerUserID returns the user owning the account the position belongs to.
// found is false when the position does not exist.
func (r *PositionRepository) FindOwnerUserID(ctx context.Context, positionID uint) (userID uint, found bool, err error) {
	var ids []uint

	err = r.db.WithContext(ctx).
		Table("positions").
		Joins("JOIN accounts ON accounts.id = positions.account_id").
		Where("positions.id = ?", positionID).
		Limit(1).
		Pluck("accounts.user_id", &ids).Error
	if err != nil {
		logger.WithFields(logger.Fields{
			"repo":        "PositionRepository",
			"op":          "FindOwnerUserID",
			"position_id": positionID,
		}).WithError(err).Error("Failed to resolve position owner")
		return 0, false, err
	}

	if len(ids) == 0 {
		return 0, false, nil
	}
	return ids[0], true, nil
}

// Save writes every column of the position.
func (r *PositionRepository) Save(ctx context.Context, position *model.Position) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(position).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo": "PositionRepository",
			"op":   "Save",
			"id":   position.ID,
		}).WithError(err).Error("Failed to save position")
		return err
	}
	return nil
}

// UpdateKind flips the position kind.
func (r *PositionRepository) UpdateKind(ctx context.Context, id uint, kind model.PositionKind) error {
	logger.WithFields(logger.Fields{
		"repo": "PositionRepository",
		"op":   "UpdateKind",
		"id":   id,
		"kind": kind,
	}).Debug("Updating position kind")

	return r.db.WithContext(ctx).
		Model(&model.Position{}).
		Where("id = ?", id).
		Update("position_kind", kind).Error
}

// UpdateAccount moves the position to another account.
func (r *PositionRepository) UpdateAccount(ctx context.Context, id uint, accountID uint) error {
	logger.WithFields(logger.Fields{
		"repo":       "PositionRepository",
		"op":         "UpdateAccount",
		"id":         id,
		"account_id": accountID,
	}).Debug("Moving position to account")

	return r.db.WithContext(ctx).
		Model(&model.Position{}).
		Where("id = ?", id).
		Update("account_id", accountID).Error
}

// Delete removes the position row only. Dependent rows must be removed first.
func (r *PositionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Position{}, id).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo": "PositionRepository",
			"op":   "Delete",
			"id":   id,
		}).WithError(err).Error("Failed to delete position")
		return err
	}
	return nil
}
