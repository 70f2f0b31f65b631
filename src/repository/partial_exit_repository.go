package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejournal/src/model"
)

// PartialExitRepository is the append-only exit ledger of trades.
// It has no update method.
type PartialExitRepository struct {
	db *gorm.DB
}

func NewPartialExitRepository(db *gorm.DB) *PartialExitRepository {
	return &PartialExitRepository{db: db}
}

// Create appends an exit to the ledger.
func (r *PartialExitRepository) Create(ctx context.Context, exit *model.PartialExit) error {
	logger.WithFields(logger.Fields{
		"repo":      "PartialExitRepository",
		"op":        "Create",
		"trade_id":  exit.TradeID,
		"exit_type": exit.ExitType,
		"size":      exit.Size.String(),
		"price":     exit.ExitPrice.String(),
	}).Debug("Appending partial exit")

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(exit).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo":     "PartialExitRepository",
			"op":       "Create",
			"trade_id": exit.TradeID,
		}).WithError(err).Error("Failed to append partial exit")
		return err
	}
	return nil
}

// ListByTrade returns the full ledger of a trade in insertion order. A
// backdated exited_at does not move an exit ahead of earlier bookings.
func (r *PartialExitRepository) ListByTrade(ctx context.Context, tradeID uint) ([]model.PartialExit, error) {
	var exits []model.PartialExit

	err := r.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Order("id ASC").
		Find(&exits).Error
	if err != nil {
		logger.WithFields(logger.Fields{
			"repo":     "PartialExitRepository",
			"op":       "ListByTrade",
			"trade_id": tradeID,
		}).WithError(err).Error("Failed to fetch partial exits")
		return nil, err
	}

	return exits, nil
}

// DeleteByTrade removes the whole ledger of a trade. Only used when the
// trade itself is deleted.
func (r *PartialExitRepository) DeleteByTrade(ctx context.Context, tradeID uint) error {
	return r.db.WithContext(ctx).
		Where("trade_id = ?", tradeID).
		Delete(&model.PartialExit{}).Error
}
