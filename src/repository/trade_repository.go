package repository

import (
	"context"
	"errors"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tradejournal/src/model"
)

// TradeRepository handles read/write operations for trades.
type TradeRepository struct {
	db *gorm.DB
}

func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// TradeSearchOptions filters trades visible to one user.
type TradeSearchOptions struct {
	UserID       uint
	AccountID    *uint
	Status       *model.TradeStatus
	Symbol       *string
	OpenedAfter  *time.Time
	OpenedBefore *time.Time
	Limit        int
	Offset       int
}

// Create inserts a new trade. The position must already exist.
func (r *TradeRepository) Create(ctx context.Context, trade *model.Trade) error {
	logger.WithFields(logger.Fields{
		"repo":        "TradeRepository",
		"op":          "Create",
		"position_id": trade.PositionID,
		"status":      trade.Status,
	}).Debug("Creating new trade")

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(trade).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo": "TradeRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create trade")
		return err
	}

	logger.WithFields(logger.Fields{
		"repo":     "TradeRepository",
		"op":       "Create",
		"trade_id": trade.ID,
	}).Info("Trade created successfully")

	return nil
}

// FindByID fetches a trade with its position. Returns (nil, nil) if missing.
func (r *TradeRepository) FindByID(ctx context.Context, id uint) (*model.Trade, error) {
	return r.find(ctx, id, false)
}

// FindByIDForUpdate is FindByID with the trade row locked until the
// transaction ends, so concurrent closes of one trade run one after another.
func (r *TradeRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Trade, error) {
	return r.find(ctx, id, true)
}

func (r *TradeRepository) find(ctx context.Context, id uint, forUpdate bool) (*model.Trade, error) {
	logger.WithFields(logger.Fields{
		"repo":       "TradeRepository",
		"op":         "FindByID",
		"id":         id,
		"for_update": forUpdate,
	}).Debug("Fetching trade by ID")

	var trade model.Trade

	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.Preload("Position").First(&trade, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(logger.Fields{
				"repo": "TradeRepository",
				"op":   "FindByID",
				"id":   id,
			}).Info("Trade not found")
			return nil, nil
		}

		logger.WithFields(logger.Fields{
			"repo": "TradeRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch trade by ID")
		return nil, err
	}

	return &trade, nil
}

// Search lists trades owned by options.UserID, most recently opened first.
func (r *TradeRepository) Search(ctx context.Context, options TradeSearchOptions) ([]model.Trade, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN positions ON positions.id = trades.position_id").
		Joins("JOIN accounts ON accounts.id = positions.account_id").
		Where("accounts.user_id = ?", options.UserID)

	if options.AccountID != nil {
		q = q.Where("positions.account_id = ?", *options.AccountID)
	}
	if options.Status != nil {
		q = q.Where("trades.status = ?", *options.Status)
	}
	if options.Symbol != nil {
		q = q.Where("positions.symbol = ?", *options.Symbol)
	}
	if options.OpenedAfter != nil {
		q = q.Where("trades.opened_at >= ?", *options.OpenedAfter)
	}
	if options.OpenedBefore != nil {
		q = q.Where("trades.opened_at <= ?", *options.OpenedBefore)
	}

	q = q.Order("trades.opened_at DESC").Order("trades.id DESC")
	if options.Limit > 0 {
		q = q.Limit(options.Limit)
	}
	if options.Offset > 0 {
		q = q.Offset(options.Offset)
	}

	var trades []model.Trade
	if err := q.Preload("Position").Find(&trades).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo":    "TradeRepository",
			"op":      "Search",
			"user_id": options.UserID,
		}).WithError(err).Error("Failed to search trades")
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"repo":        "TradeRepository",
		"op":          "Search",
		"user_id":     options.UserID,
		"rows_return": len(trades),
	}).Debug("Trades fetched")

	return trades, nil
}

// Save writes every column of the trade.
func (r *TradeRepository) Save(ctx context.Context, trade *model.Trade) error {
	logger.WithFields(logger.Fields{
		"repo":           "TradeRepository",
		"op":             "Save",
		"id":             trade.ID,
		"status":         trade.Status,
		"remaining_size": trade.RemainingSize.String(),
	}).Debug("Saving trade")

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(trade).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo": "TradeRepository",
			"op":   "Save",
			"id":   trade.ID,
		}).WithError(err).Error("Failed to save trade")
		return err
	}
	return nil
}

// DeleteByPositionID removes the trade row backed by the position, if any.
func (r *TradeRepository) DeleteByPositionID(ctx context.Context, positionID uint) error {
	err := r.db.WithContext(ctx).
		Where("position_id = ?", positionID).
		Delete(&model.Trade{}).Error
	if err != nil {
		logger.WithFields(logger.Fields{
			"repo":        "TradeRepository",
			"op":          "DeleteByPositionID",
			"position_id": positionID,
		}).WithError(err).Error("Failed to delete trade")
		return err
	}
	return nil
}
