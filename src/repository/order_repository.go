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

// OrderRepository handles read/write operations for orders.
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a repository on the given handle.
func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// OrderSearchOptions filters orders visible to one user.
type OrderSearchOptions struct {
	UserID        uint
	AccountID     *uint
	Status        *model.OrderStatus
	Symbol        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Limit         int
	Offset        int
}

// Create inserts a new order. The position must already exist.
func (r *OrderRepository) Create(ctx context.Context, order *model.Order) error {
	logger.WithFields(logger.Fields{
		"repo":        "OrderRepository",
		"op":          "Create",
		"position_id": order.PositionID,
		"status":      order.Status,
	}).Debug("Creating new order")

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo": "OrderRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create order")
		return err
	}

	logger.WithFields(logger.Fields{
		"repo":     "OrderRepository",
		"op":       "Create",
		"order_id": order.ID,
	}).Info("Order created successfully")

	return nil
}

// FindByID fetches a single order with its position.
// Returns (nil, nil) if the order is not found.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*model.Order, error) {
	return r.find(ctx, id, false)
}

// FindByIDForUpdate is FindByID with the order row locked for the rest of
// the transaction.
func (r *OrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Order, error) {
	return r.find(ctx, id, true)
}

func (r *OrderRepository) find(ctx context.Context, id uint, forUpdate bool) (*model.Order, error) {
	logger.WithFields(logger.Fields{
		"repo":       "OrderRepository",
		"op":         "FindByID",
		"id":         id,
		"for_update": forUpdate,
	}).Debug("Fetching order by ID")

	var order model.Order

	q := r.db.WithContext(ctx)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	err := q.Preload("Position").First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(logger.Fields{
				"repo": "OrderRepository",
				"op":   "FindByID",
				"id":   id,
			}).Info("Order not found")
			return nil, nil
		}

		logger.WithFields(logger.Fields{
			"repo": "OrderRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch order by ID")
		return nil, err
	}

	return &order, nil
}

// Search lists orders owned by options.UserID, newest first.
func (r *OrderRepository) Search(ctx context.Context, options OrderSearchOptions) ([]model.Order, error) {
	logger.WithFields(logger.Fields{
		"repo":    "OrderRepository",
		"op":      "Search",
		"user_id": options.UserID,
		"limit":   options.Limit,
		"offset":  options.Offset,
	}).Debug("Searching orders")

	q := r.db.WithContext(ctx).
		Joins("JOIN positions ON positions.id = orders.position_id").
		Joins("JOIN accounts ON accounts.id = positions.account_id").
		Where("accounts.user_id = ?", options.UserID)

	if options.AccountID != nil {
		q = q.Where("positions.account_id = ?", *options.AccountID)
	}
	if options.Status != nil {
		q = q.Where("orders.status = ?", *options.Status)
	}
	if options.Symbol != nil {
		q = q.Where("positions.symbol = ?", *options.Symbol)
	}
	if options.CreatedAfter != nil {
		q = q.Where("orders.created_at >= ?", *options.CreatedAfter)
	}
	if options.CreatedBefore != nil {
		q = q.Where("orders.created_at <= ?", *options.CreatedBefore)
	}

	q = q.Order("orders.created_at DESC").Order("orders.id DESC")
	if options.Limit > 0 {
		q = q.Limit(options.Limit)
	}
	if options.Offset > 0 {
		q = q.Offset(options.Offset)
	}

	var orders []model.Order
	if err := q.Preload("Position").Find(&orders).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo":    "OrderRepository",
			"op":      "Search",
			"user_id": options.UserID,
		}).WithError(err).Error("Failed to search orders")
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"repo":        "OrderRepository",
		"op":          "Search",
		"user_id":     options.UserID,
		"rows_return": len(orders),
	}).Debug("Orders fetched")

	return orders, nil
}

// FindDuePendingIDs returns up to limit IDs of PENDING orders whose expiry
// is at or before now, in ID order starting after afterID.
func (r *OrderRepository) FindDuePendingIDs(ctx context.Context, now time.Time, afterID uint, limit int) ([]uint, error) {
	if limit <= 0 {
		limit = 500
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ? AND id > ?", model.OrderStatusPending, now, afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		logger.WithFields(logger.Fields{
			"repo":     "OrderRepository",
			"op":       "FindDuePendingIDs",
			"after_id": afterID,
		}).WithError(err).Error("Failed to fetch due orders")
		return nil, err
	}

	return ids, nil
}

// Save writes every column of the order.
func (r *OrderRepository) Save(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo": "OrderRepository",
			"op":   "Save",
			"id":   order.ID,
		}).WithError(err).Error("Failed to save order")
		return err
	}
	return nil
}

// UpdateStatus updates only the status of the given order ID.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status model.OrderStatus) error {
	logger.WithFields(logger.Fields{
		"repo":   "OrderRepository",
		"op":     "UpdateStatus",
		"id":     id,
		"status": status,
	}).Debug("Updating order status")

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
	if err != nil {
		logger.WithFields(logger.Fields{
			"repo":   "OrderRepository",
			"op":     "UpdateStatus",
			"id":     id,
			"status": status,
		}).WithError(err).Error("Failed to update order status")
		return err
	}

	logger.WithFields(logger.Fields{
		"repo":   "OrderRepository",
		"op":     "UpdateStatus",
		"id":     id,
		"status": status,
	}).Info("Order status updated successfully")

	return nil
}

// DeleteByPositionID removes the order row backed by the position, if any.
func (r *OrderRepository) DeleteByPositionID(ctx context.Context, positionID uint) error {
	err := r.db.WithContext(ctx).
		Where("position_id = ?", positionID).
		Delete(&model.Order{}).Error
	if err != nil {
		logger.WithFields(logger.Fields{
			"repo":        "OrderRepository",
			"op":          "DeleteByPositionID",
			"position_id": positionID,
		}).WithError(err).Error("Failed to delete order")
		return err
	}
	return nil
}
