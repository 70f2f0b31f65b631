package repository

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/model"
)

// StatusHistoryRepository persists the audit trail. Entries are never
// updated or deleted.
type StatusHistoryRepository struct {
	db *gorm.DB
}

func NewStatusHistoryRepository(db *gorm.DB) *StatusHistoryRepository {
	return &StatusHistoryRepository{db: db}
}

// Create appends an entry.
func (r *StatusHistoryRepository) Create(ctx context.Context, entry *model.StatusHistoryEntry) error {
	logger.WithFields(logger.Fields{
		"repo":        "StatusHistoryRepository",
		"op":          "Create",
		"entity_type": entry.EntityType,
		"entity_id":   entry.EntityID,
		"new_status":  entry.NewStatus,
		"trigger":     entry.TriggerType,
	}).Debug("Recording status transition")

	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo":        "StatusHistoryRepository",
			"op":          "Create",
			"entity_type": entry.EntityType,
			"entity_id":   entry.EntityID,
		}).WithError(err).Error("Failed to record status transition")
		return err
	}
	return nil
}

// ListByEntity returns the trail of one entity, oldest first.
func (r *StatusHistoryRepository) ListByEntity(
	ctx context.Context,
	entityType model.EntityType,
	entityID uint,
) ([]model.StatusHistoryEntry, error) {
	var entries []model.StatusHistoryEntry

	err := r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("id ASC").
		Find(&entries).Error
	if err != nil {
		logger.WithFields(logger.Fields{
			"repo":        "StatusHistoryRepository",
			"op":          "ListByEntity",
			"entity_type": entityType,
			"entity_id":   entityID,
		}).WithError(err).Error("Failed to fetch status history")
		return nil, err
	}

	return entries, nil
}
