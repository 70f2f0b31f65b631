package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/model"
)

// AccountRepository reads accounts. Accounts are owned by the account
// directory; the journal only needs existence and ownership.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts an account. Used by seeding and tests.
func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(account).Error; err != nil {
		logger.WithFields(logger.Fields{
			"repo":    "AccountRepository",
			"op":      "Create",
			"user_id": account.UserID,
		}).WithError(err).Error("Failed to create account")
		return err
	}
	return nil
}

// FindByID returns the account, or (nil, nil) when it does not exist or was
// soft-deleted.
func (r *AccountRepository) FindByID(ctx context.Context, id uint) (*model.Account, error) {
	var account model.Account

	err := r.db.WithContext(ctx).First(&account, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(logger.Fields{
				"repo": "AccountRepository",
				"op":   "FindByID",
				"id":   id,
			}).Debug("Account not found")
			return nil, nil
		}

		logger.WithFields(logger.Fields{
			"repo": "AccountRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch account")
		return nil, err
	}

	return &account, nil
}
