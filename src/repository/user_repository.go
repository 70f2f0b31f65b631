package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	logger.WithField("component", "UserRepository").
		Trace("Creating new UserRepository")

	return &UserRepository{db: db}
}

// FindByID returns the user, or (nil, nil) when it does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.WithFields(logger.Fields{
			"repo": "UserRepository",
			"op":   "FindByID",
			"id":   id,
		}).WithError(err).Error("Failed to fetch user")
		return nil, err
	}

	return &u, nil
}

func (r *UserRepository) GetUserByUserName(
	ctx context.Context,
	userName string,
) (*model.User, error) {

	var u model.User
	err := r.db.WithContext(ctx).
		Where("user_name = ?", userName).
		First(&u).Error

	if err != nil {
		return nil, err
	}

	return &u, nil
}
