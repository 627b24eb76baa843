package session

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"webshop/internal/model"
)

// GormStore keeps session activity in the users.session_activity column.
// NULL means there is no session.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore builds a database-backed session store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Begin(ctx context.Context, userID uint, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("session_activity", at).Error
}

func (s *GormStore) Active(ctx context.Context, userID uint, since time.Time) (bool, error) {
	var user model.User
	err := s.db.WithContext(ctx).Select("id", "session_activity").
		Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.SessionActivity != nil && !user.SessionActivity.Before(since), nil
}

func (s *GormStore) Refresh(ctx context.Context, userID uint, at, since time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND session_activity IS NOT NULL AND session_activity >= ?", userID, since).
		Update("session_activity", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *GormStore) End(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("session_activity", nil).Error
}
