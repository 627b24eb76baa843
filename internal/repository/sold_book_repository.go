package repository

import (
	"context"

	"gorm.io/gorm"

	"webshop/internal/model"
)

// SoldBookRepository defines sale record persistence operations.
// Sale records are append-only.
type SoldBookRepository interface {
	Create(ctx context.Context, sale *model.SoldBook) error
	ListByUser(ctx context.Context, userID uint) ([]model.SoldBook, error)
	List(ctx context.Context) ([]model.SoldBook, error)
}

type soldBookRepository struct {
	db *gorm.DB
}

// NewSoldBookRepository creates a new sale record repository.
func NewSoldBookRepository(db *gorm.DB) SoldBookRepository {
	return &soldBookRepository{db: db}
}

// Create creates a new sale record.
func (r *soldBookRepository) Create(ctx context.Context, sale *model.SoldBook) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

// ListByUser lists the purchases of a user, newest first.
func (r *soldBookRepository) ListByUser(ctx context.Context, userID uint) ([]model.SoldBook, error) {
	var sales []model.SoldBook
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("purchase_date DESC").Order("id DESC").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// List lists every sale, newest first.
func (r *soldBookRepository) List(ctx context.Context) ([]model.SoldBook, error) {
	var sales []model.SoldBook
	if err := r.db.WithContext(ctx).Order("purchase_date DESC").Order("id DESC").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}
