package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"webshop/internal/model"
)

// CategoryRepository defines book category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.BookCategory) error
	Update(ctx context.Context, category *model.BookCategory) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.BookCategory, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.BookCategory, error)
	// FindByName matches the name exactly. Case variants are distinct names.
	FindByName(ctx context.Context, name string) (*model.BookCategory, error)
	List(ctx context.Context) ([]model.BookCategory, error)
	SearchByName(ctx context.Context, keyword string) ([]model.BookCategory, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.BookCategory) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, category *model.BookCategory) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.BookCategory{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.BookCategory, error) {
	var category model.BookCategory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.BookCategory, error) {
	var candidates []model.BookCategory
	if err := r.db.WithContext(ctx).Where("name = ?", name).Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Name == name {
			return &candidates[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *categoryRepository) List(ctx context.Context) ([]model.BookCategory, error) {
	var categories []model.BookCategory
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) SearchByName(ctx context.Context, keyword string) ([]model.BookCategory, error) {
	var categories []model.BookCategory
	if err := r.db.WithContext(ctx).Where(containsClause("name"), containsPattern(keyword)).
		Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindByIDForUpdate finds a category by ID with row-level lock for update.
func (r *categoryRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.BookCategory, error) {
	var category model.BookCategory
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
