package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"webshop/internal/model"
)

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	// FindByName returns users whose name equals name exactly, lowest id first.
	FindByName(ctx context.Context, name string) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SearchByName(ctx context.Context, keyword string) ([]model.User, error)
	RecordLogin(ctx context.Context, id uint, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByName(ctx context.Context, name string) ([]model.User, error) {
	var candidates []model.User
	if err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").Find(&candidates).Error; err != nil {
		return nil, err
	}
	// Case-insensitive collations match more rows than an exact comparison.
	users := candidates[:0]
	for _, u := range candidates {
		if u.Name == name {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) SearchByName(ctx context.Context, keyword string) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where(containsClause("name"), containsPattern(keyword)).
		Order("name").Order("id").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// RecordLogin stores the last-login timestamp of a user.
func (r *userRepository) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("last_login", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
