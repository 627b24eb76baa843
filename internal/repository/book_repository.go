package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"webshop/internal/model"
)

// BookRepository defines book persistence operations.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Book, error)
	// FindByIDForUpdate locks the row for the rest of the transaction where the dialect supports it.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Book, error)
	// FindByIDAndTitle matches the title exactly, independent of collation.
	FindByIDAndTitle(ctx context.Context, id uint, title string) (*model.Book, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]model.Book, error)
	ListAvailableByCategory(ctx context.Context, categoryID uint) ([]model.Book, error)
	SearchByTitle(ctx context.Context, keyword string) ([]model.Book, error)
	SearchByAuthor(ctx context.Context, keyword string) ([]model.Book, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
	AddAmount(ctx context.Context, id uint, delta int) error
	SetAmount(ctx context.Context, id uint, amount int) error
	SetCategory(ctx context.Context, id uint, categoryID *uint) error
	// DecrementAmount removes one copy from stock. It reports false, without
	// error, when the book has no copies left.
	DecrementAmount(ctx context.Context, id uint) (bool, error)
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository.
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// Create creates a new book.
func (r *bookRepository) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

// Update updates an existing book.
func (r *bookRepository) Update(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Save(book).Error
}

// Delete removes a book by ID.
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a book by ID.
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// FindByIDForUpdate finds a book by ID with row-level lock for update.
func (r *bookRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Book, error) {
	var book model.Book
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&book).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) FindByIDAndTitle(ctx context.Context, id uint, title string) (*model.Book, error) {
	book, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.Title != title {
		return nil, gorm.ErrRecordNotFound
	}
	return book, nil
}

// ListByCategory lists the books of a category by title.
func (r *bookRepository) ListByCategory(ctx context.Context, categoryID uint) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).
		Order("title").Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// ListAvailableByCategory lists the in-stock books of a category by title.
func (r *bookRepository) ListAvailableByCategory(ctx context.Context, categoryID uint) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Where("category_id = ? AND amount > 0", categoryID).
		Order("title").Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bookRepository) SearchByTitle(ctx context.Context, keyword string) ([]model.Book, error) {
	return r.search(ctx, "title", keyword)
}

func (r *bookRepository) SearchByAuthor(ctx context.Context, keyword string) ([]model.Book, error) {
	return r.search(ctx, "author", keyword)
}

func (r *bookRepository) search(ctx context.Context, column, keyword string) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Where(containsClause(column), containsPattern(keyword)).
		Order("title").Order("id").Find(&books).Error; err != nil {
		return nil, err
	}
	return books, nil
}

// CountByCategory counts the books referencing a category.
func (r *bookRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddAmount adds delta copies to the stock of a book.
func (r *bookRepository) AddAmount(ctx context.Context, id uint, delta int) error {
	return r.updateColumn(ctx, id, "amount", gorm.Expr("amount + ?", delta))
}

// SetAmount overwrites the stock of a book.
func (r *bookRepository) SetAmount(ctx context.Context, id uint, amount int) error {
	return r.updateColumn(ctx, id, "amount", amount)
}

// SetCategory moves a book to a category, or out of any category when categoryID is nil.
func (r *bookRepository) SetCategory(ctx context.Context, id uint, categoryID *uint) error {
	return r.updateColumn(ctx, id, "category_id", categoryID)
}

func (r *bookRepository) updateColumn(ctx context.Context, id uint, column string, value interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *bookRepository) DecrementAmount(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Book{}).
		Where("id = ? AND amount > 0", id).
		Update("amount", gorm.Expr("amount - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
