package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	apperrors "webshop/internal/errors"
	"webshop/internal/model"
	"webshop/internal/repository"
	"webshop/internal/session"
)

// AdminService holds the privileged operations. Each takes the acting user's
// id first and fails with ErrUnauthorized, without side effects, unless that
// user is an administrator.
type AdminService interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)

	AddBook(ctx context.Context, adminID, bookID uint, title, author string, price, amount int) (*model.Book, error)
	SetAmount(ctx context.Context, adminID, bookID uint, amount int) (*model.Book, error)
	UpdateBook(ctx context.Context, adminID, bookID uint, title, author string, price int) (*model.Book, error)
	DeleteBook(ctx context.Context, adminID, bookID uint) error
	AddBookToCategory(ctx context.Context, adminID, bookID, categoryID uint) (*model.Book, error)

	AddCategory(ctx context.Context, adminID uint, name string) (*model.BookCategory, error)
	UpdateCategory(ctx context.Context, adminID, categoryID uint, name string) (*model.BookCategory, error)
	DeleteCategory(ctx context.Context, adminID, categoryID uint) error

	ListUsers(ctx context.Context, adminID uint) ([]model.User, error)
	FindUser(ctx context.Context, adminID uint, keyword string) ([]model.User, error)
	AddUser(ctx context.Context, adminID uint, name, password string) (*model.User, error)

	ListSales(ctx context.Context, adminID uint) ([]model.SoldBook, error)
}

type adminService struct {
	store    repository.Store
	sessions *session.Tracker
	logger   zerolog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(store repository.Store, sessions *session.Tracker, logger zerolog.Logger) AdminService {
	return &adminService{
		store:    store,
		sessions: sessions,
		logger:   logger.With().Str("component", "admin").Logger(),
	}
}

// IsAdmin reports whether userID names an existing administrator.
// Unknown users are not administrators.
func (s *adminService) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find user: %w", err)
	}
	return user.IsAdmin, nil
}

func (s *adminService) authorize(ctx context.Context, adminID uint) error {
	s.sessions.Touch(ctx, adminID)

	ok, err := s.IsAdmin(ctx, adminID)
	if err != nil {
		return err
	}
	if !ok {
		s.logger.Warn().Uint("user_id", adminID).Msg("admin operation denied")
		return apperrors.ErrUnauthorized
	}
	return nil
}

func validateBook(title string, price int) error {
	if title == "" {
		return apperrors.ErrInvalidInput
	}
	if price < 0 {
		return apperrors.ErrInvalidPrice
	}
	return nil
}

// AddBook adds amount copies to the book with this id and exact title, or
// inserts a new book with a fresh id when there is none.
func (s *adminService) AddBook(ctx context.Context, adminID, bookID uint, title, author string, price, amount int) (*model.Book, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	if err := validateBook(title, price); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var book *model.Book
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		existing, err := tx.Books().FindByIDAndTitle(ctx, bookID, title)
		if err == nil {
			if err := tx.Books().AddAmount(ctx, existing.ID, amount); err != nil {
				return fmt.Errorf("add stock: %w", err)
			}
			book, err = tx.Books().FindByID(ctx, existing.ID)
			return translate(err, apperrors.ErrBookNotFound, "reload book")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find book: %w", err)
		}

		book = &model.Book{Title: title, Author: author, Price: price, Amount: amount}
		if err := tx.Books().Create(ctx, book); err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return book, nil
}

// SetAmount overwrites the stock of a book.
func (s *adminService) SetAmount(ctx context.Context, adminID, bookID uint, amount int) (*model.Book, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	var book *model.Book
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if err := tx.Books().SetAmount(ctx, bookID, amount); err != nil {
			return translate(err, apperrors.ErrBookNotFound, "set stock")
		}
		var err error
		book, err = tx.Books().FindByID(ctx, bookID)
		return translate(err, apperrors.ErrBookNotFound, "reload book")
	})
	if err != nil {
		return nil, err
	}

	return book, nil
}

// UpdateBook overwrites title, author and price. Stock is left alone.
func (s *adminService) UpdateBook(ctx context.Context, adminID, bookID uint, title, author string, price int) (*model.Book, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	if err := validateBook(title, price); err != nil {
		return nil, err
	}

	var book *model.Book
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		var err error
		book, err = tx.Books().FindByIDForUpdate(ctx, bookID)
		if err != nil {
			return translate(err, apperrors.ErrBookNotFound, "find book")
		}
		book.Title = title
		book.Author = author
		book.Price = price
		if err := tx.Books().Update(ctx, book); err != nil {
			return fmt.Errorf("update book: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return book, nil
}

// DeleteBook removes a book. Sale records keep their copy of it.
func (s *adminService) DeleteBook(ctx context.Context, adminID, bookID uint) error {
	if err := s.authorize(ctx, adminID); err != nil {
		return err
	}
	if err := s.store.Books().Delete(ctx, bookID); err != nil {
		return translate(err, apperrors.ErrBookNotFound, "delete book")
	}
	return nil
}

// AddBookToCategory moves a book into a category.
func (s *adminService) AddBookToCategory(ctx context.Context, adminID, bookID, categoryID uint) (*model.Book, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}

	var book *model.Book
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Books().FindByID(ctx, bookID); err != nil {
			return translate(err, apperrors.ErrBookNotFound, "find book")
		}
		// The category lock orders this against a concurrent DeleteCategory.
		if _, err := tx.Categories().FindByIDForUpdate(ctx, categoryID); err != nil {
			return translate(err, apperrors.ErrCategoryNotFound, "find category")
		}
		if err := tx.Books().SetCategory(ctx, bookID, &categoryID); err != nil {
			return translate(err, apperrors.ErrBookNotFound, "set category")
		}
		var err error
		book, err = tx.Books().FindByID(ctx, bookID)
		return translate(err, apperrors.ErrBookNotFound, "reload book")
	})
	if err != nil {
		return nil, err
	}

	return book, nil
}

// AddCategory inserts a category unless one with exactly this name exists.
func (s *adminService) AddCategory(ctx context.Context, adminID uint, name string) (*model.BookCategory, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.ErrInvalidInput
	}

	if _, err := s.store.Categories().FindByName(ctx, name); err == nil {
		return nil, apperrors.ErrDuplicateCategory
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find category: %w", err)
	}

	category := &model.BookCategory{Name: name}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, categoryWriteError(err, "create category")
	}
	return category, nil
}

// UpdateCategory renames a category.
func (s *adminService) UpdateCategory(ctx context.Context, adminID, categoryID uint, name string) (*model.BookCategory, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, apperrors.ErrInvalidInput
	}

	category, err := s.store.Categories().FindByID(ctx, categoryID)
	if err != nil {
		return nil, translate(err, apperrors.ErrCategoryNotFound, "find category")
	}

	other, err := s.store.Categories().FindByName(ctx, name)
	switch {
	case err == nil && other.ID != category.ID:
		return nil, apperrors.ErrDuplicateCategory
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find category: %w", err)
	}

	category.Name = name
	if err := s.store.Categories().Update(ctx, category); err != nil {
		return nil, categoryWriteError(err, "update category")
	}
	return category, nil
}

// DeleteCategory removes a category that no book references.
func (s *adminService) DeleteCategory(ctx context.Context, adminID, categoryID uint) error {
	if err := s.authorize(ctx, adminID); err != nil {
		return err
	}

	return s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Categories().FindByIDForUpdate(ctx, categoryID); err != nil {
			return translate(err, apperrors.ErrCategoryNotFound, "find category")
		}
		count, err := tx.Books().CountByCategory(ctx, categoryID)
		if err != nil {
			return fmt.Errorf("count books: %w", err)
		}
		if count > 0 {
			return apperrors.ErrCategoryInUse
		}
		if err := tx.Categories().Delete(ctx, categoryID); err != nil {
			return translate(err, apperrors.ErrCategoryNotFound, "delete category")
		}
		return nil
	})
}

// categoryWriteError reports a unique index violation as a duplicate name.
func categoryWriteError(err error, op string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrDuplicateCategory
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *adminService) ListUsers(ctx context.Context, adminID uint) ([]model.User, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *adminService) FindUser(ctx context.Context, adminID uint, keyword string) ([]model.User, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	users, err := s.store.Users().SearchByName(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return users, nil
}

// AddUser creates an active customer account. It never grants admin rights.
func (s *adminService) AddUser(ctx context.Context, adminID uint, name, password string) (*model.User, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	if name == "" || password == "" {
		return nil, apperrors.ErrInvalidInput
	}
	user, err := createUser(ctx, s.store.Users(), name, password)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Uint("admin_id", adminID).Uint("user_id", user.ID).Msg("user added")
	return user, nil
}

// ListSales returns every sale, newest first.
func (s *adminService) ListSales(ctx context.Context, adminID uint) ([]model.SoldBook, error) {
	if err := s.authorize(ctx, adminID); err != nil {
		return nil, err
	}
	sales, err := s.store.SoldBooks().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}
