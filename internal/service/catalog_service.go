package service

import (
	"context"
	"fmt"

	apperrors "webshop/internal/errors"
	"webshop/internal/model"
	"webshop/internal/repository"
)

// CatalogService exposes read-only browsing of books and categories.
// Keyword searches are substring matches.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]model.BookCategory, error)
	SearchCategories(ctx context.Context, keyword string) ([]model.BookCategory, error)
	ListBooksInCategory(ctx context.Context, categoryID uint) ([]model.Book, error)
	// ListAvailableBooks lists the books of a category that are in stock.
	ListAvailableBooks(ctx context.Context, categoryID uint) ([]model.Book, error)
	GetBook(ctx context.Context, id uint) (*model.Book, error)
	SearchBooksByTitle(ctx context.Context, keyword string) ([]model.Book, error)
	SearchBooksByAuthor(ctx context.Context, keyword string) ([]model.Book, error)
}

type catalogService struct {
	store repository.Store
}

// NewCatalogService builds a CatalogService. Every read goes to the store.
func NewCatalogService(store repository.Store) CatalogService {
	return &catalogService{store: store}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.BookCategory, error) {
	categories, err := s.store.Categories().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) SearchCategories(ctx context.Context, keyword string) ([]model.BookCategory, error) {
	categories, err := s.store.Categories().SearchByName(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) ListBooksInCategory(ctx context.Context, categoryID uint) ([]model.Book, error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	books, err := s.store.Books().ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *catalogService) ListAvailableBooks(ctx context.Context, categoryID uint) ([]model.Book, error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	books, err := s.store.Books().ListAvailableByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list available books: %w", err)
	}
	return books, nil
}

func (s *catalogService) requireCategory(ctx context.Context, categoryID uint) error {
	_, err := s.store.Categories().FindByID(ctx, categoryID)
	return translate(err, apperrors.ErrCategoryNotFound, "find category")
}

func (s *catalogService) GetBook(ctx context.Context, id uint) (*model.Book, error) {
	book, err := s.store.Books().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, apperrors.ErrBookNotFound, "find book")
	}
	return book, nil
}

func (s *catalogService) SearchBooksByTitle(ctx context.Context, keyword string) ([]model.Book, error) {
	books, err := s.store.Books().SearchByTitle(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search books by title: %w", err)
	}
	return books, nil
}

func (s *catalogService) SearchBooksByAuthor(ctx context.Context, keyword string) ([]model.Book, error) {
	books, err := s.store.Books().SearchByAuthor(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("search books by author: %w", err)
	}
	return books, nil
}
