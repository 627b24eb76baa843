package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	apperrors "webshop/internal/errors"
	"webshop/internal/events"
	"webshop/internal/model"
	"webshop/internal/repository"
	"webshop/internal/session"
)

// PurchaseService handles buying books and purchase history.
type PurchaseService interface {
	BuyBook(ctx context.Context, userID, bookID uint) (*model.SoldBook, error)
	ListPurchases(ctx context.Context, userID uint) ([]model.SoldBook, error)
}

type purchaseService struct {
	store     repository.Store
	sessions  *session.Tracker
	publisher events.Publisher
	logger    zerolog.Logger
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(
	store repository.Store,
	sessions *session.Tracker,
	publisher events.Publisher,
	logger zerolog.Logger,
) PurchaseService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &purchaseService{
		store:     store,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger.With().Str("component", "purchase").Logger(),
	}
}

// BuyBook sells one copy of a book to a user. The sale record and the stock
// decrement commit together, and the book row stays locked in between.
func (s *purchaseService) BuyBook(ctx context.Context, userID, bookID uint) (*model.SoldBook, error) {
	s.sessions.Touch(ctx, userID)

	var sale *model.SoldBook
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		if _, err := tx.Users().FindByID(ctx, userID); err != nil {
			return translate(err, apperrors.ErrUserNotFound, "find user")
		}

		book, err := tx.Books().FindByIDForUpdate(ctx, bookID)
		if err != nil {
			return translate(err, apperrors.ErrBookNotFound, "find book")
		}
		if !book.InStock() {
			return apperrors.ErrOutOfStock
		}

		sale = model.NewSale(book, userID, s.sessions.Now())
		if err := tx.SoldBooks().Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}

		decremented, err := tx.Books().DecrementAmount(ctx, bookID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if !decremented {
			return apperrors.ErrOutOfStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.PublishSale(ctx, sale); err != nil {
		s.logger.Error().Err(err).Uint("sale_id", sale.ID).Msg("publish sale event")
	}
	s.logger.Info().Uint("user_id", userID).Uint("book_id", bookID).Uint("sale_id", sale.ID).Msg("book sold")

	return sale, nil
}

// ListPurchases returns the purchases of a user, newest first.
func (s *purchaseService) ListPurchases(ctx context.Context, userID uint) ([]model.SoldBook, error) {
	s.sessions.Touch(ctx, userID)

	if _, err := s.store.Users().FindByID(ctx, userID); err != nil {
		return nil, translate(err, apperrors.ErrUserNotFound, "find user")
	}
	sales, err := s.store.SoldBooks().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return sales, nil
}
