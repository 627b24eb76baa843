package model

import "time"

// SoldBook is an immutable record of a sale. It copies the book fields at the
// time of purchase, so later edits to the book leave the history unchanged.
type SoldBook struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	BookID       uint      `json:"book_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"size:255;not null"`
	Author       string    `json:"author" gorm:"size:255;not null"`
	CategoryID   *uint     `json:"category_id,omitempty"`
	Price        int       `json:"price" gorm:"not null"`
	PurchaseDate time.Time `json:"purchase_date" gorm:"not null;index"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
}

// NewSale snapshots book for a purchase made by userID at the given time.
func NewSale(book *Book, userID uint, at time.Time) *SoldBook {
	sale := &SoldBook{
		BookID:       book.ID,
		Title:        book.Title,
		Author:       book.Author,
		Price:        book.Price,
		PurchaseDate: at,
		UserID:       userID,
	}
	if book.CategoryID != nil {
		id := *book.CategoryID
		sale.CategoryID = &id
	}
	return sale
}
