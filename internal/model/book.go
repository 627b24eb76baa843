package model

import "time"

// Book is a title on sale. Amount is the number of copies in stock and never drops below zero.
type Book struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	Title      string        `json:"title" gorm:"size:255;not null;index"`
	Author     string        `json:"author" gorm:"size:255;not null;index"`
	Price      int           `json:"price" gorm:"not null;default:0"`
	Amount     int           `json:"amount" gorm:"not null;default:0"`
	CategoryID *uint         `json:"category_id,omitempty" gorm:"index"` // nil means uncategorized
	Category   *BookCategory `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// InStock reports whether at least one copy can be sold.
func (b *Book) InStock() bool {
	return b.Amount > 0
}
