package model

// BookCategory groups books. Names are unique.
type BookCategory struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:255;not null;uniqueIndex"`
}
